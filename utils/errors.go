package utils

import "fmt"

// EndpointError covers every way a geolocation endpoint can fail us:
// transport errors, non-2xx statuses and unusable bodies.
type EndpointError struct {
	URL        string
	StatusCode int
	Err        error
}

type ResponseError struct {
	Reason string
}

type UnknownVersionError struct {
	Version string
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func (e *EndpointError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("endpoint %s failed (status %d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("endpoint %s failed: %v", e.URL, e.Err)
}

func (e *EndpointError) Unwrap() error {
	return e.Err
}

func (e *ResponseError) Error() string {
	return "invalid response: " + e.Reason
}

func (e *UnknownVersionError) Error() string {
	return fmt.Sprintf("unknown IP version %q", e.Version)
}
