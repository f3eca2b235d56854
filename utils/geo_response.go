package utils

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Geo is the nested geo-metadata of a GeoResponse. A nil pointer means the
// key was absent from the payload (or carried an unusable value).
type Geo struct {
	ASName      *string `json:"as_name,omitempty"`
	ASNumber    *uint64 `json:"as_number,omitempty"`
	Country     *string `json:"country,omitempty"`
	CountryCode *string `json:"country_code,omitempty"`
	City        *string `json:"city,omitempty"`
}

// GeoResponse is the payload returned by a geolocation endpoint
type GeoResponse struct {
	IP  *string `json:"ip,omitempty"`
	Geo *Geo    `json:"geo,omitempty"`
}

// DecodeGeoResponse parses an endpoint body. Only a body that is not a JSON
// object is an error; every field is optional and values of the wrong type
// are dropped.
func DecodeGeoResponse(body []byte) (*GeoResponse, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, &ResponseError{Reason: fmt.Sprintf("cannot parse a response: %v", err)}
	}
	if fields == nil {
		return nil, &ResponseError{Reason: "response is not a JSON object"}
	}

	resp := &GeoResponse{
		IP: optString(fields["ip"]),
	}

	raw, ok := fields["geo"]
	if !ok {
		return resp, nil
	}

	var geo map[string]json.RawMessage
	if err := json.Unmarshal(raw, &geo); err != nil || geo == nil {
		return resp, nil
	}

	resp.Geo = &Geo{
		ASName:      optString(geo["as_name"]),
		ASNumber:    optNumber(geo["as_number"]),
		Country:     optString(geo["country"]),
		CountryCode: optString(geo["country_code"]),
		City:        optString(geo["city"]),
	}

	return resp, nil
}

func optString(raw json.RawMessage) *string {
	if raw == nil || strings.TrimSpace(string(raw)) == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}

	return &s
}

// optNumber accepts 210083 as well as "210083", 210083.0 and 2.1e5.
// Fractional and negative values are dropped.
func optNumber(raw json.RawMessage) *uint64 {
	if raw == nil {
		return nil
	}

	text := strings.TrimSpace(string(raw))
	if s := optString(raw); s != nil {
		text = strings.TrimSpace(*s)
	}

	if n, err := strconv.ParseUint(text, 10, 64); err == nil {
		return &n
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil || f < 0 || f != math.Trunc(f) || f > math.MaxUint32 {
		return nil
	}

	n := uint64(f)
	return &n
}

func (r *GeoResponse) Address() (string, bool) {
	if r == nil || r.IP == nil {
		return "", false
	}
	return *r.IP, true
}

// ISP returns "{as_name} (ASN {as_number})" when both parts are present
func (r *GeoResponse) ISP() (string, bool) {
	if r == nil || r.Geo == nil || r.Geo.ASName == nil || r.Geo.ASNumber == nil {
		return "", false
	}
	return fmt.Sprintf("%s (ASN %d)", *r.Geo.ASName, *r.Geo.ASNumber), true
}

// Country returns the country name and its ISO code when both are present
func (r *GeoResponse) Country() (name string, code string, ok bool) {
	if r == nil || r.Geo == nil || r.Geo.Country == nil || r.Geo.CountryCode == nil {
		return "", "", false
	}
	return *r.Geo.Country, *r.Geo.CountryCode, true
}

func (r *GeoResponse) CityName() (string, bool) {
	if r == nil || r.Geo == nil || r.Geo.City == nil {
		return "", false
	}
	return *r.Geo.City, true
}
