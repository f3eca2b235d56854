package provider

import (
	"context"
	"fmt"

	"github.com/cloud66-oss/myip/utils"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

const DefaultUserAgent = "myip"

// HTTPProvider fetches endpoints over HTTP. Requests are never retried and
// have no timeout of their own; the caller's context bounds them.
type HTTPProvider struct {
	cli *resty.Client
}

func NewHTTPProvider(_ context.Context, userAgent string) (*HTTPProvider, error) {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	cli := resty.New().
		SetRetryCount(0).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", userAgent)

	return &HTTPProvider{cli: cli}, nil
}

func (p *HTTPProvider) Fetch(ctx context.Context, endpointURL string) (*utils.GeoResponse, error) {
	log.Trace().Str("url", endpointURL).Msg("fetching")

	resp, err := p.cli.R().
		SetContext(ctx).
		Get(endpointURL)
	if err != nil {
		return nil, &utils.EndpointError{URL: endpointURL, Err: err}
	}

	if !resp.IsSuccess() {
		return nil, &utils.EndpointError{
			URL:        endpointURL,
			StatusCode: resp.StatusCode(),
			Err:        fmt.Errorf("unexpected status code: %d", resp.StatusCode()),
		}
	}

	data, err := utils.DecodeGeoResponse(resp.Body())
	if err != nil {
		return nil, &utils.EndpointError{URL: endpointURL, StatusCode: resp.StatusCode(), Err: err}
	}

	return data, nil
}
