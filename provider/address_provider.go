package provider

import (
	"context"

	"github.com/cloud66-oss/myip/utils"
)

// AddressProvider fetches the geolocation payload served by an endpoint
type AddressProvider interface {
	Fetch(ctx context.Context, endpointURL string) (*utils.GeoResponse, error)
}
