// Package panel loads the IPv4 and IPv6 geolocation endpoints and writes the
// results into the address panels of a page document.
package panel

import (
	"context"
	"sync"

	"github.com/cloud66-oss/myip/page"
	"github.com/cloud66-oss/myip/provider"
	"github.com/cloud66-oss/myip/utils"
	"github.com/rs/zerolog/log"
)

// Config names the endpoint each version's panel is loaded from
type Config struct {
	V4Host string `json:"v4_host"`
	V6Host string `json:"v6_host"`
}

// Renderer fills the address panels of one document
type Renderer struct {
	config   Config
	provider provider.AddressProvider
	doc      *page.Document
}

func NewRenderer(config Config, p provider.AddressProvider, doc *page.Document) *Renderer {
	return &Renderer{
		config:   config,
		provider: p,
		doc:      doc,
	}
}

func (r *Renderer) Document() *page.Document {
	return r.doc
}

// LoadAddress fetches endpointURL once and writes the result into the panel
// of the given version. Any failure swaps the info panel for the fail panel;
// nothing is returned to the caller.
func (r *Renderer) LoadAddress(ctx context.Context, version string, endpointURL string) {
	if !validVersion(version) {
		log.Error().Err(&utils.UnknownVersionError{Version: version}).Msg("not loading address")
		return
	}

	ids := page.IDsFor(version)
	logger := log.With().Str("version", version).Str("host", endpointURL).Logger()
	logger.Debug().Msgf("requesting IPv%s info", version)

	data, err := r.provider.Fetch(ctx, endpointURL)
	if err == nil && data == nil {
		err = &utils.ResponseError{Reason: "empty response"}
	}
	if err != nil {
		logger.Warn().Err(err).Msgf("couldn't load IPv%s address information", version)
		r.doc.Hide(ids.Info)
		r.doc.Show(ids.InfoFail)
		return
	}

	fields := Format(data)
	logger.Debug().Str("ip", string(fields.Address)).Msgf("loaded IPv%s data", version)

	r.doc.SetHTML(ids.Address, fields.Address)
	r.doc.SetHTML(ids.ISP, fields.ISP)
	r.doc.SetHTML(ids.Country, fields.Country)
	r.doc.SetHTML(ids.City, fields.City)
}

// Initialize loads both panels concurrently and collapses the accordion.
// It returns once both loads have finished.
func (r *Renderer) Initialize(ctx context.Context) {
	var wg sync.WaitGroup

	for _, target := range []struct {
		version string
		host    string
	}{
		{"4", r.config.V4Host},
		{"6", r.config.V6Host},
	} {
		wg.Add(1)
		go func(version, host string) {
			defer wg.Done()
			r.LoadAddress(ctx, version, host)
		}(target.version, target.host)
	}

	collapse(r.doc)

	wg.Wait()
}

// Shell returns the document as a browser first receives it: placeholders
// in every data element and the accordion collapsed. The browser runs the
// two loads itself so the endpoints see the visitor's addresses.
func Shell() *page.Document {
	doc := page.AddressDocument()
	collapse(doc)
	return doc
}

func collapse(doc *page.Document) {
	doc.Accordion.Close(0)
	doc.Accordion.Close(1)
}

func validVersion(version string) bool {
	for _, v := range page.Versions {
		if v == version {
			return true
		}
	}
	return false
}
