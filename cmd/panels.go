package cmd

import (
	"context"

	"github.com/cloud66-oss/myip/page"
	"github.com/cloud66-oss/myip/panel"
	"github.com/cloud66-oss/myip/provider"
	"github.com/cloud66-oss/myip/utils"
	"github.com/spf13/viper"
)

func configureProvider(ctx context.Context) error {
	p, err := provider.NewHTTPProvider(ctx, viper.GetString("http.user_agent"))
	if err != nil {
		return err
	}

	utils.Container.Assign(ctx, utils.AddressProvider, p)

	return nil
}

func panelConfig() panel.Config {
	return panel.Config{
		V4Host: viper.GetString("hosts.v4"),
		V6Host: viper.GetString("hosts.v6"),
	}
}

// loadPanels builds a fresh document and fills both address panels
func loadPanels(ctx context.Context) *page.Document {
	p := utils.Container.Fetch(ctx, utils.AddressProvider).(provider.AddressProvider)

	renderer := panel.NewRenderer(panelConfig(), p, page.AddressDocument())
	renderer.Initialize(ctx)

	return renderer.Document()
}
