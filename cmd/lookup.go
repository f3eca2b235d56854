package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/cloud66-oss/myip/page"
	"github.com/spf13/cobra"
)

var lookupJSON bool

var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "load both address panels from this machine and print them",
	RunE:  execLookup,
}

func init() {
	lookupCmd.Flags().BoolVar(&lookupJSON, "json", false, "print the panel document as JSON")

	rootCmd.AddCommand(lookupCmd)
}

func execLookup(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	doc := loadPanels(ctx)

	if lookupJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}

	return printPanels(cmd.OutOrStdout(), doc)
}

func printPanels(w io.Writer, doc *page.Document) error {
	for _, version := range page.Versions {
		ids := page.IDsFor(version)

		if _, err := fmt.Fprintf(w, "IPv%s\n", version); err != nil {
			return err
		}

		if doc.Element(ids.Info).Hidden {
			if _, err := fmt.Fprintln(w, "  not available"); err != nil {
				return err
			}
			continue
		}

		for _, row := range []struct {
			label string
			id    string
		}{
			{"address", ids.Address},
			{"isp", ids.ISP},
			{"country", ids.Country},
			{"city", ids.City},
		} {
			if _, err := fmt.Fprintf(w, "  %-8s %s\n", row.label+":", doc.Element(row.id).Text()); err != nil {
				return err
			}
		}
	}

	return nil
}
