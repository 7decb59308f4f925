package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ludobegins/por-ai/internal/config"
	"github.com/ludobegins/por-ai/internal/display"
	"github.com/ludobegins/por-ai/internal/journey"
	"github.com/ludobegins/por-ai/internal/locale"
)

var styleCmd = &cobra.Command{
	Use:   "style",
	Short: "Print the style document of the journey on a basemap",
	Long: `Builds a map on the default basemap, displays the journey, swaps to the
requested basemap and prints the resulting style document. The document
is what a browser client applies after the same swap.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		j, err := loadJourney(cmd.Context(), cmd, cfg)
		if err != nil {
			return err
		}

		basemap, _ := cmd.Flags().GetString("basemap")
		doc, err := buildStyle(cfg.Map, j, basemap)
		if err != nil {
			return err
		}
		return writeDocument(cmd.OutOrStdout(), doc)
	},
}

func buildStyle(catalog *config.MapCatalog, j *journey.Journey, basemap string) (display.Document, error) {
	if basemap == "" {
		basemap = catalog.DefaultBasemap
	}
	target, ok := catalog.Basemap(basemap)
	if !ok {
		return display.Document{}, fmt.Errorf("unknown basemap %q", basemap)
	}

	m := catalog.NewMap()
	syncer := display.NewSynchronizer(catalog.DisplayOptions())
	base := locale.New(locale.Base)
	binding := display.Bind(m, syncer, j, func() *locale.Context { return base })
	defer binding.Close()

	m.Ready()
	if target.URL != m.Style() {
		m.SetStyle(target.URL)
	}
	if err := binding.Err(); err != nil {
		return display.Document{}, fmt.Errorf("failed to display journey: %w", err)
	}
	return m.Document(), nil
}

func writeDocument(w io.Writer, doc display.Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func init() {
	rootCmd.AddCommand(styleCmd)
	styleCmd.Flags().StringP("basemap", "b", "", "Basemap name (defaults to the configured default)")
}
