package main

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"

	"github.com/ludobegins/por-ai/internal/static"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write the static GeoJSON bundle and its manifest",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		j, err := loadJourney(cmd.Context(), cmd, cfg)
		if err != nil {
			return err
		}

		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			if cfg.WebPublicDir == "" {
				return fmt.Errorf("must specify an output directory using --out or WEB_PUBLIC_DIR")
			}
			out = filepath.Join(cfg.WebPublicDir, static.BundleDir)
		}

		var manifest *static.Manifest
		var genErr error

		_ = spinner.New().
			Title(fmt.Sprintf("Generating journey bundle in %s...", out)).
			Action(func() {
				manifest, genErr = static.Generate(j, cfg.Map, out)
			}).
			Run()

		if genErr != nil {
			return genErr
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✅ Wrote %s (%d stops), %s (%d segments) and %s\n",
			manifest.Points.Path, manifest.Points.Features,
			manifest.Segments.Path, manifest.Segments.Features,
			static.ManifestFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringP("out", "o", "", "Output directory (defaults to WEB_PUBLIC_DIR/journey_data)")
}
