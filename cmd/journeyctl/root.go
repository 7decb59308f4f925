package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/ludobegins/por-ai/internal/config"
	"github.com/ludobegins/por-ai/internal/journey"
)

var rootCmd = &cobra.Command{
	Use:   "journeyctl",
	Short: "Inspect and export the travel journey map",
	Long: `journeyctl works on the same journey GeoJSON and map configuration as
the journeymap server: list the route segments, print the style a browser
map ends up with, or write the static bundle.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("source", "s", "", "Journey GeoJSON file or URL (defaults to JOURNEY_SOURCE)")
}

// loadConfig reads the environment the same way the server does
func loadConfig() (*config.Config, error) {
	config.LoadDotEnv()
	return config.Load()
}

// loadJourney resolves --source against the configured default and loads it
func loadJourney(ctx context.Context, cmd *cobra.Command, cfg *config.Config) (*journey.Journey, error) {
	source, _ := cmd.Flags().GetString("source")
	if source == "" {
		source = cfg.JourneySource
	}

	client := &http.Client{Timeout: cfg.FetchTimeout}
	return journey.Load(ctx, client, source)
}
