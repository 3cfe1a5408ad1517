package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JustinTDCT/instameta/internal/config"
	"github.com/JustinTDCT/instameta/internal/enrich"
	"github.com/JustinTDCT/instameta/internal/instagram"
	"github.com/JustinTDCT/instameta/internal/logging"
	"github.com/JustinTDCT/instameta/internal/plugin"
)

func newScrapeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scrape",
		Short: "Scrape an Instagram URL from stdin into a scraped-item fragment",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScrape(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// runScrape handles one scraper invocation. The host requires valid JSON on
// stdout, so every failure emits an empty object after logging to stderr.
func runScrape(stdin io.Reader, stdout io.Writer) error {
	cfg := config.Load(settingsPath)
	logger := logging.New(cfg.LogLevel)
	defer logger.Sync()

	empty := func() error {
		_, err := fmt.Fprintln(stdout, "{}")
		return err
	}

	url := plugin.ReadScrapeURL(stdin)
	if url == "" {
		logger.Error("no URL provided to scraper")
		return empty()
	}

	shortcode := instagram.ExtractShortcode(url)
	if shortcode == "" {
		logger.Error("could not extract Instagram shortcode", zap.String("url", url))
		return empty()
	}

	post, err := instagram.NewClient(cfg).FetchPost(context.Background(), shortcode, url)
	if err != nil {
		logger.Error("failed to fetch Instagram metadata (check IG_SESSIONID or URL)", zap.Error(err))
		return empty()
	}

	return json.NewEncoder(stdout).Encode(enrich.Fragment(post))
}
