package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JustinTDCT/instameta/internal/version"
)

var settingsPath string

func main() {
	root := &cobra.Command{
		Use:           "instameta",
		Short:         "Instagram metadata plugin for Stash",
		Long:          "Enriches Scenes and Images with caption, post date, permalink and an author tag pulled from the source Instagram post.",
		Version:       version.Load().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&settingsPath, "settings", "", "path to instameta-settings.yml (default: next to the binary)")

	root.AddCommand(newRunCmd())
	root.AddCommand(newScrapeCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
