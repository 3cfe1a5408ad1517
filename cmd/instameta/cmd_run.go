package main

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JustinTDCT/instameta/internal/config"
	"github.com/JustinTDCT/instameta/internal/enrich"
	"github.com/JustinTDCT/instameta/internal/instagram"
	"github.com/JustinTDCT/instameta/internal/logging"
	"github.com/JustinTDCT/instameta/internal/plugin"
	"github.com/JustinTDCT/instameta/internal/stash"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Enrich a Scene or Image from the raw plugin envelope on stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnrich(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// runEnrich handles one task or hook invocation. Every failure becomes a
// JSON error payload on stdout; the process still exits zero so the host
// does not flag the plugin itself as broken.
func runEnrich(stdin io.Reader, stdout io.Writer) error {
	cfg := config.Load(settingsPath)
	logger := logging.New(cfg.LogLevel).With(zap.String("exec", uuid.NewString()[:8]))
	defer logger.Sync()

	in, err := plugin.ReadInput(stdin)
	if err != nil {
		logger.Error("bad plugin input", zap.Error(err))
		return plugin.Respond(stdout, err.Error(), true)
	}

	target, id, err := plugin.DetectTarget(in.Input.HookContext, in.Input.Args)
	if err != nil {
		logger.Error("target detection failed", zap.Error(err))
		return plugin.Respond(stdout, err.Error(), true)
	}

	args := in.Input.Args
	opts := enrich.Options{
		URL:       cast.ToString(args["url"]),
		Overwrite: cast.ToBool(args["overwrite"]),
	}
	if s := cast.ToString(args["ig_sessionid"]); s != "" {
		cfg.IGSessionID = s
	}

	enricher := enrich.New(
		stash.NewClient(in.Connection(), cfg),
		instagram.NewClient(cfg),
		logger,
	)

	summary, err := enricher.Run(context.Background(), target, id, opts)
	if err != nil {
		logger.Error("enrichment failed",
			zap.String("target", string(target)),
			zap.String("id", id),
			zap.Error(err))
		return plugin.Respond(stdout, err.Error(), true)
	}

	logger.Info("enrichment complete",
		zap.String("target", string(target)),
		zap.String("id", id))
	return plugin.Respond(stdout, summary, false)
}
