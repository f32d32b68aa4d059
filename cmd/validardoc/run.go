// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/validardoc/internal/annotate"
	"github.com/pdiddy/validardoc/internal/callback"
	"github.com/pdiddy/validardoc/internal/history"
	"github.com/pdiddy/validardoc/internal/invocation"
	"github.com/pdiddy/validardoc/internal/portal"
	"github.com/pdiddy/validardoc/internal/run"
)

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	req := invocation.Parse(args, logger)
	if cmd.Flags().Changed("headless") {
		headless, _ := cmd.Flags().GetBool("headless")
		req.Interactive = !headless
	}
	if cmd.Flags().Changed("row-id") {
		req.RowID, _ = cmd.Flags().GetString("row-id")
	}

	deps := run.Deps{
		Browser:   portal.NewLauncher(portal.DefaultResolver(cfg.Browser.Executables), logger),
		Driver:    portal.NewDriver(portal.ScriptFromConfig(cfg), logger),
		Notifier:  callback.NewNotifier(cfg.Callback, logger),
		Annotator: annotate.New(cfg.TempDir, logger),
		Viewer:    browser.OpenFile,
	}
	if cfg.History.Path != "" {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			logger.Warn("run history disabled", zap.Error(err))
		} else {
			defer store.Close()
			deps.Recorder = store
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	exitCode = run.New(cfg, deps, logger).Run(ctx, req)
	return nil
}

func init() {
	rootCmd.Flags().Bool("headless", false, "run the browser headless (overrides the headless= argument)")
	rootCmd.Flags().String("row-id", "", "row identifier echoed in the callback (overrides the rowID= argument)")
}
