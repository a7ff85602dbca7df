// =============================================================================
// KCD2 Item Exporter - Watch Command
// =============================================================================
//
// This file defines the 'watch' command: export once, then export again each
// time an item file is created, changed, removed or renamed.
//
// COMMAND USAGE:
//   kcd2items watch [flags]
//
// Changes are debounced (watch_debounce in the config file) so that saving
// several files at once triggers a single export. A failed export is logged
// and the watch continues. Ctrl+C stops watching.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/kcd2items/internal/config"
	"github.com/ginjaninja78/kcd2items/internal/logging"
	"github.com/ginjaninja78/kcd2items/internal/watcher"
	"github.com/ginjaninja78/kcd2items/pkg/utils"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-export the workbook whenever an item file changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runWatch(ctx, cmd.OutOrStdout(), appConfig)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	addExportFlags(watchCmd)
}

// runWatch exports once and then keeps exporting on input changes until ctx
// is cancelled.
func runWatch(ctx context.Context, out io.Writer, cfg *config.Config) error {
	logger := logging.FromContext(ctx)
	exporter := newExporter(cfg, out)

	if _, err := exporter.Export(ctx); err != nil {
		logger.Error("export failed", "error", err)
	}

	w, err := watcher.New(cfg.InputDir, cfg.WatchDebounce.Duration, func(path string) bool {
		return utils.MatchesInput(cfg.InputDir, cfg.InputPattern, path)
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Watching %s for changes to %s. Press Ctrl+C to stop.\n", cfg.InputDir, cfg.InputPattern)

	return w.Run(ctx, func(ctx context.Context, events []watcher.Event) {
		for _, e := range events {
			logger.Info("input changed", "path", e.Path, "op", e.Op.String())
		}
		if _, err := exporter.Export(ctx); err != nil && ctx.Err() == nil {
			logger.Error("export failed", "error", err)
		}
	})
}
