package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shaharia-lab/frontbundle/internal/bundler"
	"github.com/shaharia-lab/frontbundle/internal/watch"
)

// NewRunCmd returns the "run" subcommand that bundles the frontend once, or
// continuously with --watch.
func NewRunCmd() *cobra.Command {
	var flags bundleFlags
	var watchMode bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Build the frontend and replace the data folder",
		Long: `Run the frontend bundle once: install dependencies, build, and copy the
build output into the data folder. With --watch, keep running and rebuild
whenever a file under the frontend directory changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			a, err := newApp(cmd, &flags)
			if err != nil {
				return err
			}
			defer a.Close()

			if watchMode {
				return runWatch(ctx, a)
			}
			_, err = a.bundler.Run(ctx)
			return err
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "Rebuild on every change under the frontend directory")
	return cmd
}

func runWatch(ctx context.Context, a *app) error {
	res, err := a.bundler.Run(ctx)
	logRebuild(a.logger, "initial bundle", res, err)

	w, err := watch.New(a.cfg.FrontendPath(), []string{a.cfg.OutputDir}, watch.DefaultDebounce, a.logger)
	if err != nil {
		return fmt.Errorf("watching %s: %w", a.cfg.FrontendPath(), err)
	}
	defer w.Close()

	a.printer.Step("Watching %s for changes (Ctrl-C to stop)", a.cfg.FrontendPath())
	return w.Run(ctx, func(ctx context.Context) {
		res, err := a.bundler.Run(ctx)
		logRebuild(a.logger, "rebuild", res, err)
	})
}

// logRebuild records the outcome of one watch-mode bundle. A failure has
// already been reported on the console and does not stop watching.
func logRebuild(log *slog.Logger, what string, res *bundler.Result, err error) {
	if err != nil {
		log.Warn(what+" failed, watching for changes", "error", err)
		return
	}
	log.Info(what+" finished",
		"run_id", res.RunID,
		"status", string(res.Status),
		"files", res.Files,
		"duration", res.Duration,
	)
}
