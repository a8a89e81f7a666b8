package cmd

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaharia-lab/frontbundle/internal/build"
	"github.com/shaharia-lab/frontbundle/internal/bundler"
	"github.com/shaharia-lab/frontbundle/internal/config"
	"github.com/shaharia-lab/frontbundle/internal/fsutil"
	"github.com/shaharia-lab/frontbundle/internal/logger"
	"github.com/shaharia-lab/frontbundle/internal/runner"
	"github.com/shaharia-lab/frontbundle/internal/ui"
)

// app is the wired set of collaborators for one invocation.
type app struct {
	cfg     *config.AppConfig
	logger  *slog.Logger
	closer  io.Closer
	printer *ui.Printer
	runner  *runner.Exec
	bundler *bundler.Bundler
}

func newApp(cmd *cobra.Command, flags *bundleFlags) (*app, error) {
	cfg, err := flags.load(cmd)
	if err != nil {
		return nil, err
	}

	log, closer, err := logger.New(cfg.LogFile, cfg.SlogLevel())
	if err != nil {
		return nil, err
	}
	log.Debug("frontbundle starting",
		slog.String("version", build.Version),
		slog.String("commit", build.CommitSHA),
		slog.String("project_dir", cfg.ProjectDir),
	)

	out := cmd.OutOrStdout()
	printer := ui.NewPrinter(out, isTerminalWriter(out))
	r := runner.New(out, cmd.ErrOrStderr(), cfg.CommandTimeout, log)

	b, err := bundler.New(cfg, r, fsutil.OS{}, printer, log)
	if err != nil {
		_ = closer.Close()
		return nil, err
	}
	return &app{cfg: cfg, logger: log, closer: closer, printer: printer, runner: r, bundler: b}, nil
}

func (a *app) Close() error {
	return a.closer.Close()
}

func isTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && logger.IsTerminal(f)
}
