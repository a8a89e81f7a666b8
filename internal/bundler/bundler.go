// Package bundler builds the web frontend and replaces the firmware data
// folder with the fresh build output. It is the pre-upload step of a
// firmware upload: any failure must stop the upload.
package bundler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"

	"github.com/shaharia-lab/frontbundle/internal/config"
	"github.com/shaharia-lab/frontbundle/internal/hook"
	"github.com/shaharia-lab/frontbundle/internal/runner"
)

// CommandRunner spawns external commands and waits for them.
type CommandRunner interface {
	Run(ctx context.Context, cmd runner.Command) error
	Output(ctx context.Context, cmd runner.Command) ([]byte, error)
}

// FileSystem holds the filesystem operations of a run.
type FileSystem interface {
	IsDir(path string) (bool, error)
	Exists(path string) (bool, error)
	RemoveAll(path string) error
	CopyDir(src, dst string) (int, error)
	Digest(dir string) (string, error)
}

// Reporter receives the console messages of a run.
type Reporter interface {
	Step(format string, args ...any)
	Success(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Bundler runs install, build and replace for one project.
type Bundler struct {
	cfg        *config.AppConfig
	runner     CommandRunner
	fs         FileSystem
	report     Reporter
	logger     *slog.Logger
	constraint *semver.Constraints
	now        func() time.Time
}

// New validates cfg and returns a Bundler wired to the given collaborators.
func New(cfg *config.AppConfig, r CommandRunner, fsys FileSystem, report Reporter, logger *slog.Logger) (*Bundler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	b := &Bundler{
		cfg:    cfg,
		runner: r,
		fs:     fsys,
		report: report,
		logger: logger,
		now:    time.Now,
	}
	if cfg.PackageManagerVersion != "" {
		c, err := semver.NewConstraint(cfg.PackageManagerVersion)
		if err != nil {
			return nil, &config.ValidationError{
				Field:   "package_manager_version",
				Message: err.Error(),
			}
		}
		b.constraint = c
	}
	return b, nil
}

// Run performs one bundle. On success the data directory is an exact copy of
// the build output. On any failure the error is a *StageError and the data
// directory has not been touched, except when the copy itself fails.
func (b *Bundler) Run(ctx context.Context) (*Result, error) {
	start := b.now()
	runID := uuid.NewString()
	log := b.logger.With("run_id", runID)

	frontend := b.cfg.FrontendPath()
	ok, err := b.fs.IsDir(frontend)
	if err != nil {
		return nil, b.fail(log, StagePrecheck, fmt.Errorf("checking %q: %w", frontend, err))
	}
	if !ok {
		if b.cfg.MissingFrontend == config.MissingSkip {
			b.report.Warn("frontend directory %q not found, skipping frontend build", frontend)
			log.Warn("frontend directory missing, skipping", "frontend_dir", frontend)
			return &Result{
				RunID:       runID,
				Status:      StatusSkipped,
				Destination: b.cfg.DataPath(),
				Duration:    b.now().Sub(start),
				Reason:      ErrFrontendNotFound.Error(),
			}, nil
		}
		return nil, b.fail(log, StagePrecheck, fmt.Errorf("%w: %s", ErrFrontendNotFound, frontend))
	}

	if err := b.checkVersion(ctx, log); err != nil {
		return nil, b.fail(log, StagePrecheck, err)
	}

	if b.cfg.SkipInstall {
		log.Info("skipping dependency install")
	} else {
		b.report.Step("Installing frontend dependencies...")
		if err := b.exec(ctx, log, b.cfg.InstallArgs); err != nil {
			return nil, b.fail(log, StageInstall, err)
		}
	}

	b.report.Step("Building frontend...")
	if err := b.exec(ctx, log, b.cfg.BuildArgs); err != nil {
		return nil, b.fail(log, StageBuild, err)
	}

	files, err := b.replace(log)
	if err != nil {
		return nil, b.fail(log, StageReplace, err)
	}

	res := &Result{
		RunID:       runID,
		Status:      StatusCompleted,
		Destination: b.cfg.DataPath(),
		Files:       files,
		Duration:    b.now().Sub(start),
	}
	b.report.Success("Frontend build and copy completed successfully (%d files)", files)
	log.Info("frontend bundled",
		"destination", res.Destination,
		"files", res.Files,
		"duration", res.Duration,
	)
	return res, nil
}

// Action adapts the bundler to a build tool pre-action. The call arguments
// are not used.
func (b *Bundler) Action() hook.Action {
	return func(ctx context.Context, _ hook.Call) error {
		_, err := b.Run(ctx)
		return err
	}
}

// Register installs b as the pre-action of the upload target.
func Register(reg hook.Registrar, b *Bundler) {
	reg.AddPreAction(hook.TargetUpload, b.Action())
}

func (b *Bundler) checkVersion(ctx context.Context, log *slog.Logger) error {
	if b.constraint == nil {
		return nil
	}
	out, err := b.runner.Output(ctx, runner.Command{
		Name: b.cfg.PackageManager,
		Args: []string{"--version"},
		Dir:  b.cfg.FrontendPath(),
		Env:  b.cfg.CommandEnv(),
	})
	if err != nil {
		return fmt.Errorf("querying %s version: %w", b.cfg.PackageManager, err)
	}
	raw := strings.TrimSpace(string(out))
	v, err := semver.NewVersion(raw)
	if err != nil {
		return fmt.Errorf("parsing %s version %q: %w", b.cfg.PackageManager, raw, err)
	}
	if !b.constraint.Check(v) {
		return fmt.Errorf("%w: %s %s does not satisfy %q",
			ErrVersionMismatch, b.cfg.PackageManager, v, b.cfg.PackageManagerVersion)
	}
	log.Debug("package manager version accepted", "package_manager", b.cfg.PackageManager, "version", v.String())
	return nil
}

func (b *Bundler) exec(ctx context.Context, log *slog.Logger, args []string) error {
	cmd := runner.Command{
		Name: b.cfg.PackageManager,
		Args: args,
		Dir:  b.cfg.FrontendPath(),
		Env:  b.cfg.CommandEnv(),
	}
	log.Info("running command", "command", cmd.String(), "dir", cmd.Dir)
	return b.runner.Run(ctx, cmd)
}

// replace swaps the data directory for a copy of the build output. The output
// is checked first so a build that produced nothing leaves the data intact.
func (b *Bundler) replace(log *slog.Logger) (int, error) {
	src := b.cfg.OutputPath()
	dst := b.cfg.DataPath()

	ok, err := b.fs.IsDir(src)
	if err != nil {
		return 0, fmt.Errorf("checking %q: %w", src, err)
	}
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrOutputNotFound, src)
	}

	b.report.Step("Copying frontend files to %s...", dst)
	exists, err := b.fs.Exists(dst)
	if err != nil {
		return 0, fmt.Errorf("checking %q: %w", dst, err)
	}
	if exists {
		log.Debug("removing previous data directory", "path", dst)
		if err := b.fs.RemoveAll(dst); err != nil {
			return 0, err
		}
	}

	files, err := b.fs.CopyDir(src, dst)
	if err != nil {
		return 0, err
	}

	if b.cfg.Verify {
		if err := b.verify(src, dst); err != nil {
			return 0, err
		}
		log.Debug("data directory verified", "path", dst)
	}
	return files, nil
}

func (b *Bundler) verify(src, dst string) error {
	want, err := b.fs.Digest(src)
	if err != nil {
		return err
	}
	got, err := b.fs.Digest(dst)
	if err != nil {
		return err
	}
	if want != got {
		return fmt.Errorf("%w: %s", ErrMirrorMismatch, dst)
	}
	return nil
}

func (b *Bundler) fail(log *slog.Logger, stage Stage, err error) error {
	se := &StageError{Stage: stage, Err: err}
	b.report.Error("Error during frontend %s: %v", stage, err)
	log.Error("frontend bundle failed", "stage", string(stage), "error", err)
	return se
}
