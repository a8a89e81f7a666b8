package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// ProjectFileName is the optional per-project config file looked up in the project dir.
const ProjectFileName = "frontbundle.yaml"

// Missing-frontend policies.
const (
	// MissingFail aborts the upload when the frontend directory is absent.
	MissingFail = "fail"
	// MissingSkip reports the absence and lets the upload proceed.
	MissingSkip = "skip"
)

// AppConfig holds everything the bundler and the CLI need. Values are layered:
// built-in defaults, then frontbundle.yaml, then FRONTBUNDLE_* environment
// variables, then CLI flags (applied by the cmd package).
type AppConfig struct {
	// ProjectDir is the firmware project root. All relative paths resolve against it.
	ProjectDir string `yaml:"-" ignored:"true"`

	// FrontendDir is the frontend source directory. Defaults to "frontend".
	FrontendDir string `yaml:"frontend_dir" envconfig:"FRONTEND_DIR"`

	// OutputDir is the build output subdirectory inside FrontendDir.
	// Vite uses "dist", create-react-app uses "build". Defaults to "dist".
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR"`

	// DataDir is the firmware data folder that receives the build output. Defaults to "data".
	DataDir string `yaml:"data_dir" envconfig:"DATA_DIR"`

	// PackageManager is the executable used for install and build. Defaults to "npm".
	PackageManager string `yaml:"package_manager" envconfig:"PACKAGE_MANAGER"`

	// PackageManagerVersion is an optional semver constraint, e.g. ">= 9".
	PackageManagerVersion string `yaml:"package_manager_version" envconfig:"PACKAGE_MANAGER_VERSION"`

	// InstallArgs and BuildArgs are the package manager arguments for each step.
	InstallArgs []string `yaml:"install_args" envconfig:"INSTALL_ARGS"`
	BuildArgs   []string `yaml:"build_args" envconfig:"BUILD_ARGS"`

	// SkipInstall skips the dependency install step.
	SkipInstall bool `yaml:"skip_install" envconfig:"SKIP_INSTALL"`

	// MissingFrontend is the policy when FrontendDir does not exist: "fail" or "skip".
	MissingFrontend string `yaml:"missing_frontend" envconfig:"MISSING_FRONTEND"`

	// Verify re-hashes both trees after the copy and fails on any difference.
	Verify bool `yaml:"verify" envconfig:"VERIFY"`

	// CommandTimeout bounds each external command. Zero means no timeout.
	CommandTimeout time.Duration `yaml:"command_timeout" envconfig:"COMMAND_TIMEOUT"`

	// Env holds extra environment variables passed to both commands.
	Env map[string]string `yaml:"env" envconfig:"ENV"`

	// LogLevel sets the minimum log level (debug, info, warn, error). Defaults to info.
	LogLevel string `yaml:"log_level" envconfig:"LOG_LEVEL"`

	// LogFile switches logging to a rotating JSON file at this path.
	LogFile string `yaml:"log_file" envconfig:"LOG_FILE"`
}

// Defaults returns the built-in configuration, matching the layout of a
// PlatformIO project with a Vite frontend.
func Defaults() *AppConfig {
	return &AppConfig{
		ProjectDir:      ".",
		FrontendDir:     "frontend",
		OutputDir:       "dist",
		DataDir:         "data",
		PackageManager:  "npm",
		InstallArgs:     []string{"install"},
		BuildArgs:       []string{"run", "build"},
		MissingFrontend: MissingFail,
		LogLevel:        "info",
	}
}

// Load builds the configuration for the project rooted at projectDir.
// An empty projectDir defers to FRONTBUNDLE_PROJECT_DIR, then to ".".
func Load(projectDir string) (*AppConfig, error) {
	c := Defaults()
	if projectDir == "" {
		projectDir = os.Getenv("FRONTBUNDLE_PROJECT_DIR")
	}
	if projectDir != "" {
		c.ProjectDir = projectDir
	}

	if err := c.loadProjectFile(filepath.Join(c.ProjectDir, ProjectFileName)); err != nil {
		return nil, err
	}

	// envconfig leaves fields without a matching variable untouched, so the
	// defaults and project file survive unless overridden.
	if err := envconfig.Process("frontbundle", c); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return c, nil
}

// loadProjectFile merges the YAML project file into c. A missing file is not an error.
func (c *AppConfig) loadProjectFile(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // path is the project's own config file
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading project file %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing project file %q: %w", path, err)
	}
	return nil
}

// Validate checks the values that cannot be defaulted away.
func (c *AppConfig) Validate() error {
	switch c.MissingFrontend {
	case MissingFail, MissingSkip:
	default:
		return &ValidationError{Field: "missing_frontend", Message: fmt.Sprintf("must be %q or %q, got %q", MissingFail, MissingSkip, c.MissingFrontend)}
	}
	for _, f := range []struct{ name, value string }{
		{"frontend_dir", c.FrontendDir},
		{"output_dir", c.OutputDir},
		{"data_dir", c.DataDir},
		{"package_manager", c.PackageManager},
	} {
		if f.value == "" {
			return &ValidationError{Field: f.name, Message: "must not be empty"}
		}
	}
	if err := c.validatePaths(); err != nil {
		return err
	}
	if len(c.BuildArgs) == 0 {
		return &ValidationError{Field: "build_args", Message: "must not be empty"}
	}
	if !c.SkipInstall && len(c.InstallArgs) == 0 {
		return &ValidationError{Field: "install_args", Message: "must not be empty unless skip_install is set"}
	}
	if c.CommandTimeout < 0 {
		return &ValidationError{Field: "command_timeout", Message: "must not be negative"}
	}
	return nil
}

// validatePaths rejects layouts where replacing the data directory would
// delete the frontend sources or the project itself.
func (c *AppConfig) validatePaths() error {
	if !filepath.IsLocal(c.OutputDir) || filepath.Clean(c.OutputDir) == "." {
		return &ValidationError{Field: "output_dir", Message: fmt.Sprintf("must be a subdirectory of the frontend directory, got %q", c.OutputDir)}
	}
	project, err := filepath.Abs(c.ProjectDir)
	if err != nil {
		return fmt.Errorf("resolving project dir: %w", err)
	}
	frontend, err := filepath.Abs(c.FrontendPath())
	if err != nil {
		return fmt.Errorf("resolving frontend dir: %w", err)
	}
	data, err := filepath.Abs(c.DataPath())
	if err != nil {
		return fmt.Errorf("resolving data dir: %w", err)
	}
	if within(data, frontend) || within(frontend, data) {
		return &ValidationError{Field: "data_dir", Message: fmt.Sprintf("%s overlaps the frontend directory %s", data, frontend)}
	}
	if within(data, project) {
		return &ValidationError{Field: "data_dir", Message: fmt.Sprintf("%s must not be or contain the project directory %s", data, project)}
	}
	return nil
}

// within reports whether p is parent or lies below it.
func within(parent, p string) bool {
	rel, err := filepath.Rel(parent, p)
	return err == nil && filepath.IsLocal(rel)
}

// SlogLevel converts the LogLevel string to a slog.Level.
// Unknown values default to slog.LevelInfo.
func (c *AppConfig) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// FrontendPath returns the frontend source directory.
func (c *AppConfig) FrontendPath() string {
	return c.resolve(c.FrontendDir)
}

// OutputPath returns the build output subdirectory.
func (c *AppConfig) OutputPath() string {
	return filepath.Join(c.FrontendPath(), c.OutputDir)
}

// DataPath returns the destination data folder.
func (c *AppConfig) DataPath() string {
	return c.resolve(c.DataDir)
}

// CommandEnv returns Env as KEY=VALUE pairs.
func (c *AppConfig) CommandEnv() []string {
	out := make([]string, 0, len(c.Env))
	for k, v := range c.Env {
		out = append(out, k+"="+v)
	}
	slices.Sort(out)
	return out
}

func (c *AppConfig) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.ProjectDir, p)
}
