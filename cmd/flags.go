package cmd

import (
	"github.com/spf13/cobra"

	"github.com/shaharia-lab/frontbundle/internal/config"
)

// bundleFlags are the config overrides shared by run and hook.
type bundleFlags struct {
	projectDir      string
	frontendDir     string
	outputDir       string
	dataDir         string
	packageManager  string
	missingFrontend string
	skipInstall     bool
	verify          bool
	logLevel        string
	logFile         string
}

func (f *bundleFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.projectDir, "project-dir", "", "Firmware project root (overrides FRONTBUNDLE_PROJECT_DIR, default \".\")")
	fl.StringVar(&f.frontendDir, "frontend-dir", "", "Frontend source directory, relative to the project (default \"frontend\")")
	fl.StringVar(&f.outputDir, "output-dir", "", "Build output subdirectory inside the frontend directory (default \"dist\")")
	fl.StringVar(&f.dataDir, "data-dir", "", "Destination data folder, relative to the project (default \"data\")")
	fl.StringVar(&f.packageManager, "package-manager", "", "Package manager executable (default \"npm\")")
	fl.StringVar(&f.missingFrontend, "missing-frontend", "", "What to do when the frontend directory is absent: fail or skip (default \"fail\")")
	fl.BoolVar(&f.skipInstall, "skip-install", false, "Skip the dependency install step")
	fl.BoolVar(&f.verify, "verify", false, "Verify the data folder mirrors the build output after copying")
	fl.StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn, error (default \"info\")")
	fl.StringVar(&f.logFile, "log-file", "", "Write JSON logs to this file instead of stderr")
}

// load reads the layered configuration and applies the flags that were set.
func (f *bundleFlags) load(cmd *cobra.Command) (*config.AppConfig, error) {
	cfg, err := config.Load(f.projectDir)
	if err != nil {
		return nil, err
	}
	fl := cmd.Flags()
	str := func(name string, dst *string, v string) {
		if fl.Changed(name) {
			*dst = v
		}
	}
	str("frontend-dir", &cfg.FrontendDir, f.frontendDir)
	str("output-dir", &cfg.OutputDir, f.outputDir)
	str("data-dir", &cfg.DataDir, f.dataDir)
	str("package-manager", &cfg.PackageManager, f.packageManager)
	str("missing-frontend", &cfg.MissingFrontend, f.missingFrontend)
	str("log-level", &cfg.LogLevel, f.logLevel)
	str("log-file", &cfg.LogFile, f.logFile)
	if fl.Changed("skip-install") {
		cfg.SkipInstall = f.skipInstall
	}
	if fl.Changed("verify") {
		cfg.Verify = f.verify
	}
	return cfg, nil
}
