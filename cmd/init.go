package cmd

import (
	"github.com/spf13/cobra"

	"github.com/shaharia-lab/frontbundle/internal/scaffold"
	"github.com/shaharia-lab/frontbundle/internal/ui"
)

// NewInitCmd returns the "init" subcommand that writes a starter
// frontbundle.yaml and the PlatformIO pre-upload script.
func NewInitCmd() *cobra.Command {
	var (
		projectDir     string
		outputDir      string
		packageManager string
		hookPath       string
		force          bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write frontbundle.yaml and a PlatformIO pre-upload script",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			printer := ui.NewPrinter(out, isTerminalWriter(out))
			written, err := scaffold.Write(projectDir, scaffold.Options{
				OutputDir:      outputDir,
				PackageManager: packageManager,
				HookPath:       hookPath,
				Force:          force,
			})
			for _, p := range written {
				printer.Success("wrote %s", p)
			}
			if err != nil {
				return err
			}
			printer.Step("Add to platformio.ini: extra_scripts = pre:%s", hookPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&projectDir, "project-dir", ".", "Firmware project root")
	cmd.Flags().StringVar(&outputDir, "output-dir", "dist", "Build output subdirectory (dist for Vite, build for create-react-app)")
	cmd.Flags().StringVar(&packageManager, "package-manager", "npm", "Package manager executable")
	cmd.Flags().StringVar(&hookPath, "hook-path", scaffold.DefaultHookPath, "Where to write the PlatformIO script, relative to the project")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")
	return cmd
}
