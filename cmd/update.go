package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"

	"github.com/shaharia-lab/frontbundle/internal/build"
	"github.com/shaharia-lab/frontbundle/internal/ui"
)

const releaseSlug = "shaharia-lab/frontbundle"

// errNoAnswer is returned when the update prompt gets no input, as happens
// when frontbundle runs from a build script without a terminal.
var errNoAnswer = errors.New("no answer to the update prompt; rerun with --yes")

// NewUpdateCmd returns the "update" subcommand that self-updates the binary.
func NewUpdateCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update frontbundle to the latest release",
		Long:  "Check GitHub releases for a newer version of frontbundle and replace the binary in place.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !build.IsRelease() {
				return fmt.Errorf("cannot update a dev build; install a tagged release first")
			}
			out := cmd.OutOrStdout()
			u := &selfUpdate{
				printer: ui.NewPrinter(out, isTerminalWriter(out)),
				in:      cmd.InOrStdin(),
				out:     out,
				yes:     yes,
			}
			return u.run(cmd)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation prompt")
	return cmd
}

type selfUpdate struct {
	printer *ui.Printer
	in      io.Reader
	out     io.Writer
	yes     bool
}

func (u *selfUpdate) run(cmd *cobra.Command) error {
	ctx := cmd.Context()
	current := strings.TrimPrefix(build.Version, "v")

	u.printer.Step("Checking %s for releases newer than %s", releaseSlug, build.Version)
	updater, err := selfupdate.NewUpdater(selfupdate.Config{})
	if err != nil {
		return fmt.Errorf("creating updater: %w", err)
	}
	release, found, err := updater.DetectLatest(ctx, selfupdate.ParseSlug(releaseSlug))
	if err != nil {
		return fmt.Errorf("checking for updates: %w", err)
	}
	if !found || !release.GreaterThan(current) {
		u.printer.Success("frontbundle %s is up to date", build.Version)
		return nil
	}

	if !u.yes {
		ok, err := confirm(u.in, u.out, fmt.Sprintf("Update frontbundle %s to %s?", build.Version, release.Version()))
		if err != nil {
			return err
		}
		if !ok {
			u.printer.Warn("update canceled")
			return nil
		}
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("finding current executable: %w", err)
	}
	u.printer.Step("Installing %s to %s", release.Version(), exe)
	if err := updater.UpdateTo(ctx, release, exe); err != nil {
		return fmt.Errorf("updating: %w", err)
	}
	u.printer.Success("updated to %s", release.Version())
	return nil
}

// confirm asks a yes/no question on out and reads one line from in. Only
// "y" or "yes" (any case) is a yes. Input that ends before a newline still
// counts; no input at all is errNoAnswer.
func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return false, fmt.Errorf("reading answer: %w", err)
		}
		if line == "" {
			fmt.Fprintln(out)
			return false, errNoAnswer
		}
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
