package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shaharia-lab/frontbundle/internal/bundler"
	"github.com/shaharia-lab/frontbundle/internal/hook"
	"github.com/shaharia-lab/frontbundle/internal/runner"
)

// targetError is a failure of the wrapped target command, as opposed to a
// failure of its pre-actions.
type targetError struct {
	target string
	code   int
	err    error
}

func (e *targetError) Error() string {
	return fmt.Sprintf("target %q: %v", e.target, e.err)
}

func (e *targetError) Unwrap() error { return e.err }

// NewHookCmd returns the "hook" subcommand. It runs the pre-actions of a
// build target and then, only if they all succeed, the target command itself.
func NewHookCmd() *cobra.Command {
	var flags bundleFlags

	cmd := &cobra.Command{
		Use:   "hook <target> [-- command [args...]]",
		Short: "Run the pre-actions of a build target, then the target command",
		Long: `Run the pre-actions registered for a build target. The frontend bundle is
registered for the "upload" target. If a command follows "--", it is run
after the pre-actions succeed and never when one fails.

Examples:
  frontbundle hook upload
  frontbundle hook upload -- pio run -t upload
  frontbundle hook upload --output-dir build -- pio run -t uploadfs`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := args[0]
			var command []string
			if dash := cmd.ArgsLenAtDash(); dash >= 0 {
				if dash != 1 {
					return fmt.Errorf("expected exactly one target before --, got %d", dash)
				}
				command = args[dash:]
			} else if len(args) > 1 {
				return fmt.Errorf("unexpected arguments %v; put the target command after --", args[1:])
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			a, err := newApp(cmd, &flags)
			if err != nil {
				return err
			}
			defer a.Close()

			env := hook.NewEnvironment()
			bundler.Register(env, a.bundler)

			call := hook.Call{Target: []string{target}, Env: environMap()}
			if err := env.RunPreActions(ctx, target, call); err != nil {
				return err
			}
			if len(command) == 0 {
				return nil
			}

			err = a.runner.Run(ctx, runner.Command{Name: command[0], Args: command[1:], Dir: a.cfg.ProjectDir})
			if err != nil {
				te := &targetError{target: target, code: 1, err: err}
				var exitErr *runner.ExitError
				if errors.As(err, &exitErr) {
					te.code = exitErr.Code
				}
				return te
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func environMap() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}
