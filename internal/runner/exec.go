// Package runner spawns the external package manager commands the bundler
// depends on and waits for them to finish.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Command describes one process invocation.
type Command struct {
	Name string
	Args []string
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Env is appended to the parent environment.
	Env []string
}

// String renders the command line the way a user would type it.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// ExitError is returned when a command exits with a non-zero status.
type ExitError struct {
	Command string
	Code    int
	Err     error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command %q exited with status %d", e.Command, e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// Exec runs commands as child processes. The zero value streams nothing and
// applies no timeout.
type Exec struct {
	Stdout  io.Writer
	Stderr  io.Writer
	Timeout time.Duration
	Logger  *slog.Logger
}

// New returns an Exec that streams child output to the given writers.
func New(stdout, stderr io.Writer, timeout time.Duration, logger *slog.Logger) *Exec {
	return &Exec{Stdout: stdout, Stderr: stderr, Timeout: timeout, Logger: logger}
}

// Run starts the command and blocks until it exits.
func (r *Exec) Run(ctx context.Context, c Command) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	cmd := r.command(ctx, c)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	start := time.Now()
	err := cmd.Run()
	r.log().Debug("command finished",
		"command", c.String(),
		"dir", c.Dir,
		"duration", time.Since(start),
		"error", err,
	)
	return r.wrap(ctx, c, err)
}

// Output runs the command and returns its trimmed stdout.
func (r *Exec) Output(ctx context.Context, c Command) ([]byte, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	cmd := r.command(ctx, c)
	cmd.Stderr = r.Stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, r.wrap(ctx, c, err)
	}
	return bytes.TrimSpace(out), nil
}

func (r *Exec) command(ctx context.Context, c Command) *exec.Cmd {
	//nolint:gosec // the command comes from the project's own configuration
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	return cmd
}

func (r *Exec) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.Timeout > 0 {
		return context.WithTimeout(ctx, r.Timeout)
	}
	return context.WithCancel(ctx)
}

func (r *Exec) wrap(ctx context.Context, c Command, err error) error {
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("running %q: %w", c.String(), ctxErr)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Command: c.String(), Code: exitErr.ExitCode(), Err: err}
	}
	return fmt.Errorf("running %q: %w", c.String(), err)
}

func (r *Exec) log() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.New(slog.DiscardHandler)
}
