// Package hook models the build tool's pre-action mechanism as explicit
// values: actions are registered on a Registrar and run by an Environment,
// so nothing depends on a shared build-environment singleton.
package hook

import (
	"context"
	"fmt"
	"sync"
)

// TargetUpload is the firmware upload target.
const TargetUpload = "upload"

// Call carries the conventional (source, target, env) arguments a build tool
// passes to its actions.
type Call struct {
	Source []string
	Target []string
	Env    map[string]string
}

// Action runs before a build target.
type Action func(ctx context.Context, call Call) error

// Registrar accepts pre-actions for named targets.
type Registrar interface {
	AddPreAction(target string, action Action)
}

// Environment is an in-process Registrar that can run the pre-actions it holds.
type Environment struct {
	mu      sync.Mutex
	actions map[string][]Action
	order   []string
}

// NewEnvironment returns an empty Environment.
func NewEnvironment() *Environment {
	return &Environment{actions: make(map[string][]Action)}
}

// AddPreAction appends action to the pre-actions of target.
func (e *Environment) AddPreAction(target string, action Action) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.actions[target]; !ok {
		e.order = append(e.order, target)
	}
	e.actions[target] = append(e.actions[target], action)
}

// Targets returns the targets that have pre-actions, in registration order.
func (e *Environment) Targets() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.order...)
}

// RunPreActions runs the actions registered for target in order and stops at
// the first failure. A target without actions is a no-op.
func (e *Environment) RunPreActions(ctx context.Context, target string, call Call) error {
	e.mu.Lock()
	actions := append([]Action(nil), e.actions[target]...)
	e.mu.Unlock()

	for i, action := range actions {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := action(ctx, call); err != nil {
			return &ActionError{Target: target, Index: i, Err: err}
		}
	}
	return nil
}

// ActionError reports which pre-action of a target failed.
type ActionError struct {
	Target string
	Index  int
	Err    error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("pre-action %d of target %q failed: %v", e.Index, e.Target, e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }
