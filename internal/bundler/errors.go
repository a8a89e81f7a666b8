package bundler

import (
	"errors"
	"fmt"
)

var (
	// ErrFrontendNotFound means the frontend source directory does not exist.
	ErrFrontendNotFound = errors.New("frontend directory not found")
	// ErrOutputNotFound means the build finished without producing the output subdirectory.
	ErrOutputNotFound = errors.New("build output directory not found")
	// ErrVersionMismatch means the package manager does not satisfy the configured constraint.
	ErrVersionMismatch = errors.New("package manager version mismatch")
	// ErrMirrorMismatch means the data directory differs from the build output after the copy.
	ErrMirrorMismatch = errors.New("data directory does not mirror build output")
)

// Stage names one step of a bundle run.
type Stage string

// Stages in execution order.
const (
	StagePrecheck Stage = "precheck"
	StageInstall  Stage = "install"
	StageBuild    Stage = "build"
	StageReplace  Stage = "replace"
)

// StageError is returned when a stage fails. It wraps the cause.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("frontend %s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// FailedStage returns the stage of err when it is a *StageError.
func FailedStage(err error) (Stage, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}
	return "", false
}
