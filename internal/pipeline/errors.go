package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSource is returned when a loader rejects a source.
	ErrInvalidSource = errors.New("invalid source")
	// ErrUnsupportedFormat is returned when no parser handles a source.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrNoHeader is returned when a table has no usable header row.
	ErrNoHeader = errors.New("header row could not be detected")
	// ErrUnknownComponent is returned for unregistered stage names.
	ErrUnknownComponent = errors.New("unknown component")
	// ErrDuplicateComponent is returned when a name is registered twice.
	ErrDuplicateComponent = errors.New("duplicate component")
)

// Stage names used in StageError and logs.
const (
	StageValidate  = "validate"
	StageLoad      = "load"
	StageParse     = "parse"
	StageTransform = "transform"
	StageMap       = "map"
)

// StageError records which stage of a run failed.
type StageError struct {
	RunID string
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
