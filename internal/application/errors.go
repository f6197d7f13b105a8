package application

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	ErrNotFound          = errors.New("not found")
	ErrSheetExists       = errors.New("sheet already exists")
	ErrInvalidName       = errors.New("invalid sheet name")
	ErrViewerActive      = errors.New("wave viewer active")
	ErrLastSheet         = errors.New("cannot delete the last sheet")
	ErrNoPendingDecision = errors.New("no pending decision")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// LoadError reports a file that could not be read or decoded. One
// sheet's load failure never aborts work on the others.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("cannot load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// WriteError reports a failed persist. It is surfaced to the caller
// and aborts the operation for that sheet only; nothing is retried.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("cannot write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// BackupError reports a sheet whose primary file persisted but whose
// backup revision could not be written. The operation itself succeeded;
// what was lost is the superseded state the backup would have kept.
type BackupError struct {
	Sheet string
	Err   error
}

func (e *BackupError) Error() string {
	return fmt.Sprintf("backup for %s not written: %v", e.Sheet, e.Err)
}

func (e *BackupError) Unwrap() error {
	return e.Err
}

// PreconditionError reports an operation refused because a dependent
// subsystem still references the sheet. No state is mutated.
type PreconditionError struct {
	Sheet  string
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("cannot modify %s: %s", e.Sheet, e.Reason)
}

func (e *PreconditionError) Is(target error) bool {
	return target == ErrViewerActive
}
