package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wirebench/internal/application"
	"wirebench/internal/domain"
	"wirebench/internal/ports"
)

// SaveResult contains the result of a save operation
type SaveResult struct {
	Sheet            string
	Action           application.Action
	BackupPath       string
	InterfaceChanged bool
	Message          string
}

// SaveCommand persists the current sheet state to its primary file,
// refreshes the autosaved copy, and runs the backup retention policy.
type SaveCommand struct {
	store  ports.SheetStore
	policy *application.RetentionPolicy
	Sheet  *domain.Sheet
}

// NewSaveCommand creates a new SaveCommand
func NewSaveCommand(store ports.SheetStore, policy *application.RetentionPolicy, sheet *domain.Sheet) *SaveCommand {
	return &SaveCommand{
		store:  store,
		policy: policy,
		Sheet:  sheet,
	}
}

// Validate checks if the save operation is valid
func (c *SaveCommand) Validate() error {
	if c.Sheet == nil {
		return &application.ValidationError{Field: "sheet", Message: "sheet is required"}
	}
	if strings.TrimSpace(c.Sheet.Name) == "" {
		return &application.ValidationError{Field: "name", Message: "sheet name is required"}
	}
	if strings.TrimSpace(c.Sheet.FilePath) == "" {
		return &application.ValidationError{Field: "path", Message: "sheet file path is required"}
	}
	return nil
}

// Execute runs the save command
func (c *SaveCommand) Execute(ctx context.Context) (*SaveResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	s := c.Sheet
	s.TimeStamp = time.Now()
	if c.policy.Now != nil {
		s.TimeStamp = c.policy.Now()
	}

	if err := c.store.Write(s.FilePath, s); err != nil {
		return nil, &application.WriteError{Path: s.FilePath, Err: err}
	}
	// Keep the autosaved copy in step so the next open sees no conflict.
	if err := c.store.Write(c.store.AutosavePath(s.FilePath), s); err != nil {
		return nil, &application.WriteError{Path: c.store.AutosavePath(s.FilePath), Err: err}
	}

	decision, path, err := c.policy.Run(s)
	if err != nil {
		return nil, err
	}

	result := &SaveResult{
		Sheet:            s.Name,
		Action:           decision.Action,
		BackupPath:       path,
		InterfaceChanged: decision.InterfaceChanged,
	}
	switch decision.Action {
	case application.ActionSkip:
		result.Message = fmt.Sprintf("Saved %s (no backup needed)", s.Name)
	case application.ActionOverwriteLatest:
		result.Message = fmt.Sprintf("Saved %s, refreshed backup %03d", s.Name, decision.Sequence)
	case application.ActionWriteNewBackup:
		result.Message = fmt.Sprintf("Saved %s, wrote backup %03d", s.Name, decision.Sequence)
	}
	if decision.InterfaceChanged {
		result.Message += " (interface changed)"
	}
	return result, nil
}

// SaveAutoCommand writes only the autosaved copy of a sheet. It never
// touches the primary file or the backup directory.
type SaveAutoCommand struct {
	store ports.SheetStore
	Sheet *domain.Sheet
}

// NewSaveAutoCommand creates a new SaveAutoCommand
func NewSaveAutoCommand(store ports.SheetStore, sheet *domain.Sheet) *SaveAutoCommand {
	return &SaveAutoCommand{store: store, Sheet: sheet}
}

// Execute runs the autosave
func (c *SaveAutoCommand) Execute(ctx context.Context) error {
	if c.Sheet == nil || c.Sheet.FilePath == "" {
		return &application.ValidationError{Field: "sheet", Message: "sheet with file path is required"}
	}
	path := c.store.AutosavePath(c.Sheet.FilePath)
	if err := c.store.Write(path, c.Sheet); err != nil {
		return &application.WriteError{Path: path, Err: err}
	}
	return nil
}
