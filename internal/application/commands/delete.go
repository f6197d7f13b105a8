package commands

import (
	"context"
	"fmt"
	"strings"

	"wirebench/internal/application"
	"wirebench/internal/domain"
	"wirebench/internal/ports"
)

// DeleteResult contains the result of a delete operation
type DeleteResult struct {
	DeletedSheet string
	Message      string
}

// DeleteCommand removes a sheet from the project and deletes its
// primary and autosaved files. Backup revisions are kept: deletion
// must never be the thing that silently loses the only copy.
type DeleteCommand struct {
	store   ports.SheetStore
	viewer  ports.WaveViewer
	project *domain.Project
	Name    string
}

// NewDeleteCommand creates a new DeleteCommand
func NewDeleteCommand(store ports.SheetStore, viewer ports.WaveViewer, project *domain.Project, name string) *DeleteCommand {
	return &DeleteCommand{
		store:   store,
		viewer:  viewer,
		project: project,
		Name:    name,
	}
}

// Validate checks if the delete operation is valid
func (c *DeleteCommand) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return &application.ValidationError{Field: "name", Message: "sheet name is required"}
	}
	if len(c.project.Sheets) <= 1 {
		return application.ErrLastSheet
	}
	return nil
}

// Execute runs the delete command
func (c *DeleteCommand) Execute(ctx context.Context) (*DeleteResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	sheet, ok := c.project.Sheets[c.Name]
	if !ok {
		return nil, fmt.Errorf("sheet %s: %w", c.Name, application.ErrNotFound)
	}
	if c.viewer != nil && c.viewer.IsViewing(c.Name) {
		return nil, &application.PreconditionError{Sheet: c.Name, Reason: "wave viewer is displaying this sheet"}
	}

	if err := c.store.Delete(sheet.FilePath); err != nil {
		return nil, fmt.Errorf("failed to delete %s: %w", c.Name, err)
	}
	// Best effort: the autosaved copy is meaningless once the sheet is gone.
	_ = c.store.Delete(c.store.AutosavePath(sheet.FilePath))

	delete(c.project.Sheets, c.Name)
	if c.project.OpenSheet == c.Name {
		c.project.OpenSheet = newestSheetName(c.project)
	}

	return &DeleteResult{
		DeletedSheet: c.Name,
		Message:      fmt.Sprintf("Deleted %s (backups kept)", c.Name),
	}, nil
}

// newestSheetName picks the most recently stamped sheet remaining in
// the project.
func newestSheetName(p *domain.Project) string {
	var best *domain.Sheet
	for _, s := range p.Sheets {
		if best == nil || s.TimeStamp.After(best.TimeStamp) {
			best = s
		}
	}
	if best == nil {
		return ""
	}
	return best.Name
}
