package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"wirebench/internal/application"
	"wirebench/internal/domain"
	"wirebench/internal/ports"
)

// RenameResult contains the result of a rename operation
type RenameResult struct {
	OriginalName   string
	NewName        string
	BackupsRenamed int
	Message        string
}

// RenameCommand renames a sheet: primary file, project entry, and every
// backup revision move to the new base name. Sequence numbers are kept;
// the timestamp suffix of each moved backup is re-derived.
type RenameCommand struct {
	store   ports.SheetStore
	viewer  ports.WaveViewer
	project *domain.Project
	Name    string
	NewName string
}

// NewRenameCommand creates a new RenameCommand
func NewRenameCommand(store ports.SheetStore, viewer ports.WaveViewer, project *domain.Project, name, newName string) *RenameCommand {
	return &RenameCommand{
		store:   store,
		viewer:  viewer,
		project: project,
		Name:    name,
		NewName: newName,
	}
}

// Validate checks if the rename operation is valid
func (c *RenameCommand) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return &application.ValidationError{Field: "name", Message: "sheet name is required"}
	}
	newName := strings.TrimSpace(c.NewName)
	if newName == "" {
		return &application.ValidationError{Field: "new-name", Message: "new name is required"}
	}
	if strings.ContainsAny(newName, `/\`) {
		return fmt.Errorf("%w: %q", application.ErrInvalidName, newName)
	}
	return nil
}

// Execute runs the rename command
func (c *RenameCommand) Execute(ctx context.Context) (*RenameResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	newName := strings.TrimSpace(c.NewName)
	sheet, ok := c.project.Sheets[c.Name]
	if !ok {
		return nil, fmt.Errorf("sheet %s: %w", c.Name, application.ErrNotFound)
	}
	if _, taken := c.project.Sheets[newName]; taken {
		return nil, fmt.Errorf("%s: %w", newName, application.ErrSheetExists)
	}
	if c.viewer != nil && c.viewer.IsViewing(c.Name) {
		return nil, &application.PreconditionError{Sheet: c.Name, Reason: "wave viewer is displaying this sheet"}
	}

	oldPath := sheet.FilePath
	oldBase := domain.BaseName(oldPath)
	ext := filepath.Ext(oldPath)
	newPath := filepath.Join(filepath.Dir(oldPath), newName+ext)

	if err := c.store.Rename(oldPath, newPath); err != nil {
		return nil, fmt.Errorf("failed to rename %s: %w", c.Name, err)
	}
	// The autosaved copy still carries the old name; drop it rather
	// than let the next open report a bogus conflict.
	_ = c.store.Delete(c.store.AutosavePath(oldPath))

	moved, err := c.renameBackups(oldPath, newPath, oldBase, newName)
	if err != nil {
		return nil, err
	}

	sheet.Name = newName
	sheet.FilePath = newPath
	delete(c.project.Sheets, c.Name)
	c.project.Sheets[newName] = sheet
	if c.project.OpenSheet == c.Name {
		c.project.OpenSheet = newName
	}
	if err := c.store.Write(newPath, sheet); err != nil {
		return nil, &application.WriteError{Path: newPath, Err: err}
	}

	return &RenameResult{
		OriginalName:   c.Name,
		NewName:        newName,
		BackupsRenamed: moved,
		Message:        fmt.Sprintf("Renamed %s to %s (%d backups moved)", c.Name, newName, moved),
	}, nil
}

func (c *RenameCommand) renameBackups(oldPath, newPath, oldBase, newBase string) (int, error) {
	names, err := c.store.ListBackups(oldPath)
	if err != nil {
		return 0, fmt.Errorf("listing backups for %s: %w", oldBase, err)
	}

	dir := c.store.BackupDir(oldPath)
	newDir := c.store.BackupDir(newPath)
	moved := 0
	for _, n := range names {
		parsed, ok := domain.ParseBackupName(n)
		if !ok || parsed.Base != oldBase {
			continue
		}
		target := domain.FormatBackupName(newBase, parsed.Sequence, time.Now(), parsed.Ext)
		if err := c.store.Rename(filepath.Join(dir, n), filepath.Join(newDir, target)); err != nil {
			return moved, fmt.Errorf("moving backup %s: %w", n, err)
		}
		moved++
	}
	return moved, nil
}
