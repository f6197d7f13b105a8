package filesystem

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"wirebench/internal/domain"
	"wirebench/internal/ports"
)

const (
	// SheetExt is the extension of a persisted sheet file.
	SheetExt = ".wbs"

	autosaveSuffix = ".autosave" + SheetExt
)

// Store implements ports.SheetStore and ports.ProjectScanner on the
// local filesystem. Sheets are JSON; each sheet's backups live in a
// sibling directory.
type Store struct {
	backupDirName string
}

// Ensure Store implements both ports
var (
	_ ports.SheetStore     = (*Store)(nil)
	_ ports.ProjectScanner = (*Store)(nil)
)

// NewStore creates a new filesystem store. backupDirName defaults to
// "backup" when empty.
func NewStore(backupDirName string) *Store {
	if backupDirName == "" {
		backupDirName = "backup"
	}
	return &Store{backupDirName: backupDirName}
}

// TryLoad reads and decodes the sheet at path. The in-memory FilePath
// is set from the argument, not from file content.
func (s *Store) TryLoad(path string) (*domain.Sheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}

	var sheet domain.Sheet
	if err := json.Unmarshal(data, &sheet); err != nil {
		return nil, fmt.Errorf("failed to decode sheet %s: %w", path, err)
	}
	if sheet.Name == "" {
		sheet.Name = domain.BaseName(path)
	}
	sheet.FilePath = path
	return &sheet, nil
}

// Write serializes the sheet to path, creating directories as needed.
func (s *Store) Write(path string, sheet *domain.Sheet) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	data, err := json.MarshalIndent(sheet, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode sheet %s: %w", sheet.Name, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write sheet: %w", err)
	}
	return nil
}

// Delete removes the file at path.
func (s *Store) Delete(path string) error {
	return os.Remove(path)
}

// Rename moves a file, creating the target directory as needed.
func (s *Store) Rename(oldPath, newPath string) error {
	if err := os.MkdirAll(filepath.Dir(newPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return os.Rename(oldPath, newPath)
}

// BackupDir returns the backup directory sibling to a sheet file.
func (s *Store) BackupDir(sheetPath string) string {
	return filepath.Join(filepath.Dir(sheetPath), s.backupDirName)
}

// ListBackups returns the filenames in a sheet's backup directory. A
// directory that does not exist yet is an empty listing.
func (s *Store) ListBackups(sheetPath string) ([]string, error) {
	entries, err := os.ReadDir(s.BackupDir(sheetPath))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// AutosavePath returns the sibling path of the automatically-saved
// copy for a sheet's primary file.
func (s *Store) AutosavePath(sheetPath string) string {
	return strings.TrimSuffix(sheetPath, SheetExt) + autosaveSuffix
}

// IsAutosave reports whether a filename is an autosaved copy.
func IsAutosave(name string) bool {
	return strings.HasSuffix(name, autosaveSuffix)
}
