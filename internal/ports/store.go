package ports

import "wirebench/internal/domain"

// SheetStore is the persistence collaborator: it owns the serialized
// sheet format and the layout of primary, autosave, and backup files
// on disk.
type SheetStore interface {
	// TryLoad reads and decodes the sheet at path.
	TryLoad(path string) (*domain.Sheet, error)

	// Write serializes the sheet to path, creating directories as
	// needed.
	Write(path string, s *domain.Sheet) error

	// Delete removes the file at path.
	Delete(path string) error

	// Rename moves a file. Used when a sheet or one of its backups
	// changes base name.
	Rename(oldPath, newPath string) error

	// BackupDir returns the backup directory for a sheet's primary
	// file (a sibling directory; logically private to that sheet).
	BackupDir(sheetPath string) string

	// ListBackups returns the filenames present in the sheet's backup
	// directory. A missing directory is an empty listing, not an error.
	ListBackups(sheetPath string) ([]string, error)

	// AutosavePath returns the sibling path the automatically-saved
	// copy of a sheet lives at.
	AutosavePath(sheetPath string) string
}

// ProjectScanner enumerates a project directory and classifies every
// sheet into the load outcome the reconciler consumes.
type ProjectScanner interface {
	Scan(projectPath string) (*domain.ScanResult, error)
}
