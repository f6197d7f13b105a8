package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"wirebench/internal/application"
	"wirebench/internal/domain"
)

// Scan enumerates the sheet files in a project directory and classifies
// each one: cleanly loaded, recovered from the newest loadable backup,
// or in conflict with a diverging autosaved copy. Sheets whose primary
// file and every backup are unreadable land in Failed; one bad sheet
// never stops the scan.
func (s *Store) Scan(projectPath string) (*domain.ScanResult, error) {
	entries, err := os.ReadDir(projectPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read project: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != SheetExt || IsAutosave(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	result := &domain.ScanResult{}
	for _, name := range names {
		outcome, failed := s.classify(filepath.Join(projectPath, name))
		if failed != nil {
			result.Failed = append(result.Failed, *failed)
			continue
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}
	return result, nil
}

// classify produces the load outcome for one sheet's primary file.
func (s *Store) classify(path string) (domain.LoadOutcome, *domain.FailedSheet) {
	saved, loadErr := s.TryLoad(path)
	if loadErr != nil {
		recovered, ok := s.loadNewestBackup(path)
		if !ok {
			return domain.LoadOutcome{}, &domain.FailedSheet{
				Path: path,
				Err:  &application.LoadError{Path: path, Err: loadErr},
			}
		}
		recovered.FilePath = path // future saves go to the primary path
		return domain.LoadOutcome{Kind: domain.LoadBackupOnly, Sheet: recovered}, nil
	}

	candidate, err := s.TryLoad(s.AutosavePath(path))
	if err != nil {
		// No usable autosaved copy; the saved one stands alone.
		return domain.LoadOutcome{Kind: domain.LoadOK, Sheet: saved}, nil
	}
	candidate.FilePath = path

	c, k := domain.DiffCanvas(saved.Canvas, candidate.Canvas)
	if c == 0 && k == 0 && saved.SameInterface(candidate) {
		return domain.LoadOutcome{Kind: domain.LoadOK, Sheet: saved}, nil
	}
	return domain.LoadOutcome{Kind: domain.LoadConflict, Saved: saved, Candidate: candidate}, nil
}

// loadNewestBackup walks the sheet's backups from newest to oldest and
// returns the first one that loads.
func (s *Store) loadNewestBackup(sheetPath string) (*domain.Sheet, bool) {
	names, err := s.ListBackups(sheetPath)
	if err != nil {
		return nil, false
	}

	base := domain.BaseName(sheetPath)
	type rev struct {
		name string
		seq  int
	}
	var revs []rev
	for _, n := range names {
		parsed, ok := domain.ParseBackupName(n)
		if !ok || parsed.Base != base {
			continue
		}
		revs = append(revs, rev{name: n, seq: parsed.Sequence})
	}
	sort.Slice(revs, func(i, j int) bool { return revs[i].seq > revs[j].seq })

	dir := s.BackupDir(sheetPath)
	for _, r := range revs {
		if sheet, err := s.TryLoad(filepath.Join(dir, r.name)); err == nil {
			return sheet, true
		}
	}
	return nil, false
}
