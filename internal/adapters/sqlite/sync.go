package sqlite

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"wirebench/internal/domain"
	"wirebench/internal/ports"
)

const (
	sheetExt       = ".wbs"
	autosaveSuffix = ".autosave" + sheetExt
)

// SyncFull performs a complete rebuild of the index
func (idx *Index) SyncFull() (*domain.SyncStats, error) {
	start := time.Now()
	stats := &domain.SyncStats{}

	// Clear existing data; signature history is append-only and survives
	if _, err := idx.db.Exec(`DELETE FROM sheets`); err != nil {
		return nil, err
	}
	if _, err := idx.db.Exec(`DELETE FROM embeddings`); err != nil {
		return nil, err
	}

	tx, err := idx.BeginTx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	for _, path := range idx.sheetFiles() {
		stats.FilesScanned++
		if err := idx.indexSheet(tx, path, stats); err != nil {
			return nil, err
		}
		stats.SheetsAdded++
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	stats.Duration = time.Since(start)
	return stats, nil
}

// SyncIncremental refreshes only sheets whose files changed since the
// last sync, and drops entries whose files are gone
func (idx *Index) SyncIncremental() (*domain.SyncStats, error) {
	start := time.Now()
	stats := &domain.SyncStats{}

	known := make(map[string]int64) // relative path -> mtime
	rows, err := idx.db.Query(`SELECT path, mtime FROM sheets`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var path string
		var mtime int64
		if err := rows.Scan(&path, &mtime); err != nil {
			rows.Close()
			return nil, err
		}
		known[path] = mtime
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	tx, err := idx.BeginTx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	seen := make(map[string]bool)
	for _, path := range idx.sheetFiles() {
		stats.FilesScanned++
		rel, err := filepath.Rel(idx.projectPath, path)
		if err != nil {
			rel = path
		}
		seen[rel] = true

		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		prev, existed := known[rel]
		if existed && prev == info.ModTime().Unix() {
			continue
		}

		if err := idx.indexSheet(tx, path, stats); err != nil {
			return nil, err
		}
		if existed {
			stats.SheetsUpdated++
		} else {
			stats.SheetsAdded++
		}
	}

	for rel := range known {
		if seen[rel] {
			continue
		}
		name := domain.BaseName(rel)
		if err := tx.DeleteSheet(name); err != nil {
			return nil, err
		}
		if err := tx.DeleteEmbeddingsFrom(name); err != nil {
			return nil, err
		}
		stats.SheetsDeleted++
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	stats.Duration = time.Since(start)
	return stats, nil
}

// sheetFiles lists the primary sheet files in the project directory,
// skipping autosaved copies and backup directories
func (idx *Index) sheetFiles() []string {
	entries, err := os.ReadDir(idx.projectPath)
	if err != nil {
		return nil
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if filepath.Ext(name) != sheetExt || strings.HasSuffix(name, autosaveSuffix) {
			continue
		}
		paths = append(paths, filepath.Join(idx.projectPath, name))
	}
	return paths
}

// indexSheet loads one sheet file and writes its row, its embeddings,
// and (when the interface moved) a signature history entry
func (idx *Index) indexSheet(tx ports.IndexTx, path string, stats *domain.SyncStats) error {
	sheet, err := idx.store.TryLoad(path)
	if err != nil {
		// Unreadable sheets simply stay out of the index
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil
	}

	rel, err := filepath.Rel(idx.projectPath, path)
	if err != nil {
		rel = path
	}

	hash := signatureHash(sheet.Inputs, sheet.Outputs)
	entry := &domain.IndexEntry{
		Name:          sheet.Name,
		Path:          rel,
		Mtime:         info.ModTime().Unix(),
		SignatureHash: hash,
		Inputs:        sheet.Inputs,
		Outputs:       sheet.Outputs,
	}
	if err := tx.UpsertSheet(entry); err != nil {
		return err
	}

	if err := tx.DeleteEmbeddingsFrom(sheet.Name); err != nil {
		return err
	}
	for _, c := range sheet.Canvas.Components {
		if c.Kind != domain.KindCustom {
			continue
		}
		e := &domain.Embedding{
			Owner:         sheet.Name,
			ComponentID:   c.ID,
			Target:        c.RefSheet,
			SignatureHash: signatureHashOf(c.RefPorts),
		}
		if err := tx.InsertEmbedding(e); err != nil {
			return err
		}
		stats.EmbeddingsAdded++
	}

	return tx.RecordSignature(sheet.Name, &domain.SignatureRecord{
		SignatureHash: hash,
		Inputs:        sheet.Inputs,
		Outputs:       sheet.Outputs,
		RecordedAt:    time.Now().Unix(),
	})
}

// signatureHashOf hashes an embedded snapshot, which mixes directions
// in one list
func signatureHashOf(snapshot []domain.PortEntry) string {
	var inputs, outputs []domain.PortEntry
	for _, p := range snapshot {
		if p.Direction == domain.DirInput {
			inputs = append(inputs, p)
		} else {
			outputs = append(outputs, p)
		}
	}
	return signatureHash(inputs, outputs)
}
