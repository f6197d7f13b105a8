package sqlite

import (
	"database/sql"

	"wirebench/internal/domain"
	"wirebench/internal/ports"
)

// indexTx implements ports.IndexTx
type indexTx struct {
	tx *sql.Tx
}

// Ensure indexTx implements IndexTx
var _ ports.IndexTx = (*indexTx)(nil)

// UpsertSheet inserts or updates a sheet entry
func (t *indexTx) UpsertSheet(entry *domain.IndexEntry) error {
	_, err := t.tx.Exec(`
		INSERT OR REPLACE INTO sheets (name, path, mtime, signature_hash, inputs, outputs)
		VALUES (?, ?, ?, ?, ?, ?)
	`, entry.Name, entry.Path, entry.Mtime, entry.SignatureHash,
		encodePorts(entry.Inputs), encodePorts(entry.Outputs))
	return err
}

// DeleteSheet removes a sheet entry by name
func (t *indexTx) DeleteSheet(name string) error {
	_, err := t.tx.Exec(`DELETE FROM sheets WHERE name = ?`, name)
	return err
}

// RenameSheet updates a sheet's name, carrying its embeddings along
func (t *indexTx) RenameSheet(oldName, newName string) error {
	if _, err := t.tx.Exec(`UPDATE sheets SET name = ? WHERE name = ?`, newName, oldName); err != nil {
		return err
	}
	if _, err := t.tx.Exec(`UPDATE embeddings SET owner = ? WHERE owner = ?`, newName, oldName); err != nil {
		return err
	}
	_, err := t.tx.Exec(`UPDATE embeddings SET target = ? WHERE target = ?`, newName, oldName)
	return err
}

// DeleteEmbeddingsFrom removes all embeddings owned by a sheet
func (t *indexTx) DeleteEmbeddingsFrom(ownerSheet string) error {
	_, err := t.tx.Exec(`DELETE FROM embeddings WHERE owner = ?`, ownerSheet)
	return err
}

// InsertEmbedding adds a new embedding
func (t *indexTx) InsertEmbedding(e *domain.Embedding) error {
	_, err := t.tx.Exec(`
		INSERT OR REPLACE INTO embeddings (owner, component_id, target, signature_hash)
		VALUES (?, ?, ?, ?)
	`, e.Owner, e.ComponentID, e.Target, e.SignatureHash)
	return err
}

// RecordSignature appends one interface revision to a sheet's history
func (t *indexTx) RecordSignature(sheet string, record *domain.SignatureRecord) error {
	_, err := t.tx.Exec(`
		INSERT OR IGNORE INTO signatures (sheet, signature_hash, inputs, outputs, recorded_at)
		VALUES (?, ?, ?, ?, ?)
	`, sheet, record.SignatureHash, encodePorts(record.Inputs), encodePorts(record.Outputs), record.RecordedAt)
	return err
}

// Commit commits the transaction
func (t *indexTx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction
func (t *indexTx) Rollback() error {
	return t.tx.Rollback()
}
