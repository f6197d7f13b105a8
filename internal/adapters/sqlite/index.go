package sqlite

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"wirebench/internal/domain"
	"wirebench/internal/ports"
)

const schemaVersion = "1"

// Index implements ports.ProjectIndex using SQLite
type Index struct {
	db          *sql.DB
	store       ports.SheetStore
	projectPath string
	dbPath      string
}

// Ensure Index implements ProjectIndex
var _ ports.ProjectIndex = (*Index)(nil)

// NewIndex creates a new SQLite index backed by the given sheet store
func NewIndex(store ports.SheetStore) *Index {
	return &Index{store: store}
}

// Open initializes the index for the given project path
func (idx *Index) Open(projectPath string) error {
	idx.projectPath = projectPath
	idx.dbPath = databasePath(projectPath)

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(idx.dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", idx.dbPath+"?_journal_mode=WAL")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	idx.db = db

	// Performance pragmas + schema in single batch (reduces round-trips)
	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA cache_size = -64000;
		PRAGMA temp_store = MEMORY;
		PRAGMA busy_timeout = 5000;

		CREATE TABLE IF NOT EXISTS sheets (
			name TEXT PRIMARY KEY,
			path TEXT NOT NULL,
			mtime INTEGER NOT NULL,
			signature_hash TEXT NOT NULL,
			inputs TEXT NOT NULL,
			outputs TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS embeddings (
			owner TEXT NOT NULL,
			component_id TEXT NOT NULL,
			target TEXT NOT NULL,
			signature_hash TEXT NOT NULL,
			PRIMARY KEY (owner, component_id)
		);
		CREATE TABLE IF NOT EXISTS signatures (
			sheet TEXT NOT NULL,
			signature_hash TEXT NOT NULL,
			inputs TEXT NOT NULL,
			outputs TEXT NOT NULL,
			recorded_at INTEGER NOT NULL,
			PRIMARY KEY (sheet, signature_hash)
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_sheets_path ON sheets(path);
		CREATE INDEX IF NOT EXISTS idx_embeddings_target ON embeddings(target);
		CREATE INDEX IF NOT EXISTS idx_signatures_sheet ON signatures(sheet);
	`)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to setup database: %w", err)
	}

	// Update metadata
	if err := idx.updateMeta(); err != nil {
		db.Close()
		return fmt.Errorf("failed to update metadata: %w", err)
	}

	return nil
}

// Close closes the database connection
func (idx *Index) Close() error {
	if idx.db != nil {
		return idx.db.Close()
	}
	return nil
}

// NeedsFullRebuild returns true if the index should be fully rebuilt
func (idx *Index) NeedsFullRebuild() bool {
	var version, pathHash string

	idx.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&version)
	idx.db.QueryRow("SELECT value FROM meta WHERE key = 'project_path_hash'").Scan(&pathHash)

	expectedHash := hashProjectPath(idx.projectPath)

	return version != schemaVersion || pathHash != expectedHash
}

// databasePath returns the path for the SQLite database
func databasePath(projectPath string) string {
	// XDG data directory
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}

	// Hash project path for unique DB name
	hash := hashProjectPath(projectPath)

	return filepath.Join(dataHome, "wirebench", hash+".db")
}

// hashProjectPath returns a short hash of the project path
func hashProjectPath(projectPath string) string {
	h := sha256.Sum256([]byte(projectPath))
	return hex.EncodeToString(h[:8]) // First 8 bytes = 16 hex chars
}

// updateMeta updates the schema version and project path hash
func (idx *Index) updateMeta() error {
	// One statement per Exec: the driver binds args to the first
	// statement only and silently drops the rest.
	if _, err := idx.db.Exec(`
		INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)
	`, schemaVersion); err != nil {
		return err
	}
	_, err := idx.db.Exec(`
		INSERT OR REPLACE INTO meta (key, value) VALUES ('project_path_hash', ?)
	`, hashProjectPath(idx.projectPath))
	return err
}

// GetSheet retrieves an index entry by sheet name
func (idx *Index) GetSheet(name string) (*domain.IndexEntry, error) {
	var entry domain.IndexEntry
	var inputs, outputs string

	err := idx.db.QueryRow(`
		SELECT name, path, mtime, signature_hash, inputs, outputs
		FROM sheets WHERE name = ?
	`, name).Scan(&entry.Name, &entry.Path, &entry.Mtime, &entry.SignatureHash, &inputs, &outputs)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := decodePorts(inputs, &entry.Inputs); err != nil {
		return nil, err
	}
	if err := decodePorts(outputs, &entry.Outputs); err != nil {
		return nil, err
	}
	return &entry, nil
}

// SignatureHistory returns every interface a sheet has been indexed
// with, oldest first
func (idx *Index) SignatureHistory(name string) ([]domain.SignatureRecord, error) {
	rows, err := idx.db.Query(`
		SELECT signature_hash, inputs, outputs, recorded_at
		FROM signatures WHERE sheet = ?
		ORDER BY recorded_at ASC
	`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.SignatureRecord
	for rows.Next() {
		var r domain.SignatureRecord
		var inputs, outputs string
		if err := rows.Scan(&r.SignatureHash, &inputs, &outputs, &r.RecordedAt); err != nil {
			return nil, err
		}
		if err := decodePorts(inputs, &r.Inputs); err != nil {
			return nil, err
		}
		if err := decodePorts(outputs, &r.Outputs); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// FindEmbeddings returns every cached placement referencing the target
// sheet
func (idx *Index) FindEmbeddings(targetSheet string) ([]domain.Embedding, error) {
	return idx.queryEmbeddings(`
		SELECT owner, component_id, target, signature_hash
		FROM embeddings WHERE target = ?
		ORDER BY owner, component_id
	`, targetSheet)
}

// FindEmbeddingsFrom returns every cached placement inside the owner
// sheet
func (idx *Index) FindEmbeddingsFrom(ownerSheet string) ([]domain.Embedding, error) {
	return idx.queryEmbeddings(`
		SELECT owner, component_id, target, signature_hash
		FROM embeddings WHERE owner = ?
		ORDER BY component_id
	`, ownerSheet)
}

func (idx *Index) queryEmbeddings(query string, arg any) ([]domain.Embedding, error) {
	rows, err := idx.db.Query(query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var embeddings []domain.Embedding
	for rows.Next() {
		var e domain.Embedding
		if err := rows.Scan(&e.Owner, &e.ComponentID, &e.Target, &e.SignatureHash); err != nil {
			return nil, err
		}
		embeddings = append(embeddings, e)
	}
	return embeddings, rows.Err()
}

// BeginTx starts a transaction for atomic index updates
func (idx *Index) BeginTx() (ports.IndexTx, error) {
	tx, err := idx.db.Begin()
	if err != nil {
		return nil, err
	}
	return &indexTx{tx: tx}, nil
}

func encodePorts(ports []domain.PortEntry) string {
	if ports == nil {
		ports = []domain.PortEntry{}
	}
	data, _ := json.Marshal(ports)
	return string(data)
}

func decodePorts(data string, out *[]domain.PortEntry) error {
	if data == "" {
		return nil
	}
	return json.Unmarshal([]byte(data), out)
}

// signatureHash returns a short stable hash of a sheet's interface
func signatureHash(inputs, outputs []domain.PortEntry) string {
	key := domain.SignatureKey(inputs) + ";" + domain.SignatureKey(outputs)
	h := sha256.Sum256([]byte(key))
	return hex.EncodeToString(h[:8])
}
