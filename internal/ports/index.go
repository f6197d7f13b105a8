package ports

import "wirebench/internal/domain"

// ProjectIndex provides cached access to sheet metadata and the
// embedding graph. Query operations should be O(1) or O(log n) via
// database indexes.
type ProjectIndex interface {
	// Lifecycle
	Open(projectPath string) error
	Close() error

	// Sync operations
	NeedsFullRebuild() bool
	SyncIncremental() (*domain.SyncStats, error)
	SyncFull() (*domain.SyncStats, error)

	// Sheet queries
	GetSheet(name string) (*domain.IndexEntry, error)
	SignatureHistory(name string) ([]domain.SignatureRecord, error)

	// Embedding queries (who embeds whom)
	FindEmbeddings(targetSheet string) ([]domain.Embedding, error)
	FindEmbeddingsFrom(ownerSheet string) ([]domain.Embedding, error)

	// Batch updates (for rename/delete operations)
	BeginTx() (IndexTx, error)
}

// IndexTx represents a transaction for atomic index updates.
type IndexTx interface {
	// Sheet operations
	UpsertSheet(entry *domain.IndexEntry) error
	DeleteSheet(name string) error
	RenameSheet(oldName, newName string) error

	// Embedding operations
	DeleteEmbeddingsFrom(ownerSheet string) error
	InsertEmbedding(e *domain.Embedding) error

	// Signature history (append-only; re-recording a seen interface is
	// a no-op)
	RecordSignature(sheet string, record *domain.SignatureRecord) error

	// Transaction control
	Commit() error
	Rollback() error
}
