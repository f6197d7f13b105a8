package domain

import "time"

// IndexEntry is one cached sheet row in the project index.
type IndexEntry struct {
	Name          string
	Path          string // relative to the project root
	Mtime         int64  // unix timestamp for incremental sync
	SignatureHash string
	Inputs        []PortEntry
	Outputs       []PortEntry
}

// Embedding is one cached custom-component placement: Owner embeds
// Target with the signature it snapshotted at placement time.
type Embedding struct {
	Owner         string
	ComponentID   string
	Target        string
	SignatureHash string
}

// SignatureRecord is one entry in a sheet's interface history.
type SignatureRecord struct {
	SignatureHash string
	Inputs        []PortEntry
	Outputs       []PortEntry
	RecordedAt    int64
}

// SyncStats holds statistics from an index sync operation.
type SyncStats struct {
	SheetsAdded       int
	SheetsUpdated     int
	SheetsDeleted     int
	EmbeddingsAdded   int
	EmbeddingsDeleted int
	FilesScanned      int
	Duration          time.Duration
}
