package ports

import "wirebench/internal/domain"

// DecisionHandler is the human-facing collaborator that resolves a
// saved/autosaved conflict. Decide blocks until the user answers; there
// is no timeout, and an error abandons the whole load operation.
type DecisionHandler interface {
	// Decide returns true to keep the autosaved candidate, false to
	// keep the saved copy.
	Decide(req domain.DecisionRequest) (useCandidate bool, err error)
}

// WaveViewer is the trace/simulation viewer collaborator. Sheets it is
// actively displaying must not be deleted or renamed.
type WaveViewer interface {
	IsViewing(sheetName string) bool
}

// PortRewriter is an extension point: given a sheet's current interface
// and the dependent instances that embed a stale snapshot of it,
// rewrite the owning sheets to match. No implementation ships; the
// analyzer only reports, it never mutates.
type PortRewriter interface {
	Rewrite(target []domain.PortEntry, instances []domain.DependentInstance) ([]*domain.Sheet, error)
}
