package domain

// LoadOutcomeKind is the closed set of results scanning one sheet's
// files can produce.
type LoadOutcomeKind int

const (
	// LoadOK means the primary file loaded and no diverging autosaved
	// copy exists.
	LoadOK LoadOutcomeKind = iota
	// LoadBackupOnly means the primary file was unreadable and the
	// sheet was recovered from its most recent loadable backup.
	LoadBackupOnly
	// LoadConflict means the primary and autosaved copies both loaded
	// and differ structurally; a human has to pick one.
	LoadConflict
)

func (k LoadOutcomeKind) String() string {
	switch k {
	case LoadOK:
		return "loaded"
	case LoadBackupOnly:
		return "loaded from backup"
	case LoadConflict:
		return "needs reconciliation"
	default:
		return "unknown"
	}
}

// LoadOutcome is the per-sheet result of the project scan. Sheet is set
// for LoadOK and LoadBackupOnly; Saved and Candidate for LoadConflict.
type LoadOutcome struct {
	Kind      LoadOutcomeKind
	Sheet     *Sheet
	Saved     *Sheet
	Candidate *Sheet
}

// FailedSheet records a sheet whose primary file and every backup were
// unreadable. The scan reports it and moves on.
type FailedSheet struct {
	Path string
	Err  error
}

// ScanResult is everything a project scan found.
type ScanResult struct {
	Outcomes []LoadOutcome
	Failed   []FailedSheet
}

// DecisionRequest is the suspension payload the reconciler yields when
// a sheet's saved and autosaved copies conflict. The caller answers
// with useCandidate: true keeps the autosaved copy.
type DecisionRequest struct {
	Saved              *Sheet
	Candidate          *Sheet
	ComponentsChanged  int
	ConnectionsChanged int
}
