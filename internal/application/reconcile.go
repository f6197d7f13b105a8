package application

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"wirebench/internal/domain"
	"wirebench/internal/ports"
)

// Reconciler resolves a batch of load outcomes into the sheets a
// project opens with. It is an explicit, resumable state machine: Step
// advances through the outcome list until it either finishes or hits a
// saved/autosave conflict, which it yields as a DecisionRequest. The
// caller answers with Resume and calls Step again. Decision requests
// are issued strictly one at a time, in input order.
type Reconciler struct {
	store  ports.SheetStore
	policy *RetentionPolicy
	log    *zap.Logger
	now    func() time.Time

	remaining   []domain.LoadOutcome
	accumulated []*domain.Sheet
	pending     *domain.DecisionRequest
	done        bool
}

// NewReconciler builds a reconciler over the scan outcomes for one
// project being opened.
func NewReconciler(outcomes []domain.LoadOutcome, store ports.SheetStore, policy *RetentionPolicy, log *zap.Logger) *Reconciler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reconciler{
		store:     store,
		policy:    policy,
		log:       log,
		now:       time.Now,
		remaining: outcomes,
	}
}

// Step advances the machine. It returns a non-nil DecisionRequest when
// suspended on a conflict, or (nil, nil) once every outcome has been
// consumed. Calling Step while a decision is pending returns the same
// request again.
func (r *Reconciler) Step() (*domain.DecisionRequest, error) {
	if r.pending != nil {
		return r.pending, nil
	}

	for len(r.remaining) > 0 {
		head := r.remaining[0]
		switch head.Kind {
		case domain.LoadOK:
			r.remaining = r.remaining[1:]
			r.accumulated = append(r.accumulated, head.Sheet)

		case domain.LoadBackupOnly:
			r.remaining = r.remaining[1:]
			r.log.Warn("primary copy failed to load, using most recent backup",
				zap.String("sheet", head.Sheet.Name))
			r.accumulated = append(r.accumulated, head.Sheet)

		case domain.LoadConflict:
			r.remaining = r.remaining[1:]
			c, k := domain.DiffCanvas(head.Saved.Canvas, head.Candidate.Canvas)
			r.pending = &domain.DecisionRequest{
				Saved:              head.Saved,
				Candidate:          head.Candidate,
				ComponentsChanged:  c,
				ConnectionsChanged: k,
			}
			return r.pending, nil

		default:
			return nil, fmt.Errorf("unknown load outcome kind %d", head.Kind)
		}
	}

	r.done = true
	return nil, nil
}

// Resume answers the pending decision. The chosen copy is re-stamped
// and persisted to the primary path; if the two copies differed
// structurally, the retention policy then runs on the chosen one, which
// is the only thing preserving the copy not chosen. The two writes fail
// differently: a WriteError means the primary was not persisted and the
// sheet is dropped from the accumulated list, while a BackupError means
// the sheet is saved and accumulated but the superseded revision went
// unpreserved.
func (r *Reconciler) Resume(useCandidate bool) error {
	if r.pending == nil {
		return ErrNoPendingDecision
	}
	req := r.pending
	r.pending = nil

	chosen := req.Saved
	if useCandidate {
		chosen = req.Candidate
	}
	chosen.TimeStamp = r.now()

	if err := r.store.Write(chosen.FilePath, chosen); err != nil {
		return &WriteError{Path: chosen.FilePath, Err: err}
	}
	r.accumulated = append(r.accumulated, chosen)

	if req.ComponentsChanged+req.ConnectionsChanged > 0 && r.policy != nil {
		if _, _, err := r.policy.Run(chosen); err != nil {
			return &BackupError{Sheet: chosen.Name, Err: err}
		}
	}
	return nil
}

// Done reports whether every outcome has been consumed.
func (r *Reconciler) Done() bool {
	return r.done
}

// Sheets returns the accumulated sheets. Meaningful once Done.
func (r *Reconciler) Sheets() []*domain.Sheet {
	return r.accumulated
}

// InitialSheet names the sheet to display first: the newest by
// timestamp, ties broken by first occurrence.
func (r *Reconciler) InitialSheet() string {
	var best *domain.Sheet
	for _, s := range r.accumulated {
		if best == nil || s.TimeStamp.After(best.TimeStamp) {
			best = s
		}
	}
	if best == nil {
		return ""
	}
	return best.Name
}
