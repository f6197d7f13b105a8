package application

import (
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"wirebench/internal/domain"
	"wirebench/internal/ports"
)

// Action is what the retention policy decided to do with the current
// sheet state.
type Action int

const (
	// ActionWriteNewBackup allocates the next sequence number and
	// writes a fresh revision.
	ActionWriteNewBackup Action = iota
	// ActionOverwriteLatest replaces the newest backup in place,
	// keeping its sequence number.
	ActionOverwriteLatest
	// ActionSkip performs no I/O.
	ActionSkip
)

func (a Action) String() string {
	switch a {
	case ActionWriteNewBackup:
		return "write new backup"
	case ActionOverwriteLatest:
		return "overwrite latest backup"
	case ActionSkip:
		return "skip"
	default:
		return "unknown"
	}
}

// Decision carries the chosen action plus what Decide learned on the
// way, so Apply and the caller's reporting need no second look at disk.
type Decision struct {
	Action             Action
	Sequence           int    // sequence to write (new) or reuse (overwrite)
	LatestName         string // filename of the newest existing backup, if any
	ComponentsChanged  int
	ConnectionsChanged int
	InterfaceChanged   bool
}

// RetentionPolicy decides whether a sheet's current state warrants a
// new backup revision, an in-place refresh of the newest one, or
// nothing. It balances storage growth against safety: small recent
// edits fold into the latest revision, large or old ones get a new
// sequence number, and an interface change always does.
type RetentionPolicy struct {
	Store           ports.SheetStore
	ChangeThreshold int
	AgeThreshold    time.Duration
	Tolerance       float64
	Log             *zap.Logger
	Now             func() time.Time
}

// NewRetentionPolicy creates a policy with the given thresholds.
func NewRetentionPolicy(store ports.SheetStore, changeThreshold int, ageThreshold time.Duration, tolerance float64, log *zap.Logger) *RetentionPolicy {
	return &RetentionPolicy{
		Store:           store,
		ChangeThreshold: changeThreshold,
		AgeThreshold:    ageThreshold,
		Tolerance:       tolerance,
		Log:             log,
		Now:             time.Now,
	}
}

// Decide inspects the newest existing backup and classifies the current
// sheet state against it. It performs reads only; Apply executes the
// decision.
func (p *RetentionPolicy) Decide(current *domain.Sheet) (Decision, error) {
	base := domain.BaseName(current.FilePath)

	names, err := p.Store.ListBackups(current.FilePath)
	if err != nil {
		return Decision{}, fmt.Errorf("listing backups for %s: %w", current.Name, err)
	}

	latestName, latestSeq, ok := domain.LatestBackup(names, base)
	if !ok {
		return Decision{Action: ActionWriteNewBackup, Sequence: 0}, nil
	}

	backup, err := p.Store.TryLoad(filepath.Join(p.Store.BackupDir(current.FilePath), latestName))
	if err != nil {
		// Fail safe: if the prior revision cannot be verified, never
		// absorb the current state into it. Write a fresh one.
		p.log().Warn("latest backup unreadable, writing a new revision",
			zap.String("sheet", current.Name),
			zap.String("backup", latestName),
			zap.Error(err))
		return Decision{Action: ActionWriteNewBackup, Sequence: latestSeq + 1}, nil
	}

	if !current.SameInterface(backup) {
		// Dependents key on signature history; an interface change must
		// never be folded into an in-place overwrite.
		return Decision{
			Action:           ActionWriteNewBackup,
			Sequence:         latestSeq + 1,
			LatestName:       latestName,
			InterfaceChanged: true,
		}, nil
	}

	if domain.LayoutEqual(current.Canvas, backup.Canvas, p.Tolerance) {
		return Decision{Action: ActionSkip, Sequence: latestSeq, LatestName: latestName}, nil
	}

	c, k := domain.DiffCanvas(backup.Canvas, current.Canvas)
	elapsed := current.TimeStamp.Sub(backup.TimeStamp)
	d := Decision{
		Sequence:           latestSeq,
		LatestName:         latestName,
		ComponentsChanged:  c,
		ConnectionsChanged: k,
	}
	if elapsed > p.AgeThreshold || c+k > p.ChangeThreshold {
		d.Action = ActionWriteNewBackup
		d.Sequence = latestSeq + 1
	} else {
		d.Action = ActionOverwriteLatest
	}
	return d, nil
}

// Apply executes a decision. For ActionWriteNewBackup it writes the
// next revision; for ActionOverwriteLatest it writes a freshly named
// file for the same sequence and only then removes the superseded one,
// so there is no window with zero valid backups. Returns the path
// written, or "" for a skip.
func (p *RetentionPolicy) Apply(current *domain.Sheet, d Decision) (string, error) {
	if d.Action == ActionSkip {
		return "", nil
	}

	base := domain.BaseName(current.FilePath)
	ext := filepath.Ext(current.FilePath)
	dir := p.Store.BackupDir(current.FilePath)

	name := domain.FormatBackupName(base, d.Sequence, p.now(), ext)
	path := filepath.Join(dir, name)
	if err := p.Store.Write(path, current); err != nil {
		return "", &WriteError{Path: path, Err: err}
	}

	if d.Action == ActionOverwriteLatest && d.LatestName != "" && d.LatestName != name {
		// Clock-derived suffix moved on; the old file is superseded.
		old := filepath.Join(dir, d.LatestName)
		if err := p.Store.Delete(old); err != nil {
			p.log().Warn("superseded backup not removed",
				zap.String("sheet", current.Name),
				zap.String("path", old),
				zap.Error(err))
		}
	}

	return path, nil
}

// Run decides and applies in one step.
func (p *RetentionPolicy) Run(current *domain.Sheet) (Decision, string, error) {
	d, err := p.Decide(current)
	if err != nil {
		return d, "", err
	}
	path, err := p.Apply(current, d)
	return d, path, err
}

func (p *RetentionPolicy) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p *RetentionPolicy) log() *zap.Logger {
	if p.Log != nil {
		return p.Log
	}
	return zap.NewNop()
}
