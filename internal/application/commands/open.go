package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"wirebench/internal/application"
	"wirebench/internal/domain"
	"wirebench/internal/ports"
)

// OpenResult contains the result of opening a project
type OpenResult struct {
	Project   *domain.Project
	Resolved  int // conflicts resolved during the open
	Recovered int // sheets recovered from backups
	Failed    []domain.FailedSheet
	Message   string
}

// OpenProjectCommand scans a project directory and drives the
// reconciler over the result, asking the decision handler whenever a
// sheet's saved and autosaved copies conflict. A handler error
// abandons the open and the project stays closed.
type OpenProjectCommand struct {
	scanner ports.ProjectScanner
	store   ports.SheetStore
	policy  *application.RetentionPolicy
	decider ports.DecisionHandler
	log     *zap.Logger
	Path    string
}

// NewOpenProjectCommand creates a new OpenProjectCommand
func NewOpenProjectCommand(scanner ports.ProjectScanner, store ports.SheetStore, policy *application.RetentionPolicy, decider ports.DecisionHandler, log *zap.Logger, path string) *OpenProjectCommand {
	if log == nil {
		log = zap.NewNop()
	}
	return &OpenProjectCommand{
		scanner: scanner,
		store:   store,
		policy:  policy,
		decider: decider,
		log:     log,
		Path:    path,
	}
}

// Validate checks if the open operation is valid
func (c *OpenProjectCommand) Validate() error {
	if strings.TrimSpace(c.Path) == "" {
		return &application.ValidationError{Field: "path", Message: "project path is required"}
	}
	return nil
}

// Execute runs the open command
func (c *OpenProjectCommand) Execute(ctx context.Context) (*OpenResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	scan, err := c.scanner.Scan(c.Path)
	if err != nil {
		return nil, fmt.Errorf("scanning project %s: %w", c.Path, err)
	}
	if len(scan.Outcomes) == 0 {
		return nil, fmt.Errorf("project %s: %w", c.Path, application.ErrNotFound)
	}

	recovered := 0
	for _, o := range scan.Outcomes {
		if o.Kind == domain.LoadBackupOnly {
			recovered++
		}
	}

	r := application.NewReconciler(scan.Outcomes, c.store, c.policy, c.log)
	resolved := 0
	for !r.Done() {
		req, err := r.Step()
		if err != nil {
			return nil, err
		}
		if req == nil {
			continue
		}

		useCandidate, err := c.decider.Decide(*req)
		if err != nil {
			// No automatic fallback: an unanswered conflict leaves the
			// project unopened.
			return nil, fmt.Errorf("reconciliation abandoned for %s: %w", req.Saved.Name, err)
		}
		if err := r.Resume(useCandidate); err != nil {
			var berr *application.BackupError
			if errors.As(err, &berr) {
				// The chosen copy is saved and the sheet opens; only the
				// superseded revision went unpreserved.
				c.log.Warn("reconciled sheet saved, superseded revision not backed up",
					zap.String("sheet", req.Saved.Name),
					zap.Error(err))
				resolved++
				continue
			}
			var werr *application.WriteError
			if errors.As(err, &werr) {
				// This sheet stays out of the project; the rest of the
				// batch is unaffected.
				c.log.Error("reconciled sheet not persisted",
					zap.String("sheet", req.Saved.Name),
					zap.Error(err))
				scan.Failed = append(scan.Failed, domain.FailedSheet{Path: werr.Path, Err: werr})
				continue
			}
			return nil, err
		}
		resolved++
	}

	sheets := make(map[string]*domain.Sheet, len(r.Sheets()))
	for _, s := range r.Sheets() {
		sheets[s.Name] = s
	}
	if len(sheets) == 0 {
		return nil, fmt.Errorf("project %s has no loadable sheets", c.Path)
	}

	project := &domain.Project{
		Path:      c.Path,
		OpenSheet: r.InitialSheet(),
		Sheets:    sheets,
	}

	return &OpenResult{
		Project:   project,
		Resolved:  resolved,
		Recovered: recovered,
		Failed:    scan.Failed,
		Message:   fmt.Sprintf("Opened %s: %d sheets, %d conflicts resolved, %d recovered from backup", c.Path, len(sheets), resolved, recovered),
	}, nil
}
