// Package prompt is the terminal implementation of the reconciliation
// decision dialog.
package prompt

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"wirebench/internal/domain"
	"wirebench/internal/ports"
)

// Handler implements ports.DecisionHandler with an interactive confirm
// form. It blocks until the user picks a copy; there is no timeout.
type Handler struct{}

// Ensure Handler implements DecisionHandler
var _ ports.DecisionHandler = (*Handler)(nil)

// NewHandler creates a new terminal decision handler
func NewHandler() *Handler {
	return &Handler{}
}

// Decide asks which copy of a conflicted sheet to keep. Returns true
// for the autosaved candidate.
func (h *Handler) Decide(req domain.DecisionRequest) (bool, error) {
	useCandidate := true

	confirm := huh.NewConfirm().
		Title(fmt.Sprintf("Sheet %q has two diverged copies", req.Saved.Name)).
		Description(describeConflict(req)).
		Affirmative("Keep autosaved copy").
		Negative("Keep saved copy").
		Value(&useCandidate)

	if err := huh.NewForm(huh.NewGroup(confirm)).Run(); err != nil {
		return false, fmt.Errorf("decision dialog: %w", err)
	}
	return useCandidate, nil
}

func describeConflict(req domain.DecisionRequest) string {
	return fmt.Sprintf(
		"Saved %s, autosaved %s. %d components and %d connections differ.",
		req.Saved.TimeStamp.Format("2006-01-02 15:04"),
		req.Candidate.TimeStamp.Format("2006-01-02 15:04"),
		req.ComponentsChanged,
		req.ConnectionsChanged,
	)
}
