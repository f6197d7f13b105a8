package cmd

import (
	"fmt"

	"wirebench/internal/domain"
)

// loadProject builds an in-memory project without resolving conflicts:
// read-only commands show the saved copy and flag the conflict instead
// of prompting. Only `open` rewrites files.
func loadProject() (*domain.Project, error) {
	scan, err := store.Scan(projectDir)
	if err != nil {
		return nil, err
	}
	if len(scan.Outcomes) == 0 && len(scan.Failed) == 0 {
		return nil, fmt.Errorf("no sheets found in %s", projectDir)
	}

	sheets := make(map[string]*domain.Sheet)
	for _, o := range scan.Outcomes {
		switch o.Kind {
		case domain.LoadOK, domain.LoadBackupOnly:
			sheets[o.Sheet.Name] = o.Sheet
		case domain.LoadConflict:
			fmt.Println(warnStyle.Render(fmt.Sprintf(
				"%s: autosaved copy diverges; showing the saved one (run `wirebench open` to reconcile)",
				o.Saved.Name)))
			sheets[o.Saved.Name] = o.Saved
		}
	}
	for _, f := range scan.Failed {
		fmt.Println(warnStyle.Render(fmt.Sprintf("unreadable, skipped: %s", f.Path)))
	}
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no loadable sheets in %s", projectDir)
	}

	open := ""
	var newest *domain.Sheet
	for _, s := range sheets {
		if newest == nil || s.TimeStamp.After(newest.TimeStamp) {
			newest = s
			open = s.Name
		}
	}
	return &domain.Project{Path: projectDir, OpenSheet: open, Sheets: sheets}, nil
}
