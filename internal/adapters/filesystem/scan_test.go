package filesystem

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"wirebench/internal/application"
	"wirebench/internal/domain"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
}

func TestScan_CleanProject(t *testing.T) {
	dir := t.TempDir()
	store := NewStore("")
	ts := time.Now()

	for _, name := range []string{"alu", "decoder"} {
		s := sampleSheet(dir, name, ts)
		if err := store.Write(s.FilePath, s); err != nil {
			t.Fatal(err)
		}
	}
	// Distractors the scan must skip.
	writeFile(t, filepath.Join(dir, "notes.txt"), []byte("hi"))
	writeFile(t, filepath.Join(dir, "backup", "stray.wbs"), []byte("{}"))

	result, err := store.Scan(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Failed) != 0 {
		t.Errorf("Failed = %v, want none", result.Failed)
	}
	if len(result.Outcomes) != 2 {
		t.Fatalf("got %d outcomes, want 2", len(result.Outcomes))
	}
	// Deterministic order: sorted by filename.
	if result.Outcomes[0].Sheet.Name != "alu" || result.Outcomes[1].Sheet.Name != "decoder" {
		t.Errorf("unexpected order: %s, %s", result.Outcomes[0].Sheet.Name, result.Outcomes[1].Sheet.Name)
	}
	for _, o := range result.Outcomes {
		if o.Kind != domain.LoadOK {
			t.Errorf("%s: Kind = %v, want LoadOK", o.Sheet.Name, o.Kind)
		}
	}
}

func TestScan_MatchingAutosaveIsNoConflict(t *testing.T) {
	dir := t.TempDir()
	store := NewStore("")
	s := sampleSheet(dir, "alu", time.Now())
	if err := store.Write(s.FilePath, s); err != nil {
		t.Fatal(err)
	}
	if err := store.Write(store.AutosavePath(s.FilePath), s); err != nil {
		t.Fatal(err)
	}

	result, err := store.Scan(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Outcomes) != 1 || result.Outcomes[0].Kind != domain.LoadOK {
		t.Fatalf("got %+v, want one LoadOK outcome", result.Outcomes)
	}
}

func TestScan_DivergedAutosaveConflicts(t *testing.T) {
	dir := t.TempDir()
	store := NewStore("")
	ts := time.Now()

	saved := sampleSheet(dir, "alu", ts)
	if err := store.Write(saved.FilePath, saved); err != nil {
		t.Fatal(err)
	}
	candidate := sampleSheet(dir, "alu", ts.Add(time.Minute))
	candidate.Canvas.Components = append(candidate.Canvas.Components, domain.ComponentRecord{
		ID: "u2", Kind: domain.KindOther, Label: "extra",
	})
	if err := store.Write(store.AutosavePath(saved.FilePath), candidate); err != nil {
		t.Fatal(err)
	}

	result, err := store.Scan(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Outcomes) != 1 {
		t.Fatalf("got %d outcomes, want 1", len(result.Outcomes))
	}
	o := result.Outcomes[0]
	if o.Kind != domain.LoadConflict {
		t.Fatalf("Kind = %v, want LoadConflict", o.Kind)
	}
	if o.Saved == nil || o.Candidate == nil {
		t.Fatal("conflict outcome missing a copy")
	}
	// Both copies must point at the primary path, so whichever wins is
	// saved to the right place.
	if o.Candidate.FilePath != saved.FilePath {
		t.Errorf("candidate FilePath = %q, want %q", o.Candidate.FilePath, saved.FilePath)
	}
	if len(o.Candidate.Canvas.Components) != 3 {
		t.Errorf("candidate lost content: %d components", len(o.Candidate.Canvas.Components))
	}
}

func TestScan_InterfaceOnlyDivergenceConflicts(t *testing.T) {
	dir := t.TempDir()
	store := NewStore("")
	ts := time.Now()

	saved := sampleSheet(dir, "alu", ts)
	if err := store.Write(saved.FilePath, saved); err != nil {
		t.Fatal(err)
	}
	candidate := sampleSheet(dir, "alu", ts)
	candidate.Outputs = []domain.PortEntry{{Direction: domain.DirOutput, Label: "Y", Width: 8}}
	if err := store.Write(store.AutosavePath(saved.FilePath), candidate); err != nil {
		t.Fatal(err)
	}

	result, err := store.Scan(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Outcomes) != 1 || result.Outcomes[0].Kind != domain.LoadConflict {
		t.Fatalf("got %+v, want a conflict on interface divergence", result.Outcomes)
	}
}

func TestScan_RecoversFromNewestLoadableBackup(t *testing.T) {
	dir := t.TempDir()
	store := NewStore("")
	ts := time.Now()

	primary := filepath.Join(dir, "alu"+SheetExt)
	writeFile(t, primary, []byte("{corrupt"))

	backupDir := store.BackupDir(primary)
	// Newest backup is also corrupt; the one before it loads.
	good := sampleSheet(dir, "alu", ts)
	goodName := domain.FormatBackupName("alu", 1, ts, SheetExt)
	if err := store.Write(filepath.Join(backupDir, goodName), good); err != nil {
		t.Fatal(err)
	}
	badName := domain.FormatBackupName("alu", 2, ts.Add(time.Minute), SheetExt)
	writeFile(t, filepath.Join(backupDir, badName), []byte("{corrupt"))

	result, err := store.Scan(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Outcomes) != 1 {
		t.Fatalf("got %d outcomes, want 1", len(result.Outcomes))
	}
	o := result.Outcomes[0]
	if o.Kind != domain.LoadBackupOnly {
		t.Fatalf("Kind = %v, want LoadBackupOnly", o.Kind)
	}
	if o.Sheet.FilePath != primary {
		t.Errorf("recovered FilePath = %q, want the primary path", o.Sheet.FilePath)
	}
}

func TestScan_UnrecoverableSheetLandsInFailed(t *testing.T) {
	dir := t.TempDir()
	store := NewStore("")

	writeFile(t, filepath.Join(dir, "alu"+SheetExt), []byte("{corrupt"))
	healthy := sampleSheet(dir, "decoder", time.Now())
	if err := store.Write(healthy.FilePath, healthy); err != nil {
		t.Fatal(err)
	}

	result, err := store.Scan(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Failed) != 1 {
		t.Fatalf("Failed = %v, want one entry", result.Failed)
	}
	var lerr *application.LoadError
	if !errors.As(result.Failed[0].Err, &lerr) {
		t.Errorf("failed entry error = %v, want a LoadError", result.Failed[0].Err)
	} else if lerr.Path != filepath.Join(dir, "alu"+SheetExt) {
		t.Errorf("LoadError.Path = %q", lerr.Path)
	}
	// The bad sheet never stops the scan.
	if len(result.Outcomes) != 1 || result.Outcomes[0].Sheet.Name != "decoder" {
		t.Errorf("healthy sheet not scanned: %+v", result.Outcomes)
	}
}
