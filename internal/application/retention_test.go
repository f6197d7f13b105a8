package application

import (
	"errors"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"wirebench/internal/domain"
)

// memStore keeps sheets in a map and records every mutation, so tests
// can assert on ordering as well as final state. writeErr fails every
// write, or only those under writeErrUnder when that is set.
type memStore struct {
	files         map[string]*domain.Sheet
	failLoad      map[string]bool
	writeErr      error
	writeErrUnder string
	ops           []string
}

func newMemStore() *memStore {
	return &memStore{
		files:    make(map[string]*domain.Sheet),
		failLoad: make(map[string]bool),
	}
}

func (m *memStore) TryLoad(path string) (*domain.Sheet, error) {
	if m.failLoad[path] {
		return nil, errors.New("corrupt file")
	}
	s, ok := m.files[path]
	if !ok {
		return nil, errors.New("no such file")
	}
	cp := *s
	cp.FilePath = path
	return &cp, nil
}

func (m *memStore) Write(path string, s *domain.Sheet) error {
	if m.writeErr != nil && (m.writeErrUnder == "" || strings.HasPrefix(path, m.writeErrUnder)) {
		return m.writeErr
	}
	cp := *s
	m.files[path] = &cp
	m.ops = append(m.ops, "write "+path)
	return nil
}

func (m *memStore) Delete(path string) error {
	if _, ok := m.files[path]; !ok {
		return errors.New("no such file")
	}
	delete(m.files, path)
	m.ops = append(m.ops, "delete "+path)
	return nil
}

func (m *memStore) Rename(oldPath, newPath string) error {
	s, ok := m.files[oldPath]
	if !ok {
		return errors.New("no such file")
	}
	delete(m.files, oldPath)
	m.files[newPath] = s
	m.ops = append(m.ops, "rename "+oldPath+" "+newPath)
	return nil
}

func (m *memStore) BackupDir(sheetPath string) string {
	return filepath.Join(filepath.Dir(sheetPath), "backup")
}

func (m *memStore) ListBackups(sheetPath string) ([]string, error) {
	dir := m.BackupDir(sheetPath) + string(filepath.Separator)
	var names []string
	for path := range m.files {
		if strings.HasPrefix(path, dir) {
			names = append(names, strings.TrimPrefix(path, dir))
		}
	}
	sort.Strings(names)
	return names, nil
}

func (m *memStore) AutosavePath(sheetPath string) string {
	ext := filepath.Ext(sheetPath)
	return strings.TrimSuffix(sheetPath, ext) + ".autosave" + ext
}

func canvasWithComponents(ids ...string) domain.CanvasState {
	var c domain.CanvasState
	for _, id := range ids {
		c.Components = append(c.Components, domain.ComponentRecord{
			ID: id, Kind: domain.KindOther, Label: id,
		})
	}
	return c
}

func testSheet(name string, ts time.Time) *domain.Sheet {
	return &domain.Sheet{
		Name:      name,
		FilePath:  "/proj/" + name + ".wbs",
		TimeStamp: ts,
		Canvas:    canvasWithComponents("c1", "c2"),
		Inputs:    []domain.PortEntry{{Direction: domain.DirInput, Label: "A", Width: 1}},
		Outputs:   []domain.PortEntry{{Direction: domain.DirOutput, Label: "Y", Width: 1}},
	}
}

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

func testPolicy(store *memStore, now time.Time) *RetentionPolicy {
	p := NewRetentionPolicy(store, 12, time.Hour, domain.DefaultTolerance, zap.NewNop())
	p.Now = fixedClock(now)
	return p
}

func seedBackup(store *memStore, policy *RetentionPolicy, sheet *domain.Sheet, seq int, ts time.Time) string {
	name := domain.FormatBackupName(domain.BaseName(sheet.FilePath), seq, ts, ".wbs")
	path := filepath.Join(policy.Store.BackupDir(sheet.FilePath), name)
	cp := *sheet
	cp.TimeStamp = ts
	store.files[path] = &cp
	return path
}

func TestDecide_NoBackupsWritesSequenceZero(t *testing.T) {
	store := newMemStore()
	now := time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC)
	policy := testPolicy(store, now)

	d, err := policy.Decide(testSheet("alu", now))
	if err != nil {
		t.Fatal(err)
	}
	if d.Action != ActionWriteNewBackup || d.Sequence != 0 {
		t.Errorf("got %v seq %d, want write new at seq 0", d.Action, d.Sequence)
	}
}

func TestDecide_UnreadableBackupFailsSafe(t *testing.T) {
	store := newMemStore()
	now := time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC)
	policy := testPolicy(store, now)
	sheet := testSheet("alu", now)

	path := seedBackup(store, policy, sheet, 3, now.Add(-time.Minute))
	store.failLoad[path] = true

	core, logs := observer.New(zap.WarnLevel)
	policy.Log = zap.New(core)

	d, err := policy.Decide(sheet)
	if err != nil {
		t.Fatalf("unreadable backup must not fail the call: %v", err)
	}
	if d.Action != ActionWriteNewBackup || d.Sequence != 4 {
		t.Errorf("got %v seq %d, want write new at seq 4", d.Action, d.Sequence)
	}
	if logs.FilterMessage("latest backup unreadable, writing a new revision").Len() != 1 {
		t.Error("expected a warning about the unreadable backup")
	}
}

func TestDecide_InterfaceChangeAlwaysWritesNew(t *testing.T) {
	store := newMemStore()
	now := time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC)
	policy := testPolicy(store, now)

	sheet := testSheet("alu", now)
	seedBackup(store, policy, sheet, 0, now.Add(-time.Minute))

	// Same canvas, but a port changed width. Nothing else would trip
	// the thresholds.
	sheet.Inputs = []domain.PortEntry{{Direction: domain.DirInput, Label: "A", Width: 8}}

	d, err := policy.Decide(sheet)
	if err != nil {
		t.Fatal(err)
	}
	if d.Action != ActionWriteNewBackup || !d.InterfaceChanged {
		t.Errorf("got %v (interface changed %v), want write new", d.Action, d.InterfaceChanged)
	}
	if d.Sequence != 1 {
		t.Errorf("Sequence = %d, want 1", d.Sequence)
	}
}

func TestDecide_UnchangedLayoutSkips(t *testing.T) {
	store := newMemStore()
	now := time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC)
	policy := testPolicy(store, now)

	sheet := testSheet("alu", now)
	seedBackup(store, policy, sheet, 0, now.Add(-2*time.Hour))

	d, err := policy.Decide(sheet)
	if err != nil {
		t.Fatal(err)
	}
	// Age alone does not force a write when nothing changed.
	if d.Action != ActionSkip {
		t.Errorf("got %v, want skip", d.Action)
	}
}

func TestDecide_Thresholds(t *testing.T) {
	now := time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name            string
		changeThreshold int
		changedIDs      []string // components replacing c1, c2 in the current copy
		backupAge       time.Duration
		want            Action
		wantSeq         int
	}{
		{
			name:            "many changes within age window",
			changeThreshold: 4,
			// c1 and c2 removed, three added: 5 changed entries.
			changedIDs: []string{"d1", "d2", "d3"},
			backupAge:  30 * time.Minute,
			want:       ActionWriteNewBackup,
			wantSeq:    1,
		},
		{
			name:            "few changes within age window",
			changeThreshold: 12,
			changedIDs:      []string{"c1", "c2", "c3"}, // one added
			backupAge:       30 * time.Minute,
			want:            ActionOverwriteLatest,
			wantSeq:         0,
		},
		{
			name:            "few changes past age window",
			changeThreshold: 12,
			changedIDs:      []string{"c1", "c2", "c3"},
			backupAge:       2 * time.Hour,
			want:            ActionWriteNewBackup,
			wantSeq:         1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			policy := testPolicy(store, now)
			policy.ChangeThreshold = tt.changeThreshold

			sheet := testSheet("alu", now)
			seedBackup(store, policy, sheet, 0, now.Add(-tt.backupAge))
			sheet.Canvas = canvasWithComponents(tt.changedIDs...)

			d, err := policy.Decide(sheet)
			if err != nil {
				t.Fatal(err)
			}
			if d.Action != tt.want {
				t.Errorf("Action = %v, want %v", d.Action, tt.want)
			}
			if d.Sequence != tt.wantSeq {
				t.Errorf("Sequence = %d, want %d", d.Sequence, tt.wantSeq)
			}
		})
	}
}

func TestApply_OverwriteWritesBeforeDeleting(t *testing.T) {
	store := newMemStore()
	now := time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC)
	policy := testPolicy(store, now)

	sheet := testSheet("alu", now)
	old := seedBackup(store, policy, sheet, 0, now.Add(-10*time.Minute))
	sheet.Canvas = canvasWithComponents("c1", "c2", "c3")

	d, path, err := policy.Run(sheet)
	if err != nil {
		t.Fatal(err)
	}
	if d.Action != ActionOverwriteLatest {
		t.Fatalf("Action = %v, want overwrite", d.Action)
	}

	if len(store.ops) != 2 || !strings.HasPrefix(store.ops[0], "write ") || store.ops[1] != "delete "+old {
		t.Errorf("ops = %v, want write then delete of the superseded file", store.ops)
	}
	if _, ok := store.files[path]; !ok {
		t.Errorf("fresh backup %s not present", path)
	}
	if _, ok := store.files[old]; ok {
		t.Error("superseded backup still present")
	}

	// Same sequence, new timestamp suffix.
	parsed, ok := domain.ParseBackupName(filepath.Base(path))
	if !ok || parsed.Sequence != 0 {
		t.Errorf("overwrite changed the sequence: %s", path)
	}
}

func TestApply_SkipDoesNoIO(t *testing.T) {
	store := newMemStore()
	now := time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC)
	policy := testPolicy(store, now)

	path, err := policy.Apply(testSheet("alu", now), Decision{Action: ActionSkip})
	if err != nil {
		t.Fatal(err)
	}
	if path != "" || len(store.ops) != 0 {
		t.Errorf("skip touched the store: path %q, ops %v", path, store.ops)
	}
}

func TestRun_SequencesStrictlyIncrease(t *testing.T) {
	store := newMemStore()
	clock := time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC)
	policy := testPolicy(store, clock)
	policy.ChangeThreshold = 0 // every change writes a new revision
	policy.Now = func() time.Time { return clock }

	sheet := testSheet("alu", clock)
	var seqs []int
	for i := 0; i < 3; i++ {
		clock = clock.Add(time.Minute)
		sheet.TimeStamp = clock
		sheet.Canvas.Components = append(sheet.Canvas.Components, domain.ComponentRecord{
			ID: string(rune('x' + i)), Kind: domain.KindOther,
		})

		d, _, err := policy.Run(sheet)
		if err != nil {
			t.Fatal(err)
		}
		if d.Action != ActionWriteNewBackup {
			t.Fatalf("pass %d: Action = %v, want write new", i, d.Action)
		}
		seqs = append(seqs, d.Sequence)
	}

	for i := 1; i < len(seqs); i++ {
		if seqs[i] != seqs[i-1]+1 {
			t.Errorf("sequences %v are not strictly increasing by one", seqs)
		}
	}
}
