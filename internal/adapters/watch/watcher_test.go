package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func startWatcher(t *testing.T) (*SheetWatcher, string) {
	t.Helper()
	dir := t.TempDir()
	sw, err := NewSheetWatcher(".wbs")
	if err != nil {
		t.Fatal(err)
	}
	if err := sw.Start(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { sw.Stop() })
	return sw, dir
}

// waitForEvent collects events until one matches, so platform-specific
// extra events (a write following a create, say) do not fail the test.
func waitForEvent(t *testing.T, sw *SheetWatcher, match func(SheetEvent) bool) SheetEvent {
	t.Helper()
	timeout := time.After(3 * time.Second)
	for {
		select {
		case ev, ok := <-sw.Events():
			if !ok {
				t.Fatal("events channel closed while waiting")
			}
			if match(ev) {
				return ev
			}
		case <-timeout:
			t.Fatal("timed out waiting for event")
		}
	}
}

func TestSheetWatcher_Create(t *testing.T) {
	sw, dir := startWatcher(t)

	path := filepath.Join(dir, "alu.wbs")
	if err := os.WriteFile(path, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	ev := waitForEvent(t, sw, func(e SheetEvent) bool { return e.Op == OpCreate })
	if ev.Path != path {
		t.Errorf("Path = %q, want %q", ev.Path, path)
	}
	if ev.Autosave {
		t.Error("primary file reported as autosave")
	}
}

func TestSheetWatcher_ModifyAndDelete(t *testing.T) {
	sw, dir := startWatcher(t)

	path := filepath.Join(dir, "alu.wbs")
	if err := os.WriteFile(path, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	waitForEvent(t, sw, func(e SheetEvent) bool { return e.Op == OpCreate })

	if err := os.WriteFile(path, []byte(`{"name":"alu"}`), 0644); err != nil {
		t.Fatal(err)
	}
	waitForEvent(t, sw, func(e SheetEvent) bool { return e.Op == OpModify && e.Path == path })

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	waitForEvent(t, sw, func(e SheetEvent) bool { return e.Op == OpDelete && e.Path == path })
}

func TestSheetWatcher_AutosaveFlag(t *testing.T) {
	sw, dir := startWatcher(t)

	path := filepath.Join(dir, "alu.autosave.wbs")
	if err := os.WriteFile(path, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	ev := waitForEvent(t, sw, func(e SheetEvent) bool { return e.Path == path })
	if !ev.Autosave {
		t.Error("autosaved copy not flagged")
	}
}

func TestSheetWatcher_IgnoresOtherFiles(t *testing.T) {
	sw, dir := startWatcher(t)

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0644); err != nil {
		t.Fatal(err)
	}
	marker := filepath.Join(dir, "marker.wbs")
	if err := os.WriteFile(marker, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	// The marker arrives; nothing for the text file ever should.
	ev := waitForEvent(t, sw, func(e SheetEvent) bool { return filepath.Ext(e.Path) == ".wbs" })
	if ev.Path != marker {
		t.Errorf("unexpected event for %q", ev.Path)
	}
}

func TestSheetWatcher_StartTwiceFails(t *testing.T) {
	sw, dir := startWatcher(t)
	if err := sw.Start(dir); err == nil {
		t.Error("second Start succeeded")
	}
}

func TestSheetWatcher_StopClosesChannels(t *testing.T) {
	dir := t.TempDir()
	sw, err := NewSheetWatcher(".wbs")
	if err != nil {
		t.Fatal(err)
	}
	if err := sw.Start(dir); err != nil {
		t.Fatal(err)
	}
	if err := sw.Stop(); err != nil {
		t.Fatal(err)
	}

	if _, ok := <-sw.Events(); ok {
		t.Error("events channel still open after Stop")
	}
	if _, ok := <-sw.Errors(); ok {
		t.Error("errors channel still open after Stop")
	}

	// Stopping again is a no-op.
	if err := sw.Stop(); err != nil {
		t.Fatal(err)
	}
}

func TestConvertEvent(t *testing.T) {
	sw := &SheetWatcher{ext: ".wbs"}

	tests := []struct {
		name   string
		event  fsnotify.Event
		wantOp EventOp
		wantOK bool
	}{
		{
			name:   "create",
			event:  fsnotify.Event{Name: "/p/alu.wbs", Op: fsnotify.Create},
			wantOp: OpCreate, wantOK: true,
		},
		{
			name:   "write",
			event:  fsnotify.Event{Name: "/p/alu.wbs", Op: fsnotify.Write},
			wantOp: OpModify, wantOK: true,
		},
		{
			name:   "rename maps to delete",
			event:  fsnotify.Event{Name: "/p/alu.wbs", Op: fsnotify.Rename},
			wantOp: OpDelete, wantOK: true,
		},
		{
			name:   "chmod only is dropped",
			event:  fsnotify.Event{Name: "/p/alu.wbs", Op: fsnotify.Chmod},
			wantOK: false,
		},
		{
			name:   "wrong extension",
			event:  fsnotify.Event{Name: "/p/alu.txt", Op: fsnotify.Write},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := sw.convertEvent(tt.event)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got.Op != tt.wantOp {
				t.Errorf("Op = %v, want %v", got.Op, tt.wantOp)
			}
		})
	}
}
