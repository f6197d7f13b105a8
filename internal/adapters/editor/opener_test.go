package editor

import "testing"

func TestFindEditor(t *testing.T) {
	tests := []struct {
		name   string
		editor string
		visual string
		want   string
	}{
		{name: "EDITOR wins", editor: "myedit", visual: "othervisual", want: "myedit"},
		{name: "VISUAL is the fallback", editor: "", visual: "othervisual", want: "othervisual"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("EDITOR", tt.editor)
			t.Setenv("VISUAL", tt.visual)
			if got := findEditor(); got != tt.want {
				t.Errorf("findEditor() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOpenFile_NoEditor(t *testing.T) {
	t.Setenv("EDITOR", "")
	t.Setenv("VISUAL", "")
	t.Setenv("PATH", t.TempDir())

	if err := NewOpener().OpenFile("alu.wbs"); err == nil {
		t.Error("expected an error with no editor available")
	}
}
