// Package editor launches the user's text editor on a sheet file, for
// inspecting or hand-fixing the serialized form.
package editor

import (
	"fmt"
	"os"
	"os/exec"
)

// Opener implements ports.EditorOpener
type Opener struct{}

// NewOpener creates a new editor opener
func NewOpener() *Opener {
	return &Opener{}
}

// OpenFile opens the sheet file at path in the user's editor, attached
// to the current terminal, and blocks until the editor exits.
func (o *Opener) OpenFile(path string) error {
	editor := findEditor()
	if editor == "" {
		return fmt.Errorf("no editor found: set $EDITOR environment variable")
	}

	cmd := exec.Command(editor, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// findEditor resolves $EDITOR, then $VISUAL, then a list of common
// editors on PATH.
func findEditor() string {
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	if visual := os.Getenv("VISUAL"); visual != "" {
		return visual
	}
	for _, editor := range []string{"nvim", "vim", "vi", "nano", "code"} {
		if path, err := exec.LookPath(editor); err == nil {
			return path
		}
	}
	return ""
}
