package ports

// EditorOpener opens a sheet's primary file in an external editor.
type EditorOpener interface {
	// OpenFile opens the file at path in the user's preferred editor
	// ($EDITOR, then $VISUAL, then common fallbacks) and blocks until
	// the editor exits.
	OpenFile(path string) error
}
