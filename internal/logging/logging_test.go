package logging

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "defaults", cfg: Config{}},
		{name: "console format", cfg: Config{Level: "debug", Format: "console"}},
		{name: "bad level falls back", cfg: Config{Level: "chatty"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := NewLogger(tt.cfg)
			if log == nil {
				t.Fatal("nil logger")
			}
			log.Info("probe")
		})
	}
}

func TestNewLogger_WithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wirebench.log")
	log := NewLogger(Config{Level: "info", FilePath: path})
	log.Info("written to file")
	log.Sync()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("log file not created: %v", err)
	}
}
