package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"wirebench/internal/adapters/filesystem"
	"wirebench/internal/application"
	"wirebench/internal/config"
	"wirebench/internal/logging"
)

var (
	projectDir string
	cfg        *config.Config
	store      *filesystem.Store
	policy     *application.RetentionPolicy
	logger     *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "wirebench",
	Short: "Versioning and backup tool for wirebench schematic projects",
	Long: `wirebench manages the persistence side of a schematic project:
per-sheet backup revisions, saved/autosaved conflict reconciliation,
and interface-change analysis across sheets.

It operates on a project directory of .wbs sheet files, with each
sheet's backup revisions kept in a sibling backup directory.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		cfg, err = config.Load(projectDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		logger = logging.NewLogger(logging.Config{
			Level:    cfg.LogLevel,
			Format:   cfg.LogFormat,
			FilePath: cfg.LogFile,
		})
		store = filesystem.NewStore(cfg.BackupDirName)
		policy = application.NewRetentionPolicy(store, cfg.ChangeThreshold, cfg.AgeThreshold, cfg.Tolerance, logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render(err.Error()))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&projectDir, "project", "p", ".", "path to the project directory")
}

// noViewer satisfies ports.WaveViewer when no trace viewer is attached:
// nothing is ever being viewed, so delete and rename are unguarded.
type noViewer struct{}

func (noViewer) IsViewing(string) bool { return false }
