package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"wirebench/internal/domain"
)

var portsDiff bool

var portsCmd = &cobra.Command{
	Use:   "ports <sheet>",
	Short: "Show a sheet's interface, optionally against its last backup",
	Long: `Ports prints the named sheet's input and output ports. With --diff
it matches the interface against the newest backup revision and
classifies every port: identical, width changed, relabeled, added, or
removed.

Examples:
  wirebench -p ./alu ports adder
  wirebench -p ./alu ports adder --diff`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		project, err := loadProject()
		if err != nil {
			return err
		}
		sheet, ok := project.Sheets[args[0]]
		if !ok {
			return fmt.Errorf("no sheet named %s", args[0])
		}

		if !portsDiff {
			for _, p := range sheet.Signature() {
				fmt.Printf("  %-4s %-16s width %d\n", p.Direction, p.Label, p.Width)
			}
			return nil
		}

		names, err := store.ListBackups(sheet.FilePath)
		if err != nil {
			return err
		}
		latest, _, ok := domain.LatestBackup(names, domain.BaseName(sheet.FilePath))
		if !ok {
			fmt.Println(dimStyle.Render("no backups to compare against"))
			return nil
		}
		backup, err := store.TryLoad(filepath.Join(store.BackupDir(sheet.FilePath), latest))
		if err != nil {
			return fmt.Errorf("loading backup %s: %w", latest, err)
		}

		cmp := domain.CompareSignatures(backup.Signature(), sheet.Signature())
		for _, m := range cmp.Common {
			line := fmt.Sprintf("  %-4s %-16s %s", m.Key.Direction, m.Key.Label, renderOutcome(m.Outcome))
			if m.Outcome.Kind == domain.MatchIdentity {
				fmt.Println(dimStyle.Render(line))
			} else {
				fmt.Println(warnStyle.Render(line))
			}
		}
		for key, outcome := range cmp.Diffs {
			fmt.Println(warnStyle.Render(fmt.Sprintf("  %-4s %-16s %s", key.Direction, key.Label, renderOutcome(outcome))))
		}
		return nil
	},
}

func renderOutcome(o domain.MatchOutcome) string {
	switch o.Kind {
	case domain.MatchWidthChanged:
		return fmt.Sprintf("width changed to %d", o.NewWidth)
	case domain.MatchLabelChanged:
		return fmt.Sprintf("relabeled to %s (width %d)", o.NewLabel, o.NewWidth)
	default:
		return o.Kind.String()
	}
}

func init() {
	portsCmd.Flags().BoolVar(&portsDiff, "diff", false, "compare against the newest backup")
	rootCmd.AddCommand(portsCmd)
}
