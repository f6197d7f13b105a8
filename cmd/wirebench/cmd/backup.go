package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"wirebench/internal/application/commands"
	"wirebench/internal/domain"
)

var backupCmd = &cobra.Command{
	Use:   "backup <sheet>",
	Short: "Run the retention policy on a sheet now",
	Long: `Backup re-saves the named sheet and lets the retention policy
decide whether its current state warrants a new backup revision, an
in-place refresh of the newest one, or nothing.

Example:
  wirebench -p ./alu backup adder`,
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

		saveCmd := commands.NewSaveCommand(store, policy, sheet)
		result, err := saveCmd.Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(okStyle.Render(result.Message))
		if result.InterfaceChanged {
			fmt.Println(warnStyle.Render("interface changed since last backup; check dependents"))
		}
		return nil
	},
}

var backupsCmd = &cobra.Command{
	Use:   "backups <sheet>",
	Short: "List a sheet's backup revisions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		project, err := loadProject()
		if err != nil {
			return err
		}
		sheet, ok := project.Sheets[args[0]]
		if !ok {
			return fmt.Errorf("no sheet named %s", args[0])
		}

		names, err := store.ListBackups(sheet.FilePath)
		if err != nil {
			return err
		}

		base := domain.BaseName(sheet.FilePath)
		var revs []domain.BackupName
		for _, n := range names {
			if parsed, ok := domain.ParseBackupName(n); ok && parsed.Base == base {
				revs = append(revs, parsed)
			}
		}
		sort.Slice(revs, func(i, j int) bool { return revs[i].Sequence < revs[j].Sequence })

		if len(revs) == 0 {
			fmt.Println(dimStyle.Render("no backups yet"))
			return nil
		}
		dir := store.BackupDir(sheet.FilePath)
		for _, r := range revs {
			name := domain.FormatBackupName(r.Base, r.Sequence, r.Stamp, r.Ext)
			fmt.Printf("%03d  %s  %s\n", r.Sequence,
				r.Stamp.Format("2006-01-02 15:04"),
				dimStyle.Render(filepath.Join(dir, name)))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(backupsCmd)
}
