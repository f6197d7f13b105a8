package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"wirebench/internal/application/commands"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <sheet>",
	Short: "Delete a sheet",
	Long: `Delete removes a sheet's primary and autosaved files from the
project. Backup revisions are kept; remove the backup directory by
hand if you really want them gone.

The last remaining sheet of a project cannot be deleted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		project, err := loadProject()
		if err != nil {
			return err
		}

		deleteCmd := commands.NewDeleteCommand(store, noViewer{}, project, args[0])
		result, err := deleteCmd.Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(okStyle.Render(result.Message))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
