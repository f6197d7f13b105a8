package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"wirebench/internal/application/commands"
)

var renameCmd = &cobra.Command{
	Use:   "rename <sheet> <new-name>",
	Short: "Rename a sheet and move its backups to the new base name",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		project, err := loadProject()
		if err != nil {
			return err
		}

		renameCmd := commands.NewRenameCommand(store, noViewer{}, project, args[0], args[1])
		result, err := renameCmd.Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(okStyle.Render(result.Message))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renameCmd)
}
