package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"wirebench/internal/adapters/editor"
)

var editCmd = &cobra.Command{
	Use:   "edit <sheet>",
	Short: "Open a sheet's primary file in $EDITOR",
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
		return editor.NewOpener().OpenFile(sheet.FilePath)
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
}
