package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"wirebench/internal/adapters/prompt"
	"wirebench/internal/application/commands"
)

var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Open the project, reconciling saved/autosaved conflicts",
	Long: `Open scans the project directory, recovers sheets whose primary
file is unreadable from their newest loadable backup, and asks which
copy to keep for every sheet whose saved and autosaved files diverged.

The chosen copy is written back to the primary file; when the copies
differed structurally, the retention policy also preserves the state
as a backup revision.

Example:
  wirebench -p ./alu open`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		openCmd := commands.NewOpenProjectCommand(store, store, policy, prompt.NewHandler(), logger, projectDir)
		result, err := openCmd.Execute(ctx)
		if err != nil {
			return err
		}

		for _, f := range result.Failed {
			fmt.Println(warnStyle.Render(fmt.Sprintf("unreadable, skipped: %s (%v)", f.Path, f.Err)))
		}
		fmt.Println(okStyle.Render(result.Message))
		fmt.Printf("Current sheet: %s\n", result.Project.OpenSheet)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(openCmd)
}
