package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"wirebench/internal/domain"
)

var sheetsCmd = &cobra.Command{
	Use:   "sheets",
	Short: "List the sheets in the project",
	RunE: func(cmd *cobra.Command, args []string) error {
		project, err := loadProject()
		if err != nil {
			return err
		}

		names := make([]string, 0, len(project.Sheets))
		for name := range project.Sheets {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			s := project.Sheets[name]
			marker := "  "
			if name == project.OpenSheet {
				marker = "* "
			}
			fmt.Printf("%s%-24s %s  %s\n", marker, name,
				s.TimeStamp.Format("2006-01-02 15:04"),
				dimStyle.Render(describeSheet(s)))
		}
		return nil
	},
}

func describeSheet(s *domain.Sheet) string {
	return fmt.Sprintf("%d components, %d connections, %d in / %d out",
		len(s.Canvas.Components), len(s.Canvas.Connections), len(s.Inputs), len(s.Outputs))
}

func init() {
	rootCmd.AddCommand(sheetsCmd)
}
