package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"wirebench/internal/domain"
)

var dependentsCmd = &cobra.Command{
	Use:   "dependents <sheet>",
	Short: "Show which sheets embed the named sheet",
	Long: `Dependents scans every sheet in the project for custom components
referencing the named sheet and reports whether the embedded interface
snapshots agree.

Example:
  wirebench -p ./alu dependents adder`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		project, err := loadProject()
		if err != nil {
			return err
		}
		target := args[0]
		if _, ok := project.Sheets[target]; !ok {
			return fmt.Errorf("no sheet named %s", target)
		}

		info := domain.FindDependents(project, target)
		switch info.Kind {
		case domain.NoDependents:
			fmt.Println(dimStyle.Render(fmt.Sprintf("nothing embeds %s", target)))

		case domain.SingleSignature:
			fmt.Printf("%d placements, all expecting the same interface:\n", len(info.Instances))
			for _, inst := range info.Instances {
				fmt.Printf("  %s (%s)\n", inst.Owner, inst.ComponentID)
			}

		case domain.MixedSignatures:
			fmt.Println(warnStyle.Render("placements disagree about the interface:"))
			owners := make([]string, 0, len(info.PerOwner))
			for owner := range info.PerOwner {
				owners = append(owners, owner)
			}
			sort.Strings(owners)
			for _, owner := range owners {
				fmt.Printf("  %-24s %d placements\n", owner, info.PerOwner[owner])
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dependentsCmd)
}
