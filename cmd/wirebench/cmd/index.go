package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"wirebench/internal/adapters/sqlite"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Maintain the project index",
}

var indexSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync the index with the sheet files on disk",
	RunE: func(cmd *cobra.Command, args []string) error {
		idx := sqlite.NewIndex(store)
		if err := idx.Open(projectDir); err != nil {
			return err
		}
		defer idx.Close()

		if idx.NeedsFullRebuild() {
			s, e := idx.SyncFull()
			if e != nil {
				return e
			}
			fmt.Println(okStyle.Render(fmt.Sprintf(
				"full rebuild: %d sheets, %d embeddings (%s)",
				s.SheetsAdded, s.EmbeddingsAdded, s.Duration.Round(time.Millisecond))))
			return nil
		}
		s, err := idx.SyncIncremental()
		if err != nil {
			return err
		}
		fmt.Println(okStyle.Render(fmt.Sprintf(
			"synced: +%d ~%d -%d sheets, %d files scanned (%s)",
			s.SheetsAdded, s.SheetsUpdated, s.SheetsDeleted, s.FilesScanned,
			s.Duration.Round(time.Millisecond))))
		return nil
	},
}

var indexHistoryCmd = &cobra.Command{
	Use:   "history <sheet>",
	Short: "Show every interface a sheet has been indexed with",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx := sqlite.NewIndex(store)
		if err := idx.Open(projectDir); err != nil {
			return err
		}
		defer idx.Close()

		records, err := idx.SignatureHistory(args[0])
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println(dimStyle.Render("no recorded interfaces; run `wirebench index sync` first"))
			return nil
		}
		for _, r := range records {
			fmt.Printf("%s  %s  %d in / %d out\n",
				time.Unix(r.RecordedAt, 0).Format("2006-01-02 15:04"),
				r.SignatureHash, len(r.Inputs), len(r.Outputs))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.AddCommand(indexSyncCmd)
	indexCmd.AddCommand(indexHistoryCmd)
}
