package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"wirebench/internal/adapters/filesystem"
	"wirebench/internal/adapters/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Report external changes to sheet files until interrupted",
	Long: `Watch monitors the project directory and reports every create,
modify, and delete of a sheet file. Useful when another process (or a
second editor instance, against the rules) is touching the project.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		watcher, err := watch.NewSheetWatcher(filesystem.SheetExt)
		if err != nil {
			return err
		}
		if err := watcher.Start(projectDir); err != nil {
			return err
		}
		defer watcher.Stop()

		fmt.Println(dimStyle.Render(fmt.Sprintf("watching %s (ctrl-c to stop)", projectDir)))

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		for {
			select {
			case <-sig:
				return nil
			case ev, ok := <-watcher.Events():
				if !ok {
					return nil
				}
				kind := "sheet"
				if ev.Autosave {
					kind = "autosave"
				}
				fmt.Printf("%-8s %-10s %s\n", ev.Op, kind, ev.Path)
				logger.Info("sheet file changed externally",
					zap.String("path", ev.Path),
					zap.String("op", ev.Op.String()),
					zap.Bool("autosave", ev.Autosave))
			case err, ok := <-watcher.Errors():
				if !ok {
					return nil
				}
				fmt.Println(warnStyle.Render(err.Error()))
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
