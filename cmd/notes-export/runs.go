package main

import (
	"errors"
	"strconv"

	"github.com/spf13/cobra"

	"notes-organizer/internal/storage"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs [RUN_ID]",
	Short: "List recorded export runs, or show one run",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if noHistory {
			return errors.New("run history is disabled by --no-history")
		}

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()

		if len(args) == 1 {
			detail, err := a.service.Run(ctx, args[0])
			if err != nil {
				return err
			}
			if a.printer.IsJSON() {
				return a.printer.WriteJSON(detail)
			}

			printRuns(a, []storage.RunRecord{detail.Run})
			a.printer.Println()
			rows := make([][]string, 0, len(detail.Suggestions))
			for _, s := range detail.Suggestions {
				rows = append(rows, []string{
					s.Folder,
					s.Title,
					strconv.FormatFloat(s.Confidence, 'f', 2, 64),
					strconv.FormatBool(s.Accepted),
					s.Path,
				})
			}
			a.printer.Table([]string{"Folder", "Title", "Confidence", "Accepted", "Path"}, rows)
			return nil
		}

		runs, err := a.service.Runs(ctx, runsLimit)
		if err != nil {
			return err
		}
		if a.printer.IsJSON() {
			return a.printer.WriteJSON(runs)
		}
		printRuns(a, runs)
		return nil
	},
}

func printRuns(a *app, runs []storage.RunRecord) {
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		mode := "export"
		if r.DryRun {
			mode = "dry-run"
		}
		rows = append(rows, []string{
			r.ID,
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Status,
			mode,
			r.Format,
			strconv.Itoa(r.Exported) + "/" + strconv.Itoa(r.Total),
			strconv.Itoa(r.Failed),
			r.OutputDir,
		})
	}
	a.printer.Table([]string{"ID", "Started", "Status", "Mode", "Format", "Exported", "Failed", "Output"}, rows)
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "Maximum number of runs to list")
}
