package main

import (
	"strconv"

	"github.com/spf13/cobra"
)

var assessNotes bool

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Summarize folder suggestions without exporting",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()

		if assessNotes {
			preview, err := a.service.Preview(ctx)
			if err != nil {
				return err
			}
			if a.printer.IsJSON() {
				return a.printer.WriteJSON(preview)
			}

			rows := make([][]string, 0, len(preview.Notes))
			for _, n := range preview.Notes {
				rows = append(rows, []string{
					n.Title,
					n.SourceFolder,
					n.Suggestion.Folder,
					strconv.FormatFloat(n.Suggestion.Confidence, 'f', 2, 64),
					n.Reason,
				})
			}
			a.printer.Table([]string{"Title", "From", "Suggested", "Confidence", "Reason"}, rows)
			for _, f := range preview.Failures {
				a.printer.Warn("%s (%s): %s", f.Title, f.NoteID, f.Error)
			}
			return nil
		}

		assessment, err := a.service.Assess(ctx)
		if err != nil {
			return err
		}
		if a.printer.IsJSON() {
			return a.printer.WriteJSON(assessment)
		}
		printAssessment(a.printer, assessment)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(assessCmd)
	assessCmd.Flags().BoolVar(&assessNotes, "notes", false, "List every note with its suggestion")
}
