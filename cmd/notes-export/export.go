package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"notes-organizer/internal/export"
	"notes-organizer/internal/output"
	"notes-organizer/internal/service"
	"notes-organizer/internal/writer"
)

func runExport(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	req := service.ExportRequest{
		OutputDir: a.cfg.ExportDir,
		Format:    formatName,
		DryRun:    dryRun,
	}
	if outputDir != "" {
		req.OutputDir = outputDir
	}

	summary, err := a.service.Export(cmd.Context(), req)
	if summary == nil {
		return err
	}

	if a.printer.IsJSON() {
		if jsonErr := a.printer.WriteJSON(summary); jsonErr != nil {
			return jsonErr
		}
		return err
	}

	if printErr := printSummary(a.printer, summary, time.Now()); printErr != nil {
		return printErr
	}
	return err
}

// printSummary writes the human-readable result of an export run.
func printSummary(p *output.Printer, summary *service.ExportSummary, now time.Time) error {
	if summary.DryRun {
		p.Print("Found %d notes.", summary.Total)
		if summary.Sample != nil {
			rendered, err := writer.Render(*summary.Sample, now)
			if err != nil {
				return fmt.Errorf("failed to render sample: %w", err)
			}
			p.Println(" Sample output:")
			p.Box("", string(rendered))
		} else {
			p.Println()
		}
	} else {
		p.Success("Exported %d notes to %s", summary.Exported, summary.OutputDir)
	}

	if len(summary.Folders) > 0 {
		p.Section("Folders")
		rows := make([][]string, 0, len(summary.Folders))
		for _, f := range summary.Folders {
			rows = append(rows, []string{f.Folder, strconv.Itoa(f.Count)})
		}
		p.Table([]string{"Folder", "Notes"}, rows)
	}

	if summary.DryRun {
		printAssessment(p, summary.Assessment)
	}

	if summary.RunID != "" {
		p.Println()
		p.KeyValue("Run", summary.RunID)
	}

	if len(summary.Failures) > 0 {
		p.Warn("%d notes could not be exported", len(summary.Failures))
		for _, f := range summary.Failures {
			p.Warn("%s (%s): %s", f.Title, f.NoteID, f.Error)
		}
	}
	return nil
}

// printAssessment writes the per-folder confidence table.
func printAssessment(p *output.Printer, a export.Assessment) {
	p.Section("Assessment")
	p.KeyValue("Notes", strconv.Itoa(a.Total))
	p.KeyValue("Accepted", strconv.Itoa(a.Accepted))
	if len(a.Buckets) == 0 {
		return
	}
	p.Println()
	rows := make([][]string, 0, len(a.Buckets))
	for _, b := range a.Buckets {
		rows = append(rows, []string{b.Folder, strconv.Itoa(b.Count), strconv.FormatFloat(b.AvgConfidence, 'f', 2, 64)})
	}
	p.Table([]string{"Folder", "Notes", "Avg confidence"}, rows)
}
