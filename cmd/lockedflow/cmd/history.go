package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"lockedflow/internal/journal"
	"lockedflow/internal/ui/display"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var historyLimit int

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List finished timer runs",
	Long:  `List runs recorded in the session journal, newest first, with today's totals.`,
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of runs to show (0 for all)")
}

type historyReport struct {
	Entries []historyEntry `json:"entries"`
	Today   historyTotals  `json:"today"`
}

type historyEntry struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"started_at"`
	StoppedAt time.Time `json:"stopped_at"`
	Elapsed   string    `json:"elapsed"`
	Target    string    `json:"target,omitempty"`
	Completed bool      `json:"completed"`
}

type historyTotals struct {
	Sessions  int    `json:"sessions"`
	Completed int    `json:"completed"`
	Elapsed   string `json:"elapsed"`
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	path := store.JournalPath()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		fmt.Println("No sessions recorded")
		return nil
	}

	history, err := journal.Open(path)
	if err != nil {
		return err
	}
	defer history.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	report, err := loadHistory(ctx, history, historyLimit, time.Now())
	if err != nil {
		return err
	}
	return writeHistory(os.Stdout, report, IsJSONOutput())
}

func loadHistory(ctx context.Context, history *journal.Journal, limit int, now time.Time) (historyReport, error) {
	entries, err := history.List(ctx, limit)
	if err != nil {
		return historyReport{}, err
	}
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	totals, err := history.Totals(ctx, midnight)
	if err != nil {
		return historyReport{}, err
	}

	report := historyReport{
		Entries: make([]historyEntry, 0, len(entries)),
		Today: historyTotals{
			Sessions:  totals.Sessions,
			Completed: totals.Completed,
			Elapsed:   display.FormatDuration(totals.Elapsed),
		},
	}
	for _, entry := range entries {
		item := historyEntry{
			ID:        entry.ID,
			StartedAt: entry.StartedAt,
			StoppedAt: entry.StoppedAt,
			Elapsed:   display.FormatDuration(entry.Elapsed),
			Completed: entry.Completed,
		}
		if entry.HasTarget {
			item.Target = display.FormatDuration(entry.Target)
		}
		report.Entries = append(report.Entries, item)
	}
	return report, nil
}

func writeHistory(w io.Writer, report historyReport, asJSON bool) error {
	if asJSON {
		output, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(w, string(output))
		return nil
	}

	if len(report.Entries) == 0 {
		fmt.Fprintln(w, "No sessions recorded")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("Started", "Elapsed", "Target", "Completed")
	for _, entry := range report.Entries {
		target := "-"
		if entry.Target != "" {
			target = entry.Target
		}
		completed := "No"
		if entry.Completed {
			completed = "Yes"
		}
		table.Append(
			entry.StartedAt.Local().Format("2006-01-02 15:04"),
			entry.Elapsed,
			target,
			completed,
		)
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nToday: %d sessions, %d completed, %s total\n",
		report.Today.Sessions, report.Today.Completed, report.Today.Elapsed)
	return nil
}
