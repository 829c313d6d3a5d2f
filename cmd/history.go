package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/ocr-pdftotext/internal/model"
	"github.com/sells-group/ocr-pdftotext/internal/store"
)

var historyCmd = &cobra.Command{
	Use:          "history",
	Short:        "List recorded conversions",
	Long:         "Prints the conversion runs recorded in store.path as JSON, newest first.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("history"); err != nil {
			return err
		}
		ctx := cmd.Context()

		st, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		status, _ := cmd.Flags().GetString("status")
		input, _ := cmd.Flags().GetString("input")
		limit, _ := cmd.Flags().GetInt("limit")
		stats, _ := cmd.Flags().GetBool("stats")

		filter := store.RunFilter{
			Status: model.RunStatus(status),
			Input:  input,
			Limit:  historyLimit(limit, stats, cmd.Flags().Changed("limit")),
		}

		runs, err := st.ListRuns(ctx, filter)
		if err != nil {
			return eris.Wrap(err, "history")
		}

		if stats {
			formatRunStats(cmd.OutOrStdout(), computeRunStats(runs))
			return nil
		}
		return writeRuns(cmd.OutOrStdout(), runs)
	},
}

func init() {
	historyCmd.Flags().String("status", "", "filter by run status (running, complete, failed)")
	historyCmd.Flags().String("input", "", "filter by input PDF path")
	historyCmd.Flags().Int("limit", 50, "max number of runs to print (with --stats, all runs unless set)")
	historyCmd.Flags().Bool("stats", false, "print aggregate statistics instead of runs")
	rootCmd.AddCommand(historyCmd)
}

// statsLimit is high enough that --stats covers the whole history.
const statsLimit = 1_000_000

// historyLimit returns the row limit for a history query. Stats aggregate
// over every matching run unless --limit was given explicitly.
func historyLimit(limit int, stats, limitSet bool) int {
	if stats && !limitSet {
		return statsLimit
	}
	return limit
}

func writeRuns(w io.Writer, runs []model.Run) error {
	if runs == nil {
		runs = []model.Run{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(runs)
}

// runStats holds aggregate statistics computed from a set of runs.
type runStats struct {
	Total      int
	Complete   int
	Failed     int
	Running    int
	OCR        int
	Text       int
	Pages      int
	AvgDurSecs float64
}

func computeRunStats(runs []model.Run) runStats {
	var s runStats
	s.Total = len(runs)

	var totalMs int64
	for _, r := range runs {
		switch r.Status {
		case model.RunStatusComplete:
			s.Complete++
		case model.RunStatusFailed:
			s.Failed++
		default:
			s.Running++
		}
		if r.Result == nil {
			continue
		}
		switch r.Result.Path {
		case model.PathOCR:
			s.OCR++
		case model.PathText:
			s.Text++
		}
		s.Pages += r.Result.Pages
		totalMs += r.Result.DurationMs
	}

	if s.Complete > 0 {
		s.AvgDurSecs = float64(totalMs) / 1000 / float64(s.Complete)
	}
	return s
}

func formatRunStats(out io.Writer, s runStats) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Total runs:\t%d\n", s.Total)
	_, _ = fmt.Fprintf(w, "Complete:\t%d\n", s.Complete)
	_, _ = fmt.Fprintf(w, "  Text layer:\t%d\n", s.Text)
	_, _ = fmt.Fprintf(w, "  OCR:\t%d\n", s.OCR)
	_, _ = fmt.Fprintf(w, "Failed:\t%d\n", s.Failed)
	_, _ = fmt.Fprintf(w, "Running:\t%d\n", s.Running)
	_, _ = fmt.Fprintf(w, "Pages OCRed:\t%d\n", s.Pages)
	if s.AvgDurSecs > 0 {
		_, _ = fmt.Fprintf(w, "Avg duration:\t%.1fs\n", s.AvgDurSecs)
	}
	_ = w.Flush()
}
