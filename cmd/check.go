package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/spam-triage/internal/model"
)

var (
	checkConcurrency int
	checkFormat      string
)

var checkCmd = &cobra.Command{
	Use:   "check <phone>...",
	Short: "Classify phone numbers without touching the CRM",
	Example: `  spam-triage check 79001234567
  spam-triage check 89001234567 +7-900-765-43-21 --format json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if checkFormat != "table" && checkFormat != "json" {
			return eris.Errorf("check: unknown format %q", checkFormat)
		}

		env, err := initTriage(cfg, "check")
		if err != nil {
			return err
		}

		results := runChecks(cmd.Context(), env.Classifier, args, checkConcurrency)

		if checkFormat == "json" {
			return writeCheckJSON(os.Stdout, results)
		}
		formatCheckTable(os.Stdout, results)
		return nil
	},
}

func init() {
	checkCmd.Flags().IntVar(&checkConcurrency, "concurrency", 5, "max concurrent reputation checks")
	checkCmd.Flags().StringVar(&checkFormat, "format", "table", "output format: table or json")
	rootCmd.AddCommand(checkCmd)
}

type phoneClassifier interface {
	Classify(ctx context.Context, raw any) (model.Verdict, error)
}

// checkResult is the outcome for one command-line number.
type checkResult struct {
	Input   string         `json:"input"`
	Verdict *model.Verdict `json:"verdict,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// runChecks classifies phones concurrently. Results keep the input order;
// individual failures are recorded, not returned.
func runChecks(ctx context.Context, c phoneClassifier, phones []string, concurrency int) []checkResult {
	if concurrency <= 0 {
		concurrency = 1
	}
	results := make([]checkResult, len(phones))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var spam, failed atomic.Int64

	for i, p := range phones {
		g.Go(func() error {
			results[i].Input = p
			v, err := c.Classify(gctx, p)
			if err != nil {
				failed.Add(1)
				results[i].Error = err.Error()
				return nil // keep checking the rest
			}
			if v.IsSpam {
				spam.Add(1)
			}
			results[i].Verdict = &v
			return nil
		})
	}
	_ = g.Wait()

	zap.L().Info("check complete",
		zap.Int("numbers", len(phones)),
		zap.Int64("spam", spam.Load()),
		zap.Int64("failed", failed.Load()),
	)
	return results
}

func writeCheckJSON(out io.Writer, results []checkResult) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(results), "check: encode results")
}

// formatCheckTable writes a tabular view of check results to out.
func formatCheckTable(out io.Writer, results []checkResult) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "INPUT\tPHONE\tSTATUS\tSCORE\tACTION\tCATEGORY\tERROR")
	_, _ = fmt.Fprintln(w, "-----\t-----\t------\t-----\t------\t--------\t-----")

	for _, r := range results {
		if r.Verdict == nil {
			_, _ = fmt.Fprintf(w, "%s\t-\tERROR\t-\t-\t-\t%s\n", r.Input, truncate(r.Error, 60))
			continue
		}
		v := r.Verdict
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\t\n",
			r.Input, v.Phone, v.Status(), v.Score, v.Action, v.CategoryName)
	}
	_ = w.Flush()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
