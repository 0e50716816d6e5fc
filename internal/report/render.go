// Package report renders evaluation summaries for human or machine
// consumption. Presentation only: every number comes from the engines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/inferloop/synthval/pkg/models"
)

// RenderJSON writes the summary as indented JSON.
func RenderJSON(w io.Writer, summary *models.EvaluationSummary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}

// RenderText writes a human-readable report.
func RenderText(w io.Writer, summary *models.EvaluationSummary) error {
	fmt.Fprintf(w, "Evaluation %s\n", summary.ID)
	fmt.Fprintf(w, "Original rows:  %s\n", humanize.Comma(int64(summary.OriginalRows)))
	fmt.Fprintf(w, "Synthetic rows: %s\n", humanize.Comma(int64(summary.SyntheticRows)))
	fmt.Fprintf(w, "Duration:       %s\n", summary.Duration)

	if summary.Accuracy != nil {
		if err := renderAccuracy(w, summary.Accuracy); err != nil {
			return err
		}
	}
	if summary.Privacy != nil {
		renderPrivacy(w, summary.Privacy)
	}
	return nil
}

func renderAccuracy(w io.Writer, report *models.AccuracyReport) error {
	fmt.Fprintf(w, "\nAccuracy (bins=%d, sampled %s original / %s synthetic rows)\n",
		report.Bins,
		humanize.Comma(int64(report.OriginalRows)),
		humanize.Comma(int64(report.SyntheticRows)))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Column\tUnivariate\tBivariate")
	for _, col := range report.Columns {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", col.Column, percent(col.Univariate), percent(col.Bivariate))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nUnivariate accuracy: %s\n", percent(report.UnivariateMean))
	fmt.Fprintf(w, "Bivariate accuracy:  %s\n", percent(report.BivariateMean))
	fmt.Fprintf(w, "Overall accuracy:    %s\n", percent(report.Overall))
	return nil
}

func renderPrivacy(w io.Writer, report *models.PrivacyReport) {
	fmt.Fprintf(w, "\nPrivacy (sample size %s per group)\n", humanize.Comma(int64(report.SampleSize)))
	fmt.Fprintf(w, "Normalized DCR 5th pct - holdout:   %.4f\n", report.DCRHoldout)
	fmt.Fprintf(w, "Normalized DCR 5th pct - synthetic: %.4f\n", report.DCRSynthetic)
	fmt.Fprintf(w, "NNDR 5th pct - holdout:             %.4f\n", report.NNDRHoldout)
	fmt.Fprintf(w, "NNDR 5th pct - synthetic:           %.4f\n", report.NNDRSynthetic)
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

// Write renders the summary in the given format to the output path, with
// "-" meaning stdout.
func Write(summary *models.EvaluationSummary, format, output string) error {
	var w io.Writer = os.Stdout
	if output != "" && output != "-" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	switch format {
	case "json":
		return RenderJSON(w, summary)
	default:
		return RenderText(w, summary)
	}
}
