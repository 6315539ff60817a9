package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"admissionAdvisor/domain"
	"admissionAdvisor/pkg/textsim"
)

func printJSONOr(w io.Writer, v any, asJSON bool, table func(io.Writer)) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	table(w)
	return nil
}

func printRecommendations(w io.Writer, recs []domain.Recommendation, asJSON bool) error {
	return printJSONOr(w, recs, asJSON, func(w io.Writer) {
		if len(recs) == 0 {
			fmt.Fprintln(w, "no courses in the catalog")
			return
		}
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "RANK\tCOURSE\tNAME\tSCORE")
		for i, r := range recs {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%.3f\n", i+1, r.Course, r.Name, r.Score)
		}
		tw.Flush()
	})
}

func printFeedbackResult(w io.Writer, res domain.FeedbackBatchResult, asJSON bool) error {
	return printJSONOr(w, res, asJSON, func(w io.Writer) {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "COURSE\tRATING\tOUTCOME\tREASON")
		for _, o := range res.Outcomes {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", o.Course, o.Rating, o.Outcome, o.Reason)
		}
		tw.Flush()
		fmt.Fprintf(w, "saved %d, skipped %d, failed %d\n", res.Saved, res.Skipped, res.Failed)
	})
}

func printMatch(w io.Writer, res domain.MatchResult, asJSON bool) error {
	return printJSONOr(w, res, asJSON, func(w io.Writer) {
		fmt.Fprintln(w, res.Answer)
		fmt.Fprintf(w, "\n(source: %s, confidence: %.2f)\n", res.Source, res.Confidence)
		if len(res.SuggestedQuestions) > 0 {
			fmt.Fprintln(w, "\nYou might also ask:")
			for _, q := range res.SuggestedQuestions {
				fmt.Fprintf(w, "  - %s\n", q)
			}
		}
	})
}

// normalizeForCache matches the key the matcher uses for cached answers.
func normalizeForCache(question string) string {
	return textsim.Normalize(strings.TrimSpace(question))
}
