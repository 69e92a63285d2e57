package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/MikeSquared-Agency/Ranker/internal/ranking"
	"github.com/MikeSquared-Agency/Ranker/internal/scoring"
)

const nameWidth = 28

func writeTable(w io.Writer, res *ranking.Result, explain bool) {
	fmt.Fprintf(w, "mode: %s  method: %s\n", res.Mode, res.Method)
	fmt.Fprintf(w, "weights: %s\n", formatWeights(res.Weights))
	if res.Search != nil {
		fmt.Fprintf(w, "search: population %d, %d generations", res.Search.PopulationSize, res.Search.Generations)
		if res.Search.Aborted {
			fmt.Fprintf(w, " (aborted: %s)", res.Search.Fault)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%4s  %s  %-10s  %8s  %s\n", "RANK", padRight("NAME", nameWidth), "ID", "SCORE", "PARETO")
	for _, e := range res.Entries {
		pareto := ""
		if e.ParetoOptimal {
			pareto = "*"
		}
		name := truncateName(e.Candidate.Name, nameWidth)
		fmt.Fprintf(w, "%4d  %s  %-10s  %8.4f  %s\n", e.Rank, padRight(name, nameWidth), e.Candidate.ID, e.Score, pareto)

		if explain {
			for _, f := range e.Factors {
				fmt.Fprintf(w, "        %-14s raw=%-12.2f score=%.3f weighted=%.3f  %s\n", f.Name, f.Raw, f.Score, f.Weighted, f.Reason)
			}
		}
	}
	fmt.Fprintf(w, "\nbest: %s (%s) %.4f\n", res.Best.Candidate.Name, res.Best.Candidate.ID, res.Best.Score)
}

func formatWeights(ws scoring.WeightSet) string {
	v := ws.Vector()
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = fmt.Sprintf("%s=%.3f", scoring.Criterion(i), x)
	}
	return strings.Join(parts, " ")
}

// truncateName shortens a name to maxLen display cells, ending in "…" when cut.
func truncateName(name string, maxLen int) string {
	if runewidth.StringWidth(name) <= maxLen {
		return name
	}
	return runewidth.Truncate(name, maxLen, "…")
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}
