package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Ranker/internal/evolution"
	"github.com/MikeSquared-Agency/Ranker/internal/ranking"
)

type rankOptions struct {
	mode    string
	seed    uint64
	format  string
	explain bool
	top     int
}

func newRankCommand(root *rootOptions) *cobra.Command {
	opts := &rankOptions{}
	cmd := &cobra.Command{
		Use:   "rank <candidates.json>",
		Short: "Rank a JSON file of candidates",
		Long: `Rank a set of candidates read from a JSON file ("-" reads stdin).

The file holds either an array of candidates or an object with a
"candidates" array. Each candidate has an id, a name and its metrics:
avg_price, success_rate, avg_delivery_time, denial_rate, orders_count and
total_revenue.

Forward mode ranks under the configured weights. Reverse mode searches for
the weighting that best separates the top candidate and ranks under it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRank(cmd, root, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.mode, "mode", string(evolution.ModeForward), "ranking mode: forward or reverse")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed (0 for a random run)")
	cmd.Flags().StringVar(&opts.format, "format", "table", "output format: table or json")
	cmd.Flags().BoolVar(&opts.explain, "explain", false, "include per-criterion factor breakdowns")
	cmd.Flags().IntVar(&opts.top, "top", 0, "show only the first N entries (0 for all)")

	return cmd
}

func runRank(cmd *cobra.Command, root *rootOptions, opts *rankOptions, path string) error {
	mode, err := evolution.ParseMode(opts.mode)
	if err != nil {
		return err
	}
	if opts.format != "table" && opts.format != "json" {
		return fmt.Errorf("unknown format %q (want table or json)", opts.format)
	}

	cfg, err := root.load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	candidates, err := readCandidates(cmd.InOrStdin(), path)
	if err != nil {
		return err
	}

	params := cfg.Evolution
	if opts.seed != 0 {
		params.Seed = opts.seed
	}
	logger := root.logger(cmd.ErrOrStderr())
	ranker := ranking.NewRanker(evolution.NewEngine(params, cfg.Scoring.Weights, logger), logger)

	res, err := ranker.Rank(mode, candidates, ranking.Options{Explain: opts.explain, Pareto: true})
	if err != nil {
		return fmt.Errorf("ranking %s: %w", path, err)
	}
	if opts.top > 0 && opts.top < len(res.Entries) {
		res.Entries = res.Entries[:opts.top]
	}

	out := cmd.OutOrStdout()
	if opts.format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	writeTable(out, res, opts.explain)
	return nil
}

func readCandidates(stdin io.Reader, path string) ([]ranking.Candidate, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading candidates: %w", err)
	}

	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var wrapped struct {
			Candidates []ranking.Candidate `json:"candidates"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		return wrapped.Candidates, nil
	}

	var candidates []ranking.Candidate
	if err := json.Unmarshal(data, &candidates); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return candidates, nil
}
