package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/bibbank/creditrisk/internal/application/dto"
)

var (
	concurrencyFlag = &cli.IntFlag{
		Name:  "concurrency",
		Usage: "Maximum applicants scored in parallel",
		Value: 4,
	}

	batchCmd = &cli.Command{
		Name:   "batch",
		Usage:  "Score a list of applicants",
		Flags:  []cli.Flag{fileFlag, outputFlag, concurrencyFlag},
		Action: runBatch,
	}
)

// batchResult pairs one input applicant with its score or failure.
type batchResult struct {
	Score *dto.ScoreResponse `json:"score,omitempty" yaml:"score,omitempty"`
	Name  string             `json:"name,omitempty" yaml:"name,omitempty"`
	Error string             `json:"error,omitempty" yaml:"error,omitempty"`
	Index int                `json:"index" yaml:"index"`
}

func runBatch(ctx context.Context, cmd *cli.Command) error {
	data, err := readInput(cmd.String(fileFlag.Name), os.Stdin)
	if err != nil {
		return err
	}

	var reqs []dto.ApplicantRequest
	if err := decode(data, &reqs); err != nil {
		return err
	}

	scorer, err := newScorer(cmd)
	if err != nil {
		return err
	}

	// Each goroutine owns one slot, so results keep input order. A failed
	// applicant is reported in place and does not stop the batch.
	results := make([]batchResult, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cmd.Int(concurrencyFlag.Name), 1))

	for i, req := range reqs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := batchResult{Index: i, Name: req.Name}
			resp, err := scorer.Execute(gctx, req)
			if err != nil {
				res.Error = err.Error()
			} else {
				res.Score = &resp
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}
	slog.Info("batch scored", "applicants", len(results), "failed", failed)

	return writeOutput(cmd.Root().Writer, cmd.String(outputFlag.Name), results)
}
