package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/bibbank/creditrisk/internal/application/dto"
	"github.com/bibbank/creditrisk/internal/application/usecase"
	"github.com/bibbank/creditrisk/internal/infrastructure/telemetry"
)

var (
	fileFlag = &cli.StringFlag{
		Name:    "file",
		Aliases: []string{"f"},
		Usage:   "Applicant file in YAML or JSON (- for stdin)",
		Value:   "-",
	}

	scoreCmd = &cli.Command{
		Name:   "score",
		Usage:  "Score a single applicant",
		Flags:  []cli.Flag{fileFlag, outputFlag},
		Action: runScore,
	}

	schemaCmd = &cli.Command{
		Name:   "schema",
		Usage:  "Print the fitted feature schema and model identity",
		Flags:  []cli.Flag{outputFlag},
		Action: runSchema,
	}
)

func newScorer(cmd *cli.Command) (*usecase.ScoreApplicant, error) {
	l, err := loadEvaluator(cmd)
	if err != nil {
		return nil, err
	}
	recorder, err := telemetry.NewRecorder(noop.NewMeterProvider())
	if err != nil {
		return nil, err
	}
	return usecase.NewScoreApplicant(l.evaluator, recorder), nil
}

func runScore(ctx context.Context, cmd *cli.Command) error {
	data, err := readInput(cmd.String(fileFlag.Name), os.Stdin)
	if err != nil {
		return err
	}

	var req dto.ApplicantRequest
	if err := decode(data, &req); err != nil {
		return err
	}

	scorer, err := newScorer(cmd)
	if err != nil {
		return err
	}

	resp, err := scorer.Execute(ctx, req)
	if err != nil {
		return err
	}

	return writeOutput(cmd.Root().Writer, cmd.String(outputFlag.Name), resp)
}

func runSchema(_ context.Context, cmd *cli.Command) error {
	l, err := loadEvaluator(cmd)
	if err != nil {
		return err
	}

	info := usecase.NewDescribeModel(l.evaluator, l.artifacts.Version, l.artifacts.Checksum, l.policy).Execute()

	return writeOutput(cmd.Root().Writer, cmd.String(outputFlag.Name), info)
}
