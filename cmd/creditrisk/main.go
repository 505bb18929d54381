package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/bibbank/creditrisk/internal/domain/service"
	"github.com/bibbank/creditrisk/internal/domain/valueobject"
	"github.com/bibbank/creditrisk/internal/infrastructure/ml"
	"github.com/bibbank/creditrisk/pkg/observability"
)

var (
	name    = "creditrisk"
	version = "v0.0.1-default"
	commit  = ""
)

var (
	scalerFlag = &cli.StringFlag{
		Name:    "scaler",
		Usage:   "Path to the fitted scaler artifact",
		Value:   "models/scaler.yaml",
		Sources: cli.EnvVars("SCALER_PATH"),
	}

	modelFlag = &cli.StringFlag{
		Name:    "model",
		Usage:   "Path to the fitted model artifact",
		Value:   "models/model.yaml",
		Sources: cli.EnvVars("MODEL_PATH"),
	}

	policyFlag = &cli.StringFlag{
		Name:    "category-policy",
		Usage:   "Handling of unrecognised categorical values (strict, fallback)",
		Value:   string(valueobject.CategoryPolicyStrict),
		Sources: cli.EnvVars("CATEGORY_POLICY"),
	}

	logLevelFlag = &cli.StringFlag{
		Name:    "log-level",
		Usage:   "Log level (debug, info, warn, error)",
		Value:   "warn",
		Sources: cli.EnvVars("LOG_LEVEL"),
	}

	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output format (yaml, json)",
		Value:   "yaml",
	}
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newApp(os.Stdout, os.Stderr).Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      name,
		Version:   fmt.Sprintf("%s - (commit: %s)", version, commit),
		Usage:     "Score credit applicants against the fitted default-probability model",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			scalerFlag,
			modelFlag,
			policyFlag,
			logLevelFlag,
		},
		Commands: []*cli.Command{
			scoreCmd,
			batchCmd,
			schemaCmd,
			migrateCmd,
			tokenCmd,
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			observability.InitLogger(observability.LogConfig{
				Output: stderr,
				Level:  cmd.String(logLevelFlag.Name),
				Format: "text",
			})
			return ctx, nil
		},
	}
}

// loaded is the evaluator plus the identity of the artifacts behind it.
type loaded struct {
	evaluator *service.Evaluator
	artifacts *ml.Artifacts
	policy    valueobject.CategoryPolicy
}

// loadEvaluator builds the evaluator from the artifact flags.
func loadEvaluator(cmd *cli.Command) (*loaded, error) {
	policy, err := valueobject.CategoryPolicyFromString(cmd.String(policyFlag.Name))
	if err != nil {
		return nil, err
	}

	artifacts, err := ml.LoadArtifacts(cmd.String(scalerFlag.Name), cmd.String(modelFlag.Name))
	if err != nil {
		return nil, err
	}

	evaluator, err := artifacts.Evaluator(policy)
	if err != nil {
		return nil, err
	}

	slog.Debug("model loaded", "version", artifacts.Version, "checksum", artifacts.Checksum)
	return &loaded{evaluator: evaluator, artifacts: artifacts, policy: policy}, nil
}
