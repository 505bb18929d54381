package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/bibbank/creditrisk/pkg/auth"
	pgpkg "github.com/bibbank/creditrisk/pkg/postgres"
)

var (
	databaseURLFlag = &cli.StringFlag{
		Name:    "database-url",
		Usage:   "PostgreSQL connection URL",
		Sources: cli.EnvVars("DATABASE_URL"),
	}

	migrationsDirFlag = &cli.StringFlag{
		Name:    "dir",
		Usage:   "Migrations directory",
		Value:   "migrations",
		Sources: cli.EnvVars("MIGRATIONS_DIR"),
	}

	migrateCmd = &cli.Command{
		Name:  "migrate",
		Usage: "Manage the assessment database schema",
		Flags: []cli.Flag{databaseURLFlag, migrationsDirFlag},
		Commands: []*cli.Command{
			{
				Name:   "up",
				Usage:  "Apply all pending migrations",
				Action: runMigrate(pgpkg.RunMigrations),
			},
			{
				Name:   "down",
				Usage:  "Roll back all migrations",
				Action: runMigrate(pgpkg.RunMigrationsDown),
			},
			{
				Name:   "version",
				Usage:  "Print the current schema version",
				Action: runMigrationVersion,
			},
		},
	}

	secretFlag = &cli.StringFlag{
		Name:     "secret",
		Usage:    "HMAC secret shared with the service",
		Sources:  cli.EnvVars("JWT_SECRET"),
		Required: true,
	}

	issuerFlag = &cli.StringFlag{
		Name:    "issuer",
		Usage:   "Token issuer",
		Value:   "bib-identity",
		Sources: cli.EnvVars("JWT_ISSUER"),
	}

	audienceFlag = &cli.StringFlag{
		Name:    "audience",
		Usage:   "Token audience (empty for none)",
		Sources: cli.EnvVars("JWT_AUDIENCE"),
	}

	tenantFlag = &cli.StringFlag{
		Name:     "tenant",
		Usage:    "Tenant ID carried by the token",
		Required: true,
	}

	roleFlag = &cli.StringSliceFlag{
		Name:  "role",
		Usage: "Role granted by the token (repeatable)",
		Value: []string{auth.RoleAPIClient},
	}

	ttlFlag = &cli.DurationFlag{
		Name:  "ttl",
		Usage: "Token lifetime",
		Value: time.Hour,
	}

	tokenCmd = &cli.Command{
		Name:   "token",
		Usage:  "Issue a development bearer token",
		Flags:  []cli.Flag{secretFlag, issuerFlag, audienceFlag, tenantFlag, roleFlag, ttlFlag},
		Action: runToken,
	}
)

func migrationSource(cmd *cli.Command) (dsn, source string, err error) {
	dsn = cmd.String(databaseURLFlag.Name)
	if dsn == "" {
		return "", "", errors.New("database URL is required (--database-url or DATABASE_URL)")
	}
	dir, err := filepath.Abs(cmd.String(migrationsDirFlag.Name))
	if err != nil {
		return "", "", fmt.Errorf("resolve migrations dir: %w", err)
	}
	return dsn, "file://" + dir, nil
}

func runMigrate(apply func(dsn, sourceURL string) error) cli.ActionFunc {
	return func(_ context.Context, cmd *cli.Command) error {
		dsn, source, err := migrationSource(cmd)
		if err != nil {
			return err
		}
		if err := apply(dsn, source); err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.Root().Writer, "ok")
		return err
	}
}

func runMigrationVersion(_ context.Context, cmd *cli.Command) error {
	dsn, source, err := migrationSource(cmd)
	if err != nil {
		return err
	}
	v, dirty, err := pgpkg.MigrationVersion(dsn, source)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.Root().Writer, "version %d (dirty: %t)\n", v, dirty)
	return err
}

func runToken(_ context.Context, cmd *cli.Command) error {
	tenantID, err := uuid.Parse(cmd.String(tenantFlag.Name))
	if err != nil {
		return fmt.Errorf("invalid tenant: %w", err)
	}

	svc, err := auth.NewJWTService(auth.JWTConfig{
		Secret:     cmd.String(secretFlag.Name),
		Issuer:     cmd.String(issuerFlag.Name),
		Audience:   cmd.String(audienceFlag.Name),
		Expiration: cmd.Duration(ttlFlag.Name),
	})
	if err != nil {
		return err
	}

	token, err := svc.GenerateToken(uuid.New(), tenantID, cmd.StringSlice(roleFlag.Name))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.Root().Writer, token)
	return err
}
