package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bibbank/creditrisk/internal/application/usecase"
	"github.com/bibbank/creditrisk/internal/infrastructure/config"
	kafkainfra "github.com/bibbank/creditrisk/internal/infrastructure/kafka"
	"github.com/bibbank/creditrisk/internal/infrastructure/ml"
	"github.com/bibbank/creditrisk/internal/infrastructure/postgres"
	"github.com/bibbank/creditrisk/internal/infrastructure/scheduler"
	"github.com/bibbank/creditrisk/internal/infrastructure/telemetry"
	grpcpresentation "github.com/bibbank/creditrisk/internal/presentation/grpc"
	"github.com/bibbank/creditrisk/internal/presentation/rest"
	"github.com/bibbank/creditrisk/pkg/auth"
	pkgkafka "github.com/bibbank/creditrisk/pkg/kafka"
	"github.com/bibbank/creditrisk/pkg/observability"
	pgpkg "github.com/bibbank/creditrisk/pkg/postgres"
	"github.com/bibbank/creditrisk/pkg/tlsutil"
)

func main() {
	if err := run(); err != nil {
		slog.Error("credit-risk-service failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Initialize structured logger via shared observability package.
	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "credit-risk-service",
	})

	logger.Info("starting credit-risk-service",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
	)

	// Initialize tracing.
	if cfg.OTLPEndpoint != "" {
		shutdown, err := observability.InitTracer(ctx, observability.TracingConfig{
			ServiceName: "credit-risk-service",
			Endpoint:    cfg.OTLPEndpoint,
			Insecure:    cfg.Environment != "production",
		})
		if err != nil {
			logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
		} else {
			defer func() {
				sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer scancel()
				_ = shutdown(sctx)
			}()
		}
	}

	// Initialize metrics.
	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: "credit-risk-service",
	})
	if err != nil {
		return err
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }()

	recorder, err := telemetry.NewRecorder(meterProvider)
	if err != nil {
		return err
	}

	// Load model artifacts. A bad artifact is a configuration error and stops start-up.
	artifacts, err := ml.LoadArtifacts(cfg.ScalerPath, cfg.ModelPath)
	if err != nil {
		return fmt.Errorf("load model artifacts: %w", err)
	}
	evaluator, err := artifacts.Evaluator(cfg.CategoryPolicy)
	if err != nil {
		return err
	}
	logger.Info("model loaded",
		"version", artifacts.Version,
		"checksum", artifacts.Checksum,
		"features", len(evaluator.ExpectedColumns()),
		"category_policy", string(cfg.CategoryPolicy),
	)

	// Database connection and migrations.
	pool, err := connectDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	// Kafka producer.
	kafkaCfg := pkgkafka.Config{
		Brokers:       cfg.KafkaBrokers,
		ConsumerGroup: cfg.KafkaConsumerGroup,
		TLS:           cfg.KafkaTLS,
		SASLEnabled:   cfg.SASLEnabled(),
		SASLMechanism: cfg.KafkaSASLMechanism,
		SASLUsername:  cfg.KafkaSASLUsername,
		SASLPassword:  cfg.KafkaSASLPassword,
	}
	producer, err := pkgkafka.NewProducer(kafkaCfg)
	if err != nil {
		return fmt.Errorf("create kafka producer: %w", err)
	}
	defer producer.Close()

	// Wire infrastructure adapters.
	assessmentRepo := postgres.NewAssessmentRepository(pool)
	eventPublisher := kafkainfra.NewPublisher(producer, cfg.KafkaEventsTopic, logger)

	// Wire use cases.
	scoreUC := usecase.NewScoreApplicant(evaluator, recorder)
	assessUC := usecase.NewAssessApplicant(assessmentRepo, eventPublisher, recorder, evaluator)
	getUC := usecase.NewGetAssessment(assessmentRepo)
	listUC := usecase.NewListAssessments(assessmentRepo)
	describeUC := usecase.NewDescribeModel(evaluator, artifacts.Version, artifacts.Checksum, cfg.CategoryPolicy)

	// Authentication.
	jwtService, err := newJWTService(cfg)
	if err != nil {
		return err
	}

	// gRPC server.
	var handlerOpts []grpcpresentation.HandlerOption
	if jwtService == nil {
		logger.Warn("JWT not configured, authentication disabled", "environment", cfg.Environment)
		handlerOpts = append(handlerOpts, grpcpresentation.WithAuthDisabled())
	}
	grpcHandler := grpcpresentation.NewCreditRiskHandler(scoreUC, assessUC, getUC, listUC, logger, handlerOpts...)

	serverCfg := grpcpresentation.ServerConfig{JWT: jwtService, Reflection: cfg.GRPCReflection}
	if cfg.GRPCTLSCertFile != "" {
		creds, err := tlsutil.GRPCServerCredentials(cfg.GRPCTLSCertFile, cfg.GRPCTLSKeyFile, "")
		if err != nil {
			return fmt.Errorf("load gRPC TLS credentials: %w", err)
		}
		serverCfg.Creds = creds
	}
	grpcServer := grpcpresentation.NewServer(grpcHandler, serverCfg, logger)

	// HTTP server (health checks, scoring, metrics).
	httpMux := http.NewServeMux()
	rest.NewHealthHandler(pool, logger).RegisterRoutes(httpMux)
	rest.NewScoreHandler(scoreUC, describeUC, jwtService, logger).RegisterRoutes(httpMux)
	httpMux.Handle("GET /metrics", metricsHandler)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           rest.Chain(httpMux, rest.Logging(logger), rest.RateLimit(cfg.HTTPRateLimit)),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Start servers and background workers.
	errCh := make(chan error, 3)

	go func() {
		if err := grpcServer.Serve(cfg.GRPCAddress()); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "address", cfg.HTTPAddress())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	if cfg.KafkaApplicationsTopic != "" {
		handler := kafkainfra.NewApplicationHandler(assessUC, logger)
		consumer, err := pkgkafka.NewConsumer(kafkaCfg, cfg.KafkaApplicationsTopic, handler.Handle, logger)
		if err != nil {
			return fmt.Errorf("create kafka consumer: %w", err)
		}
		defer consumer.Close()

		go func() {
			if err := consumer.Start(ctx); err != nil {
				errCh <- fmt.Errorf("kafka consumer error: %w", err)
			}
		}()
	}

	var jobs *scheduler.Scheduler
	if cfg.RetentionDays > 0 {
		purgeUC, err := usecase.NewPurgeExpiredAssessments(assessmentRepo, cfg.Retention(), logger)
		if err != nil {
			return err
		}
		jobs = scheduler.New(logger, time.Minute)
		if err := jobs.Add("purge-expired-assessments", cfg.RetentionSchedule, func(ctx context.Context) error {
			_, err := purgeUC.Execute(ctx)
			return err
		}); err != nil {
			return err
		}
		jobs.Start()
		logger.Info("retention purge scheduled",
			"schedule", cfg.RetentionSchedule,
			"retention_days", cfg.RetentionDays,
		)
	}

	logger.Info("credit-risk-service started",
		"grpc_address", cfg.GRPCAddress(),
		"http_address", cfg.HTTPAddress(),
		"environment", cfg.Environment,
	)

	// Wait for shutdown signal.
	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case runErr = <-errCh:
		logger.Error("server error", "error", runErr)
	}

	// Graceful shutdown.
	logger.Info("shutting down credit-risk-service")
	cancel()

	grpcServer.GracefulStop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	if jobs != nil {
		if err := jobs.Stop(shutdownCtx); err != nil {
			logger.Error("scheduler shutdown error", "error", err)
		}
	}

	logger.Info("credit-risk-service stopped")
	return runErr
}

func connectDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	pool, err := pgpkg.NewPool(dbCtx, pgpkg.Config{URL: cfg.DatabaseURL})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	logger.Info("connected to database")

	if cfg.MigrationsDir != "" {
		dir, err := filepath.Abs(cfg.MigrationsDir)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("resolve migrations dir: %w", err)
		}
		if err := pgpkg.RunMigrations(cfg.DatabaseURL, "file://"+dir); err != nil {
			pool.Close()
			return nil, err
		}
		logger.Info("database migrations applied", "dir", dir)
	}

	return pool, nil
}

// newJWTService returns nil when no token verification is configured.
func newJWTService(cfg *config.Config) (*auth.JWTService, error) {
	jwtCfg := auth.JWTConfig{
		Secret:   cfg.JWTSecret,
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
		Leeway:   30 * time.Second,
	}
	if cfg.JWTPublicKeyFile != "" {
		pem, err := auth.LoadKeyFromFile(cfg.JWTPublicKeyFile)
		if err != nil {
			return nil, err
		}
		jwtCfg.PublicKeyPEM = string(pem)
	}
	if jwtCfg.Secret == "" && jwtCfg.PublicKeyPEM == "" {
		return nil, nil
	}
	svc, err := auth.NewJWTService(jwtCfg)
	if err != nil {
		return nil, fmt.Errorf("configure JWT: %w", err)
	}
	return svc, nil
}
