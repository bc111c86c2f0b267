package models

import (
	"context"
	"fmt"
	"os"
	"time"

	"latency_optimizer/server/bredis"
	"latency_optimizer/server/bsql"
	"latency_optimizer/server/cmd"
	"latency_optimizer/server/env"
	"latency_optimizer/server/handlers"
	"latency_optimizer/server/logger"
	"latency_optimizer/server/metrics"
	"latency_optimizer/server/models/auth"
	"latency_optimizer/server/models/network"
	"latency_optimizer/server/psql"

	"github.com/labstack/echo/v4"
)

var _ network.Cache = (*bredis.Client)(nil)

// Models holds all application components
type Models struct {
	db             *bsql.DB
	bredisClient   *bredis.Client
	runStore       network.Repository
	metrics        *metrics.Metrics
	jwtService     *auth.JWTService
	networkHandler *network.Handler
	health         *handlers.Health
	echo           *echo.Echo
}

// CmdOptions carries the flags used by command mode
type CmdOptions struct {
	Input   string
	Subject string
}

// NewModels creates and initializes all application components
func NewModels(cmdMode bool) *Models {
	m := &Models{
		metrics: metrics.New(),
		health:  handlers.NewHealth(2 * time.Second),
	}
	ctx := context.Background()

	// PostgreSQL is optional; without it runs are kept in memory
	if env.E.HasDatabase() {
		logger.Info("Connecting to PostgreSQL...")

		dbConfig, err := bsql.LoadDatabaseConfig(cmd.ResolvePath(env.E.DatabaseConfigFilePath))
		if err != nil {
			logger.Fatalf("Failed to load database config: %v", err)
		}

		logger.Infof("  Host: %s:%s", dbConfig.Host, dbConfig.Port)
		logger.Infof("  Database: %s", dbConfig.Database)
		logger.Infof("  User: %s", dbConfig.Username)

		m.db, err = bsql.Open(dbConfig)
		if err != nil {
			logger.Fatalf("Failed to connect to database: %v", err)
		}

		logger.Info("Running database migrations...")
		if err := psql.MigrateUp(ctx, m.db, cmd.ResolvePath(cmd.MigrationsPath)); err != nil {
			logger.Fatalf("Failed to run migrations: %v", err)
		}

		m.runStore = network.NewPostgresRepository(m.db)
		m.health.Register("postgres", m.db.PingContext)
		logger.Info("Using PostgreSQL for run history")
	} else {
		m.runStore = network.NewMemoryRepository(network.DefaultMemoryCapacity, env.E.Optimizer.HistoryNodeBudget)
		logger.Info("Using in-memory run history")
	}

	// Redis is optional; without it results are not cached and requests
	// are not rate limited
	var cache network.Cache
	if env.E.HasRedis() {
		r := env.E.Redis
		client, err := bredis.New(ctx, r.Addr, r.Password, r.DB, r.KeyPrefix)
		if err != nil {
			logger.Warnf("Redis unavailable, continuing without cache: %v", err)
		} else {
			m.bredisClient = client
			cache = client
			m.health.Register("redis", func(ctx context.Context) error {
				return client.Ping(ctx).Err()
			})
			logger.Infof("Using Redis at %s for result cache and rate limiting", r.Addr)
		}
	}

	jwtService, err := auth.NewJWTService(&auth.Config{
		SecretKey:     []byte(env.E.JWTSigningKey),
		TokenDuration: env.E.GetJWTDuration(),
	})
	if err != nil {
		logger.Fatalf("Failed to initialize JWT service: %v", err)
	}
	m.jwtService = jwtService

	m.networkHandler = network.NewHandler(
		m.runStore,
		cache,
		m.metrics,
		network.NewBatchRunner(env.E.Optimizer.BatchWorkers),
		network.Config{
			MaxNodes:     env.E.Optimizer.MaxNodes,
			MaxBatchSize: env.E.Optimizer.MaxBatchSize,
			CacheTTL:     env.E.GetCacheTTL(),
		},
	)

	if !cmdMode {
		m.SetupRoutes()
	}

	return m
}

// RunCmd runs command mode
func (m *Models) RunCmd(c string, opts CmdOptions) {
	switch c {
	case "optimize":
		input, err := cmd.ReadNetwork(opts.Input)
		if err != nil {
			logger.Fatalf("Failed to read network: %v", err)
		}
		resp, appErr := m.networkHandler.Serve(context.Background(), network.SourceCLI, "", network.OptimizeRequest{
			N:     input.N,
			Edges: input.Edges,
		})
		if appErr != nil {
			logger.Fatalf("[%s] %v", appErr.Code, appErr)
		}
		if err := cmd.WriteJSON(os.Stdout, resp); err != nil {
			logger.Fatalf("Failed to write result: %v", err)
		}

	case "verify":
		input, err := cmd.ReadNetwork(opts.Input)
		if err != nil {
			logger.Fatalf("Failed to read network: %v", err)
		}
		if err := cmd.Verify(os.Stdout, input); err != nil {
			logger.Fatalf("Verification failed: %v", err)
		}

	case "token":
		token, expiresAt, err := m.jwtService.GenerateToken(opts.Subject)
		if err != nil {
			logger.Fatalf("Failed to issue token: %v", err)
		}
		fmt.Println(token)
		logger.Infof("Token for %q expires at %s", opts.Subject, expiresAt.Format(time.RFC3339))

	default:
		logger.Warnf("Unknown command: %s (available: optimize, verify, token)", c)
	}
}

// Close releases the database and redis connections
func (m *Models) Close() {
	if m.bredisClient != nil {
		m.bredisClient.Close()
	}
	if m.db != nil {
		m.db.Close()
	}
}
