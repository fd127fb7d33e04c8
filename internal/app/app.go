package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/riskibarqy/tennis-ranking/internal/config"
	"github.com/riskibarqy/tennis-ranking/internal/domain/health"
	"github.com/riskibarqy/tennis-ranking/internal/domain/player"
	"github.com/riskibarqy/tennis-ranking/internal/infrastructure/account/introspect"
	cacherepo "github.com/riskibarqy/tennis-ranking/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/tennis-ranking/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/tennis-ranking/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/tennis-ranking/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/tennis-ranking/internal/platform/cache"
	"github.com/riskibarqy/tennis-ranking/internal/platform/logging"
	"github.com/riskibarqy/tennis-ranking/internal/platform/metrics"
	"github.com/riskibarqy/tennis-ranking/internal/platform/resilience"
	"github.com/riskibarqy/tennis-ranking/internal/usecase"
)

const accountDependency = "account"

type repositories struct {
	players player.Repository
	health  health.Repository
	close   func() error
}

// NewHTTPServer wires stores, services and the router. The returned cleanup
// releases the database pool and must run after the server stopped.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	var metricsManager *metrics.Manager
	if cfg.MetricsEnabled {
		metricsManager = metrics.NewManager()
	}

	repos, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	playerRepo := repos.players
	if cfg.CacheEnabled {
		playerRepo = cacherepo.NewPlayerRepository(playerRepo, basecache.NewStore[any](cfg.CacheTTL))
	}

	serviceOpts := []usecase.PlayerServiceOption{}
	if metricsManager != nil {
		serviceOpts = append(serviceOpts, usecase.WithRankingObserver(metricsManager))
	}
	playerSvc := usecase.NewPlayerService(playerRepo, logger.Named("player"), serviceOpts...)
	healthSvc := usecase.NewHealthService(repos.health, logger.Named("health"))

	if metricsManager != nil {
		if players, err := playerSvc.ListPlayers(ctx); err == nil {
			metricsManager.SetRosterSize(len(players))
		}
	}

	handler := httpapi.NewHandler(playerSvc, healthSvc, logger)
	routerOpts := httpapi.RouterOptions{
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}
	if metricsManager != nil {
		routerOpts.MetricsHandler = metricsManager.Handler()
		routerOpts.HTTPMetrics = metricsManager
	}
	router := httpapi.NewRouter(handler, buildVerifier(cfg, metricsManager, logger), logger, routerOpts)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return server, repos.close, nil
}

func buildRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		db, err := OpenDB(ctx, cfg)
		if err != nil {
			return repositories{}, err
		}
		if cfg.SeedOnStart {
			inserted, err := postgres.BootstrapSeed(ctx, db, memory.SeedPlayers())
			if err != nil {
				_ = db.Close()
				return repositories{}, fmt.Errorf("bootstrap seed: %w", err)
			}
			logger.Info("bootstrap seed finished", "inserted", inserted)
		}

		logger.Info("store selected", "driver", config.StorePostgres, "db_name", dbNameFromURL(cfg.DBURL))
		return repositories{
			players: postgres.NewPlayerRepository(db),
			health:  postgres.NewHealthRepository(db, cfg.DBApplicationName),
			close:   db.Close,
		}, nil
	default:
		var seed []player.Player
		if cfg.SeedOnStart {
			seed = memory.SeedPlayers()
		}

		logger.Info("store selected", "driver", config.StoreMemory, "seeded", cfg.SeedOnStart)
		return repositories{
			players: memory.NewPlayerRepository(seed),
			health:  memory.NewHealthRepository(),
			close:   func() error { return nil },
		}, nil
	}
}

func buildVerifier(cfg config.Config, metricsManager *metrics.Manager, logger *logging.Logger) httpapi.TokenVerifier {
	if !cfg.AuthEnabled {
		logger.Warn("authentication disabled, every request acts as the local admin", "app_env", cfg.AppEnv)
		return introspect.NewStaticVerifier()
	}

	metricsManager.SetDependencyCircuitOpen(accountDependency, false)
	onCircuitChange := func(from, to resilience.CircuitState) {
		logger.Warn("account circuit state changed", "from", from, "to", to)
		metricsManager.SetDependencyCircuitOpen(accountDependency, to != resilience.CircuitStateClosed)
	}

	return introspect.NewClient(
		&http.Client{Timeout: cfg.AccountTimeout},
		introspect.Config{
			BaseURL:        cfg.AccountBaseURL,
			IntrospectPath: cfg.AccountIntrospectPath,
			Timeout:        cfg.AccountTimeout,
			CacheTTL:       cfg.AccountCacheTTL,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.AccountCircuitEnabled,
				FailureThreshold: cfg.AccountCircuitFailureCount,
				OpenTimeout:      cfg.AccountCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.AccountCircuitHalfOpenMaxReq,
			},
		},
		onCircuitChange,
		logger.Named("account"),
	)
}
