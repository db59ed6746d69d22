package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/zatekoja/medicalnetwork/internal/adapters/cache"
	"github.com/zatekoja/medicalnetwork/internal/adapters/database"
	"github.com/zatekoja/medicalnetwork/internal/adapters/directory"
	"github.com/zatekoja/medicalnetwork/internal/adapters/events"
	"github.com/zatekoja/medicalnetwork/internal/adapters/llm"
	"github.com/zatekoja/medicalnetwork/internal/adapters/search"
	"github.com/zatekoja/medicalnetwork/internal/api/handlers"
	"github.com/zatekoja/medicalnetwork/internal/api/middleware"
	"github.com/zatekoja/medicalnetwork/internal/api/routes"
	"github.com/zatekoja/medicalnetwork/internal/application/services"
	"github.com/zatekoja/medicalnetwork/internal/domain/providers"
	"github.com/zatekoja/medicalnetwork/internal/domain/repositories"
	"github.com/zatekoja/medicalnetwork/internal/infrastructure/clients/gemini"
	"github.com/zatekoja/medicalnetwork/internal/infrastructure/clients/openai"
	"github.com/zatekoja/medicalnetwork/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/medicalnetwork/internal/infrastructure/clients/redis"
	"github.com/zatekoja/medicalnetwork/internal/infrastructure/clients/typesense"
	"github.com/zatekoja/medicalnetwork/internal/infrastructure/observability"
	"github.com/zatekoja/medicalnetwork/pkg/config"
	"github.com/zatekoja/medicalnetwork/pkg/secrets"
)

func main() {
	// A missing .env is normal outside local development
	_ = godotenv.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if res, err := secrets.ApplyVaultSecrets(ctx, secrets.LoadVaultConfigFromEnv("")); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load vault secrets: %v\n", err)
		os.Exit(1)
	} else if res.Enabled {
		fmt.Fprintf(os.Stderr, "vault secrets loaded: %d (skipped %d)\n", res.Loaded, res.Skipped)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env, cfg.LogLevel)

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	// Shared cache: Redis when enabled, otherwise in-process
	var (
		cacheProvider providers.CacheProvider
		eventBus      *events.RedisEventBus
	)
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, falling back to in-memory cache")
		} else {
			defer redisClient.Close()
			cacheProvider = cache.NewRedisAdapter(redisClient)
			eventBus = events.NewRedisEventBus(redisClient)
			log.Info().Str("addr", cfg.Redis.RedisAddr()).Msg("Redis cache and event bus enabled")
		}
	}
	if cacheProvider == nil {
		cacheProvider = cache.NewMemoryAdapter(4096, time.Duration(cfg.Redis.CacheTTLSeconds)*time.Second)
	}

	var index repositories.ProviderIndexRepository
	if cfg.Typesense.Enabled {
		tsClient, err := typesense.NewClient(ctx, &cfg.Typesense)
		if err != nil {
			log.Warn().Err(err).Msg("Typesense unavailable, suggestions disabled")
		} else {
			if err := tsClient.InitSchema(ctx); err != nil {
				log.Warn().Err(err).Msg("Failed to init Typesense schema")
			}
			index = search.NewTypesenseAdapter(tsClient)
		}
	}

	var analytics repositories.SearchAnalyticsRepository
	if cfg.Database.Enabled {
		pgClient, err := postgres.NewClient(ctx, &cfg.Database)
		if err != nil {
			log.Warn().Err(err).Msg("PostgreSQL unavailable, search analytics disabled")
		} else {
			defer pgClient.Close()
			adapter := database.NewSearchAnalyticsAdapter(pgClient)
			if err := adapter.EnsureSchema(ctx); err != nil {
				log.Warn().Err(err).Msg("Failed to ensure search analytics schema")
			}
			analytics = adapter
		}
	}

	generator := buildGenerator(cfg)

	// Directory snapshot
	directoryService := services.NewDirectoryService(cfg.Directory.SourcePath, directory.NewLoader())
	if eventBus != nil {
		directoryService.SetEventBus(eventBus)
		if err := directoryService.StartInvalidationListener(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to start directory invalidation listener")
		}
	}
	if index != nil {
		directoryService.SetIndex(index)
	}
	if records, err := directoryService.Records(ctx); err != nil {
		log.Warn().Err(err).Msg("Directory not available at startup, serving degraded")
	} else {
		log.Info().Int("records", len(records)).Msg("Directory loaded")
	}

	// Core services
	resolver := services.NewLocationResolver(services.DefaultLocationSynonyms)
	ranker := services.NewProviderRankingService(services.RankingWeights{
		Region:            cfg.Ranking.RegionWeight,
		Specialty:         cfg.Ranking.SpecialtyWeight,
		SubSpecialtyBonus: cfg.Ranking.SubSpecialtyBonus,
		NameSpecialty:     cfg.Ranking.NameSpecialtyBonus,
		NameRegion:        cfg.Ranking.NameRegionBonus,
	}, cfg.Ranking.MaxResults)
	classifier := services.NewSpecialtyClassifier(generator, services.ClassifierOptions{
		Cache:        cacheProvider,
		CacheTTLSecs: cfg.Redis.CacheTTLSeconds,
	})
	searchService := services.NewSearchService(directoryService, resolver, classifier, ranker, analytics)
	reportService := services.NewReportService(generator, directoryService, resolver, ranker, analytics)

	cacheMiddleware := middleware.NewCacheMiddleware(cacheProvider, metrics)

	var analyticsHandler *handlers.AnalyticsHandler
	if analytics != nil {
		analyticsHandler = handlers.NewAnalyticsHandler(analytics)
	}

	router := routes.NewRouter(
		handlers.NewNetworkHandler(directoryService, cacheMiddleware.InvalidateCache),
		handlers.NewProviderHandler(searchService, index),
		handlers.NewRecommendHandler(searchService, reportService),
		analyticsHandler,
		cacheMiddleware,
		metrics,
		routes.Options{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			StaticDir:      cfg.Server.StaticDir,
		},
	)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              serverAddr,
		Handler:           router.SetupRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		// Report analysis waits on the LLM
		WriteTimeout: cfg.LLM.Timeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Str("llm_provider", cfg.LLM.Provider).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Server shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	cancel()
	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing event bus")
		}
	}
	log.Info().Msg("Server stopped")
}

// buildGenerator returns the configured TextGenerator behind a circuit
// breaker, or nil when no provider is usable.
func buildGenerator(cfg *config.Config) providers.TextGenerator {
	var (
		next providers.TextGenerator
		err  error
	)
	switch cfg.LLM.Provider {
	case "gemini":
		next, err = newGemini(cfg)
	case "openai":
		next, err = newOpenAI(cfg)
	default:
		log.Info().Msg("LLM disabled, classification uses the keyword lexicon only")
		return nil
	}
	if err != nil {
		log.Warn().Err(err).Str("provider", cfg.LLM.Provider).Msg("LLM client unavailable, running without it")
		return nil
	}

	return llm.NewBreakerGenerator(next, llm.BreakerSettings{
		Name:        cfg.LLM.Provider,
		MaxFailures: cfg.LLM.BreakerMaxFailures,
		OpenTimeout: cfg.LLM.BreakerOpenTimeout,
		Timeout:     cfg.LLM.Timeout,
	})
}

func newGemini(cfg *config.Config) (providers.TextGenerator, error) {
	client, err := gemini.NewClient(&cfg.Gemini, cfg.LLM.Timeout)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func newOpenAI(cfg *config.Config) (providers.TextGenerator, error) {
	client, err := openai.NewClient(&cfg.OpenAI, cfg.LLM.Timeout)
	if err != nil {
		return nil, err
	}
	return client, nil
}
