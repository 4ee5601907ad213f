package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/surveylens/brandcheck/internal/cache"
	"github.com/surveylens/brandcheck/internal/engine"
	"github.com/surveylens/brandcheck/internal/evidence"
	"github.com/surveylens/brandcheck/internal/fusion"
	"github.com/surveylens/brandcheck/internal/provider"
	"github.com/surveylens/brandcheck/internal/resilience"
	"github.com/surveylens/brandcheck/internal/store"
	"github.com/surveylens/brandcheck/pkg/embedding"
	"github.com/surveylens/brandcheck/pkg/knownentity"
	"github.com/surveylens/brandcheck/pkg/vision"
)

// appEnv bundles the long-lived pieces a command needs. Close releases the
// engine, which in turn closes the cache and store.
type appEnv struct {
	Engine *engine.Engine
	Store  store.Store
	Cache  cache.Cache
	Policy *resilience.Policy
}

func (e *appEnv) Close() {
	if err := e.Engine.Close(); err != nil {
		zap.L().Warn("close engine", zap.Error(err))
	}
}

// initEngine validates config for the given mode and wires providers,
// resilience, cache, store and the classification engine.
func initEngine(ctx context.Context, mode string) (*appEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	c, err := initCache(ctx)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	providers := provider.Set{
		Search: provider.BindSearch(cfg.Search.TrustedDomains),
	}

	if cfg.Anthropic.Key != "" {
		visionClient := vision.New(cfg.Anthropic.Key, vision.WithModel(cfg.Anthropic.Model))
		providers.Vision = provider.BindVision(visionClient)
	} else {
		zap.L().Warn("BRANDCHECK_ANTHROPIC_KEY not set, vision evidence disabled")
	}

	if cfg.OpenAI.Key != "" {
		providers.Embedding = embedding.New(cfg.OpenAI.Key, embedding.WithModel(cfg.OpenAI.Model))
	} else {
		zap.L().Debug("BRANDCHECK_OPENAI_KEY not set, embedding evidence disabled")
	}

	if cfg.Directory.Path != "" {
		dir, err := knownentity.Load(cfg.Directory.Path)
		if err != nil {
			_ = c.Close()
			_ = st.Close()
			return nil, err
		}
		providers.KnownEntity = provider.BindDirectory(dir)
		zap.L().Info("brand directory loaded", zap.Int("entries", dir.Len()))
	} else {
		zap.L().Debug("directory.path not set, known-entity evidence disabled")
	}

	weights := fusion.DefaultWeights()
	if cfg.Fusion.WeightsPath != "" {
		weights, err = fusion.LoadWeights(cfg.Fusion.WeightsPath)
		if err != nil {
			_ = c.Close()
			_ = st.Close()
			return nil, err
		}
	}

	policy := resilience.NewPolicy(cfg.Resilience.Retry, cfg.Resilience.Breaker)
	collector := evidence.NewCollector(providers, policy, cfg.Evidence)

	eng := engine.New(engine.Deps{
		Collector: collector,
		Cache:     c,
		Store:     st,
		Weights:   weights,
		Decision:  cfg.Decision,
		CacheTTL:  time.Duration(cfg.Cache.TTLHours) * time.Hour,
	})

	return &appEnv{Engine: eng, Store: st, Cache: c, Policy: policy}, nil
}

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, &cfg.Store.Pool)
	default:
		return store.NewSQLite(cfg.Store.Path)
	}
}

func initCache(ctx context.Context) (cache.Cache, error) {
	ttl := time.Duration(cfg.Cache.TTLHours) * time.Hour
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	if cfg.Cache.Backend == "redis" {
		return cache.NewRedis(ctx, cache.RedisOptions{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
	}
	return cache.NewMemory(ttl, 10*time.Minute), nil
}
