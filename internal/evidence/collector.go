package evidence

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/surveylens/brandcheck/internal/model"
	"github.com/surveylens/brandcheck/internal/provider"
	"github.com/surveylens/brandcheck/internal/resilience"
)

// Config tunes per-source collection behavior. Vision gets a generous
// timeout because image analysis is the slowest provider by an order of
// magnitude.
type Config struct {
	VisionTimeout      time.Duration `yaml:"vision_timeout" mapstructure:"vision_timeout"`
	SearchTimeout      time.Duration `yaml:"search_timeout" mapstructure:"search_timeout"`
	KnownEntityTimeout time.Duration `yaml:"known_entity_timeout" mapstructure:"known_entity_timeout"`
	EmbeddingTimeout   time.Duration `yaml:"embedding_timeout" mapstructure:"embedding_timeout"`

	// ProviderRPS caps each source's request rate. 0 disables limiting.
	ProviderRPS float64 `yaml:"provider_rps" mapstructure:"provider_rps"`

	// EmbeddingReferences is the reference phrase set for semantic
	// similarity scoring.
	EmbeddingReferences []string `yaml:"embedding_references" mapstructure:"embedding_references"`
}

func (c Config) withDefaults() Config {
	if c.VisionTimeout <= 0 {
		c.VisionTimeout = 60 * time.Second
	}
	if c.SearchTimeout <= 0 {
		c.SearchTimeout = 10 * time.Second
	}
	if c.KnownEntityTimeout <= 0 {
		c.KnownEntityTimeout = 5 * time.Second
	}
	if c.EmbeddingTimeout <= 0 {
		c.EmbeddingTimeout = 15 * time.Second
	}
	return c
}

// Collector fans a request out to every configured provider concurrently
// and assembles the normalized evidence bundle. Provider failures are
// recorded as absent evidence, never as a collection error; one slow or
// broken source must not sink the whole classification.
type Collector struct {
	providers provider.Set
	policy    *resilience.Policy
	cfg       Config
	limiters  map[model.Source]*rate.Limiter
	log       *zap.Logger
}

// NewCollector builds a collector over the given provider set and call
// policy.
func NewCollector(providers provider.Set, policy *resilience.Policy, cfg Config) *Collector {
	cfg = cfg.withDefaults()
	limiters := make(map[model.Source]*rate.Limiter, 4)
	if cfg.ProviderRPS > 0 {
		for _, s := range model.AllSources() {
			limiters[s] = rate.NewLimiter(rate.Limit(cfg.ProviderRPS), 1)
		}
	}
	return &Collector{
		providers: providers,
		policy:    policy,
		cfg:       cfg,
		limiters:  limiters,
		log:       zap.L().Named("collector"),
	}
}

// CollectResponse gathers evidence for a respondent answer from all
// configured sources. The returned bundle always holds one record per
// source; unconfigured or failed sources appear as absent.
func (c *Collector) CollectResponse(ctx context.Context, req model.ResponseRequest) model.EvidenceBundle {
	slots := make([]model.Evidence, len(model.AllSources()))
	for i, s := range model.AllSources() {
		slots[i] = model.Absent(s)
	}

	g, gctx := errgroup.WithContext(ctx)

	if c.providers.Vision != nil && len(req.Images) > 0 {
		g.Go(func() error {
			slots[0] = c.collect(gctx, model.SourceVision, c.cfg.VisionTimeout, func(ctx context.Context) (model.Evidence, error) {
				r, err := c.providers.Vision.Analyze(ctx, req.Images, req.Text)
				if err != nil {
					return model.Evidence{}, err
				}
				return NormalizeVision(r), nil
			})
			return nil
		})
	}

	if c.providers.Search != nil && len(req.SearchResults) > 0 {
		g.Go(func() error {
			opts := provider.SearchOptions{LanguageCode: req.LanguageCode, Category: req.Category}
			slots[1] = c.collect(gctx, model.SourceSearch, c.cfg.SearchTimeout, func(ctx context.Context) (model.Evidence, error) {
				a, err := c.providers.Search.Analyze(ctx, req.Text, req.SearchResults, opts)
				if err != nil {
					return model.Evidence{}, err
				}
				return NormalizeSearch(a), nil
			})
			return nil
		})
	}

	if c.providers.KnownEntity != nil {
		g.Go(func() error {
			slots[2] = c.collect(gctx, model.SourceKnownEntity, c.cfg.KnownEntityTimeout, func(ctx context.Context) (model.Evidence, error) {
				m, err := c.providers.KnownEntity.FuzzyMatch(ctx, req.Text)
				if err != nil {
					return model.Evidence{}, err
				}
				return NormalizeEntity(m), nil
			})
			return nil
		})
	}

	if c.providers.Embedding != nil && len(c.cfg.EmbeddingReferences) > 0 {
		g.Go(func() error {
			slots[3] = c.collect(gctx, model.SourceEmbedding, c.cfg.EmbeddingTimeout, func(ctx context.Context) (model.Evidence, error) {
				sim, err := c.providers.Embedding.Similarity(ctx, req.Text, c.cfg.EmbeddingReferences)
				if err != nil {
					return model.Evidence{}, err
				}
				return NormalizeEmbedding(sim), nil
			})
			return nil
		})
	}

	_ = g.Wait() // workers never return errors; failures become absent records
	return model.NewEvidenceBundle(slots...)
}

// CollectEntity gathers evidence for a brand candidate. Only the
// known-entity directory is consulted directly; callers supply any other
// precomputed signals through request overrides, which replace the
// collected record for their source.
func (c *Collector) CollectEntity(ctx context.Context, req model.EntityRequest) model.EvidenceBundle {
	evs := []model.Evidence{
		model.Absent(model.SourceKnownEntity),
		model.Absent(model.SourceSearch),
	}

	if c.providers.KnownEntity != nil {
		evs[0] = c.collect(ctx, model.SourceKnownEntity, c.cfg.KnownEntityTimeout, func(ctx context.Context) (model.Evidence, error) {
			m, err := c.providers.KnownEntity.FuzzyMatch(ctx, req.Name)
			if err != nil {
				return model.Evidence{}, err
			}
			return NormalizeEntity(m), nil
		})
	}

	evs = append(evs, req.Overrides...)
	return model.NewEvidenceBundle(evs...)
}

// collect runs one provider call under the rate limiter, a per-source
// timeout and the resilience policy. Any failure is logged and recorded as
// absent evidence.
func (c *Collector) collect(ctx context.Context, source model.Source, timeout time.Duration, fn func(ctx context.Context) (model.Evidence, error)) model.Evidence {
	if lim, ok := c.limiters[source]; ok {
		if err := lim.Wait(ctx); err != nil {
			c.log.Warn("rate limiter wait aborted",
				zap.String("source", string(source)),
				zap.Error(err),
			)
			return model.Absent(source)
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ev, err := resilience.Call(callCtx, c.policy, string(source), fn)
	if err != nil {
		c.log.Warn("evidence source failed",
			zap.String("source", string(source)),
			zap.Error(err),
		)
		return model.Absent(source)
	}
	return ev
}
