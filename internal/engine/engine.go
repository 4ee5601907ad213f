// Package engine orchestrates one classification: cache check, evidence
// collection, fusion, rule classification and the final decision, with
// write-back to the result cache and the audit store.
package engine

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/surveylens/brandcheck/internal/cache"
	"github.com/surveylens/brandcheck/internal/classifier"
	"github.com/surveylens/brandcheck/internal/decision"
	"github.com/surveylens/brandcheck/internal/evidence"
	"github.com/surveylens/brandcheck/internal/fusion"
	"github.com/surveylens/brandcheck/internal/model"
	"github.com/surveylens/brandcheck/internal/store"
)

// Deps wires the engine's collaborators. Cache and Store are optional; a
// nil cache disables result caching and a nil store disables auditing.
type Deps struct {
	Collector *evidence.Collector
	Cache     cache.Cache
	Store     store.Store
	Weights   fusion.ProfileWeights
	Decision  decision.Config
	CacheTTL  time.Duration
}

// Engine is the public entry point for classification. Safe for concurrent
// use.
type Engine struct {
	collector  *evidence.Collector
	classifier *classifier.Classifier
	decider    *decision.Engine
	cache      cache.Cache
	store      store.Store
	response   fusion.Profile
	entity     fusion.Profile
	ttl        time.Duration
	log        *zap.Logger
}

// New builds an engine from its dependencies.
func New(deps Deps) *Engine {
	ttl := deps.CacheTTL
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	return &Engine{
		collector:  deps.Collector,
		classifier: classifier.Default(),
		decider:    decision.NewEngine(deps.Decision),
		cache:      deps.Cache,
		store:      deps.Store,
		response:   fusion.ResponseProfile(deps.Weights.Response),
		entity:     fusion.EntityProfile(deps.Weights.Entity),
		ttl:        ttl,
		log:        zap.L().Named("engine"),
	}
}

// ClassifyResponse validates one respondent answer end to end. Invalid
// input fails before any provider call; everything else yields a decision.
func (e *Engine) ClassifyResponse(ctx context.Context, req model.ResponseRequest) (*model.Decision, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	key := req.CacheKey()
	if d := e.cachedDecision(ctx, key); d != nil {
		return d, nil
	}

	bundle := e.collector.CollectResponse(ctx, req)

	rc := fusion.RequestContext{HasCategoryContext: req.Category != ""}
	fused := fusion.Fuse(e.response, bundle, rc)
	conf := e.response.ToPercent(fused)

	cls := e.classifier.Classify(bundle, classifier.Context{
		CategoryDeclared: req.Category != "",
		Category:         req.Category,
	})

	d := e.decider.Decide(decision.Input{
		Bundle:            bundle,
		ConfidencePercent: conf,
		Classification:    cls,
		Profile:           e.response,
		Text:              req.Text,
	})

	e.storeDecision(ctx, key, "response", req.Text, d)
	e.cacheDecision(ctx, key, d)
	return &d, nil
}

// ClassifyEntity validates a brand candidate on the entity profile and
// returns the winning classification with its confidence converted to the
// shared percent scale.
func (e *Engine) ClassifyEntity(ctx context.Context, req model.EntityRequest) (*model.Classification, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	key := req.CacheKey()
	if e.cache != nil {
		if raw, ok := e.cache.Get(ctx, key); ok {
			var cls model.Classification
			if err := json.Unmarshal(raw, &cls); err == nil {
				return &cls, nil
			}
			e.log.Warn("dropping undecodable cache entry", zap.String("key", key))
		}
	}

	bundle := e.collector.CollectEntity(ctx, req)

	rc := fusion.RequestContext{HasCategoryContext: req.Category != ""}
	fused := fusion.Fuse(e.entity, bundle, rc)

	cls := e.classifier.Classify(bundle, classifier.Context{
		CategoryDeclared: req.Category != "",
		Category:         req.Category,
	})
	cls.ConfidencePercent = e.entity.ToPercent(fused)

	if e.cache != nil {
		if raw, err := json.Marshal(cls); err == nil {
			if err := e.cache.Set(ctx, key, raw, e.ttl); err != nil {
				e.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
			}
		}
	}
	return &cls, nil
}

// Close releases the cache and store backends.
func (e *Engine) Close() error {
	var firstErr error
	if e.cache != nil {
		if err := e.cache.Close(); err != nil {
			firstErr = err
		}
	}
	if e.store != nil {
		if err := e.store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (e *Engine) cachedDecision(ctx context.Context, key string) *model.Decision {
	if e.cache == nil {
		return nil
	}
	raw, ok := e.cache.Get(ctx, key)
	if !ok {
		return nil
	}
	var d model.Decision
	if err := json.Unmarshal(raw, &d); err != nil {
		e.log.Warn("dropping undecodable cache entry", zap.String("key", key))
		return nil
	}
	d.FromCache = true
	return &d
}

func (e *Engine) cacheDecision(ctx context.Context, key string, d model.Decision) {
	if e.cache == nil {
		return
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return
	}
	if err := e.cache.Set(ctx, key, raw, e.ttl); err != nil {
		e.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (e *Engine) storeDecision(ctx context.Context, key, mode, subject string, d model.Decision) {
	if e.store == nil {
		return
	}
	err := e.store.SaveDecision(ctx, store.DecisionRecord{
		ID:         d.ID,
		RequestKey: key,
		Mode:       mode,
		Subject:    subject,
		Decision:   d,
		CreatedAt:  d.CreatedAt,
	})
	if err != nil {
		e.log.Warn("audit write failed", zap.String("decision_id", d.ID), zap.Error(err))
	}
}
