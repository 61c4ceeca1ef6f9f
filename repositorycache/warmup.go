package repositorycache

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// WarmupProvider pre-populates part of the cache.
type WarmupProvider interface {
	// Name returns a human-readable name for logging purposes
	Name() string

	// Warmup must be idempotent and safe to call multiple times.
	Warmup(ctx context.Context) error
}

// WarmupConfig configures the cache warming behavior.
type WarmupConfig struct {
	// Timeout bounds the whole warm-up
	Timeout time.Duration

	// Concurrency limits how many providers run at once; zero or less runs
	// them one at a time
	Concurrency int
}

// DefaultWarmupConfig returns the defaults used at start-up.
func DefaultWarmupConfig() WarmupConfig {
	return WarmupConfig{
		Timeout:     30 * time.Second,
		Concurrency: 4,
	}
}

// WarmupResult contains the result of warming a single provider.
type WarmupResult struct {
	Provider string
	Duration time.Duration
	Err      error
}

// WarmupResults contains the aggregate results of cache warming.
type WarmupResults struct {
	Results   []WarmupResult
	TotalTime time.Duration
	Errors    int
}

// HasErrors returns true if any provider failed during warmup.
func (wr *WarmupResults) HasErrors() bool {
	return wr.Errors > 0
}

// Warmer runs warm-up providers. A failing provider never stops the others.
type Warmer struct {
	providers []WarmupProvider
	logger    logrus.FieldLogger
	config    WarmupConfig
}

// NewWarmer creates a new cache warmer.
func NewWarmer(logger logrus.FieldLogger, config WarmupConfig) *Warmer {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultWarmupConfig().Timeout
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 1
	}
	return &Warmer{logger: logger, config: config}
}

// Register adds providers to the warmer.
func (w *Warmer) Register(providers ...WarmupProvider) {
	w.providers = append(w.providers, providers...)
}

// Warmup executes all registered providers and returns per-provider results
// in registration order.
func (w *Warmer) Warmup(ctx context.Context) *WarmupResults {
	start := time.Now()
	results := &WarmupResults{Results: make([]WarmupResult, len(w.providers))}

	ctx, cancel := context.WithTimeout(ctx, w.config.Timeout)
	defer cancel()

	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(w.config.Concurrency)

	for i, provider := range w.providers {
		g.Go(func() error {
			res := w.warmupProvider(ctx, provider)
			mu.Lock()
			results.Results[i] = res
			if res.Err != nil {
				results.Errors++
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	results.TotalTime = time.Since(start)
	log := w.logger.WithFields(logrus.Fields{
		"providers": len(w.providers),
		"errors":    results.Errors,
		"duration":  results.TotalTime.String(),
	})
	if results.HasErrors() {
		log.Warn("cache warmup completed with errors")
	} else {
		log.Info("cache warmup completed")
	}
	return results
}

func (w *Warmer) warmupProvider(ctx context.Context, provider WarmupProvider) WarmupResult {
	start := time.Now()
	name := provider.Name()

	err := provider.Warmup(ctx)
	duration := time.Since(start)

	log := w.logger.WithFields(logrus.Fields{"provider": name, "duration": duration.String()})
	if err != nil {
		log.WithError(err).Warn("cache warmup failed")
	} else {
		log.Debug("cache warmed")
	}

	return WarmupResult{Provider: name, Duration: duration, Err: err}
}
