package dataaggregator

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/railinfo/pkg/dataaggregator/cachedresults"
	"github.com/travigo/railinfo/pkg/dataaggregator/source"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultStationsLimit    = 20
	DefaultDeparturesLimit  = 20
	DefaultDisruptionsLimit = 50

	DefaultUpstreamTimeout = 5 * time.Second
)

type TTLs struct {
	Stations    time.Duration
	Departures  time.Duration
	Disruptions time.Duration
	Strikes     time.Duration
	Dashboard   time.Duration
	JourneyPlan time.Duration
}

func DefaultTTLs() TTLs {
	return TTLs{
		Stations:    24 * time.Hour,
		Departures:  30 * time.Second,
		Disruptions: 5 * time.Minute,
		Strikes:     15 * time.Minute,
		Dashboard:   30 * time.Second,
		JourneyPlan: 2 * time.Minute,
	}
}

// DashboardStation is a station whose departures feed the live dashboard delay figures
type DashboardStation struct {
	ID     string `yaml:"id" json:"id"`
	Name   string `yaml:"name" json:"name"`
	Region string `yaml:"region" json:"region"`
}

type Aggregator struct {
	Primary  PrimarySource
	Regional RegionalSource
	Cache    *cachedresults.Cache

	TTL               TTLs
	UpstreamTimeout   time.Duration
	StrikeClassifier  StrikeClassifier
	DashboardStations []DashboardStation

	Now func() time.Time

	inflight singleflight.Group
}

type Option func(*Aggregator)

func WithTTLs(ttls TTLs) Option {
	return func(a *Aggregator) {
		a.TTL = ttls
	}
}

func WithUpstreamTimeout(timeout time.Duration) Option {
	return func(a *Aggregator) {
		if timeout > 0 {
			a.UpstreamTimeout = timeout
		}
	}
}

func WithStrikeClassifier(classifier StrikeClassifier) Option {
	return func(a *Aggregator) {
		if classifier != nil {
			a.StrikeClassifier = classifier
		}
	}
}

func WithDashboardStations(stations []DashboardStation) Option {
	return func(a *Aggregator) {
		a.DashboardStations = stations
	}
}

// WithClock drives both the aggregator and its cache from now
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		a.Now = now
		if a.Cache != nil {
			a.Cache.Now = now
		}
	}
}

func New(primary PrimarySource, regional RegionalSource, cache *cachedresults.Cache, options ...Option) *Aggregator {
	if cache == nil {
		cache = cachedresults.New(nil)
	}

	aggregator := &Aggregator{
		Primary:          primary,
		Regional:         regional,
		Cache:            cache,
		TTL:              DefaultTTLs(),
		UpstreamTimeout:  DefaultUpstreamTimeout,
		StrikeClassifier: NewKeywordClassifier(nil),
		Now:              time.Now,
	}

	for _, option := range options {
		option(aggregator)
	}

	if primary != nil {
		log.Debug().Str("name", primary.GetName()).Msg("Registering new Data Source")
	}
	if regional != nil {
		log.Debug().Str("name", regional.GetName()).Msg("Registering new Data Source")
	}

	return aggregator
}

func (a *Aggregator) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}

	return a.Now()
}

func (a *Aggregator) ClearCache(ctx context.Context, pattern string) int {
	return a.Cache.Clear(ctx, pattern)
}

func (a *Aggregator) CacheStats() cachedresults.Stats {
	return a.Cache.Stats()
}

// upstream runs call with the per call timeout applied
func upstream[T any](ctx context.Context, a *Aggregator, call func(ctx context.Context) (T, error)) (T, error) {
	timeout := a.UpstreamTimeout
	if timeout <= 0 {
		timeout = DefaultUpstreamTimeout
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return call(callCtx)
}

// cachedLookup is the template shared by every read operation: a cache hit returns straight
// away, otherwise one fetch per key runs at a time and only successful results are cached.
func cachedLookup[T any](ctx context.Context, a *Aggregator, key string, ttl time.Duration, fetch func(ctx context.Context) (T, error)) (T, error) {
	if cached, exists := cachedresults.Get[T](ctx, a.Cache, key); exists {
		return cached, nil
	}

	value, err, shared := a.inflight.Do(key, func() (any, error) {
		// Concurrent callers share this fetch so one of them cancelling must not fail the rest
		fetchCtx := context.WithoutCancel(ctx)

		result, err := fetch(fetchCtx)
		if err != nil {
			return result, err
		}

		cachedresults.Set[T](fetchCtx, a.Cache, key, result, ttl)

		return result, nil
	})

	if shared {
		log.Debug().Str("key", key).Msg("Shared in-flight lookup")
	}

	typed, _ := value.(T)
	return typed, err
}

func (a *Aggregator) primary() (PrimarySource, error) {
	if a.Primary == nil {
		return nil, source.UnsupportedSourceError
	}

	return a.Primary, nil
}

func (a *Aggregator) regional() (RegionalSource, error) {
	if a.Regional == nil {
		return nil, source.UnsupportedSourceError
	}

	return a.Regional, nil
}
