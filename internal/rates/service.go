package rates

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bolsillo/internal/cache"
	"bolsillo/internal/log"
	"bolsillo/internal/storage"
	"bolsillo/internal/worker"
)

// ErrNoRate means the lookup failed and no quote was ever cached. The rate
// has to be entered manually.
var ErrNoRate = errors.New("no exchange rate available")

// Result is the outcome of a lookup.
type Result struct {
	Quote Quote
	// Stale is set when Quote comes from the last known rate because the
	// lookup failed. FetchErr holds that failure.
	Stale    bool
	FetchErr error
}

const freshKey = "quote"

// Service combines a Fetcher with the lastKnownRate record of a store.
type Service struct {
	fetcher Fetcher
	kv      storage.KV
	logger  *log.Logger
	fresh   *cache.LRUCache[Quote]
}

type ServiceOption func(*Service)

func WithLogger(l *log.Logger) ServiceOption {
	return func(s *Service) { s.logger = l.WithComponent(log.ComponentRates) }
}

// WithMinAge reuses a fetched quote for d instead of calling the provider
// again. Zero disables it.
func WithMinAge(d time.Duration) ServiceOption {
	return func(s *Service) { s.fresh = cache.NewLRUCache[Quote](1, d) }
}

func NewService(f Fetcher, kv storage.KV, opts ...ServiceOption) *Service {
	s := &Service{
		fetcher: f,
		kv:      kv,
		logger:  log.Discard(),
		fresh:   cache.NewLRUCache[Quote](1, 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Current fetches the quote and records it as the last known rate. When the
// fetch fails the last known rate is returned, flagged stale. Without one
// the error wraps ErrNoRate.
func (s *Service) Current(ctx context.Context) (Result, error) {
	if q, ok := s.fresh.Get(freshKey); ok {
		return Result{Quote: q}, nil
	}

	start := time.Now()
	q, err := s.fetcher.Fetch(ctx)
	if err == nil {
		s.fresh.Set(freshKey, q)
		if serr := storage.SetJSON(ctx, s.kv, storage.KeyLastKnownRate, q); serr != nil {
			s.logger.WarnContext(ctx, "Failed to cache exchange rate", log.FieldError, serr)
		}
		s.logger.DebugContext(ctx, "Exchange rate fetched",
			log.FieldOperation, log.OpFetchRate,
			log.FieldRate, q.Sell.String(),
			log.FieldDuration, time.Since(start).Milliseconds())
		return Result{Quote: q}, nil
	}

	s.logger.WarnContext(ctx, "Exchange rate lookup failed",
		log.FieldOperation, log.OpFetchRate,
		log.FieldError, err)

	cached, found, cerr := s.LastKnown(ctx)
	if cerr != nil {
		return Result{}, errors.Join(err, cerr)
	}
	if !found {
		return Result{}, fmt.Errorf("%w: %v", ErrNoRate, err)
	}
	return Result{Quote: cached, Stale: true, FetchErr: err}, nil
}

// LastKnown returns the cached quote. A malformed record counts as missing.
func (s *Service) LastKnown(ctx context.Context) (Quote, bool, error) {
	var q Quote
	found, err := storage.GetJSON(ctx, s.kv, storage.KeyLastKnownRate, &q)
	if err != nil {
		if found {
			s.logger.WarnContext(ctx, "Ignoring malformed cached rate", log.FieldError, err)
			return Quote{}, false, nil
		}
		return Quote{}, false, err
	}
	if found && !q.Sell.IsPositive() {
		return Quote{}, false, nil
	}
	return q, found, nil
}

// Watch looks the rate up now and then every interval, passing each outcome
// to fn, until ctx is cancelled.
func (s *Service) Watch(ctx context.Context, interval time.Duration, fn func(Result, error)) error {
	return worker.Periodic(ctx, interval, func(ctx context.Context, _ time.Time) {
		res, err := s.Current(ctx)
		if ctx.Err() != nil {
			return
		}
		fn(res, err)
	})
}
