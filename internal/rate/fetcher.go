package rate

import (
	"context"
	"errors"
	"time"

	"fxconvert/internal/adapters"
	"fxconvert/internal/domain"
	"fxconvert/internal/metrics"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// Fetcher retrieves the latest rates for a base currency and persists every
// successful result before handing it back. Concurrent fetches for the same base
// share one outbound request.
type Fetcher struct {
	client  adapters.RatesClient
	store   adapters.RateStore
	metrics *metrics.Metrics
	now     func() time.Time
	group   singleflight.Group
}

func (f *Fetcher) FetchLatest(ctx context.Context, base string) (domain.RateSnapshot, error) {
	v, err, shared := f.group.Do(base, func() (any, error) {
		return f.fetch(ctx, base)
	})
	if err != nil {
		return domain.RateSnapshot{}, err
	}
	snapshot := v.(domain.RateSnapshot)
	if shared {
		// every caller owns its table
		snapshot.Table = snapshot.Table.Clone()
	}
	return snapshot, nil
}

func (f *Fetcher) fetch(ctx context.Context, base string) (domain.RateSnapshot, error) {
	log := logrus.WithField("base", base)

	table, err := f.client.GetLatestRates(ctx, base)
	if err != nil {
		var fetchErr *domain.FetchError
		if !errors.As(err, &fetchErr) {
			err = &domain.FetchError{Kind: domain.ErrNetworkUnavailable, Base: base, Err: err}
		}
		f.metrics.ObserveFetch(fetchResult(err))
		log.WithError(err).Warn("failed to fetch latest rates")
		return domain.RateSnapshot{}, err
	}
	if table.IsEmpty() {
		err = &domain.FetchError{Kind: domain.ErrEmptyPayload, Base: base}
		f.metrics.ObserveFetch(fetchResult(err))
		log.WithError(err).Warn("failed to fetch latest rates")
		return domain.RateSnapshot{}, err
	}

	snapshot := domain.RateSnapshot{Table: table.Clone(), Timestamp: f.now()}
	if saveErr := f.store.Save(ctx, snapshot); saveErr != nil {
		log.WithError(saveErr).Warn("fetched rates were not persisted")
	}
	f.metrics.ObserveFetch("success")
	log.WithField("count", table.Len()).Info("latest rates fetched")
	return snapshot, nil
}

func fetchResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrBadStatus):
		return "bad_status"
	case errors.Is(err, domain.ErrEmptyPayload):
		return "empty_payload"
	default:
		return "network_unavailable"
	}
}

// NewFetcher builds a Fetcher. A nil now defaults to time.Now and nil metrics record nothing.
func NewFetcher(client adapters.RatesClient, store adapters.RateStore, m *metrics.Metrics, now func() time.Time) *Fetcher {
	if now == nil {
		now = time.Now
	}
	return &Fetcher{client: client, store: store, metrics: m, now: now}
}
