package adapters

import (
	"context"
	"fxconvert/internal/domain"
)

type RatesClient interface {
	GetLatestRates(ctx context.Context, base string) (domain.RateTable, error)
}

type LocationClient interface {
	DetectCurrency(ctx context.Context) (string, error)
}

// KVStore is a durable string key-value store. Get reports ok=false for absent keys.
type KVStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key string, value string) error
}

type RateStore interface {
	Save(ctx context.Context, snapshot domain.RateSnapshot) error
	Load(ctx context.Context) (domain.RateSnapshot, bool)
}

type RateFetcher interface {
	FetchLatest(ctx context.Context, base string) (domain.RateSnapshot, error)
}
