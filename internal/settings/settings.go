// Package settings persists user preferences as JSON values in a KVStore.
// Reads never fail: absent or corrupt values resolve to defaults.
package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fxconvert/internal/adapters"
	"fxconvert/internal/domain"

	"github.com/sirupsen/logrus"
)

const keyPrefix = "currency_"

const (
	KeyRates                = "rates"
	KeyMainCurrency         = "mainCurrency"
	KeyLocationCurrency     = "locationCurrency"
	KeyAdditionalCurrencies = "additionalCurrencies"
	KeyAutoUpdate           = "autoUpdate"
	KeyDarkMode             = "darkMode"
	KeyLastUpdateTime       = "lastUpdateTime"
)

type Store struct {
	kv adapters.KVStore
}

// Get decodes the value stored under key into dst and reports whether it did.
func (s *Store) Get(ctx context.Context, key string, dst any) bool {
	raw, ok, err := s.kv.Get(ctx, keyPrefix+key)
	if err != nil {
		logrus.WithError(err).WithField("key", key).Warn("setting read failed, using default")
		return false
	}
	if !ok || raw == "" {
		return false
	}
	if err = json.Unmarshal([]byte(raw), dst); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("setting is corrupt, using default")
		return false
	}
	return true
}

// Put stores v under key. A failure is logged and reported as
// domain.ErrStorageUnavailable; callers treat it as non-fatal.
func (s *Store) Put(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode setting %q: %w", key, err)
	}
	if err = s.kv.Set(ctx, keyPrefix+key, string(raw)); err != nil {
		logrus.WithError(err).WithField("key", key).Error("failed to save setting")
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

func (s *Store) MainCurrency(ctx context.Context) string {
	var code string
	if !s.Get(ctx, KeyMainCurrency, &code) || code == "" {
		return domain.DefaultMainCurrency
	}
	return code
}

func (s *Store) SetMainCurrency(ctx context.Context, code string) error {
	return s.Put(ctx, KeyMainCurrency, code)
}

// LocationCurrency returns "" when no location currency was ever detected.
func (s *Store) LocationCurrency(ctx context.Context) string {
	var code string
	s.Get(ctx, KeyLocationCurrency, &code)
	return code
}

func (s *Store) SetLocationCurrency(ctx context.Context, code string) error {
	return s.Put(ctx, KeyLocationCurrency, code)
}

func (s *Store) AdditionalCurrencies(ctx context.Context) []string {
	var codes []string
	if !s.Get(ctx, KeyAdditionalCurrencies, &codes) {
		return []string{}
	}
	return codes
}

func (s *Store) SetAdditionalCurrencies(ctx context.Context, codes []string) error {
	if codes == nil {
		codes = []string{}
	}
	return s.Put(ctx, KeyAdditionalCurrencies, codes)
}

func (s *Store) AutoUpdate(ctx context.Context) bool {
	enabled := true
	if !s.Get(ctx, KeyAutoUpdate, &enabled) {
		return true
	}
	return enabled
}

func (s *Store) SetAutoUpdate(ctx context.Context, enabled bool) error {
	return s.Put(ctx, KeyAutoUpdate, enabled)
}

func (s *Store) DarkMode(ctx context.Context) bool {
	var enabled bool
	if !s.Get(ctx, KeyDarkMode, &enabled) {
		return false
	}
	return enabled
}

func (s *Store) SetDarkMode(ctx context.Context, enabled bool) error {
	return s.Put(ctx, KeyDarkMode, enabled)
}

func (s *Store) LastUpdateTime(ctx context.Context) (time.Time, bool) {
	var ts time.Time
	if !s.Get(ctx, KeyLastUpdateTime, &ts) || ts.IsZero() {
		return time.Time{}, false
	}
	return ts, true
}

func (s *Store) SetLastUpdateTime(ctx context.Context, ts time.Time) error {
	return s.Put(ctx, KeyLastUpdateTime, ts)
}

// Tracked assembles the currencies currently shown to the user.
func (s *Store) Tracked(ctx context.Context) domain.TrackedCurrencies {
	return domain.TrackedCurrencies{
		Main:       s.MainCurrency(ctx),
		Location:   s.LocationCurrency(ctx),
		Additional: s.AdditionalCurrencies(ctx),
	}
}

func NewStore(kv adapters.KVStore) *Store {
	return &Store{kv: kv}
}
