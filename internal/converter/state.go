// Package converter holds the application state served by the JSON API: the
// resident rate table, connectivity, the tracked fields and their values.
package converter

import (
	"context"
	"fmt"
	"sync"

	"fxconvert/internal/adapters"
	"fxconvert/internal/domain"
	"fxconvert/internal/metrics"
	"fxconvert/internal/rate"
	"fxconvert/internal/settings"

	"github.com/sirupsen/logrus"
)

type edit struct {
	currency string
	amount   string
}

// State is constructed once at startup, started with Start and torn down with Close.
// The resident snapshot is replaced wholesale and never mutated in place.
type State struct {
	settings  *settings.Store
	store     adapters.RateStore
	fetcher   adapters.RateFetcher
	locator   adapters.LocationClient
	validator *rate.CurrencyValidator
	metrics   *metrics.Metrics

	mu           sync.RWMutex
	snapshot     domain.RateSnapshot
	online       bool
	loading      int
	lastEdit     *edit
	values       map[string]string
	onAutoUpdate func(ctx context.Context) error

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Start loads stored rates, kicks off location detection in the background and
// performs the initial refresh. Failures are logged; the state stays usable.
func (s *State) Start(ctx context.Context) {
	bgCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	s.loadStored(ctx, false)

	if s.locator != nil {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.DetectLocation(bgCtx)
		}()
	}

	if err := s.Refresh(ctx, false); err != nil {
		logrus.WithError(err).Warn("initial rates refresh failed")
	}
}

// Close stops background work started by Start.
func (s *State) Close() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}

// OnAutoUpdateChange registers the hook run after the auto update flag changes.
func (s *State) OnAutoUpdateChange(fn func(ctx context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onAutoUpdate = fn
}

// Refresh fetches the latest rates for the main currency. Unless force is set,
// nothing is fetched while the state believes itself offline. On failure the
// state goes offline and falls back to the stored snapshot.
func (s *State) Refresh(ctx context.Context, force bool) error {
	if !s.isOnline() && !force {
		logrus.Debug("offline, skipping rates refresh")
		if !s.HasRates() {
			s.loadStored(ctx, false)
		}
		return nil
	}

	base := s.settings.MainCurrency(ctx)
	s.setLoading(1)
	snapshot, err := s.fetcher.FetchLatest(ctx, base)
	s.setLoading(-1)

	if err != nil {
		s.setOnline(false)
		if s.loadStored(ctx, true) {
			s.Recompute(ctx)
		}
		if !s.HasRates() {
			logrus.WithField("base", base).Warn("no exchange rates available, neither live nor stored")
		}
		return err
	}

	s.mu.Lock()
	s.snapshot = snapshot
	s.mu.Unlock()
	s.setOnline(true)
	s.Recompute(ctx)
	return nil
}

// EnsureRatesAvailable makes a rate table resident: memory first, then the
// stored snapshot, then a forced fetch. It never recurses into a conversion.
func (s *State) EnsureRatesAvailable(ctx context.Context) error {
	if s.HasRates() {
		return nil
	}
	if s.loadStored(ctx, false) {
		return nil
	}

	base := s.settings.MainCurrency(ctx)
	s.setLoading(1)
	snapshot, err := s.fetcher.FetchLatest(ctx, base)
	s.setLoading(-1)
	if err != nil {
		s.setOnline(false)
		return fmt.Errorf("%w: %w", domain.ErrNoRates, err)
	}

	s.mu.Lock()
	s.snapshot = snapshot
	s.mu.Unlock()
	s.setOnline(true)
	return nil
}

// SetOnline records a connectivity-online signal and refetches immediately.
func (s *State) SetOnline(ctx context.Context) error {
	s.setOnline(true)
	logrus.Info("online signal received, refreshing rates")
	return s.Refresh(ctx, true)
}

// SetOffline records a connectivity-offline signal. Stored rates are loaded
// when nothing is resident.
func (s *State) SetOffline(ctx context.Context) {
	s.setOnline(false)
	logrus.Info("offline signal received")
	if !s.HasRates() && s.loadStored(ctx, false) {
		s.Recompute(ctx)
	}
}

// DetectLocation asks the location service for the local currency and stores
// it. On failure the previously stored location currency is kept.
func (s *State) DetectLocation(ctx context.Context) string {
	if s.locator == nil {
		return s.settings.LocationCurrency(ctx)
	}
	code, err := s.locator.DetectCurrency(ctx)
	if err == nil {
		err = rate.ValidateFormat(code)
	}
	if err != nil {
		logrus.WithError(err).Warn("location detection failed, keeping stored location currency")
		return s.settings.LocationCurrency(ctx)
	}
	_ = s.settings.SetLocationCurrency(ctx, code)
	logrus.WithField("currency", code).Info("location currency detected")
	return code
}

func (s *State) Connectivity() domain.ConnectivityState {
	if s.isOnline() {
		return domain.Online
	}
	return domain.Offline
}

func (s *State) HasRates() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.snapshot.Table.IsEmpty()
}

// Snapshot returns the resident snapshot.
func (s *State) Snapshot() domain.RateSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// loadStored makes the stored snapshot resident when nothing is resident or,
// with onlyNewer, when the stored snapshot is newer than the resident one.
func (s *State) loadStored(ctx context.Context, onlyNewer bool) bool {
	stored, ok := s.store.Load(ctx)
	if !ok {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.snapshot.Table.IsEmpty() && (!onlyNewer || !stored.Timestamp.After(s.snapshot.Timestamp)) {
		return false
	}
	s.snapshot = stored
	logrus.WithField("count", stored.Table.Len()).Info("stored rates loaded")
	return true
}

func (s *State) isOnline() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.online
}

func (s *State) setOnline(online bool) {
	s.mu.Lock()
	s.online = online
	s.mu.Unlock()
	s.metrics.SetOnline(online)
}

func (s *State) setLoading(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading += delta
}

// New builds a State that believes itself online. locator and m may be nil.
func New(
	settingsStore *settings.Store,
	store adapters.RateStore,
	fetcher adapters.RateFetcher,
	locator adapters.LocationClient,
	validator *rate.CurrencyValidator,
	m *metrics.Metrics,
) *State {
	m.SetOnline(true)
	return &State{
		settings:  settingsStore,
		store:     store,
		fetcher:   fetcher,
		locator:   locator,
		validator: validator,
		metrics:   m,
		online:    true,
		values:    make(map[string]string),
	}
}
