package rate

import (
	"context"
	"time"

	"fxconvert/internal/domain"
	"fxconvert/internal/settings"

	"github.com/sirupsen/logrus"
)

type storedSnapshot struct {
	Rates     map[string]float64 `json:"rates"`
	Base      string             `json:"base"`
	Timestamp time.Time          `json:"timestamp"`
}

// Store keeps the most recent rate snapshot in the settings store.
// Only the latest snapshot is kept.
type Store struct {
	settings *settings.Store
}

func (s *Store) Save(ctx context.Context, snapshot domain.RateSnapshot) error {
	err := s.settings.Put(ctx, settings.KeyRates, storedSnapshot{
		Rates:     snapshot.Table.Rates,
		Base:      snapshot.Table.Base,
		Timestamp: snapshot.Timestamp,
	})
	if err != nil {
		return err
	}
	// lastUpdateTime mirrors the snapshot and is display-only.
	_ = s.settings.SetLastUpdateTime(ctx, snapshot.Timestamp)
	return nil
}

// Load returns the stored snapshot. Missing or corrupt data yields ok=false.
func (s *Store) Load(ctx context.Context) (domain.RateSnapshot, bool) {
	var stored storedSnapshot
	if !s.settings.Get(ctx, settings.KeyRates, &stored) {
		return domain.RateSnapshot{}, false
	}
	if len(stored.Rates) == 0 {
		logrus.Warn("stored rate snapshot has no rates, ignoring it")
		return domain.RateSnapshot{}, false
	}
	for code, v := range stored.Rates {
		if !(v > 0) {
			logrus.WithFields(logrus.Fields{"currency": code, "rate": v}).Warn("stored rate snapshot is corrupt, ignoring it")
			return domain.RateSnapshot{}, false
		}
	}

	return domain.RateSnapshot{
		Table:     domain.RateTable{Base: stored.Base, Rates: stored.Rates},
		Timestamp: stored.Timestamp,
	}, true
}

func NewStore(settingsStore *settings.Store) *Store {
	return &Store{settings: settingsStore}
}
