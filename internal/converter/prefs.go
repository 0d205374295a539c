package converter

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"fxconvert/internal/rate"

	"github.com/sirupsen/logrus"
)

type Settings struct {
	MainCurrency         string   `json:"main_currency"`
	LocationCurrency     string   `json:"location_currency"`
	AdditionalCurrencies []string `json:"additional_currencies"`
	AutoUpdate           bool     `json:"auto_update"`
	DarkMode             bool     `json:"dark_mode"`
}

// SettingsPatch is a partial update; nil fields are left as they are.
type SettingsPatch struct {
	MainCurrency         *string   `json:"main_currency,omitempty"`
	LocationCurrency     *string   `json:"location_currency,omitempty"`
	AdditionalCurrencies *[]string `json:"additional_currencies,omitempty"`
	AutoUpdate           *bool     `json:"auto_update,omitempty"`
	DarkMode             *bool     `json:"dark_mode,omitempty"`
}

func (s *State) Settings(ctx context.Context) Settings {
	return Settings{
		MainCurrency:         s.settings.MainCurrency(ctx),
		LocationCurrency:     s.settings.LocationCurrency(ctx),
		AdditionalCurrencies: s.settings.AdditionalCurrencies(ctx),
		AutoUpdate:           s.settings.AutoUpdate(ctx),
		DarkMode:             s.settings.DarkMode(ctx),
	}
}

// UpdateSettings validates the whole patch before storing any of it. A new main
// currency triggers a forced refresh for the new base; a changed auto update
// flag re-arms the refresh timer.
func (s *State) UpdateSettings(ctx context.Context, p SettingsPatch) (Settings, error) {
	if err := s.normalize(&p); err != nil {
		return Settings{}, err
	}
	before := s.Settings(ctx)

	if p.MainCurrency != nil {
		if err := s.settings.SetMainCurrency(ctx, *p.MainCurrency); err != nil {
			return Settings{}, err
		}
	}
	if p.LocationCurrency != nil {
		if err := s.settings.SetLocationCurrency(ctx, *p.LocationCurrency); err != nil {
			return Settings{}, err
		}
	}
	if p.AdditionalCurrencies != nil {
		if err := s.settings.SetAdditionalCurrencies(ctx, *p.AdditionalCurrencies); err != nil {
			return Settings{}, err
		}
	}
	if p.AutoUpdate != nil {
		if err := s.settings.SetAutoUpdate(ctx, *p.AutoUpdate); err != nil {
			return Settings{}, err
		}
	}
	if p.DarkMode != nil {
		if err := s.settings.SetDarkMode(ctx, *p.DarkMode); err != nil {
			return Settings{}, err
		}
	}

	after := s.Settings(ctx)
	s.pruneValues(ctx)

	if after.MainCurrency != before.MainCurrency {
		logrus.WithFields(logrus.Fields{"from": before.MainCurrency, "to": after.MainCurrency}).Info("main currency changed, refreshing rates")
		if err := s.Refresh(ctx, true); err != nil {
			logrus.WithError(err).Warn("rates refresh after main currency change failed")
		}
	} else {
		s.Recompute(ctx)
	}

	if after.AutoUpdate != before.AutoUpdate {
		s.mu.RLock()
		hook := s.onAutoUpdate
		s.mu.RUnlock()
		if hook != nil {
			if err := hook(ctx); err != nil {
				logrus.WithError(err).Error("failed to re-arm auto update")
			}
		}
	}
	return after, nil
}

func (s *State) normalize(p *SettingsPatch) error {
	if p.MainCurrency != nil {
		code := normalizeCode(*p.MainCurrency)
		if err := s.validator.ValidateCode(code); err != nil {
			return fmt.Errorf("main_currency: %w", err)
		}
		p.MainCurrency = &code
	}
	if p.LocationCurrency != nil {
		code := normalizeCode(*p.LocationCurrency)
		if code != "" {
			if err := rate.ValidateFormat(code); err != nil {
				return fmt.Errorf("location_currency: %w", err)
			}
		}
		p.LocationCurrency = &code
	}
	if p.AdditionalCurrencies != nil {
		codes := make([]string, 0, len(*p.AdditionalCurrencies))
		for _, c := range *p.AdditionalCurrencies {
			code := normalizeCode(c)
			if err := s.validator.ValidateCode(code); err != nil {
				return fmt.Errorf("additional_currencies: %w", err)
			}
			if !slices.Contains(codes, code) {
				codes = append(codes, code)
			}
		}
		p.AdditionalCurrencies = &codes
	}
	return nil
}

// pruneValues drops values of currencies that are no longer tracked.
func (s *State) pruneValues(ctx context.Context) {
	fields := s.trackedFields(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	for code := range s.values {
		if _, ok := findField(fields, code); !ok {
			delete(s.values, code)
		}
	}
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
