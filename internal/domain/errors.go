package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNetworkUnavailable = errors.New("network unavailable")
	ErrBadStatus          = errors.New("bad response status")
	ErrEmptyPayload       = errors.New("empty rates payload")
	ErrRateNotFound       = errors.New("rate not found")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrInvalidInput       = errors.New("invalid amount")
	ErrNoRates            = errors.New("no exchange rates available")

	ErrCodeRequired    = errors.New("currency code is required")
	ErrCodeMalformed   = errors.New("currency code must be three uppercase letters")
	ErrCodeUnsupported = errors.New("currency not supported")
)

// FetchError describes a failed rates fetch. Kind is one of ErrNetworkUnavailable,
// ErrBadStatus or ErrEmptyPayload.
type FetchError struct {
	Kind       error
	Base       string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("fetch rates for %q: %s", e.Base, e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Is(target error) bool { return target == e.Kind }

func (e *FetchError) Unwrap() error { return e.Err }

type RateNotFoundError struct {
	Currency string
}

func (e *RateNotFoundError) Error() string {
	return fmt.Sprintf("rate not found for currency %q", e.Currency)
}

func (e *RateNotFoundError) Is(target error) bool { return target == ErrRateNotFound }
