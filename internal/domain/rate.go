package domain

import (
	"maps"
	"time"
)

// RateTable holds rates relative to Base: 1 unit of Base = Rates[code] units of code.
type RateTable struct {
	Base  string
	Rates map[string]float64
}

// Rate returns the multiplier for code. The base itself resolves to 1 even when
// the remote source leaves it out of the mapping.
func (t RateTable) Rate(code string) (float64, bool) {
	if v, ok := t.Rates[code]; ok && v > 0 {
		return v, true
	}
	if code != "" && code == t.Base {
		return 1, true
	}
	return 0, false
}

func (t RateTable) Len() int { return len(t.Rates) }

func (t RateTable) IsEmpty() bool { return len(t.Rates) == 0 }

// Clone returns a copy that shares no state with t.
func (t RateTable) Clone() RateTable {
	return RateTable{Base: t.Base, Rates: maps.Clone(t.Rates)}
}

// RateSnapshot is an immutable capture of a RateTable. A newer snapshot replaces
// the previous one as a whole.
type RateSnapshot struct {
	Table     RateTable
	Timestamp time.Time
}

type ConnectivityState string

const (
	Online  ConnectivityState = "online"
	Offline ConnectivityState = "offline"
)
