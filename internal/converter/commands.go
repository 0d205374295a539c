package converter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fxconvert/internal/conversion"
	"fxconvert/internal/domain"
)

var ErrUntrackedCurrency = errors.New("currency is not a tracked field")

type Role string

const (
	RoleMain       Role = "main"
	RoleLocation   Role = "location"
	RoleAdditional Role = "additional"
)

// EditCommand is the user typing Amount into the field of Currency.
type EditCommand struct {
	Role     Role   `json:"role,omitempty"`
	Currency string `json:"currency"`
	Amount   string `json:"amount"`
}

type FieldAction string

const (
	ActionSet   FieldAction = "set"
	ActionClear FieldAction = "clear"
	ActionKeep  FieldAction = "keep"
)

type FieldUpdate struct {
	Role     Role        `json:"role"`
	Currency string      `json:"currency"`
	Action   FieldAction `json:"action"`
	Value    string      `json:"value"`
	Error    string      `json:"error,omitempty"`
}

// UIUpdate is the instruction set produced by a command.
type UIUpdate struct {
	Source  string        `json:"source,omitempty"`
	Fields  []FieldUpdate `json:"fields"`
	Status  Status        `json:"status"`
	Message string        `json:"message,omitempty"`
}

type Field struct {
	Role     Role   `json:"role"`
	Currency string `json:"currency"`
	Name     string `json:"name"`
	Value    string `json:"value"`
}

type View struct {
	Fields []Field `json:"fields"`
	Status Status  `json:"status"`
}

type Status struct {
	// State is loading, online or offline.
	State string `json:"state"`
	// Label is live, stored, unavailable or loading.
	Label      string     `json:"label"`
	HasRates   bool       `json:"has_rates"`
	RatesCount int        `json:"rates_count"`
	Base       string     `json:"base,omitempty"`
	LastUpdate *time.Time `json:"last_update,omitempty"`
}

// Edit makes cmd's field the source and recomputes every other tracked field
// from it. Invalid amounts clear the derived fields; a missing rate leaves
// only that field untouched.
func (s *State) Edit(ctx context.Context, cmd EditCommand) (UIUpdate, error) {
	code := strings.ToUpper(strings.TrimSpace(cmd.Currency))
	fields := s.trackedFields(ctx)
	src, ok := findField(fields, code)
	if !ok || (cmd.Role != "" && cmd.Role != src.Role) {
		return UIUpdate{}, fmt.Errorf("%w: %s", ErrUntrackedCurrency, code)
	}

	e := &edit{currency: code, amount: cmd.Amount}
	s.mu.Lock()
	s.lastEdit = e
	s.mu.Unlock()

	return s.compute(ctx, fields, e, true), nil
}

// Recompute replays the last edit against the resident table. Without a
// previous edit it reports the current fields unchanged.
func (s *State) Recompute(ctx context.Context) UIUpdate {
	fields := s.trackedFields(ctx)

	s.mu.RLock()
	e := s.lastEdit
	s.mu.RUnlock()
	if e == nil {
		return s.keepAll(ctx, fields)
	}
	if _, ok := findField(fields, e.currency); !ok {
		s.mu.Lock()
		if s.lastEdit == e {
			s.lastEdit = nil
		}
		s.mu.Unlock()
		return s.keepAll(ctx, fields)
	}
	return s.compute(ctx, fields, e, false)
}

func (s *State) compute(ctx context.Context, fields []Field, e *edit, ensure bool) UIUpdate {
	amount, err := conversion.ParseAmount(e.amount)
	if err != nil {
		s.metrics.ObserveConversion("cleared")
		return s.clearDerived(ctx, fields, e, "")
	}

	if ensure {
		if err = s.EnsureRatesAvailable(ctx); err != nil {
			s.metrics.ObserveConversion("no_rates")
			return s.clearDerived(ctx, fields, e, domain.ErrNoRates.Error())
		}
	} else if !s.HasRates() {
		return s.clearDerived(ctx, fields, e, domain.ErrNoRates.Error())
	}

	table := s.Snapshot().Table
	targets := make([]string, 0, len(fields))
	for _, f := range fields {
		if f.Currency != e.currency {
			targets = append(targets, f.Currency)
		}
	}
	results := conversion.ConvertToAll(amount, e.currency, targets, table)

	upd := UIUpdate{Source: e.currency, Fields: make([]FieldUpdate, 0, len(fields))}
	s.mu.Lock()
	stale := s.lastEdit != e
	for _, f := range fields {
		fu := FieldUpdate{Role: f.Role, Currency: f.Currency}
		switch res, ok := results[f.Currency]; {
		case !ok:
			fu.Action, fu.Value = ActionKeep, e.amount
		case res.Err != nil:
			fu.Action, fu.Value, fu.Error = ActionKeep, s.values[f.Currency], res.Err.Error()
		default:
			fu.Action, fu.Value = ActionSet, conversion.Format(res.Value)
		}
		if !stale {
			s.values[f.Currency] = fu.Value
		}
		upd.Fields = append(upd.Fields, fu)
	}
	s.mu.Unlock()

	s.metrics.ObserveConversion("converted")
	upd.Status = s.Status(ctx)
	return upd
}

func (s *State) clearDerived(ctx context.Context, fields []Field, e *edit, message string) UIUpdate {
	upd := UIUpdate{Source: e.currency, Fields: make([]FieldUpdate, 0, len(fields)), Message: message}
	s.mu.Lock()
	stale := s.lastEdit != e
	for _, f := range fields {
		fu := FieldUpdate{Role: f.Role, Currency: f.Currency, Action: ActionClear}
		if f.Currency == e.currency {
			fu.Action, fu.Value = ActionKeep, e.amount
		}
		if !stale {
			s.values[f.Currency] = fu.Value
		}
		upd.Fields = append(upd.Fields, fu)
	}
	s.mu.Unlock()

	upd.Status = s.Status(ctx)
	return upd
}

func (s *State) keepAll(ctx context.Context, fields []Field) UIUpdate {
	upd := UIUpdate{Fields: make([]FieldUpdate, 0, len(fields))}
	s.mu.RLock()
	for _, f := range fields {
		upd.Fields = append(upd.Fields, FieldUpdate{Role: f.Role, Currency: f.Currency, Action: ActionKeep, Value: s.values[f.Currency]})
	}
	s.mu.RUnlock()
	upd.Status = s.Status(ctx)
	return upd
}

// View returns the tracked fields with their current values.
func (s *State) View(ctx context.Context) View {
	fields := s.trackedFields(ctx)
	s.mu.RLock()
	for i := range fields {
		fields[i].Value = s.values[fields[i].Currency]
	}
	s.mu.RUnlock()
	return View{Fields: fields, Status: s.Status(ctx)}
}

func (s *State) Status(ctx context.Context) Status {
	s.mu.RLock()
	st := Status{
		HasRates:   !s.snapshot.Table.IsEmpty(),
		RatesCount: s.snapshot.Table.Len(),
		Base:       s.snapshot.Table.Base,
	}
	online, loading, ts := s.online, s.loading > 0, s.snapshot.Timestamp
	s.mu.RUnlock()

	switch {
	case loading:
		st.State, st.Label = "loading", "loading"
		return st
	case online:
		st.State = string(domain.Online)
	default:
		st.State = string(domain.Offline)
	}

	if online && st.HasRates {
		st.Label = "live"
		if !ts.IsZero() {
			st.LastUpdate = &ts
		}
		return st
	}
	st.Label = "unavailable"
	if st.HasRates {
		st.Label = "stored"
	}
	if stored, ok := s.settings.LastUpdateTime(ctx); ok {
		st.LastUpdate = &stored
	}
	return st
}

// trackedFields lists main, location (when set and distinct) and the visible
// additional currencies, in display order.
func (s *State) trackedFields(ctx context.Context) []Field {
	tracked := s.settings.Tracked(ctx)
	fields := []Field{newField(RoleMain, tracked.Main)}
	if tracked.Location != "" && tracked.Location != tracked.Main {
		fields = append(fields, newField(RoleLocation, tracked.Location))
	}
	for _, code := range tracked.VisibleAdditional() {
		fields = append(fields, newField(RoleAdditional, code))
	}
	return fields
}

func newField(role Role, code string) Field {
	f := Field{Role: role, Currency: code, Name: code}
	if c, ok := domain.LookupCurrency(code); ok {
		f.Name = c.Name
	}
	return f
}

func findField(fields []Field, code string) (Field, bool) {
	for _, f := range fields {
		if f.Currency == code {
			return f, true
		}
	}
	return Field{}, false
}
