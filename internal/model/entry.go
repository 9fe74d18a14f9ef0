package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrMalformed marks a record that lacks one of its required fields.
var ErrMalformed = errors.New("malformed allocation record")

// Entry is one named allocation. ID is stable for the lifetime of the entry.
type Entry struct {
	ID    int64
	Name  string
	Value decimal.Decimal
}

// SnapshotEntry is the exportable projection of an Entry: identity and value only.
type SnapshotEntry struct {
	ID    int64
	Value decimal.Decimal
}

type entryJSON struct {
	ID    *int64       `json:"id"`
	Name  *string      `json:"name"`
	Value *json.Number `json:"value"`
}

type snapshotJSON struct {
	ID    *int64       `json:"id"`
	Value *json.Number `json:"value"`
}

// MarshalJSON writes the value as a bare JSON number.
func (e Entry) MarshalJSON() ([]byte, error) {
	id, name, v := e.ID, e.Name, json.Number(e.Value.String())
	return json.Marshal(entryJSON{ID: &id, Name: &name, Value: &v})
}

// UnmarshalJSON refuses records missing id, name or value. Identity is never defaulted.
func (e *Entry) UnmarshalJSON(b []byte) error {
	var raw entryJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	var missing []string
	if raw.ID == nil {
		missing = append(missing, "id")
	}
	if raw.Name == nil {
		missing = append(missing, "name")
	}
	if raw.Value == nil {
		missing = append(missing, "value")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrMalformed, strings.Join(missing, ", "))
	}
	v, err := decimal.NewFromString(raw.Value.String())
	if err != nil {
		return fmt.Errorf("%w: value %q: %v", ErrMalformed, raw.Value.String(), err)
	}
	*e = Entry{ID: *raw.ID, Name: *raw.Name, Value: v}
	return nil
}

// MarshalJSON writes exactly the two keys id and value.
func (s SnapshotEntry) MarshalJSON() ([]byte, error) {
	id, v := s.ID, json.Number(s.Value.String())
	return json.Marshal(snapshotJSON{ID: &id, Value: &v})
}

func (s *SnapshotEntry) UnmarshalJSON(b []byte) error {
	var raw snapshotJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw.ID == nil || raw.Value == nil {
		return fmt.Errorf("%w: snapshot record needs id and value", ErrMalformed)
	}
	v, err := decimal.NewFromString(raw.Value.String())
	if err != nil {
		return fmt.Errorf("%w: value %q: %v", ErrMalformed, raw.Value.String(), err)
	}
	*s = SnapshotEntry{ID: *raw.ID, Value: v}
	return nil
}

// Snapshot strips display fields from entries, keeping order.
func Snapshot(entries []Entry) []SnapshotEntry {
	out := make([]SnapshotEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, SnapshotEntry{ID: e.ID, Value: e.Value})
	}
	return out
}

// MergeNames rebuilds full entries from a snapshot and an id→name lookup.
func MergeNames(snap []SnapshotEntry, names map[int64]string) ([]Entry, error) {
	out := make([]Entry, 0, len(snap))
	for _, s := range snap {
		name, ok := names[s.ID]
		if !ok {
			return nil, fmt.Errorf("%w: no name for id %d", ErrMalformed, s.ID)
		}
		out = append(out, Entry{ID: s.ID, Name: name, Value: s.Value})
	}
	return out, nil
}
