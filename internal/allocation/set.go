// Package allocation distributes a bounded total across named entries.
//
// A Set keeps the sum of all entry values inside [Min, Max] at all times.
// Every value change is admitted or declined before it is applied, so the
// bound is never violated, not even transiently.
package allocation

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/idilsaglam/sliders/internal/model"
)

// Config holds the bounds of a set and the nudge granularity used by
// presentation code.
type Config struct {
	Min  decimal.Decimal
	Max  decimal.Decimal
	Step decimal.Decimal
}

// DefaultConfig is a 0..100 percentage budget moved in whole steps.
func DefaultConfig() Config {
	return Config{
		Min:  decimal.Zero,
		Max:  decimal.NewFromInt(100),
		Step: decimal.NewFromInt(1),
	}
}

func (c Config) validate() error {
	if c.Min.IsNegative() {
		return fmt.Errorf("%w: min %s is negative", ErrInvalidBounds, c.Min)
	}
	if c.Min.GreaterThan(c.Max) {
		return fmt.Errorf("%w: min %s exceeds max %s", ErrInvalidBounds, c.Min, c.Max)
	}
	if !c.Step.IsPositive() {
		return fmt.Errorf("%w: step %s must be positive", ErrInvalidBounds, c.Step)
	}
	return nil
}

// Result reports the outcome of SetValue.
type Result struct {
	Applied bool
	Total   decimal.Decimal
}

// Option tunes a Set at construction.
type Option func(*Set)

// WithLogger routes the set's debug output to l.
func WithLogger(l *zap.Logger) Option {
	return func(s *Set) {
		if l != nil {
			s.log = l
		}
	}
}

// Set is an ordered collection of allocation entries under one sum constraint.
// It is safe for concurrent use; each check-and-mutate runs under one lock.
type Set struct {
	mu        sync.Mutex
	notifyMu  sync.Mutex
	cfg       Config
	entries   []model.Entry
	remaining decimal.Decimal

	observers map[int]Observer
	nextObs   int

	// lastID only grows, so a removed id is never handed out again.
	lastID int64

	log *zap.Logger
}

// New builds a set from seed entries. Malformed seeds fail here rather than
// being patched with defaults.
func New(cfg Config, seed []model.Entry, opts ...Option) (*Set, error) {
	if err := cfg.validate(); err != nil {
		return nil, opErr("new", 0, err)
	}
	s := &Set{
		cfg:       cfg,
		entries:   make([]model.Entry, 0, len(seed)),
		observers: map[int]Observer{},
		log:       zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}

	seen := make(map[int64]struct{}, len(seed))
	for i, e := range seed {
		switch {
		case e.ID <= 0:
			return nil, opErr("new", 0, fmt.Errorf("%w: record %d has no id", ErrInvalidSeed, i))
		case strings.TrimSpace(e.Name) == "":
			return nil, opErr("new", e.ID, fmt.Errorf("%w: record %d has no name", ErrInvalidSeed, i))
		case e.Value.IsNegative():
			return nil, opErr("new", e.ID, fmt.Errorf("%w: negative value %s", ErrInvalidSeed, e.Value))
		}
		if _, dup := seen[e.ID]; dup {
			return nil, opErr("new", e.ID, fmt.Errorf("%w: %w", ErrInvalidSeed, ErrDuplicateID))
		}
		seen[e.ID] = struct{}{}
		s.entries = append(s.entries, e)
		s.lastID = max(s.lastID, e.ID)
	}

	t := s.total()
	if !s.inBounds(t) {
		return nil, opErr("new", 0, fmt.Errorf("%w: total %s outside [%s, %s]", ErrInvalidSeed, t, cfg.Min, cfg.Max))
	}
	s.remaining = cfg.Max.Sub(t)
	return s, nil
}

// FromSnapshot rebuilds a set from an exported snapshot plus display names.
func FromSnapshot(cfg Config, snap []model.SnapshotEntry, names map[int64]string, opts ...Option) (*Set, error) {
	seed, err := model.MergeNames(snap, names)
	if err != nil {
		return nil, opErr("from snapshot", 0, fmt.Errorf("%w: %w", ErrInvalidSeed, err))
	}
	return New(cfg, seed, opts...)
}

// ParseID turns a caller-supplied identifier into an entry id.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: id %q: %v", ErrInvalidEntry, s, err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("%w: id %d must be positive", ErrInvalidEntry, id)
	}
	return id, nil
}

// Subscribe registers o and returns a function that removes it.
func (s *Set) Subscribe(o Observer) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := s.nextObs
	s.nextObs++
	s.observers[key] = o
	return func() {
		s.mu.Lock()
		delete(s.observers, key)
		s.mu.Unlock()
	}
}

// Bounds returns the configuration the set was built with.
func (s *Set) Bounds() Config { return s.cfg }

// Total sums every entry's value and refreshes the cached remaining headroom.
func (s *Set) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.total()
	s.remaining = s.cfg.Max.Sub(t)
	return t
}

// Remaining is Max minus the total as of the last computation.
func (s *Set) Remaining() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining
}

func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Entries returns a copy of the entries in display order.
func (s *Set) Entries() []model.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Set) Entry(id int64) (model.Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return model.Entry{}, false
	}
	return s.entries[i], true
}

// Snapshot projects the set to id/value pairs in current order.
func (s *Set) Snapshot() []model.SnapshotEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.Snapshot(s.entries)
}

// CanSetTo reports whether replacing id's value with v keeps the total in
// bounds while every other entry stays put. Unknown ids and negative values
// are never admissible.
func (s *Set) CanSetTo(id int64, v decimal.Decimal) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	return s.canSetTo(i, v)
}

// MaxFeasibleValue is the largest value id can take with all other entries fixed.
func (s *Set) MaxFeasibleValue(id int64) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return decimal.Zero, opErr("max feasible", id, ErrUnknownEntry)
	}
	return s.maxFeasible(i), nil
}

// MinFeasibleValue is the smallest value id can take with all other entries
// fixed. It is zero unless Min is positive.
func (s *Set) MinFeasibleValue(id int64) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return decimal.Zero, opErr("min feasible", id, ErrUnknownEntry)
	}
	return s.minFeasible(i), nil
}

// Clamp returns the feasible value for id nearest to v.
func (s *Set) Clamp(id int64, v decimal.Decimal) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return decimal.Zero, opErr("clamp", id, ErrUnknownEntry)
	}
	lo, hi := s.minFeasible(i), s.maxFeasible(i)
	switch {
	case v.LessThan(lo):
		return lo, nil
	case v.GreaterThan(hi):
		return hi, nil
	}
	return v, nil
}

// SetValue commits v for id when admissible. A declined change is not an
// error: the entry is left untouched and Applied is false.
func (s *Set) SetValue(id int64, v decimal.Decimal) Result {
	s.lock()
	i := s.indexOf(id)
	if i < 0 || !s.canSetTo(i, v) {
		t := s.total()
		s.unlock()
		s.log.Debug("set value declined",
			zap.Int64("id", id), zap.String("value", v.String()), zap.String("total", t.String()))
		return Result{Applied: false, Total: t}
	}
	s.entries[i].Value = v
	e := s.entries[i]
	t := s.total()
	s.remaining = s.cfg.Max.Sub(t)
	s.log.Debug("set value", zap.Int64("id", id), zap.String("value", v.String()), zap.String("total", t.String()))
	s.notify(func(o Observer) { o.ValueChanged(e, t) })
	return Result{Applied: true, Total: t}
}

// AddEntry appends a zero-valued entry. An id of 0 asks the set to allocate one.
func (s *Set) AddEntry(name string, id int64) (model.Entry, error) {
	return s.insert(-1, name, id)
}

// InsertEntry places a zero-valued entry at position at, clamped to the
// current length.
func (s *Set) InsertEntry(at int, name string, id int64) (model.Entry, error) {
	return s.insert(max(at, 0), name, id)
}

// insert appends when at is negative. The position is resolved under the
// same lock as the commit.
func (s *Set) insert(at int, name string, id int64) (model.Entry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Entry{}, opErr("add", id, fmt.Errorf("%w: empty name", ErrInvalidEntry))
	}
	if id < 0 {
		return model.Entry{}, opErr("add", 0, fmt.Errorf("%w: negative id %d", ErrInvalidEntry, id))
	}

	s.lock()
	if id == 0 {
		id = s.nextID()
	} else if s.indexOf(id) >= 0 {
		s.unlock()
		return model.Entry{}, opErr("add", id, ErrDuplicateID)
	}
	if at < 0 || at > len(s.entries) {
		at = len(s.entries)
	}
	s.lastID = max(s.lastID, id)
	e := model.Entry{ID: id, Name: name, Value: decimal.Zero}
	s.entries = append(s.entries, model.Entry{})
	copy(s.entries[at+1:], s.entries[at:])
	s.entries[at] = e
	s.log.Debug("entry added", zap.Int64("id", id), zap.String("name", name), zap.Int("position", at))
	s.notify(func(o Observer) { o.EntryAdded(e) })
	return e, nil
}

// RemoveEntry drops id from the set. Unknown ids are a no-op. The entry's
// contribution is zeroed first, so a removal that would pull the total below
// Min is declined.
func (s *Set) RemoveEntry(id int64) (model.Entry, bool) {
	s.lock()
	i := s.indexOf(id)
	if i < 0 {
		s.unlock()
		return model.Entry{}, false
	}
	if !s.canSetTo(i, decimal.Zero) {
		s.unlock()
		s.log.Debug("remove declined", zap.Int64("id", id))
		return model.Entry{}, false
	}
	e := s.entries[i]
	s.entries[i].Value = decimal.Zero
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	s.remaining = s.cfg.Max.Sub(s.total())
	s.log.Debug("entry removed", zap.Int64("id", id))
	s.notify(func(o Observer) { o.EntryRemoved(e) })
	return e, true
}

// Rename changes the display name of id.
func (s *Set) Rename(id int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return opErr("rename", id, fmt.Errorf("%w: empty name", ErrInvalidEntry))
	}
	s.lock()
	i := s.indexOf(id)
	if i < 0 {
		s.unlock()
		return opErr("rename", id, ErrUnknownEntry)
	}
	s.entries[i].Name = name
	e := s.entries[i]
	s.notify(func(o Observer) { o.EntryRenamed(e) })
	return nil
}

// lock serializes writers on notifyMu before taking mu, so a writer never
// holds mu while it waits for the previous writer's observers.
func (s *Set) lock() {
	s.notifyMu.Lock()
	s.mu.Lock()
}

func (s *Set) unlock() {
	s.mu.Unlock()
	s.notifyMu.Unlock()
}

// notify must be called after lock. It releases mu before running observers,
// so they run in commit order while the set stays readable, then releases
// notifyMu. Observers must not mutate the set.
func (s *Set) notify(fn func(Observer)) {
	obs := make([]Observer, 0, len(s.observers))
	for k := 0; k < s.nextObs; k++ {
		if o, ok := s.observers[k]; ok {
			obs = append(obs, o)
		}
	}
	s.mu.Unlock()
	defer s.notifyMu.Unlock()
	for _, o := range obs {
		fn(o)
	}
}

func (s *Set) total() decimal.Decimal {
	t := decimal.Zero
	for _, e := range s.entries {
		t = t.Add(e.Value)
	}
	return t
}

func (s *Set) inBounds(t decimal.Decimal) bool {
	return t.GreaterThanOrEqual(s.cfg.Min) && t.LessThanOrEqual(s.cfg.Max)
}

func (s *Set) others(i int) decimal.Decimal {
	return s.total().Sub(s.entries[i].Value)
}

func (s *Set) canSetTo(i int, v decimal.Decimal) bool {
	if v.IsNegative() {
		return false
	}
	return s.inBounds(s.others(i).Add(v))
}

func (s *Set) maxFeasible(i int) decimal.Decimal {
	head := s.cfg.Max.Sub(s.others(i))
	if head.IsNegative() {
		return decimal.Zero
	}
	return head
}

func (s *Set) minFeasible(i int) decimal.Decimal {
	floor := s.cfg.Min.Sub(s.others(i))
	if floor.IsNegative() {
		return decimal.Zero
	}
	return floor
}

func (s *Set) indexOf(id int64) int {
	for i, e := range s.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (s *Set) nextID() int64 {
	return s.lastID + 1
}
