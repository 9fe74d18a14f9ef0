package allocation

import (
	"github.com/shopspring/decimal"

	"github.com/idilsaglam/sliders/internal/model"
)

// Observer receives change notifications after a mutation commits.
// Calls are synchronous and ordered by commit. An observer may read from the
// set but must not mutate it from inside a callback.
type Observer interface {
	EntryAdded(e model.Entry)
	EntryRemoved(e model.Entry)
	ValueChanged(e model.Entry, total decimal.Decimal)
	EntryRenamed(e model.Entry)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	OnEntryAdded   func(e model.Entry)
	OnEntryRemoved func(e model.Entry)
	OnValueChanged func(e model.Entry, total decimal.Decimal)
	OnEntryRenamed func(e model.Entry)
}

func (f ObserverFuncs) EntryAdded(e model.Entry) {
	if f.OnEntryAdded != nil {
		f.OnEntryAdded(e)
	}
}

func (f ObserverFuncs) EntryRemoved(e model.Entry) {
	if f.OnEntryRemoved != nil {
		f.OnEntryRemoved(e)
	}
}

func (f ObserverFuncs) ValueChanged(e model.Entry, total decimal.Decimal) {
	if f.OnValueChanged != nil {
		f.OnValueChanged(e, total)
	}
}

func (f ObserverFuncs) EntryRenamed(e model.Entry) {
	if f.OnEntryRenamed != nil {
		f.OnEntryRenamed(e)
	}
}

var _ Observer = ObserverFuncs{}
