// Package store defines where allocation entries are persisted between runs.
package store

import (
	"context"

	"github.com/idilsaglam/sliders/internal/model"
)

// Store loads and saves the ordered entry list. Load on an empty store
// returns an empty slice, not an error.
type Store interface {
	Load(ctx context.Context) ([]model.Entry, error)
	Save(ctx context.Context, entries []model.Entry) error
	Close() error
}
