// Package gateway defines the persistence contract consumed by entity form
// controllers and a metrics decorator shared by every implementation.
// Concrete stores live in the memory, sqlgw and httpgw subpackages.
package gateway

import (
	"context"
	"errors"

	"github.com/goliatone/go-entityform/pkg/model"
)

// ErrNotFound is returned when no record matches the requested id.
var ErrNotFound = errors.New("gateway: not found")

// IDField is the record key carrying the entity identifier.
const IDField = "id"

// Gateway is the create/read/update contract for one collection.
type Gateway interface {
	Create(ctx context.Context, values model.Record) (string, error)
	Update(ctx context.Context, id string, values model.Record) error
	GetByID(ctx context.Context, id string) (model.Record, error)
}

// Collection is a Gateway that can also enumerate its records, which lookup
// dialogs need.
type Collection interface {
	Gateway
	List(ctx context.Context) ([]model.Record, error)
}

// Store resolves collections by their explicit name.
type Store interface {
	Collection(name string) Collection
}

// StoreFunc adapts a function into a Store.
type StoreFunc func(name string) Collection

// Collection calls the underlying function.
func (fn StoreFunc) Collection(name string) Collection {
	return fn(name)
}

// WithID returns a copy of values with the identifier set.
func WithID(values model.Record, id string) model.Record {
	out := values.Clone()
	if out == nil {
		out = make(model.Record, 1)
	}
	out[IDField] = id
	return out
}
