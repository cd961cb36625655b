// Package memory provides an in-process gateway.Store used by tests, demos and
// the CLI when no database is configured.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-entityform/pkg/gateway"
	"github.com/goliatone/go-entityform/pkg/model"
)

// Store keeps records per collection in memory. Identifiers are random UUIDs
// unless overridden with WithIDGenerator.
type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]model.Record
	newID       func() string
}

// Option configures the store.
type Option func(*Store)

// WithIDGenerator overrides identifier generation.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

var _ gateway.Store = (*Store)(nil)

// NewStore constructs an empty store.
func NewStore(options ...Option) *Store {
	s := &Store{
		collections: make(map[string]map[string]model.Record),
		newID:       uuid.NewString,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Collection returns a handle bound to name.
func (s *Store) Collection(name string) gateway.Collection {
	return &collection{store: s, name: name}
}

// Seed inserts records with their own "id" field, replacing existing ones.
func (s *Store) Seed(name string, records ...model.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	bucket := s.bucket(name)
	for _, record := range records {
		id, _ := record[gateway.IDField].(string)
		if id == "" {
			return fmt.Errorf("memory: seed %s: record without id", name)
		}
		bucket[id] = record.Clone()
	}
	return nil
}

func (s *Store) bucket(name string) map[string]model.Record {
	bucket, ok := s.collections[name]
	if !ok {
		bucket = make(map[string]model.Record)
		s.collections[name] = bucket
	}
	return bucket
}

type collection struct {
	store *Store
	name  string
}

func (c *collection) Create(ctx context.Context, values model.Record) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	id := c.store.newID()
	c.store.bucket(c.name)[id] = gateway.WithID(values, id)
	return id, nil
}

func (c *collection) Update(ctx context.Context, id string, values model.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	bucket := c.store.bucket(c.name)
	if _, ok := bucket[id]; !ok {
		return fmt.Errorf("memory: update %s/%s: %w", c.name, id, gateway.ErrNotFound)
	}
	bucket[id] = gateway.WithID(values, id)
	return nil
}

func (c *collection) GetByID(ctx context.Context, id string) (model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()
	record, ok := c.store.collections[c.name][id]
	if !ok {
		return nil, fmt.Errorf("memory: get %s/%s: %w", c.name, id, gateway.ErrNotFound)
	}
	return record.Clone(), nil
}

func (c *collection) List(ctx context.Context) ([]model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()
	bucket := c.store.collections[c.name]
	ids := make([]string, 0, len(bucket))
	for id := range bucket {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]model.Record, 0, len(ids))
	for _, id := range ids {
		out = append(out, bucket[id].Clone())
	}
	return out, nil
}
