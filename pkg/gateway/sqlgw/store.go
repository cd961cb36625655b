// Package sqlgw persists entity records as JSON payloads in a single SQL table
// keyed by (collection, id). SQLite (modernc.org/sqlite) and Postgres (pgx
// stdlib driver) are supported.
package sqlgw

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"             // pure go sqlite driver

	"github.com/goliatone/go-entityform/pkg/gateway"
	"github.com/goliatone/go-entityform/pkg/model"
)

// Dialect captures the SQL differences between the supported drivers.
type Dialect struct {
	Driver      string
	PayloadType string
	placeholder func(n int) string
}

var (
	// SQLite stores payloads as TEXT and uses ? placeholders.
	SQLite = Dialect{
		Driver:      "sqlite",
		PayloadType: "TEXT",
		placeholder: func(int) string { return "?" },
	}
	// Postgres stores payloads as JSONB and uses $n placeholders.
	Postgres = Dialect{
		Driver:      "pgx",
		PayloadType: "JSONB",
		placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
	}
)

// DialectFor maps a configuration name onto a dialect.
func DialectFor(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	default:
		return Dialect{}, fmt.Errorf("sqlgw: unsupported dialect %q", name)
	}
}

func (d Dialect) bind(query string) string {
	var out strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			out.WriteString(d.placeholder(n))
			continue
		}
		out.WriteRune(r)
	}
	return out.String()
}

// Store is a gateway.Store backed by database/sql.
type Store struct {
	db      *sql.DB
	dialect Dialect
	newID   func() string
}

var _ gateway.Store = (*Store)(nil)

// Open connects to dsn with the dialect's driver and ensures the entities
// table exists.
func Open(ctx context.Context, dialect Dialect, dsn string) (*Store, error) {
	db, err := sql.Open(dialect.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlgw: open %s: %w", dialect.Driver, err)
	}
	if dialect.Driver == SQLite.Driver {
		db.SetMaxOpenConns(1)
	}
	store, err := New(ctx, db, dialect)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// New wraps an existing connection pool and ensures the schema.
func New(ctx context.Context, db *sql.DB, dialect Dialect) (*Store, error) {
	if db == nil {
		return nil, errors.New("sqlgw: db is required")
	}
	s := &Store{db: db, dialect: dialect, newID: uuid.NewString}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS entities (
		collection TEXT NOT NULL,
		id TEXT NOT NULL,
		payload %s NOT NULL,
		PRIMARY KEY (collection, id)
	)`, s.dialect.PayloadType)
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("sqlgw: create entities table: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Collection returns a handle bound to name.
func (s *Store) Collection(name string) gateway.Collection {
	return &collection{store: s, name: name}
}

type collection struct {
	store *Store
	name  string
}

func (c *collection) Create(ctx context.Context, values model.Record) (string, error) {
	id := c.store.newID()
	payload, err := json.Marshal(gateway.WithID(values, id))
	if err != nil {
		return "", fmt.Errorf("sqlgw: encode %s: %w", c.name, err)
	}
	query := c.store.dialect.bind(`INSERT INTO entities (collection, id, payload) VALUES (?, ?, ?)`)
	if _, err := c.store.db.ExecContext(ctx, query, c.name, id, string(payload)); err != nil {
		return "", fmt.Errorf("sqlgw: insert %s: %w", c.name, err)
	}
	return id, nil
}

func (c *collection) Update(ctx context.Context, id string, values model.Record) error {
	payload, err := json.Marshal(gateway.WithID(values, id))
	if err != nil {
		return fmt.Errorf("sqlgw: encode %s/%s: %w", c.name, id, err)
	}
	query := c.store.dialect.bind(`UPDATE entities SET payload = ? WHERE collection = ? AND id = ?`)
	res, err := c.store.db.ExecContext(ctx, query, string(payload), c.name, id)
	if err != nil {
		return fmt.Errorf("sqlgw: update %s/%s: %w", c.name, id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlgw: update %s/%s: %w", c.name, id, err)
	}
	if affected == 0 {
		return fmt.Errorf("sqlgw: update %s/%s: %w", c.name, id, gateway.ErrNotFound)
	}
	return nil
}

func (c *collection) GetByID(ctx context.Context, id string) (model.Record, error) {
	query := c.store.dialect.bind(`SELECT payload FROM entities WHERE collection = ? AND id = ?`)
	var payload []byte
	err := c.store.db.QueryRowContext(ctx, query, c.name, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sqlgw: get %s/%s: %w", c.name, id, gateway.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlgw: get %s/%s: %w", c.name, id, err)
	}
	return decode(payload)
}

func (c *collection) List(ctx context.Context) ([]model.Record, error) {
	query := c.store.dialect.bind(`SELECT payload FROM entities WHERE collection = ? ORDER BY id`)
	rows, err := c.store.db.QueryContext(ctx, query, c.name)
	if err != nil {
		return nil, fmt.Errorf("sqlgw: list %s: %w", c.name, err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Record
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("sqlgw: scan %s: %w", c.name, err)
		}
		record, err := decode(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlgw: list %s: %w", c.name, err)
	}
	return out, nil
}

func decode(payload []byte) (model.Record, error) {
	var record model.Record
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("sqlgw: decode payload: %w", err)
	}
	return record, nil
}
