package lookup

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-entityform/pkg/gateway"
	"github.com/goliatone/go-entityform/pkg/model"
	"github.com/goliatone/go-entityform/pkg/prompt"
)

const (
	noneOption    = "(none)"
	pixelsPerCell = 8
)

// Terminal is a Dialog listing the records of a collection in a select
// prompt.
type Terminal struct {
	store    gateway.Store
	driver   prompt.Driver
	pageSize int
}

// TerminalOption configures the terminal dialog.
type TerminalOption func(*Terminal)

// WithDriver overrides the prompt driver.
func WithDriver(driver prompt.Driver) TerminalOption {
	return func(t *Terminal) {
		if driver != nil {
			t.driver = driver
		}
	}
}

// WithPageSize sets how many rows the select prompt shows at once.
func WithPageSize(n int) TerminalOption {
	return func(t *Terminal) {
		t.pageSize = n
	}
}

var _ Dialog = (*Terminal)(nil)

// NewTerminal creates a terminal dialog reading from store.
func NewTerminal(store gateway.Store, options ...TerminalOption) *Terminal {
	t := &Terminal{store: store, pageSize: 10}
	for _, opt := range options {
		if opt != nil {
			opt(t)
		}
	}
	if t.driver == nil {
		t.driver = prompt.NewSurvey(nil)
	}
	return t
}

// Open lists the collection and lets the user pick a row. Aborting or picking
// "(none)" closes without a selection.
func (t *Terminal) Open(ctx context.Context, cfg Config) (any, bool, error) {
	records, err := t.store.Collection(cfg.Collection).List(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("lookup: list %s: %w", cfg.Collection, err)
	}

	maxCells := 0
	if cfg.Width > 0 {
		maxCells = cfg.Width / pixelsPerCell
	}
	options := make([]string, 0, len(records)+1)
	for _, record := range records {
		options = append(options, truncate(FormatRow(record, cfg.Columns), maxCells))
	}
	options = append(options, noneOption)

	idx, err := t.driver.Select(ctx, prompt.SelectConfig{
		Message:  "Select " + cfg.Collection,
		Options:  options,
		PageSize: t.pageSize,
		Help:     columnHeader(cfg.Columns),
	})
	if errors.Is(err, prompt.ErrAborted) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if idx < 0 || idx >= len(records) {
		return nil, false, nil
	}
	return records[idx], true, nil
}

// FormatRow renders the configured columns of record separated by " | ".
// Without columns the display value is used.
func FormatRow(record model.Record, columns []Column) string {
	if len(columns) == 0 {
		return fmt.Sprint(DisplayValue(map[string]any(record)))
	}
	cells := make([]string, 0, len(columns))
	for _, column := range columns {
		value, ok := resolvePath(record, column.Path)
		if !ok || value == nil {
			cells = append(cells, "")
			continue
		}
		cells = append(cells, fmt.Sprint(value))
	}
	return strings.Join(cells, " | ")
}

func columnHeader(columns []Column) string {
	titles := make([]string, 0, len(columns))
	for _, column := range columns {
		title := column.Title
		if title == "" {
			title = column.Path
		}
		titles = append(titles, title)
	}
	return strings.Join(titles, " | ")
}

func resolvePath(record map[string]any, path string) (any, bool) {
	var current any = record
	for _, segment := range strings.Split(path, ".") {
		next, ok := fieldOf(current, segment)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

func truncate(text string, maxCells int) string {
	runes := []rune(text)
	if maxCells <= 0 || len(runes) <= maxCells {
		return text
	}
	if maxCells <= 1 {
		return string(runes[:maxCells])
	}
	return string(runes[:maxCells-1]) + "…"
}
