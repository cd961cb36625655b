// Package controller implements the entity form controller: the glue binding
// a model.Descriptor, a gateway.Gateway and a route.Source into a live form
// that either creates a new entity or edits the one named by the route.
//
// A Controller is created with New, started with Init and released with
// Dispose (or by cancelling the context passed to Init). Route events are
// consumed in emission order. Every new identifier starts a load on its own
// goroutine; loads are never cancelled, so when ids change quickly the
// snapshot reflects whichever load finishes last.
package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/untillpro/goutils/logger"

	"github.com/goliatone/go-entityform/pkg/form"
	"github.com/goliatone/go-entityform/pkg/gateway"
	"github.com/goliatone/go-entityform/pkg/i18n"
	"github.com/goliatone/go-entityform/pkg/lookup"
	"github.com/goliatone/go-entityform/pkg/media"
	"github.com/goliatone/go-entityform/pkg/model"
	"github.com/goliatone/go-entityform/pkg/route"
)

var (
	// ErrFormNotBuilt is returned by operations that need the form before
	// Init or CreateForm ran.
	ErrFormNotBuilt = errors.New("controller: form not built")
	// ErrGatewayMissing is returned when no gateway was supplied.
	ErrGatewayMissing = errors.New("controller: gateway not configured")
	// ErrDialogMissing is returned by OpenLookup when no dialog was supplied.
	ErrDialogMissing = errors.New("controller: lookup dialog not configured")
)

// Translation keys used by Subtitle.
const (
	KeyEdit      = "common.edit"
	KeyCreateNew = "common.create-new"
)

// DefaultTitleField is the snapshot property shown by Subtitle.
const DefaultTitleField = "name"

// Deps lists the collaborators of a controller. Descriptor and Gateway are
// required for anything useful; the others may be nil.
type Deps struct {
	Descriptor model.Descriptor
	Gateway    gateway.Gateway
	Route      route.Source
	Location   route.Location
	Dialog     lookup.Dialog
	Media      media.Matcher
	Translator i18n.Translator
}

// Option customises a Controller.
type Option func(*Controller)

// WithOnError registers fn for failures of loads started by route events.
// Such loads have no caller to return the error to.
func WithOnError(fn func(error)) Option {
	return func(c *Controller) {
		c.onError = fn
	}
}

// WithOnBreakpointChange registers fn for breakpoint flips.
func WithOnBreakpointChange(fn func(mobile bool)) Option {
	return func(c *Controller) {
		c.onBreakpoint = fn
	}
}

// WithTitleField sets the snapshot property used by Subtitle.
func WithTitleField(name string) Option {
	return func(c *Controller) {
		if name != "" {
			c.titleField = name
		}
	}
}

// Controller backs one create/edit screen.
type Controller struct {
	desc       model.Descriptor
	gateway    gateway.Gateway
	route      route.Source
	location   route.Location
	dialog     lookup.Dialog
	media      media.Matcher
	translator i18n.Translator

	onError      func(error)
	onBreakpoint func(bool)
	titleField   string

	mu     sync.Mutex
	id     string
	entity model.Record
	form   *form.Form
	mobile bool

	release     func()
	stopRelease func() bool
	disposeOnce sync.Once
	wg          sync.WaitGroup
}

// New creates a controller with a default-valued snapshot and registers the
// breakpoint listener. Call Dispose, or cancel the Init context, to release
// it.
func New(deps Deps, opts ...Option) *Controller {
	c := &Controller{
		desc:       deps.Descriptor,
		gateway:    deps.Gateway,
		route:      deps.Route,
		location:   deps.Location,
		dialog:     deps.Dialog,
		media:      deps.Media,
		translator: deps.Translator,
		titleField: DefaultTitleField,
		entity:     deps.Descriptor.NewRecord(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if c.media != nil {
		c.mobile = c.media.Matches()
		c.release = c.media.Listen(c.breakpointChanged)
	}
	return c
}

func (c *Controller) breakpointChanged(mobile bool) {
	c.mu.Lock()
	c.mobile = mobile
	c.mu.Unlock()
	if c.onBreakpoint != nil {
		c.onBreakpoint(mobile)
	}
}

// Init builds the form and starts consuming route events. The breakpoint
// listener is released when the ctx of the latest Init is done.
func (c *Controller) Init(ctx context.Context) {
	c.CreateForm()

	c.mu.Lock()
	if c.stopRelease != nil {
		c.stopRelease()
	}
	c.stopRelease = context.AfterFunc(ctx, c.Dispose)
	c.mu.Unlock()

	if c.route == nil {
		return
	}
	events := c.route.Params(ctx)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for params := range events {
			c.handleParams(ctx, params)
		}
	}()
}

func (c *Controller) handleParams(ctx context.Context, params route.Params) {
	id := params.ID()
	if id == "" {
		return
	}

	c.mu.Lock()
	if id == c.id {
		c.mu.Unlock()
		return
	}
	c.id = id
	c.mu.Unlock()

	logger.Verbose("controller:", c.desc.Collection, "bound to", id)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if err := c.LoadEntity(ctx, id); err != nil && c.onError != nil {
			c.onError(err)
		}
	}()
}

// CreateForm (re)builds the form from the descriptor. Values entered so far
// are discarded.
func (c *Controller) CreateForm() *form.Form {
	f := form.Build(c.desc)
	c.mu.Lock()
	c.form = f
	c.mu.Unlock()
	return f
}

// LoadEntity fetches id, merges the record into the snapshot and patches it
// into the form. It does not bind id. Failures leave the snapshot untouched.
func (c *Controller) LoadEntity(ctx context.Context, id string) error {
	if c.gateway == nil {
		return ErrGatewayMissing
	}
	record, err := c.gateway.GetByID(ctx, id)
	if err != nil {
		logger.Error("controller: load", c.desc.Collection, id, err)
		return fmt.Errorf("controller: load %s/%s: %w", c.desc.Collection, id, err)
	}

	c.mu.Lock()
	c.entity = c.entity.Merge(record)
	f := c.form
	c.mu.Unlock()

	if f != nil {
		f.PatchValue(record)
	}
	logger.Verbose("controller: loaded", c.desc.Collection, id)
	return nil
}

// Save updates the bound entity, or creates a new one and replaces the
// location with its edit path. The form is submitted whether or not it is
// valid. After a create neither the identifier nor the form change.
func (c *Controller) Save(ctx context.Context) error {
	c.mu.Lock()
	f, id := c.form, c.id
	c.mu.Unlock()

	if f == nil {
		return ErrFormNotBuilt
	}
	if c.gateway == nil {
		return ErrGatewayMissing
	}
	values := f.Value()

	if id != "" {
		if err := c.gateway.Update(ctx, id, values); err != nil {
			logger.Error("controller: update", c.desc.Collection, id, err)
			return fmt.Errorf("controller: update %s/%s: %w", c.desc.Collection, id, err)
		}
		logger.Verbose("controller: updated", c.desc.Collection, id)
		return nil
	}

	newID, err := c.gateway.Create(ctx, values)
	if err != nil {
		logger.Error("controller: create", c.desc.Collection, err)
		return fmt.Errorf("controller: create %s: %w", c.desc.Collection, err)
	}
	logger.Verbose("controller: created", c.desc.Collection, newID)
	if c.location != nil {
		c.location.ReplaceState(EditPath(c.desc.Collection, newID))
	}
	return nil
}

// EditPath is the location of the edit screen for id.
func EditPath(collection, id string) string {
	return "/" + collection + "/edit/" + id
}

// OpenLookup opens the lookup dialog for collection and writes the display
// value of the pick into control. Closing the dialog without a pick, or an
// empty control name, writes nothing.
func (c *Controller) OpenLookup(ctx context.Context, collection, control string, columns []lookup.Column) error {
	if c.dialog == nil {
		return ErrDialogMissing
	}
	width := lookup.DesktopWidth
	if c.IsMobile() {
		width = lookup.MobileWidth
	}

	result, ok, err := c.dialog.Open(ctx, lookup.Config{
		Collection: collection,
		Columns:    columns,
		Width:      width,
	})
	if err != nil {
		return fmt.Errorf("controller: lookup %s: %w", collection, err)
	}
	if !ok || result == nil || control == "" {
		return nil
	}

	c.mu.Lock()
	f := c.form
	c.mu.Unlock()
	if f == nil {
		return ErrFormNotBuilt
	}
	return f.SetValue(control, lookup.DisplayValue(result))
}

// Dispose releases the breakpoint listener. It is safe to call more than
// once and does not stop route consumption.
func (c *Controller) Dispose() {
	c.disposeOnce.Do(func() {
		c.mu.Lock()
		release, stop := c.release, c.stopRelease
		c.mu.Unlock()
		if stop != nil {
			stop()
		}
		if release != nil {
			release()
		}
	})
}

// Wait blocks until the route stream has ended and every load it started has
// returned.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// IsMobile reports the last breakpoint state.
func (c *Controller) IsMobile() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mobile
}

// Form returns the live form, or nil before Init.
func (c *Controller) Form() *form.Form {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

// ID returns the bound identifier, empty while creating.
func (c *Controller) ID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id
}

// Entity returns a copy of the snapshot.
func (c *Controller) Entity() model.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entity.Clone()
}

// Collection returns the descriptor's collection name.
func (c *Controller) Collection() string {
	return c.desc.Collection
}

// Subtitle is the screen subtitle: "common.edit" with the title field of the
// snapshot while editing, "common.create-new" otherwise. Without a
// translator the key is returned.
func (c *Controller) Subtitle(locale string) (string, error) {
	c.mu.Lock()
	id := c.id
	title := c.entity[c.titleField]
	c.mu.Unlock()

	key := KeyCreateNew
	var args []any
	if id != "" {
		key = KeyEdit
		if title == nil {
			title = ""
		}
		args = append(args, title)
	}
	if c.translator == nil {
		return key, nil
	}
	return c.translator.Translate(locale, key, args...)
}
