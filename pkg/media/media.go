// Package media provides responsive breakpoint signals. A Matcher reports
// whether the current viewport falls inside a breakpoint and notifies
// listeners when that changes.
package media

import (
	"os"
	"sync"

	"golang.org/x/term"
)

// MobileMaxWidth is the pixel width up to which a viewport counts as mobile.
const MobileMaxWidth = 600

// Matcher is a boolean breakpoint signal with change notifications.
type Matcher interface {
	Matches() bool
	// Listen registers fn for change notifications. The returned function
	// releases the listener and is safe to call more than once.
	Listen(fn func(matches bool)) (release func())
}

// Viewport matches while its width is at most maxWidth.
type Viewport struct {
	maxWidth int

	mu        sync.Mutex
	width     int
	nextID    int
	listeners map[int]func(bool)
}

var _ Matcher = (*Viewport)(nil)

// NewViewport creates a viewport of the given width.
func NewViewport(maxWidth, width int) *Viewport {
	return &Viewport{
		maxWidth:  maxWidth,
		width:     width,
		listeners: make(map[int]func(bool)),
	}
}

// Matches reports whether the width is within the breakpoint.
func (v *Viewport) Matches() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.width <= v.maxWidth
}

// Listen registers fn.
func (v *Viewport) Listen(fn func(bool)) func() {
	v.mu.Lock()
	id := v.nextID
	v.nextID++
	v.listeners[id] = fn
	v.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			delete(v.listeners, id)
			v.mu.Unlock()
		})
	}
}

// Listeners reports how many listeners are registered.
func (v *Viewport) Listeners() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.listeners)
}

// Resize sets a new width and notifies listeners when the match flips.
func (v *Viewport) Resize(width int) {
	v.mu.Lock()
	before := v.width <= v.maxWidth
	v.width = width
	after := v.width <= v.maxWidth
	var notify []func(bool)
	if before != after {
		for _, fn := range v.listeners {
			notify = append(notify, fn)
		}
	}
	v.mu.Unlock()

	for _, fn := range notify {
		fn(after)
	}
}

// Terminal is a viewport sized in terminal columns.
type Terminal struct {
	*Viewport
	fd int
}

// NewTerminal measures stdout. Non-terminal outputs are treated as wide.
func NewTerminal(maxColumns int) *Terminal {
	t := &Terminal{
		Viewport: NewViewport(maxColumns, maxColumns+1),
		fd:       int(os.Stdout.Fd()),
	}
	t.Refresh()
	return t
}

// Refresh re-reads the terminal width.
func (t *Terminal) Refresh() {
	if !term.IsTerminal(t.fd) {
		return
	}
	width, _, err := term.GetSize(t.fd)
	if err != nil {
		return
	}
	t.Resize(width)
}
