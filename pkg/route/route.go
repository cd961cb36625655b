// Package route supplies route parameters to entity form controllers and the
// location primitive they use to rewrite the current URL after a create.
package route

import (
	"context"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
)

// Params is one snapshot of path parameters.
type Params map[string]string

// ID returns the "id" parameter.
func (p Params) ID() string {
	return p["id"]
}

// Source is a multi-shot stream of route parameter snapshots. The returned
// channel is closed when the source ends or ctx is done.
type Source interface {
	Params(ctx context.Context) <-chan Params
}

// Location rewrites the current address without triggering navigation.
type Location interface {
	ReplaceState(path string)
	Path() string
}

// Channel adapts a caller-owned channel into a Source. The channel is handed
// out once; callers close it to end the stream.
type Channel <-chan Params

// Params implements Source.
func (c Channel) Params(ctx context.Context) <-chan Params {
	out := make(chan Params)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case params, ok := <-c:
				if !ok {
					return
				}
				select {
				case out <- params:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// Router matches paths against chi-style patterns such as
// "/{collection}/edit/{id}".
type Router struct {
	mux *chi.Mux
}

// NewRouter registers patterns in order.
func NewRouter(patterns ...string) *Router {
	mux := chi.NewRouter()
	noop := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	for _, pattern := range patterns {
		mux.Get(pattern, noop)
	}
	return &Router{mux: mux}
}

// DefaultRouter knows the create and edit screens of any collection.
func DefaultRouter() *Router {
	return NewRouter("/{collection}/new", "/{collection}/edit/{id}")
}

// Match extracts the parameters of the first pattern matching path.
func (r *Router) Match(path string) (Params, bool) {
	rctx := chi.NewRouteContext()
	if !r.mux.Match(rctx, http.MethodGet, path) {
		return nil, false
	}
	params := make(Params, len(rctx.URLParams.Keys))
	for i, key := range rctx.URLParams.Keys {
		if key == "*" {
			continue
		}
		params[key] = rctx.URLParams.Values[i]
	}
	return params, true
}

// History is an in-memory location with subscribers. Navigate publishes the
// matched parameters; ReplaceState only rewrites the path.
type History struct {
	router *Router

	mu     sync.Mutex
	path   string
	subs   map[chan Params]context.Context
	closed bool
	done   chan struct{}
}

var (
	_ Source   = (*History)(nil)
	_ Location = (*History)(nil)
)

// NewHistory creates a history resolving paths with router.
func NewHistory(router *Router) *History {
	if router == nil {
		router = DefaultRouter()
	}
	return &History{
		router: router,
		subs:   make(map[chan Params]context.Context),
		done:   make(chan struct{}),
	}
}

// Params subscribes to navigation events.
func (h *History) Params(ctx context.Context) <-chan Params {
	ch := make(chan Params, 1)
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch
	}
	h.subs[ch] = ctx
	h.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			h.unsubscribe(ch)
		case <-h.done:
		}
	}()
	return ch
}

func (h *History) unsubscribe(ch chan Params) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
}

// Navigate moves to path and publishes its parameters to every subscriber.
// Paths that match no pattern publish an empty snapshot.
func (h *History) Navigate(path string) {
	params, ok := h.router.Match(path)
	if !ok {
		params = Params{}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.path = path
	for ch, subCtx := range h.subs {
		select {
		case ch <- params.clone():
		case <-subCtx.Done():
		}
	}
}

// ReplaceState rewrites the current path silently.
func (h *History) ReplaceState(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.path = path
}

// Path returns the current path.
func (h *History) Path() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.path
}

// Close ends every subscription.
func (h *History) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	close(h.done)
	for ch := range h.subs {
		delete(h.subs, ch)
		close(ch)
	}
}

func (p Params) clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
