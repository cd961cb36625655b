// Package server exposes a gateway.Store over the REST dialect consumed by
// pkg/gateway/httpgw.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/microcosm-cc/bluemonday"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/untillpro/goutils/logger"

	"github.com/goliatone/go-entityform/pkg/gateway"
	"github.com/goliatone/go-entityform/pkg/model"
)

// Config wires the handler dependencies.
type Config struct {
	Store gateway.Store
	// Registry restricts the served collections; nil serves any name.
	Registry *model.Registry
	// Gatherer enables GET /metrics when set.
	Gatherer prometheus.Gatherer
}

type handler struct {
	store    gateway.Store
	registry *model.Registry
	policy   *bluemonday.Policy
}

// NewHandler builds the chi router.
func NewHandler(cfg Config) (http.Handler, error) {
	if cfg.Store == nil {
		return nil, errors.New("server: store is required")
	}
	h := &handler{
		store:    cfg.Store,
		registry: cfg.Registry,
		policy:   bluemonday.StrictPolicy(),
	}

	r := chi.NewRouter()
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}
	r.Route("/{collection}", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
	})
	return r, nil
}

// Run serves handler on addr until ctx is cancelled.
func Run(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server: listening on", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server: shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (h *handler) collection(w http.ResponseWriter, r *http.Request) (gateway.Collection, bool) {
	name := chi.URLParam(r, "collection")
	if h.registry != nil {
		if _, ok := h.registry.Descriptor(name); !ok {
			writeError(w, http.StatusNotFound, "UNKNOWN_COLLECTION", "unknown collection: "+name)
			return nil, false
		}
	}
	return h.store.Collection(name), true
}

func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	coll, ok := h.collection(w, r)
	if !ok {
		return
	}
	records, err := coll.List(r.Context())
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	if records == nil {
		records = []model.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *handler) create(w http.ResponseWriter, r *http.Request) {
	coll, ok := h.collection(w, r)
	if !ok {
		return
	}
	values, ok := h.decodeRecord(w, r)
	if !ok {
		return
	}
	id, err := coll.Create(r.Context(), values)
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	logger.Verbose("server: created", chi.URLParam(r, "collection"), id)
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *handler) get(w http.ResponseWriter, r *http.Request) {
	coll, ok := h.collection(w, r)
	if !ok {
		return
	}
	record, err := coll.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *handler) update(w http.ResponseWriter, r *http.Request) {
	coll, ok := h.collection(w, r)
	if !ok {
		return
	}
	values, ok := h.decodeRecord(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	if err := coll.Update(r.Context(), id, values); err != nil {
		writeGatewayError(w, err)
		return
	}
	logger.Verbose("server: updated", chi.URLParam(r, "collection"), id)
	w.WriteHeader(http.StatusNoContent)
}

// decodeRecord reads a JSON object and strips markup from string values.
func (h *handler) decodeRecord(w http.ResponseWriter, r *http.Request) (model.Record, bool) {
	defer r.Body.Close()
	var values model.Record
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return nil, false
	}
	for key, value := range values {
		if text, ok := value.(string); ok {
			values[key] = h.policy.Sanitize(text)
		}
	}
	return values, true
}

func writeGatewayError(w http.ResponseWriter, err error) {
	if errors.Is(err, gateway.ErrNotFound) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}
	logger.Error("server:", err)
	writeError(w, http.StatusInternalServerError, "GATEWAY_ERROR", err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("server: encode response:", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
		"code":  code,
	})
}
