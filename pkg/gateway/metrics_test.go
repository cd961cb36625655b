package gateway_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/goliatone/go-entityform/pkg/gateway"
	"github.com/goliatone/go-entityform/pkg/gateway/memory"
	"github.com/goliatone/go-entityform/pkg/model"
)

func TestMetricsInstrumentCountsOutcomes(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	metrics, err := gateway.NewMetrics(reg)
	if err != nil {
		t.Fatalf("new metrics: %v", err)
	}

	store := metrics.Instrument(memory.NewStore())
	customers := store.Collection("customers")

	id, err := customers.Create(ctx, model.Record{"name": "Acme"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := customers.GetByID(ctx, id); err != nil {
		t.Fatalf("get: %v", err)
	}
	if _, err := customers.GetByID(ctx, "missing"); err == nil {
		t.Fatal("expected not found")
	}

	ops := metrics.Operations()
	if got := testutil.ToFloat64(ops.WithLabelValues("customers", "create", "ok")); got != 1 {
		t.Fatalf("create ok = %v", got)
	}
	if got := testutil.ToFloat64(ops.WithLabelValues("customers", "get", "ok")); got != 1 {
		t.Fatalf("get ok = %v", got)
	}
	if got := testutil.ToFloat64(ops.WithLabelValues("customers", "get", "error")); got != 1 {
		t.Fatalf("get error = %v", got)
	}
}

func TestNewMetricsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := gateway.NewMetrics(reg); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if _, err := gateway.NewMetrics(reg); err == nil {
		t.Fatal("expected duplicate registration error")
	}
}

func TestWithIDDoesNotMutateInput(t *testing.T) {
	in := model.Record{"name": "Acme"}
	out := gateway.WithID(in, "7")
	if _, ok := in["id"]; ok {
		t.Fatal("input mutated")
	}
	if out["id"] != "7" {
		t.Fatalf("id = %v", out["id"])
	}
}
