package memory_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-entityform/pkg/gateway"
	"github.com/goliatone/go-entityform/pkg/gateway/memory"
	"github.com/goliatone/go-entityform/pkg/model"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%d", n)
	}
}

func TestCollectionCRUD(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(memory.WithIDGenerator(sequentialIDs()))
	customers := store.Collection("customers")

	id, err := customers.Create(ctx, model.Record{"name": "Acme"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id != "1" {
		t.Fatalf("id = %q", id)
	}

	got, err := customers.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if diff := cmp.Diff(model.Record{"id": "1", "name": "Acme"}, got); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}

	if err := customers.Update(ctx, id, model.Record{"name": "Acme Ltd"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ = customers.GetByID(ctx, id)
	if got["name"] != "Acme Ltd" {
		t.Fatalf("name = %v", got["name"])
	}

	list, err := customers.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("list len = %d", len(list))
	}
}

func TestCollectionNotFound(t *testing.T) {
	ctx := context.Background()
	customers := memory.NewStore().Collection("customers")

	if _, err := customers.GetByID(ctx, "nope"); !errors.Is(err, gateway.ErrNotFound) {
		t.Fatalf("get: expected ErrNotFound, got %v", err)
	}
	if err := customers.Update(ctx, "nope", model.Record{}); !errors.Is(err, gateway.ErrNotFound) {
		t.Fatalf("update: expected ErrNotFound, got %v", err)
	}
}

func TestCollectionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	if err := store.Seed("countries", model.Record{"id": "de", "code": "DE"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := store.Collection("customers").GetByID(ctx, "de"); !errors.Is(err, gateway.ErrNotFound) {
		t.Fatalf("expected ErrNotFound across collections, got %v", err)
	}
	if _, err := store.Collection("countries").GetByID(ctx, "de"); err != nil {
		t.Fatalf("get seeded: %v", err)
	}
}

func TestSeedRequiresID(t *testing.T) {
	if err := memory.NewStore().Seed("countries", model.Record{"code": "DE"}); err == nil {
		t.Fatal("expected error for record without id")
	}
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	_ = store.Seed("countries", model.Record{"id": "de", "code": "DE"})

	got, _ := store.Collection("countries").GetByID(ctx, "de")
	got["code"] = "XX"

	again, _ := store.Collection("countries").GetByID(ctx, "de")
	if again["code"] != "DE" {
		t.Fatalf("stored record mutated through returned copy: %v", again["code"])
	}
}
