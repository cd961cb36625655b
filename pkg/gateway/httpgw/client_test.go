package httpgw_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-entityform/internal/server"
	"github.com/goliatone/go-entityform/pkg/gateway"
	"github.com/goliatone/go-entityform/pkg/gateway/httpgw"
	"github.com/goliatone/go-entityform/pkg/gateway/memory"
	"github.com/goliatone/go-entityform/pkg/model"
)

func TestClientRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(memory.WithIDGenerator(func() string { return "7" }))
	h, err := server.NewHandler(server.Config{Store: store})
	require.NoError(t, err)
	srv := httptest.NewServer(h)
	defer srv.Close()

	customers := httpgw.New(srv.URL + "/").Collection("customers")

	id, err := customers.Create(ctx, model.Record{"name": "Acme"})
	require.NoError(t, err)
	require.Equal(t, "7", id)

	require.NoError(t, customers.Update(ctx, id, model.Record{"name": "Acme Ltd", "code": "A1"}))

	got, err := customers.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, model.Record{"id": "7", "name": "Acme Ltd", "code": "A1"}, got)

	list, err := customers.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = customers.GetByID(ctx, "missing")
	require.True(t, errors.Is(err, gateway.ErrNotFound), "got %v", err)
}

func TestClientStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "secret", r.Header.Get("X-Token"))
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := httpgw.New(srv.URL, httpgw.WithHeader("X-Token", "secret"))
	err := client.Collection("customers").Update(context.Background(), "1", model.Record{})

	var statusErr *httpgw.StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusBadGateway, statusErr.Status)
	require.Equal(t, "boom", statusErr.Body)
}

func TestClientCreateWithoutID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := httpgw.New(srv.URL).Collection("customers").Create(context.Background(), model.Record{})
	require.Error(t, err)
}
