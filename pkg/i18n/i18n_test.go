package i18n_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-entityform/pkg/i18n"
)

func newCatalog(t *testing.T) *i18n.Catalog {
	t.Helper()
	c, err := i18n.NewCatalog("en", i18n.Translations{
		"common.edit": {
			"en": "Edit %v",
			"es": "Editar %v",
		},
		"common.create-new": {
			"en": "Create new",
		},
	})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return c
}

func TestCatalogTranslate(t *testing.T) {
	c := newCatalog(t)

	tests := []struct {
		locale string
		key    string
		args   []any
		want   string
	}{
		{"en", "common.edit", []any{"Acme"}, "Edit Acme"},
		{"es", "common.edit", []any{"Acme"}, "Editar Acme"},
		{"es-MX", "common.edit", []any{"Acme"}, "Editar Acme"},
		{"fr", "common.create-new", nil, "Create new"},
		{"es", "common.create-new", nil, "Create new"},
		{"not a locale", "common.create-new", nil, "Create new"},
	}
	for _, tt := range tests {
		got, err := c.Translate(tt.locale, tt.key, tt.args...)
		if err != nil {
			t.Fatalf("translate %s/%s: %v", tt.locale, tt.key, err)
		}
		if got != tt.want {
			t.Fatalf("translate %s/%s = %q, want %q", tt.locale, tt.key, got, tt.want)
		}
	}
}

func TestCatalogMissingKey(t *testing.T) {
	c := newCatalog(t)
	got, err := c.Translate("en", "customers.title")
	if !errors.Is(err, i18n.ErrMissingTranslation) {
		t.Fatalf("expected ErrMissingTranslation, got %v", err)
	}
	if got != "customers.title" {
		t.Fatalf("fallback = %q", got)
	}
}

func TestNewCatalogRejectsBadLocale(t *testing.T) {
	if _, err := i18n.NewCatalog("!!", nil); err == nil {
		t.Fatal("expected error for empty fallback locale")
	}
}
