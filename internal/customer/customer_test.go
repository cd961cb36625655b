package customer_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-entityform/internal/customer"
	"github.com/goliatone/go-entityform/pkg/controller"
	"github.com/goliatone/go-entityform/pkg/gateway/memory"
	"github.com/goliatone/go-entityform/pkg/i18n"
	"github.com/goliatone/go-entityform/pkg/lookup"
	"github.com/goliatone/go-entityform/pkg/media"
	"github.com/goliatone/go-entityform/pkg/model"
	"github.com/goliatone/go-entityform/pkg/route"
	"github.com/goliatone/go-entityform/pkg/testsupport"
)

func TestRegistry(t *testing.T) {
	reg, err := customer.Registry()
	require.NoError(t, err)
	require.Equal(t, []string{"countries", "customers"}, reg.Collections())

	desc, err := customer.Descriptor()
	require.NoError(t, err)
	require.Equal(t, []string{"name", "code", "type", "email", "countryId"}, desc.Properties)

	name, _ := desc.Property("name")
	require.True(t, name.Required)
	typ, _ := desc.Property("type")
	require.Equal(t, customer.TypeCompany, typ.Default)
	country, _ := desc.Property("countryId")
	require.NotNil(t, country.Lookup)
	require.Equal(t, customer.CountriesCollection, country.Lookup.Collection)
	require.Equal(t, "Country", desc.Label("countryId"))
}

func TestTypeOptionsAreTranslated(t *testing.T) {
	catalog, err := i18n.NewCatalog("en", customer.Translations())
	require.NoError(t, err)

	var got []string
	for _, opt := range customer.TypeOptions() {
		msg, err := catalog.Translate("es", opt.Key)
		require.NoError(t, err)
		got = append(got, msg)
	}
	if diff := cmp.Diff([]string{"Empresa", "Persona"}, got); diff != "" {
		t.Fatalf("type options mismatch (-want +got):\n%s", diff)
	}
}

func TestSeedCountriesIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	require.NoError(t, customer.SeedCountries(ctx, store))
	require.NoError(t, customer.SeedCountries(ctx, store))

	records, err := store.Collection(customer.CountriesCollection).List(ctx)
	require.NoError(t, err)
	require.Len(t, records, len(customer.Countries()))
}

func TestCustomerEditFlow(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := memory.NewStore()
	require.NoError(t, customer.SeedCountries(ctx, store))
	require.NoError(t, store.Seed(customer.Collection, model.Record{
		"id": "c1", "name": "Acme", "code": "ACME", "type": customer.TypeCompany,
	}))

	translator, err := i18n.NewCatalog("en", customer.Translations())
	require.NoError(t, err)

	driver := &testsupport.StubDriver{Selects: []int{2}}
	history := route.NewHistory(nil)
	c, err := customer.NewController(controller.Deps{
		Gateway:    store.Collection(customer.Collection),
		Route:      history,
		Location:   history,
		Dialog:     lookup.NewTerminal(store, lookup.WithDriver(driver)),
		Media:      media.NewViewport(media.MobileMaxWidth, 1024),
		Translator: translator,
	})
	require.NoError(t, err)
	defer c.Dispose()

	c.Init(ctx)
	history.Navigate("/customers/edit/c1")
	history.Close()
	c.Wait()

	subtitle, err := c.Subtitle("en")
	require.NoError(t, err)
	require.Equal(t, "Edit Acme", subtitle)

	desc, err := customer.Descriptor()
	require.NoError(t, err)
	country, _ := desc.Property("countryId")
	require.NoError(t, c.OpenLookup(ctx, country.Lookup.Collection, "countryId", country.Lookup.Columns))
	require.Equal(t, "ES | Spain", driver.SelectPrompts[0].Options[2])

	require.NoError(t, c.Save(ctx))
	saved, err := store.Collection(customer.Collection).GetByID(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, "Spain", saved["countryId"])
	require.Equal(t, "Acme", saved["name"])
}

func TestCustomerCreateFlow(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(memory.WithIDGenerator(func() string { return "42" }))
	history := route.NewHistory(nil)
	history.Navigate("/customers/new")

	c, err := customer.NewController(controller.Deps{
		Gateway:  store.Collection(customer.Collection),
		Location: history,
	})
	require.NoError(t, err)
	defer c.Dispose()

	c.Init(ctx)
	require.NoError(t, c.Form().SetValue("name", "Globex"))
	require.NoError(t, c.Form().SetValue("email", "not-an-email"))
	require.False(t, c.Form().Valid())

	require.NoError(t, c.Save(ctx))
	require.Equal(t, "/customers/edit/42", history.Path())

	saved, err := store.Collection(customer.Collection).GetByID(ctx, "42")
	require.NoError(t, err)
	require.Equal(t, "Globex", saved["name"])
	require.Equal(t, customer.TypeCompany, saved["type"])
}
