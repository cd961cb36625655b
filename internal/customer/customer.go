// Package customer is the customer editor: descriptors, enum options and
// messages consumed by the generic controller.
package customer

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/goliatone/go-entityform/pkg/controller"
	"github.com/goliatone/go-entityform/pkg/gateway"
	"github.com/goliatone/go-entityform/pkg/i18n"
	"github.com/goliatone/go-entityform/pkg/model"
)

// Collection names.
const (
	Collection          = "customers"
	CountriesCollection = "countries"
)

// Customer types.
const (
	TypeCompany = "company"
	TypePerson  = "person"
)

//go:embed descriptors/*.yaml
var descriptorFiles embed.FS

// Descriptors returns the embedded descriptor files.
func Descriptors() fs.FS {
	sub, err := fs.Sub(descriptorFiles, "descriptors")
	if err != nil {
		panic(err)
	}
	return sub
}

// Registry loads the customers and countries descriptors.
func Registry() (*model.Registry, error) {
	reg, err := model.LoadFS(Descriptors())
	if err != nil {
		return nil, fmt.Errorf("customer: %w", err)
	}
	return reg, nil
}

// Descriptor returns the customers descriptor.
func Descriptor() (model.Descriptor, error) {
	reg, err := Registry()
	if err != nil {
		return model.Descriptor{}, err
	}
	desc, ok := reg.Descriptor(Collection)
	if !ok {
		return model.Descriptor{}, fmt.Errorf("customer: descriptor %q not embedded", Collection)
	}
	return desc, nil
}

// TypeOption is a selectable customer type and its message key.
type TypeOption struct {
	Value string
	Key   string
}

// TypeOptions lists the customer types in display order.
func TypeOptions() []TypeOption {
	return []TypeOption{
		{Value: TypeCompany, Key: "customers.enums.type.company"},
		{Value: TypePerson, Key: "customers.enums.type.person"},
	}
}

// Translations returns the messages used by the customer screens.
func Translations() i18n.Translations {
	return i18n.Translations{
		controller.KeyEdit: {
			"en": "Edit %v",
			"es": "Editar %v",
		},
		controller.KeyCreateNew: {
			"en": "Create new",
			"es": "Crear nuevo",
		},
		"customers.enums.type.company": {
			"en": "Company",
			"es": "Empresa",
		},
		"customers.enums.type.person": {
			"en": "Person",
			"es": "Persona",
		},
	}
}

// Countries is the reference data offered by the country lookup.
func Countries() []model.Record {
	return []model.Record{
		{gateway.IDField: "ar", "code": "AR", "name": "Argentina"},
		{gateway.IDField: "de", "code": "DE", "name": "Germany"},
		{gateway.IDField: "es", "code": "ES", "name": "Spain"},
		{gateway.IDField: "us", "code": "US", "name": "United States"},
	}
}

// Seeder is implemented by stores that accept records with preset ids.
type Seeder interface {
	Seed(collection string, records ...model.Record) error
}

// SeedCountries loads Countries into store when the collection is empty.
func SeedCountries(ctx context.Context, store gateway.Store) error {
	countries := store.Collection(CountriesCollection)
	existing, err := countries.List(ctx)
	if err != nil {
		return fmt.Errorf("customer: seed countries: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	if seeder, ok := store.(Seeder); ok {
		return seeder.Seed(CountriesCollection, Countries()...)
	}
	for _, record := range Countries() {
		if _, err := countries.Create(ctx, record); err != nil {
			return fmt.Errorf("customer: seed countries: %w", err)
		}
	}
	return nil
}

// NewController builds a customer controller. deps.Descriptor is replaced
// with the embedded customers descriptor.
func NewController(deps controller.Deps, opts ...controller.Option) (*controller.Controller, error) {
	desc, err := Descriptor()
	if err != nil {
		return nil, err
	}
	deps.Descriptor = desc
	return controller.New(deps, opts...), nil
}
