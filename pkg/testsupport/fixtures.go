// Package testsupport holds shared doubles and fixtures for package tests.
package testsupport

import (
	"testing"

	"github.com/goliatone/go-entityform/pkg/model"
)

// CustomerDescriptor returns a small customer descriptor exercising required
// flags, defaults, validators and a lookup property.
func CustomerDescriptor() model.Descriptor {
	return model.Descriptor{
		Collection: "customers",
		Properties: []string{"name", "code", "type", "countryId"},
		Fields: map[string]model.PropertyDescriptor{
			"name": {Required: true, Validators: []model.ValidationRule{model.MaxLength(120)}},
			"code": {Validators: []model.ValidationRule{model.Pattern(`^[A-Z0-9]+$`)}},
			"type": {Default: "company"},
			"countryId": {
				Lookup: &model.LookupSpec{
					Collection: "countries",
					Columns: []model.LookupColumn{
						{Path: "code", Title: "Code"},
						{Path: "name", Title: "Name"},
					},
				},
			},
		},
	}
}

// MustRegistry builds a registry or fails the test.
func MustRegistry(t *testing.T, descriptors ...model.Descriptor) *model.Registry {
	t.Helper()

	reg, err := model.NewRegistry(descriptors...)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	return reg
}
