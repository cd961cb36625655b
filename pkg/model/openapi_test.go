package model_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-entityform/pkg/model"
)

const customerOpenAPI = `{
  "openapi": "3.0.3",
  "info": {"title": "crm", "version": "1.0.0"},
  "paths": {},
  "components": {
    "schemas": {
      "Customer": {
        "type": "object",
        "required": ["name"],
        "properties": {
          "name": {"type": "string", "title": "Name", "maxLength": 120},
          "email": {"type": "string", "format": "email"},
          "credit": {"type": "number", "minimum": 0, "maximum": 1000, "exclusiveMaximum": true},
          "countryId": {
            "type": "string",
            "x-lookup": {
              "collection": "countries",
              "columns": [{"path": "code", "title": "Code"}]
            }
          }
        }
      }
    }
  }
}`

func TestFromOpenAPI(t *testing.T) {
	desc, err := model.FromOpenAPI(context.Background(), []byte(customerOpenAPI), "Customer", "customers")
	if err != nil {
		t.Fatalf("from openapi: %v", err)
	}

	want := model.Descriptor{
		Collection: "customers",
		Properties: []string{"countryId", "credit", "email", "name"},
		Fields: map[string]model.PropertyDescriptor{
			"countryId": {
				Type: model.FieldTypeString,
				Lookup: &model.LookupSpec{
					Collection: "countries",
					Columns:    []model.LookupColumn{{Path: "code", Title: "Code"}},
				},
			},
			"credit": {
				Type: model.FieldTypeNumber,
				Validators: []model.ValidationRule{
					{Kind: model.ValidationRuleMin, Params: map[string]string{"value": "0"}},
					{Kind: model.ValidationRuleMax, Params: map[string]string{"value": "1000", "exclusive": "true"}},
				},
			},
			"email": {
				Type:       model.FieldTypeString,
				Validators: []model.ValidationRule{model.Email()},
			},
			"name": {
				Type:       model.FieldTypeString,
				Label:      "Name",
				Required:   true,
				Validators: []model.ValidationRule{model.MaxLength(120)},
			},
		},
	}
	if diff := cmp.Diff(want, desc); diff != "" {
		t.Fatalf("descriptor mismatch (-want +got):\n%s", diff)
	}
}

func TestFromOpenAPI_UnknownSchema(t *testing.T) {
	if _, err := model.FromOpenAPI(context.Background(), []byte(customerOpenAPI), "Missing", "customers"); err == nil {
		t.Fatal("expected error for unknown schema")
	}
}

func TestFromOpenAPI_RequiresCollection(t *testing.T) {
	if _, err := model.FromOpenAPI(context.Background(), []byte(customerOpenAPI), "Customer", ""); err == nil {
		t.Fatal("expected error for missing collection")
	}
}
