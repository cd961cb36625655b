package model_test

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-entityform/pkg/model"
)

const customersYAML = `
collection: customers
properties:
  - name: name
    required: true
    validators:
      - kind: maxLength
        params:
          value: "120"
  - name: type
    default: company
    enum: [company, person]
  - name: countryId
    lookup:
      collection: countries
      columns:
        - path: code
          title: Code
        - path: name
          title: Name
  - name: notes
`

const countriesJSON = `{
  "collection": "countries",
  "properties": [
    {"name": "code", "required": true},
    {"name": "name"}
  ]
}`

func TestLoadFS_YAMLAndJSON(t *testing.T) {
	fsys := fstest.MapFS{
		"descriptors/customers.yaml": {Data: []byte(customersYAML)},
		"descriptors/countries.json": {Data: []byte(countriesJSON)},
		"descriptors/README.md":      {Data: []byte("ignored")},
	}

	reg, err := model.LoadFS(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if diff := cmp.Diff([]string{"countries", "customers"}, reg.Collections()); diff != "" {
		t.Fatalf("collections mismatch (-want +got):\n%s", diff)
	}

	customers, ok := reg.Descriptor("customers")
	if !ok {
		t.Fatal("customers descriptor missing")
	}
	want := model.Descriptor{
		Collection: "customers",
		Properties: []string{"name", "type", "countryId", "notes"},
		Fields: map[string]model.PropertyDescriptor{
			"name": {
				Required:   true,
				Validators: []model.ValidationRule{model.MaxLength(120)},
			},
			"type": {
				Default: "company",
				Enum:    []any{"company", "person"},
			},
			"countryId": {
				Lookup: &model.LookupSpec{
					Collection: "countries",
					Columns: []model.LookupColumn{
						{Path: "code", Title: "Code"},
						{Path: "name", Title: "Name"},
					},
				},
			},
			"notes": {},
		},
	}
	if diff := cmp.Diff(want, customers); diff != "" {
		t.Fatalf("customers descriptor mismatch (-want +got):\n%s", diff)
	}

	countries, _ := reg.Descriptor("countries")
	if !countries.Fields["code"].Required {
		t.Fatalf("expected countries.code to be required")
	}
}

func TestLoadFS_NilFilesystem(t *testing.T) {
	reg, err := model.LoadFS(nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(reg.Collections()) != 0 {
		t.Fatalf("expected empty registry, got %v", reg.Collections())
	}
}

func TestLoadFS_RejectsDuplicateCollections(t *testing.T) {
	fsys := fstest.MapFS{
		"a.json": {Data: []byte(countriesJSON)},
		"b.json": {Data: []byte(countriesJSON)},
	}
	if _, err := model.LoadFS(fsys); err == nil {
		t.Fatal("expected duplicate collection error")
	}
}

func TestParseDescriptor_DuplicateProperty(t *testing.T) {
	raw := []byte(`{"collection":"c","properties":[{"name":"a"},{"name":"a"}]}`)
	_, err := model.ParseDescriptor(raw, "dup.json")
	if !errors.Is(err, model.ErrDuplicateProperty) {
		t.Fatalf("expected ErrDuplicateProperty, got %v", err)
	}
}

func TestParseDescriptor_Empty(t *testing.T) {
	if _, err := model.ParseDescriptor([]byte("  \n"), "empty.yaml"); err == nil {
		t.Fatal("expected error for empty file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		desc model.Descriptor
		want error
	}{
		{
			name: "missing collection",
			desc: model.Descriptor{Properties: []string{"a"}},
			want: model.ErrCollectionMissing,
		},
		{
			name: "empty property",
			desc: model.Descriptor{Collection: "c", Properties: []string{" "}},
			want: model.ErrPropertyNameEmpty,
		},
		{
			name: "unknown rule",
			desc: model.Descriptor{
				Collection: "c",
				Properties: []string{"a"},
				Fields: map[string]model.PropertyDescriptor{
					"a": {Validators: []model.ValidationRule{{Kind: "uppercase"}}},
				},
			},
			want: model.ErrUnknownRuleKind,
		},
		{
			name: "valid",
			desc: model.Descriptor{
				Collection: "c",
				Properties: []string{"a", "b"},
				Fields: map[string]model.PropertyDescriptor{
					"a": {Validators: []model.ValidationRule{model.Pattern("^[A-Z]+$"), model.MinLength(2)}},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := model.Validate(tt.desc)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestDescriptorNewRecordAndLabel(t *testing.T) {
	desc := model.Descriptor{
		Collection: "customers",
		Properties: []string{"name", "type", "vat_number"},
		Fields: map[string]model.PropertyDescriptor{
			"type": {Default: "company"},
			"name": {Label: "Customer name"},
		},
	}

	want := model.Record{"name": nil, "type": "company", "vat_number": nil}
	if diff := cmp.Diff(want, desc.NewRecord()); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}

	if got := desc.Label("name"); got != "Customer name" {
		t.Fatalf("label = %q", got)
	}
	if got := desc.Label("vat_number"); got != "Vat Number" {
		t.Fatalf("label = %q", got)
	}
	if got := model.DefaultLabeler("countryId"); got != "Country Id" {
		t.Fatalf("label = %q", got)
	}
}

func TestRecordMergeKeepsAbsentKeys(t *testing.T) {
	record := model.Record{"name": "Old", "code": "C1"}
	record = record.Merge(model.Record{"name": "New", "extra": true})

	want := model.Record{"name": "New", "code": "C1", "extra": true}
	if diff := cmp.Diff(want, record); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}
}

func TestMarshalYAMLIsReadable(t *testing.T) {
	desc, err := model.ParseDescriptor([]byte(customersYAML), "customers.yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	out, err := model.MarshalYAML(desc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	again, err := model.ParseDescriptor(out, "marshalled.yaml")
	if err != nil {
		t.Fatalf("reparse: %v\n%s", err, out)
	}
	if diff := cmp.Diff(desc, again); diff != "" {
		t.Fatalf("descriptor mismatch (-want +got):\n%s", diff)
	}
}
