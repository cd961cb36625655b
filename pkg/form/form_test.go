package form_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-entityform/pkg/form"
	"github.com/goliatone/go-entityform/pkg/model"
)

func customerDescriptor() model.Descriptor {
	return model.Descriptor{
		Collection: "customers",
		Properties: []string{"name", "code", "type", "email", "notes"},
		Fields: map[string]model.PropertyDescriptor{
			"name": {Required: true, Validators: []model.ValidationRule{model.MaxLength(10)}},
			"code": {Required: true},
			"type": {Default: "company"},
			"email": {Validators: []model.ValidationRule{model.Email()}},
		},
	}
}

func hasRequired(rules []model.ValidationRule) bool {
	for _, rule := range rules {
		if rule.Kind == model.ValidationRuleRequired {
			return true
		}
	}
	return false
}

func TestBuild_OneControlPerProperty(t *testing.T) {
	desc := customerDescriptor()
	f := form.Build(desc)

	if diff := cmp.Diff(desc.Properties, f.Names()); diff != "" {
		t.Fatalf("control names mismatch (-want +got):\n%s", diff)
	}

	for _, name := range desc.Properties {
		ctrl, ok := f.Get(name)
		if !ok {
			t.Fatalf("control %q missing", name)
		}
		prop, _ := desc.Property(name)
		if got := hasRequired(ctrl.Validators()); got != prop.Required {
			t.Fatalf("control %q required rule = %v, want %v", name, got, prop.Required)
		}
	}

	name, _ := f.Get("name")
	wantRules := []model.ValidationRule{model.MaxLength(10), model.Required()}
	if diff := cmp.Diff(wantRules, name.Validators()); diff != "" {
		t.Fatalf("name validators mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_DefaultsAndMissingEntries(t *testing.T) {
	f := form.Build(customerDescriptor())

	want := model.Record{
		"name":  nil,
		"code":  nil,
		"type":  "company",
		"email": nil,
		"notes": nil,
	}
	if diff := cmp.Diff(want, f.Value()); diff != "" {
		t.Fatalf("initial values mismatch (-want +got):\n%s", diff)
	}

	notes, _ := f.Get("notes")
	if len(notes.Validators()) != 0 {
		t.Fatalf("expected no validators for undeclared entry, got %v", notes.Validators())
	}
}

func TestBuild_DoesNotAliasDescriptorValidators(t *testing.T) {
	desc := customerDescriptor()
	form.Build(desc)
	form.Build(desc)

	if got := len(desc.Fields["name"].Validators); got != 1 {
		t.Fatalf("descriptor validators mutated: %d rules", got)
	}
}

func TestBuild_Idempotent(t *testing.T) {
	desc := customerDescriptor()
	first := form.Build(desc)
	if err := first.SetValue("name", "typed"); err != nil {
		t.Fatalf("set value: %v", err)
	}
	second := form.Build(desc)

	if diff := cmp.Diff(first.Names(), second.Names()); diff != "" {
		t.Fatalf("names differ (-first +second):\n%s", diff)
	}
	for _, name := range first.Names() {
		a, _ := first.Get(name)
		b, _ := second.Get(name)
		if diff := cmp.Diff(a.Validators(), b.Validators()); diff != "" {
			t.Fatalf("validators for %q differ (-first +second):\n%s", name, diff)
		}
	}
	if v, _ := second.Get("name"); v.Value() != nil {
		t.Fatalf("rebuild kept user value %v", v.Value())
	}
}

func TestBuild_EmptyDescriptor(t *testing.T) {
	f := form.Build(model.Descriptor{Collection: "empty"})
	if len(f.Names()) != 0 {
		t.Fatalf("expected no controls, got %v", f.Names())
	}
	if !f.Valid() {
		t.Fatal("empty form should be valid")
	}
}

func TestPatchValue_IgnoresUnknownKeys(t *testing.T) {
	f := form.Build(customerDescriptor())
	f.PatchValue(map[string]any{"name": "Acme", "id": "7", "createdAt": "2020"})

	got := f.Value()
	if got["name"] != "Acme" {
		t.Fatalf("name = %v", got["name"])
	}
	if _, ok := got["id"]; ok {
		t.Fatal("patch must not create controls")
	}
	if got["type"] != "company" {
		t.Fatalf("patch dropped untouched value: %v", got["type"])
	}
}

func TestSetValue_UnknownControl(t *testing.T) {
	f := form.Build(customerDescriptor())
	err := f.SetValue("missing", 1)
	if !errors.Is(err, form.ErrUnknownControl) {
		t.Fatalf("expected ErrUnknownControl, got %v", err)
	}
}

func TestErrorsAndValidity(t *testing.T) {
	f := form.Build(customerDescriptor())

	want := map[string][]string{
		"name": {model.ValidationRuleRequired},
		"code": {model.ValidationRuleRequired},
	}
	if diff := cmp.Diff(want, f.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	f.PatchValue(map[string]any{"name": "Far too long a name", "code": "A1", "email": "nope"})
	want = map[string][]string{
		"name":  {model.ValidationRuleMaxLength},
		"email": {model.ValidationRuleEmail},
	}
	if diff := cmp.Diff(want, f.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	f.PatchValue(map[string]any{"name": "Acme", "email": "ops@acme.test"})
	if !f.Valid() {
		t.Fatalf("expected valid form, got %v", f.Errors())
	}
}
