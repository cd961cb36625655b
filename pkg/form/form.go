package form

import (
	"errors"
	"fmt"
	"sync"

	"github.com/goliatone/go-entityform/pkg/model"
)

// ErrUnknownControl is returned when a control name is not part of the form.
var ErrUnknownControl = errors.New("form: unknown control")

// Control is a single editable value with its validation rules.
type Control struct {
	name       string
	value      any
	validators []model.ValidationRule
	dirty      bool
}

// Name returns the control name, matching the descriptor property.
func (c *Control) Name() string { return c.name }

// Value returns the current value.
func (c *Control) Value() any { return c.value }

// Validators returns a copy of the control's validation rules.
func (c *Control) Validators() []model.ValidationRule {
	return append([]model.ValidationRule(nil), c.validators...)
}

// Dirty reports whether the value was set explicitly after the form was
// built.
func (c *Control) Dirty() bool { return c.dirty }

// Errors lists the rule kinds the current value violates, in rule order.
func (c *Control) Errors() []string {
	var out []string
	for _, rule := range c.validators {
		if !Check(rule, c.value) {
			out = append(out, rule.Kind)
		}
	}
	return out
}

// Valid reports whether the current value satisfies every rule.
func (c *Control) Valid() bool {
	return len(c.Errors()) == 0
}

// Form is the ordered set of controls derived from a descriptor. Methods are
// safe for concurrent use.
type Form struct {
	mu       sync.RWMutex
	order    []string
	controls map[string]*Control
}

// Build synthesises a form from desc. Every declared property becomes a
// control, in declaration order; properties without a descriptor entry get a
// nil value and no validators.
func Build(desc model.Descriptor) *Form {
	f := &Form{
		order:    make([]string, 0, len(desc.Properties)),
		controls: make(map[string]*Control, len(desc.Properties)),
	}
	for _, name := range desc.Properties {
		ctrl := &Control{name: name}
		if prop, ok := desc.Property(name); ok {
			ctrl.value = prop.Default
			ctrl.validators = append([]model.ValidationRule{}, prop.Validators...)
			if prop.Required {
				ctrl.validators = append(ctrl.validators, model.Required())
			}
		}
		if _, exists := f.controls[name]; !exists {
			f.order = append(f.order, name)
		}
		f.controls[name] = ctrl
	}
	return f
}

// Names returns the control names in declaration order.
func (f *Form) Names() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]string(nil), f.order...)
}

// Get returns a snapshot of the named control.
func (f *Form) Get(name string) (Control, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	ctrl, ok := f.controls[name]
	if !ok {
		return Control{}, false
	}
	clone := *ctrl
	clone.validators = ctrl.Validators()
	return clone, true
}

// SetValue writes value into the named control.
func (f *Form) SetValue(name string, value any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ctrl, ok := f.controls[name]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownControl, name)
	}
	ctrl.value = value
	ctrl.dirty = true
	return nil
}

// PatchValue writes every key of values that names a control. Keys without a
// matching control are ignored.
func (f *Form) PatchValue(values map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, value := range values {
		if ctrl, ok := f.controls[key]; ok {
			ctrl.value = value
		}
	}
}

// Value returns the current value of every control keyed by name.
func (f *Form) Value() model.Record {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make(model.Record, len(f.order))
	for _, name := range f.order {
		out[name] = f.controls[name].value
	}
	return out
}

// Errors maps each invalid control to the rule kinds it violates. A valid
// form yields nil.
func (f *Form) Errors() map[string][]string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out map[string][]string
	for _, name := range f.order {
		if errs := f.controls[name].Errors(); len(errs) > 0 {
			if out == nil {
				out = make(map[string][]string)
			}
			out[name] = errs
		}
	}
	return out
}

// Valid reports whether every control passes its rules.
func (f *Form) Valid() bool {
	return len(f.Errors()) == 0
}
