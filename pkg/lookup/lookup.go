// Package lookup defines the modal used to pick a related record and the
// convention for writing the pick back into a form control.
package lookup

import (
	"context"
	"reflect"
	"strings"

	"github.com/goliatone/go-entityform/pkg/model"
)

// Dialog widths in pixels, chosen by the caller's breakpoint.
const (
	MobileWidth  = 320
	DesktopWidth = 800
)

// Column is a displayed column: a dotted path into the record and a title.
type Column = model.LookupColumn

// Config is passed to Dialog.Open.
type Config struct {
	Collection string
	Columns    []Column
	Width      int
}

// Dialog opens a modal and returns the selected record. ok is false when the
// dialog closed without a selection.
type Dialog interface {
	Open(ctx context.Context, cfg Config) (result any, ok bool, err error)
}

// DialogFunc adapts a function into a Dialog.
type DialogFunc func(ctx context.Context, cfg Config) (any, bool, error)

// Open calls the underlying function.
func (fn DialogFunc) Open(ctx context.Context, cfg Config) (any, bool, error) {
	return fn(ctx, cfg)
}

// displayKeys is the priority order used to represent a foreign record in a
// single control.
var displayKeys = []string{"name", "code", "number"}

// DisplayValue picks the first non-empty of name, code and number from the
// result, or returns the result itself. Maps with string keys are read by
// key; structs, and pointers to them, by exported field name or json tag.
func DisplayValue(result any) any {
	for _, key := range displayKeys {
		if value, ok := fieldOf(result, key); ok && !isZero(value) {
			return value
		}
	}
	return result
}

func fieldOf(value any, key string) (any, bool) {
	v := reflect.ValueOf(value)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Map:
		keyType := v.Type().Key()
		if keyType.Kind() != reflect.String {
			return nil, false
		}
		item := v.MapIndex(reflect.ValueOf(key).Convert(keyType))
		if !item.IsValid() {
			return nil, false
		}
		return item.Interface(), true
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			if sf.IsExported() && fieldName(sf, key) {
				return v.Field(i).Interface(), true
			}
		}
	}
	return nil, false
}

// fieldName reports whether sf answers to key. A json tag name takes
// precedence over the Go field name.
func fieldName(sf reflect.StructField, key string) bool {
	tag, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
	switch tag {
	case "-":
		return false
	case "":
		return strings.EqualFold(sf.Name, key)
	default:
		return tag == key
	}
}

func isZero(value any) bool {
	if value == nil {
		return true
	}
	return reflect.ValueOf(value).IsZero()
}
