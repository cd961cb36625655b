package model

import internalmodel "github.com/goliatone/go-entityform/internal/model"

// FieldType re-exports the internal FieldType enumeration.
type FieldType = internalmodel.FieldType

const (
	FieldTypeString  = internalmodel.FieldTypeString
	FieldTypeInteger = internalmodel.FieldTypeInteger
	FieldTypeNumber  = internalmodel.FieldTypeNumber
	FieldTypeBoolean = internalmodel.FieldTypeBoolean
	FieldTypeArray   = internalmodel.FieldTypeArray
	FieldTypeObject  = internalmodel.FieldTypeObject
)

const (
	ValidationRuleRequired  = internalmodel.ValidationRuleRequired
	ValidationRuleMin       = internalmodel.ValidationRuleMin
	ValidationRuleMax       = internalmodel.ValidationRuleMax
	ValidationRuleMinLength = internalmodel.ValidationRuleMinLength
	ValidationRuleMaxLength = internalmodel.ValidationRuleMaxLength
	ValidationRulePattern   = internalmodel.ValidationRulePattern
	ValidationRuleEmail     = internalmodel.ValidationRuleEmail
)

type ValidationRule = internalmodel.ValidationRule
type LookupColumn = internalmodel.LookupColumn
type LookupSpec = internalmodel.LookupSpec
type PropertyDescriptor = internalmodel.PropertyDescriptor
type Descriptor = internalmodel.Descriptor
type Record = internalmodel.Record

var (
	ErrCollectionMissing = internalmodel.ErrCollectionMissing
	ErrDuplicateProperty = internalmodel.ErrDuplicateProperty
	ErrPropertyNameEmpty = internalmodel.ErrPropertyNameEmpty
	ErrUnknownRuleKind   = internalmodel.ErrUnknownRuleKind
)

// Validate checks the structural invariants of a descriptor: a collection
// name, unique non-empty property names and well-formed validation rules.
func Validate(d Descriptor) error {
	return internalmodel.Validate(d)
}

// DefaultLabeler converts a property name into a human-friendly label.
func DefaultLabeler(name string) string {
	return internalmodel.DefaultLabeler(name)
}

// Required returns the canonical presence rule.
func Required() ValidationRule {
	return ValidationRule{Kind: ValidationRuleRequired}
}

// MaxLength returns a rule capping string length.
func MaxLength(n int) ValidationRule {
	return ValidationRule{Kind: ValidationRuleMaxLength, Params: map[string]string{"value": itoa(n)}}
}

// MinLength returns a rule enforcing a minimum string length.
func MinLength(n int) ValidationRule {
	return ValidationRule{Kind: ValidationRuleMinLength, Params: map[string]string{"value": itoa(n)}}
}

// Pattern returns a rule matching string values against expr.
func Pattern(expr string) ValidationRule {
	return ValidationRule{Kind: ValidationRulePattern, Params: map[string]string{"pattern": expr}}
}

// Email returns the email format rule.
func Email() ValidationRule {
	return ValidationRule{Kind: ValidationRuleEmail}
}
