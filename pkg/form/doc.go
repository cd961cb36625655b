// Package form holds the live form state bound to an entity editor. A Form is
// synthesised from a model.Descriptor with Build: one Control per declared
// property, carrying the property's default value and its validation rules
// (the descriptor's own rules followed by "required" when the property is
// flagged as such).
//
// Validation is presentational. Controls report their violations through
// Errors and the form through Valid, but nothing in this package blocks a
// caller from reading Value while the form is invalid.
package form
