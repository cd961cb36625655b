// Package model defines the model descriptors that drive form synthesis. A
// Descriptor names the collection an entity lives in, lists its properties in
// declaration order and attaches per-property metadata: the required flag, a
// default value and an ordered list of validation rules. Validation rules use
// canonical identifiers (required, min/max, minLength/maxLength, pattern,
// email) with string parameters so descriptor files stay diffable.
//
// Descriptors are plain data. They can be declared in Go, loaded from
// YAML/JSON files with LoadFS, or derived from an OpenAPI component schema
// with FromOpenAPI.
package model
