package model

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	ErrCollectionMissing  = errors.New("model: collection name is required")
	ErrDuplicateProperty  = errors.New("model: duplicate property")
	ErrPropertyNameEmpty  = errors.New("model: property name is empty")
	ErrUnknownRuleKind    = errors.New("model: unknown validation rule")
	errRuleParamMissing   = errors.New("model: validation rule parameter missing")
	errRuleParamMalformed = errors.New("model: validation rule parameter malformed")
)

// Validate checks the structural invariants of a descriptor loaded from an
// external source. Form building does not call it.
func Validate(d Descriptor) error {
	if strings.TrimSpace(d.Collection) == "" {
		return ErrCollectionMissing
	}
	seen := make(map[string]struct{}, len(d.Properties))
	for _, name := range d.Properties {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w (collection %s)", ErrPropertyNameEmpty, d.Collection)
		}
		if _, exists := seen[name]; exists {
			return fmt.Errorf("%w %q (collection %s)", ErrDuplicateProperty, name, d.Collection)
		}
		seen[name] = struct{}{}
	}
	for name, prop := range d.Fields {
		if _, declared := seen[name]; !declared {
			return fmt.Errorf("model: field %q is not declared in properties (collection %s)", name, d.Collection)
		}
		for _, rule := range prop.Validators {
			if err := validateRule(rule); err != nil {
				return fmt.Errorf("model: property %q: %w", name, err)
			}
		}
		if prop.Lookup != nil && strings.TrimSpace(prop.Lookup.Collection) == "" {
			return fmt.Errorf("model: property %q: lookup: %w", name, ErrCollectionMissing)
		}
	}
	return nil
}

func validateRule(rule ValidationRule) error {
	switch rule.Kind {
	case ValidationRuleRequired, ValidationRuleEmail:
		return nil
	case ValidationRuleMin, ValidationRuleMax:
		raw, ok := rule.Params["value"]
		if !ok {
			return fmt.Errorf("%w: %s value", errRuleParamMissing, rule.Kind)
		}
		if _, err := strconv.ParseFloat(raw, 64); err != nil {
			return fmt.Errorf("%w: %s value %q", errRuleParamMalformed, rule.Kind, raw)
		}
	case ValidationRuleMinLength, ValidationRuleMaxLength:
		raw, ok := rule.Params["value"]
		if !ok {
			return fmt.Errorf("%w: %s value", errRuleParamMissing, rule.Kind)
		}
		if _, err := strconv.Atoi(raw); err != nil {
			return fmt.Errorf("%w: %s value %q", errRuleParamMalformed, rule.Kind, raw)
		}
	case ValidationRulePattern:
		raw, ok := rule.Params["pattern"]
		if !ok {
			return fmt.Errorf("%w: pattern", errRuleParamMissing)
		}
		if _, err := regexp.Compile(raw); err != nil {
			return fmt.Errorf("%w: pattern %q", errRuleParamMalformed, raw)
		}
	default:
		return fmt.Errorf("%w %q", ErrUnknownRuleKind, rule.Kind)
	}
	return nil
}
