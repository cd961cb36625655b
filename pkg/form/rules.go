package form

import (
	"fmt"
	"net/mail"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-entityform/pkg/model"
)

// Check reports whether value satisfies rule. Empty values only fail the
// required rule; every other rule treats them as valid so optional
// properties can stay blank. Unknown rule kinds pass.
func Check(rule model.ValidationRule, value any) bool {
	if rule.Kind == model.ValidationRuleRequired {
		return !isEmpty(value)
	}
	if isEmpty(value) {
		return true
	}

	switch rule.Kind {
	case model.ValidationRuleMinLength:
		limit, err := strconv.Atoi(rule.Params["value"])
		return err != nil || length(value) >= limit
	case model.ValidationRuleMaxLength:
		limit, err := strconv.Atoi(rule.Params["value"])
		return err != nil || length(value) <= limit
	case model.ValidationRuleMin:
		return compareBound(rule, value, func(n, bound float64, exclusive bool) bool {
			if exclusive {
				return n > bound
			}
			return n >= bound
		})
	case model.ValidationRuleMax:
		return compareBound(rule, value, func(n, bound float64, exclusive bool) bool {
			if exclusive {
				return n < bound
			}
			return n <= bound
		})
	case model.ValidationRulePattern:
		expr, err := regexp.Compile(rule.Params["pattern"])
		if err != nil {
			return true
		}
		return expr.MatchString(fmt.Sprint(value))
	case model.ValidationRuleEmail:
		text, ok := value.(string)
		if !ok {
			return false
		}
		addr, err := mail.ParseAddress(text)
		return err == nil && addr.Address == text
	default:
		return true
	}
}

func compareBound(rule model.ValidationRule, value any, cmp func(n, bound float64, exclusive bool) bool) bool {
	bound, err := strconv.ParseFloat(rule.Params["value"], 64)
	if err != nil {
		return true
	}
	n, ok := toFloat(value)
	if !ok {
		return false
	}
	return cmp(n, bound, rule.Params["exclusive"] == "true")
}

func toFloat(value any) (float64, bool) {
	switch typed := value.(type) {
	case int:
		return float64(typed), true
	case int32:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case float32:
		return float64(typed), true
	case float64:
		return typed, true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		return n, err == nil
	default:
		return 0, false
	}
}

func length(value any) int {
	if text, ok := value.(string); ok {
		return utf8.RuneCountInString(text)
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len()
	default:
		return utf8.RuneCountInString(fmt.Sprint(value))
	}
}

func isEmpty(value any) bool {
	if value == nil {
		return true
	}
	if text, ok := value.(string); ok {
		return text == ""
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
