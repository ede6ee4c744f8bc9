// Package validation evaluates ordered per-field rule sets against decoded
// request payloads and reports every failing rule.
package validation

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	LocationBody   = "body"
	LocationParams = "params"
)

var validate = validator.New()

// FieldError describes one failed rule.
type FieldError struct {
	Type     string `json:"type"`
	Value    any    `json:"value,omitempty"`
	Msg      string `json:"msg"`
	Path     string `json:"path"`
	Location string `json:"location"`
}

// Predicate reports whether value satisfies a rule. present is false when the
// field is absent from the payload.
type Predicate func(value any, present bool) bool

type Rule struct {
	Field   string
	Check   Predicate
	Message string
	// Redact keeps the submitted value out of the reported error.
	Redact bool
}

// RuleSet is evaluated in order without short-circuiting.
type RuleSet []Rule

func (rs RuleSet) Validate(payload map[string]any) []FieldError {
	var errs []FieldError
	for _, rule := range rs {
		value, present := payload[rule.Field]
		if rule.Check(value, present) {
			continue
		}
		if rule.Redact {
			value = nil
		}
		errs = append(errs, FieldError{
			Type:     "field",
			Value:    value,
			Msg:      rule.Message,
			Path:     rule.Field,
			Location: LocationBody,
		})
	}
	return errs
}

// Optional applies check only when the field is present.
func Optional(check Predicate) Predicate {
	return func(value any, present bool) bool {
		if !present {
			return true
		}
		return check(value, present)
	}
}

func NotEmpty(value any, present bool) bool {
	if !present || value == nil {
		return false
	}
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s) != ""
	}
	return true
}

func IsString(value any, present bool) bool {
	_, ok := value.(string)
	return present && ok
}

func IsBoolean(value any, present bool) bool {
	_, ok := value.(bool)
	return present && ok
}

// IsNumeric accepts JSON numbers and numeric strings such as "50" or "12.5".
func IsNumeric(value any, present bool) bool {
	if !present {
		return false
	}
	_, ok := Float(value)
	return ok
}

func Positive(value any, present bool) bool {
	f, ok := Float(value)
	return present && ok && f > 0
}

func IsEmail(value any, present bool) bool {
	s, ok := value.(string)
	return present && ok && validate.Var(s, "required,email") == nil
}

func MinLength(n int) Predicate {
	tag := fmt.Sprintf("min=%d", n)
	return func(value any, present bool) bool {
		s, ok := value.(string)
		return present && ok && validate.Var(s, tag) == nil
	}
}

func OneOf(values ...string) Predicate {
	tag := "oneof=" + strings.Join(values, " ")
	return func(value any, present bool) bool {
		s, ok := value.(string)
		return present && ok && validate.Var(s, tag) == nil
	}
}

// Float converts a decoded JSON number or numeric string to float64.
func Float(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(v)
		if validate.Var(s, "required,numeric") != nil {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// ParseID accepts integer-valued path identifiers. Negative values parse but
// never resolve to a stored row, so they are reported as id 0.
func ParseID(raw string) (uint, *FieldError) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, &FieldError{
			Type:     "field",
			Value:    raw,
			Msg:      "id must be an integer",
			Path:     "id",
			Location: LocationParams,
		}
	}
	if n < 1 {
		return 0, nil
	}
	return uint(n), nil
}

// BodyError reports a request body that could not be decoded as a JSON object.
func BodyError(err error) FieldError {
	return FieldError{
		Type:     "field",
		Msg:      "request body must be a JSON object: " + err.Error(),
		Path:     "body",
		Location: LocationBody,
	}
}
