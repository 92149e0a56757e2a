package validator

import (
	"fmt"
	"net/url"
	"strings"

	playground "github.com/go-playground/validator/v10"
)

// Rule binds a payload field to a pipe-separated rule expression, e.g.
// {"email", "required|email"} or {"password", "required|min:8"}.
// Rule parameters use a colon ("min:8"); multiple rules are joined with "|".
type Rule struct {
	Field string
	Expr  string
}

// Rules is an ordered list of field rules. Order matters: when several
// fields fail, the first declared field's message becomes the representative
// error.
type Rules []Rule

// FieldError describes a single failed rule.
type FieldError struct {
	Field   string
	Rule    string
	Message string
}

// Result holds the outcome of a validation pass.
type Result struct {
	values url.Values
	errors []FieldError
}

// Failed reports whether any rule failed.
func (r *Result) Failed() bool {
	return len(r.errors) > 0
}

// Error returns the first failed field's message, in rule declaration order,
// or the empty string if validation passed.
func (r *Result) Error() string {
	if len(r.errors) == 0 {
		return ""
	}
	return r.errors[0].Message
}

// Errors returns all field errors in rule declaration order.
func (r *Result) Errors() []FieldError {
	return r.errors
}

// Value returns the validated payload value for a field.
func (r *Result) Value(field string) string {
	return r.values.Get(field)
}

// engine is shared; the playground validator is safe for concurrent use and
// caches parsed tags.
var engine = playground.New()

// Validate checks the payload against the rules and returns a Result.
// Fields are evaluated in declaration order; evaluation does not stop at the
// first failure, so Result.Errors reports every failed field.
func Validate(values url.Values, rules Rules) *Result {
	res := &Result{values: values}

	for _, rule := range rules {
		value := values.Get(rule.Field)

		for _, part := range strings.Split(rule.Expr, "|") {
			name, param := splitRule(part)
			if name == "" {
				continue
			}

			// Empty optional fields skip all rules except "required".
			if value == "" && name != "required" {
				continue
			}

			if err := engine.Var(value, tagFor(name, param)); err != nil {
				res.errors = append(res.errors, FieldError{
					Field:   rule.Field,
					Rule:    name,
					Message: messageFor(rule.Field, name, param),
				})
				break // first failed rule per field is enough
			}
		}
	}

	return res
}

// splitRule separates a rule expression into name and parameter:
// "min:8" → ("min", "8"), "email" → ("email", "").
func splitRule(expr string) (name, param string) {
	name, param, _ = strings.Cut(strings.TrimSpace(expr), ":")
	return name, param
}

// tagFor translates a pipe-syntax rule into a playground validator tag.
func tagFor(name, param string) string {
	if param == "" {
		return name
	}
	return name + "=" + param
}

// messageFor renders a human-readable message for a failed rule.
func messageFor(field, name, param string) string {
	switch name {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", field)
	case "url":
		return fmt.Sprintf("The %s field must be a valid URL.", field)
	case "min":
		return fmt.Sprintf("The %s field must be at least %s characters.", field, param)
	case "max":
		return fmt.Sprintf("The %s field must not exceed %s characters.", field, param)
	case "alphanum":
		return fmt.Sprintf("The %s field may only contain letters and numbers.", field)
	case "numeric":
		return fmt.Sprintf("The %s field must be numeric.", field)
	case "eqfield", "eq":
		return fmt.Sprintf("The %s field does not match.", field)
	default:
		return fmt.Sprintf("The %s field is invalid.", field)
	}
}
