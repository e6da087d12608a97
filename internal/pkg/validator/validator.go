package validator

import (
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// FieldErrors maps a struct field to the rule it failed.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for field, rule := range e {
		parts = append(parts, field+" "+rule)
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}

// Check runs the validate tags declared on the domain structs. A nil return
// means the value passed; anything else is a FieldErrors.
func Check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	fields := make(FieldErrors)
	for _, fe := range err.(validator.ValidationErrors) {
		fields[fe.Field()] = fe.Tag()
	}
	return fields
}
