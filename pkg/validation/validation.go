// Package validation runs go-playground struct-tag validation and converts the
// failures into AppErrors with readable, JSON-named field messages.
package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/turtacn/patent-litigation-graph/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// FieldError is one failed rule.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message"`
}

// Struct validates s and returns the failed rules, or nil when s is valid.
func Struct(s any) []FieldError {
	return fieldErrors(validate.Struct(s))
}

// Partial validates only the named fields of s, given by Go field name.
func Partial(s any, fields ...string) []FieldError {
	return fieldErrors(validate.StructPartial(s, fields...))
}

func fieldErrors(err error) []FieldError {
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "", Tag: "invalid", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, e := range verrs {
		out = append(out, FieldError{
			Field:   e.Field(),
			Tag:     e.Tag(),
			Param:   e.Param(),
			Message: formatFieldError(e),
		})
	}
	return out
}

// ToAppError folds fields into a single AppError carrying code.
func ToAppError(code errors.ErrorCode, fields []FieldError) *errors.AppError {
	if len(fields) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(fields))
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, f.Message)
		names = append(names, f.Field)
	}
	return errors.New(code, strings.Join(msgs, "; ")).WithDetail("field=" + strings.Join(names, ","))
}

// Check validates s and returns an ErrCodeValidation AppError on failure.
func Check(s any) error {
	if fields := Struct(s); len(fields) > 0 {
		return ToAppError(errors.ErrCodeValidation, fields)
	}
	return nil
}

// CheckPartial is Check restricted to the named Go fields of s.
func CheckPartial(s any, fields ...string) error {
	if errs := Partial(s, fields...); len(errs) > 0 {
		return ToAppError(errors.ErrCodeValidation, errs)
	}
	return nil
}

// Var validates a single value against tag.
func Var(field string, value any, tag string) error {
	if err := validate.Var(value, tag); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			return errors.Validation(field, field+" "+strings.TrimPrefix(formatFieldError(verrs[0]), " "))
		}
		return errors.Validation(field, err.Error())
	}
	return nil
}

func formatFieldError(e validator.FieldError) string {
	field := e.Field()
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if isNumeric(e.Kind()) {
			return fmt.Sprintf("%s must be at least %s", field, e.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters", field, e.Param())
	case "max":
		if isNumeric(e.Kind()) {
			return fmt.Sprintf("%s must be at most %s", field, e.Param())
		}
		return fmt.Sprintf("%s must be at most %s characters", field, e.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "eqfield":
		return fmt.Sprintf("%s must match %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

//Personal.AI order the ending
