package forms

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return strings.ReplaceAll(name, "_", " ")
	})
}

var messages = map[string]string{
	"required": "%s is required.",
	"email":    "%s must be a valid email address.",
	"min":      "%s must be at least %s characters long.",
	"max":      "%s must be no longer than %s characters.",
	"gt":       "%s must be greater than %s.",
	"gte":      "%s must be greater than or equal to %s.",
	"oneof":    "%s must be one of: %s.",
	"eqfield":  "%s does not match.",
	"datetime": "%s must be a date (YYYY-MM-DD).",
	"numeric":  "%s must be a number.",
}

type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every failing field in declaration order.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid form"
	}
	return e.Fields[0].Message
}

func (e *ValidationError) Map() map[string]string {
	out := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		out[f.Field] = f.Message
	}
	return out
}

// Invalid builds a single-field ValidationError for checks the struct
// tags cannot express.
func Invalid(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// Validate checks v against its validate tags. It returns nil or a
// *ValidationError.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	label := capitalize(fe.Field())
	tmpl, ok := messages[fe.Tag()]
	if !ok {
		return fmt.Sprintf("%s is invalid.", label)
	}
	if strings.Count(tmpl, "%s") == 2 {
		return fmt.Sprintf(tmpl, label, fe.Param())
	}
	return fmt.Sprintf(tmpl, label)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Fields returns the per-field messages of err, or nil when err is not
// a validation failure.
func Fields(err error) map[string]string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Map()
	}
	return nil
}
