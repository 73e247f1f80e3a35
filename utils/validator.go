package utils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Validator wraps go-playground/validator with the custom tags and the
// decimal type support the request structs need.
type Validator struct {
	validate *validator.Validate
}

// Enum checks a string-typed value against a closed set.
type Enum interface {
	Valid() bool
}

var defaultValidator = NewValidator()

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report json names so messages match the payload the client sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// Validate decimals as their float value so min/max/gte work on them.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("enum", func(fl validator.FieldLevel) bool {
		if e, ok := fl.Field().Interface().(Enum); ok {
			return e.Valid()
		}
		return false
	})

	return &Validator{validate: v}
}

// Validate runs the struct's `validate` tags. Every violated constraint is
// turned into one human message using messages, keyed "field.tag" by the
// json field name. A "%v" in a message is replaced by the offending value.
func (v *Validator) Validate(s interface{}, messages map[string]string) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Unexpected("Validation error", err)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fieldMessage(fe, messages))
	}
	return ValidationFailed("Validation error", fields...)
}

func Validate(s interface{}, messages map[string]string) error {
	return defaultValidator.Validate(s, messages)
}

func fieldMessage(fe validator.FieldError, messages map[string]string) string {
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		if strings.Contains(msg, "%v") {
			return fmt.Sprintf(msg, fe.Value())
		}
		return msg
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "enum":
		return fmt.Sprintf("%v is not a valid %s", fe.Value(), fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
