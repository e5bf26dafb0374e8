package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

// Allowed values for the custom enum tags.
var enums = map[string][]string{
	"credit_type":     {"solar", "wind", "bio"},
	"payment_method":  {"upi", "qr", "card"},
	"emission_source": {"iot", "simulated", ""},
	"period":          {"daily", "monthly", "yearly"},
}

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	for tag, values := range enums {
		validate.RegisterValidation(tag, oneOf(values))
	}
}

func oneOf(values []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		for _, allowed := range values {
			if v == allowed {
				return true
			}
		}
		return false
	}
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"body": "Invalid request"}
	}

	fields := make(map[string]string)
	for _, fe := range errs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			fields[field] = "This field is required"
		case "email":
			fields[field] = "Invalid email format"
		case "min":
			fields[field] = "Value is too short (min: " + fe.Param() + ")"
		case "max":
			fields[field] = "Value is too long (max: " + fe.Param() + ")"
		case "gt":
			fields[field] = "Value must be greater than " + fe.Param()
		case "gte":
			fields[field] = "Value must be at least " + fe.Param()
		case "lte":
			fields[field] = "Value must be at most " + fe.Param()
		case "credit_type", "payment_method", "emission_source", "period":
			fields[field] = "Must be one of: " + strings.Join(nonEmpty(enums[fe.Tag()]), ", ")
		default:
			fields[field] = "Invalid value"
		}
	}

	return fields
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ValidateVar validates a single variable
func ValidateVar(field interface{}, tag string) error {
	return validate.Var(field, tag)
}
