package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/jsamuelsen/horoscope-service/internal/domain"
)

var (
	// ErrValidation wraps a request that decoded but broke a field rule.
	ErrValidation = errors.New("validation failed")

	// ErrBinding wraps a body or query that could not be decoded at all.
	ErrBinding = errors.New("binding failed")
)

var validate = newRequestValidator()

// newRequestValidator names fields by their json (or form) key and adds
// the signkey, datekey and notempty rules.
func newRequestValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
			switch name {
			case "":
				continue
			case "-":
				return ""
			default:
				return name
			}
		}
		return ""
	})

	rules := map[string]validator.Func{
		"signkey":  optional(domain.IsSignKey),
		"datekey":  optional(func(s string) bool { _, err := domain.ParseDateKey(s); return err == nil }),
		"notempty": func(fl validator.FieldLevel) bool { return strings.TrimSpace(fl.Field().String()) != "" },
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("registering %s rule: %v", tag, err))
		}
	}

	return v
}

// optional passes empty strings so the rule composes with required.
func optional(accept func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || accept(s)
	}
}

// Validate checks v against its validate tags.
func Validate(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return nil
}

// BindAndValidate decodes the JSON body into v and validates it.
func BindAndValidate(c *gin.Context, v any) error {
	return bindThenValidate(c.ShouldBindJSON, v)
}

// BindQueryAndValidate decodes the query string into v and validates it.
func BindQueryAndValidate(c *gin.Context, v any) error {
	return bindThenValidate(c.ShouldBindQuery, v)
}

func bindThenValidate(bind func(any) error, v any) error {
	if err := bind(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBinding, err)
	}
	return Validate(v)
}

// IsValidationError reports whether err carries field-level failures.
func IsValidationError(err error) bool {
	var fieldErrs validator.ValidationErrors
	return errors.As(err, &fieldErrs)
}

// ValidationErrors returns one message per failed field, keyed by json name.
func ValidationErrors(err error) map[string]string {
	out := map[string]string{}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return out
	}

	for _, fe := range fieldErrs {
		out[fe.Field()] = fieldMessage(fe)
	}

	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "notempty":
		return "must not be empty"
	case "signkey":
		return "must be one of the twelve zodiac sign keys"
	case "datekey":
		return "must be a date formatted YYYY-MM-DD"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "failed validation: " + fe.Tag()
	}
}
