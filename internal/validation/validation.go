// Package validation checks operator-entered form values before any request
// is sent. A failure is always a *FieldError naming the offending field.
package validation

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// FieldError is a local validation failure for one form field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

// IsFieldError reports whether err is (or wraps) a local validation failure.
func IsFieldError(err error) bool {
	var fe *FieldError
	return errors.As(err, &fe)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("money", func(fl validator.FieldLevel) bool {
		_, err := ParseMoney(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("posint", func(fl validator.FieldLevel) bool {
		_, err := ParsePositiveInt(fl.Field().String())
		return err == nil
	})
	return v
}

// Struct validates v against its `validate` tags and returns the first
// violation as a *FieldError.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errors.Wrap(err, "validate")
	}
	fe := verrs[0]
	return &FieldError{
		Field:   fe.Field(),
		Message: message(fe),
	}
}

func message(fe validator.FieldError) string {
	field := strings.ReplaceAll(fe.Field(), "_", " ")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "uuid":
		return fmt.Sprintf("%s must be a valid id", field)
	case "money":
		return fmt.Sprintf("%s must be a non-negative amount", field)
	case "posint":
		return fmt.Sprintf("%s must be a positive whole number", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// ParseMoney parses a non-negative currency amount. Blank input is zero.
func ParseMoney(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "parse amount %q", s)
	}
	if d.IsNegative() {
		return decimal.Zero, errors.Errorf("amount %s is negative", s)
	}
	return d, nil
}

// ParsePositiveInt parses a whole number greater than zero.
func ParsePositiveInt(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.Wrapf(err, "parse quantity %q", s)
	}
	if n <= 0 {
		return 0, errors.Errorf("quantity %d is not positive", n)
	}
	return n, nil
}
