package charge

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validateOrderID accepts the characters the gateway allows in an order ID.
func validateOrderID(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '~', r == '.':
		default:
			return false
		}
	}
	return true
}

func newValidator() (*validator.Validate, error) {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	if err := v.RegisterValidation("order_id", validateOrderID); err != nil {
		return nil, err
	}
	return v, nil
}

// invalidRequest converts the first validator failure into an InvalidRequestError.
func invalidRequest(err error) error {
	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) || len(valErrs) == 0 {
		return err
	}
	fe := valErrs[0]

	reason := "failed " + fe.Tag() + " check"
	switch fe.Tag() {
	case "required":
		reason = "is required"
	case "email":
		reason = "is not a valid email address"
	case "max":
		reason = "must be at most " + fe.Param() + " characters"
	case "order_id":
		reason = "may only contain letters, digits, '-', '_', '~' and '.'"
	}
	return &InvalidRequestError{Field: fe.Field(), Reason: reason}
}
