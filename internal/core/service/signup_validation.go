package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/eschool/eschool-api/internal/core/domain"
)

type signupFields struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

var signupValidator = newSignupValidator()

func newSignupValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	return v
}

// validateSignup checks the signup form fields. It runs after the conflict
// and role checks.
func validateSignup(f signupFields) error {
	err := signupValidator.Struct(f)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return domain.NewValidationError(err.Error())
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		if fe.Tag() == "email" {
			msgs = append(msgs, fe.Field()+" must be a valid email")
			continue
		}
		msgs = append(msgs, fe.Field()+" is required")
	}
	return domain.NewValidationError(strings.Join(msgs, "; "))
}
