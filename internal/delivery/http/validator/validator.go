// Package validator plugs go-playground/validator into echo.
package validator

import (
	"flagpole/internal/domain/entity"
	"flagpole/internal/errors"

	"github.com/go-playground/validator/v10"
)

// CustomValidator implements echo.Validator.
type CustomValidator struct {
	validate *validator.Validate
}

// New returns a validator with the project's custom tags registered:
//
//	flagview  non-empty string made only of T and F
func New() (*CustomValidator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	err := validate.RegisterValidation("flagview", func(fl validator.FieldLevel) bool {
		view := fl.Field().String()

		return view != "" && entity.ValidateFlagView(view) == nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to register flagview validation")
	}

	return &CustomValidator{validate: validate}, nil
}

// Validate validates a struct using its `validate` tags.
func (cv *CustomValidator) Validate(i any) error {
	return cv.validate.Struct(i)
}
