package validation

import (
	"github.com/go-playground/validator/v10"
)

// CustomValidator adapts validator.Validate to echo.Validator.
type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func New() *CustomValidator {
	v := validator.New()

	registerNullTypes(v)

	// a validator without our rules must not serve traffic
	if err := registerRules(v); err != nil {
		panic("validation: failed to register rules: " + err.Error())
	}

	return &CustomValidator{validator: v}
}
