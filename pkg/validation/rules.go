package validation

import (
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	emailRegex          = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegex          = regexp.MustCompile(`^\+?[0-9][0-9 ()-]{5,48}$`)
	documentNumberRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9.-]{2,49}$`)
)

// registerRules registers the tags used in dto struct tags.
func registerRules(v *validator.Validate) error {
	if err := v.RegisterValidation("iso_date", isISODate); err != nil {
		return err
	}
	if err := v.RegisterValidation("document_number", isDocumentNumber); err != nil {
		return err
	}
	if err := v.RegisterValidation("phone", isPhoneNumber); err != nil {
		return err
	}
	if err := v.RegisterValidation("custom_email", isGoodEmailFormat); err != nil {
		return err
	}
	return nil
}

// isISODate accepts calendar dates in YYYY-MM-DD.
func isISODate(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}

// isDocumentNumber: letters, digits, dots and dashes, 3 to 50 characters.
func isDocumentNumber(fl validator.FieldLevel) bool {
	return documentNumberRegex.MatchString(fl.Field().String())
}

func isPhoneNumber(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(fl.Field().String())
}

func isGoodEmailFormat(fl validator.FieldLevel) bool {
	return emailRegex.MatchString(fl.Field().String())
}
