package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"

	"github.com/osse101/Ascend_Go/internal/domain"
)

// BlockedWords are rejected anywhere in user-chosen names, ignoring case
var BlockedWords = []string{"fuck", "shit", "damn", "ass"}

// Validator wraps a validator instance with the project's custom tags
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator with the "rarity" and "clean" tags registered
func NewValidator() *Validator {
	v := validator.New()

	_ = v.RegisterValidation("rarity", validateRarity)
	_ = v.RegisterValidation("clean", validateClean)

	return &Validator{validate: v}
}

// ValidateStruct validates a struct using tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// FailedTag returns the tag of the first failed field rule, or "" if err is
// not a validation error
func FailedTag(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return ""
	}
	return validationErrors[0].Tag()
}

// FormatValidationError flattens validation errors into field -> message
func FormatValidationError(err error) map[string]string {
	if err == nil {
		return nil
	}

	errs := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errs["error"] = "Invalid input"
		return errs
	}

	for _, e := range validationErrors {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			errs[field] = "This field is required"
		case "max":
			errs[field] = fmt.Sprintf("Must be at most %s", e.Param())
		case "gte", "lte", "min":
			errs[field] = fmt.Sprintf("Out of range (%s %s)", e.Tag(), e.Param())
		case "rarity":
			errs[field] = "Unknown rarity"
		case "clean":
			errs[field] = "Contains inappropriate content"
		case "oneof":
			errs[field] = fmt.Sprintf("Must be one of: %s", e.Param())
		default:
			errs[field] = "Invalid value"
		}
	}

	return errs
}

// ContainsBlockedWord reports whether s contains a blocked word, ignoring case
func ContainsBlockedWord(s string) bool {
	// A Caser keeps state and must not be shared between goroutines.
	folded := cases.Fold().String(s)
	for _, word := range BlockedWords {
		if strings.Contains(folded, word) {
			return true
		}
	}
	return false
}

func validateRarity(fl validator.FieldLevel) bool {
	return domain.Rarity(fl.Field().String()).IsValid()
}

func validateClean(fl validator.FieldLevel) bool {
	return !ContainsBlockedWord(fl.Field().String())
}
