package domain

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validatorInstance is a package-level validator instance.
// Using a single instance is more efficient as it caches struct information.
var validatorInstance = newValidator()

// NewValidator returns a validator with the domain's custom rules registered.
// The HTTP layer uses it so request DTOs share the same rule set.
func NewValidator() *validator.Validate {
	return newValidator()
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("safepath", validateSafePath)
	_ = v.RegisterValidation("emailprefix", validateEmailPrefix)
	return v
}

// validateSafePath ensures the path doesn't contain any directory traversal attempts.
func validateSafePath(fl validator.FieldLevel) bool {
	path := fl.Field().String()

	if strings.Contains(path, "..") ||
		strings.Contains(path, "~") ||
		strings.HasPrefix(path, "/") ||
		strings.Contains(path, "\\") {
		return false
	}

	// Catches subtler forms like "uploads/./file".
	return path == filepath.Clean(path)
}

// validateEmailPrefix requires the local part of an email (before "@") to be
// at least as long as the tag parameter, e.g. `validate:"emailprefix=7"`.
func validateEmailPrefix(fl validator.FieldLevel) bool {
	email := fl.Field().String()
	at := strings.Index(email, "@")
	if at < 0 {
		return false
	}
	min := 1
	if p := fl.Param(); p != "" {
		if n, err := strconv.Atoi(p); err == nil && n > 0 {
			min = n
		}
	}
	return len([]rune(email[:at])) >= min
}
