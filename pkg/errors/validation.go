package errors

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// ValidatePositive rejects values that are not finite and strictly positive.
func ValidatePositive(name string, v float64) error {
	if err := ValidateFinite(name, v); err != nil {
		return err
	}
	if v <= 0 {
		return New(ErrCodeInvalidInput, "%s must be greater than 0.", name)
	}
	return nil
}

// ValidateNonNegative rejects values that are not finite or are below zero.
func ValidateNonNegative(name string, v float64) error {
	if err := ValidateFinite(name, v); err != nil {
		return err
	}
	if v < 0 {
		return New(ErrCodeInvalidInput, "%s must be greater than or equal to 0.", name)
	}
	return nil
}

// ValidateRange rejects values outside the closed interval [lo, hi].
func ValidateRange(name string, v, lo, hi float64) error {
	if err := ValidateFinite(name, v); err != nil {
		return err
	}
	if v < lo || v > hi {
		return New(ErrCodeInvalidInput, "%s must be between %g and %g.", name, lo, hi)
	}
	return nil
}

// ValidateFraction rejects values outside the half-open interval [0, 1).
func ValidateFraction(name string, v float64) error {
	if err := ValidateFinite(name, v); err != nil {
		return err
	}
	if v < 0 || v >= 1 {
		return New(ErrCodeInvalidInput, "%s must be greater than or equal to 0 and less than 1.", name)
	}
	return nil
}

// ValidateFinite rejects NaN and infinities.
func ValidateFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be a finite number.", name)
	}
	return nil
}

// ValidateCount rejects integer counts below min.
func ValidateCount(name string, n, min int) error {
	if n < min {
		return New(ErrCodeInvalidInput, "%s must be at least %d.", name, min)
	}
	return nil
}

// ValidatePath validates a config or output path supplied by a user.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidInput, "path cannot contain path traversal sequences (..)")
	}

	return nil
}

// buildingNameRegex matches names usable as output file stems and cache keys.
var buildingNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateBuildingName validates the name of a building configuration.
func ValidateBuildingName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "building name cannot be empty")
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "building name too long (max 128 characters)")
	}
	if !buildingNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid building name: %q", name)
	}
	return nil
}
