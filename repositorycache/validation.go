package repositorycache

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
)

// CodeInvalidArgument is the text code carried by argument validation errors.
const CodeInvalidArgument = "INVALID_ARGUMENT"

// RequireNonBlank rejects empty or whitespace-only lookup keys.
func RequireNonBlank(field, value string) error {
	if err := validation.Validate(strings.TrimSpace(value), validation.Required); err != nil {
		return invalidArgument(field, err.Error())
	}
	return nil
}

// RequirePositive rejects counts lower than one.
func RequirePositive(field string, value int) error {
	if err := validation.Validate(value, validation.Min(1)); err != nil {
		return invalidArgument(field, err.Error())
	}
	return nil
}

// IsInvalidArgument reports whether err was raised by argument validation.
func IsInvalidArgument(err error) bool {
	var e *goerrors.Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Category == goerrors.CategoryValidation && e.TextCode == CodeInvalidArgument
}

func invalidArgument(field, reason string) error {
	return goerrors.New(fmt.Sprintf("%s %s", field, reason), goerrors.CategoryValidation).
		WithTextCode(CodeInvalidArgument)
}
