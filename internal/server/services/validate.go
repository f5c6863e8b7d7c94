package services

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dmitrijs2005/resumebuilder/internal/common"
	"github.com/google/uuid"
)

const (
	MinPasswordLength = 6
	MaxPasswordBytes  = 72
	MaxEmailLength    = 255
	MaxFullNameLength = 100
	MaxPhoneLength    = 20
	MinTitleLength    = 3
	MaxTitleLength    = 255
	MaxTemplateLength = 50
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{common.ErrValidation}, args...)...)
}

func validateEmail(email string) error {
	if email == "" {
		return validationError("email is required")
	}
	if utf8.RuneCountInString(email) > MaxEmailLength {
		return validationError("email must be at most %d characters", MaxEmailLength)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return validationError("email %q is not a valid address", email)
	}
	return nil
}

// validatePassword requires MinPasswordLength characters including a digit.
// bcrypt refuses input longer than MaxPasswordBytes.
func validatePassword(field, password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return validationError("%s must be at least %d characters", field, MinPasswordLength)
	}
	if len(password) > MaxPasswordBytes {
		return validationError("%s must be at most %d bytes", field, MaxPasswordBytes)
	}
	if !strings.ContainsFunc(password, unicode.IsDigit) {
		return validationError("%s must contain a digit", field)
	}
	return nil
}

func validateFullName(name string) error {
	if name == "" {
		return validationError("fullName is required")
	}
	if utf8.RuneCountInString(name) > MaxFullNameLength {
		return validationError("fullName must be at most %d characters", MaxFullNameLength)
	}
	return nil
}

func validatePhone(phone *string) error {
	if phone != nil && utf8.RuneCountInString(*phone) > MaxPhoneLength {
		return validationError("phone must be at most %d characters", MaxPhoneLength)
	}
	return nil
}

func validateTitle(title string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(title))
	if n < MinTitleLength || n > MaxTitleLength {
		return validationError("title must be between %d and %d characters", MinTitleLength, MaxTitleLength)
	}
	return nil
}

func validateTemplateID(id *string) error {
	if id != nil && utf8.RuneCountInString(*id) > MaxTemplateLength {
		return validationError("templateId must be at most %d characters", MaxTemplateLength)
	}
	return nil
}

func validID(id string) bool {
	return uuid.Validate(id) == nil
}
