package validator

import (
	"regexp"
	"strings"

	"github.com/skyvoyage/flight-booking-backend/internal/models"
)

// Validation messages surfaced per field.
const (
	MsgNameRequired  = "Full name is required"
	MsgEmailRequired = "Valid email is required"
	MsgPhoneRequired = "Valid phone number is required"
	MsgDOBRequired   = "Date of birth is required"
)

// minPhoneLength is the minimum number of characters a phone number must
// have after trimming.
const minPhoneLength = 8

// emailRegex matches the standard local@domain.tld shape.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FieldErrors maps a field name to its validation message.
type FieldErrors map[string]string

// PassengerValidator validates passenger details before the wizard may
// advance past the passenger-entry step.
type PassengerValidator struct{}

// NewPassengerValidator creates a new passenger validator instance
func NewPassengerValidator() *PassengerValidator {
	return &PassengerValidator{}
}

// Validate checks every passenger and collects all failures per field per
// passenger index. It never short-circuits: the wizard shows every
// invalid field at once, not just the first.
func (v *PassengerValidator) Validate(passengers []models.Passenger) (bool, map[int]FieldErrors) {
	errs := make(map[int]FieldErrors)
	valid := true

	for i, p := range passengers {
		fieldErrs := FieldErrors{}

		if strings.TrimSpace(p.Name) == "" {
			fieldErrs["name"] = MsgNameRequired
		}
		if !emailRegex.MatchString(p.Email) {
			fieldErrs["email"] = MsgEmailRequired
		}
		if len(strings.TrimSpace(p.Phone)) < minPhoneLength {
			fieldErrs["phone"] = MsgPhoneRequired
		}
		if p.DateOfBirth == "" {
			fieldErrs["date_of_birth"] = MsgDOBRequired
		}

		if len(fieldErrs) > 0 {
			errs[i] = fieldErrs
			valid = false
		}
	}

	return valid, errs
}
