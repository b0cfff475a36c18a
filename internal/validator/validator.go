package validator

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/go-playground/validator/v10"
)

const (
	ErrRequired       = "is required"
	ErrMinLength      = "must contain at least %s items"
	ErrMaxLength      = "must contain at most %s items"
	ErrMinChars       = "must be at least %s characters long"
	ErrMaxChars       = "must be at most %s characters long"
	ErrMinValue       = "must be at least %s"
	ErrMaxValue       = "must be at most %s"
	ErrUnique         = "must not contain duplicates"
	ErrSeatID         = "must be a seat id like A1"
	ErrOneOf          = "must be one of: %s"
	ErrDefaultInvalid = "is invalid"
)

// Seat ids are a row letter A-Z followed by a column number.
var seatIDRgx = regexp.MustCompile(`^[A-Z][1-9][0-9]?$`)

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	validator.RegisterValidation("seat_id", validateSeatID)

	return validator
}

func validateSeatID(fl validator.FieldLevel) bool {
	return seatIDRgx.MatchString(fl.Field().String())
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return ErrRequired
	case "min":
		return sizedMessage(err, ErrMinLength, ErrMinChars, ErrMinValue)
	case "max":
		return sizedMessage(err, ErrMaxLength, ErrMaxChars, ErrMaxValue)
	case "unique":
		return ErrUnique
	case "seat_id":
		return ErrSeatID
	case "oneof":
		return fmt.Sprintf(ErrOneOf, err.Param())
	default:
		return ErrDefaultInvalid
	}
}

func sizedMessage(err validator.FieldError, forSlice, forString, forNumber string) string {
	switch err.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return fmt.Sprintf(forSlice, err.Param())
	case reflect.String:
		return fmt.Sprintf(forString, err.Param())
	default:
		return fmt.Sprintf(forNumber, err.Param())
	}
}
