package validator

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seatsInput struct {
	Seats    []string `validate:"required,min=1,max=3,unique,dive,seat_id"`
	KioskId  string   `validate:"omitempty,min=2,max=8"`
	Quantity int      `validate:"min=1,max=20"`
	Category string   `validate:"omitempty,oneof=food beverage"`
}

func TestValidationMessage(t *testing.T) {
	validate := NewValidator()

	valid := seatsInput{Seats: []string{"A1"}, Quantity: 1}

	tests := []struct {
		name    string
		modify  func(in *seatsInput)
		wantMsg string
	}{
		{
			name:    "missing seats",
			modify:  func(in *seatsInput) { in.Seats = nil },
			wantMsg: ErrRequired,
		},
		{
			name:    "empty seats",
			modify:  func(in *seatsInput) { in.Seats = []string{} },
			wantMsg: fmt.Sprintf(ErrMinLength, "1"),
		},
		{
			name:    "too many seats",
			modify:  func(in *seatsInput) { in.Seats = []string{"A1", "A2", "A3", "A4"} },
			wantMsg: fmt.Sprintf(ErrMaxLength, "3"),
		},
		{
			name:    "duplicate seats",
			modify:  func(in *seatsInput) { in.Seats = []string{"A1", "A1"} },
			wantMsg: ErrUnique,
		},
		{
			name:    "lowercase row",
			modify:  func(in *seatsInput) { in.Seats = []string{"a1"} },
			wantMsg: ErrSeatID,
		},
		{
			name:    "column zero",
			modify:  func(in *seatsInput) { in.Seats = []string{"B0"} },
			wantMsg: ErrSeatID,
		},
		{
			name:    "short kiosk id",
			modify:  func(in *seatsInput) { in.KioskId = "k" },
			wantMsg: fmt.Sprintf(ErrMinChars, "2"),
		},
		{
			name:    "long kiosk id",
			modify:  func(in *seatsInput) { in.KioskId = "kiosk-123" },
			wantMsg: fmt.Sprintf(ErrMaxChars, "8"),
		},
		{
			name:    "zero quantity",
			modify:  func(in *seatsInput) { in.Quantity = 0 },
			wantMsg: fmt.Sprintf(ErrMinValue, "1"),
		},
		{
			name:    "large quantity",
			modify:  func(in *seatsInput) { in.Quantity = 21 },
			wantMsg: fmt.Sprintf(ErrMaxValue, "20"),
		},
		{
			name:    "unknown category",
			modify:  func(in *seatsInput) { in.Category = "toys" },
			wantMsg: fmt.Sprintf(ErrOneOf, "food beverage"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.modify(&in)

			err := validate.Struct(in)
			require.Error(t, err)

			var validationErrors validator.ValidationErrors
			require.True(t, errors.As(err, &validationErrors))
			require.Len(t, validationErrors, 1)

			assert.Equal(t, tt.wantMsg, ValidationMessage(validationErrors[0]))
		})
	}

	assert.NoError(t, validate.Struct(seatsInput{Seats: []string{"A1", "Z40"}, Quantity: 20, Category: "food"}))
}
