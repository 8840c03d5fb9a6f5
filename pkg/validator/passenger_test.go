package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyvoyage/flight-booking-backend/internal/models"
)

func valid() models.Passenger {
	return models.Passenger{
		Name:        "Budi Santoso",
		Email:       "budi@example.com",
		Phone:       "081234567890",
		DateOfBirth: "1988-11-02",
	}
}

func TestValidate(t *testing.T) {
	v := NewPassengerValidator()

	t.Run("ValidPassenger", func(t *testing.T) {
		ok, errs := v.Validate([]models.Passenger{valid()})
		assert.True(t, ok)
		assert.Empty(t, errs)
	})

	t.Run("EmptyListIsValid", func(t *testing.T) {
		ok, errs := v.Validate(nil)
		assert.True(t, ok)
		assert.Empty(t, errs)
	})

	t.Run("NameWhitespaceOnly", func(t *testing.T) {
		p := valid()
		p.Name = "   "
		ok, errs := v.Validate([]models.Passenger{p})
		assert.False(t, ok)
		assert.Equal(t, MsgNameRequired, errs[0]["name"])
	})

	t.Run("EmailShapes", func(t *testing.T) {
		bad := []string{"", "plainaddress", "a@b", "a @b.com", "a@b .com", "@b.com"}
		for _, email := range bad {
			p := valid()
			p.Email = email
			ok, errs := v.Validate([]models.Passenger{p})
			assert.False(t, ok, "email %q", email)
			assert.Equal(t, MsgEmailRequired, errs[0]["email"])
		}

		good := []string{"a@b.co", "first.last@sub.domain.org", "x+tag@y.io"}
		for _, email := range good {
			p := valid()
			p.Email = email
			ok, _ := v.Validate([]models.Passenger{p})
			assert.True(t, ok, "email %q", email)
		}
	})

	t.Run("PhoneTooShortAfterTrim", func(t *testing.T) {
		p := valid()
		p.Phone = "  1234567  "
		ok, errs := v.Validate([]models.Passenger{p})
		assert.False(t, ok)
		assert.Equal(t, MsgPhoneRequired, errs[0]["phone"])

		p.Phone = "12345678"
		ok, _ = v.Validate([]models.Passenger{p})
		assert.True(t, ok)
	})

	t.Run("DateOfBirthRequired", func(t *testing.T) {
		p := valid()
		p.DateOfBirth = ""
		ok, errs := v.Validate([]models.Passenger{p})
		assert.False(t, ok)
		assert.Equal(t, MsgDOBRequired, errs[0]["date_of_birth"])
	})

	t.Run("AllErrorsCollectedPerPassenger", func(t *testing.T) {
		ok, errs := v.Validate([]models.Passenger{
			valid(),
			{},
			{Name: "Ani", Email: "ani@example.com", Phone: "0812345678", DateOfBirth: ""},
		})

		assert.False(t, ok)
		require.Len(t, errs, 2)
		assert.NotContains(t, errs, 0)
		assert.Len(t, errs[1], 4)
		assert.Len(t, errs[2], 1)
		assert.Equal(t, MsgDOBRequired, errs[2]["date_of_birth"])
	})
}
