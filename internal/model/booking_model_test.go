package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingCreateRequest_Validate(t *testing.T) {
	t.Run("regular booking needs seats", func(t *testing.T) {
		err := BookingCreateRequest{CustomerID: 1, EventID: 2, Seats: 2}.Validate()
		assert.NoError(t, err)
	})

	t.Run("zero seats rejected", func(t *testing.T) {
		err := BookingCreateRequest{CustomerID: 1, EventID: 2, Seats: 0}.Validate()
		assert.ErrorIs(t, err, ErrInvalidSeats)
	})

	t.Run("negative seats rejected", func(t *testing.T) {
		err := BookingCreateRequest{CustomerID: 1, EventID: 2, Seats: -1}.Validate()
		assert.ErrorIs(t, err, ErrInvalidSeats)
	})

	t.Run("reminder only allows zero seats", func(t *testing.T) {
		err := BookingCreateRequest{CustomerID: 1, EventID: 2, ReminderOnly: true}.Validate()
		assert.NoError(t, err)
	})

	t.Run("reminder only rejects negative seats", func(t *testing.T) {
		err := BookingCreateRequest{CustomerID: 1, EventID: 2, Seats: -1, ReminderOnly: true}.Validate()
		assert.ErrorIs(t, err, ErrInvalidSeats)
	})

	t.Run("missing customer", func(t *testing.T) {
		err := BookingCreateRequest{EventID: 2, Seats: 1}.Validate()
		assert.ErrorIs(t, err, ErrMissingCustomer)
	})

	t.Run("missing event", func(t *testing.T) {
		err := BookingCreateRequest{CustomerID: 1, Seats: 1}.Validate()
		assert.ErrorIs(t, err, ErrMissingEvent)
	})
}

func TestValidCallbackStatus(t *testing.T) {
	valid := []SmsStatus{SmsStatusQueued, SmsStatusSent, SmsStatusDelivered, SmsStatusUndelivered, SmsStatusFailed}
	for _, s := range valid {
		assert.True(t, ValidCallbackStatus(s), string(s))
	}

	invalid := []SmsStatus{SmsStatusSimulated, SmsStatusReceived, SmsStatus(""), SmsStatus("exploded")}
	for _, s := range invalid {
		assert.False(t, ValidCallbackStatus(s), string(s))
	}
}

func TestCustomerFullName(t *testing.T) {
	c := &Customer{FirstName: "Sarah", LastName: "Jones"}
	assert.Equal(t, "Sarah Jones", c.FullName())

	c = &Customer{FirstName: "Sarah"}
	assert.Equal(t, "Sarah", c.FullName())
}
