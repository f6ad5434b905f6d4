package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/peterjpitcher/eventplanner2.0-sub000/internal/model"
	"github.com/peterjpitcher/eventplanner2.0-sub000/internal/repository"
	"github.com/peterjpitcher/eventplanner2.0-sub000/internal/services"
	xhttp "github.com/peterjpitcher/eventplanner2.0-sub000/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) Create(ctx context.Context, p model.BookingCreateRequest) (*model.BookingResult, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BookingResult), args.Error(1)
}

func (m *MockBookingService) Update(ctx context.Context, id int64, p model.BookingCreateRequest) (*model.BookingResult, error) {
	args := m.Called(ctx, id, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BookingResult), args.Error(1)
}

func (m *MockBookingService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBookingService) Get(ctx context.Context, id int64) (*model.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Booking), args.Error(1)
}

func (m *MockBookingService) List(ctx context.Context, f model.BookingFilter) ([]*model.Booking, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*model.Booking), args.Get(1).(int64), args.Error(2)
}

func setupTestContext(method, path string, body []byte) *xhttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	if body != nil {
		ctx.Request.SetBody(body)
	}
	return ctx
}

func TestBookingHandler_CreateBooking(t *testing.T) {
	t.Run("successful creation", func(t *testing.T) {
		svc := new(MockBookingService)
		handler := NewBookingHandler(svc)

		body := []byte(`{"customer_id": 1, "event_id": 2, "seats_or_reminder": 3}`)

		svc.On("Create", mock.Anything, mock.MatchedBy(func(p model.BookingCreateRequest) bool {
			return p.CustomerID == 1 && p.EventID == 2 && p.Seats == 3 && p.SendNotification
		})).Return(&model.BookingResult{Booking: &model.Booking{ID: 7, Seats: 3}, SmsSent: true}, nil)

		ctx := setupTestContext("POST", "/api/v1/bookings", body)
		handler.CreateBooking(ctx)

		assert.Equal(t, 201, ctx.Response.StatusCode())

		var response model.BookingResult
		err := json.Unmarshal(ctx.Response.Body(), &response)
		require.NoError(t, err)
		assert.Equal(t, int64(7), response.Booking.ID)
		assert.True(t, response.SmsSent)

		svc.AssertExpectations(t)
	})

	t.Run("seat count as numeric string", func(t *testing.T) {
		svc := new(MockBookingService)
		handler := NewBookingHandler(svc)

		body := []byte(`{"customer_id": 1, "event_id": 2, "seats_or_reminder": "4"}`)

		svc.On("Create", mock.Anything, mock.MatchedBy(func(p model.BookingCreateRequest) bool {
			return p.Seats == 4
		})).Return(&model.BookingResult{Booking: &model.Booking{ID: 8, Seats: 4}}, nil)

		ctx := setupTestContext("POST", "/api/v1/bookings", body)
		handler.CreateBooking(ctx)

		assert.Equal(t, 201, ctx.Response.StatusCode())
		svc.AssertExpectations(t)
	})

	t.Run("send_notification false is passed through", func(t *testing.T) {
		svc := new(MockBookingService)
		handler := NewBookingHandler(svc)

		body := []byte(`{"customer_id": 1, "event_id": 2, "seats_or_reminder": 1, "send_notification": false}`)

		svc.On("Create", mock.Anything, mock.MatchedBy(func(p model.BookingCreateRequest) bool {
			return !p.SendNotification
		})).Return(&model.BookingResult{Booking: &model.Booking{ID: 9}}, nil)

		ctx := setupTestContext("POST", "/api/v1/bookings", body)
		handler.CreateBooking(ctx)

		assert.Equal(t, 201, ctx.Response.StatusCode())
		svc.AssertExpectations(t)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		svc := new(MockBookingService)
		handler := NewBookingHandler(svc)

		ctx := setupTestContext("POST", "/api/v1/bookings", []byte("not json"))
		handler.CreateBooking(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())

		var response map[string]string
		err := json.Unmarshal(ctx.Response.Body(), &response)
		require.NoError(t, err)
		assert.Contains(t, response["error"], "invalid JSON")
	})

	t.Run("non-numeric seat value", func(t *testing.T) {
		svc := new(MockBookingService)
		handler := NewBookingHandler(svc)

		body := []byte(`{"customer_id": 1, "event_id": 2, "seats_or_reminder": "lots"}`)

		ctx := setupTestContext("POST", "/api/v1/bookings", body)
		handler.CreateBooking(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("validation error maps to 400", func(t *testing.T) {
		svc := new(MockBookingService)
		handler := NewBookingHandler(svc)

		body := []byte(`{"customer_id": 1, "event_id": 2, "seats_or_reminder": 0}`)
		svc.On("Create", mock.Anything, mock.Anything).Return(nil, model.ErrInvalidSeats)

		ctx := setupTestContext("POST", "/api/v1/bookings", body)
		handler.CreateBooking(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
	})

	t.Run("missing customer maps to 404", func(t *testing.T) {
		svc := new(MockBookingService)
		handler := NewBookingHandler(svc)

		body := []byte(`{"customer_id": 99, "event_id": 2, "seats_or_reminder": 1}`)
		svc.On("Create", mock.Anything, mock.Anything).Return(nil, repository.ErrCustomerNotFound)

		ctx := setupTestContext("POST", "/api/v1/bookings", body)
		handler.CreateBooking(ctx)

		assert.Equal(t, 404, ctx.Response.StatusCode())
	})
}

func TestBookingHandler_GetBooking(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := new(MockBookingService)
		handler := NewBookingHandler(svc)

		svc.On("Get", mock.Anything, int64(5)).Return(&model.Booking{ID: 5, Seats: 2}, nil)

		ctx := setupTestContext("GET", "/api/v1/bookings/5", nil)
		ctx.SetUserValue("id", "5")
		handler.GetBooking(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
	})

	t.Run("bad id", func(t *testing.T) {
		svc := new(MockBookingService)
		handler := NewBookingHandler(svc)

		ctx := setupTestContext("GET", "/api/v1/bookings/abc", nil)
		ctx.SetUserValue("id", "abc")
		handler.GetBooking(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
		svc.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		svc := new(MockBookingService)
		handler := NewBookingHandler(svc)

		svc.On("Get", mock.Anything, int64(404)).Return(nil, repository.ErrBookingNotFound)

		ctx := setupTestContext("GET", "/api/v1/bookings/404", nil)
		ctx.SetUserValue("id", "404")
		handler.GetBooking(ctx)

		assert.Equal(t, 404, ctx.Response.StatusCode())
	})
}

func TestBookingHandler_DeleteBooking(t *testing.T) {
	svc := new(MockBookingService)
	handler := NewBookingHandler(svc)

	svc.On("Delete", mock.Anything, int64(5)).Return(nil)

	ctx := setupTestContext("DELETE", "/api/v1/bookings/5", nil)
	ctx.SetUserValue("id", "5")
	handler.DeleteBooking(ctx)

	assert.Equal(t, 200, ctx.Response.StatusCode())

	var response map[string]bool
	err := json.Unmarshal(ctx.Response.Body(), &response)
	require.NoError(t, err)
	assert.True(t, response["deleted"])
}

func TestStatusForError(t *testing.T) {
	assert.Equal(t, 404, statusForError(repository.ErrBookingNotFound))
	assert.Equal(t, 404, statusForError(repository.ErrEventNotFound))
	assert.Equal(t, 404, statusForError(services.ErrNotFound))
	assert.Equal(t, 400, statusForError(model.ErrInvalidSeats))
	assert.Equal(t, 400, statusForError(model.ErrInvalidMobile))
	assert.Equal(t, 400, statusForError(services.ErrEventCanceled))
	assert.Equal(t, 400, statusForError(repository.ErrCustomerHasBookings))
	assert.Equal(t, 500, statusForError(errors.New("db exploded")))
}

func TestSeatsField_Unmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
		err   bool
	}{
		{"number", `3`, 3, false},
		{"numeric string", `"2"`, 2, false},
		{"zero", `0`, 0, false},
		{"null", `null`, 0, false},
		{"empty string", `""`, 0, false},
		{"word", `"lots"`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s seatsField
			err := json.Unmarshal([]byte(tt.input), &s)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, int(s))
		})
	}
}
