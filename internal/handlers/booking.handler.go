package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/fasthttp/router"
	"github.com/peterjpitcher/eventplanner2.0-sub000/internal/model"
	"github.com/peterjpitcher/eventplanner2.0-sub000/internal/repository"
	"github.com/peterjpitcher/eventplanner2.0-sub000/internal/services"
	xhttp "github.com/peterjpitcher/eventplanner2.0-sub000/pkg/http"
)

type BookingService interface {
	Create(ctx context.Context, p model.BookingCreateRequest) (*model.BookingResult, error)
	Update(ctx context.Context, id int64, p model.BookingCreateRequest) (*model.BookingResult, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*model.Booking, error)
	List(ctx context.Context, f model.BookingFilter) ([]*model.Booking, int64, error)
}

type BookingHandler struct {
	svc BookingService
}

func RegisterBookingRoutes(e *router.Group, h *BookingHandler) {
	e.POST("/bookings", h.CreateBooking)
	e.GET("/bookings", h.ListBookings)
	e.GET("/bookings/{id}", h.GetBooking)
	e.PUT("/bookings/{id}", h.UpdateBooking)
	e.DELETE("/bookings/{id}", h.DeleteBooking)
}

func NewBookingHandler(bookingService BookingService) *BookingHandler {
	return &BookingHandler{
		svc: bookingService,
	}
}

// seatsField accepts the legacy wire shape where the seat count arrives
// as either a JSON number or a numeric string ("2").
type seatsField int

func (s *seatsField) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if raw == "" || raw == "null" {
		*s = 0
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return errors.New("seats_or_reminder must be an integer")
	}
	*s = seatsField(n)
	return nil
}

type bookingRequest struct {
	CustomerID       int64      `json:"customer_id"`
	EventID          int64      `json:"event_id"`
	Seats            seatsField `json:"seats_or_reminder"`
	ReminderOnly     bool       `json:"reminder_only"`
	Notes            string     `json:"notes"`
	SendNotification *bool      `json:"send_notification"`
}

func (r bookingRequest) toCreateRequest() model.BookingCreateRequest {
	send := true
	if r.SendNotification != nil {
		send = *r.SendNotification
	}
	return model.BookingCreateRequest{
		CustomerID:       r.CustomerID,
		EventID:          r.EventID,
		Seats:            int(r.Seats),
		ReminderOnly:     r.ReminderOnly,
		Notes:            r.Notes,
		SendNotification: send,
	}
}

type bookingListResponse struct {
	Items []*model.Booking `json:"items"`
	Total int64            `json:"total"`
}

/* --------------------------------- Routes ----------------------------------- */

func (h *BookingHandler) CreateBooking(ctx *xhttp.RequestCtx) {
	var req bookingRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	res, err := h.svc.Create(ctx, req.toCreateRequest())
	if err != nil {
		writeError(ctx, statusForError(err), err.Error())
		return
	}
	writeJSON(ctx, 201, res)
}

func (h *BookingHandler) UpdateBooking(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, 400, "invalid booking id")
		return
	}

	var req bookingRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	res, err := h.svc.Update(ctx, id, req.toCreateRequest())
	if err != nil {
		writeError(ctx, statusForError(err), err.Error())
		return
	}
	writeJSON(ctx, 200, res)
}

func (h *BookingHandler) DeleteBooking(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, 400, "invalid booking id")
		return
	}

	if err := h.svc.Delete(ctx, id); err != nil {
		writeError(ctx, statusForError(err), err.Error())
		return
	}
	writeJSON(ctx, 200, map[string]bool{"deleted": true})
}

func (h *BookingHandler) GetBooking(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, 400, "invalid booking id")
		return
	}

	b, err := h.svc.Get(ctx, id)
	if err != nil {
		writeError(ctx, statusForError(err), err.Error())
		return
	}
	writeJSON(ctx, 200, b)
}

func (h *BookingHandler) ListBookings(ctx *xhttp.RequestCtx) {
	var f model.BookingFilter

	if v := query(ctx, "customer_id"); v != "" {
		if id, e := strconv.ParseInt(v, 10, 64); e == nil {
			f.CustomerID = &id
		}
	}
	if v := query(ctx, "event_id"); v != "" {
		if id, e := strconv.ParseInt(v, 10, 64); e == nil {
			f.EventID = &id
		}
	}
	if v := query(ctx, "limit"); v != "" {
		if n, e := strconv.Atoi(v); e == nil {
			f.Limit = n
		}
	}
	if v := query(ctx, "offset"); v != "" {
		if n, e := strconv.Atoi(v); e == nil {
			f.Offset = n
		}
	}
	if strings.EqualFold(query(ctx, "order"), "desc") {
		f.Desc = true
	}

	items, total, err := h.svc.List(ctx, f)
	if err != nil {
		writeError(ctx, statusForError(err), err.Error())
		return
	}
	writeJSON(ctx, 200, bookingListResponse{Items: items, Total: total})
}

/* -------------------------------- Helpers ----------------------------------- */

func readJSON(ctx *xhttp.RequestCtx, dst any) error {
	body := ctx.PostBody()
	return json.Unmarshal(body, dst)
}

func writeJSON(ctx *xhttp.RequestCtx, status int, v any) {
	b, _ := json.Marshal(v)
	ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
	ctx.Response.SetStatusCode(status)
	ctx.Response.SetBodyRaw(b)
}

func writeError(ctx *xhttp.RequestCtx, status int, msg string) {
	writeJSON(ctx, status, map[string]string{"error": msg})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, repository.ErrBookingNotFound),
		errors.Is(err, repository.ErrCustomerNotFound),
		errors.Is(err, repository.ErrEventNotFound),
		errors.Is(err, repository.ErrCategoryNotFound),
		errors.Is(err, repository.ErrMessageNotFound),
		errors.Is(err, services.ErrNotFound):
		return 404
	case errors.Is(err, model.ErrMissingCustomer),
		errors.Is(err, model.ErrMissingEvent),
		errors.Is(err, model.ErrInvalidSeats),
		errors.Is(err, model.ErrInvalidMobile),
		errors.Is(err, model.ErrEmptyName),
		errors.Is(err, model.ErrEmptyTitle),
		errors.Is(err, model.ErrInvalidCapacity),
		errors.Is(err, model.ErrMissingStart),
		errors.Is(err, model.ErrUnknownSmsStatus),
		errors.Is(err, services.ErrEventCanceled),
		errors.Is(err, services.ErrEmptyBody),
		errors.Is(err, repository.ErrCustomerHasBookings):
		return 400
	default:
		return 500
	}
}

func pathInt64(ctx *xhttp.RequestCtx, name string) (int64, error) {
	v, _ := ctx.UserValue(name).(string)
	return strconv.ParseInt(v, 10, 64)
}

func query(ctx *xhttp.RequestCtx, key string) string {
	return string(ctx.QueryArgs().Peek(key))
}

func parseTime(s string) (time.Time, error) {
	// Accept RFC3339 or YYYY-MM-DD
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
