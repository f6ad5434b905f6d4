package handlers

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/fasthttp/router"
	"github.com/peterjpitcher/eventplanner2.0-sub000/internal/model"
	xhttp "github.com/peterjpitcher/eventplanner2.0-sub000/pkg/http"
)

type EventService interface {
	Create(ctx context.Context, p model.EventCreateRequest) (*model.Event, error)
	Update(ctx context.Context, id int64, p model.EventCreateRequest) (*model.Event, error)
	Cancel(ctx context.Context, id int64) (int, error)
	Get(ctx context.Context, id int64) (*model.Event, error)
	List(ctx context.Context, f model.EventFilter) ([]*model.Event, int64, error)
	ListCategories(ctx context.Context) ([]*model.EventCategory, error)
}

type EventHandler struct {
	svc EventService
}

func RegisterEventRoutes(e *router.Group, h *EventHandler) {
	e.POST("/events", h.CreateEvent)
	e.GET("/events", h.ListEvents)
	e.GET("/events/{id}", h.GetEvent)
	e.PUT("/events/{id}", h.UpdateEvent)
	e.POST("/events/{id}/cancel", h.CancelEvent)
	e.GET("/event-categories", h.ListCategories)
}

func NewEventHandler(eventService EventService) *EventHandler {
	return &EventHandler{
		svc: eventService,
	}
}

type eventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	StartsAt    string `json:"starts_at"`
	Capacity    int    `json:"capacity"`
	CategoryID  *int64 `json:"category_id"`
	Published   bool   `json:"published"`
}

func (r eventRequest) toCreateRequest() (model.EventCreateRequest, error) {
	var startsAt time.Time
	if r.StartsAt != "" {
		t, err := parseTime(r.StartsAt)
		if err != nil {
			return model.EventCreateRequest{}, err
		}
		startsAt = t
	}
	return model.EventCreateRequest{
		Title:       r.Title,
		Description: r.Description,
		StartsAt:    startsAt,
		Capacity:    r.Capacity,
		CategoryID:  r.CategoryID,
		Published:   r.Published,
	}, nil
}

type eventListResponse struct {
	Items []*model.Event `json:"items"`
	Total int64          `json:"total"`
}

func (h *EventHandler) CreateEvent(ctx *xhttp.RequestCtx) {
	var req eventRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	p, err := req.toCreateRequest()
	if err != nil {
		writeError(ctx, 400, "invalid starts_at: "+err.Error())
		return
	}

	ev, err := h.svc.Create(ctx, p)
	if err != nil {
		writeError(ctx, statusForError(err), err.Error())
		return
	}
	writeJSON(ctx, 201, ev)
}

func (h *EventHandler) UpdateEvent(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, 400, "invalid event id")
		return
	}

	var req eventRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	p, err := req.toCreateRequest()
	if err != nil {
		writeError(ctx, 400, "invalid starts_at: "+err.Error())
		return
	}

	ev, err := h.svc.Update(ctx, id, p)
	if err != nil {
		writeError(ctx, statusForError(err), err.Error())
		return
	}
	writeJSON(ctx, 200, ev)
}

func (h *EventHandler) CancelEvent(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, 400, "invalid event id")
		return
	}

	notified, err := h.svc.Cancel(ctx, id)
	if err != nil {
		writeError(ctx, statusForError(err), err.Error())
		return
	}
	writeJSON(ctx, 200, map[string]any{"canceled": true, "notified": notified})
}

func (h *EventHandler) GetEvent(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, 400, "invalid event id")
		return
	}

	ev, err := h.svc.Get(ctx, id)
	if err != nil {
		writeError(ctx, statusForError(err), err.Error())
		return
	}
	writeJSON(ctx, 200, ev)
}

func (h *EventHandler) ListEvents(ctx *xhttp.RequestCtx) {
	var f model.EventFilter

	if v := query(ctx, "category_id"); v != "" {
		if id, e := strconv.ParseInt(v, 10, 64); e == nil {
			f.CategoryID = &id
		}
	}
	if v := query(ctx, "from"); v != "" {
		if t, e := parseTime(v); e == nil {
			f.From = &t
		}
	}
	if v := query(ctx, "to"); v != "" {
		if t, e := parseTime(v); e == nil {
			f.To = &t
		}
	}
	if v := query(ctx, "published"); v != "" {
		f.PublishedOnly = v == "true" || v == "1"
	}
	if v := query(ctx, "include_canceled"); v != "" {
		f.IncludeCanceled = v == "true" || v == "1"
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
	writeJSON(ctx, 200, eventListResponse{Items: items, Total: total})
}

func (h *EventHandler) ListCategories(ctx *xhttp.RequestCtx) {
	items, err := h.svc.ListCategories(ctx)
	if err != nil {
		writeError(ctx, statusForError(err), err.Error())
		return
	}
	writeJSON(ctx, 200, items)
}
