package handlers

import (
	"context"
	"strconv"
	"strings"

	"github.com/fasthttp/router"
	"github.com/peterjpitcher/eventplanner2.0-sub000/internal/model"
	xhttp "github.com/peterjpitcher/eventplanner2.0-sub000/pkg/http"
)

type NotificationService interface {
	SendTest(ctx context.Context, to string) (*model.SmsMessage, error)
	HandleStatusCallback(ctx context.Context, sid string, status model.SmsStatus) error
	RecordInbound(ctx context.Context, from, body string) (*model.SmsMessage, error)
	List(ctx context.Context, f model.SmsFilter) ([]*model.SmsMessage, int64, error)
}

type SmsHandler struct {
	svc NotificationService
}

func RegisterSmsRoutes(e *router.Group, h *SmsHandler) {
	e.GET("/messages", h.ListMessages)
	e.POST("/messages/test", h.SendTestMessage)
	e.POST("/webhooks/sms/inbound", h.InboundWebhook)
	e.POST("/webhooks/sms/status", h.StatusWebhook)
}

func NewSmsHandler(notificationService NotificationService) *SmsHandler {
	return &SmsHandler{
		svc: notificationService,
	}
}

type testMessageRequest struct {
	To string `json:"to"`
}

type smsListResponse struct {
	Items []*model.SmsMessage `json:"items"`
	Total int64               `json:"total"`
}

func (h *SmsHandler) SendTestMessage(ctx *xhttp.RequestCtx) {
	var req testMessageRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	msg, err := h.svc.SendTest(ctx, req.To)
	if err != nil {
		writeError(ctx, 400, err.Error())
		return
	}
	writeJSON(ctx, 201, msg)
}

// InboundWebhook receives a customer's reply, form-encoded per the
// gateway's webhook convention.
func (h *SmsHandler) InboundWebhook(ctx *xhttp.RequestCtx) {
	from := string(ctx.PostArgs().Peek("From"))
	body := string(ctx.PostArgs().Peek("Body"))
	if from == "" {
		writeError(ctx, 400, "From is required")
		return
	}

	if _, err := h.svc.RecordInbound(ctx, from, body); err != nil {
		writeError(ctx, statusForError(err), err.Error())
		return
	}
	writeJSON(ctx, 200, map[string]bool{"received": true})
}

// StatusWebhook lets the gateway report delivery progress for a message
// it was previously handed.
func (h *SmsHandler) StatusWebhook(ctx *xhttp.RequestCtx) {
	sid := string(ctx.PostArgs().Peek("MessageSid"))
	status := string(ctx.PostArgs().Peek("MessageStatus"))
	if sid == "" || status == "" {
		writeError(ctx, 400, "MessageSid and MessageStatus are required")
		return
	}

	if err := h.svc.HandleStatusCallback(ctx, sid, model.SmsStatus(status)); err != nil {
		writeError(ctx, statusForError(err), err.Error())
		return
	}
	writeJSON(ctx, 200, map[string]bool{"updated": true})
}

func (h *SmsHandler) ListMessages(ctx *xhttp.RequestCtx) {
	var f model.SmsFilter

	if v := query(ctx, "booking_id"); v != "" {
		if id, e := strconv.ParseInt(v, 10, 64); e == nil {
			f.BookingID = &id
		}
	}
	if v := query(ctx, "customer_id"); v != "" {
		if id, e := strconv.ParseInt(v, 10, 64); e == nil {
			f.CustomerID = &id
		}
	}
	if v := query(ctx, "type"); v != "" {
		parts := strings.Split(v, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
			if parts[i] != "" {
				f.Types = append(f.Types, model.SmsType(parts[i]))
			}
		}
	}
	if v := query(ctx, "status"); v != "" {
		parts := strings.Split(v, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
			if parts[i] != "" {
				f.Statuses = append(f.Statuses, model.SmsStatus(parts[i]))
			}
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
	if v := query(ctx, "include_archived"); v != "" {
		f.IncludeArchived = v == "true" || v == "1"
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
	writeJSON(ctx, 200, smsListResponse{Items: items, Total: total})
}
