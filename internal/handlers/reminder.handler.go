package handlers

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"github.com/fasthttp/router"
	"github.com/peterjpitcher/eventplanner2.0-sub000/internal/model"
	xhttp "github.com/peterjpitcher/eventplanner2.0-sub000/pkg/http"
)

type ReminderService interface {
	Process(ctx context.Context, now time.Time) ([]*model.ReminderSummary, error)
}

// ReminderHandler exposes the scan trigger hit by the external scheduler.
// The scheduler itself (cron, hosted trigger) is out of scope here.
type ReminderHandler struct {
	svc ReminderService
	// secret authenticates the caller; empty plus allowUnauthenticated
	// lets dev environments trigger scans without one.
	secret               string
	allowUnauthenticated bool
}

func RegisterReminderRoutes(e *router.Group, h *ReminderHandler) {
	e.POST("/reminders/process", h.ProcessReminders)
}

func NewReminderHandler(reminderService ReminderService, secret string, allowUnauthenticated bool) *ReminderHandler {
	return &ReminderHandler{
		svc:                  reminderService,
		secret:               secret,
		allowUnauthenticated: allowUnauthenticated,
	}
}

type reminderResponse struct {
	Summaries []*model.ReminderSummary `json:"summaries"`
}

func (h *ReminderHandler) ProcessReminders(ctx *xhttp.RequestCtx) {
	if !h.authorized(ctx) {
		writeError(ctx, 401, "unauthorized")
		return
	}

	summaries, err := h.svc.Process(ctx, time.Now())
	if err != nil {
		writeError(ctx, 500, err.Error())
		return
	}
	writeJSON(ctx, 200, reminderResponse{Summaries: summaries})
}

func (h *ReminderHandler) authorized(ctx *xhttp.RequestCtx) bool {
	if h.secret == "" {
		return h.allowUnauthenticated
	}

	auth := string(ctx.Request.Header.Peek("Authorization"))
	token, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(h.secret)) == 1
}
