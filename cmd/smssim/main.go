package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DeliveryStatus mirrors the gateway's message status lifecycle.
type DeliveryStatus string

const (
	StatusQueued      DeliveryStatus = "queued"
	StatusSent        DeliveryStatus = "sent"
	StatusDelivered   DeliveryStatus = "delivered"
	StatusUndelivered DeliveryStatus = "undelivered"
	StatusFailed      DeliveryStatus = "failed"
)

// MessageResponse is the body returned for a create-message request,
// shaped like the real gateway's Messages.json resource.
type MessageResponse struct {
	Sid          string  `json:"sid"`
	AccountSid   string  `json:"account_sid"`
	To           string  `json:"to"`
	From         string  `json:"from"`
	Body         string  `json:"body"`
	Status       string  `json:"status"`
	ErrorCode    *int    `json:"error_code"`
	ErrorMessage *string `json:"error_message"`
	DateCreated  string  `json:"date_created"`
}

// SimGateway simulates the SMS gateway: it accepts create-message
// requests, remembers them, and pushes status callbacks after a
// randomized delay.
type SimGateway struct {
	deliveryRate float64
	minDelay     time.Duration
	maxDelay     time.Duration
	rng          *rand.Rand

	mu       sync.Mutex
	messages map[string]*MessageResponse
}

func NewSimGateway(deliveryRate float64, minDelay, maxDelay time.Duration) *SimGateway {
	return &SimGateway{
		deliveryRate: deliveryRate,
		minDelay:     minDelay,
		maxDelay:     maxDelay,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		messages:     make(map[string]*MessageResponse),
	}
}

func (g *SimGateway) newSid() string {
	return "SM" + strings.ReplaceAll(uuid.New().String(), "-", "")
}

func (g *SimGateway) randomDelay() time.Duration {
	delta := g.maxDelay - g.minDelay
	return g.minDelay + time.Duration(g.rng.Int63n(int64(delta)))
}

func (g *SimGateway) shouldDeliver() bool {
	return g.rng.Float64() < g.deliveryRate
}

// deliver transitions a queued message to its terminal status and, when
// the sender supplied a callback URL, posts the form-encoded status
// update the same way the real gateway does.
func (g *SimGateway) deliver(sid, callback string) {
	time.Sleep(g.randomDelay())

	status := StatusDelivered
	if !g.shouldDeliver() {
		status = StatusUndelivered
	}

	g.mu.Lock()
	if m, ok := g.messages[sid]; ok {
		m.Status = string(status)
	}
	g.mu.Unlock()

	log.Info().
		Str("sid", sid).
		Str("status", string(status)).
		Msg("message reached terminal status")

	if callback == "" {
		return
	}

	form := url.Values{}
	form.Set("MessageSid", sid)
	form.Set("MessageStatus", string(status))

	resp, err := http.PostForm(callback, form)
	if err != nil {
		log.Warn().Err(err).Str("sid", sid).Str("callback", callback).Msg("status callback failed")
		return
	}
	defer resp.Body.Close()

	log.Info().
		Str("sid", sid).
		Str("callback", callback).
		Int("status_code", resp.StatusCode).
		Msg("status callback delivered")
}

type Handler struct {
	gateway *SimGateway
}

func NewHandler(gateway *SimGateway) *Handler {
	return &Handler{gateway: gateway}
}

// CreateMessage handles POST /2010-04-01/Accounts/:sid/Messages.json.
// The request body is form-encoded, matching the gateway client.
func (h *Handler) CreateMessage(c *gin.Context) {
	accountSid := c.Param("sid")

	to := c.PostForm("To")
	from := c.PostForm("From")
	body := c.PostForm("Body")
	callback := c.PostForm("StatusCallback")

	if to == "" || body == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    21604,
			"message": "A 'To' phone number and 'Body' are required.",
		})
		return
	}

	msg := &MessageResponse{
		Sid:         h.gateway.newSid(),
		AccountSid:  accountSid,
		To:          to,
		From:        from,
		Body:        body,
		Status:      string(StatusQueued),
		DateCreated: time.Now().UTC().Format(time.RFC1123Z),
	}

	h.gateway.mu.Lock()
	h.gateway.messages[msg.Sid] = msg
	h.gateway.mu.Unlock()

	log.Info().
		Str("sid", msg.Sid).
		Str("to", to).
		Int("body_len", len(body)).
		Msg("message accepted")

	go h.gateway.deliver(msg.Sid, callback)

	c.JSON(http.StatusCreated, msg)
}

// GetMessage handles GET /2010-04-01/Accounts/:sid/Messages/:message_sid.json.
func (h *Handler) GetMessage(c *gin.Context) {
	sid := c.Param("message_sid")

	h.gateway.mu.Lock()
	msg, ok := h.gateway.messages[strings.TrimSuffix(sid, ".json")]
	h.gateway.mu.Unlock()

	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"code":    20404,
			"message": "The requested resource was not found",
		})
		return
	}

	c.JSON(http.StatusOK, msg)
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "healthy",
		"delivery_rate": h.gateway.deliveryRate,
		"timestamp":     time.Now(),
	})
}

// UpdateConfig allows changing the delivery rate at runtime.
func (h *Handler) UpdateConfig(c *gin.Context) {
	var config struct {
		DeliveryRate *float64 `json:"delivery_rate"`
	}

	if err := c.ShouldBindJSON(&config); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	if config.DeliveryRate != nil {
		if *config.DeliveryRate >= 0 && *config.DeliveryRate <= 1.0 {
			h.gateway.deliveryRate = *config.DeliveryRate
			log.Info().Float64("rate", *config.DeliveryRate).Msg("Updated delivery rate")
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Configuration updated",
		"delivery_rate": h.gateway.deliveryRate,
	})
}

func SetupRouter(handler *Handler) *gin.Engine {
	router := gin.Default()

	router.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", duration).
			Msg("Request processed")
	})

	v := router.Group("/2010-04-01")
	{
		v.POST("/Accounts/:sid/Messages.json", handler.CreateMessage)
		v.GET("/Accounts/:sid/Messages/:message_sid", handler.GetMessage)
	}

	router.GET("/health", handler.HealthCheck)
	router.PUT("/config", handler.UpdateConfig)

	return router
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	port := getEnv("PORT", "8082")
	deliveryRate := getEnvFloat("DELIVERY_RATE", 1)
	minDelay := getEnvDuration("MIN_DELAY", 500*time.Millisecond)
	maxDelay := getEnvDuration("MAX_DELAY", 3*time.Second)

	log.Info().
		Str("port", port).
		Float64("delivery_rate", deliveryRate).
		Dur("min_delay", minDelay).
		Dur("max_delay", maxDelay).
		Msg("Starting SMS gateway simulator")

	gateway := NewSimGateway(deliveryRate, minDelay, maxDelay)
	handler := NewHandler(gateway)
	router := SetupRouter(handler)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		var f float64
		if _, err := fmt.Sscanf(value, "%f", &f); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
