package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/peterjpitcher/eventplanner2.0-sub000/internal/config"
	gateway "github.com/peterjpitcher/eventplanner2.0-sub000/internal/gateways"
	"github.com/peterjpitcher/eventplanner2.0-sub000/internal/handlers"
	"github.com/peterjpitcher/eventplanner2.0-sub000/internal/repository"
	"github.com/peterjpitcher/eventplanner2.0-sub000/internal/services"
	xhttp "github.com/peterjpitcher/eventplanner2.0-sub000/pkg/http"
	"github.com/peterjpitcher/eventplanner2.0-sub000/pkg/logger"
	"github.com/peterjpitcher/eventplanner2.0-sub000/pkg/pg"
	"github.com/peterjpitcher/eventplanner2.0-sub000/pkg/prom"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {

	err := config.Load(argContainsEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}
	cfg := config.Get()

	// transport (tcp for now)
	s := xhttp.NewServer(xhttp.DefaultServerOption)
	s.Server.ReadBufferSize = 1024 * 16
	s.Server.WriteBufferSize = 1024 * 16
	s.Use(xhttp.CompressMiddleware(6))
	s.Use(xhttp.TimeoutMiddleware(time.Second * 5))
	s.Use(xhttp.RequestLoggerMiddleware)
	s.Use(xhttp.RecoverMiddleware)
	s.Router = xhttp.CreateDefaultRouter()

	readConf := pg.Config{
		User:     cfg.PostgresReadUser,
		Host:     cfg.PostgresReadHost,
		Port:     cfg.PostgresReadPort,
		Password: cfg.PostgresReadPassword,
		Database: cfg.PostgresReadDatabase,
	}
	writeConf := pg.Config{
		User:     cfg.PostgresWriteUser,
		Host:     cfg.PostgresWriteHost,
		Port:     cfg.PostgresWritePort,
		Password: cfg.PostgresWritePassword,
		Database: cfg.PostgresWriteDatabase,
	}

	pgDebug := cfg.AppEnv == "dev"
	db, err := pg.CreateReadWrite(readConf, writeConf, pgDebug)
	if err != nil {
		logger.Error("failed connecting to pg", "error", err)
		return
	}

	if cfg.PromNamespace != "" {
		host, _ := os.Hostname()
		if err := prom.Create(host, cfg.AppEnv, cfg.PromNamespace); err != nil {
			logger.Error("failed creating metrics", "error", err)
		}
		if cfg.AppDebugMetricsAddr != "" {
			go prom.ListenAndServer(cfg.AppDebugMetricsAddr, cfg.AppDebugMetricsURI)
		}
	}

	// gateway client only exists when real sends are possible
	var sender services.SmsSender
	if cfg.SmsEnabled && !cfg.SmsSimulate {
		if !cfg.SmsConfigured() {
			logger.Warn("sms enabled but gateway credentials are missing, sends will be refused")
		} else {
			client, err := gateway.NewClient(gateway.Config{
				BaseURL:    cfg.SmsGatewayURL,
				AccountSid: cfg.SmsAccountSid,
				AuthToken:  cfg.SmsAuthToken,
				Timeout:    time.Duration(cfg.SmsTimeoutMills) * time.Millisecond,
			})
			if err != nil {
				logger.Error("failed creating sms gateway client", "error", err)
				return
			}
			sender = client
		}
	}

	bookingRepo := repository.NewBookingRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	eventRepo := repository.NewEventRepository(db)
	messageRepo := repository.NewSmsMessageRepository(db)

	// services
	notificationService := services.NewNotificationService(messageRepo, customerRepo, sender, cfg.SmsEnabled, cfg.SmsSimulate, cfg.SmsFromNumber)
	bookingService := services.NewBookingService(bookingRepo, customerRepo, eventRepo, messageRepo, notificationService)
	customerService := services.NewCustomerService(customerRepo)
	eventService := services.NewEventService(eventRepo, bookingRepo, notificationService)
	reminderService := services.NewReminderService(bookingRepo, messageRepo, notificationService)
	healthService := services.NewHealthService()

	// v1 handlers
	bookingHandler := handlers.NewBookingHandler(bookingService)
	customerHandler := handlers.NewCustomerHandler(customerService)
	eventHandler := handlers.NewEventHandler(eventService)
	smsHandler := handlers.NewSmsHandler(notificationService)
	reminderHandler := handlers.NewReminderHandler(reminderService, cfg.ReminderAPISecret, cfg.ReminderAllowUnauthenticated)
	healthHandler := handlers.NewHealthHandler(healthService)

	g := s.Router.Group("/api/v1")
	handlers.RegisterBookingRoutes(g, bookingHandler)
	handlers.RegisterCustomerRoutes(g, customerHandler)
	handlers.RegisterEventRoutes(g, eventHandler)
	handlers.RegisterSmsRoutes(g, smsHandler)
	handlers.RegisterReminderRoutes(g, reminderHandler)
	handlers.RegisterHealthRoutes(g, healthHandler)

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		var err = s.ListenAndServe(cfg.HttpListenAddr)
		if err != nil {
			logger.Error("error in running http-server", "error", err)
		}
	}()

	<-c
	s.Shutdown()
}

func argContainsEnvPath() string {
	for _, v := range os.Args {
		if strings.Contains(v, "--env=") {
			s := strings.Split(v, "=")
			if _, err := os.Open(s[1]); err != nil {
				logger.Error("failed to open the passed env file, got error" + err.Error())
				return ""
			}
			return s[1]
		}
	}
	return ""
}
