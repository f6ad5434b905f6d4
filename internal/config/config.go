package config

import (
	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/peterjpitcher/eventplanner2.0-sub000/pkg/logger"
	"github.com/pkg/errors"
)

const ConfigTagName = "env"
const ConfigDefaultTagName = "default"

var config *Config

// Config holds every configuration value used by the event planner.
// Only this struct must be used to hold configuration; no direct access
// to env, ini or any other config source should be made elsewhere.
type Config struct {
	AppEnv              string `env:"APP_ENV" default:"dev"`
	AppName             string `env:"APP_NAME" default:"event_planner"`
	AppDebug            bool   `env:"APP_DEBUG" default:"1"`
	AppDebugMetricsAddr string `env:"APP_DEBUG_METRIC_ADDR"`
	AppDebugMetricsURI  string `env:"APP_DEBUG_METRIC_URI"`

	HttpListenAddr         string `env:"HTTP_LISTEN_ADDR" validation:"mustExists"`
	HttpServerReadTimeout  int    `env:"HTTP_SERVER_READ_TIMEOUT"`
	HttpServerWriteTimeout int    `env:"HTTP_SERVER_WRITE_TIMEOUT"`

	PostgresReadHost     string `env:"POSTGRES_READ_HOST"`
	PostgresReadPort     string `env:"POSTGRES_READ_PORT"`
	PostgresReadUser     string `env:"POSTGRES_READ_USER"`
	PostgresReadPassword string `env:"POSTGRES_READ_PASSWORD"`
	PostgresReadDatabase string `env:"POSTGRES_READ_DBNAME"`

	PostgresWriteHost     string `env:"POSTGRES_WRITE_HOST"`
	PostgresWritePort     string `env:"POSTGRES_WRITE_PORT"`
	PostgresWriteUser     string `env:"POSTGRES_WRITE_USER"`
	PostgresWritePassword string `env:"POSTGRES_WRITE_PASSWORD"`
	PostgresWriteDatabase string `env:"POSTGRES_WRITE_DBNAME"`

	PromNamespace string `env:"PROM_NAMESPACE"`

	// SMS gateway settings. SmsEnabled gates every outbound send;
	// SmsSimulate short-circuits sends to a synthetic success so that
	// non-production environments never message real numbers.
	SmsEnabled      bool   `env:"SMS_ENABLED"`
	SmsSimulate     bool   `env:"SMS_SIMULATE" default:"1"`
	SmsAccountSid   string `env:"SMS_ACCOUNT_SID"`
	SmsAuthToken    string `env:"SMS_AUTH_TOKEN"`
	SmsFromNumber   string `env:"SMS_FROM_NUMBER"`
	SmsGatewayURL   string `env:"SMS_GATEWAY_URL" default:"https://api.twilio.com/2010-04-01"`
	SmsTimeoutMills int    `env:"SMS_TIMEOUT_MS" default:"10000"`

	// ReminderAPISecret authenticates the external scheduler that triggers
	// reminder runs. ReminderAllowUnauthenticated is a dev-only escape hatch
	// and must never be set in production.
	ReminderAPISecret            string `env:"REMINDER_API_SECRET"`
	ReminderAllowUnauthenticated bool   `env:"REMINDER_ALLOW_UNAUTHENTICATED"`
}

func Load(path string) error {
	logger.Info("loading configs..", "path", path)
	c := &Config{}
	var err error
	if path != "" {
		logger.Info("trying to publish env from file", "path", path)
		err = godotenv.Load(path)
		if err != nil {
			return errors.New("failed to load configuration file " + path + " error: " + err.Error())
		}
	}

	_, err = env.UnmarshalFromEnviron(c)

	if err != nil {
		return errors.New("failed to map env variables to Configuration object " + " error: " + err.Error())
	}

	config = c
	return nil
}

func Get() *Config {
	if config == nil {
		logger.Panic("Config is not initialized")
	}
	return config
}

// SmsConfigured reports whether gateway credentials are present. The
// dispatcher refuses to attempt real sends without them.
func (c *Config) SmsConfigured() bool {
	return c.SmsAccountSid != "" && c.SmsAuthToken != "" && c.SmsFromNumber != ""
}
