package config

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   Server
	Database Database
	Backend  Backend
	Engine   Engine
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// Backend points at the interview backend collaborator that generates
// question sets and produces asynchronous scoring.
type Backend struct {
	BaseURL        string
	RequestTimeout time.Duration
}

// Engine carries tuning for the live session runtime: timer granularity,
// integrity monitor cadence, escalation policy and feedback polling bounds.
type Engine struct {
	TimerTickInterval       time.Duration
	MonitorMinInterval      time.Duration
	MonitorMaxInterval      time.Duration
	EscalationThreshold     int
	EscalationWindow        time.Duration
	FeedbackPollInterval    time.Duration
	FeedbackPollMaxInterval time.Duration
	FeedbackPollMaxWait     time.Duration
	CompletionRetryMaxWait  time.Duration
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("BACKEND_REQUEST_TIMEOUT_SECONDS", 15)
	viper.SetDefault("TIMER_TICK_SECONDS", 1)
	viper.SetDefault("MONITOR_MIN_INTERVAL_SECONDS", 2)
	viper.SetDefault("MONITOR_MAX_INTERVAL_SECONDS", 6)
	viper.SetDefault("ESCALATION_THRESHOLD", 5)
	viper.SetDefault("ESCALATION_WINDOW_SECONDS", 120)
	viper.SetDefault("FEEDBACK_POLL_INTERVAL_SECONDS", 5)
	viper.SetDefault("FEEDBACK_POLL_MAX_INTERVAL_SECONDS", 30)
	viper.SetDefault("FEEDBACK_POLL_MAX_WAIT_SECONDS", 300)
	viper.SetDefault("COMPLETION_RETRY_MAX_WAIT_SECONDS", 60)

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.Backend.BaseURL = viper.GetString("BACKEND_BASE_URL")
	config.Backend.RequestTimeout = time.Duration(viper.GetInt("BACKEND_REQUEST_TIMEOUT_SECONDS")) * time.Second

	config.Engine.TimerTickInterval = time.Duration(viper.GetInt("TIMER_TICK_SECONDS")) * time.Second
	config.Engine.MonitorMinInterval = time.Duration(viper.GetInt("MONITOR_MIN_INTERVAL_SECONDS")) * time.Second
	config.Engine.MonitorMaxInterval = time.Duration(viper.GetInt("MONITOR_MAX_INTERVAL_SECONDS")) * time.Second
	config.Engine.EscalationThreshold = viper.GetInt("ESCALATION_THRESHOLD")
	config.Engine.EscalationWindow = time.Duration(viper.GetInt("ESCALATION_WINDOW_SECONDS")) * time.Second
	config.Engine.FeedbackPollInterval = time.Duration(viper.GetInt("FEEDBACK_POLL_INTERVAL_SECONDS")) * time.Second
	config.Engine.FeedbackPollMaxInterval = time.Duration(viper.GetInt("FEEDBACK_POLL_MAX_INTERVAL_SECONDS")) * time.Second
	config.Engine.FeedbackPollMaxWait = time.Duration(viper.GetInt("FEEDBACK_POLL_MAX_WAIT_SECONDS")) * time.Second
	config.Engine.CompletionRetryMaxWait = time.Duration(viper.GetInt("COMPLETION_RETRY_MAX_WAIT_SECONDS")) * time.Second

	log.Info().Str("port", config.Server.Port).Str("backend", config.Backend.BaseURL).Msg("Config loaded")
	return &config, nil
}
