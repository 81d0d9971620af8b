package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type BotConfig struct {
	TelegramToken      string
	TelegramDebug      bool
	BaseManagerChatID  int64
	DatabaseURL        string
	HTTPAddr           string
	APIKey             string
	DashboardURL       string
	NonWorkingDaysFile string

	SMTP  SMTPConfig
	Redis RedisConfig

	OutboxWorkers int
	OutboxSize    int
	NotifyRate    float64

	LogLevel  string
	LogFormat string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Channel  string
}

var instance *BotConfig
var once sync.Once

// GetBotConfig loads the configuration once and exits on failure.
func GetBotConfig() *BotConfig {
	once.Do(func() {
		cfg, err := Load()
		if err != nil {
			logrus.Fatalf("error loading configuration: %s", err.Error())
		}
		instance = cfg
	})

	return instance
}

// Load reads .env when present, then the environment.
func Load() (*BotConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg := &BotConfig{
		TelegramToken:      getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramDebug:      getEnvAsBool("TELEGRAM_DEBUG", false),
		BaseManagerChatID:  getEnvAsInt("BASE_MANAGER_CHAT_ID", 0),
		DatabaseURL:        getEnv("DATABASE_URL", "availability.db"),
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		APIKey:             getEnv("API_KEY", ""),
		DashboardURL:       getEnv("DASHBOARD_URL", ""),
		NonWorkingDaysFile: getEnv("NON_WORKING_DAYS_FILE", ""),
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     int(getEnvAsInt("SMTP_PORT", 587)),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("EMAIL_FROM", ""),
			FromName: getEnv("EMAIL_FROM_NAME", "Availability Notifications"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       int(getEnvAsInt("REDIS_DB", 0)),
			Channel:  getEnv("REDIS_CHANNEL", "managers"),
		},
		OutboxWorkers: int(getEnvAsInt("OUTBOX_WORKERS", 4)),
		OutboxSize:    int(getEnvAsInt("OUTBOX_SIZE", 256)),
		NotifyRate:    getEnvAsFloat("NOTIFY_RATE", 20),
		LogLevel:      strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:     strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("could not get db url")
	}
	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks what the bot needs to start serving.
func (c *BotConfig) Validate() error {
	if c.TelegramToken == "" {
		return errors.New("could not get bot token")
	}
	return nil
}

// ConfigureLogger applies the level and format to the standard logger.
func (c *BotConfig) ConfigureLogger(logger *logrus.Logger) {
	if level, err := logrus.ParseLevel(c.LogLevel); err == nil {
		logger.SetLevel(level)
	}
	if c.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
}

func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultVal
}

func getEnvAsBool(name string, defaultVal bool) bool {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}

	return defaultVal
}

func getEnvAsInt(name string, defaultVal int64) int64 {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseInt(valStr, 10, 64); err == nil {
		return val
	}

	return defaultVal
}

func getEnvAsFloat(name string, defaultVal float64) float64 {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseFloat(valStr, 64); err == nil {
		return val
	}

	return defaultVal
}
