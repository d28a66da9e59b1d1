package config

import (
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type Config struct {
	ServerPort        string
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	RateLimit         int
	RateLimitInterval time.Duration
	DBPath            string
	StaticDir         string
	AllowedOrigins    []string

	Groq       GroqConfig
	Transcript TranscriptConfig
	Log        LogConfig
}

type GroqConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

type TranscriptConfig struct {
	// Language is the preferred caption language. Empty accepts any track.
	Language string
	MaxChars int
}

type LogConfig struct {
	Level  string
	Format string
	File   string
}

// Load builds the configuration from the environment. A .env file in the
// working directory is loaded first, and CONFIG_FILE may name a YAML file of
// KEY: value pairs used as defaults beneath the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logrus.WithError(err).Warn("Failed to load .env file")
	}

	l := &loader{}
	if path, ok := os.LookupEnv("CONFIG_FILE"); ok && path != "" {
		values, err := readFile(path)
		if err != nil {
			return nil, err
		}
		l.file = values
	}

	cfg := l.config()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config file %s", path)
	}

	values := make(map[string]string)
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, errors.Wrapf(err, "parsing config file %s", path)
	}
	return values, nil
}

type loader struct {
	file map[string]string
}

func (l *loader) config() *Config {
	return &Config{
		ServerPort:        l.getEnv("PORT", "5000"),
		ReadTimeout:       l.getEnvAsDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout:      l.getEnvAsDuration("WRITE_TIMEOUT", 60*time.Second),
		IdleTimeout:       l.getEnvAsDuration("IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout:   l.getEnvAsDuration("SHUTDOWN_TIMEOUT", 5*time.Second),
		RateLimit:         l.getEnvAsInt("RATE_LIMIT", 5),
		RateLimitInterval: l.getEnvAsDuration("RATE_LIMIT_INTERVAL", 1*time.Second),
		DBPath:            l.getEnv("DB_PATH", ""),
		StaticDir:         l.getEnv("STATIC_DIR", "./static"),
		AllowedOrigins:    l.getEnvAsStringSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
		Groq: GroqConfig{
			APIKey:  l.getEnv("GROQ_API_KEY", ""),
			BaseURL: l.getEnv("GROQ_API_URL", "https://api.groq.com/openai/v1"),
			Model:   l.getEnv("GROQ_MODEL", "openai/gpt-oss-120b"),
			Timeout: l.getEnvAsDuration("SUMMARY_TIMEOUT", 30*time.Second),
		},
		Transcript: TranscriptConfig{
			Language: l.getEnv("TRANSCRIPT_LANGUAGE", "en"),
			MaxChars: l.getEnvAsInt("TRANSCRIPT_MAX_CHARS", 5000),
		},
		Log: LogConfig{
			Level:  l.getEnv("LOG_LEVEL", "info"),
			Format: l.getEnv("LOG_FORMAT", "text"),
			File:   l.getEnv("LOG_FILE", ""),
		},
	}
}

func (l *loader) getEnv(key, defaultValue string) string {
	if value, exists := l.lookup(key); exists {
		return value
	}
	return defaultValue
}

func (l *loader) lookup(key string) (string, bool) {
	if value, exists := os.LookupEnv(key); exists {
		return value, true
	}
	value, exists := l.file[key]
	return value, exists
}

func (l *loader) getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := l.lookup(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		logrus.WithFields(logrus.Fields{
			"key":          key,
			"value":        value,
			"defaultValue": defaultValue,
		}).Warn("Invalid duration, using default")
	}
	return defaultValue
}

func (l *loader) getEnvAsInt(key string, defaultValue int) int {
	if value, exists := l.lookup(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		logrus.WithFields(logrus.Fields{
			"key":          key,
			"value":        value,
			"defaultValue": defaultValue,
		}).Warn("Invalid integer, using default")
	}
	return defaultValue
}

func (l *loader) getEnvAsStringSlice(key string, defaultValue []string) []string {
	if value, exists := l.lookup(key); exists {
		if value = strings.TrimSpace(value); value != "" {
			parts := strings.Split(value, ",")
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
			return parts
		}
	}
	return defaultValue
}

func (c *Config) Validate() error {
	if c.Groq.APIKey == "" {
		return errors.New("GROQ_API_KEY is required")
	}
	if c.Groq.BaseURL == "" {
		return errors.New("groq API URL is required")
	}
	if c.Groq.Model == "" {
		return errors.New("groq model is required")
	}
	if c.ServerPort == "" {
		return errors.New("server port is required")
	}
	if c.Groq.Timeout <= 0 {
		return errors.New("summary timeout must be greater than 0")
	}
	if c.ReadTimeout <= 0 {
		return errors.New("read timeout must be greater than 0")
	}
	if c.WriteTimeout <= 0 {
		return errors.New("write timeout must be greater than 0")
	}
	if c.IdleTimeout <= 0 {
		return errors.New("idle timeout must be greater than 0")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("shutdown timeout must be greater than 0")
	}
	if c.Transcript.MaxChars <= 0 {
		return errors.New("transcript max chars must be greater than 0")
	}
	return nil
}
