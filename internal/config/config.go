package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Provider  ProviderConfig  `yaml:"provider"`
	Synthesis SynthesisConfig `yaml:"synthesis"`
	Email     EmailConfig     `yaml:"email"`
	Slack     SlackConfig     `yaml:"slack"`
	Schedule  ScheduleConfig  `yaml:"schedule"`
	Store     StoreConfig     `yaml:"store"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
}

// ProviderConfig covers the Financial Modeling Prep endpoints and the
// retry budget shared by all source adapters.
type ProviderConfig struct {
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	FetchAttempts  int    `yaml:"fetch_attempts"`
	FetchTimeoutMs int    `yaml:"fetch_timeout_ms"`
}

type SynthesisConfig struct {
	APIKey        string  `yaml:"api_key"`
	BaseURL       string  `yaml:"base_url"`
	PrimaryModel  string  `yaml:"primary_model"`
	FallbackModel string  `yaml:"fallback_model"`
	Temperature   float32 `yaml:"temperature"`
	TimeoutMs     int     `yaml:"timeout_ms"`
}

type EmailConfig struct {
	SendgridAPIKey string `yaml:"sendgrid_api_key"`
	FromEmail      string `yaml:"from_email"`
	ToEmail        string `yaml:"to_email"`
	SMTPServer     string `yaml:"smtp_server"`
	SMTPPort       int    `yaml:"smtp_port"`
	SMTPUser       string `yaml:"smtp_user"`
	SMTPPass       string `yaml:"smtp_pass"`
}

type SlackConfig struct {
	BotToken string `yaml:"bot_token"`
	Channel  string `yaml:"channel"`
}

type ScheduleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	At       string `yaml:"at"` // HH:MM, local to Timezone
	Timezone string `yaml:"timezone"`
}

type StoreConfig struct {
	SqlitePath string `yaml:"sqlite_path"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080},
		Log:    LogConfig{Level: "info", Format: "console"},
		Provider: ProviderConfig{
			BaseURL:        "https://financialmodelingprep.com",
			FetchAttempts:  3,
			FetchTimeoutMs: 10000,
		},
		Synthesis: SynthesisConfig{
			BaseURL:       "https://api.groq.com/openai/v1",
			PrimaryModel:  "openai/gpt-oss-120b",
			FallbackModel: "llama-3.3-70b-versatile",
			Temperature:   0.1,
			TimeoutMs:     60000,
		},
		Email: EmailConfig{
			SMTPServer: "smtp.gmail.com",
			SMTPPort:   587,
		},
		Schedule: ScheduleConfig{
			Enabled:  false,
			At:       "07:30",
			Timezone: "America/New_York",
		},
		Store: StoreConfig{SqlitePath: "data/app.db"},
	}
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil || p <= 0 || p > 65535 {
			return fmt.Errorf("invalid PORT: %q", v)
		}
		cfg.Server.Port = p
	}
	if v := os.Getenv("FMP_API_KEY"); v != "" {
		cfg.Provider.APIKey = v
	}
	if v := os.Getenv("GROQ_API_KEY"); v != "" {
		cfg.Synthesis.APIKey = v
	}
	if v := os.Getenv("SENDGRID_API_KEY"); v != "" {
		cfg.Email.SendgridAPIKey = v
	}
	if v := os.Getenv("FROM_EMAIL"); v != "" {
		cfg.Email.FromEmail = v
	}
	if v := os.Getenv("TO_EMAIL"); v != "" {
		cfg.Email.ToEmail = v
	}
	if v := os.Getenv("SMTP_USERNAME"); v != "" {
		cfg.Email.SMTPUser = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		cfg.Email.SMTPPass = v
	}
	if v := os.Getenv("SLACK_BOT_TOKEN"); v != "" {
		cfg.Slack.BotToken = v
	}
	if v := os.Getenv("SLACK_CHANNEL"); v != "" {
		cfg.Slack.Channel = v
	}
	return nil
}
