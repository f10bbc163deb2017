package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"StockAnalyzer/internal/calculator"
	"StockAnalyzer/internal/loader"
	"StockAnalyzer/internal/logger"
)

// Config holds all application configuration.
type Config struct {
	Loader struct {
		DateColumn  string   `yaml:"date_column" default:"Date" validate:"required"`
		CloseColumn string   `yaml:"close_column" default:"Close" validate:"required,nefield=DateColumn"`
		DateLayouts []string `yaml:"date_layouts"`
		Delimiter   string   `yaml:"delimiter" default:"," validate:"len=1"`
	} `yaml:"loader"`
	Indicators calculator.Params `yaml:"indicators"`
	Report     struct {
		Ticker string `yaml:"ticker"`
		Output string `yaml:"output" default:"text" validate:"oneof=text json csv"`
	} `yaml:"report"`
	Log      logger.Config `yaml:"log"`
	Schedule struct {
		ReloadCron string `yaml:"reload_cron" default:"0 0 18 * * 1-5"`
	} `yaml:"schedule"`
	Metrics struct {
		Addr string `yaml:"addr"`
		Path string `yaml:"path" default:"/metrics" validate:"startswith=/"`
	} `yaml:"metrics"`
	Telegram struct {
		BotToken   string `yaml:"bot_token" validate:"required_with=ChatID"`
		ChatID     string `yaml:"chat_id" validate:"required_with=BotToken"`
		MaxRetries int    `yaml:"max_retries" default:"3" validate:"gte=0,lte=10"`
	} `yaml:"telegram"`
	Proxy string `yaml:"proxy" validate:"omitempty,url"`
}

var validate = validator.New()

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	applyEnv(cfg)

	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	return cfg, nil
}

// Default is the configuration with no file and no environment.
func Default() *Config {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		panic(err)
	}
	return cfg
}

func applyEnv(cfg *Config) {
	overrides := []struct {
		key string
		dst *string
	}{
		{"STOCKANALYZER_DATE_COLUMN", &cfg.Loader.DateColumn},
		{"STOCKANALYZER_CLOSE_COLUMN", &cfg.Loader.CloseColumn},
		{"STOCKANALYZER_TICKER", &cfg.Report.Ticker},
		{"STOCKANALYZER_LOG_LEVEL", &cfg.Log.Level},
		{"STOCKANALYZER_LOG_FORMAT", &cfg.Log.Format},
		{"STOCKANALYZER_RELOAD_CRON", &cfg.Schedule.ReloadCron},
		{"STOCKANALYZER_METRICS_ADDR", &cfg.Metrics.Addr},
		{"TELEGRAM_BOT_TOKEN", &cfg.Telegram.BotToken},
		{"TELEGRAM_CHAT_ID", &cfg.Telegram.ChatID},
		{"HTTPS_PROXY", &cfg.Proxy},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.key); v != "" {
			*o.dst = v
		}
	}
}

// Validate checks field constraints and the indicator windows.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fieldMessage(fe))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := c.Indicators.Validate(); err != nil {
		return fmt.Errorf("invalid config: indicators: %w", err)
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required", "required_with":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "ltfield":
		return fmt.Sprintf("%s must be below %s", field, fe.Param())
	case "nefield":
		return fmt.Sprintf("%s must differ from %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
}

// LoaderOptions converts the loader section.
func (c *Config) LoaderOptions() loader.Options {
	opts := loader.Options{
		DateColumn:  c.Loader.DateColumn,
		CloseColumn: c.Loader.CloseColumn,
		DateLayouts: c.Loader.DateLayouts,
	}
	if len(opts.DateLayouts) == 0 {
		opts.DateLayouts = loader.DefaultDateLayouts
	}
	return opts
}

// Delimiter returns the configured field separator as a rune.
func (c *Config) Delimiter() rune {
	if c.Loader.Delimiter == "" {
		return ','
	}
	r, _ := utf8.DecodeRuneInString(c.Loader.Delimiter)
	return r
}

// TelegramEnabled reports whether push delivery is configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
