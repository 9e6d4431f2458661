package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/SheenArtem/StockCSVDownload/internal/flow"
	"github.com/SheenArtem/StockCSVDownload/internal/logger"
)

// DefaultPath is used when CONFIG_PATH is not set.
const DefaultPath = "configs/config.yaml"

// Config holds all application configuration.
type Config struct {
	Log      logger.Config `yaml:"log"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id" validate:"required_with=BotToken"`
	} `yaml:"telegram"`
	FinMind struct {
		Token   string `yaml:"token"`
		Disable bool   `yaml:"disable"`
	} `yaml:"finmind"`
	Download struct {
		Period   string        `yaml:"period" default:"3y" validate:"required"`
		Interval string        `yaml:"interval" default:"1d" validate:"required"`
		Resample string        `yaml:"resample"`
		Workers  int           `yaml:"workers" default:"4" validate:"gte=1,lte=32"`
		Timeout  time.Duration `yaml:"timeout" default:"60s" validate:"gt=0"`
	} `yaml:"download"`
	Ownership flow.Thresholds `yaml:"ownership"`
	Watchlist []string        `yaml:"watchlist" default:"[\"2330\",\"2317\",\"0050\"]" validate:"min=1,dive,required"`
	Schedule  struct {
		RefreshCron string `yaml:"refresh_cron" default:"0 0 15 * * 1-5" validate:"required"`
	} `yaml:"schedule"`
	Export struct {
		Dir string `yaml:"dir" default:"data/exports" validate:"required"`
	} `yaml:"export"`
	HTTP struct {
		Addr         string        `yaml:"addr" default:":8080" validate:"required"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s" validate:"gt=0"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"5m" validate:"gt=0"`
	} `yaml:"http"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file on top of the defaults, then applies
// .env and environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("could not read .env")
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("FINMIND_TOKEN"); v != "" {
		c.FinMind.Token = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("WATCHLIST"); v != "" {
		var list []string
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				list = append(list, s)
			}
		}
		c.Watchlist = list
	}
	if v := os.Getenv("WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Download.Workers = n
		} else {
			log.Warn().Str("value", v).Msg("ignoring invalid WORKERS")
		}
	}
	if v := os.Getenv("CRON_REFRESH"); v != "" {
		c.Schedule.RefreshCron = v
	}
	if v := os.Getenv("EXPORT_DIR"); v != "" {
		c.Export.Dir = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		c.HTTP.Addr = v
	}
}

var validate = validator.New()

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Ownership.Small >= c.Ownership.Big {
		return fmt.Errorf("invalid config: ownership.small (%d) must be below ownership.big (%d)", c.Ownership.Small, c.Ownership.Big)
	}
	return nil
}

// NotifyEnabled reports whether Telegram credentials are configured.
func (c *Config) NotifyEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
