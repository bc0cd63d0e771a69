package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"SentinelShield/internal/domain/models"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Logger struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logger"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Backend struct {
		Type         string        `yaml:"type"`
		BatchSize    int           `yaml:"batch_size"`
		BatchTimeout time.Duration `yaml:"batch_timeout"`
	} `yaml:"backend"`
	Kafka struct {
		Brokers      []string `yaml:"brokers"`
		AlertTopic   string   `yaml:"alert_topic"`
		SocialTopic  string   `yaml:"social_topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
		Consumer struct {
			GroupID    string        `yaml:"group_id"`
			Workers    int           `yaml:"workers"`
			BufferSize int           `yaml:"buffer_size"`
			RetryMax   int           `yaml:"retry_max"`
			BackoffMin time.Duration `yaml:"backoff_min"`
			BackoffMax time.Duration `yaml:"backoff_max"`
			DLQTopic   string        `yaml:"dlq_topic"`
			MinBytes   int           `yaml:"min_bytes"`
			MaxBytes   int           `yaml:"max_bytes"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Quote struct {
		Provider   string        `yaml:"provider"`
		APIKey     string        `yaml:"api_key"`
		BaseURL    string        `yaml:"base_url"`
		Interval   string        `yaml:"interval"`
		OutputSize int           `yaml:"output_size"`
		Timeout    time.Duration `yaml:"timeout"`
		RateLimit  struct {
			RequestsPerMinute int `yaml:"requests_per_minute"`
			Burst             int `yaml:"burst"`
		} `yaml:"rate_limit"`
		Cache struct {
			Enabled bool          `yaml:"enabled"`
			TTL     time.Duration `yaml:"ttl"`
			Redis   struct {
				Enabled  bool   `yaml:"enabled"`
				Addr     string `yaml:"addr"`
				Password string `yaml:"password"`
				DB       int    `yaml:"db"`
			} `yaml:"redis"`
		} `yaml:"cache"`
	} `yaml:"quote"`
	Feed struct {
		Seed            int64   `yaml:"seed"`
		BasePrice       float64 `yaml:"base_price"`
		BaseVolume      int64   `yaml:"base_volume"`
		SpikeChance     float64 `yaml:"spike_chance"`
		SpikeMultiplier float64 `yaml:"spike_multiplier"`
	} `yaml:"feed"`
	Monitor struct {
		Symbols      []string      `yaml:"symbols"`
		PollInterval time.Duration `yaml:"poll_interval"`
		WindowSize   int           `yaml:"window_size"`
	} `yaml:"monitor"`
	Analytics struct {
		EWMASpan      int `yaml:"ewma_span"`
		VolumeWindow  int `yaml:"volume_window"`
		MomentumShort int `yaml:"momentum_short"`
		MomentumLong  int `yaml:"momentum_long"`
		ML            struct {
			MinSamples    int     `yaml:"min_samples"`
			TrainWindow   int     `yaml:"train_window"`
			Trees         int     `yaml:"trees"`
			SubsampleSize int     `yaml:"subsample_size"`
			Contamination float64 `yaml:"contamination"`
			Seed          int64   `yaml:"seed"`
		} `yaml:"ml"`
	} `yaml:"analytics"`
	Trust struct {
		Registry []models.RegistryEntry `yaml:"registry"`
	} `yaml:"trust"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Validate required fields
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	if v := os.Getenv("TWELVEDATA_API_KEY"); v != "" {
		c.Quote.APIKey = v
	}
	if v := os.Getenv("SYMBOLS"); v != "" {
		c.Monitor.Symbols = strings.Split(v, ",")
	}
	if v := os.Getenv("BACKEND"); v != "" {
		c.Backend.Type = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_ALERT_TOPIC"); v != "" {
		c.Kafka.AlertTopic = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Quote.Cache.Redis.Addr = v
		c.Quote.Cache.Redis.Enabled = true
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Backend.Type == "" {
		c.Backend.Type = "none"
	}
	switch c.Backend.Type {
	case "none", "kafka", "clickhouse":
	default:
		return fmt.Errorf("backend.type must be 'none', 'kafka' or 'clickhouse', got '%s'", c.Backend.Type)
	}
	if len(c.Monitor.Symbols) == 0 {
		return fmt.Errorf("monitor.symbols cannot be empty")
	}
	if c.Quote.Provider != "" && c.Quote.Provider != "twelvedata" && c.Quote.Provider != "synthetic" {
		return fmt.Errorf("quote.provider must be 'twelvedata' or 'synthetic', got '%s'", c.Quote.Provider)
	}
	return nil
}
