package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"offline-payment-sync/internal/crypto"
	"offline-payment-sync/internal/errs"
	"offline-payment-sync/internal/models"
)

// Config is loaded once per invocation and never mutated afterwards.
type Config struct {
	Payment struct {
		BaseURL  string `mapstructure:"base_url"`
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
	} `mapstructure:"payment"`

	Form struct {
		BaseURL string `mapstructure:"base_url"`
		Token   string `mapstructure:"token"`
		AssetID string `mapstructure:"asset_id"`
	} `mapstructure:"form"`

	ProgramID     string `mapstructure:"program_id"`
	PaymentID     string `mapstructure:"payment_id"`
	EncryptionKey string `mapstructure:"encryption_key"`
	MatchField    string `mapstructure:"match_field"`
	DisplayPath   string `mapstructure:"display_config"`
	Workers       int    `mapstructure:"workers"`
	Verbose       bool   `mapstructure:"verbose"`

	HTTP struct {
		Timeout time.Duration `mapstructure:"timeout"`
		Retries int           `mapstructure:"retries"`
		Backoff time.Duration `mapstructure:"backoff"`
	} `mapstructure:"http"`

	Cache struct {
		Root     string        `mapstructure:"root"`
		Lookback time.Duration `mapstructure:"lookback"`
	} `mapstructure:"cache"`

	Audit AuditConfig `mapstructure:"audit"`

	Server struct {
		Addr         string   `mapstructure:"addr"`
		AllowOrigins []string `mapstructure:"allow_origins"`
	} `mapstructure:"server"`

	Display DisplayConfig `mapstructure:"-"`
}

// AuditConfig selects the database that keeps reconciliation history.
type AuditConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("payment.base_url", "")
	v.SetDefault("payment.username", "")
	v.SetDefault("payment.password", "")
	v.SetDefault("form.base_url", "")
	v.SetDefault("form.token", "")
	v.SetDefault("form.asset_id", "")
	v.SetDefault("program_id", "")
	v.SetDefault("payment_id", "")
	v.SetDefault("encryption_key", "")
	v.SetDefault("match_field", "phoneNumber")
	v.SetDefault("display_config", "")
	v.SetDefault("workers", 8)
	v.SetDefault("verbose", false)
	v.SetDefault("http.timeout", 30*time.Second)
	v.SetDefault("http.retries", 2)
	v.SetDefault("http.backoff", 500*time.Millisecond)
	v.SetDefault("cache.root", "offline-cache")
	v.SetDefault("cache.lookback", 14*24*time.Hour)
	v.SetDefault("audit.driver", "sqlite")
	v.SetDefault("audit.dsn", "offline-sync.db")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.allow_origins", []string{"http://localhost:3000"})
}

// Load reads path (optional) and overlays OFFLINESYNC_* environment
// variables, e.g. OFFLINESYNC_PAYMENT_BASE_URL. The worker count can also
// come from OFFLINE_SYNC_WORKERS. Load validates before returning.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("OFFLINESYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("workers", "OFFLINESYNC_WORKERS", "OFFLINE_SYNC_WORKERS"); err != nil {
		return nil, errs.New(errs.KindConfig, "bind workers env", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errs.New(errs.KindConfig, fmt.Sprintf("read config file %s", path), err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errs.New(errs.KindConfig, "decode config", err)
	}

	if cfg.DisplayPath != "" {
		display, err := LoadDisplay(cfg.DisplayPath)
		if err != nil {
			return nil, err
		}
		cfg.Display = *display
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks everything a pass needs before it touches the network,
// including that the encryption key decodes.
func (c *Config) Validate() error {
	var missing []string
	required := []struct {
		name  string
		value string
	}{
		{"payment.base_url", c.Payment.BaseURL},
		{"payment.username", c.Payment.Username},
		{"payment.password", c.Payment.Password},
		{"form.base_url", c.Form.BaseURL},
		{"form.token", c.Form.Token},
		{"form.asset_id", c.Form.AssetID},
		{"program_id", c.ProgramID},
		{"encryption_key", c.EncryptionKey},
		{"match_field", c.MatchField},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.name)
		}
	}
	if len(missing) > 0 {
		return errs.Newf(errs.KindConfig, "missing required settings: %s", strings.Join(missing, ", "))
	}

	if c.Workers < 1 {
		return errs.Newf(errs.KindConfig, "workers must be at least 1, got %d", c.Workers)
	}
	if c.HTTP.Timeout <= 0 {
		return errs.Newf(errs.KindConfig, "http.timeout must be positive")
	}
	if c.HTTP.Retries < 0 {
		return errs.Newf(errs.KindConfig, "http.retries must be non-negative")
	}
	if c.Cache.Lookback <= 0 {
		return errs.Newf(errs.KindConfig, "cache.lookback must be positive")
	}
	if strings.ContainsAny(c.PaymentID, `/\`) || strings.Contains(c.PaymentID, "-batch-") {
		return errs.Newf(errs.KindConfig, "payment_id %q cannot name a batch directory", c.PaymentID)
	}

	if _, err := crypto.ValidateKey(c.EncryptionKey); err != nil {
		return err
	}
	return nil
}

// BatchKind is the batch stream this configuration produces and consumes.
func (c *Config) BatchKind() models.BatchKind {
	if c.PaymentID != "" {
		return models.BatchKind(c.PaymentID)
	}
	return models.BatchKindRecent
}

// FieldKeys are the registration fields copied into cache records.
func (c *Config) FieldKeys() []string {
	return c.Display.FieldKeys()
}

// PhotoField is the form field holding the beneficiary photo filename.
func (c *Config) PhotoField() string {
	return c.Display.PhotoField()
}
