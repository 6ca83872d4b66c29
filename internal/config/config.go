package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Veraticus/financeai/internal/common"
	"github.com/spf13/viper"
)

// Defaults applied when neither the config file nor the environment sets a key.
const (
	DefaultAddr        = ":8000"
	DefaultDBPath      = "$HOME/.local/share/financeai/financeai.db"
	DefaultTokenTTL    = 30 * time.Minute
	DefaultMailServer  = "imap.gmail.com:993"
	DefaultMaxMessages = 100
	DefaultSyncDays    = 30
	DefaultSchedule    = "@every 6h"
)

// DefaultCORSOrigins are the local frontend dev servers.
var DefaultCORSOrigins = []string{"http://localhost:5173", "http://localhost:3000"}

// Config holds the server-side settings shared by the serve and sync commands.
type Config struct {
	Addr          string
	DatabasePath  string
	SecretKey     string
	MailServer    string
	EncryptionKey string
	Schedule      string
	CORSOrigins   []string
	TokenTTL      time.Duration
	MaxMessages   int
	SyncDays      int
	SyncEnabled   bool
}

// SetDefaults registers default values with viper.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", DefaultAddr)
	v.SetDefault("server.cors_origins", DefaultCORSOrigins)
	v.SetDefault("database.path", DefaultDBPath)
	v.SetDefault("auth.token_ttl", DefaultTokenTTL)
	v.SetDefault("mail.server", DefaultMailServer)
	v.SetDefault("mail.max_messages", DefaultMaxMessages)
	v.SetDefault("sync.schedule", DefaultSchedule)
	v.SetDefault("sync.days", DefaultSyncDays)
	v.SetDefault("sync.enabled", false)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Load reads configuration from viper. It follows this precedence:
// 1. Viper configuration (config file or FINANCEAI_ env vars)
// 2. Direct environment variables (SECRET_KEY, MAIL_ENCRYPTION_KEY)
// 3. Default values
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Addr:          v.GetString("server.addr"),
		CORSOrigins:   v.GetStringSlice("server.cors_origins"),
		DatabasePath:  ExpandPath(v.GetString("database.path")),
		SecretKey:     v.GetString("auth.secret_key"),
		TokenTTL:      v.GetDuration("auth.token_ttl"),
		MailServer:    v.GetString("mail.server"),
		MaxMessages:   v.GetInt("mail.max_messages"),
		EncryptionKey: v.GetString("mail.encryption_key"),
		Schedule:      v.GetString("sync.schedule"),
		SyncEnabled:   v.GetBool("sync.enabled"),
		SyncDays:      v.GetInt("sync.days"),
	}

	if cfg.SecretKey == "" {
		cfg.SecretKey = os.Getenv("SECRET_KEY")
	}
	if cfg.EncryptionKey == "" {
		cfg.EncryptionKey = os.Getenv("MAIL_ENCRYPTION_KEY")
	}
	if cfg.EncryptionKey == "" {
		cfg.EncryptionKey = cfg.SecretKey
	}

	if cfg.DatabasePath == "" {
		cfg.DatabasePath = ExpandPath(DefaultDBPath)
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = DefaultTokenTTL
	}
	if cfg.MaxMessages <= 0 {
		cfg.MaxMessages = DefaultMaxMessages
	}
	if cfg.SyncDays <= 0 {
		cfg.SyncDays = DefaultSyncDays
	}
	if cfg.MailServer == "" {
		cfg.MailServer = DefaultMailServer
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the settings that have no usable default.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: server.addr is empty", common.ErrInvalidConfig)
	}
	if c.SyncEnabled && strings.TrimSpace(c.Schedule) == "" {
		return fmt.Errorf("%w: sync.schedule is required when sync.enabled is set", common.ErrMissingConfig)
	}
	return nil
}

// RequireSecrets reports an error when the token signing key is missing.
// Only commands that issue tokens or decrypt mail secrets call it.
func (c *Config) RequireSecrets() error {
	if c.SecretKey == "" {
		return fmt.Errorf("%w: auth.secret_key (or SECRET_KEY) must be set", common.ErrMissingConfig)
	}
	return nil
}
