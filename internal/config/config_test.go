package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/financeai/internal/common"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("FINANCEAI_TEST_DIR", "/srv/data")

	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "~", want: home},
		{in: "~/db.sqlite", want: filepath.Join(home, "db.sqlite")},
		{in: "$FINANCEAI_TEST_DIR/app.db", want: "/srv/data/app.db"},
		{in: "/abs/path.db", want: "/abs/path.db"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SECRET_KEY", "")
	t.Setenv("MAIL_ENCRYPTION_KEY", "")

	v := viper.New()
	SetDefaults(v)

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, DefaultAddr, cfg.Addr)
	assert.Equal(t, DefaultCORSOrigins, cfg.CORSOrigins)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.Equal(t, DefaultMailServer, cfg.MailServer)
	assert.Equal(t, 100, cfg.MaxMessages)
	assert.False(t, cfg.SyncEnabled)
	assert.NotContains(t, cfg.DatabasePath, "$HOME")

	assert.ErrorIs(t, cfg.RequireSecrets(), common.ErrMissingConfig)
}

func TestLoad_EnvironmentFallback(t *testing.T) {
	t.Setenv("SECRET_KEY", "from-env")
	t.Setenv("MAIL_ENCRYPTION_KEY", "")

	v := viper.New()
	SetDefaults(v)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.SecretKey)
	assert.Equal(t, "from-env", cfg.EncryptionKey)
	assert.NoError(t, cfg.RequireSecrets())
}

func TestLoad_ViperWinsOverEnvironment(t *testing.T) {
	t.Setenv("SECRET_KEY", "from-env")

	v := viper.New()
	SetDefaults(v)
	v.Set("auth.secret_key", "from-config")
	v.Set("mail.encryption_key", "mail-key")

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "from-config", cfg.SecretKey)
	assert.Equal(t, "mail-key", cfg.EncryptionKey)
}

func TestLoad_SyncNeedsSchedule(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("sync.enabled", true)
	v.Set("sync.schedule", " ")

	_, err := Load(v)
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}
