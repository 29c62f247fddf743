package config_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"offline-payment-sync/internal/config"
	"offline-payment-sync/internal/crypto"
	"offline-payment-sync/internal/errs"
	"offline-payment-sync/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func validConfigYAML(t *testing.T, dir string) string {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	display := writeFile(t, dir, "display.yaml", `
fields:
  - key: fullName
    labels:
      en: Name
      fr: Nom
  - key: dateOfBirth
photo:
  field_name: beneficiary_photo
`)

	return writeFile(t, dir, "config.yaml", fmt.Sprintf(`
payment:
  base_url: https://payments.example.org
  username: fsp@example.org
  password: secret
form:
  base_url: https://forms.example.org
  token: form-token
  asset_id: aXyZ
program_id: "3"
encryption_key: "%s"
display_config: "%s"
http:
  timeout: 10s
  retries: 3
cache:
  root: "%s"
`, key, display, filepath.Join(dir, "cache")))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := validConfigYAML(t, dir)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://payments.example.org", cfg.Payment.BaseURL)
	assert.Equal(t, "aXyZ", cfg.Form.AssetID)
	assert.Equal(t, "3", cfg.ProgramID)
	assert.Equal(t, "phoneNumber", cfg.MatchField)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, 10*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 3, cfg.HTTP.Retries)
	assert.Equal(t, 14*24*time.Hour, cfg.Cache.Lookback)
	assert.Equal(t, []string{"fullName", "dateOfBirth"}, cfg.FieldKeys())
	assert.Equal(t, "beneficiary_photo", cfg.PhotoField())
	assert.Equal(t, "Nom", cfg.Display.Fields[0].Labels["fr"])
	assert.Equal(t, models.BatchKindRecent, cfg.BatchKind())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	dir := t.TempDir()
	path := validConfigYAML(t, dir)

	t.Setenv("OFFLINE_SYNC_WORKERS", "3")
	t.Setenv("OFFLINESYNC_PAYMENT_ID", "12")
	t.Setenv("OFFLINESYNC_MATCH_FIELD", "nationalId")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "12", cfg.PaymentID)
	assert.Equal(t, "nationalId", cfg.MatchField)
	assert.Equal(t, models.BatchKind("12"), cfg.BatchKind())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindConfig))
}

func TestValidate(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	base := func() *config.Config {
		cfg := &config.Config{
			ProgramID:     "3",
			EncryptionKey: key,
			MatchField:    "phoneNumber",
			Workers:       4,
		}
		cfg.Payment.BaseURL = "https://payments.example.org"
		cfg.Payment.Username = "u"
		cfg.Payment.Password = "p"
		cfg.Form.BaseURL = "https://forms.example.org"
		cfg.Form.Token = "t"
		cfg.Form.AssetID = "a"
		cfg.HTTP.Timeout = time.Second
		cfg.Cache.Lookback = time.Hour
		return cfg
	}

	tests := []struct {
		name     string
		mutate   func(*config.Config)
		wantKind errs.Kind
	}{
		{name: "valid", mutate: func(*config.Config) {}},
		{name: "missing credentials", mutate: func(c *config.Config) { c.Payment.Password = "" }, wantKind: errs.KindConfig},
		{name: "missing program", mutate: func(c *config.Config) { c.ProgramID = " " }, wantKind: errs.KindConfig},
		{name: "zero workers", mutate: func(c *config.Config) { c.Workers = 0 }, wantKind: errs.KindConfig},
		{name: "payment id with slash", mutate: func(c *config.Config) { c.PaymentID = "../7" }, wantKind: errs.KindConfig},
		{name: "malformed key", mutate: func(c *config.Config) { c.EncryptionKey = "not-a-key" }, wantKind: errs.KindCrypto},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantKind == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errs.Is(err, tt.wantKind), err.Error())
		})
	}
}

func TestLoadDisplay_RejectsFieldWithoutKey(t *testing.T) {
	path := writeFile(t, t.TempDir(), "display.yaml", "fields:\n  - key: fullName\n  - labels:\n      en: Orphan\n")

	_, err := config.LoadDisplay(path)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindConfig))
}

func TestDisplayConfig_DefaultPhotoField(t *testing.T) {
	var d config.DisplayConfig
	assert.Equal(t, "photo", d.PhotoField())
	assert.Empty(t, d.FieldKeys())
}

func TestInitDB_UnsupportedDriver(t *testing.T) {
	_, err := config.InitDB(config.AuditConfig{Driver: "oracle"})
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindConfig))
}
