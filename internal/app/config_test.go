package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envConfig() aconfig.Config {
	return aconfig.Config{
		EnvPrefix: "ORBIT",
		SkipFlags: true,
		SkipFiles: true,
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("ORBIT_USERNAME", "op@example.com")
	t.Setenv("ORBIT_PASSWORD", "secret")

	cfg, err := loadConfig(envConfig())
	require.NoError(t, err)

	assert.Equal(t, defaultAPIURL, cfg.APIURL)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 30*time.Second, cfg.SubmitTimeout)
	assert.Equal(t, 100, cfg.PageSize)
	assert.Equal(t, 20, cfg.RateLimit.Max)
	assert.Equal(t, time.Second, cfg.RateLimit.Window)
	assert.Equal(t, 30*time.Second, cfg.Health.Interval)
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("ORBIT_USERNAME", "op@example.com")
	t.Setenv("ORBIT_PASSWORD", "secret")
	t.Setenv("ORBIT_SUBMIT_TIMEOUT", "45s")

	cfg, err := loadConfig(envConfig())
	require.NoError(t, err)
	assert.Equal(t, "op@example.com", cfg.Username)
	assert.Equal(t, 45*time.Second, cfg.SubmitTimeout)
}

func TestLoadConfig_PlatformAPIURL(t *testing.T) {
	t.Setenv("ORBIT_USERNAME", "op@example.com")
	t.Setenv("ORBIT_PASSWORD", "secret")
	t.Setenv("API_URL", "https://api.orbit.example")

	cfg, err := loadConfig(envConfig())
	require.NoError(t, err)
	assert.Equal(t, "https://api.orbit.example", cfg.APIURL)
}

func TestLoadConfig_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "username: file@example.com\npassword: from-file\npage_size: 25\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := loadConfig(aconfig.Config{
		EnvPrefix: "ORBIT",
		SkipFlags: true,
		Files:     []string{path},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "file@example.com", cfg.Username)
	assert.Equal(t, 25, cfg.PageSize)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "missing credentials",
			env:  map[string]string{},
			want: "credentials are required",
		},
		{
			name: "page size",
			env:  map[string]string{"ORBIT_USERNAME": "u", "ORBIT_PASSWORD": "p", "ORBIT_PAGE_SIZE": "0"},
			want: "page size 0 out of range",
		},
		{
			name: "health interval",
			env:  map[string]string{"ORBIT_USERNAME": "u", "ORBIT_PASSWORD": "p", "ORBIT_HEALTH_INTERVAL": "0s"},
			want: "health interval must be positive",
		},
		{
			name: "health timeout",
			env:  map[string]string{"ORBIT_USERNAME": "u", "ORBIT_PASSWORD": "p", "ORBIT_HEALTH_TIMEOUT": "-1s"},
			want: "health timeout must be positive",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ORBIT_USERNAME", "")
			t.Setenv("ORBIT_PASSWORD", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := loadConfig(envConfig())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestConfigValidate_APIURL(t *testing.T) {
	cfg := Config{
		APIURL:        "localhost:8000",
		Username:      "u",
		Password:      "p",
		PageSize:      10,
		SubmitTimeout: time.Second,
		Health:        HealthConfig{Interval: time.Second, Timeout: time.Second},
	}
	assert.ErrorContains(t, cfg.validate(), "invalid API URL")

	cfg.APIURL = "https://api.orbit.example/base"
	assert.NoError(t, cfg.validate())

	cfg.Health.Interval = 0
	assert.ErrorContains(t, cfg.validate(), "health interval must be positive")
}
