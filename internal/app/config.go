package app

import (
	"net/url"
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

const defaultAPIURL = "http://localhost:8000"

// Config holds the complete console configuration, loadable from
// environment variables (ORBIT_ prefix), flags, or YAML config files.
type Config struct {
	APIURL         string        `default:"http://localhost:8000" usage:"Base URL of the business API" env:"API_URL" flag:"api-url" yaml:"api_url"`
	Username       string        `usage:"Login email (ORBIT_USERNAME)" flag:"username" yaml:"username"`
	Password       string        `usage:"Login password (ORBIT_PASSWORD)" flag:"password" yaml:"password"`
	RequestTimeout time.Duration `default:"15s" usage:"Timeout for a single console command" flag:"request-timeout" yaml:"request_timeout"`
	SubmitTimeout  time.Duration `default:"30s" usage:"Timeout for recording a sale" flag:"submit-timeout" yaml:"submit_timeout"`
	PageSize       int           `default:"100" usage:"Rows fetched per list request" flag:"page-size" yaml:"page_size"`
	RateLimit      RateLimitConfig
	Health         HealthConfig
}

// RateLimitConfig caps outbound API requests with a sliding window.
type RateLimitConfig struct {
	Max    int           `default:"20" usage:"Max API requests per window, 0 disables"`
	Window time.Duration `default:"1s" usage:"Rate limit window duration"`
}

// HealthConfig controls the background API reachability check.
type HealthConfig struct {
	Interval time.Duration `default:"30s" usage:"API health check interval" flag:"health-interval"`
	Timeout  time.Duration `default:"5s"  usage:"API health check timeout" flag:"health-timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config files
// and flags.
func LoadConfig() (*Config, error) {
	return loadConfig(aconfig.Config{
		EnvPrefix: "ORBIT",
		Files:     []string{"config.yaml", "/etc/orbit/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
}

func loadConfig(ac aconfig.Config) (*Config, error) {
	var cfg Config
	if err := aconfig.LoaderFor(&cfg, ac).Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyPlatformDefaults falls back to the API_URL variable the web console
// deployment already sets.
func (c *Config) applyPlatformDefaults() {
	if c.APIURL != defaultAPIURL {
		return
	}
	if v := os.Getenv("API_URL"); v != "" {
		c.APIURL = v
	}
}

func (c *Config) validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.Errorf("invalid API URL %q: must be an absolute http(s) URL", c.APIURL)
	}
	if c.Username == "" || c.Password == "" {
		return errors.New("credentials are required: set ORBIT_USERNAME and ORBIT_PASSWORD")
	}
	if c.PageSize < 1 || c.PageSize > 1000 {
		return errors.Errorf("page size %d out of range [1, 1000]", c.PageSize)
	}
	if c.SubmitTimeout <= 0 {
		return errors.New("submit timeout must be positive")
	}
	if c.Health.Interval <= 0 {
		return errors.New("health interval must be positive")
	}
	if c.Health.Timeout <= 0 {
		return errors.New("health timeout must be positive")
	}
	return nil
}
