package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/fair-research/concierge-cli/constants"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

type Env string

const (
	// Local development server
	EnvLocal Env = "local"
	// Production environment
	EnvProduction Env = "production"
)

type AuthConfig struct {
	// Globus Auth native app client ID.
	ClientID string `env:"CONCIERGE_CLIENT_ID"`
	// Globus Auth base URL.
	Domain string `env:"CONCIERGE_AUTH_DOMAIN"`
	// Where Globus sends the user after consent. For native apps this page
	// displays the code to paste back into the CLI.
	RedirectURI string `env:"CONCIERGE_REDIRECT_URI"`
	// Path to the token file.
	TokenFile string `env:"CONCIERGE_TOKEN_FILE"`
}

type MinidConfig struct {
	// Identifier resolution service.
	Server string `env:"CONCIERGE_MINID_SERVER"`
	// Max identifier lookups per second.
	RequestsPerSecond float64 `env:"CONCIERGE_MINID_RPS" envDefault:"10"`
}

type Config struct {
	// Named server environment.
	Env Env `env:"CONCIERGE_ENV" envDefault:"production"`
	// Explicit Concierge API base URL. Overrides Env.
	Server string `env:"CONCIERGE_SERVER"`
	// Whether or not to print verbose output.
	Verbose bool `env:"CONCIERGE_VERBOSE"`
	Auth    AuthConfig
	Minid   MinidConfig
	//
	// [Internal]
	//
	// Rate limiter for minid lookups.
	RateLimiter *rate.Limiter `env:"-"`
}

// Singleton CLI config instance.
var I Config

// Returns the default path to the token file.
func GetTokenPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return constants.TokenFileName
	}

	return filepath.Join(homeDir, constants.TokenFileName)
}

// Returns the Concierge server host for a named environment.
func GetServerHost(e Env) (string, error) {
	switch e {
	case EnvLocal:
		return "http://localhost:8000/api/", nil
	case EnvProduction, "":
		return "https://concierge.fair-research.org/api/", nil
	default:
		return "", fmt.Errorf("unknown environment %q (expected %q or %q)", e, EnvProduction, EnvLocal)
	}
}

// Load config from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if os.Getenv(constants.VerboseEnvVar) == "1" {
		cfg.Verbose = true
	}

	if err := SetInternalConfigFields(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Initialize the CLI config.
func InitConfig() (Config, error) {
	cfg, err := Load()
	if err != nil {
		return Config{}, err
	}

	I = cfg
	return I, nil
}

// Set defaults and internal config fields.
func SetInternalConfigFields(cfg *Config) error {
	if cfg.Env == "" {
		cfg.Env = EnvProduction
	}
	cfg.Env = Env(strings.ToLower(string(cfg.Env)))

	if cfg.Server == "" {
		host, err := GetServerHost(cfg.Env)
		if err != nil {
			return err
		}
		cfg.Server = host
	}

	if cfg.Auth.ClientID == "" {
		cfg.Auth.ClientID = constants.ConciergeClientID
	}
	if cfg.Auth.Domain == "" {
		cfg.Auth.Domain = constants.GlobusAuthDomain
	}
	if cfg.Auth.RedirectURI == "" {
		cfg.Auth.RedirectURI = constants.NativeAppRedirectURI
	}
	if cfg.Auth.TokenFile == "" {
		cfg.Auth.TokenFile = GetTokenPath()
	}
	if cfg.Minid.Server == "" {
		cfg.Minid.Server = constants.DefaultMinidServer
	}

	limit := rate.Inf
	if cfg.Minid.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.Minid.RequestsPerSecond)
	}
	cfg.RateLimiter = rate.NewLimiter(limit, 1)
	return nil
}

// Validate config.
func (c Config) Validate() error {
	if _, err := uuid.Parse(c.Auth.ClientID); err != nil {
		return fmt.Errorf("CONCIERGE_CLIENT_ID must be a UUID: %w", err)
	}
	if c.Server == "" {
		return errors.New("concierge server must be specified")
	}
	if c.Auth.TokenFile == "" {
		return errors.New("token file path must be specified")
	}
	return nil
}

// Resolve the Concierge server, preferring an explicit flag value.
func (c Config) ServerURL(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return c.Server
}

// Scopes requested at login.
func (c Config) Scopes() []string {
	return []string{"openid", "profile", "email", constants.ConciergeScope}
}
