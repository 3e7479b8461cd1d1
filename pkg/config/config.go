package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/mercadolance/lanceweb/pkg/utils"
)

const (
	// Cookie Names
	SessionCookieName  = "lance_session"
	StateCookieName    = "lance_state"
	ReturnToCookieName = "lance_return_to"

	// Session TTL floor, used when the identity provider reports a
	// shorter or missing token lifetime.
	MinSessionTTL = 5 * time.Minute

	// Context Keys
	SessionKey = "session"
)

// Config holds every environment-driven setting of the web client.
type Config struct {
	// Address the web client listens on.
	Host string
	Port string

	// Base URL of the auction backend API, e.g. http://localhost:8081/api.
	APIBaseURL string

	// Externally reachable base URL of this client, used to build the
	// OAuth callback and logout return URLs.
	PublicURL string

	// Identity provider settings.
	Auth0Domain       string
	Auth0ClientID     string
	Auth0ClientSecret string
	Auth0Audience     string

	// Session store settings.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Host:              utils.GetEnv("SERVER_HOST", "0.0.0.0"),
		Port:              utils.GetEnv("SERVER_PORT", "3000"),
		APIBaseURL:        strings.TrimRight(utils.GetEnv("API_URL", ""), "/"),
		PublicURL:         strings.TrimRight(utils.GetEnv("PUBLIC_URL", "http://localhost:3000"), "/"),
		Auth0Domain:       utils.GetEnv("AUTH0_DOMAIN", ""),
		Auth0ClientID:     utils.GetEnv("AUTH0_CLIENT_ID", ""),
		Auth0ClientSecret: utils.GetEnv("AUTH0_CLIENT_SECRET", ""),
		Auth0Audience:     utils.GetEnv("AUTH0_AUDIENCE", ""),
		RedisAddr:         utils.GetEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     utils.GetEnv("REDIS_PASSWORD", ""),
		RedisDB:           utils.GetIntEnv("REDIS_DB", 0),
	}

	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("API_URL must be set in environment")
	}
	if cfg.Auth0Domain == "" || cfg.Auth0ClientID == "" || cfg.Auth0ClientSecret == "" {
		return nil, fmt.Errorf("AUTH0_DOMAIN, AUTH0_CLIENT_ID and AUTH0_CLIENT_SECRET must be set in environment")
	}
	return cfg, nil
}

// Addr returns the host:port pair the HTTP server binds to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// CallbackURL is the redirect target registered with the identity provider.
func (c *Config) CallbackURL() string {
	return c.PublicURL + "/callback"
}
