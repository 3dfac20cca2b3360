package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper). It is passed to
// constructors explicitly; no component reads the environment on its own.
type Config struct {
	Env  string
	Port string

	// DatabaseURL is a sqlite file path (default) or a postgres:// DSN.
	DatabaseURL string
	// RedisURL enables the submissions-index cache when set.
	RedisURL string

	// SECUserAgent is the contact string EDGAR requires on every request,
	// e.g. "james@damant.com". Mandatory.
	SECUserAgent string
	// SECSubmissionsURL / SECArchivesURL override the EDGAR endpoints,
	// mainly for tests. Empty means the public endpoints.
	SECSubmissionsURL string
	SECArchivesURL    string

	// DefaultForm is the form type ingested when a request names none.
	DefaultForm string

	HTTPTimeout time.Duration
	CacheTTL    time.Duration
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	port := viper.GetString("PORT")
	if port == "" {
		port = "8080"
	}
	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	dbURL := viper.GetString("DATABASE_URL")
	if dbURL == "" {
		dbURL = "./data/db/hedgefund.db"
	}

	ua := viper.GetString("SEC_USER_AGENT")
	if ua == "" {
		return nil, errors.New("SEC_USER_AGENT is required (EDGAR rejects anonymous clients)")
	}

	form := viper.GetString("DEFAULT_FORM")
	if form == "" {
		form = "13F-HR"
	}

	timeout := viper.GetDuration("HTTP_TIMEOUT")
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	cacheTTL := viper.GetDuration("CACHE_TTL")
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}

	return &Config{
		Env:               env,
		Port:              port,
		DatabaseURL:       dbURL,
		RedisURL:          viper.GetString("REDIS_URL"),
		SECUserAgent:      ua,
		SECSubmissionsURL: viper.GetString("SEC_SUBMISSIONS_URL"),
		SECArchivesURL:    viper.GetString("SEC_ARCHIVES_URL"),
		DefaultForm:       form,
		HTTPTimeout:       timeout,
		CacheTTL:          cacheTTL,
	}, nil
}
