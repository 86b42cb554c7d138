package config // package config loads application configuration from environment variables

import (
	"errors"  // sentinel errors for invalid values
	"fmt"     // error wrapping
	"os"      // os provides access to environment variables and the .env file
	"strconv" // strconv converts strings to other types
	"time"

	"github.com/joho/godotenv" // godotenv seeds the environment from a local .env file

	"github.com/iliyamo/hello-devops/internal/log"
)

// ErrInvalidPort is returned by Load when APP_PORT is not a TCP port number.
var ErrInvalidPort = errors.New("invalid APP_PORT")

// dotEnvFile is read from the working directory when present.
const dotEnvFile = ".env"

// Config holds the listener settings.  Each field corresponds to an
// environment variable; all of them have defaults so the service starts
// with an empty environment.
type Config struct {
	Env             string        // application environment (e.g. "dev", "prod")
	Port            string        // HTTP port to listen on
	ShutdownTimeout time.Duration // how long in-flight requests get to drain on shutdown
}

// Addr is the listen address derived from Port.
func (c Config) Addr() string {
	return ":" + c.Port
}

// Load seeds the process environment from .env (variables that are already
// set win) and then reads the listener configuration.
func Load() (Config, error) {
	loadDotEnv(dotEnvFile)

	cfg := Config{
		Env:             getenv("APP_ENV", "dev"),                   // environment (dev/test/prod)
		Port:            getenv("APP_PORT", "8080"),                 // port to bind the HTTP server
		ShutdownTimeout: envDur("SHUTDOWN_TIMEOUT", 10*time.Second), // graceful shutdown budget
	}
	if err := validatePort(cfg.Port); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	return cfg, nil
}

// loadDotEnv applies path to the environment.  A missing file is normal in
// containers; a malformed one is reported and otherwise ignored.
func loadDotEnv(path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := godotenv.Load(path); err != nil {
		log.Log.WithField("error", err.Error()).Warn("failed to read .env file")
	}
}

func validatePort(port string) error {
	n, err := strconv.Atoi(port)
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("%w: %q", ErrInvalidPort, port)
	}
	return nil
}
