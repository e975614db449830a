// Package config loads the service settings from defaults, the environment
// and command-line flags, in that order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/layer-3/walletauth/adapters/verifier"
)

// MinSecretLength is the shortest accepted session secret, in bytes.
const MinSecretLength = 32

// Config holds runtime settings.
//
// DatabaseDSN and RedisURL are optional: without a DSN identities and
// transactions live in memory, without Redis the replay guard is in memory
// and events are not published.
type Config struct {
	Addr            string
	DatabaseDSN     string
	RedisURL        string
	SessionSecret   string
	TrustPolicy     string
	ReplayWindow    time.Duration
	SecureCookies   bool
	LogLevel        string
	Development     bool
	ShutdownTimeout time.Duration
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.Addr = ":9000"
	c.TrustPolicy = verifier.PolicySignature
	c.ReplayWindow = 10 * time.Minute
	c.LogLevel = "info"
	c.ShutdownTimeout = 10 * time.Second
}

// Load builds a Config from defaults, WALLETAUTH_* variables and args.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := cfg.loadEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.parseFlags(args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	str("WALLETAUTH_ADDR", &c.Addr)
	str("WALLETAUTH_DATABASE_DSN", &c.DatabaseDSN)
	str("WALLETAUTH_REDIS_URL", &c.RedisURL)
	str("WALLETAUTH_SESSION_SECRET", &c.SessionSecret)
	str("WALLETAUTH_TRUST_POLICY", &c.TrustPolicy)
	str("WALLETAUTH_LOG_LEVEL", &c.LogLevel)

	for key, dst := range map[string]*time.Duration{
		"WALLETAUTH_REPLAY_WINDOW":    &c.ReplayWindow,
		"WALLETAUTH_SHUTDOWN_TIMEOUT": &c.ShutdownTimeout,
	} {
		v, ok := lookup(key)
		if !ok {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = d
	}

	for key, dst := range map[string]*bool{
		"WALLETAUTH_SECURE_COOKIES": &c.SecureCookies,
		"WALLETAUTH_DEVELOPMENT":    &c.Development,
	} {
		v, ok := lookup(key)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = b
	}
	return nil
}

func (c *Config) parseFlags(args []string) error {
	fs := flag.NewFlagSet("walletauth", flag.ContinueOnError)

	fs.StringVar(&c.Addr, "addr", c.Addr, "listen address")
	fs.StringVar(&c.DatabaseDSN, "dsn", c.DatabaseDSN, "PostgreSQL DSN (empty keeps data in memory)")
	fs.StringVar(&c.RedisURL, "redis-url", c.RedisURL, "Redis URL for the replay guard and events")
	fs.StringVar(&c.SessionSecret, "session-secret", c.SessionSecret, "HS256 session signing secret")
	fs.StringVar(&c.TrustPolicy, "trust-policy", c.TrustPolicy, "signature verification policy: signature|delegated")
	fs.DurationVar(&c.ReplayWindow, "replay-window", c.ReplayWindow, "reject reused login signatures within this window (0 disables)")
	fs.BoolVar(&c.SecureCookies, "secure-cookies", c.SecureCookies, "mark the session cookie Secure")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level")
	fs.BoolVar(&c.Development, "dev", c.Development, "development logging and gin debug mode")
	fs.DurationVar(&c.ShutdownTimeout, "shutdown-timeout", c.ShutdownTimeout, "graceful shutdown timeout")

	return fs.Parse(args)
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if len(c.SessionSecret) < MinSecretLength {
		errs = append(errs, fmt.Errorf("session secret must be at least %d bytes", MinSecretLength))
	}
	if c.TrustPolicy != verifier.PolicySignature && c.TrustPolicy != verifier.PolicyDelegated {
		errs = append(errs, fmt.Errorf("unknown trust policy %q", c.TrustPolicy))
	}
	if c.ReplayWindow < 0 {
		errs = append(errs, errors.New("replay window must not be negative"))
	}
	if c.Addr == "" {
		errs = append(errs, errors.New("listen address is required"))
	}
	return errors.Join(errs...)
}
