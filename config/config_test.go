package config

import (
	"testing"
	"time"

	"github.com/layer-3/walletauth/adapters/verifier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123456789abcdef"

func envOf(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()
	assert.Equal(t, ":9000", c.Addr)
	assert.Equal(t, verifier.PolicySignature, c.TrustPolicy)
	assert.Equal(t, 10*time.Minute, c.ReplayWindow)
	assert.False(t, c.SecureCookies)
}

func TestEnvThenFlags(t *testing.T) {
	var c Config
	c.LoadDefaults()

	require.NoError(t, c.loadEnv(envOf(map[string]string{
		"WALLETAUTH_ADDR":           ":8080",
		"WALLETAUTH_SESSION_SECRET": secret,
		"WALLETAUTH_REPLAY_WINDOW":  "1m",
		"WALLETAUTH_SECURE_COOKIES": "true",
		"WALLETAUTH_TRUST_POLICY":   "delegated",
	})))
	assert.Equal(t, ":8080", c.Addr)
	assert.Equal(t, time.Minute, c.ReplayWindow)
	assert.True(t, c.SecureCookies)
	assert.Equal(t, verifier.PolicyDelegated, c.TrustPolicy)

	require.NoError(t, c.parseFlags([]string{"-addr", ":7000", "-trust-policy", "signature", "-replay-window", "0s"}))
	assert.Equal(t, ":7000", c.Addr)
	assert.Equal(t, verifier.PolicySignature, c.TrustPolicy)
	assert.Zero(t, c.ReplayWindow)
	assert.Equal(t, secret, c.SessionSecret)

	require.NoError(t, c.Validate())
}

func TestEnvErrors(t *testing.T) {
	var c Config
	require.Error(t, c.loadEnv(envOf(map[string]string{"WALLETAUTH_REPLAY_WINDOW": "soon"})))
	require.Error(t, c.loadEnv(envOf(map[string]string{"WALLETAUTH_SECURE_COOKIES": "maybe"})))
}

func TestValidate(t *testing.T) {
	var c Config
	c.LoadDefaults()
	c.SessionSecret = "short"
	require.Error(t, c.Validate())

	c.SessionSecret = secret
	c.TrustPolicy = "both"
	require.Error(t, c.Validate())

	c.TrustPolicy = verifier.PolicyDelegated
	c.ReplayWindow = -time.Second
	require.Error(t, c.Validate())

	c.ReplayWindow = 0
	require.NoError(t, c.Validate())
}

func TestLoad(t *testing.T) {
	t.Setenv("WALLETAUTH_SESSION_SECRET", secret)
	t.Setenv("WALLETAUTH_LOG_LEVEL", "debug")

	cfg, err := Load([]string{"-dsn", "postgres://localhost/walletauth"})
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "postgres://localhost/walletauth", cfg.DatabaseDSN)

	_, err = Load([]string{"-unknown"})
	require.Error(t, err)
}
