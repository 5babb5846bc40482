package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/todmy/report-checker/internal/contradiction"
)

func env(values map[string]string) func(string) string {
	return func(k string) string { return values[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{"JWT_SECRET": "s"}))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "local", cfg.Env)
	assert.False(t, cfg.Production())
	assert.True(t, cfg.AuthEnabled)
	assert.Equal(t, 512, cfg.CacheSize)
	assert.Equal(t, contradiction.DefaultConfig(), cfg.Engine)
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"PORT":                    ":9090",
		"APP_ENV":                 "production",
		"DATABASE_URL":            "postgres://localhost/reports",
		"AUTH_DISABLED":           "true",
		"RULES_FILE":              "rules.yaml",
		"CACHE_SIZE":              "0",
		"MAX_SENTENCES":           "400",
		"ALL_OCCURRENCES":         "1",
		"RULE_FAILURE_POLICY":     "propagate",
		"BOOTSTRAP_CLIENT_ID":     " valuer-app ",
		"BOOTSTRAP_CLIENT_SECRET": "s3cret",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr())
	assert.True(t, cfg.Production())
	assert.False(t, cfg.AuthEnabled)
	assert.Equal(t, "postgres://localhost/reports", cfg.DatabaseURL)
	assert.Equal(t, "rules.yaml", cfg.RulesFile)
	assert.Equal(t, 0, cfg.CacheSize)
	assert.Equal(t, 400, cfg.Engine.MaxSentences)
	assert.True(t, cfg.Engine.AllOccurrences)
	assert.Equal(t, contradiction.PropagateFailures, cfg.Engine.FailurePolicy)
	assert.Equal(t, "valuer-app", cfg.BootstrapClientID)
	assert.Equal(t, "s3cret", cfg.BootstrapClientSecret)
}

func TestFromEnv_Errors(t *testing.T) {
	cases := []map[string]string{
		{},                                     // auth on without secret
		{"AUTH_DISABLED": "maybe"},             // bad bool
		{"JWT_SECRET": "s", "CACHE_SIZE": "x"}, // bad int
		{"JWT_SECRET": "s", "MAX_SENTENCES": "-1"},
		{"JWT_SECRET": "s", "RULE_FAILURE_POLICY": "shrug"},
	}
	for _, c := range cases {
		_, err := FromEnv(env(c))
		assert.Error(t, err, "%v", c)
	}
}
