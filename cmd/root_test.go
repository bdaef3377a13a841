package cmd

import (
	"log/slog"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "laralint.dev/pkg/laralint/internal/model"
)

func TestParseShardFlag(t *testing.T) {
	tests := []struct {
		name      string
		shard     string
		wantIndex int
		wantTotal int
	}{
		{"empty string", "", 0, 1},
		{"valid 0/3", "0/3", 0, 3},
		{"valid 1/3", "1/3", 1, 3},
		{"valid 2/3", "2/3", 2, 3},
		{"invalid format", "invalid", 0, 1},
		{"zero total", "0/0", 0, 1},
		{"negative total", "0/-1", 0, 1},
		{"negative index", "-1/3", 0, 1},
		{"index >= total", "3/3", 0, 1},
		{"index > total", "5/3", 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotIndex, gotTotal := parseShardFlag(tt.shard)
			assert.Equal(t, tt.wantIndex, gotIndex, "index")
			assert.Equal(t, tt.wantTotal, gotTotal, "total")
		})
	}
}

func TestParsePaths(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []m.Path
	}{
		{"empty", []string{}, []m.Path{}},
		{"single", []string{"."}, []m.Path{m.Path(".")}},
		{
			"multiple",
			[]string{"app", "routes", "config"},
			[]m.Path{m.Path("app"), m.Path("routes"), m.Path("config")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parsePaths(tt.args))
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	assert.Equal(t, ".laralint-reports", viper.GetString(outputFlagName))
	assert.Equal(t, "text", viper.GetString(formatConfigKey))
	assert.Equal(t, 1, viper.GetInt(checkParallelConfigKey))
	assert.Equal(t, time.Duration(0), viper.GetDuration(checkTimeoutConfigKey))
	assert.Empty(t, viper.GetStringSlice(rulesEnabledConfigKey))
	assert.Empty(t, viper.GetStringSlice(rulesDisabledConfigKey))
	assert.Empty(t, viper.GetStringMapString(rulesSeverityConfigKey))
}

func TestRegistryHoldsFullCatalog(t *testing.T) {
	require.NotNil(t, registry)
	assert.Equal(t, 17, registry.Len())

	rule, ok := registry.Get("env-direct-read")
	require.True(t, ok)
	assert.Equal(t, m.SeverityError, rule.Severity)
}

func TestCommandsRegistered(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}

	for _, want := range []string{"check", "rules", "view", "merge", "init", "version"} {
		assert.True(t, names[want], "command %s not registered", want)
	}
}

func TestRuleConfigFromViper(t *testing.T) {
	viper.Set(rulesDisabledConfigKey, []string{"fat-method"})
	viper.Set(rulesSeverityConfigKey, map[string]string{"query-in-loop": "error"})

	t.Cleanup(func() {
		viper.Set(rulesDisabledConfigKey, []string{})
		viper.Set(rulesSeverityConfigKey, map[string]string{})
	})

	cfg := ruleConfigFromViper()
	assert.Equal(t, []string{"fat-method"}, cfg.Disabled)
	assert.Equal(t, map[string]string{"query-in-loop": "error"}, cfg.Severity)
}

func TestParseSlogLevel(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"debug", "DEBUG"},
		{"info", "INFO"},
		{"warn", "WARN"},
		{"warning", "WARN"},
		{"error", "ERROR"},
		{"-4", "DEBUG"},
		{"", "INFO"},
		{"nonsense", "INFO"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got := parseSlogLevel(tt.value, slog.LevelInfo)
			assert.Equal(t, tt.want, got.String())
		})
	}
}
