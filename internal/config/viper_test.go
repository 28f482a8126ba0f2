package config

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CVDExInfo/finplan/internal/forecast"
)

func TestInitializeConfigDefaults(t *testing.T) {
	cfg, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, forecast.DefaultHorizon, cfg.Forecast.Horizon)
	assert.Equal(t, "taxonomy.yaml", cfg.Data.TaxonomyFile)
	assert.Equal(t, "aliases.yaml", cfg.Data.AliasesFile)
	assert.Equal(t, ",", cfg.CSV.Delimiter)
}

func TestInitializeConfigEnvOverrides(t *testing.T) {
	t.Setenv("FINPLAN_LOG_LEVEL", "debug")
	t.Setenv("FINPLAN_FORECAST_HORIZON", "24")

	cfg, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 24, cfg.Forecast.Horizon)
}

func TestInitializeConfigInvalidHorizon(t *testing.T) {
	t.Setenv("FINPLAN_FORECAST_HORIZON", "0")

	_, err := InitializeConfig()
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		cfg.Log.Level = "info"
		cfg.Log.Format = "text"
		cfg.Forecast.Horizon = 12
		cfg.CSV.Delimiter = ","
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}, wantErr: false},
		{name: "bad log level", mutate: func(c *Config) { c.Log.Level = "verbose" }, wantErr: true},
		{name: "bad log format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: true},
		{name: "horizon too small", mutate: func(c *Config) { c.Forecast.Horizon = 0 }, wantErr: true},
		{name: "horizon too large", mutate: func(c *Config) { c.Forecast.Horizon = forecast.MaxHorizon + 1 }, wantErr: true},
		{name: "horizon at max", mutate: func(c *Config) { c.Forecast.Horizon = forecast.MaxHorizon }, wantErr: false},
		{name: "bad delimiter", mutate: func(c *Config) { c.CSV.Delimiter = ";;" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := validateConfig(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	cfg := &Config{}
	cfg.Log.Level = "debug"
	cfg.Log.Format = "json"

	logger := ConfigureLoggingFromConfig(cfg)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)

	cfg.Log.Level = "nonsense"
	cfg.Log.Format = "text"
	logger = ConfigureLoggingFromConfig(cfg)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
}

func TestConfigureLoggingFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")

	logger := ConfigureLogging()
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)
}

func TestGetEnv(t *testing.T) {
	t.Setenv("FINPLAN_TEST_VALUE", "set")
	assert.Equal(t, "set", GetEnv("FINPLAN_TEST_VALUE", "fallback"))
	assert.Equal(t, "fallback", GetEnv("FINPLAN_TEST_MISSING", "fallback"))
}
