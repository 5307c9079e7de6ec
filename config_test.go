package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseConfigDefaults
func TestParseConfigDefaults(t *testing.T) {
	Config = Configuration{}
	require.NoError(t, parseConfig(""))
	assert.Equal(t, 8181, Config.Port)
	assert.Equal(t, "100-S", Config.LimiterPeriod)
	assert.Equal(t, DefaultPredictURL, Config.PredictURL)
	assert.Equal(t, time.Duration(0), Config.PredictTimeoutDuration())
	assert.Equal(t, time.Hour, Config.VisitTTLDuration())
	assert.Equal(t, int64(10000), Config.MaxVisits)
	assert.False(t, Config.TLS())
}

// TestParseConfig
func TestParseConfig(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "config.json")
	data := []byte(`{"port": 9000, "predict_url": "http://localhost:8000/predict", "predict_timeout": 30, "domain_names": ["example.com"]}`)
	require.NoError(t, os.WriteFile(fname, data, 0644))

	Config = Configuration{}
	require.NoError(t, parseConfig(fname))
	assert.Equal(t, 9000, Config.Port)
	assert.Equal(t, "http://localhost:8000/predict", Config.PredictURL)
	assert.Equal(t, 30*time.Second, Config.PredictTimeoutDuration())
	assert.True(t, Config.TLS())

	Config = Configuration{}
	assert.Error(t, parseConfig(filepath.Join(t.TempDir(), "missing.json")))
}
