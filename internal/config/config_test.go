// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package config

import (
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.AnalyzerURL)
	assert.Equal(t, 320*time.Millisecond, cfg.Debounce)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 550*time.Millisecond, cfg.AnimationDuration)
	assert.Equal(t, "dim", cfg.StaleResultPolicy)
	assert.NotEmpty(t, cfg.ConnectivityMessage)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PWDMETER_ANALYZER_URL", "https://meter.example.com")
	t.Setenv("PWDMETER_DEBOUNCE", "100ms")
	t.Setenv("PWDMETER_STALE_RESULT_POLICY", "hide")
	t.Setenv("PWDMETER_CONNECTIVITY_MESSAGE", "offline")

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "https://meter.example.com", cfg.AnalyzerURL)
	assert.Equal(t, 100*time.Millisecond, cfg.Debounce)
	assert.Equal(t, "hide", cfg.StaleResultPolicy)
	assert.Equal(t, "offline", cfg.ConnectivityMessage)
}

func TestLoad_OverrideWins(t *testing.T) {
	t.Setenv("PWDMETER_ANALYZER_URL", "https://env.example.com")

	v := viper.New()
	v.Set(KeyAnalyzerURL, "https://flag.example.com")

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "https://flag.example.com", cfg.AnalyzerURL)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("PWDMETER_ANALYZER_URL", "not a url")
	t.Setenv("PWDMETER_STALE_RESULT_POLICY", "blink")

	_, err := Load(viper.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ANALYZER_URL")
	assert.Contains(t, err.Error(), "STALE_RESULT_POLICY")
}

func TestLoadServer(t *testing.T) {
	t.Setenv("PWDMETER_PORT", "9000")
	t.Setenv("PWDMETER_TLS_CERT", "/tmp/cert.pem")

	_, err := LoadServer(viper.New())
	require.Error(t, err, "a certificate without a key should not validate")
	assert.Contains(t, err.Error(), "TLS_KEY")

	t.Setenv("PWDMETER_TLS_CERT", "")
	cfg, err := LoadServer(viper.New())
	require.NoError(t, err)
	assert.Equal(t, uint16(9000), cfg.Port)
	assert.Equal(t, int64(10000), cfg.CacheEntries)
}
