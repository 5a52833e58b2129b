package cmd

import (
	"bytes"
	"testing"

	"hotspot-control/core/apikey"
	"hotspot-control/core/server"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestKeyGenerate(t *testing.T) {
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetArgs([]string{"key", "generate"})
	t.Cleanup(func() {
		RootCmd.SetOut(nil)
		RootCmd.SetArgs(nil)
	})

	require.NoError(t, RootCmd.Execute())

	key := bytes.TrimSpace(out.Bytes())
	assert.True(t, apikey.Valid(string(key)))
}

func TestStatusURL(t *testing.T) {
	assert.Equal(t, "http://127.0.0.1:9999/k/api/status", statusURL("127.0.0.1", 9999, true, "k"))
	assert.Equal(t, "http://127.0.0.1:9999/api/status", statusURL("127.0.0.1", 9999, false, "k"))
	assert.Equal(t, "http://[::1]:10000/api/status", statusURL("::1", 10000, false, ""))
}

func TestEnsureKey(t *testing.T) {
	t.Run("Reload Enables Auth Without Any Key", func(t *testing.T) {
		cfg := server.Config{Ports: []int{9999}, AuthEnabled: true}
		ensureKey(&cfg, "", zap.NewNop())
		assert.True(t, apikey.Valid(cfg.ApiKey))
		assert.NoError(t, cfg.Validate())
	})

	t.Run("Reload Keeps Previous Key", func(t *testing.T) {
		cfg := server.Config{Ports: []int{9999}, AuthEnabled: true}
		ensureKey(&cfg, "previous-key-0123456789", zap.NewNop())
		assert.Equal(t, "previous-key-0123456789", cfg.ApiKey)
	})

	t.Run("Configured Key Wins", func(t *testing.T) {
		cfg := server.Config{AuthEnabled: true, ApiKey: "configured-key-0123456"}
		ensureKey(&cfg, "previous-key-0123456789", zap.NewNop())
		assert.Equal(t, "configured-key-0123456", cfg.ApiKey)
	})

	t.Run("Auth Disabled", func(t *testing.T) {
		cfg := server.Config{}
		ensureKey(&cfg, "", zap.NewNop())
		assert.Empty(t, cfg.ApiKey)
	})
}
