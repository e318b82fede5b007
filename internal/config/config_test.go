package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()

	assert.Equal(t, time.Second, c.ProviderTimeout())
	assert.Equal(t, time.Minute, c.PruneInterval())
	assert.Equal(t, -1, c.Verbosity())
	assert.False(t, c.DisableLSP)
	assert.Equal(t, "gopls", c.EffectiveServers()["go"].Command)
}

func TestPath(t *testing.T) {
	path, err := Path()
	assert.NoError(t, err)

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".config", "vibeselect", "config.json")
	assert.Equal(t, expected, path)
}

func TestLoadFrom(t *testing.T) {
	t.Run("fields override defaults", func(t *testing.T) {
		c, err := LoadFrom(strings.NewReader(`{
			"provider_timeout_ms": 250,
			"servers": {"go": {"command": "/opt/gopls", "args": ["serve"]}, "python": {"command": ""}},
			"log_level": "debug"
		}`))
		require.NoError(t, err)

		assert.Equal(t, 250*time.Millisecond, c.ProviderTimeout())
		assert.Equal(t, time.Minute, c.PruneInterval(), "unset field keeps its default")
		assert.Equal(t, 2, c.Verbosity())

		servers := c.EffectiveServers()
		assert.Equal(t, "/opt/gopls", servers["go"].Command)
		assert.Equal(t, []string{"serve"}, servers["go"].Args)
		assert.NotContains(t, servers, "python")
		assert.Equal(t, "clangd", servers["c"].Command)
	})

	t.Run("invalid json", func(t *testing.T) {
		c, err := LoadFrom(strings.NewReader(`{"provider_timeout_ms":`))
		assert.Error(t, err)
		assert.Equal(t, Default(), c)
	})

	t.Run("invalid log level", func(t *testing.T) {
		_, err := LoadFrom(strings.NewReader(`{"log_level": "loud"}`))
		assert.ErrorContains(t, err, "loud")
	})

	t.Run("negative timeout", func(t *testing.T) {
		_, err := LoadFrom(strings.NewReader(`{"provider_timeout_ms": -5}`))
		assert.Error(t, err)
	})
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file gives defaults", func(t *testing.T) {
		assert.Equal(t, Default(), LoadFile(filepath.Join(dir, "absent.json")))
	})

	t.Run("save then load", func(t *testing.T) {
		path := filepath.Join(dir, "nested", "config.json")
		original := Default()
		original.DisableLSP = true
		original.Theme = "Deep Reef"

		require.NoError(t, Save(path, original))
		assert.Equal(t, original, LoadFile(path))
	})

	t.Run("corrupt file gives defaults", func(t *testing.T) {
		path := filepath.Join(dir, "corrupt.json")
		require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))
		assert.Equal(t, Default(), LoadFile(path))
	})
}
