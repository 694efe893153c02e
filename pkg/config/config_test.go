package config

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())

	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, 180, c.Data.WindowDays)
	assert.Equal(t, 20, c.Data.PerTeamLimit)
	assert.NotEmpty(t, c.Teams)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  port: 9090
data:
  window_days: 90
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, c.Server.Port)
	assert.Equal(t, 90, c.Data.WindowDays)
	// untouched values keep their defaults
	assert.Equal(t, 20, c.Data.PerTeamLimit)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: -1\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadWithEnvMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("FOOTBALL_DATA_API_TOKEN", "test-token")
	t.Setenv("PORT", "3000")

	c, err := LoadWithEnv(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "test-token", c.API.Token)
	assert.Equal(t, 3000, c.Server.Port)
}

func TestTeamLookup(t *testing.T) {
	c := Default()

	id, ok := c.TeamID("Arsenal")
	require.True(t, ok)
	assert.Equal(t, 57, id)

	_, ok = c.TeamID("Melchester Rovers")
	assert.False(t, ok)
}

func TestTeamNamesSorted(t *testing.T) {
	c := Default()
	names := c.TeamNames()

	assert.Len(t, names, len(c.Teams))
	assert.True(t, sort.StringsAreSorted(names))
}
