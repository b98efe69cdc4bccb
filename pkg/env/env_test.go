package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetters(t *testing.T) {
	t.Setenv("TEST_STRING", "value")
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_BAD_INT", "forty")
	t.Setenv("TEST_BOOL", "true")
	t.Setenv("TEST_LIST", " /health, ,/metrics,")

	assert.Equal(t, "value", GetString("TEST_STRING", "x"))
	assert.Equal(t, "x", GetString("TEST_UNSET", "x"))
	assert.Equal(t, 42, GetInt("TEST_INT", 1))
	assert.Equal(t, 1, GetInt("TEST_BAD_INT", 1))
	assert.Equal(t, 1, GetInt("TEST_UNSET", 1))
	assert.True(t, GetBool("TEST_BOOL", false))
	assert.True(t, GetBool("TEST_UNSET", true))
	assert.Equal(t, []string{"/health", "/metrics"}, GetList("TEST_LIST", nil))
	assert.Equal(t, []string{"a"}, GetList("TEST_UNSET", []string{"a"}))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("TEST_FROM_FILE=file\nTEST_PRESET=file\n"), 0o600))

	t.Setenv("TEST_PRESET", "env")
	t.Setenv("TEST_FROM_FILE", "")
	os.Unsetenv("TEST_FROM_FILE")

	require.NoError(t, Load(path))
	t.Cleanup(func() { os.Unsetenv("TEST_FROM_FILE") })

	assert.Equal(t, "file", GetString("TEST_FROM_FILE", ""))
	assert.Equal(t, "env", GetString("TEST_PRESET", ""))

	require.Error(t, Load(filepath.Join(t.TempDir(), "missing.env")))
}
