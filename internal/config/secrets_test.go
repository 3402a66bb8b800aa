package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/HartBrook/promptcraft/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSecrets(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "secrets.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadSecrets(t *testing.T) {
	path := writeSecrets(t, `
OPENAI_API_KEY = "sk-from-file"
RETRIES = 3
`)

	secrets, err := LoadSecrets(path)
	require.NoError(t, err)

	assert.Equal(t, "sk-from-file", secrets[APIKeyName])
	_, hasNonString := secrets["RETRIES"]
	assert.False(t, hasNonString)
}

func TestLoadSecrets_Missing(t *testing.T) {
	secrets, err := LoadSecrets(filepath.Join(t.TempDir(), "none.toml"))

	require.NoError(t, err)
	assert.Empty(t, secrets)
}

func TestLoadSecrets_Invalid(t *testing.T) {
	path := writeSecrets(t, "OPENAI_API_KEY = ")

	_, err := LoadSecrets(path)

	require.Error(t, err)
	assert.Equal(t, errors.ErrSecretsInvalid, errors.CodeOf(err))
}

func TestResolveAPIKey_SecretsFileWins(t *testing.T) {
	t.Setenv(APIKeyName, "sk-from-env")
	path := writeSecrets(t, `OPENAI_API_KEY = "sk-from-file"`)

	key, err := ResolveAPIKey(path)

	require.NoError(t, err)
	assert.Equal(t, "sk-from-file", key)
}

func TestResolveAPIKey_FirstFileWins(t *testing.T) {
	project := writeSecrets(t, `OPENAI_API_KEY = "sk-project"`)
	user := writeSecrets(t, `OPENAI_API_KEY = "sk-user"`)

	key, err := ResolveAPIKey(project, user)

	require.NoError(t, err)
	assert.Equal(t, "sk-project", key)
}

func TestResolveAPIKey_FallsBackToEnv(t *testing.T) {
	t.Setenv(APIKeyName, "sk-from-env")
	path := writeSecrets(t, `OTHER = "x"`)

	key, err := ResolveAPIKey(path, filepath.Join(t.TempDir(), "missing.toml"))

	require.NoError(t, err)
	assert.Equal(t, "sk-from-env", key)
}

func TestResolveAPIKey_NothingConfigured(t *testing.T) {
	t.Setenv(APIKeyName, "")

	key, err := ResolveAPIKey(filepath.Join(t.TempDir(), "missing.toml"))

	require.NoError(t, err)
	assert.Empty(t, key)
}

func TestSaveSecret_KeepsOtherEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "secrets.toml")
	require.NoError(t, SaveSecret(path, "OTHER", "keep-me"))
	require.NoError(t, SaveSecret(path, APIKeyName, "sk-saved"))

	secrets, err := LoadSecrets(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-saved", secrets[APIKeyName])
	assert.Equal(t, "keep-me", secrets["OTHER"])

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}
