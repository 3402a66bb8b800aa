package config

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/HartBrook/promptcraft/internal/errors"
)

// APIKeyName is the key looked up in secrets files and the environment.
const APIKeyName = "OPENAI_API_KEY"

// LoadSecrets reads a flat TOML secrets file. A missing file yields an empty map.
// Only string values are kept.
func LoadSecrets(path string) (map[string]string, error) {
	raw := map[string]any{}
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, errors.SecretsInvalid(path, err)
	}

	secrets := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			secrets[k] = s
		}
	}
	return secrets, nil
}

// ResolveAPIKey returns the API key from the first secrets file that defines it,
// falling back to the OPENAI_API_KEY environment variable.
// An empty result is not an error: it surfaces as an authentication failure
// on the first backend call.
func ResolveAPIKey(secretsFiles ...string) (string, error) {
	for _, path := range secretsFiles {
		secrets, err := LoadSecrets(path)
		if err != nil {
			return "", err
		}
		if key := secrets[APIKeyName]; key != "" {
			return key, nil
		}
	}
	return os.Getenv(APIKeyName), nil
}

// SaveSecret sets name in the secrets file at path, keeping its other string entries.
// The file is written owner-readable only.
func SaveSecret(path, name, value string) error {
	secrets, err := LoadSecrets(path)
	if err != nil {
		return err
	}
	secrets[name] = value

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(secrets); err != nil {
		return errors.SecretsInvalid(path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.Wrap(errors.ErrSecretsInvalid, "failed to create secrets directory", "", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0600)
}
