package vault

import (
	"fmt"

	"github.com/hashicorp/vault/api"
)

// SecretManager reads the external service credentials from Vault as an
// alternative to plain environment variables.
type SecretManager struct {
	client *api.Client
}

func NewSecretManager(address, token string) (*SecretManager, error) {
	config := api.DefaultConfig()
	config.Address = address

	client, err := api.NewClient(config)
	if err != nil {
		return nil, err
	}

	client.SetToken(token)

	return &SecretManager{client: client}, nil
}

func (sm *SecretManager) GetOpenAIAPIKey() (string, error) {
	return sm.readField("secret/data/openai", "api_key")
}

func (sm *SecretManager) GetElevenLabsAPIKey() (string, error) {
	return sm.readField("secret/data/elevenlabs", "api_key")
}

// GetCalendarToken returns the authorized-user credential JSON for the
// calendar account.
func (sm *SecretManager) GetCalendarToken() (string, error) {
	return sm.readField("secret/data/google-calendar", "token_json")
}

func (sm *SecretManager) readField(path, field string) (string, error) {
	secret, err := sm.client.Logical().Read(path)
	if err != nil {
		return "", err
	}
	if secret == nil || secret.Data == nil {
		return "", fmt.Errorf("vault: secret %s not found", path)
	}

	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("vault: secret %s has no data", path)
	}
	value, ok := data[field].(string)
	if !ok {
		return "", fmt.Errorf("vault: secret %s missing field %s", path, field)
	}
	return value, nil
}
