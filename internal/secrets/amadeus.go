package secrets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"

	"flightrank-engine/internal/config"
)

const (
	// Service groups this app's secrets in the OS keychain.
	KeyringService = "flightrank"
)

func GetAmadeusSecret(keyringAccount string) (string, error) {
	if strings.TrimSpace(keyringAccount) != "" {
		secret, err := keyring.Get(KeyringService, keyringAccount)
		if err == nil && strings.TrimSpace(secret) != "" {
			return secret, nil
		}
	}

	return "", errors.New("Amadeus API secret not found (store it via POST /api/secrets/amadeus)")
}

func SetAmadeusSecret(keyringAccount string, secret string) error {
	if strings.TrimSpace(keyringAccount) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(secret) == "" {
		return errors.New("secret is empty")
	}
	return keyring.Set(KeyringService, keyringAccount, secret)
}

func DeleteAmadeusSecret(keyringAccount string) error {
	if strings.TrimSpace(keyringAccount) == "" {
		return errors.New("keyring account name is empty")
	}
	return keyring.Delete(KeyringService, keyringAccount)
}

func AmadeusKeyringAccount(cfg config.Config) string {
	return fmt.Sprintf(
		"flightrank:amadeus:%s@%s",
		cfg.Providers.Amadeus.ClientID,
		cfg.Providers.Amadeus.Host,
	)
}
