// Package secrets holds the cache encryption key in the system
// credential store, with an environment override for headless use.
package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	defaultSecretService = "tracker"
	defaultSecretUser    = "cache_db_key"
)

var (
	keyringGet = keyring.Get
	keyringSet = keyring.Set
)

// LoadDBKey loads the local cache encryption key.
//
// Order of precedence:
// 1) TRACKER_DB_KEY environment variable.
// 2) System keyring item referenced by service/account.
func LoadDBKey() (string, error) {
	if key := strings.TrimSpace(os.Getenv("TRACKER_DB_KEY")); key != "" {
		return key, nil
	}

	key, err := loadFromKeyring()
	if err != nil {
		return "", err
	}

	if key == "" {
		return "", errors.New("cache db key is empty")
	}

	return key, nil
}

// SaveDBKey stores the cache encryption key in the system credential store.
func SaveDBKey(key string) error {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return errors.New("cache db key cannot be empty")
	}

	service := envOrDefault("TRACKER_KEYCHAIN_SERVICE", defaultSecretService)
	account := envOrDefault("TRACKER_KEYCHAIN_ACCOUNT", defaultSecretUser)

	if err := keyringSet(service, account, trimmed); err != nil {
		return fmt.Errorf(
			"failed to store keyring item service=%q account=%q: %w",
			service,
			account,
			err,
		)
	}

	return nil
}

func loadFromKeyring() (string, error) {
	service := envOrDefault("TRACKER_KEYCHAIN_SERVICE", defaultSecretService)
	account := envOrDefault("TRACKER_KEYCHAIN_ACCOUNT", defaultSecretUser)

	secret, err := keyringGet(service, account)
	if err != nil {
		return "", fmt.Errorf(
			"failed to read keyring item service=%q account=%q: %w",
			service,
			account,
			err,
		)
	}

	return strings.TrimSpace(secret), nil
}

func envOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
