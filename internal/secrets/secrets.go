package secrets

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/zalando/go-keyring"

	"crelate-engine/internal/config"
)

const (
	// Service groups this app's secrets in the OS keychain.
	KeyringService = "crelate-engine"

	apiKeyPrefix  = "crelate:api:"
	signingSecret = "crelate:download-signing"
)

func apiKeyAccount(cfg config.Config) string {
	host := cfg.Crelate.Endpoint
	if u, err := url.Parse(cfg.Crelate.Endpoint); err == nil && u.Host != "" {
		host = u.Host
	}
	return apiKeyPrefix + host
}

// APIKey resolves keyring-first, config-file fallback. Empty means not
// configured; the caller decides how loudly to complain.
func APIKey(cfg config.Config) string {
	if pw, err := keyring.Get(KeyringService, apiKeyAccount(cfg)); err == nil && strings.TrimSpace(pw) != "" {
		return pw
	}
	return strings.TrimSpace(cfg.Crelate.APIKey)
}

func SetAPIKey(cfg config.Config, key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("api key is empty")
	}
	return keyring.Set(KeyringService, apiKeyAccount(cfg), key)
}

func DeleteAPIKey(cfg config.Config) error {
	return keyring.Delete(KeyringService, apiKeyAccount(cfg))
}

// SigningSecret resolves the download-URL signing secret, keyring first.
func SigningSecret(cfg config.Config) (string, error) {
	if pw, err := keyring.Get(KeyringService, signingSecret); err == nil && strings.TrimSpace(pw) != "" {
		return pw, nil
	}
	if s := strings.TrimSpace(cfg.Download.SigningSecret); s != "" {
		return s, nil
	}
	return "", fmt.Errorf("download signing secret not set (keychain service %q or download.signing_secret)", KeyringService)
}

func SetSigningSecret(secret string) error {
	if strings.TrimSpace(secret) == "" {
		return errors.New("signing secret is empty")
	}
	return keyring.Set(KeyringService, signingSecret, secret)
}
