package main

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"go.uber.org/zap"
)

// ErrMissingSecret is returned when neither the variable nor its file provide a value
var ErrMissingSecret = errors.New("secret not configured")

// readSecret returns a value with the following priority:
// 1. envVar environment variable
// 2. content of the file named by fileEnvVar, or defaultFile
func readSecret(logger *zap.Logger, envVar, fileEnvVar, defaultFile string) (string, error) {
	if value := os.Getenv(envVar); value != "" {
		logger.Debug("Using secret from environment variable", zap.String("env", envVar))
		return value, nil
	}

	file := os.Getenv(fileEnvVar)
	if file == "" {
		file = defaultFile
	}

	content, err := os.ReadFile(file)
	if err != nil {
		logger.Debug("Secret file not readable", zap.String("file", file), zap.Error(err))
		return "", fmt.Errorf("%w: %s or %s", ErrMissingSecret, envVar, file)
	}

	value := strings.TrimSpace(string(content))
	if value == "" {
		return "", fmt.Errorf("%w: %s is empty", ErrMissingSecret, file)
	}
	logger.Debug("Using secret from file", zap.String("file", file))
	return value, nil
}

// GetKeyDBURL returns the KeyDB URL from KEYDB_URL, CACHE_KEYDB_URL_FILE, or the default
func GetKeyDBURL(logger *zap.Logger) (string, error) {
	keydbURL, err := readSecret(logger, "KEYDB_URL", "CACHE_KEYDB_URL_FILE", "/app/.keydb-url")
	if errors.Is(err, ErrMissingSecret) {
		logger.Debug("Using default KeyDB URL")
		return "redis://keydb:6379", nil
	}
	return keydbURL, err
}

// GetAirtableAPIKey returns the API key from AIRTABLE_API_KEY or AIRTABLE_API_KEY_FILE
func GetAirtableAPIKey(logger *zap.Logger) (string, error) {
	return readSecret(logger, "AIRTABLE_API_KEY", "AIRTABLE_API_KEY_FILE", "/app/.airtable-api-key")
}

// redactURL hides credentials before a URL is logged
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid url>"
	}
	return u.Redacted()
}
