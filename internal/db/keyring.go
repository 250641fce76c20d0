package db

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/rebeliceyang/lazygrid/internal/models"
)

// KeyringService is the service name passwords are stored under
const KeyringService = "lazygrid"

// keyringAccount identifies a PostgreSQL login in the system keyring
func keyringAccount(cfg models.SourceConfig) string {
	return fmt.Sprintf("%s@%s/%s", cfg.User, cfg.Host, cfg.Database)
}

// ResolvePassword fills in a missing PostgreSQL password from the system
// keyring. A missing keyring entry is not an error.
func ResolvePassword(cfg models.SourceConfig) (models.SourceConfig, error) {
	if cfg.Driver != models.DriverPostgres || cfg.DSN != "" || cfg.Password != "" || cfg.User == "" {
		return cfg, nil
	}

	password, err := keyring.Get(KeyringService, keyringAccount(cfg))
	if errors.Is(err, keyring.ErrNotFound) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read keyring: %w", err)
	}

	cfg.Password = password
	return cfg, nil
}

// StorePassword saves a PostgreSQL password in the system keyring
func StorePassword(cfg models.SourceConfig, password string) error {
	if cfg.User == "" {
		return fmt.Errorf("cannot store a password without a user")
	}
	return keyring.Set(KeyringService, keyringAccount(cfg), password)
}
