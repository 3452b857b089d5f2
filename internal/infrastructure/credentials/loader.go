// Package credentials reads service-account key material from a file, HashiCorp Vault, or Google
// Secret Manager.
package credentials

import (
	"fmt"

	"github.com/turtacn/claimctl/internal/config"
	"github.com/turtacn/claimctl/internal/domain/service"
	"github.com/turtacn/claimctl/pkg/constants"
	"github.com/turtacn/claimctl/pkg/errors"
	"github.com/turtacn/claimctl/pkg/logger"
)

// NewLoader builds the loader selected by cfg.Source.
// Clients for remote sources are created on Load, so connection failures surface as credential errors.
func NewLoader(cfg *config.CredentialConfig, log logger.Logger) (service.CredentialLoader, error) {
	switch constants.CredentialSource(cfg.Source) {
	case constants.CredentialSourceFile:
		return NewFileLoader(cfg.Path, log), nil
	case constants.CredentialSourceVault:
		return NewVaultLoader(&cfg.Vault, log), nil
	case constants.CredentialSourceSecretManager:
		return NewSecretManagerLoader(&cfg.SecretManager, log), nil
	default:
		return nil, errors.ConfigInvalid(fmt.Sprintf("unknown credential.source %q", cfg.Source))
	}
}
