package credentials

import (
	"context"
	"encoding/json"
	"fmt"

	vault "github.com/hashicorp/vault/api"
	"github.com/turtacn/claimctl/internal/config"
	"github.com/turtacn/claimctl/internal/domain/models"
	"github.com/turtacn/claimctl/pkg/constants"
	"github.com/turtacn/claimctl/pkg/errors"
	"github.com/turtacn/claimctl/pkg/logger"
)

// VaultLoader reads the key from a field of a KV v2 secret.
// The field may hold the key as a JSON string or as a nested object.
type VaultLoader struct {
	address   string
	token     string
	mountPath string
	path      string
	field     string
	logger    logger.Logger
}

// NewVaultLoader creates a loader; the Vault client is built on Load. An empty token falls back to
// VAULT_TOKEN.
func NewVaultLoader(cfg *config.VaultConfig, log logger.Logger) *VaultLoader {
	return &VaultLoader{
		address:   cfg.Address,
		token:     cfg.Token,
		mountPath: cfg.MountPath,
		path:      cfg.SecretPath,
		field:     cfg.Field,
		logger:    log.WithComponent("VaultLoader"),
	}
}

func (l *VaultLoader) newClient() (*vault.Client, error) {
	vaultConfig := vault.DefaultConfig()
	vaultConfig.Address = l.address

	client, err := vault.NewClient(vaultConfig)
	if err != nil {
		return nil, err
	}
	if l.token != "" {
		client.SetToken(l.token)
	}
	return client, nil
}

// Load reads the secret and parses the configured field.
func (l *VaultLoader) Load(ctx context.Context) (*models.Credential, error) {
	client, err := l.newClient()
	if err != nil {
		l.logger.Error(ctx, "failed to create Vault client", err, logger.String("address", l.address))
		return nil, errors.CredentialUnavailable(constants.CredentialSourceVault, err)
	}

	secret, err := client.KVv2(l.mountPath).Get(ctx, l.path)
	if err != nil {
		l.logger.Error(ctx, "failed to read credential from Vault", err,
			logger.String("mount", l.mountPath),
			logger.String("path", l.path),
		)
		return nil, errors.CredentialUnavailable(constants.CredentialSourceVault, err).WithMetadata("path", l.path)
	}
	if secret == nil || secret.Data == nil {
		return nil, errors.CredentialInvalid(fmt.Sprintf("vault secret %s/%s is empty", l.mountPath, l.path))
	}

	raw, err := fieldBytes(secret.Data[l.field])
	if err != nil {
		return nil, errors.CredentialInvalid(fmt.Sprintf("vault secret %s/%s field %q: %v", l.mountPath, l.path, l.field, err))
	}

	cred, err := models.ParseCredential(raw, constants.CredentialSourceVault)
	if err != nil {
		return nil, err
	}

	l.logger.Debug(ctx, "credential loaded",
		logger.String("path", l.path),
		logger.String("project_id", cred.ProjectID),
	)
	return cred, nil
}

// Source implements service.CredentialLoader.
func (l *VaultLoader) Source() constants.CredentialSource {
	return constants.CredentialSourceVault
}

func fieldBytes(v interface{}) ([]byte, error) {
	switch val := v.(type) {
	case nil:
		return nil, fmt.Errorf("not found")
	case string:
		return []byte(val), nil
	case map[string]interface{}:
		return json.Marshal(val)
	default:
		return nil, fmt.Errorf("unsupported type %T", v)
	}
}
