package credentials

import (
	"context"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretmanagerpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/googleapis/gax-go/v2"
	"github.com/turtacn/claimctl/internal/config"
	"github.com/turtacn/claimctl/internal/domain/models"
	"github.com/turtacn/claimctl/pkg/constants"
	"github.com/turtacn/claimctl/pkg/errors"
	"github.com/turtacn/claimctl/pkg/logger"
)

// SecretAccessor is the part of the Secret Manager client the loader uses.
type SecretAccessor interface {
	AccessSecretVersion(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest, opts ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error)
	Close() error
}

// SecretManagerLoader reads the key from a Google Secret Manager secret version.
// The Secret Manager client itself authenticates with application default credentials.
type SecretManagerLoader struct {
	newClient func(ctx context.Context) (SecretAccessor, error)
	name      string
	logger    logger.Logger
}

// NewSecretManagerLoader creates a loader whose client is built on Load with application default
// credentials.
func NewSecretManagerLoader(cfg *config.SecretManagerConfig, log logger.Logger) *SecretManagerLoader {
	return newSecretManagerLoader(func(ctx context.Context) (SecretAccessor, error) {
		client, err := secretmanager.NewClient(ctx)
		if err != nil {
			return nil, err
		}
		return client, nil
	}, cfg, log)
}

// NewSecretManagerLoaderWithClient wraps an existing client.
func NewSecretManagerLoaderWithClient(client SecretAccessor, cfg *config.SecretManagerConfig, log logger.Logger) *SecretManagerLoader {
	return newSecretManagerLoader(func(context.Context) (SecretAccessor, error) {
		return client, nil
	}, cfg, log)
}

func newSecretManagerLoader(newClient func(ctx context.Context) (SecretAccessor, error), cfg *config.SecretManagerConfig, log logger.Logger) *SecretManagerLoader {
	return &SecretManagerLoader{
		newClient: newClient,
		name:      cfg.ResourceName(),
		logger:    log.WithComponent("SecretManagerLoader"),
	}
}

// Load accesses the secret version and parses its payload. The client is closed afterwards; a
// loader is used once per run.
func (l *SecretManagerLoader) Load(ctx context.Context) (*models.Credential, error) {
	client, err := l.newClient(ctx)
	if err != nil {
		l.logger.Error(ctx, "failed to create Secret Manager client", err)
		return nil, errors.CredentialUnavailable(constants.CredentialSourceSecretManager, err).WithMetadata("name", l.name)
	}
	defer func() {
		if err := client.Close(); err != nil {
			l.logger.Warn(ctx, "failed to close Secret Manager client", logger.String("error", err.Error()))
		}
	}()

	resp, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: l.name})
	if err != nil {
		l.logger.Error(ctx, "failed to access secret version", err, logger.String("name", l.name))
		return nil, errors.CredentialUnavailable(constants.CredentialSourceSecretManager, err).WithMetadata("name", l.name)
	}
	if resp.GetPayload() == nil || len(resp.GetPayload().GetData()) == 0 {
		return nil, errors.CredentialInvalid("secret " + l.name + " has an empty payload")
	}

	cred, err := models.ParseCredential(resp.GetPayload().GetData(), constants.CredentialSourceSecretManager)
	if err != nil {
		return nil, err
	}

	l.logger.Debug(ctx, "credential loaded",
		logger.String("name", l.name),
		logger.String("project_id", cred.ProjectID),
	)
	return cred, nil
}

// Source implements service.CredentialLoader.
func (l *SecretManagerLoader) Source() constants.CredentialSource {
	return constants.CredentialSourceSecretManager
}
