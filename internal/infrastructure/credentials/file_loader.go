package credentials

import (
	"context"
	"os"

	"github.com/turtacn/claimctl/internal/domain/models"
	"github.com/turtacn/claimctl/pkg/constants"
	"github.com/turtacn/claimctl/pkg/errors"
	"github.com/turtacn/claimctl/pkg/logger"
)

// FileLoader reads a JSON key file from the local filesystem.
type FileLoader struct {
	path   string
	logger logger.Logger
}

// NewFileLoader creates a FileLoader for path.
func NewFileLoader(path string, log logger.Logger) *FileLoader {
	return &FileLoader{
		path:   path,
		logger: log.WithComponent("FileLoader"),
	}
}

// Load reads and parses the key file.
func (l *FileLoader) Load(ctx context.Context) (*models.Credential, error) {
	if l.path == "" {
		return nil, errors.CredentialUnavailable(constants.CredentialSourceFile, os.ErrNotExist).
			WithMetadata("path", "")
	}

	raw, err := os.ReadFile(l.path)
	if err != nil {
		l.logger.Error(ctx, "failed to read credential file", err, logger.String("path", l.path))
		return nil, errors.CredentialUnavailable(constants.CredentialSourceFile, err).WithMetadata("path", l.path)
	}

	cred, err := models.ParseCredential(raw, constants.CredentialSourceFile)
	if err != nil {
		l.logger.Error(ctx, "credential file is not a service account key", err, logger.String("path", l.path))
		return nil, err
	}

	l.logger.Debug(ctx, "credential loaded",
		logger.String("path", l.path),
		logger.String("project_id", cred.ProjectID),
		logger.String("client_email", cred.ClientEmail),
	)
	return cred, nil
}

// Source implements service.CredentialLoader.
func (l *FileLoader) Source() constants.CredentialSource {
	return constants.CredentialSourceFile
}
