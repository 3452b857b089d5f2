// Package firebase adapts the Firebase Admin SDK to the domain's IdentityPlatform interface.
package firebase

import (
	"context"
	"os"

	fb "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/turtacn/claimctl/internal/config"
	"github.com/turtacn/claimctl/internal/domain/models"
	"github.com/turtacn/claimctl/internal/domain/service"
	"github.com/turtacn/claimctl/pkg/constants"
	"github.com/turtacn/claimctl/pkg/errors"
	"github.com/turtacn/claimctl/pkg/logger"
)

// userAuth is the part of *auth.Client the adapter calls.
type userAuth interface {
	SetCustomUserClaims(ctx context.Context, uid string, customClaims map[string]interface{}) error
	GetUser(ctx context.Context, uid string) (*auth.UserRecord, error)
}

// Connector builds Firebase Auth clients from service-account credentials.
type Connector struct {
	cfg    config.FirebaseConfig
	logger logger.Logger
}

// NewConnector creates a Connector. cfg.ProjectID, when set, wins over the credential's project.
func NewConnector(cfg config.FirebaseConfig, log logger.Logger) *Connector {
	return &Connector{
		cfg:    cfg,
		logger: log.WithComponent("FirebaseConnector"),
	}
}

var _ service.PlatformConnector = (*Connector)(nil)

// Connect initializes the Firebase app and its Auth client.
func (c *Connector) Connect(ctx context.Context, cred *models.Credential) (service.IdentityPlatform, error) {
	projectID := c.cfg.ProjectID
	if projectID == "" {
		projectID = cred.ProjectID
	}

	// The SDK only reads the emulator address from the environment.
	if c.cfg.EmulatorHost != "" && os.Getenv(constants.EmulatorHostEnv) == "" {
		if err := os.Setenv(constants.EmulatorHostEnv, c.cfg.EmulatorHost); err != nil {
			return nil, errors.ClientInit(err)
		}
	}

	app, err := fb.NewApp(ctx, &fb.Config{ProjectID: projectID}, option.WithCredentialsJSON(cred.Raw))
	if err != nil {
		c.logger.Error(ctx, "failed to initialize firebase app", err, logger.String("project_id", projectID))
		return nil, errors.ClientInit(err).WithMetadata("project_id", projectID)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		c.logger.Error(ctx, "failed to initialize firebase auth client", err, logger.String("project_id", projectID))
		return nil, errors.ClientInit(err).WithMetadata("project_id", projectID)
	}

	c.logger.Debug(ctx, "firebase auth client initialized",
		logger.String("project_id", projectID),
		logger.String("client_email", cred.ClientEmail),
		logger.Bool("emulator", c.cfg.EmulatorHost != ""),
	)
	return newAuthPlatform(client, c.logger), nil
}

// authPlatform implements service.IdentityPlatform on top of Firebase Auth.
type authPlatform struct {
	client userAuth
	logger logger.Logger
}

func newAuthPlatform(client userAuth, log logger.Logger) *authPlatform {
	return &authPlatform{client: client, logger: log}
}

// SetCustomUserClaims replaces the user's custom claims.
func (p *authPlatform) SetCustomUserClaims(ctx context.Context, uid string, claims models.CustomClaims) error {
	if err := p.client.SetCustomUserClaims(ctx, uid, claims); err != nil {
		return mapError(uid, "set custom user claims", err)
	}
	return nil
}

// GetCustomUserClaims reads the user record and returns its custom claims.
func (p *authPlatform) GetCustomUserClaims(ctx context.Context, uid string) (*models.ClaimRecord, error) {
	user, err := p.client.GetUser(ctx, uid)
	if err != nil {
		return nil, mapError(uid, "get user", err)
	}

	record := &models.ClaimRecord{UID: user.UID}
	if len(user.CustomClaims) > 0 {
		record.Claims = models.CustomClaims(user.CustomClaims)
	}
	return record, nil
}

func mapError(uid, operation string, err error) error {
	if auth.IsUserNotFound(err) {
		return errors.UserNotFound(uid, err)
	}
	return errors.RemoteCall(operation, err).WithMetadata("uid", uid)
}
