// Package service provides application-level services that orchestrate domain services and infrastructure adapters
package service

import (
	"context"
	"time"

	"github.com/turtacn/claimctl/internal/domain/models"
	domainService "github.com/turtacn/claimctl/internal/domain/service"
	"github.com/turtacn/claimctl/pkg/constants"
	"github.com/turtacn/claimctl/pkg/errors"
	"github.com/turtacn/claimctl/pkg/logger"
	"github.com/turtacn/claimctl/pkg/utils"
)

// ClaimAppService defines the interface for the claim application service
type ClaimAppService interface {
	// SetAdminClaim replaces uid's custom claims with {"admin": true}.
	// The returned outcome is always resolved; its Err equals the returned error.
	SetAdminClaim(ctx context.Context, uid string) (*models.ClaimOutcome, error)

	// ShowClaims reads uid's current custom claims.
	ShowClaims(ctx context.Context, uid string) (*models.ClaimRecord, error)
}

// claimAppServiceImpl is the concrete implementation of ClaimAppService
type claimAppServiceImpl struct {
	loader    domainService.CredentialLoader
	connector domainService.PlatformConnector
	metrics   domainService.Metrics
	tracer    domainService.Tracer
	logger    logger.Logger
}

// NewClaimAppService creates a new instance of ClaimAppService
func NewClaimAppService(
	loader domainService.CredentialLoader,
	connector domainService.PlatformConnector,
	metrics domainService.Metrics,
	tracer domainService.Tracer,
	log logger.Logger,
) ClaimAppService {
	return &claimAppServiceImpl{
		loader:    loader,
		connector: connector,
		metrics:   metrics,
		tracer:    tracer,
		logger:    log.WithComponent("ClaimAppService"),
	}
}

// SetAdminClaim loads the credential, connects, and issues the single claim update
func (s *claimAppServiceImpl) SetAdminClaim(ctx context.Context, uid string) (*models.ClaimOutcome, error) {
	outcome := models.NewClaimOutcome(uid)
	start := time.Now()

	err := s.tracer.TraceOperation(ctx, "claims.set_admin", map[string]interface{}{"uid": uid}, func(ctx context.Context) error {
		return s.setAdminClaim(ctx, uid)
	})
	outcome.Resolve(err)

	s.metrics.RecordClaimUpdate(constants.ClaimAdmin, outcome.Succeeded(), time.Since(start), errorCode(err))
	if err != nil {
		s.logger.Error(ctx, "Failed to set admin claim", err,
			logger.String("uid", uid),
			logger.String("error_code", errorCode(err)),
		)
		return outcome, err
	}

	s.logger.Info(ctx, "Admin claim set", logger.String("uid", uid), logger.Duration("duration", time.Since(start)))
	return outcome, nil
}

func (s *claimAppServiceImpl) setAdminClaim(ctx context.Context, uid string) error {
	// 1. Validate input
	if err := utils.ValidateUID(uid); err != nil {
		return err
	}

	// 2. Load credential and connect; nothing is sent to the platform if either fails
	platform, err := s.connect(ctx)
	if err != nil {
		return err
	}

	// 3. Issue the single mutating call. The platform replaces the whole claims map.
	return s.tracer.TraceOperation(ctx, "platform.set_custom_claims", nil, func(ctx context.Context) error {
		return platform.SetCustomUserClaims(ctx, uid, models.AdminClaims())
	})
}

// ShowClaims loads the credential, connects, and reads the user record
func (s *claimAppServiceImpl) ShowClaims(ctx context.Context, uid string) (*models.ClaimRecord, error) {
	if err := utils.ValidateUID(uid); err != nil {
		return nil, err
	}

	var record *models.ClaimRecord
	err := s.tracer.TraceOperation(ctx, "claims.show", map[string]interface{}{"uid": uid}, func(ctx context.Context) error {
		platform, err := s.connect(ctx)
		if err != nil {
			return err
		}
		record, err = platform.GetCustomUserClaims(ctx, uid)
		return err
	})
	if err != nil {
		s.logger.Error(ctx, "Failed to read custom claims", err, logger.String("uid", uid))
		return nil, err
	}
	return record, nil
}

func (s *claimAppServiceImpl) connect(ctx context.Context) (domainService.IdentityPlatform, error) {
	source := string(s.loader.Source())

	var cred *models.Credential
	err := s.tracer.TraceOperation(ctx, "credential.load", map[string]interface{}{"source": source}, func(ctx context.Context) error {
		var err error
		cred, err = s.loader.Load(ctx)
		return err
	})
	s.metrics.RecordCredentialLoad(source, err == nil)
	if err != nil {
		return nil, err
	}

	var platform domainService.IdentityPlatform
	err = s.tracer.TraceOperation(ctx, "platform.connect", map[string]interface{}{"project_id": cred.ProjectID}, func(ctx context.Context) error {
		var err error
		platform, err = s.connector.Connect(ctx, cred)
		return err
	})
	if err != nil {
		return nil, err
	}
	return platform, nil
}

func errorCode(err error) string {
	if err == nil {
		return ""
	}
	return string(errors.CodeOf(err))
}
