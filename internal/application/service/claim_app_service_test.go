package service_test

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/turtacn/claimctl/internal/application/service"
	"github.com/turtacn/claimctl/internal/domain/models"
	domainservice "github.com/turtacn/claimctl/internal/domain/service"
	"github.com/turtacn/claimctl/internal/domain/service/mocks"
	"github.com/turtacn/claimctl/internal/infrastructure/monitoring"
	"github.com/turtacn/claimctl/pkg/constants"
	"github.com/turtacn/claimctl/pkg/errors"
	"github.com/turtacn/claimctl/pkg/logger"
)

const existingUID = "5Oe8NEmjBXa9uxK2Up2up4Jp2Sx2"

// fakePlatform is an in-memory tenant: SetCustomUserClaims replaces the map like the real platform.
type fakePlatform struct {
	mu     sync.Mutex
	users  map[string]models.CustomClaims
	writes int
}

func newFakePlatform(uids ...string) *fakePlatform {
	p := &fakePlatform{users: make(map[string]models.CustomClaims)}
	for _, uid := range uids {
		p.users[uid] = nil
	}
	return p
}

func (p *fakePlatform) SetCustomUserClaims(ctx context.Context, uid string, claims models.CustomClaims) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.users[uid]; !ok {
		return errors.UserNotFound(uid, stderrors.New("USER_NOT_FOUND"))
	}
	replaced := make(models.CustomClaims, len(claims))
	for k, v := range claims {
		replaced[k] = v
	}
	p.users[uid] = replaced
	p.writes++
	return nil
}

func (p *fakePlatform) GetCustomUserClaims(ctx context.Context, uid string) (*models.ClaimRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	claims, ok := p.users[uid]
	if !ok {
		return nil, errors.UserNotFound(uid, stderrors.New("USER_NOT_FOUND"))
	}
	return &models.ClaimRecord{UID: uid, Claims: claims}, nil
}

type ClaimAppServiceTestSuite struct {
	suite.Suite
	loader    *mocks.MockCredentialLoader
	connector *mocks.MockPlatformConnector
	metrics   *mocks.MockMetrics
	platform  *fakePlatform
	spans     *tracetest.InMemoryExporter
	cred      *models.Credential
	svc       service.ClaimAppService
}

func (s *ClaimAppServiceTestSuite) SetupTest() {
	s.loader = new(mocks.MockCredentialLoader)
	s.connector = new(mocks.MockPlatformConnector)
	s.metrics = new(mocks.MockMetrics)
	s.platform = newFakePlatform(existingUID)
	s.cred = &models.Credential{ProjectID: "flame-duplicates", Source: constants.CredentialSourceFile}

	s.loader.On("Source").Return(constants.CredentialSourceFile)
	s.metrics.On("RecordCredentialLoad", mock.Anything, mock.Anything).Return()
	s.metrics.On("RecordClaimUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()

	s.spans = tracetest.NewInMemoryExporter()
	tracing := monitoring.NewTracingManagerWithProvider(sdktrace.NewTracerProvider(sdktrace.WithSyncer(s.spans)), logger.NewNoopLogger())

	s.svc = service.NewClaimAppService(s.loader, s.connector, s.metrics, tracing, logger.NewNoopLogger())
}

func (s *ClaimAppServiceTestSuite) TestSetAdminClaim_Success() {
	s.loader.On("Load", mock.Anything).Return(s.cred, nil)
	s.connector.On("Connect", mock.Anything, s.cred).Return(s.platform, nil)

	outcome, err := s.svc.SetAdminClaim(context.Background(), existingUID)

	s.Require().NoError(err)
	s.Equal(constants.OutcomeSucceeded, outcome.Status)
	s.Equal(existingUID, outcome.UID)
	s.True(s.platform.users[existingUID].IsAdmin())
	s.metrics.AssertCalled(s.T(), "RecordClaimUpdate", "admin", true, mock.Anything, "")
	s.metrics.AssertCalled(s.T(), "RecordCredentialLoad", "file", true)
}

func (s *ClaimAppServiceTestSuite) TestSetAdminClaim_Spans() {
	s.loader.On("Load", mock.Anything).Return(s.cred, nil)
	s.connector.On("Connect", mock.Anything, s.cred).Return(s.platform, nil)

	_, err := s.svc.SetAdminClaim(context.Background(), existingUID)
	s.Require().NoError(err)

	spans := s.spans.GetSpans()
	s.Require().Len(spans, 4)
	root := spans[3]
	s.Equal("claims.set_admin", root.Name)
	s.Equal(codes.Ok, root.Status.Code)

	names := make([]string, 0, 3)
	for _, span := range spans[:3] {
		names = append(names, span.Name)
		s.Equal(root.SpanContext.SpanID(), span.Parent.SpanID())
		s.Equal(root.SpanContext.TraceID(), span.SpanContext.TraceID())
	}
	s.Equal([]string{"credential.load", "platform.connect", "platform.set_custom_claims"}, names)
}

func (s *ClaimAppServiceTestSuite) TestSetAdminClaim_FailedSpan() {
	s.loader.On("Load", mock.Anything).Return(s.cred, nil)
	s.connector.On("Connect", mock.Anything, s.cred).Return(s.platform, nil)

	_, err := s.svc.SetAdminClaim(context.Background(), "does-not-exist-uid")
	s.Require().Error(err)

	spans := s.spans.GetSpans()
	s.Require().Len(spans, 4)
	s.Equal("platform.set_custom_claims", spans[2].Name)
	s.Equal(codes.Error, spans[2].Status.Code)
	s.Equal("claims.set_admin", spans[3].Name)
	s.Equal(codes.Error, spans[3].Status.Code)
	s.Require().NotEmpty(spans[3].Events)
	s.Equal("exception", spans[3].Events[0].Name)
}

func (s *ClaimAppServiceTestSuite) TestSetAdminClaim_ReplacesOtherClaims() {
	s.platform.users[existingUID] = models.CustomClaims{"editor": true, "tier": "gold"}
	s.loader.On("Load", mock.Anything).Return(s.cred, nil)
	s.connector.On("Connect", mock.Anything, s.cred).Return(s.platform, nil)

	_, err := s.svc.SetAdminClaim(context.Background(), existingUID)

	s.Require().NoError(err)
	s.Equal(models.CustomClaims{"admin": true}, s.platform.users[existingUID])
}

func (s *ClaimAppServiceTestSuite) TestSetAdminClaim_Idempotent() {
	s.loader.On("Load", mock.Anything).Return(s.cred, nil)
	s.connector.On("Connect", mock.Anything, s.cred).Return(s.platform, nil)

	for i := 0; i < 2; i++ {
		outcome, err := s.svc.SetAdminClaim(context.Background(), existingUID)
		s.Require().NoError(err)
		s.True(outcome.Succeeded())
	}

	s.Equal(2, s.platform.writes)
	s.Equal(models.CustomClaims{"admin": true}, s.platform.users[existingUID])
}

func (s *ClaimAppServiceTestSuite) TestSetAdminClaim_InvalidCredentialSkipsRemoteCall() {
	s.loader.On("Load", mock.Anything).Return(nil, errors.CredentialInvalid("not valid JSON"))

	outcome, err := s.svc.SetAdminClaim(context.Background(), existingUID)

	s.Require().Error(err)
	s.ErrorIs(err, errors.ErrCredentialInvalid)
	s.Equal(constants.OutcomeFailed, outcome.Status)
	s.Equal(constants.ExitFailure, errors.ExitCode(err))
	s.connector.AssertNotCalled(s.T(), "Connect", mock.Anything, mock.Anything)
	s.Zero(s.platform.writes)
	s.metrics.AssertCalled(s.T(), "RecordCredentialLoad", "file", false)
	s.metrics.AssertCalled(s.T(), "RecordClaimUpdate", "admin", false, mock.Anything, "credential_invalid")
}

func (s *ClaimAppServiceTestSuite) TestSetAdminClaim_ClientInitFailure() {
	s.loader.On("Load", mock.Anything).Return(s.cred, nil)
	s.connector.On("Connect", mock.Anything, s.cred).Return(nil, errors.ClientInit(stderrors.New("project id required")))

	outcome, err := s.svc.SetAdminClaim(context.Background(), existingUID)

	s.ErrorIs(err, errors.ErrClientInit)
	s.False(outcome.Succeeded())
	s.Zero(s.platform.writes)
}

func (s *ClaimAppServiceTestSuite) TestSetAdminClaim_UserNotFound() {
	s.loader.On("Load", mock.Anything).Return(s.cred, nil)
	s.connector.On("Connect", mock.Anything, s.cred).Return(s.platform, nil)

	outcome, err := s.svc.SetAdminClaim(context.Background(), "does-not-exist-uid")

	s.Require().Error(err)
	s.ErrorIs(err, errors.ErrUserNotFound)
	s.True(errors.IsRemoteError(err))
	s.Contains(err.Error(), "USER_NOT_FOUND")
	s.Equal(constants.OutcomeFailed, outcome.Status)
	s.Equal(err, outcome.Err)
}

func (s *ClaimAppServiceTestSuite) TestSetAdminClaim_EmptyUID() {
	outcome, err := s.svc.SetAdminClaim(context.Background(), "")

	s.ErrorIs(err, errors.ErrInvalidArgument)
	s.False(outcome.Succeeded())
	s.loader.AssertNotCalled(s.T(), "Load", mock.Anything)
}

func (s *ClaimAppServiceTestSuite) TestSetAdminClaim_UIDTooLong() {
	_, err := s.svc.SetAdminClaim(context.Background(), strings.Repeat("u", 129))

	s.ErrorIs(err, errors.ErrInvalidArgument)
	s.loader.AssertNotCalled(s.T(), "Load", mock.Anything)
}

func (s *ClaimAppServiceTestSuite) TestShowClaims() {
	s.platform.users[existingUID] = models.AdminClaims()
	s.loader.On("Load", mock.Anything).Return(s.cred, nil)
	s.connector.On("Connect", mock.Anything, s.cred).Return(s.platform, nil)

	record, err := s.svc.ShowClaims(context.Background(), existingUID)

	s.Require().NoError(err)
	s.Equal(existingUID, record.UID)
	s.True(record.Claims.IsAdmin())
}

func (s *ClaimAppServiceTestSuite) TestShowClaims_UserNotFound() {
	s.loader.On("Load", mock.Anything).Return(s.cred, nil)
	s.connector.On("Connect", mock.Anything, s.cred).Return(s.platform, nil)

	_, err := s.svc.ShowClaims(context.Background(), "does-not-exist-uid")
	s.ErrorIs(err, errors.ErrUserNotFound)
}

func TestClaimAppServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ClaimAppServiceTestSuite))
}

func TestSetAdminClaim_RemoteFailureWithMockPlatform(t *testing.T) {
	loader := new(mocks.MockCredentialLoader)
	connector := new(mocks.MockPlatformConnector)
	platform := new(mocks.MockIdentityPlatform)
	cred := &models.Credential{ProjectID: "flame-duplicates"}

	loader.On("Source").Return(constants.CredentialSourceVault)
	loader.On("Load", mock.Anything).Return(cred, nil)
	connector.On("Connect", mock.Anything, cred).Return(platform, nil)
	platform.On("SetCustomUserClaims", mock.Anything, "uid-1", models.CustomClaims{"admin": true}).
		Return(errors.RemoteCall("set custom user claims", stderrors.New("deadline exceeded")))

	svc := service.NewClaimAppService(loader, connector, domainservice.NoopMetrics{}, domainservice.NoopTracer{}, logger.NewNoopLogger())
	outcome, err := svc.SetAdminClaim(context.Background(), "uid-1")

	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrRemoteCall)
	assert.Equal(t, constants.OutcomeFailed, outcome.Status)
	platform.AssertNumberOfCalls(t, "SetCustomUserClaims", 1)
}
