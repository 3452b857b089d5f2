package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/turtacn/claimctl/internal/domain/models"
	"github.com/turtacn/claimctl/internal/domain/service"
	"github.com/turtacn/claimctl/pkg/constants"
)

type MockCredentialLoader struct {
	mock.Mock
}

func (m *MockCredentialLoader) Load(ctx context.Context) (*models.Credential, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Credential), args.Error(1)
}

func (m *MockCredentialLoader) Source() constants.CredentialSource {
	args := m.Called()
	return args.Get(0).(constants.CredentialSource)
}

type MockPlatformConnector struct {
	mock.Mock
}

func (m *MockPlatformConnector) Connect(ctx context.Context, cred *models.Credential) (service.IdentityPlatform, error) {
	args := m.Called(ctx, cred)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(service.IdentityPlatform), args.Error(1)
}

type MockIdentityPlatform struct {
	mock.Mock
}

func (m *MockIdentityPlatform) SetCustomUserClaims(ctx context.Context, uid string, claims models.CustomClaims) error {
	args := m.Called(ctx, uid, claims)
	return args.Error(0)
}

func (m *MockIdentityPlatform) GetCustomUserClaims(ctx context.Context, uid string) (*models.ClaimRecord, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ClaimRecord), args.Error(1)
}

type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) RecordClaimUpdate(claim string, success bool, duration time.Duration, errorCode string) {
	m.Called(claim, success, duration, errorCode)
}

func (m *MockMetrics) RecordCredentialLoad(source string, success bool) {
	m.Called(source, success)
}
