package service

import (
	"context"

	"github.com/turtacn/claimctl/internal/domain/models"
	"github.com/turtacn/claimctl/pkg/constants"
)

// CredentialLoader reads service-account key material from one configured source.
// CredentialLoader 从一个已配置的来源读取服务账号密钥材料。
//
//go:generate mockery --name CredentialLoader --output mocks --outpkg mocks
type CredentialLoader interface {
	// Load reads and validates the credential. Errors carry a credential_* code.
	// Load 读取并校验凭据。错误携带 credential_* 错误码。
	Load(ctx context.Context) (*models.Credential, error)

	// Source names where the loader reads from.
	Source() constants.CredentialSource
}

// PlatformConnector initializes an identity-platform client session from a credential.
// PlatformConnector 使用凭据初始化身份平台客户端会话。
//
//go:generate mockery --name PlatformConnector --output mocks --outpkg mocks
type PlatformConnector interface {
	// Connect returns a ready client. Errors carry the client_init_failed code.
	// Connect 返回一个可用的客户端。错误携带 client_init_failed 错误码。
	Connect(ctx context.Context, cred *models.Credential) (IdentityPlatform, error)
}

// IdentityPlatform is the subset of the identity platform's user-management API that claimctl uses.
// IdentityPlatform 是 claimctl 使用的身份平台用户管理 API 的子集。
//
//go:generate mockery --name IdentityPlatform --output mocks --outpkg mocks
type IdentityPlatform interface {
	// SetCustomUserClaims replaces the user's custom claims map with claims.
	// SetCustomUserClaims 用 claims 替换用户的自定义声明映射。
	SetCustomUserClaims(ctx context.Context, uid string, claims models.CustomClaims) error

	// GetCustomUserClaims returns the user's current custom claims.
	// GetCustomUserClaims 返回用户当前的自定义声明。
	GetCustomUserClaims(ctx context.Context, uid string) (*models.ClaimRecord, error)
}
