package models

import (
	"github.com/turtacn/claimctl/pkg/constants"
)

// CustomClaims is the attribute map the identity platform attaches to a user's ID tokens.
// Writing it replaces the user's previous map wholesale; keys not re-specified are dropped.
// CustomClaims 是身份平台附加到用户 ID 令牌上的属性映射。
// 写入时会整体替换用户之前的映射；未重新指定的键将被丢弃。
type CustomClaims map[string]interface{}

// AdminClaims returns the claim set granting administrative access, exactly {"admin": true}.
// AdminClaims 返回授予管理员权限的声明集合，即 {"admin": true}。
func AdminClaims() CustomClaims {
	return CustomClaims{constants.ClaimAdmin: true}
}

// IsAdmin reports whether the admin claim is present and true.
func (c CustomClaims) IsAdmin() bool {
	v, ok := c[constants.ClaimAdmin].(bool)
	return ok && v
}

// ClaimRecord is the platform's view of one user's custom claims.
// ClaimRecord 是平台上某个用户自定义声明的视图。
type ClaimRecord struct {
	// UID is the platform's unique user identifier.
	UID string `json:"uid"`
	// Claims is nil when the user has no custom claims.
	Claims CustomClaims `json:"custom_claims"`
}

// ClaimOutcome records the terminal state of one claim update.
// ClaimOutcome 记录一次声明更新的最终状态。
type ClaimOutcome struct {
	UID    string            `json:"uid"`
	Status constants.Outcome `json:"status"`
	Err    error             `json:"-"`
}

// NewClaimOutcome starts an outcome in the pending state.
func NewClaimOutcome(uid string) *ClaimOutcome {
	return &ClaimOutcome{UID: uid, Status: constants.OutcomePending}
}

// Resolve moves a pending outcome to succeeded or failed. Later calls are ignored.
func (o *ClaimOutcome) Resolve(err error) {
	if o.Status != constants.OutcomePending {
		return
	}
	if err != nil {
		o.Status = constants.OutcomeFailed
		o.Err = err
		return
	}
	o.Status = constants.OutcomeSucceeded
}

// Succeeded reports whether the claim was set.
func (o *ClaimOutcome) Succeeded() bool {
	return o.Status == constants.OutcomeSucceeded
}
