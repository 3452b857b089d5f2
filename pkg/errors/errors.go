// Package errors defines custom error types and error handling utilities for claimctl.
// Every failure of a run is a ClaimError carrying a machine-readable code and the process exit code
// it maps to.
package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/turtacn/claimctl/pkg/constants"
)

// ================================================================================
// Base Error Interface
// ================================================================================

// ClaimError represents a structured error with additional metadata
type ClaimError interface {
	error

	// Code returns the machine-readable error code
	Code() constants.ErrorCode

	// ExitCode returns the process exit code for this error
	ExitCode() int

	// Description returns a human-readable description of the error class
	Description() string

	// Unwrap returns the underlying error for error chain support
	Unwrap() error

	// WithCause adds a cause error to the error chain
	WithCause(cause error) ClaimError

	// WithMetadata adds additional context metadata
	WithMetadata(key string, value interface{}) ClaimError

	// Metadata returns all metadata
	Metadata() map[string]interface{}
}

// ================================================================================
// Base Error Implementation
// ================================================================================

type baseError struct {
	code        constants.ErrorCode
	exitCode    int
	description string
	message     string
	cause       error
	metadata    map[string]interface{}
}

// Error renders the message followed by the cause, so the platform's own rejection text survives.
func (e *baseError) Error() string {
	msg := e.message
	if msg == "" {
		msg = e.description
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.cause)
	}
	return msg
}

func (e *baseError) Code() constants.ErrorCode {
	return e.code
}

func (e *baseError) ExitCode() int {
	return e.exitCode
}

func (e *baseError) Description() string {
	return e.description
}

func (e *baseError) Unwrap() error {
	return e.cause
}

// WithCause returns a copy carrying cause; the receiver is left untouched.
func (e *baseError) WithCause(cause error) ClaimError {
	c := e.clone()
	c.cause = cause
	return c
}

// WithMetadata returns a copy with key set; the receiver is left untouched.
func (e *baseError) WithMetadata(key string, value interface{}) ClaimError {
	c := e.clone()
	c.metadata[key] = value
	return c
}

func (e *baseError) clone() *baseError {
	c := *e
	c.metadata = make(map[string]interface{}, len(e.metadata)+1)
	for k, v := range e.metadata {
		c.metadata[k] = v
	}
	return &c
}

func (e *baseError) Metadata() map[string]interface{} {
	return e.metadata
}

// Is matches any ClaimError with the same code, so sentinel comparisons work through wrapping.
func (e *baseError) Is(target error) bool {
	t, ok := target.(*baseError)
	if !ok {
		return false
	}
	return t.code == e.code
}

// ================================================================================
// Error Constructor
// ================================================================================

// NewError creates a new ClaimError with the specified parameters
func NewError(code constants.ErrorCode, description string, message string) ClaimError {
	return &baseError{
		code:        code,
		exitCode:    constants.ExitFailure,
		description: description,
		message:     message,
		metadata:    make(map[string]interface{}),
	}
}

// ================================================================================
// Sentinels
// ================================================================================

// Sentinels for errors.Is comparisons; only the code is compared.
var (
	ErrCredentialInvalid     = NewError(constants.ErrCodeCredentialInvalid, "", "")
	ErrCredentialUnavailable = NewError(constants.ErrCodeCredentialUnavailable, "", "")
	ErrClientInit            = NewError(constants.ErrCodeClientInit, "", "")
	ErrUserNotFound          = NewError(constants.ErrCodeUserNotFound, "", "")
	ErrRemoteCall            = NewError(constants.ErrCodeRemoteCall, "", "")
	ErrInvalidArgument       = NewError(constants.ErrCodeInvalidArgument, "", "")
	ErrConfigInvalid         = NewError(constants.ErrCodeConfigInvalid, "", "")
)

// ================================================================================
// Predefined Error Constructors
// ================================================================================

// InvalidArgument creates an invalid_argument error
func InvalidArgument(message string) ClaimError {
	return NewError(
		constants.ErrCodeInvalidArgument,
		"A required argument is missing or malformed.",
		message,
	)
}

// MissingArgument creates an invalid_argument error for a missing parameter
func MissingArgument(name string) ClaimError {
	return InvalidArgument(fmt.Sprintf("missing required argument: %s", name)).
		WithMetadata("argument", name)
}

// ConfigInvalid creates a config_invalid error
func ConfigInvalid(message string) ClaimError {
	return NewError(
		constants.ErrCodeConfigInvalid,
		"The configuration could not be loaded or is incomplete.",
		message,
	)
}

// CredentialUnavailable creates a credential_unavailable error
func CredentialUnavailable(source constants.CredentialSource, cause error) ClaimError {
	return NewError(
		constants.ErrCodeCredentialUnavailable,
		"The service-account credential could not be read.",
		fmt.Sprintf("failed to read credential from %s", source),
	).WithCause(cause).WithMetadata("source", string(source))
}

// CredentialInvalid creates a credential_invalid error
func CredentialInvalid(reason string) ClaimError {
	return NewError(
		constants.ErrCodeCredentialInvalid,
		"The service-account credential is not valid key material.",
		fmt.Sprintf("invalid service account credential: %s", reason),
	)
}

// ClientInit creates a client_init_failed error
func ClientInit(cause error) ClaimError {
	return NewError(
		constants.ErrCodeClientInit,
		"The identity platform client could not be initialized.",
		"failed to initialize identity platform client",
	).WithCause(cause)
}

// UserNotFound creates a user_not_found error
func UserNotFound(uid string, cause error) ClaimError {
	return NewError(
		constants.ErrCodeUserNotFound,
		"The user does not exist in the tenant administered by the credential.",
		fmt.Sprintf("user %s not found", uid),
	).WithCause(cause).WithMetadata("uid", uid)
}

// RemoteCall creates a remote_call_failed error
func RemoteCall(operation string, cause error) ClaimError {
	return NewError(
		constants.ErrCodeRemoteCall,
		"The identity platform rejected the request.",
		fmt.Sprintf("%s failed", operation),
	).WithCause(cause).WithMetadata("operation", operation)
}

// ================================================================================
// Error Type Checking Utilities
// ================================================================================

// AsClaimError finds the first ClaimError in err's chain
func AsClaimError(err error) (ClaimError, bool) {
	var claimErr ClaimError
	if stderrors.As(err, &claimErr) {
		return claimErr, true
	}
	return nil, false
}

// CodeOf returns the code of the first ClaimError in err's chain, or internal_error
func CodeOf(err error) constants.ErrorCode {
	if claimErr, ok := AsClaimError(err); ok {
		return claimErr.Code()
	}
	return constants.ErrCodeInternal
}

// ExitCode maps an error to the process exit code
func ExitCode(err error) int {
	if err == nil {
		return constants.ExitSuccess
	}
	if claimErr, ok := AsClaimError(err); ok {
		return claimErr.ExitCode()
	}
	return constants.ExitFailure
}

// IsCredentialError reports whether err happened before any remote call was attempted
func IsCredentialError(err error) bool {
	switch CodeOf(err) {
	case constants.ErrCodeCredentialInvalid, constants.ErrCodeCredentialUnavailable:
		return true
	}
	return false
}

// IsRemoteError reports whether err originates from the identity platform
func IsRemoteError(err error) bool {
	switch CodeOf(err) {
	case constants.ErrCodeUserNotFound, constants.ErrCodeRemoteCall:
		return true
	}
	return false
}
