// Package constants defines system-wide constants for claimctl.
// This package provides type-safe constant definitions used across all modules.
package constants

// ================================================================================
// Application Constants
// ================================================================================

const (
	// AppName is the binary and tracer name
	AppName = "claimctl"

	// EnvPrefix is the prefix for environment variable overrides
	EnvPrefix = "CLAIMCTL"

	// DefaultConfigName is the config file name searched for (without extension)
	DefaultConfigName = "claimctl"
)

// Version is set at build time with -ldflags "-X github.com/turtacn/claimctl/pkg/constants.Version=..."
var Version = "dev"

// ================================================================================
// Claim Constants
// ================================================================================

const (
	// ClaimAdmin is the custom claim key granting administrative access
	ClaimAdmin = "admin"
)

// ================================================================================
// Credential Source Constants
// ================================================================================

// CredentialSource names where service-account key material is read from
type CredentialSource string

const (
	// CredentialSourceFile reads the key from a local JSON file
	CredentialSourceFile CredentialSource = "file"

	// CredentialSourceVault reads the key from a HashiCorp Vault KV v2 secret
	CredentialSourceVault CredentialSource = "vault"

	// CredentialSourceSecretManager reads the key from Google Secret Manager
	CredentialSourceSecretManager CredentialSource = "secretmanager"
)

// ServiceAccountType is the "type" value of a service-account key file
const ServiceAccountType = "service_account"

// EmulatorHostEnv is read by the Firebase SDK to route auth calls to a local emulator
const EmulatorHostEnv = "FIREBASE_AUTH_EMULATOR_HOST"

// ================================================================================
// Outcome Constants
// ================================================================================

// Outcome is the terminal state of a claim update
type Outcome string

const (
	OutcomePending   Outcome = "pending"
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
)

// ================================================================================
// Exit Codes
// ================================================================================

const (
	// ExitSuccess is returned when the claim was set
	ExitSuccess = 0

	// ExitFailure is returned on any failure
	ExitFailure = 1
)

// ================================================================================
// Error Code Constants
// ================================================================================

// ErrorCode represents a machine-readable error code
type ErrorCode string

const (
	ErrCodeInvalidArgument       ErrorCode = "invalid_argument"
	ErrCodeConfigInvalid         ErrorCode = "config_invalid"
	ErrCodeCredentialUnavailable ErrorCode = "credential_unavailable"
	ErrCodeCredentialInvalid     ErrorCode = "credential_invalid"
	ErrCodeClientInit            ErrorCode = "client_init_failed"
	ErrCodeUserNotFound          ErrorCode = "user_not_found"
	ErrCodeRemoteCall            ErrorCode = "remote_call_failed"
	ErrCodeInternal              ErrorCode = "internal_error"
)

// ================================================================================
// Log Level Constants
// ================================================================================

// LogLevel represents the logging level
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// ================================================================================
// Context Keys
// ================================================================================

// ContextKey is the type for context value keys
type ContextKey string

const (
	// ContextKeyRunID carries the per-invocation correlation id
	ContextKeyRunID ContextKey = "run_id"
)
