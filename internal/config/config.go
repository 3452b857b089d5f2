package config

import (
	"fmt"
	"time"

	"github.com/turtacn/claimctl/pkg/constants"
	"github.com/turtacn/claimctl/pkg/errors"
	"github.com/turtacn/claimctl/pkg/utils"
)

// Config holds the application's configuration.
type Config struct {
	Credential CredentialConfig `mapstructure:"credential"`
	Firebase   FirebaseConfig   `mapstructure:"firebase"`
	Target     TargetConfig     `mapstructure:"target"`
	Log        LogConfig        `mapstructure:"log"`
	Tracing    TracingConfig    `mapstructure:"tracing"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

// CredentialConfig locates the service-account key material.
type CredentialConfig struct {
	Source        string              `mapstructure:"source"`
	Path          string              `mapstructure:"path"`
	Vault         VaultConfig         `mapstructure:"vault"`
	SecretManager SecretManagerConfig `mapstructure:"secretmanager"`
}

type VaultConfig struct {
	Address    string `mapstructure:"address"`
	Token      string `mapstructure:"token"`
	MountPath  string `mapstructure:"mount_path"`
	SecretPath string `mapstructure:"secret_path"`
	Field      string `mapstructure:"field"`
}

type SecretManagerConfig struct {
	ProjectID string `mapstructure:"project_id"`
	Secret    string `mapstructure:"secret"`
	Version   string `mapstructure:"version"`
}

// ResourceName returns the fully qualified secret version name.
func (c *SecretManagerConfig) ResourceName() string {
	version := c.Version
	if version == "" {
		version = "latest"
	}
	return fmt.Sprintf("projects/%s/secrets/%s/versions/%s", c.ProjectID, c.Secret, version)
}

type FirebaseConfig struct {
	// ProjectID overrides the project id found in the credential.
	ProjectID    string        `mapstructure:"project_id"`
	EmulatorHost string        `mapstructure:"emulator_host"`
	Timeout      time.Duration `mapstructure:"timeout" validate:"gte=0"` // 0 leaves timeouts to the SDK
}

type TargetConfig struct {
	UID string `mapstructure:"uid" validate:"omitempty,max=128"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format" validate:"omitempty,oneof=json console"`
}

type TracingConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	JaegerEndpoint string  `mapstructure:"jaeger_endpoint" validate:"omitempty,url"`
	ServiceName    string  `mapstructure:"service_name"`
	Environment    string  `mapstructure:"environment"`
	SamplingRate   float64 `mapstructure:"sampling_rate" validate:"gte=0,lte=1"`
}

type MetricsConfig struct {
	// TextfilePath is where a node-exporter textfile is written after each run. Empty disables it.
	TextfilePath string `mapstructure:"textfile_path"`
}

// Validate checks for essential configuration values.
func (c *Config) Validate() error {
	switch constants.CredentialSource(c.Credential.Source) {
	case constants.CredentialSourceFile:
		if c.Credential.Path == "" {
			return errors.ConfigInvalid("credential.path is required when credential.source is file")
		}
	case constants.CredentialSourceVault:
		if c.Credential.Vault.Address == "" || c.Credential.Vault.SecretPath == "" {
			return errors.ConfigInvalid("credential.vault.address and credential.vault.secret_path are required when credential.source is vault")
		}
	case constants.CredentialSourceSecretManager:
		if c.Credential.SecretManager.ProjectID == "" || c.Credential.SecretManager.Secret == "" {
			return errors.ConfigInvalid("credential.secretmanager.project_id and credential.secretmanager.secret are required when credential.source is secretmanager")
		}
	default:
		return errors.ConfigInvalid(fmt.Sprintf("unknown credential.source %q", c.Credential.Source))
	}

	switch constants.LogLevel(c.Log.Level) {
	case constants.LogLevelDebug, constants.LogLevelInfo, constants.LogLevelWarn, constants.LogLevelError:
	default:
		return errors.ConfigInvalid(fmt.Sprintf("unknown log.level %q", c.Log.Level))
	}

	if c.Firebase.Timeout < 0 {
		return errors.ConfigInvalid("firebase.timeout must not be negative")
	}

	if c.Tracing.Enabled && c.Tracing.JaegerEndpoint == "" {
		return errors.ConfigInvalid("tracing.jaeger_endpoint is required when tracing is enabled")
	}

	return utils.ValidateStruct(c)
}
