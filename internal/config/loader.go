package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/turtacn/claimctl/pkg/constants"
	"github.com/turtacn/claimctl/pkg/errors"
)

// NewViper returns a viper instance with defaults and environment overrides registered.
// Every key gets a default so that AutomaticEnv applies to it during Unmarshal.
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("credential.source", string(constants.CredentialSourceFile))
	v.SetDefault("credential.path", "")
	v.SetDefault("credential.vault.address", "")
	v.SetDefault("credential.vault.token", "")
	v.SetDefault("credential.vault.mount_path", "secret")
	v.SetDefault("credential.vault.secret_path", "")
	v.SetDefault("credential.vault.field", "credentials_json")
	v.SetDefault("credential.secretmanager.project_id", "")
	v.SetDefault("credential.secretmanager.secret", "")
	v.SetDefault("credential.secretmanager.version", "latest")
	v.SetDefault("firebase.project_id", "")
	v.SetDefault("firebase.emulator_host", "")
	v.SetDefault("firebase.timeout", "0s")
	v.SetDefault("target.uid", "")
	v.SetDefault("log.level", string(constants.LogLevelInfo))
	v.SetDefault("log.format", "json")
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.jaeger_endpoint", "")
	v.SetDefault("tracing.service_name", constants.AppName)
	v.SetDefault("tracing.environment", "")
	v.SetDefault("tracing.sampling_rate", 1.0)
	v.SetDefault("metrics.textfile_path", "")

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The SDK's own variable is honoured as well as the prefixed one.
	_ = v.BindEnv("firebase.emulator_host", constants.EnvPrefix+"_FIREBASE_EMULATOR_HOST", constants.EmulatorHostEnv)

	return v
}

// LoadConfig loads the configuration from file, environment variables, and bound command line flags.
// configFile may be empty, in which case claimctl.yaml is searched for in the working directory and
// the user config directory; a missing file is not an error.
func LoadConfig(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(constants.DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := userConfigDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, errors.ConfigInvalid("failed to read config file").WithCause(err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.ConfigInvalid("failed to unmarshal config").WithCause(err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func userConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, constants.AppName), nil
}
