package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// For mocking in tests
var osUserHomeDir = os.UserHomeDir
var osGetwd = os.Getwd

const (
	userConfigDir    = ".config/mailstackctl"
	projectConfigDir = ".mailstackctl"
	configFileName   = "config.yaml"
)

// LoadConfig loads the mailstackctl configuration by layering default,
// user, and project settings. Both file layers are optional.
func LoadConfig() (MailstackConfig, error) {
	config := GetDefaultConfig()

	userConfigPath, err := getUserConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not determine user config path: %v\n", err)
	} else {
		if _, err := os.Stat(userConfigPath); !os.IsNotExist(err) {
			userConfig, err := loadConfigFromFile(userConfigPath)
			if err != nil {
				return MailstackConfig{}, fmt.Errorf("error loading user config from %s: %w", userConfigPath, err)
			}
			config = mergeConfigs(config, userConfig)
		}
	}

	projectConfigPath, err := getProjectConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not determine project config path: %v\n", err)
	} else {
		if _, err := os.Stat(projectConfigPath); !os.IsNotExist(err) {
			projectConfig, err := loadConfigFromFile(projectConfigPath)
			if err != nil {
				return MailstackConfig{}, fmt.Errorf("error loading project config from %s: %w", projectConfigPath, err)
			}
			config = mergeConfigs(config, projectConfig)
		}
	}

	return config, nil
}

var getUserConfigPath = func() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir, configFileName), nil
}

var getProjectConfigPath = func() (string, error) {
	wd, err := osGetwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, projectConfigDir, configFileName), nil
}

// loadConfigFromFile loads a MailstackConfig from a YAML file.
func loadConfigFromFile(filePath string) (MailstackConfig, error) {
	var config MailstackConfig
	data, err := os.ReadFile(filePath)
	if err != nil {
		return MailstackConfig{}, err
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return MailstackConfig{}, err
	}
	return config, nil
}

// mergeConfigs merges 'overlay' config into 'base' config. An overlay
// service list replaces the base list wholesale: list order is the startup
// order, so splicing individual entries would silently reorder the stack.
func mergeConfigs(base, overlay MailstackConfig) MailstackConfig {
	merged := base

	if overlay.GlobalSettings.LogLevel != "" {
		merged.GlobalSettings.LogLevel = overlay.GlobalSettings.LogLevel
	}

	if overlay.Retry.StartTimeout > 0 {
		merged.Retry.StartTimeout = overlay.Retry.StartTimeout
	}
	if overlay.Retry.StartInterval > 0 {
		merged.Retry.StartInterval = overlay.Retry.StartInterval
	}
	if overlay.Retry.PortAttempts > 0 {
		merged.Retry.PortAttempts = overlay.Retry.PortAttempts
	}
	if overlay.Retry.PortInterval > 0 {
		merged.Retry.PortInterval = overlay.Retry.PortInterval
	}
	if overlay.Retry.StopGrace > 0 {
		merged.Retry.StopGrace = overlay.Retry.StopGrace
	}

	if len(overlay.Services) > 0 {
		merged.Services = overlay.Services
	}

	if overlay.Mail.Hostname != "" {
		merged.Mail.Hostname = overlay.Mail.Hostname
	}
	if overlay.Mail.PrimaryDomain != "" {
		merged.Mail.PrimaryDomain = overlay.Mail.PrimaryDomain
	}
	if overlay.Mail.TLSCertPath != "" {
		merged.Mail.TLSCertPath = overlay.Mail.TLSCertPath
	}
	if overlay.Mail.TLSKeyPath != "" {
		merged.Mail.TLSKeyPath = overlay.Mail.TLSKeyPath
	}
	if overlay.Mail.DKIMSelector != "" {
		merged.Mail.DKIMSelector = overlay.Mail.DKIMSelector
	}
	if overlay.Mail.DKIMKeyDir != "" {
		merged.Mail.DKIMKeyDir = overlay.Mail.DKIMKeyDir
	}
	if overlay.Mail.SRSDomain != "" {
		merged.Mail.SRSDomain = overlay.Mail.SRSDomain
	}
	if overlay.Mail.WebmailRoot != "" {
		merged.Mail.WebmailRoot = overlay.Mail.WebmailRoot
	}

	return merged
}

// GetUserConfigDir returns the user configuration directory path.
func GetUserConfigDir() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir), nil
}
