package hookcfg

import "strings"

const (
	defaultDeclarationPathConstant  = ".pre-commit-config.yaml"
	configurationPathKeyConstant    = "path"
	configurationKeySeparatorString = "."
)

// CommandConfiguration captures configuration values for the hooks commands.
type CommandConfiguration struct {
	DeclarationPath string `mapstructure:"path"`
}

// DefaultCommandConfiguration provides baseline configuration values for the hooks commands.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		DeclarationPath: defaultDeclarationPathConstant,
	}
}

// DefaultConfigurationValues exposes configuration defaults keyed under the provided root key.
func DefaultConfigurationValues(rootKey string) map[string]any {
	return map[string]any{
		rootKey + configurationKeySeparatorString + configurationPathKeyConstant: defaultDeclarationPathConstant,
	}
}

// sanitize trims configuration values without applying implicit defaults.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.DeclarationPath = strings.TrimSpace(configuration.DeclarationPath)
	return sanitized
}
