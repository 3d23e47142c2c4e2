package nlquery

import (
	"strings"

	"github.com/sqlynx/sqlynx/internal/retrieval"
)

const (
	defaultModelNameConstant          = "gpt-4o-mini"
	defaultTopKConstant               = 5
	configurationModelKeyConstant     = "model"
	configurationTopKKeyConstant      = "top_k"
	configurationIndexKeyConstant     = "index_directory"
	configurationKeySeparatorConstant = "."
)

// CommandConfiguration captures configuration values for the sql commands.
type CommandConfiguration struct {
	ModelName      string   `mapstructure:"model"`
	TopK           int      `mapstructure:"top_k"`
	IndexDirectory string   `mapstructure:"index_directory"`
	IncludeTables  []string `mapstructure:"include_tables"`
}

// DefaultCommandConfiguration provides baseline configuration values for the sql commands.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		ModelName:      defaultModelNameConstant,
		TopK:           defaultTopKConstant,
		IndexDirectory: retrieval.DefaultIndexDirectory,
		IncludeTables:  nil,
	}
}

// DefaultConfigurationValues exposes configuration defaults keyed under the provided root key.
func DefaultConfigurationValues(rootKey string) map[string]any {
	return map[string]any{
		rootKey + configurationKeySeparatorConstant + configurationModelKeyConstant: defaultModelNameConstant,
		rootKey + configurationKeySeparatorConstant + configurationTopKKeyConstant:  defaultTopKConstant,
		rootKey + configurationKeySeparatorConstant + configurationIndexKeyConstant: retrieval.DefaultIndexDirectory,
	}
}

// sanitize trims configuration values and restores defaults for empty ones.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration
	defaults := DefaultCommandConfiguration()

	sanitized.ModelName = strings.TrimSpace(configuration.ModelName)
	if len(sanitized.ModelName) == 0 {
		sanitized.ModelName = defaults.ModelName
	}
	if sanitized.TopK <= 0 {
		sanitized.TopK = defaults.TopK
	}
	sanitized.IndexDirectory = strings.TrimSpace(configuration.IndexDirectory)
	if len(sanitized.IndexDirectory) == 0 {
		sanitized.IndexDirectory = defaults.IndexDirectory
	}

	sanitizedTables := make([]string, 0, len(configuration.IncludeTables))
	for _, tableName := range configuration.IncludeTables {
		trimmedTableName := strings.TrimSpace(tableName)
		if len(trimmedTableName) == 0 {
			continue
		}
		sanitizedTables = append(sanitizedTables, trimmedTableName)
	}
	if len(sanitizedTables) > 0 {
		sanitized.IncludeTables = sanitizedTables
	} else {
		sanitized.IncludeTables = nil
	}

	return sanitized
}
