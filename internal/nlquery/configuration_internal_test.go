package nlquery

import (
	"fmt"
	"testing"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/stretchr/testify/require"

	"github.com/sqlynx/sqlynx/internal/retrieval"
)

const (
	configuredModelNameConstant      = "gpt-4.1"
	configuredIndexDirectoryConstant = "storage/custom_index"
	configurationRootKeyConstant     = "tools.sql"
)

func TestCommandConfigurationDecodesFromConfigurationMap(testInstance *testing.T) {
	configurationValues := map[string]any{
		"model":           configuredModelNameConstant,
		"top_k":           3,
		"index_directory": configuredIndexDirectoryConstant,
		"include_tables":  []string{"customers", "orders"},
	}

	var configuration CommandConfiguration
	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{TagName: "mapstructure", Result: &configuration})
	require.NoError(testInstance, decoderError)
	require.NoError(testInstance, decoder.Decode(configurationValues))

	require.Equal(testInstance, configuredModelNameConstant, configuration.ModelName)
	require.Equal(testInstance, 3, configuration.TopK)
	require.Equal(testInstance, configuredIndexDirectoryConstant, configuration.IndexDirectory)
	require.Equal(testInstance, []string{"customers", "orders"}, configuration.IncludeTables)
}

func TestDefaultConfigurationValuesUseRootKey(testInstance *testing.T) {
	defaultValues := DefaultConfigurationValues(configurationRootKeyConstant)

	require.Equal(testInstance, defaultModelNameConstant, defaultValues["tools.sql.model"])
	require.Equal(testInstance, defaultTopKConstant, defaultValues["tools.sql.top_k"])
	require.Equal(testInstance, retrieval.DefaultIndexDirectory, defaultValues["tools.sql.index_directory"])
}

func TestCommandConfigurationSanitize(testInstance *testing.T) {
	testCases := []struct {
		name                  string
		configuration         CommandConfiguration
		expectedConfiguration CommandConfiguration
	}{
		{
			name:          "restores_defaults_for_empty_values",
			configuration: CommandConfiguration{ModelName: "  ", TopK: 0, IndexDirectory: ""},
			expectedConfiguration: CommandConfiguration{
				ModelName:      defaultModelNameConstant,
				TopK:           defaultTopKConstant,
				IndexDirectory: retrieval.DefaultIndexDirectory,
			},
		},
		{
			name: "trims_configured_values",
			configuration: CommandConfiguration{
				ModelName:      "  " + configuredModelNameConstant + "  ",
				TopK:           7,
				IndexDirectory: "  " + configuredIndexDirectoryConstant + "  ",
				IncludeTables:  []string{" customers ", "  "},
			},
			expectedConfiguration: CommandConfiguration{
				ModelName:      configuredModelNameConstant,
				TopK:           7,
				IndexDirectory: configuredIndexDirectoryConstant,
				IncludeTables:  []string{"customers"},
			},
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf("%d_%s", testCaseIndex, testCase.name), func(subtestInstance *testing.T) {
			sanitizedConfiguration := testCase.configuration.sanitize()
			require.Equal(subtestInstance, testCase.expectedConfiguration, sanitizedConfiguration)
		})
	}
}
