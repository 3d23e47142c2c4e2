package sqlengine

import (
	"os"
	"strings"
)

// Environment variable names consumed when resolving connection settings.
const (
	EnvironmentVariableScheme   = "DB_SCHEME"
	EnvironmentVariableName     = "DB_NAME"
	EnvironmentVariableUser     = "DB_USER"
	EnvironmentVariablePassword = "DB_PASSWORD"
	EnvironmentVariableHost     = "DB_HOST"
	EnvironmentVariablePort     = "DB_PORT"
)

// EnvironmentLookup resolves environment variable values, reporting presence.
type EnvironmentLookup func(variableName string) (string, bool)

// ConnectionSettings captures the values required to open a database connection.
type ConnectionSettings struct {
	Scheme       string
	DatabaseName string
	User         string
	Password     string
	Host         string
	Port         string
}

// ResolveConnectionSettings builds ConnectionSettings from the provided lookup.
//
// The scheme is resolved first so that scheme-specific variable requirements
// apply; every missing required variable is accumulated into a single
// MissingEnvironmentVariableError.
func ResolveConnectionSettings(lookup EnvironmentLookup) (ConnectionSettings, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	schemeValue, _ := lookup(EnvironmentVariableScheme)
	schemeValue = strings.TrimSpace(schemeValue)

	requiredVariableNames := requiredEnvironmentVariables(schemeValue)

	missingVariableNames := make([]string, 0, len(requiredVariableNames))
	resolvedValues := make(map[string]string, len(requiredVariableNames))
	for _, variableName := range requiredVariableNames {
		variableValue, variablePresent := lookup(variableName)
		if !variablePresent || len(strings.TrimSpace(variableValue)) == 0 {
			missingVariableNames = append(missingVariableNames, variableName)
			continue
		}
		resolvedValues[variableName] = variableValue
	}

	if len(missingVariableNames) > 0 {
		return ConnectionSettings{}, &MissingEnvironmentVariableError{VariableNames: missingVariableNames}
	}

	portValue, _ := lookup(EnvironmentVariablePort)

	settings := ConnectionSettings{
		Scheme:       schemeValue,
		DatabaseName: resolvedValues[EnvironmentVariableName],
		User:         resolvedValues[EnvironmentVariableUser],
		Password:     resolvedValues[EnvironmentVariablePassword],
		Host:         resolvedValues[EnvironmentVariableHost],
		Port:         strings.TrimSpace(portValue),
	}

	return settings, nil
}

func requiredEnvironmentVariables(schemeValue string) []string {
	if schemeValue == SchemeSQLite {
		return []string{EnvironmentVariableScheme, EnvironmentVariableName}
	}
	return []string{
		EnvironmentVariableScheme,
		EnvironmentVariableName,
		EnvironmentVariableUser,
		EnvironmentVariablePassword,
		EnvironmentVariableHost,
	}
}
