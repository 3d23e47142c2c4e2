package sqlengine

import (
	"fmt"
	"strings"
)

const (
	missingEnvironmentVariableMessageTemplateConstant = "environment variable `%s` is not set.\n" +
		"Please ensure `%s` is defined in your .env file or set it in your terminal session:\n" +
		"    export %s=YOUR_VALUE"
	missingEnvironmentVariableSeparatorConstant = ", "
	databaseConnectionErrorTemplateConstant     = "failed to connect to the database: %v"
	unsupportedSchemeMessageTemplateConstant    = "unsupported database scheme %q; supported schemes are %s"
	unsupportedSchemeSeparatorConstant          = ", "
)

// MissingEnvironmentVariableError reports required environment variables that are not set.
type MissingEnvironmentVariableError struct {
	VariableNames []string
}

// Error renders the missing variable names alongside an export hint.
func (missingError *MissingEnvironmentVariableError) Error() string {
	joinedNames := strings.Join(missingError.VariableNames, missingEnvironmentVariableSeparatorConstant)
	return fmt.Sprintf(missingEnvironmentVariableMessageTemplateConstant, joinedNames, joinedNames, joinedNames)
}

// DatabaseConnectionError reports a failed connection attempt.
type DatabaseConnectionError struct {
	Cause error
}

// Error describes the connection failure.
func (connectionError *DatabaseConnectionError) Error() string {
	return fmt.Sprintf(databaseConnectionErrorTemplateConstant, connectionError.Cause)
}

// Unwrap exposes the underlying driver error.
func (connectionError *DatabaseConnectionError) Unwrap() error {
	return connectionError.Cause
}

// UnsupportedSchemeError reports a database scheme absent from the scheme registry.
type UnsupportedSchemeError struct {
	Scheme           string
	SupportedSchemes []string
}

// Error lists the offending scheme together with the supported alternatives.
func (schemeError *UnsupportedSchemeError) Error() string {
	return fmt.Sprintf(
		unsupportedSchemeMessageTemplateConstant,
		schemeError.Scheme,
		strings.Join(schemeError.SupportedSchemes, unsupportedSchemeSeparatorConstant),
	)
}
