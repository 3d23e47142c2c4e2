package hookcfg_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sqlynx/sqlynx/internal/hookcfg"
)

const (
	lintSubcommandNameConstant    = "lint"
	fmtSubcommandNameConstant     = "fmt"
	writeFlagArgumentConstant     = "--write"
	duplicateHooksContentConstant = `repos:
  - repo: https://github.com/pre-commit/pre-commit-hooks
    rev: v4.5.0
    hooks:
      - id: trailing-whitespace
      - id: trailing-whitespace
`
	nonCanonicalContentConstant        = "repos:\n    - repo: https://github.com/pre-commit/pre-commit-hooks\n      rev: v4.5.0\n      hooks:\n          - id: trailing-whitespace\n"
	structurallyInvalidContentConstant = "repos:\n  - repo: https://github.com/pre-commit/pre-commit-hooks\n    hooks:\n      - id: trailing-whitespace\n"
)

func buildHooksCommand(testInstance *testing.T, configurationPath string) (*bytes.Buffer, *bytes.Buffer, func(arguments ...string) error) {
	testInstance.Helper()

	builder := hookcfg.CommandBuilder{
		ConfigurationProvider: func() hookcfg.CommandConfiguration {
			return hookcfg.CommandConfiguration{DeclarationPath: configurationPath}
		},
	}
	hooksCommand, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	outputBuffer := &bytes.Buffer{}
	errorBuffer := &bytes.Buffer{}
	hooksCommand.SetOut(outputBuffer)
	hooksCommand.SetErr(errorBuffer)

	return outputBuffer, errorBuffer, func(arguments ...string) error {
		hooksCommand.SetArgs(arguments)
		return hooksCommand.Execute()
	}
}

func writeDeclarationFile(testInstance *testing.T, content string) string {
	testInstance.Helper()
	declarationPath := filepath.Join(testInstance.TempDir(), testDeclarationFileNameConstant)
	require.NoError(testInstance, os.WriteFile(declarationPath, []byte(content), 0o644))
	return declarationPath
}

func TestHooksLintWellFormedDeclaration(testInstance *testing.T) {
	declarationPath := writeDeclarationFile(testInstance, testDeclarationContentConstant)
	outputBuffer, _, executeCommand := buildHooksCommand(testInstance, declarationPath)

	require.NoError(testInstance, executeCommand(lintSubcommandNameConstant))
	require.Contains(testInstance, outputBuffer.String(), declarationPath)
	require.Contains(testInstance, outputBuffer.String(), "ok")
}

func TestHooksLintReportsSemanticIssues(testInstance *testing.T) {
	declarationPath := writeDeclarationFile(testInstance, duplicateHooksContentConstant)
	_, errorBuffer, executeCommand := buildHooksCommand(testInstance, declarationPath)

	executionError := executeCommand(lintSubcommandNameConstant, declarationPath)
	require.Error(testInstance, executionError)
	require.Contains(testInstance, errorBuffer.String(), "repos[0].hooks[1]")
}

func TestHooksLintReportsSchemaViolations(testInstance *testing.T) {
	declarationPath := writeDeclarationFile(testInstance, structurallyInvalidContentConstant)
	_, errorBuffer, executeCommand := buildHooksCommand(testInstance, declarationPath)

	executionError := executeCommand(lintSubcommandNameConstant, declarationPath)
	require.Error(testInstance, executionError)
	require.NotEmpty(testInstance, errorBuffer.String())
}

func TestHooksLintMissingFile(testInstance *testing.T) {
	missingPath := filepath.Join(testInstance.TempDir(), testDeclarationFileNameConstant)
	_, _, executeCommand := buildHooksCommand(testInstance, missingPath)

	require.Error(testInstance, executeCommand(lintSubcommandNameConstant))
}

func TestHooksFmtPrintsDiffForNonCanonicalDeclaration(testInstance *testing.T) {
	declarationPath := writeDeclarationFile(testInstance, nonCanonicalContentConstant)
	outputBuffer, _, executeCommand := buildHooksCommand(testInstance, declarationPath)

	executionError := executeCommand(fmtSubcommandNameConstant, declarationPath)
	require.Error(testInstance, executionError)
	require.Contains(testInstance, outputBuffer.String(), "---")
	require.Contains(testInstance, outputBuffer.String(), "+++")
}

func TestHooksFmtWriteRewritesDeclaration(testInstance *testing.T) {
	declarationPath := writeDeclarationFile(testInstance, nonCanonicalContentConstant)
	_, _, executeCommand := buildHooksCommand(testInstance, declarationPath)

	require.NoError(testInstance, executeCommand(fmtSubcommandNameConstant, writeFlagArgumentConstant, declarationPath))

	rewrittenContent, readError := os.ReadFile(declarationPath)
	require.NoError(testInstance, readError)

	document, parseError := hookcfg.ParseDocument(rewrittenContent)
	require.NoError(testInstance, parseError)
	renderedContent, renderError := document.Render()
	require.NoError(testInstance, renderError)
	require.Equal(testInstance, renderedContent, rewrittenContent)

	require.NoError(testInstance, executeCommand(fmtSubcommandNameConstant, declarationPath))
}

func TestHooksFmtCanonicalDeclarationSucceeds(testInstance *testing.T) {
	parsedDocument, parseError := hookcfg.ParseDocument([]byte(testDeclarationContentConstant))
	require.NoError(testInstance, parseError)
	canonicalContent, renderError := parsedDocument.Render()
	require.NoError(testInstance, renderError)

	declarationPath := writeDeclarationFile(testInstance, string(canonicalContent))
	_, _, executeCommand := buildHooksCommand(testInstance, declarationPath)

	require.NoError(testInstance, executeCommand(fmtSubcommandNameConstant))
}
