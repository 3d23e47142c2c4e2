package hookcfg_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sqlynx/sqlynx/internal/hookcfg"
)

const (
	testDeclarationFileNameConstant = ".pre-commit-config.yaml"
	testDeclarationContentConstant  = `repos:
  - repo: https://github.com/pre-commit/pre-commit-hooks
    rev: v4.5.0
    hooks:
      - id: trailing-whitespace
      - id: end-of-file-fixer
        exclude: ^storage/
  - repo: https://github.com/astral-sh/ruff-pre-commit
    rev: v0.1.9
    hooks:
      - id: ruff
        args:
          - --fix
`
	emptyArgsDeclarationContentConstant = `repos:
  - repo: https://github.com/pre-commit/pre-commit-hooks
    rev: v4.5.0
    hooks:
      - id: trailing-whitespace
        args: []
`

	malformedDeclarationContentConstant = "repos:\n  - repo: [\n"
	firstRepositoryURLConstant          = "https://github.com/pre-commit/pre-commit-hooks"
	firstRepositoryRevisionConstant     = "v4.5.0"
	secondRepositoryURLConstant         = "https://github.com/astral-sh/ruff-pre-commit"
	excludePatternConstant              = "^storage/"
	ruffHookIdentifierConstant          = "ruff"
	ruffHookArgumentConstant            = "--fix"
)

func TestParseDocument(testInstance *testing.T) {
	document, parseError := hookcfg.ParseDocument([]byte(testDeclarationContentConstant))
	require.NoError(testInstance, parseError)
	require.Len(testInstance, document.Repos, 2)

	firstRepository := document.Repos[0]
	require.Equal(testInstance, firstRepositoryURLConstant, firstRepository.Repo)
	require.Equal(testInstance, firstRepositoryRevisionConstant, firstRepository.Rev)
	require.Len(testInstance, firstRepository.Hooks, 2)
	require.Equal(testInstance, "trailing-whitespace", firstRepository.Hooks[0].ID)
	require.Empty(testInstance, firstRepository.Hooks[0].Args)
	require.Empty(testInstance, firstRepository.Hooks[0].Exclude)
	require.Equal(testInstance, excludePatternConstant, firstRepository.Hooks[1].Exclude)

	secondRepository := document.Repos[1]
	require.Equal(testInstance, secondRepositoryURLConstant, secondRepository.Repo)
	require.Equal(testInstance, ruffHookIdentifierConstant, secondRepository.Hooks[0].ID)
	require.Equal(testInstance, []string{ruffHookArgumentConstant}, secondRepository.Hooks[0].Args)
}

func TestParseDocumentMalformedContent(testInstance *testing.T) {
	_, parseError := hookcfg.ParseDocument([]byte(malformedDeclarationContentConstant))
	require.Error(testInstance, parseError)
}

func TestDocumentRenderRoundTrip(testInstance *testing.T) {
	parsedDocument, parseError := hookcfg.ParseDocument([]byte(testDeclarationContentConstant))
	require.NoError(testInstance, parseError)

	renderedContent, renderError := parsedDocument.Render()
	require.NoError(testInstance, renderError)

	reparsedDocument, reparseError := hookcfg.ParseDocument(renderedContent)
	require.NoError(testInstance, reparseError)
	require.Equal(testInstance, parsedDocument, reparsedDocument)

	secondRender, secondRenderError := reparsedDocument.Render()
	require.NoError(testInstance, secondRenderError)
	require.Equal(testInstance, renderedContent, secondRender)
}

func TestDocumentRenderRoundTripEmptyArgsSequence(testInstance *testing.T) {
	parsedDocument, parseError := hookcfg.ParseDocument([]byte(emptyArgsDeclarationContentConstant))
	require.NoError(testInstance, parseError)
	require.Nil(testInstance, parsedDocument.Repos[0].Hooks[0].Args)

	renderedContent, renderError := parsedDocument.Render()
	require.NoError(testInstance, renderError)
	require.NotContains(testInstance, string(renderedContent), "args:")

	reparsedDocument, reparseError := hookcfg.ParseDocument(renderedContent)
	require.NoError(testInstance, reparseError)
	require.Equal(testInstance, parsedDocument, reparsedDocument)
}

func TestDocumentRenderOmitsAbsentOptionalFields(testInstance *testing.T) {
	parsedDocument, parseError := hookcfg.ParseDocument([]byte(testDeclarationContentConstant))
	require.NoError(testInstance, parseError)

	renderedContent, renderError := parsedDocument.Render()
	require.NoError(testInstance, renderError)

	renderedText := string(renderedContent)
	require.NotContains(testInstance, renderedText, "args: []")
	require.NotContains(testInstance, renderedText, "exclude: \"\"")
}

func TestLoadDocument(testInstance *testing.T) {
	declarationPath := filepath.Join(testInstance.TempDir(), testDeclarationFileNameConstant)
	require.NoError(testInstance, os.WriteFile(declarationPath, []byte(testDeclarationContentConstant), 0o644))

	document, loadError := hookcfg.LoadDocument(declarationPath)
	require.NoError(testInstance, loadError)
	require.Len(testInstance, document.Repos, 2)
}

func TestLoadDocumentMissingFile(testInstance *testing.T) {
	missingPath := filepath.Join(testInstance.TempDir(), testDeclarationFileNameConstant)
	_, loadError := hookcfg.LoadDocument(missingPath)
	require.Error(testInstance, loadError)
}
