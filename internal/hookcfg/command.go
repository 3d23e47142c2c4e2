package hookcfg

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	hooksCommandNameConstant             = "hooks"
	hooksCommandShortDescriptionConstant = "Inspect pre-commit hook source declarations"
	hooksCommandLongDescriptionConstant  = "hooks lints and formats the declaration file listing external hook repositories, revision pins, and hook invocations."
	lintCommandUseConstant               = "lint [path]"
	lintCommandShortDescriptionConstant  = "Validate a hook declaration file"
	fmtCommandUseConstant                = "fmt [path]"
	fmtCommandShortDescriptionConstant   = "Render a hook declaration file in canonical form"
	writeFlagNameConstant                = "write"
	writeFlagUsageConstant               = "Rewrite the declaration file instead of printing a diff."
	declarationValidMessageConstant      = "hook declaration is well formed"
	declarationInvalidMessageConstant    = "hook declaration failed validation"
	declarationCanonicalMessageConstant  = "hook declaration is canonical"
	declarationRewrittenMessageConstant  = "hook declaration rewritten"
	lintSummaryTemplateConstant          = "%s: %d issue(s)\n"
	lintIssueLineTemplateConstant        = "  %s\n"
	lintOkTemplateConstant               = "%s: ok\n"
	lintFailedErrorTemplateConstant      = "hook declaration failed validation with %d issue(s)"
	notCanonicalErrorMessageConstant     = "hook declaration is not in canonical form"
	diffRenderErrorTemplateConstant      = "failed to render declaration diff: %w"
	rewriteErrorTemplateConstant         = "failed to rewrite declaration file: %w"
	formattedFileSuffixConstant          = " (formatted)"
	diffContextLineCountConstant         = 3
	rewrittenFileModeConstant            = 0o644
	logFieldDeclarationPathConstant      = "declaration_path"
	logFieldIssueCountConstant           = "issue_count"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the hooks command group with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() CommandConfiguration
}

// Build constructs the hooks cobra command with its lint and fmt subcommands.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	hooksCommand := &cobra.Command{
		Use:   hooksCommandNameConstant,
		Short: hooksCommandShortDescriptionConstant,
		Long:  hooksCommandLongDescriptionConstant,
	}

	lintCommand := &cobra.Command{
		Use:   lintCommandUseConstant,
		Short: lintCommandShortDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.runLint,
	}

	fmtCommand := &cobra.Command{
		Use:   fmtCommandUseConstant,
		Short: fmtCommandShortDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.runFmt,
	}
	fmtCommand.Flags().Bool(writeFlagNameConstant, false, writeFlagUsageConstant)

	hooksCommand.AddCommand(lintCommand)
	hooksCommand.AddCommand(fmtCommand)

	return hooksCommand, nil
}

func (builder *CommandBuilder) runLint(command *cobra.Command, arguments []string) error {
	logger := builder.resolveLogger()
	declarationPath := builder.resolveDeclarationPath(arguments)

	documentContent, readError := os.ReadFile(declarationPath)
	if readError != nil {
		return fmt.Errorf(documentReadErrorTemplateConstant, readError)
	}

	schemaValidator, validatorError := NewSchemaValidator()
	if validatorError != nil {
		return validatorError
	}
	if schemaError := schemaValidator.ValidateContent(documentContent); schemaError != nil {
		fmt.Fprintln(command.ErrOrStderr(), schemaError)
		return schemaError
	}

	document, parseError := ParseDocument(documentContent)
	if parseError != nil {
		return parseError
	}

	validationIssues := document.Validate()
	if len(validationIssues) > 0 {
		fmt.Fprintf(command.ErrOrStderr(), lintSummaryTemplateConstant, declarationPath, len(validationIssues))
		for _, validationIssue := range validationIssues {
			fmt.Fprintf(command.ErrOrStderr(), lintIssueLineTemplateConstant, validationIssue.String())
		}
		logger.Warn(
			declarationInvalidMessageConstant,
			zap.String(logFieldDeclarationPathConstant, declarationPath),
			zap.Int(logFieldIssueCountConstant, len(validationIssues)),
		)
		return fmt.Errorf(lintFailedErrorTemplateConstant, len(validationIssues))
	}

	logger.Info(
		declarationValidMessageConstant,
		zap.String(logFieldDeclarationPathConstant, declarationPath),
	)
	fmt.Fprintf(command.OutOrStdout(), lintOkTemplateConstant, declarationPath)
	return nil
}

func (builder *CommandBuilder) runFmt(command *cobra.Command, arguments []string) error {
	logger := builder.resolveLogger()
	declarationPath := builder.resolveDeclarationPath(arguments)
	writeRequested, _ := command.Flags().GetBool(writeFlagNameConstant)

	documentContent, readError := os.ReadFile(declarationPath)
	if readError != nil {
		return fmt.Errorf(documentReadErrorTemplateConstant, readError)
	}

	document, parseError := ParseDocument(documentContent)
	if parseError != nil {
		return parseError
	}

	renderedContent, renderError := document.Render()
	if renderError != nil {
		return renderError
	}

	if bytes.Equal(documentContent, renderedContent) {
		logger.Info(
			declarationCanonicalMessageConstant,
			zap.String(logFieldDeclarationPathConstant, declarationPath),
		)
		return nil
	}

	if writeRequested {
		if writeError := os.WriteFile(declarationPath, renderedContent, rewrittenFileModeConstant); writeError != nil {
			return fmt.Errorf(rewriteErrorTemplateConstant, writeError)
		}
		logger.Info(
			declarationRewrittenMessageConstant,
			zap.String(logFieldDeclarationPathConstant, declarationPath),
		)
		return nil
	}

	unifiedDiff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(documentContent)),
		B:        difflib.SplitLines(string(renderedContent)),
		FromFile: declarationPath,
		ToFile:   declarationPath + formattedFileSuffixConstant,
		Context:  diffContextLineCountConstant,
	}
	diffText, diffError := difflib.GetUnifiedDiffString(unifiedDiff)
	if diffError != nil {
		return fmt.Errorf(diffRenderErrorTemplateConstant, diffError)
	}
	fmt.Fprint(command.OutOrStdout(), diffText)

	return errors.New(notCanonicalErrorMessageConstant)
}

func (builder *CommandBuilder) resolveDeclarationPath(arguments []string) string {
	if len(arguments) > 0 {
		return arguments[0]
	}

	configuration := DefaultCommandConfiguration()
	if builder.ConfigurationProvider != nil {
		providedConfiguration := builder.ConfigurationProvider().sanitize()
		if len(providedConfiguration.DeclarationPath) > 0 {
			configuration = providedConfiguration
		}
	}
	return configuration.DeclarationPath
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
