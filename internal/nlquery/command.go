package nlquery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"

	"github.com/sqlynx/sqlynx/internal/retrieval"
	"github.com/sqlynx/sqlynx/internal/sqlengine"
	"github.com/sqlynx/sqlynx/internal/utils"
)

const (
	sqlCommandNameConstant              = "sql"
	sqlCommandShortDescriptionConstant  = "Query databases with natural language or raw SQL"
	sqlCommandLongDescriptionConstant   = "sql connects to the configured database, generates SQL from natural-language questions, executes statements, and maintains the table schema index."
	queryCommandUseConstant             = "query <question>"
	queryCommandShortDescription        = "Generate and execute SQL for a natural-language question"
	execCommandUseConstant              = "exec <statement>"
	execCommandShortDescription         = "Execute a raw SQL statement"
	chatCommandUseConstant              = "chat"
	chatCommandShortDescription         = "Answer questions interactively"
	indexCommandUseConstant             = "index"
	indexCommandShortDescription        = "Rebuild the persisted table schema index"
	chatPromptConstant                  = "Your Question: "
	chatExitWordQuitConstant            = "quit"
	chatExitWordExitConstant            = "exit"
	generatedStatementTemplateConstant  = "SQL: %s\n"
	refinedStatementTemplateConstant    = "refined SQL: %s\n"
	indexRebuiltTemplateConstant        = "indexed %d table schemas under %s\n"
	readlineCreationErrorTemplate       = "failed to start interactive session: %w"
	readlineReadErrorTemplateConstant   = "failed to read input: %w"
	chatAnswerErrorTemplateConstant     = "error: %v\n"
	modelCreationErrorTemplateConstant  = "failed to create chat model: %w"
	embedderCreationErrorTemplate       = "failed to create embedder: %w"
	logFieldModelNameConstant           = "model_name"
	logFieldIndexDirectoryConstant      = "index_directory"
	logFieldTableCountConstant          = "table_count"
	indexRebuiltLogMessageConstant      = "table schema index rebuilt"
	chatModelCreatedLogMessageConstant  = "chat model created"
	interactiveSessionStartedLogMessage = "interactive sql session started"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the sql command group with configurable dependencies.
//
// The zero value resolves every collaborator from configuration and
// environment variables; tests inject stubs through the exported fields.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() CommandConfiguration
	Executor              StatementExecutor
	Retriever             TableRetriever
	Generator             SQLGenerator
	Embedder              embeddings.Embedder
	EnvironmentLookup     sqlengine.EnvironmentLookup
}

// Build constructs the sql cobra command with its query, exec, chat, and index subcommands.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	sqlCommand := &cobra.Command{
		Use:   sqlCommandNameConstant,
		Short: sqlCommandShortDescriptionConstant,
		Long:  sqlCommandLongDescriptionConstant,
	}

	queryCommand := &cobra.Command{
		Use:   queryCommandUseConstant,
		Short: queryCommandShortDescription,
		Args:  cobra.ExactArgs(1),
		RunE:  builder.runQuery,
	}

	execCommand := &cobra.Command{
		Use:   execCommandUseConstant,
		Short: execCommandShortDescription,
		Args:  cobra.ExactArgs(1),
		RunE:  builder.runExec,
	}

	chatCommand := &cobra.Command{
		Use:   chatCommandUseConstant,
		Short: chatCommandShortDescription,
		Args:  cobra.NoArgs,
		RunE:  builder.runChat,
	}

	indexCommand := &cobra.Command{
		Use:   indexCommandUseConstant,
		Short: indexCommandShortDescription,
		Args:  cobra.NoArgs,
		RunE:  builder.runIndex,
	}

	sqlCommand.AddCommand(queryCommand)
	sqlCommand.AddCommand(execCommand)
	sqlCommand.AddCommand(chatCommand)
	sqlCommand.AddCommand(indexCommand)

	return sqlCommand, nil
}

func (builder *CommandBuilder) runQuery(command *cobra.Command, arguments []string) error {
	queryTool, cleanup, toolError := builder.resolveQueryTool(command.Context())
	if toolError != nil {
		return toolError
	}
	defer runCleanup(cleanup)

	outcome, answerError := queryTool.Answer(command.Context(), arguments[0])
	if answerError != nil {
		return answerError
	}

	builder.printOutcome(command.OutOrStdout(), outcome)
	return nil
}

func (builder *CommandBuilder) runExec(command *cobra.Command, arguments []string) error {
	executor, cleanup, executorError := builder.resolveExecutor(command.Context())
	if executorError != nil {
		return executorError
	}
	defer runCleanup(cleanup)

	result, executionError := executor.ExecuteQuery(command.Context(), arguments[0])
	if executionError != nil {
		return executionError
	}

	RenderResult(command.OutOrStdout(), result)
	return nil
}

func (builder *CommandBuilder) runChat(command *cobra.Command, arguments []string) error {
	logger := builder.resolveLogger()

	queryTool, cleanup, toolError := builder.resolveQueryTool(command.Context())
	if toolError != nil {
		return toolError
	}
	defer runCleanup(cleanup)

	readlineInstance, readlineError := readline.New(chatPromptConstant)
	if readlineError != nil {
		return fmt.Errorf(readlineCreationErrorTemplate, readlineError)
	}
	defer closeReadlineIgnoringError(readlineInstance)

	logger.Info(interactiveSessionStartedLogMessage)

	answerWriter := utils.NewFlushingWriter(command.OutOrStdout())

	for {
		inputLine, readError := readlineInstance.Readline()
		switch {
		case errors.Is(readError, readline.ErrInterrupt), errors.Is(readError, io.EOF):
			return nil
		case readError != nil:
			return fmt.Errorf(readlineReadErrorTemplateConstant, readError)
		}

		question := strings.TrimSpace(inputLine)
		if len(question) == 0 {
			continue
		}
		if question == chatExitWordQuitConstant || question == chatExitWordExitConstant {
			return nil
		}

		outcome, answerError := queryTool.Answer(command.Context(), question)
		if answerError != nil {
			fmt.Fprintf(command.ErrOrStderr(), chatAnswerErrorTemplateConstant, answerError)
			continue
		}
		builder.printOutcome(answerWriter, outcome)
	}
}

func (builder *CommandBuilder) runIndex(command *cobra.Command, arguments []string) error {
	logger := builder.resolveLogger()
	configuration := builder.resolveConfiguration()

	engine, cleanup, engineError := builder.resolveEngine(command.Context())
	if engineError != nil {
		return engineError
	}
	defer runCleanup(cleanup)

	schemas, describeError := engine.DescribeTables(command.Context(), configuration.IncludeTables)
	if describeError != nil {
		return describeError
	}

	embedder, embedderError := builder.resolveEmbedder()
	if embedderError != nil {
		return embedderError
	}

	schemaIndex, buildError := retrieval.BuildSchemaIndex(command.Context(), embedder, schemas)
	if buildError != nil {
		return buildError
	}
	if persistError := schemaIndex.Persist(configuration.IndexDirectory); persistError != nil {
		return persistError
	}

	logger.Info(
		indexRebuiltLogMessageConstant,
		zap.String(logFieldIndexDirectoryConstant, configuration.IndexDirectory),
		zap.Int(logFieldTableCountConstant, len(schemas)),
	)
	fmt.Fprintf(command.OutOrStdout(), indexRebuiltTemplateConstant, len(schemas), configuration.IndexDirectory)
	return nil
}

func (builder *CommandBuilder) printOutcome(outputWriter io.Writer, outcome AnswerOutcome) {
	fmt.Fprintf(outputWriter, generatedStatementTemplateConstant, outcome.GeneratedStatement)
	if len(outcome.RefinedStatement) > 0 {
		fmt.Fprintf(outputWriter, refinedStatementTemplateConstant, outcome.RefinedStatement)
	}
	RenderResult(outputWriter, outcome.Result)
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().sanitize()
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

func (builder *CommandBuilder) resolveEngine(executionContext context.Context) (*sqlengine.Engine, func() error, error) {
	settings, settingsError := sqlengine.ResolveConnectionSettings(builder.EnvironmentLookup)
	if settingsError != nil {
		return nil, nil, settingsError
	}

	engine, engineError := sqlengine.NewEngine(executionContext, settings, builder.resolveLogger())
	if engineError != nil {
		return nil, nil, engineError
	}

	return engine, engine.Close, nil
}

func (builder *CommandBuilder) resolveExecutor(executionContext context.Context) (StatementExecutor, func() error, error) {
	if builder.Executor != nil {
		return builder.Executor, nil, nil
	}

	engine, cleanup, engineError := builder.resolveEngine(executionContext)
	if engineError != nil {
		return nil, nil, engineError
	}
	return engine, cleanup, nil
}

func (builder *CommandBuilder) resolveEmbedder() (embeddings.Embedder, error) {
	if builder.Embedder != nil {
		return builder.Embedder, nil
	}

	openaiClient, clientError := openai.New()
	if clientError != nil {
		return nil, fmt.Errorf(embedderCreationErrorTemplate, clientError)
	}
	embedder, embedderError := embeddings.NewEmbedder(openaiClient)
	if embedderError != nil {
		return nil, fmt.Errorf(embedderCreationErrorTemplate, embedderError)
	}
	return embedder, nil
}

func (builder *CommandBuilder) resolveGenerator(configuration CommandConfiguration) (SQLGenerator, error) {
	if builder.Generator != nil {
		return builder.Generator, nil
	}

	chatModel, modelError := openai.New(openai.WithModel(configuration.ModelName))
	if modelError != nil {
		return nil, fmt.Errorf(modelCreationErrorTemplateConstant, modelError)
	}

	builder.resolveLogger().Debug(
		chatModelCreatedLogMessageConstant,
		zap.String(logFieldModelNameConstant, configuration.ModelName),
	)

	return NewChatModelGenerator(chatModel), nil
}

// resolveQueryTool wires the executor, retriever, and generator into a QueryTool.
//
// When no retriever is injected, the persisted schema index is loaded, or
// built from the reflected table schemas and persisted for later runs.
func (builder *CommandBuilder) resolveQueryTool(executionContext context.Context) (*QueryTool, func() error, error) {
	configuration := builder.resolveConfiguration()

	generator, generatorError := builder.resolveGenerator(configuration)
	if generatorError != nil {
		return nil, nil, generatorError
	}

	if builder.Executor != nil && builder.Retriever != nil {
		return NewQueryTool(builder.Executor, builder.Retriever, generator, configuration.TopK, builder.resolveLogger()), nil, nil
	}

	engine, cleanup, engineError := builder.resolveEngine(executionContext)
	if engineError != nil {
		return nil, nil, engineError
	}

	retriever := builder.Retriever
	if retriever == nil {
		embedder, embedderError := builder.resolveEmbedder()
		if embedderError != nil {
			runCleanup(cleanup)
			return nil, nil, embedderError
		}

		schemas, describeError := engine.DescribeTables(executionContext, configuration.IncludeTables)
		if describeError != nil {
			runCleanup(cleanup)
			return nil, nil, describeError
		}

		schemaIndex, ensureError := retrieval.EnsureSchemaIndex(executionContext, embedder, configuration.IndexDirectory, schemas)
		if ensureError != nil {
			runCleanup(cleanup)
			return nil, nil, ensureError
		}
		retriever = IndexRetriever{Index: schemaIndex, Embedder: embedder}
	}

	var executor StatementExecutor = engine
	if builder.Executor != nil {
		executor = builder.Executor
	}

	return NewQueryTool(executor, retriever, generator, configuration.TopK, builder.resolveLogger()), cleanup, nil
}

func runCleanup(cleanup func() error) {
	if cleanup == nil {
		return
	}
	_ = cleanup()
}

func closeReadlineIgnoringError(readlineInstance *readline.Instance) {
	_ = readlineInstance.Close()
}
