package nlquery

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"

	"github.com/sqlynx/sqlynx/internal/retrieval"
	"github.com/sqlynx/sqlynx/internal/sqlengine"
)

const (
	generateStatementErrorTemplateConstant = "failed to generate SQL statement: %w"
	emptyModelResponseMessageConstant      = "model returned no choices"
	emptyStatementMessageConstant          = "model returned an empty SQL statement"
	statementGeneratedMessageConstant      = "sql statement generated"
	statementRefinedMessageConstant        = "sql statement refined after execution failure"
	logFieldQuestionConstant               = "question"
	logFieldStatementConstant              = "statement"
	logFieldErrorMessageConstant           = "error_message"
)

// StatementExecutor executes a SQL statement and returns the normalized result.
type StatementExecutor interface {
	ExecuteQuery(executionContext context.Context, statement string) (sqlengine.QueryResult, error)
}

// TableRetriever selects the table schemas most relevant to a question.
type TableRetriever interface {
	Retrieve(executionContext context.Context, question string, topK int) ([]retrieval.ScoredTable, error)
}

// SQLGenerator produces a SQL statement for a prompt.
type SQLGenerator interface {
	GenerateSQL(executionContext context.Context, systemPrompt string, userPrompt string) (string, error)
}

// ChatModelGenerator implements SQLGenerator on top of a langchaingo chat model.
type ChatModelGenerator struct {
	model llms.Model
}

// NewChatModelGenerator wraps the provided chat model.
func NewChatModelGenerator(model llms.Model) *ChatModelGenerator {
	return &ChatModelGenerator{model: model}
}

// GenerateSQL sends the prompts to the chat model and extracts the statement from the response.
func (generator *ChatModelGenerator) GenerateSQL(executionContext context.Context, systemPrompt string, userPrompt string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, userPrompt),
	}

	response, generateError := generator.model.GenerateContent(executionContext, messages)
	if generateError != nil {
		return "", fmt.Errorf(generateStatementErrorTemplateConstant, generateError)
	}
	if response == nil || len(response.Choices) == 0 {
		return "", errors.New(emptyModelResponseMessageConstant)
	}

	return extractStatement(response.Choices[0].Content), nil
}

// AnswerOutcome captures the full trace of answering a question.
type AnswerOutcome struct {
	Question           string
	GeneratedStatement string
	RefinedStatement   string
	Result             sqlengine.QueryResult
}

// QueryTool generates, executes, and refines SQL queries for natural-language questions.
type QueryTool struct {
	executor  StatementExecutor
	retriever TableRetriever
	generator SQLGenerator
	topK      int
	logger    *zap.Logger
}

// NewQueryTool constructs a QueryTool from its collaborators.
func NewQueryTool(executor StatementExecutor, retriever TableRetriever, generator SQLGenerator, topK int, logger *zap.Logger) *QueryTool {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueryTool{
		executor:  executor,
		retriever: retriever,
		generator: generator,
		topK:      topK,
		logger:    logger,
	}
}

// GenerateSQL produces a SQL statement answering the question.
func (tool *QueryTool) GenerateSQL(executionContext context.Context, question string) (string, error) {
	scoredTables, retrieveError := tool.retriever.Retrieve(executionContext, question, tool.topK)
	if retrieveError != nil {
		return "", retrieveError
	}

	statement, generateError := tool.generator.GenerateSQL(executionContext, generationSystemPromptConstant, buildGenerationPrompt(question, scoredTables))
	if generateError != nil {
		return "", generateError
	}
	if len(statement) == 0 {
		return "", errors.New(emptyStatementMessageConstant)
	}

	tool.logger.Debug(
		statementGeneratedMessageConstant,
		zap.String(logFieldQuestionConstant, question),
		zap.String(logFieldStatementConstant, statement),
	)

	return statement, nil
}

// ExecuteSQL runs the statement and returns the normalized result.
func (tool *QueryTool) ExecuteSQL(executionContext context.Context, statement string) (sqlengine.QueryResult, error) {
	return tool.executor.ExecuteQuery(executionContext, statement)
}

// Answer generates a statement for the question, executes it, and refines it once on failure.
func (tool *QueryTool) Answer(executionContext context.Context, question string) (AnswerOutcome, error) {
	generatedStatement, generateError := tool.GenerateSQL(executionContext, question)
	if generateError != nil {
		return AnswerOutcome{}, generateError
	}

	outcome := AnswerOutcome{Question: question, GeneratedStatement: generatedStatement}

	result, executionError := tool.executor.ExecuteQuery(executionContext, generatedStatement)
	if executionError != nil {
		return AnswerOutcome{}, executionError
	}
	outcome.Result = result

	if !result.Failed() {
		return outcome, nil
	}

	refinedStatement, refineError := tool.refineStatement(executionContext, question, generatedStatement, result.Metadata.ErrorMessage)
	if refineError != nil {
		return AnswerOutcome{}, refineError
	}
	outcome.RefinedStatement = refinedStatement

	refinedResult, refinedExecutionError := tool.executor.ExecuteQuery(executionContext, refinedStatement)
	if refinedExecutionError != nil {
		return AnswerOutcome{}, refinedExecutionError
	}
	outcome.Result = refinedResult

	return outcome, nil
}

// FinalStatement returns the statement that produced the outcome's result.
func (outcome AnswerOutcome) FinalStatement() string {
	if len(outcome.RefinedStatement) > 0 {
		return outcome.RefinedStatement
	}
	return outcome.GeneratedStatement
}

func (tool *QueryTool) refineStatement(executionContext context.Context, question string, failedStatement string, errorMessage string) (string, error) {
	scoredTables, retrieveError := tool.retriever.Retrieve(executionContext, question, tool.topK)
	if retrieveError != nil {
		return "", retrieveError
	}

	refinedStatement, generateError := tool.generator.GenerateSQL(
		executionContext,
		generationSystemPromptConstant,
		buildRefinementPrompt(question, failedStatement, errorMessage, scoredTables),
	)
	if generateError != nil {
		return "", generateError
	}
	if len(refinedStatement) == 0 {
		return "", errors.New(emptyStatementMessageConstant)
	}

	tool.logger.Debug(
		statementRefinedMessageConstant,
		zap.String(logFieldQuestionConstant, question),
		zap.String(logFieldStatementConstant, refinedStatement),
		zap.String(logFieldErrorMessageConstant, errorMessage),
	)

	return refinedStatement, nil
}
