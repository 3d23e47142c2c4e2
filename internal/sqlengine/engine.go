package sqlengine

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

const (
	openDatabaseErrorTemplateConstant = "failed to open database handle: %w"
	queryRowsErrorTemplateConstant    = "failed to read result rows: %w"
	engineOpenedMessageConstant       = "database connection established"
	engineClosedMessageConstant       = "database connection closed"
	logFieldSchemeConstant            = "scheme"
	logFieldDatabaseNameConstant      = "database_name"
	logFieldStatementConstant         = "statement"
	statementExecutedMessageConstant  = "sql statement executed"
)

// Engine owns a verified database connection for a resolved scheme.
type Engine struct {
	database *sql.DB
	settings ConnectionSettings
	logger   *zap.Logger
}

// NewEngine opens a connection for the provided settings and verifies connectivity.
func NewEngine(executionContext context.Context, settings ConnectionSettings, logger *zap.Logger) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	driverName, dataSourceName, resolveError := ResolveDataSource(settings)
	if resolveError != nil {
		return nil, resolveError
	}

	databaseHandle, openError := sql.Open(driverName, dataSourceName)
	if openError != nil {
		return nil, fmt.Errorf(openDatabaseErrorTemplateConstant, openError)
	}

	if pingError := databaseHandle.PingContext(executionContext); pingError != nil {
		closeIgnoringError(databaseHandle)
		return nil, &DatabaseConnectionError{Cause: pingError}
	}

	logger.Debug(
		engineOpenedMessageConstant,
		zap.String(logFieldSchemeConstant, settings.Scheme),
		zap.String(logFieldDatabaseNameConstant, settings.DatabaseName),
	)

	return &Engine{database: databaseHandle, settings: settings, logger: logger}, nil
}

// Settings returns the connection settings the engine was opened with.
func (engine *Engine) Settings() ConnectionSettings {
	return engine.settings
}

// ExecuteQuery runs the statement and normalizes the outcome into a QueryResult.
//
// Execution failures do not surface as errors: they normalize into an empty
// result carrying the error message, so callers can feed the message back to
// the query refinement loop.
func (engine *Engine) ExecuteQuery(executionContext context.Context, statement string) (QueryResult, error) {
	rows, queryError := engine.database.QueryContext(executionContext, statement)
	if queryError != nil {
		return NewErrorResult(queryError), nil
	}
	defer closeRowsIgnoringError(rows)

	columnNames, columnsError := rows.Columns()
	if columnsError != nil {
		return QueryResult{}, fmt.Errorf(queryRowsErrorTemplateConstant, columnsError)
	}

	collectedRows := make([][]any, 0)
	for rows.Next() {
		scanTargets := make([]any, len(columnNames))
		scanPointers := make([]any, len(columnNames))
		for columnIndex := range scanTargets {
			scanPointers[columnIndex] = &scanTargets[columnIndex]
		}
		if scanError := rows.Scan(scanPointers...); scanError != nil {
			return QueryResult{}, fmt.Errorf(queryRowsErrorTemplateConstant, scanError)
		}
		collectedRows = append(collectedRows, normalizeRowValues(scanTargets))
	}
	if iterationError := rows.Err(); iterationError != nil {
		return QueryResult{}, fmt.Errorf(queryRowsErrorTemplateConstant, iterationError)
	}

	engine.logger.Debug(
		statementExecutedMessageConstant,
		zap.String(logFieldStatementConstant, statement),
	)

	return NewQueryResult(columnNames, collectedRows), nil
}

// Close releases the underlying database handle.
func (engine *Engine) Close() error {
	closeError := engine.database.Close()
	engine.logger.Debug(engineClosedMessageConstant)
	return closeError
}

// normalizeRowValues converts driver-specific scan values into plain Go values.
func normalizeRowValues(scannedValues []any) []any {
	normalizedValues := make([]any, len(scannedValues))
	for valueIndex, scannedValue := range scannedValues {
		switch typedValue := scannedValue.(type) {
		case []byte:
			normalizedValues[valueIndex] = string(typedValue)
		default:
			normalizedValues[valueIndex] = typedValue
		}
	}
	return normalizedValues
}

func closeIgnoringError(databaseHandle *sql.DB) {
	_ = databaseHandle.Close()
}

func closeRowsIgnoringError(rows *sql.Rows) {
	_ = rows.Close()
}
