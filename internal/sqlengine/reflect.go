package sqlengine

import (
	"context"
	"fmt"
	"strings"
)

const (
	mysqlColumnsQueryConstant = "SELECT table_name, column_name, data_type " +
		"FROM information_schema.columns WHERE table_schema = ? " +
		"ORDER BY table_name, ordinal_position"
	postgresqlColumnsQueryConstant = "SELECT table_name, column_name, data_type " +
		"FROM information_schema.columns WHERE table_schema = current_schema() " +
		"ORDER BY table_name, ordinal_position"
	sqliteTablesQueryConstant = "SELECT name FROM sqlite_master " +
		"WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name"
	sqliteTableInfoQueryTemplateConstant   = `PRAGMA table_info("%s")`
	describeTablesErrorTemplateConstant    = "failed to reflect table schemas: %w"
	tableDescriptionHeaderTemplateConstant = "Table %s:"
	tableDescriptionColumnTemplateConstant = " %s (%s)"
	tableDescriptionColumnSeparator        = ","
)

// ColumnSchema describes a single reflected column.
type ColumnSchema struct {
	Name     string
	DataType string
}

// TableSchema describes a reflected table and its columns.
type TableSchema struct {
	Name    string
	Columns []ColumnSchema
}

// Description renders the table schema as a single line suitable for embedding and prompts.
func (schema TableSchema) Description() string {
	var descriptionBuilder strings.Builder
	descriptionBuilder.WriteString(fmt.Sprintf(tableDescriptionHeaderTemplateConstant, schema.Name))
	for columnIndex, column := range schema.Columns {
		if columnIndex > 0 {
			descriptionBuilder.WriteString(tableDescriptionColumnSeparator)
		}
		descriptionBuilder.WriteString(fmt.Sprintf(tableDescriptionColumnTemplateConstant, column.Name, column.DataType))
	}
	return descriptionBuilder.String()
}

// DescribeTables reflects the table schemas available through the connection.
//
// When includeTables is non-empty, only the named tables are returned.
func (engine *Engine) DescribeTables(executionContext context.Context, includeTables []string) ([]TableSchema, error) {
	var schemas []TableSchema
	var reflectionError error

	switch engine.settings.Scheme {
	case SchemeSQLite:
		schemas, reflectionError = engine.describeSQLiteTables(executionContext)
	case SchemeMySQL:
		schemas, reflectionError = engine.describeColumnsFromInformationSchema(executionContext, mysqlColumnsQueryConstant, engine.settings.DatabaseName)
	case SchemePostgreSQL:
		schemas, reflectionError = engine.describeColumnsFromInformationSchema(executionContext, postgresqlColumnsQueryConstant)
	default:
		return nil, &UnsupportedSchemeError{Scheme: engine.settings.Scheme, SupportedSchemes: SupportedSchemes()}
	}

	if reflectionError != nil {
		return nil, fmt.Errorf(describeTablesErrorTemplateConstant, reflectionError)
	}

	return filterTableSchemas(schemas, includeTables), nil
}

func (engine *Engine) describeColumnsFromInformationSchema(executionContext context.Context, columnsQuery string, queryArguments ...any) ([]TableSchema, error) {
	rows, queryError := engine.database.QueryContext(executionContext, columnsQuery, queryArguments...)
	if queryError != nil {
		return nil, queryError
	}
	defer closeRowsIgnoringError(rows)

	schemasByTable := make(map[string]*TableSchema)
	tableOrder := make([]string, 0)
	for rows.Next() {
		var tableName, columnName, dataType string
		if scanError := rows.Scan(&tableName, &columnName, &dataType); scanError != nil {
			return nil, scanError
		}
		schema, tableSeen := schemasByTable[tableName]
		if !tableSeen {
			schema = &TableSchema{Name: tableName}
			schemasByTable[tableName] = schema
			tableOrder = append(tableOrder, tableName)
		}
		schema.Columns = append(schema.Columns, ColumnSchema{Name: columnName, DataType: dataType})
	}
	if iterationError := rows.Err(); iterationError != nil {
		return nil, iterationError
	}

	schemas := make([]TableSchema, 0, len(tableOrder))
	for _, tableName := range tableOrder {
		schemas = append(schemas, *schemasByTable[tableName])
	}
	return schemas, nil
}

func (engine *Engine) describeSQLiteTables(executionContext context.Context) ([]TableSchema, error) {
	tableRows, tablesError := engine.database.QueryContext(executionContext, sqliteTablesQueryConstant)
	if tablesError != nil {
		return nil, tablesError
	}

	tableNames := make([]string, 0)
	for tableRows.Next() {
		var tableName string
		if scanError := tableRows.Scan(&tableName); scanError != nil {
			closeRowsIgnoringError(tableRows)
			return nil, scanError
		}
		tableNames = append(tableNames, tableName)
	}
	iterationError := tableRows.Err()
	closeRowsIgnoringError(tableRows)
	if iterationError != nil {
		return nil, iterationError
	}

	schemas := make([]TableSchema, 0, len(tableNames))
	for _, tableName := range tableNames {
		columns, columnsError := engine.describeSQLiteColumns(executionContext, tableName)
		if columnsError != nil {
			return nil, columnsError
		}
		schemas = append(schemas, TableSchema{Name: tableName, Columns: columns})
	}
	return schemas, nil
}

// quoteSQLiteIdentifier escapes an identifier for interpolation by doubling
// embedded double quotes, the quoting SQLite itself applies.
func quoteSQLiteIdentifier(identifier string) string {
	return strings.ReplaceAll(identifier, `"`, `""`)
}

func (engine *Engine) describeSQLiteColumns(executionContext context.Context, tableName string) ([]ColumnSchema, error) {
	columnRows, queryError := engine.database.QueryContext(executionContext, fmt.Sprintf(sqliteTableInfoQueryTemplateConstant, quoteSQLiteIdentifier(tableName)))
	if queryError != nil {
		return nil, queryError
	}
	defer closeRowsIgnoringError(columnRows)

	columns := make([]ColumnSchema, 0)
	for columnRows.Next() {
		var columnIdentifier int
		var columnName, columnType string
		var notNullFlag, primaryKeyFlag int
		var defaultValue any
		if scanError := columnRows.Scan(&columnIdentifier, &columnName, &columnType, &notNullFlag, &defaultValue, &primaryKeyFlag); scanError != nil {
			return nil, scanError
		}
		columns = append(columns, ColumnSchema{Name: columnName, DataType: strings.ToLower(columnType)})
	}
	return columns, columnRows.Err()
}

func filterTableSchemas(schemas []TableSchema, includeTables []string) []TableSchema {
	if len(includeTables) == 0 {
		return schemas
	}

	includedNames := make(map[string]struct{}, len(includeTables))
	for _, tableName := range includeTables {
		trimmedName := strings.TrimSpace(tableName)
		if len(trimmedName) == 0 {
			continue
		}
		includedNames[trimmedName] = struct{}{}
	}

	filteredSchemas := make([]TableSchema, 0, len(schemas))
	for _, schema := range schemas {
		if _, included := includedNames[schema.Name]; included {
			filteredSchemas = append(filteredSchemas, schema)
		}
	}
	return filteredSchemas
}
