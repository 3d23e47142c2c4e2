// Package nlquery turns natural-language questions into executed SQL queries.
//
// It retrieves the table schemas most relevant to a question, prompts a chat
// model for a SQL statement, executes the statement through the sql engine,
// and regenerates the statement once when execution fails. The package also
// wires the sql command group of the CLI.
package nlquery
