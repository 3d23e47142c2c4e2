// Package sqlengine manages relational database connections for sqlynx.
//
// It resolves connection settings from environment variables, maps database
// schemes to their drivers and data source formats, verifies connectivity,
// reflects table schemas, and executes SQL statements returning normalized
// query results.
package sqlengine
