package sqlengine

import (
	"fmt"
	"sort"
)

// Database schemes recognized by the engine.
const (
	SchemeMySQL      = "mysql"
	SchemePostgreSQL = "postgresql"
	SchemeSQLite     = "sqlite"
)

const (
	mysqlDriverNameConstant              = "mysql"
	postgresqlDriverNameConstant         = "pgx"
	sqliteDriverNameConstant             = "sqlite"
	mysqlDefaultPortConstant             = "3306"
	postgresqlDefaultPortConstant        = "5432"
	mysqlDataSourceTemplateConstant      = "%s:%s@tcp(%s:%s)/%s"
	postgresqlDataSourceTemplateConstant = "postgres://%s:%s@%s:%s/%s"
)

type schemeDefinition struct {
	driverName          string
	defaultPort         string
	buildDataSourceName func(settings ConnectionSettings) string
}

var schemeRegistry = map[string]schemeDefinition{
	SchemeMySQL: {
		driverName:  mysqlDriverNameConstant,
		defaultPort: mysqlDefaultPortConstant,
		buildDataSourceName: func(settings ConnectionSettings) string {
			return fmt.Sprintf(mysqlDataSourceTemplateConstant, settings.User, settings.Password, settings.Host, settings.Port, settings.DatabaseName)
		},
	},
	SchemePostgreSQL: {
		driverName:  postgresqlDriverNameConstant,
		defaultPort: postgresqlDefaultPortConstant,
		buildDataSourceName: func(settings ConnectionSettings) string {
			return fmt.Sprintf(postgresqlDataSourceTemplateConstant, settings.User, settings.Password, settings.Host, settings.Port, settings.DatabaseName)
		},
	},
	SchemeSQLite: {
		driverName: sqliteDriverNameConstant,
		buildDataSourceName: func(settings ConnectionSettings) string {
			return settings.DatabaseName
		},
	},
}

// SupportedSchemes returns the registered scheme names in sorted order.
func SupportedSchemes() []string {
	schemeNames := make([]string, 0, len(schemeRegistry))
	for schemeName := range schemeRegistry {
		schemeNames = append(schemeNames, schemeName)
	}
	sort.Strings(schemeNames)
	return schemeNames
}

// ResolveDataSource maps connection settings onto a driver name and data source string.
//
// Missing ports fall back to the scheme default, matching the original port
// handling of the sqlynx engine.
func ResolveDataSource(settings ConnectionSettings) (string, string, error) {
	definition, schemeSupported := schemeRegistry[settings.Scheme]
	if !schemeSupported {
		return "", "", &UnsupportedSchemeError{Scheme: settings.Scheme, SupportedSchemes: SupportedSchemes()}
	}

	if len(settings.Port) == 0 {
		settings.Port = definition.defaultPort
	}

	return definition.driverName, definition.buildDataSourceName(settings), nil
}
