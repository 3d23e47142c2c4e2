package sqlengine

import (
	// Registered database drivers for the schemes in the scheme registry.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)
