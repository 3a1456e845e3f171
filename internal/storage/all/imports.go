// Package all wires all built-in storage backends into the storage factory.
//
// Importing it for side effects makes these storage kinds available:
//
//   - "postgres" (anonymizer/internal/storage/postgres)
//   - "mssql"    (anonymizer/internal/storage/mssql)
//   - "mysql"    (anonymizer/internal/storage/mysql)
//   - "sqlite"   (anonymizer/internal/storage/sqlite)
package all

import (
	_ "anonymizer/internal/storage/mssql"
	_ "anonymizer/internal/storage/mysql"
	_ "anonymizer/internal/storage/postgres"
	_ "anonymizer/internal/storage/sqlite"
)
