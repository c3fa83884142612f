package config

// Default paths and identifiers
const (
	// DefaultDatabasePath is the default path for the sqlite lesson database
	DefaultDatabasePath = "./kotoba.db"

	// DriverSQLite and DriverPostgres are the supported DATABASE_DRIVER values
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	// DefaultUserID identifies the learner when a request names none
	DefaultUserID = "local"
)
