// Package constants provides shared constant values used throughout the application.
//
// The database_const.go file holds the names used by the key-value store backends:
// the SQL table and its columns, the supported drivers, and the key prefixes under
// which each repository keeps its records.
package constants

// Store Backends name the supported key-value store implementations.
const (
	// StoreBackendMemory keeps all state in process memory.
	StoreBackendMemory = "memory"

	// StoreBackendRedis keeps state in a Redis server.
	StoreBackendRedis = "redis"

	// StoreBackendSQL keeps state in a relational database table.
	StoreBackendSQL = "sql"
)

// SQL Drivers supported by the sql backend.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Table and Column Names
const (
	// TableKVEntries holds every key-value record for the sql backend.
	TableKVEntries = "kv_entries"

	// TableMigrations records which schema migrations have been applied.
	TableMigrations = "schema_migrations"

	ColumnKey       = "k"
	ColumnValue     = "v"
	ColumnExpiresAt = "expires_at"
)

// Key Prefixes separate the record types sharing one store.
const (
	KeyPrefixUser    = "user:"
	KeyPrefixReset   = "reset:"
	KeyPrefixSession = "session:"
	KeyPrefixChat    = "chat:"
)

// Connection Parameters
const (
	PostgresSSLDisable = "sslmode=disable connect_timeout=15"
	MySQLParams        = "parseTime=true&charset=utf8mb4"
)
