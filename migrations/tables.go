package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/yasinhessnawi1/chatbridge/internal/constants"
)

// createKVEntriesTable creates the key-value table backing the sql store.
// expires_at is NULL for records that never expire and is indexed so that
// sweeps do not scan the whole table.
func createKVEntriesTable(driver string) Migration {
	return Migration{
		Name:        "create_kv_entries_table",
		Description: "Creates the kv_entries table",
		TableName:   constants.TableKVEntries,
		RunSQL: func(ctx context.Context, tx *sql.Tx) error {
			if driver == constants.DriverPostgres {
				query := fmt.Sprintf(`
					CREATE TABLE IF NOT EXISTS %s (
						%s VARCHAR(512) PRIMARY KEY,
						%s BYTEA NOT NULL,
						%s TIMESTAMPTZ NULL
					)
				`, constants.TableKVEntries, constants.ColumnKey, constants.ColumnValue, constants.ColumnExpiresAt)
				if _, err := tx.ExecContext(ctx, query); err != nil {
					return err
				}

				index := fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_kv_entries_expires_at ON %s(%s)`,
					constants.TableKVEntries, constants.ColumnExpiresAt)
				_, err := tx.ExecContext(ctx, index)
				return err
			}

			// MySQL has no CREATE INDEX IF NOT EXISTS, so the index is declared inline
			query := fmt.Sprintf(`
				CREATE TABLE IF NOT EXISTS %s (
					%s VARCHAR(512) NOT NULL PRIMARY KEY,
					%s LONGBLOB NOT NULL,
					%s DATETIME(6) NULL,
					INDEX idx_kv_entries_expires_at (%s)
				) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4
			`, constants.TableKVEntries, constants.ColumnKey, constants.ColumnValue,
				constants.ColumnExpiresAt, constants.ColumnExpiresAt)
			_, err := tx.ExecContext(ctx, query)
			return err
		},
	}
}
