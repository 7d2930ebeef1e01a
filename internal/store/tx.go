package store

import (
	"database/sql"
	"fmt"
)

// InsertFunctionTx inserts a function row inside tx and fills f.ID.
// Used by the database sync transaction so a whole run's discoveries
// land atomically.
func InsertFunctionTx(tx *sql.Tx, f *Function) error {
	res, err := tx.Exec(
		"INSERT INTO functions (c_name, canonical_name, go_name, excluded) VALUES (?, ?, ?, ?)",
		f.CName, f.CanonicalName, f.GoName, f.Excluded,
	)
	if err != nil {
		return fmt.Errorf("insert function: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	f.ID = id
	return nil
}
