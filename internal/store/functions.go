package store

import (
	"database/sql"
	"fmt"
)

func (s *Store) InsertFunction(f *Function) (int64, error) {
	res, err := s.db.Exec(
		"INSERT INTO functions (c_name, canonical_name, go_name, excluded) VALUES (?, ?, ?, ?)",
		f.CName, f.CanonicalName, f.GoName, f.Excluded,
	)
	if err != nil {
		return 0, fmt.Errorf("insert function: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	f.ID = id
	return id, nil
}

// FunctionByCName returns the entry for a native identifier, argument
// snapshot included, or nil if the key is unknown.
func (s *Store) FunctionByCName(cname string) (*Function, error) {
	f := &Function{}
	err := s.db.QueryRow(
		"SELECT id, c_name, canonical_name, go_name, excluded FROM functions WHERE c_name = ?", cname,
	).Scan(&f.ID, &f.CName, &f.CanonicalName, &f.GoName, &f.Excluded)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("function by c_name: %w", err)
	}
	args, err := s.ArgsFor(f.ID)
	if err != nil {
		return nil, err
	}
	f.Args = args
	return f, nil
}

// AllFunctions returns every entry ordered by native identifier, argument
// snapshots included. The ordering is what keeps reads and the sync
// write-back reproducible.
func (s *Store) AllFunctions() ([]*Function, error) {
	rows, err := s.db.Query(
		"SELECT id, c_name, canonical_name, go_name, excluded FROM functions ORDER BY c_name",
	)
	if err != nil {
		return nil, fmt.Errorf("all functions: %w", err)
	}
	defer rows.Close()
	var funcs []*Function
	for rows.Next() {
		f := &Function{}
		if err := rows.Scan(&f.ID, &f.CName, &f.CanonicalName, &f.GoName, &f.Excluded); err != nil {
			return nil, fmt.Errorf("scan function: %w", err)
		}
		funcs = append(funcs, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, f := range funcs {
		args, err := s.ArgsFor(f.ID)
		if err != nil {
			return nil, err
		}
		f.Args = args
	}
	return funcs, nil
}

// ArgsFor returns the current argument snapshot for a function, in
// ordinal order.
func (s *Store) ArgsFor(functionID int64) ([]Arg, error) {
	rows, err := s.db.Query(
		"SELECT ordinal, name, type FROM function_args WHERE function_id = ? ORDER BY ordinal", functionID,
	)
	if err != nil {
		return nil, fmt.Errorf("args for function: %w", err)
	}
	defer rows.Close()
	var args []Arg
	for rows.Next() {
		var a Arg
		if err := rows.Scan(&a.Ordinal, &a.Name, &a.Type); err != nil {
			return nil, fmt.Errorf("scan arg: %w", err)
		}
		args = append(args, a)
	}
	return args, rows.Err()
}

// ReplaceArgs overwrites a function's argument snapshot inside tx.
func ReplaceArgs(tx *sql.Tx, functionID int64, args []Arg) error {
	if _, err := tx.Exec("DELETE FROM function_args WHERE function_id = ?", functionID); err != nil {
		return fmt.Errorf("delete args: %w", err)
	}
	for i, a := range args {
		if _, err := tx.Exec(
			"INSERT INTO function_args (function_id, ordinal, name, type) VALUES (?, ?, ?, ?)",
			functionID, i, a.Name, a.Type,
		); err != nil {
			return fmt.Errorf("insert arg: %w", err)
		}
	}
	return nil
}

// SetExcluded curates the excluded flag for a native identifier.
func (s *Store) SetExcluded(cname string, excluded bool) error {
	res, err := s.db.Exec("UPDATE functions SET excluded = ? WHERE c_name = ?", excluded, cname)
	if err != nil {
		return fmt.Errorf("set excluded: %w", err)
	}
	return requireOneRow(res, cname)
}

// SetGoName curates the generated-name override for a native identifier.
func (s *Store) SetGoName(cname, goName string) error {
	res, err := s.db.Exec("UPDATE functions SET go_name = ? WHERE c_name = ?", goName, cname)
	if err != nil {
		return fmt.Errorf("set go_name: %w", err)
	}
	return requireOneRow(res, cname)
}

func requireOneRow(res sql.Result, cname string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("unknown function %q", cname)
	}
	return nil
}
