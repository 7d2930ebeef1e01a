package gslgen

import (
	"fmt"
	"sort"

	"github.com/jward/gslgen/internal/hdr"
	"github.com/jward/gslgen/internal/store"
)

// Database is the in-memory mirror of the persistent function database,
// following an explicit load → merge → store transaction: OpenDatabase
// loads every record, Update merges freshly decomposed descriptors, and
// Sync writes the result back at the run's single sync point. Keys are
// native identifiers; once a key exists it is never removed, and curated
// fields (excluded, generated-name override) are never overwritten by
// automatic refresh — only argument snapshots are.
type Database struct {
	store *store.Store
	funcs map[string]*store.Function
}

// OpenDatabase loads an existing function database. A missing or corrupt
// database file is fatal for the whole pipeline.
func OpenDatabase(dbPath string) (*Database, error) {
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	return loadDatabase(s)
}

// CreateDatabase bootstraps a new (or existing) function database file.
func CreateDatabase(dbPath string) (*Database, error) {
	s, err := store.Create(dbPath)
	if err != nil {
		return nil, err
	}
	return loadDatabase(s)
}

func loadDatabase(s *store.Store) (*Database, error) {
	funcs, err := s.AllFunctions()
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("load database: %w", err)
	}
	db := &Database{store: s, funcs: make(map[string]*store.Function, len(funcs))}
	for _, f := range funcs {
		db.funcs[f.CName] = f
	}
	return db, nil
}

// Close releases the underlying store.
func (db *Database) Close() error {
	return db.store.Close()
}

// Store exposes the underlying store for metadata access.
func (db *Database) Store() *store.Store {
	return db.store
}

// Update merges freshly decomposed descriptors into the database. The
// caller extracts descriptors for ALL modules first (extraction needs no
// name resolution); Update then runs two passes of its own: a merge pass
// inserting entries for unknown identifiers, and a refresh pass attaching
// fresh argument snapshots to every descriptor's entry — newly inserted
// ones included — so generated-name resolution never depends on insertion
// order within a pass.
func (db *Database) Update(descriptors []*hdr.Descriptor) {
	for _, d := range descriptors {
		if _, ok := db.funcs[d.CName]; ok {
			continue
		}
		db.funcs[d.CName] = &store.Function{
			CName:         d.CName,
			CanonicalName: hdr.CanonicalName(d.CName),
			GoName:        hdr.GeneratedName(d.CName),
		}
	}

	for _, d := range descriptors {
		f := db.funcs[d.CName]
		args := make([]store.Arg, len(d.Args))
		for i, a := range d.Args {
			args[i] = store.Arg{Ordinal: i, Name: a.Name, Type: a.Type}
		}
		f.Args = args
	}
}

// Sync writes the in-memory state back in one transaction, iterating keys
// in sorted order for reproducible output. New keys are inserted; existing
// rows keep their curated fields untouched; argument snapshots are
// rewritten unconditionally for every entry touched this run.
func (db *Database) Sync() error {
	tx, err := db.store.DB().Begin()
	if err != nil {
		return fmt.Errorf("sync: begin: %w", err)
	}
	defer tx.Rollback()

	for _, cname := range db.sortedNames() {
		f := db.funcs[cname]
		if f.ID == 0 {
			if err := store.InsertFunctionTx(tx, f); err != nil {
				return fmt.Errorf("sync %s: %w", cname, err)
			}
		}
		if err := store.ReplaceArgs(tx, f.ID, f.Args); err != nil {
			return fmt.Errorf("sync %s: %w", cname, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sync: commit: %w", err)
	}
	return nil
}

// Lookup returns the entry for a native identifier, or nil if unknown.
func (db *Database) Lookup(cname string) *store.Function {
	return db.funcs[cname]
}

// FunctionByCName adapts Lookup to the test-literal extractor's interface.
func (db *Database) FunctionByCName(cname string) (*store.Function, error) {
	return db.funcs[cname], nil
}

// GoName resolves the generated name for a native identifier against the
// database, honoring curated overrides. Unknown identifiers fall back to
// the derived name.
func (db *Database) GoName(cname string) string {
	if f := db.funcs[cname]; f != nil {
		return f.GoName
	}
	return hdr.GeneratedName(cname)
}

// Len reports the number of known native identifiers.
func (db *Database) Len() int {
	return len(db.funcs)
}

func (db *Database) sortedNames() []string {
	names := make([]string, 0, len(db.funcs))
	for cname := range db.funcs {
		names = append(names, cname)
	}
	sort.Strings(names)
	return names
}

// Curation operations, used by the CLI and by Risor curation scripts.
// They write through to the store immediately: curation is its own
// pipeline entry and operates on persisted entries only.

// Exclude marks a function as curated-out of generation.
func (db *Database) Exclude(cname string) error {
	f := db.funcs[cname]
	if f == nil || f.ID == 0 {
		return fmt.Errorf("exclude: unknown function %q", cname)
	}
	if err := db.store.SetExcluded(cname, true); err != nil {
		return err
	}
	f.Excluded = true
	return nil
}

// Rename overrides the generated name for a function.
func (db *Database) Rename(cname, goName string) error {
	f := db.funcs[cname]
	if f == nil || f.ID == 0 {
		return fmt.Errorf("rename: unknown function %q", cname)
	}
	if err := db.store.SetGoName(cname, goName); err != nil {
		return err
	}
	f.GoName = goName
	return nil
}

// Functions lists every known native identifier in sorted order.
func (db *Database) Functions() []string {
	return db.sortedNames()
}
