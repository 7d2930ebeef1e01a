package store

// Function is one persisted function database entry. CName is the unique
// native identifier key. Excluded and GoName are curated fields: once set
// they survive reruns and are never overwritten by automatic refresh. Args
// is the current argument snapshot, overwritten every run from the latest
// header decomposition.
type Function struct {
	ID            int64
	CName         string
	CanonicalName string
	GoName        string
	Excluded      bool
	Args          []Arg
}

// Arg is one argument of a function's current snapshot.
type Arg struct {
	Ordinal int
	Name    string
	Type    string
}
