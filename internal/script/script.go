// Package script runs user-supplied Risor curation scripts against the
// function database. Curation scripts are the programmable successor to a
// hand-maintained name map: they see every known native identifier and
// may exclude functions from generation or override generated names
// before the database syncs.
package script

import (
	"context"
	"fmt"
	"os"

	"github.com/risor-io/risor"
)

// Curator is the database surface exposed to curation scripts.
type Curator interface {
	Functions() []string
	Exclude(cname string) error
	Rename(cname, goName string) error
}

// RunFile loads and executes a curation script from disk.
func RunFile(ctx context.Context, path string, cur Curator) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("script: loading %s: %w", path, err)
	}
	return Run(ctx, string(src), path, cur)
}

// Run executes curation script source with the curation globals. Useful
// for testing without script files.
func Run(ctx context.Context, source, label string, cur Curator) error {
	var opts []risor.Option
	for name, val := range buildGlobals(cur) {
		opts = append(opts, risor.WithGlobal(name, val))
	}
	if _, err := risor.Eval(ctx, source, opts...); err != nil {
		return fmt.Errorf("script: %s: %w", label, err)
	}
	return nil
}

// buildGlobals constructs the globals exposed to curation scripts.
func buildGlobals(cur Curator) map[string]any {
	return map[string]any{
		"functions": makeFunctionsFn(cur),
		"exclude":   makeExcludeFn(cur),
		"rename":    makeRenameFn(cur),
		"log":       mustProxy(&logObject{prefix: "gslgen"}),
	}
}

// logObject provides log.info/warn/error methods for curation scripts.
type logObject struct {
	prefix string
}

func (l *logObject) Info(msg string) {
	fmt.Printf("[%s] INFO: %s\n", l.prefix, msg)
}

func (l *logObject) Warn(msg string) {
	fmt.Printf("[%s] WARN: %s\n", l.prefix, msg)
}

func (l *logObject) Error(msg string) {
	fmt.Printf("[%s] ERROR: %s\n", l.prefix, msg)
}
