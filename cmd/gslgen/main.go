package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jward/gslgen"
	"github.com/spf13/cobra"
)

var (
	flagDB      string
	flagGSLDir  string
	flagOut     string
	flagManual  string
	flagPackage string
	flagVerbose bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "gslgen",
	Short:         "Generate cgo bindings for GSL special functions",
	Long:          "gslgen scans GSL headers, maintains a persistent function database, and emits Go binding sources with documentation and conformance tests spliced in.",
	SilenceErrors: true,
	SilenceUsage:  true,
	// No Run — prints help by default.
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "gslgen.db", "function database path")
	rootCmd.PersistentFlags().StringVar(&flagGSLDir, "gsl-dir", "gsl", "GSL source tree root")
	rootCmd.PersistentFlags().StringVar(&flagOut, "out", "sf", "output directory for emitted sources")
	rootCmd.PersistentFlags().StringVar(&flagManual, "manual", "specfunc.html", "reference manual HTML file")
	rootCmd.PersistentFlags().StringVar(&flagPackage, "package", "sf", "package name of emitted sources")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose logging")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(curateCmd)
	rootCmd.AddCommand(dbCmd)
}

// newLogger builds the CLI logger: human-readable, stderr only.
func newLogger() (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	if !flagVerbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}

// openGenerator opens the existing database and wraps it with the
// flag-configured pipeline state.
func openGenerator() (*gslgen.Generator, error) {
	db, err := gslgen.OpenDatabase(flagDB)
	if err != nil {
		return nil, err
	}
	log, err := newLogger()
	if err != nil {
		db.Close()
		return nil, err
	}
	g, err := gslgen.NewGenerator(db,
		gslgen.WithLogger(log),
		gslgen.WithGSLDir(flagGSLDir),
		gslgen.WithOutDir(flagOut),
		gslgen.WithManualPath(flagManual),
		gslgen.WithPackageName(flagPackage),
	)
	if err != nil {
		db.Close()
		return nil, err
	}
	return g, nil
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the function database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := gslgen.CreateDatabase(flagDB)
		if err != nil {
			return err
		}
		defer db.Close()
		fmt.Fprintf(os.Stderr, "Created database: %s\n", flagDB)
		return nil
	},
}

var flagModules string

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run the full generation pipeline",
	Long:  "Scans module headers, merges the function database, emits binding sources, injects manual documentation and conformance tests, and syncs the database.",
	Args:  cobra.NoArgs,
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&flagModules, "modules", "", "comma-separated module filter (default: all)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	start := time.Now()

	g, err := openGenerator()
	if err != nil {
		return err
	}
	defer g.Close()

	modules := gslgen.ModulesByName(splitList(flagModules))
	if err := g.Run(cmd.Context(), modules); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Generated %d modules (%d functions) in %s\n",
		len(modules), g.Database().Len(), time.Since(start).Round(time.Millisecond))
	return nil
}

var flagScript string

var curateCmd = &cobra.Command{
	Use:   "curate",
	Short: "Run a Risor curation script against the database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagScript == "" {
			return fmt.Errorf("curate: --script is required")
		}
		g, err := openGenerator()
		if err != nil {
			return err
		}
		defer g.Close()
		return g.Curate(cmd.Context(), flagScript)
	},
}

func init() {
	curateCmd.Flags().StringVar(&flagScript, "script", "", "curation script path")
}

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Inspect and curate the function database",
}

func init() {
	dbCmd.AddCommand(dbListCmd)
	dbCmd.AddCommand(dbStatusCmd)
	dbCmd.AddCommand(dbExcludeCmd)
	dbCmd.AddCommand(dbRenameCmd)
}

var dbStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database freshness against the current headers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := gslgen.OpenDatabase(flagDB)
		if err != nil {
			return err
		}
		defer db.Close()

		excluded := 0
		for _, cname := range db.Functions() {
			if db.Lookup(cname).Excluded {
				excluded++
			}
		}
		fmt.Printf("functions: %d (%d excluded)\n", db.Len(), excluded)

		lastSync, err := db.Store().GetMetadata("last_sync")
		if err != nil {
			return err
		}
		if lastSync == "" {
			lastSync = "never"
		}
		fmt.Printf("last sync: %s\n", lastSync)

		stored, err := db.Store().GetMetadata("headers_sha256")
		if err != nil {
			return err
		}
		current, err := gslgen.HashHeaders(flagGSLDir, gslgen.ModulesByName(nil))
		if err != nil {
			fmt.Printf("headers:   unavailable (%v)\n", err)
			return nil
		}
		switch {
		case stored == "":
			fmt.Println("headers:   never scanned")
		case stored == current:
			fmt.Println("headers:   fresh")
		default:
			fmt.Println("headers:   stale (rerun generate)")
		}
		return nil
	},
}

var dbListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known functions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := gslgen.OpenDatabase(flagDB)
		if err != nil {
			return err
		}
		defer db.Close()
		for _, cname := range db.Functions() {
			f := db.Lookup(cname)
			line := fmt.Sprintf("%s\t%s", f.CName, f.GoName)
			if f.Excluded {
				line += "\t(excluded)"
			}
			fmt.Println(line)
		}
		return nil
	},
}

var dbExcludeCmd = &cobra.Command{
	Use:   "exclude <c-name>",
	Short: "Curate a function out of generation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := gslgen.OpenDatabase(flagDB)
		if err != nil {
			return err
		}
		defer db.Close()
		return db.Exclude(args[0])
	},
}

var dbRenameCmd = &cobra.Command{
	Use:   "rename <c-name> <go-name>",
	Short: "Override a function's generated name",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := gslgen.OpenDatabase(flagDB)
		if err != nil {
			return err
		}
		defer db.Close()
		return db.Rename(args[0], args[1])
	},
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
