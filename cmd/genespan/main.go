// Package main provides the genespan command-line tool.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/genespan/internal/annotate"
	"github.com/inodb/genespan/internal/cache"
	"github.com/inodb/genespan/internal/duckdb"
	"github.com/inodb/genespan/internal/output"
	"github.com/inodb/genespan/internal/query"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command tree and maps errors to exit codes.
func run(args []string, stdout, stderr io.Writer) int {
	cli := &cli{v: viper.New(), stdout: stdout, stderr: stderr, logger: zap.NewNop()}
	root := cli.newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	cmd, err := root.ExecuteC()
	if err == nil {
		return ExitSuccess
	}

	var uerr *usageError
	if errors.As(err, &uerr) {
		fmt.Fprintf(stderr, "Error: %v\n\n", uerr.err)
		cmd.SetOut(stderr)
		cmd.Usage()
		return ExitUsage
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)
	if errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(stderr, "Hint: Please provide a valid file\n")
	}
	return ExitError
}

// usageError marks errors caused by invalid command-line usage.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }

// exactArgs wraps cobra.ExactArgs so that arity errors exit with ExitUsage.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return &usageError{err}
		}
		return nil
	}
}

// cli holds state shared by all subcommands.
type cli struct {
	v      *viper.Viper
	stdout io.Writer
	stderr io.Writer
	logger *zap.Logger
}

func (c *cli) newRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "genespan [flags] <coordinate-file> <annotation-file>",
		Short: "Annotate genomic coordinates with the gene that contains them",
		Long: `Annotate chromosome/position pairs with gene names.

The annotation file is a GTF-like file; records of the same gene on the same
chromosome are merged into one span. Each coordinate is reported as
chrom<TAB>position<TAB>gene, or NO-ANNOTATION when no gene contains it.`,
		Example: `  genespan coordinates.txt annotation.gtf
  genespan -o annotated.tsv coordinates.txt gencode.v46.annotation.gtf.gz
  cat coordinates.txt | genespan - annotation.gtf
  genespan --duckdb results.duckdb coordinates.txt annotation.gtf`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		Args:          exactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.initConfig(cmd, cfgFile); err != nil {
				return err
			}
			logger, err := newLogger(c.v.GetString("log-level"), c.stderr)
			if err != nil {
				return &usageError{err}
			}
			c.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = c.logger.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAnnotate(args[0], args[1])
		},
	}

	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err}
	})
	cmd.SetVersionTemplate("genespan version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ~/.genespan.yaml)")
	cmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn, error")
	cmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
	cmd.Flags().Int("workers", 1, "Annotation workers (1 = sequential)")
	cmd.Flags().String("duckdb", "", "Also store gene spans and results in this DuckDB file")

	cmd.AddCommand(c.newSpansCmd())
	cmd.AddCommand(c.newExportCmd())
	cmd.AddCommand(c.newDownloadCmd())
	cmd.AddCommand(c.newConfigCmd())

	return cmd
}

// loadIndex builds the gene index from an annotation file.
func (c *cli) loadIndex(annoPath string) (*cache.Index, error) {
	loader := cache.NewGTFLoader(annoPath)
	loader.SetLogger(c.logger)

	idx, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("load annotation file: %w", err)
	}
	return idx, nil
}

// openOutput returns the configured output writer and its close function.
func (c *cli) openOutput() (io.Writer, func() error, error) {
	path := c.v.GetString("output")
	if path == "" || path == "-" {
		return c.stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}
	return f, f.Close, nil
}

func (c *cli) runAnnotate(coordPath, annoPath string) error {
	// The index must be complete before any query is answered.
	idx, err := c.loadIndex(annoPath)
	if err != nil {
		return err
	}

	parser, err := query.NewParser(coordPath)
	if err != nil {
		return err
	}
	defer parser.Close()

	out, closeOut, err := c.openOutput()
	if err != nil {
		return err
	}
	defer closeOut()

	var writer annotate.AnnotationWriter = output.NewTabWriter(out)

	if dbPath := c.v.GetString("duckdb"); dbPath != "" {
		store, err := duckdb.Open(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()

		resultWriter, err := c.startRun(store, idx, coordPath, annoPath)
		if err != nil {
			return err
		}
		writer = output.NewMultiWriter(writer, resultWriter)
	}

	ann := annotate.NewAnnotator(idx)
	ann.SetWorkers(c.v.GetInt("workers"))
	ann.SetLogger(c.logger)

	if err := ann.AnnotateAll(parser, writer); err != nil {
		return err
	}
	return closeOut()
}

// startRun exports the gene spans and registers a new run in store.
func (c *cli) startRun(store *duckdb.Store, idx *cache.Index, coordPath, annoPath string) (*duckdb.ResultWriter, error) {
	if err := store.WriteGeneSpans(idx); err != nil {
		return nil, err
	}

	coordFP, err := duckdb.StatFile(coordPath)
	if err != nil {
		return nil, fmt.Errorf("stat coordinate file: %w", err)
	}
	annoFP, err := duckdb.StatFile(annoPath)
	if err != nil {
		return nil, fmt.Errorf("stat annotation file: %w", err)
	}

	runID, err := store.StartRun(coordFP, annoFP)
	if err != nil {
		return nil, err
	}
	c.logger.Info("recording annotation run", zap.String("run_id", runID))
	return duckdb.NewResultWriter(store, runID), nil
}
