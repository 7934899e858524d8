package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/genespan/internal/duckdb"
	"github.com/inodb/genespan/internal/output"
)

func (c *cli) newSpansCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spans <annotation-file>",
		Short: "Print merged gene spans",
		Long: `Print the merged span of every gene as chrom<TAB>gene<TAB>start<TAB>stop,
ordered by chromosome and start position.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := c.loadIndex(args[0])
			if err != nil {
				return err
			}

			out, closeOut, err := c.openOutput()
			if err != nil {
				return err
			}
			defer closeOut()

			if err := output.WriteSpans(out, idx); err != nil {
				return fmt.Errorf("write spans: %w", err)
			}
			return closeOut()
		},
	}
	cmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
	return cmd
}

func (c *cli) newExportCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "export --db <file.duckdb> <annotation-file>",
		Short: "Store merged gene spans in a DuckDB database",
		Example: `  genespan export --db genes.duckdb gencode.v46.annotation.gtf.gz
  duckdb genes.duckdb "SELECT * FROM gene_spans WHERE gene_name = 'KRAS'"`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				return &usageError{fmt.Errorf("--db is required")}
			}

			idx, err := c.loadIndex(args[0])
			if err != nil {
				return err
			}

			store, err := duckdb.Open(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.WriteGeneSpans(idx); err != nil {
				return err
			}

			n, err := store.GeneSpanCount()
			if err != nil {
				return err
			}
			c.logger.Info("exported gene spans", zap.String("db", dbPath), zap.Int("genes", n))
			fmt.Fprintf(c.stderr, "Exported %d gene spans from %d chromosomes to %s\n",
				n, len(idx.Chromosomes()), dbPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "Output DuckDB file path")
	return cmd
}
