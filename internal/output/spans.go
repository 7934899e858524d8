package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/inodb/genespan/internal/cache"
)

// WriteSpans writes every merged gene span of idx as
// chrom<TAB>gene<TAB>start<TAB>stop, by chromosome then start position.
func WriteSpans(w io.Writer, idx *cache.Index) error {
	bw := bufio.NewWriter(w)
	for _, chrom := range idx.Chromosomes() {
		idx.Tree(chrom).Walk(func(g *cache.GeneSpan) {
			fmt.Fprintf(bw, "%s\t%s\t%d\t%d\n", chrom, g.Name, g.Start, g.Stop)
		})
	}
	return bw.Flush()
}
