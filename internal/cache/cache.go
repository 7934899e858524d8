package cache

import "sort"

// Spans holds merged gene spans indexed by chromosome, then gene name.
// It is the staging structure filled by the GTF loader and consumed by NewIndex.
type Spans map[string]map[string]*GeneSpan

// Merge records [start, stop] for gene on chrom, widening any span already
// recorded for the same chromosome and gene.
func (s Spans) Merge(chrom, gene string, start, stop int64) {
	genes, ok := s[chrom]
	if !ok {
		genes = make(map[string]*GeneSpan)
		s[chrom] = genes
	}

	if g, ok := genes[gene]; ok {
		g.Extend(start, stop)
		return
	}
	genes[gene] = &GeneSpan{Name: gene, Start: start, Stop: stop}
}

// Index provides gene lookups by chromosome and position.
// It is read-only once built and safe for concurrent use.
type Index struct {
	// trees stores one balanced tree per chromosome
	trees map[string]*GeneTree
}

// NewIndex builds one balanced tree per chromosome from the merged spans.
func NewIndex(spans Spans) *Index {
	idx := &Index{trees: make(map[string]*GeneTree, len(spans))}
	for chrom, genes := range spans {
		sorted := make([]*GeneSpan, 0, len(genes))
		for _, g := range genes {
			sorted = append(sorted, g)
		}
		SortSpans(sorted)
		idx.trees[chrom] = BuildGeneTree(sorted)
	}
	return idx
}

// FindGene returns the gene span containing pos on chrom, or nil when the
// chromosome is unknown or no span contains the position.
func (idx *Index) FindGene(chrom string, pos int64) *GeneSpan {
	tree, ok := idx.trees[chrom]
	if !ok {
		return nil
	}
	return tree.Find(pos)
}

// Tree returns the tree for a chromosome, or nil if the chromosome is unknown.
func (idx *Index) Tree(chrom string) *GeneTree {
	return idx.trees[chrom]
}

// GeneCount returns the total number of gene spans in the index.
func (idx *Index) GeneCount() int {
	count := 0
	for _, tree := range idx.trees {
		count += tree.Len()
	}
	return count
}

// Chromosomes returns a sorted list of chromosomes in the index.
func (idx *Index) Chromosomes() []string {
	chroms := make([]string, 0, len(idx.trees))
	for chrom := range idx.trees {
		chroms = append(chroms, chrom)
	}
	sort.Strings(chroms)
	return chroms
}
