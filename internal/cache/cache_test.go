package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSpans() Spans {
	s := make(Spans)
	s.Merge("chr12", "FRUGAL", 20000000, 25000000)
	s.Merge("chr12", "FRUGAL", 24000000, 30000000)
	s.Merge("chr12", "THRIFTY", 40000000, 41000000)
	s.Merge("chr5", "CRUCIAL", 70000000, 80000000)
	s.Merge("chr8", "REDUNDANT", 20000000, 30000000)
	return s
}

func TestSpans_Merge(t *testing.T) {
	s := make(Spans)
	s.Merge("chr1", "A", 500, 600)
	s.Merge("chr1", "A", 100, 200)
	s.Merge("chr1", "A", 150, 550)

	require.Len(t, s["chr1"], 1)
	assert.Equal(t, &GeneSpan{Name: "A", Start: 100, Stop: 600}, s["chr1"]["A"])
}

func TestNewIndex(t *testing.T) {
	idx := NewIndex(testSpans())

	assert.Equal(t, []string{"chr12", "chr5", "chr8"}, idx.Chromosomes())
	assert.Equal(t, 4, idx.GeneCount())
	require.NotNil(t, idx.Tree("chr12"))
	assert.Equal(t, 2, idx.Tree("chr12").Len())
	assert.Nil(t, idx.Tree("chrY"))
}

func TestIndex_FindGene(t *testing.T) {
	idx := NewIndex(testSpans())

	tests := []struct {
		chrom string
		pos   int64
		want  string
	}{
		{"chr12", 20000000, "FRUGAL"},
		{"chr12", 30000000, "FRUGAL"},
		{"chr12", 35000000, ""},
		{"chr12", 40500000, "THRIFTY"},
		{"chr5", 75000000, "CRUCIAL"},
		{"chr8", 19999999, ""},
		{"chrY", 25000000, ""},
		{"12", 25000000, ""},
	}

	for _, tt := range tests {
		g := idx.FindGene(tt.chrom, tt.pos)
		if tt.want == "" {
			assert.Nil(t, g, "%s:%d", tt.chrom, tt.pos)
			continue
		}
		require.NotNil(t, g, "%s:%d", tt.chrom, tt.pos)
		assert.Equal(t, tt.want, g.Name)
	}
}

func TestIndex_Empty(t *testing.T) {
	idx := NewIndex(nil)
	assert.Empty(t, idx.Chromosomes())
	assert.Equal(t, 0, idx.GeneCount())
	assert.Nil(t, idx.FindGene("chr1", 1))
}

func TestGeneSpan(t *testing.T) {
	g := &GeneSpan{Name: "KRAS", Start: 100, Stop: 199}
	assert.True(t, g.Contains(100))
	assert.True(t, g.Contains(199))
	assert.False(t, g.Contains(99))
	assert.False(t, g.Contains(200))
	assert.Equal(t, int64(100), g.Length())
	assert.Equal(t, "KRAS:100-199", g.String())

	g.Extend(50, 150)
	assert.Equal(t, int64(50), g.Start)
	assert.Equal(t, int64(199), g.Stop)
}
