package cache

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fifteenGenes lists spans in the top-down order that produces a balanced
// tree when added one by one.
var fifteenGenes = []*GeneSpan{
	{Name: "OP", Start: 50, Stop: 53}, // root
	{Name: "GH", Start: 25, Stop: 28}, // left branch
	{Name: "CD", Start: 10, Stop: 13},
	{Name: "KL", Start: 40, Stop: 43},
	{Name: "AB", Start: 5, Stop: 8},
	{Name: "EF", Start: 15, Stop: 18},
	{Name: "IJ", Start: 30, Stop: 33},
	{Name: "MN", Start: 45, Stop: 48},
	{Name: "WX", Start: 75, Stop: 78}, // right branch
	{Name: "ST", Start: 65, Stop: 68},
	{Name: "ZY", Start: 90, Stop: 93},
	{Name: "QR", Start: 60, Stop: 63},
	{Name: "UV", Start: 70, Stop: 73},
	{Name: "YZ", Start: 80, Stop: 83},
	{Name: "ZZ", Start: 95, Stop: 98},
}

func spans(names ...string) []*GeneSpan {
	out := make([]*GeneSpan, len(names))
	for i, name := range names {
		start := int64(10 + 20*i)
		out[i] = &GeneSpan{Name: name, Start: start, Stop: start + 10}
	}
	return out
}

func assertFifteenBalanced(t *testing.T, tree *GeneTree) {
	t.Helper()
	root := tree.Root()
	require.NotNil(t, root)
	assert.Equal(t, "OP", root.Span.Name)

	assert.Equal(t, "GH", root.Left.Span.Name)
	assert.Equal(t, "CD", root.Left.Left.Span.Name)
	assert.Equal(t, "KL", root.Left.Right.Span.Name)
	assert.Equal(t, "AB", root.Left.Left.Left.Span.Name)
	assert.Equal(t, "EF", root.Left.Left.Right.Span.Name)
	assert.Equal(t, "IJ", root.Left.Right.Left.Span.Name)
	assert.Equal(t, "MN", root.Left.Right.Right.Span.Name)

	assert.Equal(t, "WX", root.Right.Span.Name)
	assert.Equal(t, "ST", root.Right.Left.Span.Name)
	assert.Equal(t, "ZY", root.Right.Right.Span.Name)
	assert.Equal(t, "QR", root.Right.Left.Left.Span.Name)
	assert.Equal(t, "UV", root.Right.Left.Right.Span.Name)
	assert.Equal(t, "YZ", root.Right.Right.Left.Span.Name)
	assert.Equal(t, "ZZ", root.Right.Right.Right.Span.Name)

	assert.Equal(t, 4, tree.Height())
}

func TestGeneTree_AddRoot(t *testing.T) {
	tree := &GeneTree{}
	tree.Add(&GeneSpan{Name: "XXX", Start: 150000, Stop: 200000})

	require.NotNil(t, tree.Root())
	assert.Equal(t, "XXX", tree.Root().Span.Name)
	assert.Equal(t, int64(150000), tree.Root().Span.Start)
	assert.Equal(t, int64(200000), tree.Root().Span.Stop)
	assert.Equal(t, 1, tree.Len())
}

func TestGeneTree_AddTopDownOrder(t *testing.T) {
	tree := &GeneTree{}
	for _, g := range fifteenGenes {
		tree.Add(g)
	}
	assert.Equal(t, 15, tree.Len())
	assertFifteenBalanced(t, tree)
}

func TestGeneTree_AddTiesGoRight(t *testing.T) {
	tree := &GeneTree{}
	tree.Add(&GeneSpan{Name: "A", Start: 100, Stop: 110})
	tree.Add(&GeneSpan{Name: "B", Start: 100, Stop: 105})

	assert.Nil(t, tree.Root().Left)
	require.NotNil(t, tree.Root().Right)
	assert.Equal(t, "B", tree.Root().Right.Span.Name)
}

func TestBuildGeneTree_Empty(t *testing.T) {
	tree := BuildGeneTree(nil)
	assert.Nil(t, tree.Root())
	assert.Equal(t, 0, tree.Len())
	assert.Nil(t, tree.Find(100))
}

func TestBuildGeneTree_Single(t *testing.T) {
	tree := BuildGeneTree(spans("AB"))
	assert.Equal(t, 1, tree.Len())
	assert.Equal(t, "AB", tree.Root().Span.Name)
	assert.Nil(t, tree.Root().Left)
	assert.Nil(t, tree.Root().Right)
}

func TestBuildGeneTree_Two(t *testing.T) {
	tree := BuildGeneTree(spans("AB", "CD"))
	assert.Equal(t, 2, tree.Len())
	assert.Equal(t, "AB", tree.Root().Span.Name)
	assert.Nil(t, tree.Root().Left)
	assert.Equal(t, "CD", tree.Root().Right.Span.Name)
}

func TestBuildGeneTree_Three(t *testing.T) {
	tree := BuildGeneTree([]*GeneSpan{
		{Name: "AB", Start: 10, Stop: 20},
		{Name: "CD", Start: 30, Stop: 40},
		{Name: "EF", Start: 40, Stop: 50},
	})
	assert.Equal(t, 3, tree.Len())
	assert.Equal(t, "CD", tree.Root().Span.Name)
	assert.Equal(t, "AB", tree.Root().Left.Span.Name)
	assert.Equal(t, "EF", tree.Root().Right.Span.Name)
}

func TestBuildGeneTree_Five(t *testing.T) {
	tree := BuildGeneTree(spans("AB", "CD", "EF", "GH", "IJ"))
	assert.Equal(t, 5, tree.Len())

	root := tree.Root()
	assert.Equal(t, "EF", root.Span.Name)
	assert.Equal(t, "AB", root.Left.Span.Name)
	assert.Nil(t, root.Left.Left)
	assert.Equal(t, "CD", root.Left.Right.Span.Name)
	assert.Equal(t, "GH", root.Right.Span.Name)
	assert.Nil(t, root.Right.Left)
	assert.Equal(t, "IJ", root.Right.Right.Span.Name)
}

func TestBuildGeneTree_FifteenSorted(t *testing.T) {
	sorted := make([]*GeneSpan, len(fifteenGenes))
	copy(sorted, fifteenGenes)
	SortSpans(sorted)

	tree := BuildGeneTree(sorted)
	assert.Equal(t, 15, tree.Len())
	assertFifteenBalanced(t, tree)
}

func subtreeSize(n *GeneNode) int {
	if n == nil {
		return 0
	}
	return 1 + subtreeSize(n.Left) + subtreeSize(n.Right)
}

func TestBuildGeneTree_SubtreeSizes(t *testing.T) {
	for _, n := range []int{1, 2, 3, 4, 5, 15, 16, 100, 1023} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			names := make([]string, n)
			for i := range names {
				names[i] = fmt.Sprintf("G%04d", i)
			}
			tree := BuildGeneTree(spans(names...))
			assert.Equal(t, n, tree.Len())

			// Median splits keep sibling subtrees within one node of each other.
			var check func(*GeneNode)
			check = func(node *GeneNode) {
				if node == nil {
					return
				}
				l, r := subtreeSize(node.Left), subtreeSize(node.Right)
				assert.LessOrEqual(t, r-l, 1, "node %s", node.Span.Name)
				assert.GreaterOrEqual(t, r-l, 0, "node %s", node.Span.Name)
				check(node.Left)
				check(node.Right)
			}
			check(tree.Root())

			maxHeight := 1
			for size := 1; size < n+1; size *= 2 {
				maxHeight++
			}
			assert.Less(t, tree.Height(), maxHeight)
		})
	}
}

func TestGeneTree_FindBoundaries(t *testing.T) {
	tree := BuildGeneTree([]*GeneSpan{{Name: "SUPERSTRENGTH", Start: 134196546, Stop: 134204162}})

	for _, pos := range []int64{134196546, 134204162, (134196546 + 134204162) / 2} {
		got := tree.Find(pos)
		require.NotNil(t, got, "pos=%d", pos)
		assert.Equal(t, "SUPERSTRENGTH", got.Name)
	}

	assert.Nil(t, tree.Find(134196545), "immediately before start")
	assert.Nil(t, tree.Find(134204163), "immediately after stop")
}

func TestGeneTree_FindTopDownTree(t *testing.T) {
	tree := &GeneTree{}
	for _, g := range fifteenGenes {
		tree.Add(g)
	}

	assert.Equal(t, "AB", tree.Find(5).Name, "start position")
	assert.Equal(t, "AB", tree.Find(8).Name, "stop position")
	assert.Equal(t, "AB", tree.Find(7).Name, "inside gene")
	assert.Nil(t, tree.Find(9), "between genes")
	assert.Nil(t, tree.Find(999), "beyond all genes")
	assert.Nil(t, tree.Find(0), "before all genes")
}

func TestGeneTree_FindGap(t *testing.T) {
	tree := BuildGeneTree([]*GeneSpan{
		{Name: "A", Start: 100, Stop: 200},
		{Name: "B", Start: 300, Stop: 400},
	})

	for pos := int64(201); pos < 300; pos++ {
		assert.Nil(t, tree.Find(pos), "gap pos=%d", pos)
	}
	assert.Equal(t, "A", tree.Find(200).Name)
	assert.Equal(t, "B", tree.Find(300).Name)
}

func TestGeneTree_MatchesLinearScan(t *testing.T) {
	genes := []*GeneSpan{
		{Name: "A", Start: 1000, Stop: 1999},
		{Name: "B", Start: 2500, Stop: 3000},
		{Name: "C", Start: 3001, Stop: 3001},
		{Name: "D", Start: 4000, Stop: 8000},
		{Name: "E", Start: 9000, Stop: 10000},
		{Name: "F", Start: 10500, Stop: 10700},
	}
	tree := BuildGeneTree(genes)

	for pos := int64(0); pos <= 11000; pos += 50 {
		var want string
		for _, g := range genes {
			if g.Contains(pos) {
				want = g.Name
			}
		}

		var got string
		if g := tree.Find(pos); g != nil {
			got = g.Name
		}
		assert.Equal(t, want, got, "pos=%d", pos)
	}
}

func TestGeneTree_Walk(t *testing.T) {
	tree := &GeneTree{}
	for _, g := range fifteenGenes {
		tree.Add(g)
	}

	var starts []int64
	tree.Walk(func(g *GeneSpan) { starts = append(starts, g.Start) })
	require.Len(t, starts, 15)
	assert.IsIncreasing(t, starts)
}

func TestSortSpans_TieBreakByName(t *testing.T) {
	s := []*GeneSpan{
		{Name: "Z", Start: 10, Stop: 20},
		{Name: "B", Start: 5, Stop: 6},
		{Name: "A", Start: 10, Stop: 12},
	}
	SortSpans(s)
	assert.Equal(t, "B", s[0].Name)
	assert.Equal(t, "A", s[1].Name)
	assert.Equal(t, "Z", s[2].Name)
}
