package cache

import (
	"sort"
	"strings"
)

// GeneNode is a node of a GeneTree. Children are owned by the node.
type GeneNode struct {
	Span  *GeneSpan
	Left  *GeneNode
	Right *GeneNode
}

// GeneTree is a binary search tree of gene spans keyed by start position.
// Lookups are point-in-span containment queries; spans on one chromosome are
// assumed not to overlap.
type GeneTree struct {
	root  *GeneNode
	count int
}

// BuildGeneTree creates a balanced tree from spans sorted ascending by start.
// The median of each index range is inserted before its halves, left half
// first, which yields a height-balanced tree for sorted input.
func BuildGeneTree(sorted []*GeneSpan) *GeneTree {
	t := &GeneTree{}
	if len(sorted) == 0 {
		return t
	}
	t.addMiddle(sorted, 0, len(sorted)-1)
	return t
}

func (t *GeneTree) addMiddle(spans []*GeneSpan, first, last int) {
	mid := (first + last) / 2
	t.Add(spans[mid])

	if first != mid {
		t.addMiddle(spans, first, mid-1)
	}
	if mid != last {
		t.addMiddle(spans, mid+1, last)
	}
}

// SortSpans sorts spans ascending by start. Equal starts are ordered by name
// so that builds do not depend on map iteration order.
func SortSpans(spans []*GeneSpan) {
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].Start != spans[j].Start {
			return spans[i].Start < spans[j].Start
		}
		return strings.Compare(spans[i].Name, spans[j].Name) < 0
	})
}

// Add inserts a span using plain BST insertion: strictly smaller starts go
// left, everything else goes right.
func (t *GeneTree) Add(span *GeneSpan) {
	node := &GeneNode{Span: span}
	t.count++

	if t.root == nil {
		t.root = node
		return
	}

	cur := t.root
	for {
		if span.Start < cur.Span.Start {
			if cur.Left == nil {
				cur.Left = node
				return
			}
			cur = cur.Left
		} else {
			if cur.Right == nil {
				cur.Right = node
				return
			}
			cur = cur.Right
		}
	}
}

// Find returns the span containing pos, or nil if pos falls outside every
// span reachable from the root. Containment is checked before descending.
func (t *GeneTree) Find(pos int64) *GeneSpan {
	return find(t.root, pos)
}

func find(n *GeneNode, pos int64) *GeneSpan {
	switch {
	case n == nil:
		return nil
	case n.Span.Contains(pos):
		return n.Span
	case pos < n.Span.Start:
		return find(n.Left, pos)
	default:
		return find(n.Right, pos)
	}
}

// Root returns the root node, or nil for an empty tree.
func (t *GeneTree) Root() *GeneNode {
	return t.root
}

// Len returns the number of spans added to the tree.
func (t *GeneTree) Len() int {
	return t.count
}

// Height returns the number of nodes on the longest root-to-leaf path.
func (t *GeneTree) Height() int {
	return height(t.root)
}

func height(n *GeneNode) int {
	if n == nil {
		return 0
	}
	return 1 + max(height(n.Left), height(n.Right))
}

// Walk calls fn for every span in ascending start order.
func (t *GeneTree) Walk(fn func(*GeneSpan)) {
	walk(t.root, fn)
}

func walk(n *GeneNode, fn func(*GeneSpan)) {
	if n == nil {
		return
	}
	walk(n.Left, fn)
	fn(n.Span)
	walk(n.Right, fn)
}
