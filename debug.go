package exptree

import (
	"fmt"
	"strings"
)

// DebugString renders the tree as an indented text dump, one node per
// line. It exists purely for debugging and for the idempotence check in
// tree_test.go; nothing on the Get/Put hot path calls it.
func (t *Tree[K, V]) DebugString() string {
	var b strings.Builder
	if t.root == nil {
		return "(empty)\n"
	}
	writeNode(&b, t.root, 0)
	return b.String()
}

func writeNode[K Ordered, V any](b *strings.Builder, n *node[K, V], depth int) {
	indent := strings.Repeat("  ", depth)
	if n.isLeaf() {
		fmt.Fprintf(b, "%sleaf len=%d min=%v %v\n", indent, len(n.entries), n.min(), n.entries)
		return
	}
	fmt.Fprintf(b, "%sinternal height=%d len=%d min=%v keys=%v\n", indent, n.height, len(n.children), n.min(), n.keys)
	for _, child := range n.children {
		writeNode(b, child, depth+1)
	}
}
