// Package xviz renders read-only views of a red-black tree for debugging.
// It consumes only the tree's public walk surface (Foreach and the RBNode
// accessors) and never mutates the structure it visits.
package xviz

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/list"
	"github.com/samber/lo"

	"github.com/benz9527/xtree/lib/tree"
)

var redSprint = color.New(color.FgRed).SprintFunc()

func nodeLabel[K any, V any](c tree.RBColor, key K, val V) string {
	txt := fmt.Sprintf("%v=%v (%s)", key, val, colorTag(c))
	if c == tree.Red {
		return redSprint(txt)
	}
	return txt
}

func colorTag(c tree.RBColor) string {
	if c == tree.Red {
		return "R"
	}
	return "B"
}

// Fprint writes the in-order listing of the tree, one node per line, red
// nodes painted red on capable terminals.
func Fprint[K any, V any](w io.Writer, t tree.RBTree[K, V]) error {
	var err error
	t.Foreach(func(idx int64, c tree.RBColor, key K, val V) bool {
		_, err = fmt.Fprintf(w, "#%d %s\n", idx, nodeLabel(c, key, val))
		return err == nil
	})
	return err
}

// FprintLevels writes a breadth-first rendering of the tree, one indented
// block per depth level, the root level first.
func FprintLevels[K any, V any](w io.Writer, t tree.RBTree[K, V]) error {
	root := t.Root()
	if root == nil || !root.HasKeyVal() {
		_, err := io.WriteString(w, "(empty rbtree)\n")
		return err
	}

	levels := make([][]tree.RBNode[K, V], 0, 8)
	queue := make([]tree.RBNode[K, V], 0, t.Len()>>1+1)
	queue = append(queue, root)
	for len(queue) > 0 {
		levels = append(levels, queue)
		next := make([]tree.RBNode[K, V], 0, len(queue)<<1)
		for _, n := range queue {
			if l := n.Left(); l != nil {
				next = append(next, l)
			}
			if r := n.Right(); r != nil {
				next = append(next, r)
			}
		}
		queue = next
	}

	lw := list.NewWriter()
	lw.SetStyle(list.StyleConnectedLight)
	for depth, nodes := range levels {
		lw.AppendItem(fmt.Sprintf("L%d", depth))
		lw.Indent()
		lw.AppendItems(lo.Map(nodes, func(n tree.RBNode[K, V], _ int) any {
			return nodeLabel(n.Color(), n.Key(), n.Val())
		}))
		lw.UnIndent()
	}
	_, err := io.WriteString(w, lw.Render()+"\n")
	return err
}
