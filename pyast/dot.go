package pyast

import (
	"fmt"
	"io"
	"strings"
)

// WriteDOT renders n's tree as a DOT graph description: a rooted
// directed-edge listing with quoted, escaped node labels, consumable by
// a standard DOT-format viewer. There is no teacher file that
// implements a DOT exporter (none of the Python front-end packages
// need a graph-visualization surface), so this is ported directly from
// original_source's exportToDot/saveTreeToDot, walked in the same
// node-then-children order as pyast.Node.WriteTo. WriteDOT is the
// package-level entry point used by the driver; the method below does
// the actual rendering.
func WriteDOT(n *Node, w io.Writer) error {
	return n.WriteDOT(w)
}

func (n *Node) WriteDOT(w io.Writer) error {
	if _, err := io.WriteString(w, "digraph ParseTree {\n    node [shape=box];\n"); err != nil {
		return err
	}
	id := 0
	if err := n.writeDOTNode(w, &id, -1); err != nil {
		return err
	}
	_, err := io.WriteString(w, "}\n")
	return err
}

func (n *Node) writeDOTNode(w io.Writer, nextID *int, parentID int) error {
	if n == nil {
		return nil
	}
	currentID := *nextID
	*nextID++

	if _, err := fmt.Fprintf(w, "    node%d [label=\"%s\"];\n", currentID, escapeLabel(n.Label)); err != nil {
		return err
	}
	if parentID != -1 {
		if _, err := fmt.Fprintf(w, "    node%d -> node%d;\n", parentID, currentID); err != nil {
			return err
		}
	}
	for _, child := range n.Children {
		if err := child.writeDOTNode(w, nextID, currentID); err != nil {
			return err
		}
	}
	return nil
}

func escapeLabel(label string) string {
	return strings.ReplaceAll(label, `"`, `\"`)
}
