package pyast

import (
	"fmt"
	"io"
	"strings"
)

// Print renders an indented text dump of the tree rooted at n. It is
// the package-level entry point used by the driver; WriteTo is its
// method form.
func Print(n *Node, w io.Writer) error {
	return n.WriteTo(w)
}

// WriteTo renders an indented text dump of the tree rooted at n: two
// spaces per depth level, each line prefixed with "|- ". Ported from
// original_source's printParseTree.
func (n *Node) WriteTo(w io.Writer) error {
	return n.writeDepth(w, 0)
}

func (n *Node) writeDepth(w io.Writer, depth int) error {
	if n == nil {
		return nil
	}
	prefix := strings.Repeat("  ", depth)
	if _, err := fmt.Fprintf(w, "%s|- %s\n", prefix, n.Label); err != nil {
		return err
	}
	for _, child := range n.Children {
		if err := child.writeDepth(w, depth+1); err != nil {
			return err
		}
	}
	return nil
}
