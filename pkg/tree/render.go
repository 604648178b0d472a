package tree

import (
	"github.com/disiqueira/gotree/v3"
)

// Render draws the hierarchy below root as indented box-drawing text.
// Directories are suffixed with a slash; files without a document are marked.
func Render(root *Node) string {
	t := gotree.New(label(root))
	addChildren(t, root)
	return t.Print()
}

func addChildren(parent gotree.Tree, n *Node) {
	for _, child := range n.Children {
		branch := parent.Add(label(child))
		if child.IsDir() {
			addChildren(branch, child)
		}
	}
}

func label(n *Node) string {
	switch {
	case n.IsDir():
		return n.Name + "/"
	case n.DocumentID == "":
		return n.Name + " (unsupported)"
	default:
		return n.Name
	}
}
