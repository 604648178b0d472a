// Package tree holds the display hierarchy of a workspace scan.
package tree

import "encoding/json"

// NodeKind distinguishes directories from files in the display tree.
type NodeKind string

const (
	KindDirectory NodeKind = "directory"
	KindFile      NodeKind = "file"
)

// Node represents a single entry in the workspace tree. It can be a file or a directory.
type Node struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Kind       NodeKind `json:"kind"`
	Path       string   `json:"path"`
	Extension  string   `json:"extension,omitempty"`
	Children   []*Node  `json:"children"`
	DocumentID string   `json:"documentId,omitempty"`
}

// IsDir reports whether n is a directory node.
func (n *Node) IsDir() bool {
	return n.Kind == KindDirectory
}

// MarshalJSON emits children only for directories, and always as a list.
func (n *Node) MarshalJSON() ([]byte, error) {
	type alias Node
	if n.Kind != KindDirectory {
		return json.Marshal(&struct {
			*alias
			Children []*Node `json:"children,omitempty"`
		}{alias: (*alias)(n)})
	}
	children := n.Children
	if children == nil {
		children = []*Node{}
	}
	return json.Marshal(&struct {
		*alias
		Children []*Node `json:"children"`
	}{alias: (*alias)(n), Children: children})
}

// Walk visits n and its descendants in pre-order. Returning false from fn
// stops the descent into that node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// Find returns the node with the given path, or nil.
func (n *Node) Find(path string) *Node {
	var found *Node
	n.Walk(func(node *Node) bool {
		if found != nil {
			return false
		}
		if node.Path == path {
			found = node
			return false
		}
		return true
	})
	return found
}
