package graph

import "fmt"

// NodeHandle identifies a node inside one Graph. The zero value is invalid.
// A handle is invalidated when its node is removed; a reused arena slot gets
// a new generation so stale handles never alias a new node.
type NodeHandle struct {
	index int
	gen   uint32
}

// IsZero reports whether h is the zero handle.
func (h NodeHandle) IsZero() bool {
	return h.gen == 0
}

// Index returns the arena slot of the node.
func (h NodeHandle) Index() int {
	return h.index
}

// String renders the handle for transcripts.
func (h NodeHandle) String() string {
	if h.IsZero() {
		return "node(none)"
	}
	return fmt.Sprintf("node(%d#%d)", h.index, h.gen)
}
