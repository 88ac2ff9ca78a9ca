package ast

// Node is implemented by every expression and statement.
type Node interface {
	NodeKind() string
	Offset() int
}

// OffsetOf returns the source offset of n, or -1 for a nil node.
func OffsetOf(n Node) int {
	if n == nil {
		return -1
	}
	return n.Offset()
}
