package scene

import (
	"planet-render/math"
)

// Node is one node of a glTF hierarchy. Models are static: Local is fixed at
// load time and the whole model moves through its draw call's matrix.
type Node struct {
	Name     string
	Local    math.Mat4
	Parent   *Node
	Children []*Node
	Mesh     *Mesh
}

func NewNode(name string) *Node {
	return &Node{Name: name, Local: math.Mat4Identity()}
}

// Attach appends child to n. glTF guarantees a node has one parent.
func (n *Node) Attach(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// Walk visits n and its descendants depth first. fn receives each node's
// matrix relative to the root the walk started from, with parent applied
// after the node's own Local.
func (n *Node) Walk(parent math.Mat4, fn func(n *Node, world math.Mat4)) {
	world := n.Local.Mul(parent)
	fn(n, world)
	for _, c := range n.Children {
		c.Walk(world, fn)
	}
}
