package svg

import (
	"fmt"
	"slices"
	"strings"

	"github.com/OpenTraceLab/svgzpd/pkg/affine"
)

// Attr is one attribute of an element. Space holds the namespace URI as
// reported by encoding/xml, or "xmlns" for namespace declarations.
type Attr struct {
	Space string
	Name  string
	Value string
}

// Node is an element of an SVG document. Character data is kept in
// document order: Text precedes the first child and each child's Tail
// follows that child, so <text>a<tspan>b</tspan>c</text> is Text "a" with a
// tspan child whose Tail is "c". The tail moves with its element.
type Node struct {
	Space    string // namespace URI as reported by encoding/xml
	Name     string
	Attrs    []Attr
	Text     string
	Tail     string
	Children []*Node
	Parent   *Node
}

// NewNode creates a detached element.
func NewNode(name string, attrs ...Attr) *Node {
	return &Node{Name: name, Attrs: attrs}
}

// Attr returns the value of the named attribute, or "".
func (n *Node) Attr(name string) string {
	v, _ := n.LookupAttr(name)
	return v
}

// LookupAttr returns the value of the named attribute and whether it is set.
func (n *Node) LookupAttr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name && a.Space != "xmlns" {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets an attribute, replacing any existing value.
func (n *Node) SetAttr(name, value string) *Node {
	for i, a := range n.Attrs {
		if a.Name == name && a.Space != "xmlns" {
			n.Attrs[i].Value = value
			return n
		}
	}
	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
	return n
}

// RemoveAttr deletes an attribute if present.
func (n *Node) RemoveAttr(name string) {
	n.Attrs = slices.DeleteFunc(n.Attrs, func(a Attr) bool {
		return a.Name == name && a.Space != "xmlns"
	})
}

// ID returns the id attribute.
func (n *Node) ID() string {
	return n.Attr("id")
}

// HasClass reports whether class is one of the element's classes.
func (n *Node) HasClass(class string) bool {
	return slices.Contains(strings.Fields(n.Attr("class")), class)
}

// AddClass appends class to the class attribute unless already present.
func (n *Node) AddClass(class string) *Node {
	if n.HasClass(class) {
		return n
	}
	classes := strings.Fields(n.Attr("class"))
	return n.SetAttr("class", strings.Join(append(classes, class), " "))
}

// AppendChild moves child to the end of n's children.
func (n *Node) AppendChild(child *Node) {
	child.Remove()
	child.Parent = n
	n.Children = append(n.Children, child)
}

// InsertBefore moves child in front of ref, which must be a child of n.
func (n *Node) InsertBefore(child, ref *Node) error {
	if child == ref {
		return nil
	}
	child.Remove()
	i := slices.Index(n.Children, ref)
	if i < 0 {
		return fmt.Errorf("svg: <%s> is not a child of <%s>", ref.Name, n.Name)
	}
	child.Parent = n
	n.Children = slices.Insert(n.Children, i, child)
	return nil
}

// RemoveChild detaches child from n.
func (n *Node) RemoveChild(child *Node) {
	i := slices.Index(n.Children, child)
	if i < 0 {
		return
	}
	n.Children = slices.Delete(n.Children, i, i+1)
	child.Parent = nil
}

// Remove detaches n from its parent.
func (n *Node) Remove() {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// Contains reports whether other is n or one of its descendants.
func (n *Node) Contains(other *Node) bool {
	for p := other; p != nil; p = p.Parent {
		if p == n {
			return true
		}
	}
	return false
}

// Walk visits n and its descendants depth first. Returning false from fn
// skips the children of that node.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range slices.Clone(n.Children) {
		c.Walk(fn)
	}
}

// ElementByID returns the first descendant with the given id.
func (n *Node) ElementByID(id string) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if c.ID() == id {
			found = c
			return false
		}
		return true
	})
	return found
}

// FindByClass returns every descendant carrying class, in document order.
func (n *Node) FindByClass(class string) []*Node {
	var nodes []*Node
	n.Walk(func(c *Node) bool {
		if c.HasClass(class) {
			nodes = append(nodes, c)
		}
		return true
	})
	return nodes
}

// Transform parses the transform attribute. A missing attribute is the
// identity.
func (n *Node) Transform() (affine.Matrix, error) {
	s, ok := n.LookupAttr("transform")
	if !ok {
		return affine.Identity(), nil
	}
	m, err := affine.ParseTransform(s)
	if err != nil {
		return affine.Identity(), fmt.Errorf("<%s id=%q>: %w", n.Name, n.ID(), err)
	}
	return m, nil
}

// SetTransform writes m as matrix(a,b,c,d,e,f) and returns the string.
func (n *Node) SetTransform(m affine.Matrix) string {
	s := m.String()
	n.SetAttr("transform", s)
	return s
}

// MatrixTo returns the transform from n's user space to ancestor's user
// space, including n's own transform but not ancestor's. A nil ancestor
// walks to the document root.
func (n *Node) MatrixTo(ancestor *Node) (affine.Matrix, error) {
	m := affine.Identity()
	p := n
	for ; p != nil && p != ancestor; p = p.Parent {
		if p.Parent == nil && ancestor == nil {
			// the root <svg> contributes its viewport, not a transform
			break
		}
		t, err := p.Transform()
		if err != nil {
			return affine.Identity(), err
		}
		m = t.Multiply(m)
	}
	if ancestor != nil && p != ancestor {
		return affine.Identity(), fmt.Errorf("svg: <%s> is not an ancestor of <%s>", ancestor.Name, n.Name)
	}
	return m, nil
}
