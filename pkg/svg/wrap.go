package svg

import "errors"

// ErrNotWrapped is returned by Unwrap for a detached group.
var ErrNotWrapped = errors.New("svg: group has no parent")

// ContentGroup returns the direct child of root carrying class, if any.
func ContentGroup(root *Node, class string) *Node {
	for _, c := range root.Children {
		if c.Name == "g" && c.HasClass(class) {
			return c
		}
	}
	return nil
}

// WrapChildren moves every child of root into a <g class=class> appended to
// root and returns it. When root already holds such a group it is returned
// untouched and created is false.
func WrapChildren(root *Node, class string) (group *Node, created bool) {
	if g := ContentGroup(root, class); g != nil {
		return g, false
	}

	group = NewNode("g", Attr{Name: "class", Value: class})
	children := root.Children
	root.Children = nil
	for _, c := range children {
		c.Parent = nil
		group.AppendChild(c)
	}
	root.AppendChild(group)
	return group, true
}

// Unwrap moves the group's children back to the group's parent, at the
// group's position and in order, then removes the group.
func Unwrap(group *Node) error {
	parent := group.Parent
	if parent == nil {
		return ErrNotWrapped
	}
	for _, c := range append([]*Node(nil), group.Children...) {
		if err := parent.InsertBefore(c, group); err != nil {
			return err
		}
	}
	group.Remove()
	return nil
}
