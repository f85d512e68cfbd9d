package svg

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/OpenTraceLab/svgzpd/pkg/affine"
	"golang.org/x/net/html/charset"
)

// ErrNotSVG is returned when the document root is not an <svg> element.
var ErrNotSVG = errors.New("svg: root element is not <svg>")

// Document is an SVG drawing surface: the root <svg> element plus where it
// sits on screen.
type Document struct {
	Root *Node

	// ScreenX and ScreenY locate the top-left corner of the viewport in
	// client (screen) pixels.
	ScreenX, ScreenY float64

	// ViewportWidth and ViewportHeight are used when the root element has no
	// usable width or height attribute, e.g. when a host sizes it to a window.
	ViewportWidth, ViewportHeight float64

	// namespace URI -> prefix, collected from xmlns declarations
	prefixes  map[string]string
	defaultNS string
}

const xmlNamespace = "http://www.w3.org/XML/1998/namespace"

// whitespace-only character data is kept inside these elements
var textContent = map[string]bool{"text": true, "tspan": true, "textPath": true}

// New creates an empty document with an <svg> root of the given size.
func New(width, height float64) *Document {
	root := NewNode("svg",
		Attr{Space: "", Name: "xmlns", Value: "http://www.w3.org/2000/svg"},
		Attr{Name: "width", Value: formatLength(width)},
		Attr{Name: "height", Value: formatLength(height)},
	)
	return &Document{Root: root, prefixes: map[string]string{}}
}

// Parse reads an SVG document from r. Non UTF-8 encodings declared in the
// XML header are decoded.
func Parse(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	doc := &Document{prefixes: map[string]string{}}
	var stack []*Node

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("svg: parse error: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Space: t.Name.Space, Name: t.Name.Local}
			for _, a := range t.Attr {
				n.Attrs = append(n.Attrs, Attr{Space: a.Name.Space, Name: a.Name.Local, Value: a.Value})
				switch {
				case a.Name.Space == "xmlns":
					doc.prefixes[a.Value] = a.Name.Local
				case a.Name.Space == "" && a.Name.Local == "xmlns" && len(stack) == 0:
					doc.defaultNS = a.Value
				}
			}
			if len(stack) == 0 {
				if doc.Root != nil {
					return nil, fmt.Errorf("svg: multiple root elements")
				}
				doc.Root = n
			} else {
				stack[len(stack)-1].AppendChild(n)
			}
			stack = append(stack, n)

		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}

		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			parent := stack[len(stack)-1]
			if strings.TrimSpace(string(t)) == "" && !textContent[parent.Name] {
				continue
			}
			if k := len(parent.Children); k > 0 {
				parent.Children[k-1].Tail += string(t)
			} else {
				parent.Text += string(t)
			}
		}
	}

	if doc.Root == nil || doc.Root.Name != "svg" {
		return nil, ErrNotSVG
	}
	return doc, nil
}

// ParseString reads an SVG document from a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// ParseFile reads an SVG document from a file path.
func ParseFile(filename string) (*Document, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Parse(bufio.NewReader(file))
}

// ElementByID searches the whole document.
func (d *Document) ElementByID(id string) *Node {
	return d.Root.ElementByID(id)
}

// ScreenCTM maps the root's user space to screen pixels.
func (d *Document) ScreenCTM() affine.Matrix {
	return d.ViewportMatrix().Offset(d.ScreenX, d.ScreenY)
}

// WriteTo serializes the document as XML.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	d.writeNode(&buf, d.Root, 0, false)
	buf.WriteByte('\n')
	return buf.WriteTo(w)
}

// String returns the serialized document.
func (d *Document) String() string {
	var sb strings.Builder
	d.WriteTo(&sb)
	return sb.String()
}

func (d *Document) writeNode(buf *bytes.Buffer, n *Node, depth int, inline bool) {
	indent := strings.Repeat("  ", depth)
	if !inline {
		buf.WriteString(indent)
	}
	name := d.qualify(n.Space, n.Name)
	buf.WriteByte('<')
	buf.WriteString(name)
	for _, a := range n.Attrs {
		buf.WriteByte(' ')
		buf.WriteString(d.qualify(a.Space, a.Name))
		buf.WriteString(`="`)
		xml.EscapeText(buf, []byte(a.Value))
		buf.WriteByte('"')
	}

	if len(n.Children) == 0 && n.Text == "" {
		buf.WriteString("/>")
		return
	}
	buf.WriteByte('>')

	// mixed content is written as is; indenting it would change the text
	if inline || n.mixed() {
		xml.EscapeText(buf, []byte(n.Text))
		for _, c := range n.Children {
			d.writeNode(buf, c, depth+1, true)
			xml.EscapeText(buf, []byte(c.Tail))
		}
	} else {
		for _, c := range n.Children {
			buf.WriteByte('\n')
			d.writeNode(buf, c, depth+1, false)
		}
		buf.WriteByte('\n')
		buf.WriteString(indent)
	}
	buf.WriteString("</")
	buf.WriteString(name)
	buf.WriteByte('>')
}

func (n *Node) mixed() bool {
	if n.Text != "" {
		return true
	}
	for _, c := range n.Children {
		if c.Tail != "" {
			return true
		}
	}
	return false
}

// qualify turns a namespace URI and local name back into the prefixed name
// the source used.
func (d *Document) qualify(space, local string) string {
	switch space {
	case "", d.defaultNS:
		return local
	case "xmlns":
		return "xmlns:" + local
	case xmlNamespace:
		return "xml:" + local
	}
	if p, ok := d.prefixes[space]; ok {
		return p + ":" + local
	}
	// encoding/xml leaves an undeclared prefix in place of the URI
	if !strings.ContainsAny(space, ":/") {
		return space + ":" + local
	}
	return local
}
