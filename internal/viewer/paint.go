package viewer

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/OpenTraceLab/svgzpd/pkg/svg"
)

var namedColors = map[string]color.NRGBA{
	"black":   {A: 255},
	"white":   {R: 255, G: 255, B: 255, A: 255},
	"red":     {R: 255, A: 255},
	"green":   {G: 128, A: 255},
	"lime":    {G: 255, A: 255},
	"blue":    {B: 255, A: 255},
	"yellow":  {R: 255, G: 255, A: 255},
	"orange":  {R: 255, G: 165, A: 255},
	"purple":  {R: 128, B: 128, A: 255},
	"gray":    {R: 128, G: 128, B: 128, A: 255},
	"grey":    {R: 128, G: 128, B: 128, A: 255},
	"silver":  {R: 192, G: 192, B: 192, A: 255},
	"navy":    {B: 128, A: 255},
	"teal":    {G: 128, B: 128, A: 255},
	"maroon":  {R: 128, A: 255},
	"olive":   {R: 128, G: 128, A: 255},
	"aqua":    {G: 255, B: 255, A: 255},
	"cyan":    {G: 255, B: 255, A: 255},
	"fuchsia": {R: 255, B: 255, A: 255},
	"magenta": {R: 255, B: 255, A: 255},
}

// paint is a resolved fill or stroke.
type paint struct {
	color   color.NRGBA
	visible bool
}

// parsePaint reads an SVG paint value. ok is false for values that should
// be inherited, including paint servers this viewer does not draw.
func parsePaint(s string) (p paint, ok bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "" || s == "inherit" || s == "currentcolor" || strings.HasPrefix(s, "url("):
		return paint{}, false
	case s == "none" || s == "transparent":
		return paint{}, true
	case strings.HasPrefix(s, "#"):
		c, ok := parseHex(s[1:])
		return paint{color: c, visible: ok}, ok
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		c, ok := parseRGB(s[4 : len(s)-1])
		return paint{color: c, visible: ok}, ok
	}
	c, ok := namedColors[s]
	return paint{color: c, visible: ok}, ok
}

func parseHex(s string) (color.NRGBA, bool) {
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return color.NRGBA{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, false
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, true
}

func parseRGB(s string) (color.NRGBA, bool) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return color.NRGBA{}, false
	}
	var ch [3]uint8
	for i, p := range parts {
		p = strings.TrimSpace(p)
		pct := strings.HasSuffix(p, "%")
		v, err := strconv.ParseFloat(strings.TrimSuffix(p, "%"), 64)
		if err != nil {
			return color.NRGBA{}, false
		}
		if pct {
			v = v * 255 / 100
		}
		ch[i] = uint8(min(max(v, 0), 255))
	}
	return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: 255}, true
}

// style is the inherited presentation state of an element.
type style struct {
	fill, stroke  paint
	strokeWidth   float64
	opacity       float64
	fillOpacity   float64
	strokeOpacity float64
}

func defaultStyle() style {
	return style{
		fill:          paint{color: color.NRGBA{A: 255}, visible: true},
		strokeWidth:   1,
		opacity:       1,
		fillOpacity:   1,
		strokeOpacity: 1,
	}
}

// property returns a presentation attribute, letting the style attribute
// override it.
func property(n *svg.Node, name string) string {
	v := n.Attr(name)
	for _, decl := range strings.Split(n.Attr("style"), ";") {
		k, val, ok := strings.Cut(decl, ":")
		if ok && strings.TrimSpace(k) == name {
			v = strings.TrimSpace(val)
		}
	}
	return v
}

func (st style) inherit(n *svg.Node) style {
	if p, ok := parsePaint(property(n, "fill")); ok {
		st.fill = p
	}
	if p, ok := parsePaint(property(n, "stroke")); ok {
		st.stroke = p
	}
	if v, err := strconv.ParseFloat(property(n, "stroke-width"), 64); err == nil && v >= 0 {
		st.strokeWidth = v
	}
	// opacity multiplies down the tree; the fill and stroke ones inherit
	if v, ok := unit(property(n, "opacity")); ok {
		st.opacity *= v
	}
	if v, ok := unit(property(n, "fill-opacity")); ok {
		st.fillOpacity = v
	}
	if v, ok := unit(property(n, "stroke-opacity")); ok {
		st.strokeOpacity = v
	}
	return st
}

func unit(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return min(max(v, 0), 1), true
}

func (st style) fillColor() (color.NRGBA, bool) {
	return st.fill.withAlpha(st.opacity * st.fillOpacity)
}

func (st style) strokeColor() (color.NRGBA, bool) {
	if st.strokeWidth <= 0 {
		return color.NRGBA{}, false
	}
	return st.stroke.withAlpha(st.opacity * st.strokeOpacity)
}

func (p paint) withAlpha(a float64) (color.NRGBA, bool) {
	if !p.visible || a <= 0 {
		return color.NRGBA{}, false
	}
	c := p.color
	c.A = uint8(float64(c.A) * a)
	return c, true
}
