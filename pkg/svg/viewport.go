package svg

import (
	"math"
	"strconv"
	"strings"

	"github.com/OpenTraceLab/svgzpd/pkg/affine"
)

// ViewBox is the parsed viewBox attribute.
type ViewBox struct {
	X, Y, Width, Height float64
}

// ViewBox returns the root viewBox and whether it is present and valid.
func (d *Document) ViewBox() (ViewBox, bool) {
	nums, err := parseNumbers(d.Root.Attr("viewBox"))
	if err != nil || len(nums) != 4 || nums[2] <= 0 || nums[3] <= 0 {
		return ViewBox{}, false
	}
	return ViewBox{X: nums[0], Y: nums[1], Width: nums[2], Height: nums[3]}, true
}

// Size returns the viewport size in pixels: the width and height attributes
// when they are absolute lengths, otherwise ViewportWidth/ViewportHeight,
// otherwise the viewBox size.
func (d *Document) Size() (w, h float64) {
	w, okW := parseLength(d.Root.Attr("width"))
	h, okH := parseLength(d.Root.Attr("height"))
	if !okW {
		w = d.ViewportWidth
	}
	if !okH {
		h = d.ViewportHeight
	}
	if vb, ok := d.ViewBox(); ok {
		if w <= 0 {
			w = vb.Width
		}
		if h <= 0 {
			h = vb.Height
		}
	}
	return w, h
}

// ViewportMatrix maps root user units (viewBox space) to viewport pixels
// following preserveAspectRatio. Without a viewBox it is the identity.
func (d *Document) ViewportMatrix() affine.Matrix {
	vb, ok := d.ViewBox()
	if !ok {
		return affine.Identity()
	}
	w, h := d.Size()
	if w <= 0 || h <= 0 {
		return affine.Identity()
	}

	sx := w / vb.Width
	sy := h / vb.Height

	align, slice := parseAspectRatio(d.Root.Attr("preserveAspectRatio"))
	if align == "none" {
		return affine.NewMatrix(sx, 0, 0, sy, -vb.X*sx, -vb.Y*sy)
	}

	s := math.Min(sx, sy)
	if slice {
		s = math.Max(sx, sy)
	}
	tx := -vb.X * s
	ty := -vb.Y * s
	extraX := w - vb.Width*s
	extraY := h - vb.Height*s

	switch {
	case strings.HasPrefix(align, "xMid"):
		tx += extraX / 2
	case strings.HasPrefix(align, "xMax"):
		tx += extraX
	}
	switch {
	case strings.HasSuffix(align, "YMid"):
		ty += extraY / 2
	case strings.HasSuffix(align, "YMax"):
		ty += extraY
	}

	return affine.NewMatrix(s, 0, 0, s, tx, ty)
}

func parseAspectRatio(s string) (align string, slice bool) {
	align = "xMidYMid"
	for _, f := range strings.Fields(s) {
		switch f {
		case "defer":
		case "meet":
		case "slice":
			slice = true
		default:
			align = f
		}
	}
	return align, slice
}

// parseLength reads an absolute length in pixels. Percentages and empty
// strings are reported as not ok.
func parseLength(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasSuffix(s, "%") {
		return 0, false
	}
	scale := 1.0
	for unit, f := range map[string]float64{"px": 1, "pt": 4.0 / 3.0, "pc": 16, "mm": 96 / 25.4, "cm": 96 / 2.54, "in": 96} {
		if strings.HasSuffix(s, unit) {
			s = strings.TrimSuffix(s, unit)
			scale = f
			break
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v * scale, true
}

func formatLength(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
