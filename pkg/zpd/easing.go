package zpd

import (
	"math"
	"sort"
	"strings"
)

// Easing maps linear progress in [0,1] to eased progress. Every easing
// returns 0 at 0 and 1 at 1; back and elastic overshoot in between.
type Easing func(t float64) float64

// Linear is the identity easing.
func Linear(t float64) float64 { return t }

// EaseIn starts slowly.
func EaseIn(t float64) float64 { return math.Pow(t, 1.7) }

// EaseOut ends slowly.
func EaseOut(t float64) float64 { return math.Pow(t, 0.48) }

// EaseInOut starts and ends slowly.
func EaseInOut(t float64) float64 {
	if t >= 1 {
		return 1
	}
	q := 0.48 - t/1.04
	Q := math.Sqrt(0.1734 + q*q)
	x := math.Cbrt(Q - q)
	y := math.Cbrt(-Q - q)
	s := x + y + 0.5
	return (1-s)*3*s*s + s*s*s
}

const backOvershoot = 1.70158

// BackIn pulls back before moving forward.
func BackIn(t float64) float64 {
	if t >= 1 {
		return 1
	}
	return t * t * ((backOvershoot+1)*t - backOvershoot)
}

// BackOut overshoots the target and settles back.
func BackOut(t float64) float64 {
	if t <= 0 {
		return 0
	}
	t--
	return t*t*((backOvershoot+1)*t+backOvershoot) + 1
}

// Elastic oscillates around the target before settling.
func Elastic(t float64) float64 {
	if t <= 0 || t >= 1 {
		return math.Max(0, math.Min(1, t))
	}
	return math.Pow(2, -10*t)*math.Sin((t-0.075)*(2*math.Pi)/0.3) + 1
}

// Bounce bounces off the target.
func Bounce(t float64) float64 {
	const s, p = 7.5625, 2.75
	switch {
	case t < 1/p:
		return s * t * t
	case t < 2/p:
		t -= 1.5 / p
		return s*t*t + 0.75
	case t < 2.5/p:
		t -= 2.25 / p
		return s*t*t + 0.9375
	default:
		t -= 2.625 / p
		return s*t*t + 0.984375
	}
}

var easings = map[string]Easing{
	"linear":    Linear,
	"easein":    EaseIn,
	"easeout":   EaseOut,
	"easeinout": EaseInOut,
	"backin":    BackIn,
	"backout":   BackOut,
	"elastic":   Elastic,
	"bounce":    Bounce,
}

// EasingByName looks up an easing. Names are case insensitive and may use
// '-' or '_' separators ("ease-in-out"). The empty name is linear.
func EasingByName(name string) (Easing, bool) {
	key := strings.ToLower(name)
	key = strings.NewReplacer("-", "", "_", "", " ", "").Replace(key)
	if key == "" {
		return Linear, true
	}
	e, ok := easings[key]
	return e, ok
}

// EasingNames returns the known easing names, sorted.
func EasingNames() []string {
	names := make([]string, 0, len(easings))
	for name := range easings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
