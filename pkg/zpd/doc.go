// Package zpd adds zoom, pan and drag interaction to an SVG document.
//
// Init wraps the document content in a single <g class="svg-zpd"> group and
// returns a Controller owning that group's transform. Pointer and wheel
// events are fed to the controller by the host (a Gio window, a trace
// replayer, a test); every accepted gesture rewrites the group's transform
// attribute as matrix(a,b,c,d,e,f).
//
// Animated operations (ZoomTo, PanTo, Origin) are frame driven: the host
// calls Tick on every frame while Animating reports true. Starting a gesture
// or another animation cancels the animation in flight.
//
// A Controller is not safe for concurrent use.
package zpd
