// Package viz is the terminal live view of a running simulation.
//
// [Model] is a Bubble Tea model that advances a simulator every frame,
// projects the particles and the periodic box onto a braille [Canvas] and
// plots the conserved energy, temperature or pressure with asciigraph.
//
// # Key Bindings
//
//	Space  - Pause/Resume
//	N      - Single step while paused
//	R      - Rebuild the system
//	G      - Cycle graph
//	T      - Cycle theme
//	Arrows - Rotate view
//	?      - Help
package viz
