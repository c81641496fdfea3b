// Package metrics provides sim.Metric implementations over md.State.
package metrics
