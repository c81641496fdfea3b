// Package export renders run data as standalone SVG files.
package export
