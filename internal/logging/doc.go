// Package logging is the structured logger used by the run loop and the CLI.
// The physics packages never log.
package logging
