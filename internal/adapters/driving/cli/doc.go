// Package cli implements the cobra command tree for the Retrieva CLI.
//
// Commands are thin: they parse flags, call driving-port services and
// format output. All business behaviour lives in internal/core/services.
package cli
