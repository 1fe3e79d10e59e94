// Package log provides the structured logging abstraction used across
// vacballet.
//
// The core packages log through the [Logger] interface so that the library
// can be embedded silently (the default is [Noop]) while the CLI wires a
// zerolog-backed implementation. Fields are typed key-value pairs built
// with the constructors in this package.
package log
