// Package domain contains the core entities and value objects for vacballet.
//
// This package is the innermost layer. It has no dependencies on transport,
// logging, or file-system concerns and contains only pure values and rules.
//
// # Entities
//
//   - [Point]: an absolute map position in millimetres
//   - [Snapshot]: a best-effort telemetry reading (positions, state, battery)
//   - [Command]: a named device command (goto, start, pause, charge, ...)
//
// Domain values are immutable after construction and testable without mocks.
package domain
