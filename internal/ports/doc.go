// Package ports defines the interfaces (ports) that connect the navigation
// core to infrastructure adapters.
//
// Ports are the boundary between the application core and the outside world:
// they state what the core needs from the device without fixing how those
// needs are fulfilled.
//
// # Port Interfaces
//
//   - [Commander]: sends named commands over the device channel
//   - [Telemetry]: fetches best-effort position/state snapshots
//   - [SnapshotStore]: persists the last-known telemetry between invocations
//   - [HTTPClient]: HTTP request abstraction for the cloud adapter
//
// The navigation core (internal/nav, pkg/ballet) depends only on these
// interfaces. Adapters (internal/adapters) implement them against the real
// MQTT channel and cloud API, and tests implement them in-package with
// fakes.
package ports
