// Package nav is the waypoint navigation core: origin resolution, the
// preflight wake sequence, arrival polling, and the navigator loop that
// drives a waypoint sequence to completion.
//
// The whole package runs as a single logical flow of control per routine.
// Suspension happens only in telemetry polling sleeps and fixed settle/beat
// delays, and every sleep is cancellable through the caller's context.
// Waypoints are visited strictly in sequence: motion commands are not
// commutative, so there is no concurrent dispatch and no reordering.
package nav
