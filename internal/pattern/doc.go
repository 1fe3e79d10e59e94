// Package pattern generates the waypoint sequences danced by the vacuum.
//
// Generators are pure functions from a center point and a size in
// millimetres to an ordered []domain.Point. All floating coordinates are
// truncated toward zero onto the millimetre grid. The "spin" generator is
// pseudorandom but seeded with a fixed value per call, so identical inputs
// always reproduce identical choreography.
package pattern
