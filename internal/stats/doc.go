// Package stats aggregates package items into monthly and periodic document
// statistics.
//
// Every aggregation is a pure single-pass reducer over a read-only item
// collection. Memory is bounded by the number of distinct months or periods
// produced, never by the number of items, so the same code serves both an
// in-memory slice and a streamed input.
package stats
