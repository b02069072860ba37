// Package sink holds location snapshots and the destinations they are
// published to.
//
// A Snapshot replaces whatever a sink held before. Sinks never merge
// snapshots. Each snapshot carries the sequence number of the tick that
// produced it and Memory refuses anything not newer than what it holds.
package sink
