// Package simulator turns clock ticks into truck location snapshots.
//
// For every tick the Driver asks the path index which trucks are active,
// resolves each one's location and route metadata concurrently and publishes
// one snapshot that replaces the previous one. A tick that arrives while an
// earlier tick is still being computed cancels the earlier one; a cancelled
// or failed tick publishes nothing.
package simulator
