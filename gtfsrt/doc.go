// Package gtfsrt renders truck location snapshots as GTFS-Realtime
// VehiclePositions feeds.
//
// Every active truck becomes one FeedEntity. The entity and vehicle ids are
// the snapshot key (Trip_<trip_id>), the vehicle label is the PO number and
// the feed timestamp is the simulated time of the snapshot.
package gtfsrt
