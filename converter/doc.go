/*
Package converter builds SIRI Vehicle Monitoring deliveries from truck
location snapshots.

# Basic Usage

	conv := converter.NewConverter(gtfsIndex, converter.Options{
	    Codespace:  "TRUCKS",
	    ValidForMS: 30000,
	})
	resp := conv.VehicleMonitoringResponse(ctx, snapshot)

# Reference Formatting

References follow the {codespace}:{type}:{id} convention:

  - LineRef: {codespace}:Line:{route_id}
  - DatedVehicleJourneyRef: {codespace}:ServiceJourney:{trip_id}
  - VehicleRef: {codespace}:VehicleRef:{po_number} (trip id when the PO number is empty)

All timestamps are the simulated time of the snapshot, not the wall clock.
*/
package converter
