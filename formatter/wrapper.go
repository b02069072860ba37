package formatter

import (
	"strings"

	"github.com/theoremus-urban-solutions/truck-simulator/siri"
)

// FilterVehicleMonitoring keeps the activities whose LineRef contains lineRef
// and whose VehicleRef contains vehicleRef. Matching is case-insensitive and
// empty filters match everything.
func FilterVehicleMonitoring(vm siri.VehicleMonitoring, lineRef, vehicleRef string) siri.VehicleMonitoring {
	lineRef = strings.ToLower(strings.TrimSpace(lineRef))
	vehicleRef = strings.ToLower(strings.TrimSpace(vehicleRef))

	filtered := siri.VehicleMonitoring{
		ResponseTimestamp: vm.ResponseTimestamp,
		ValidUntil:        vm.ValidUntil,
		VehicleActivity:   []siri.VehicleActivityEntry{},
	}
	for _, va := range vm.VehicleActivity {
		mvj := va.MonitoredVehicleJourney
		if lineRef != "" && !strings.Contains(strings.ToLower(mvj.LineRef), lineRef) {
			continue
		}
		if vehicleRef != "" && !strings.Contains(strings.ToLower(mvj.VehicleRef), vehicleRef) {
			continue
		}
		filtered.VehicleActivity = append(filtered.VehicleActivity, va)
	}
	return filtered
}

// FilterResponse applies FilterVehicleMonitoring to every delivery of res
func FilterResponse(res *siri.SiriResponse, lineRef, vehicleRef string) *siri.SiriResponse {
	if lineRef == "" && vehicleRef == "" {
		return res
	}
	out := *res
	sd := res.Siri.ServiceDelivery
	deliveries := make([]siri.VehicleMonitoring, 0, len(sd.VehicleMonitoringDelivery))
	for _, vm := range sd.VehicleMonitoringDelivery {
		deliveries = append(deliveries, FilterVehicleMonitoring(vm, lineRef, vehicleRef))
	}
	out.Siri.ServiceDelivery.VehicleMonitoringDelivery = deliveries
	return &out
}
