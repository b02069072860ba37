package converter

import (
	"context"
	"sort"

	"github.com/theoremus-urban-solutions/truck-simulator/gtfs"
	"github.com/theoremus-urban-solutions/truck-simulator/siri"
	"github.com/theoremus-urban-solutions/truck-simulator/sink"
	"github.com/theoremus-urban-solutions/truck-simulator/utils"
)

// DefaultCodespace is used when Options.Codespace is empty
const DefaultCodespace = "UNKNOWN"

// Options controls reference formatting and validity windows
type Options struct {
	// Codespace prefixes every SIRI reference
	Codespace string
	// ValidForMS sets ValidUntil relative to the snapshot time. Zero omits it.
	ValidForMS int
}

// RouteStore supplies route types for VehicleMode. *gtfs.GTFSIndex implements it.
type RouteStore interface {
	GetTruckRouteByID(ctx context.Context, routeID string) (gtfs.Route, error)
}

// Converter turns snapshots into SIRI VM deliveries
type Converter struct {
	routes RouteStore
	opts   Options
}

// NewConverter creates a converter. routes may be nil, in which case
// VehicleMode is omitted.
func NewConverter(routes RouteStore, opts Options) *Converter {
	if opts.Codespace == "" {
		opts.Codespace = DefaultCodespace
	}
	return &Converter{routes: routes, opts: opts}
}

// VehicleMonitoring builds one delivery with an activity per truck, ordered
// by snapshot key.
func (c *Converter) VehicleMonitoring(ctx context.Context, s sink.Snapshot) siri.VehicleMonitoring {
	ts := utils.Iso8601(s.Time)
	vm := siri.VehicleMonitoring{
		ResponseTimestamp: ts,
		ValidUntil:        utils.ValidUntilFrom(s.Time, c.opts.ValidForMS),
		VehicleActivity:   []siri.VehicleActivityEntry{},
	}

	keys := make([]string, 0, len(s.Trucks))
	for k := range s.Trucks {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		vm.VehicleActivity = append(vm.VehicleActivity, siri.VehicleActivityEntry{
			RecordedAtTime:          ts,
			ValidUntilTime:          vm.ValidUntil,
			MonitoredVehicleJourney: c.buildMVJ(ctx, key, s),
		})
	}
	return vm
}

// VehicleMonitoringResponse wraps VehicleMonitoring in a complete SIRI response
func (c *Converter) VehicleMonitoringResponse(ctx context.Context, s sink.Snapshot) *siri.SiriResponse {
	return &siri.SiriResponse{Siri: siri.SiriServiceDelivery{ServiceDelivery: siri.ServiceDelivery{
		ResponseTimestamp:         utils.Iso8601(s.Time),
		ProducerRef:               c.opts.Codespace,
		VehicleMonitoringDelivery: []siri.VehicleMonitoring{c.VehicleMonitoring(ctx, s)},
	}}}
}

// Codespace returns the codespace in use
func (c *Converter) Codespace() string {
	return c.opts.Codespace
}
