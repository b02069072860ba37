// Package siri defines the SIRI (Service Interface for Real-time Information)
// Vehicle Monitoring types used to publish truck positions.
//
// Only the VehicleMonitoringDelivery module is modelled. Truck specific data
// that SIRI has no element for (PO number, route colour) travels in the
// Extensions element of each MonitoredVehicleJourney.
package siri
