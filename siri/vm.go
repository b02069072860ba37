package siri

// VehicleMonitoring represents the VehicleMonitoring delivery
type VehicleMonitoring struct {
	ResponseTimestamp string                 `json:"ResponseTimestamp"`
	ValidUntil        string                 `json:"ValidUntil,omitempty"`
	VehicleActivity   []VehicleActivityEntry `json:"VehicleActivity"`
}

// VehicleActivityEntry represents a single truck's activity
type VehicleActivityEntry struct {
	RecordedAtTime          string                  `json:"RecordedAtTime"`
	ValidUntilTime          string                  `json:"ValidUntilTime,omitempty"`
	MonitoredVehicleJourney MonitoredVehicleJourney `json:"MonitoredVehicleJourney"`
}

// MonitoredVehicleJourney contains details about a monitored truck journey
type MonitoredVehicleJourney struct {
	LineRef                 string                   `json:"LineRef"`
	FramedVehicleJourneyRef *FramedVehicleJourneyRef `json:"FramedVehicleJourneyRef,omitempty"`
	VehicleMode             string                   `json:"VehicleMode,omitempty"`
	PublishedLineName       string                   `json:"PublishedLineName,omitempty"`
	Monitored               bool                     `json:"Monitored"`
	DataSource              string                   `json:"DataSource"`
	VehicleLocation         *VehicleLocation         `json:"VehicleLocation,omitempty"`
	Delay                   string                   `json:"Delay,omitempty"` // e.g. "PT0S"
	VehicleRef              string                   `json:"VehicleRef"`
	IsCompleteStopSequence  bool                     `json:"IsCompleteStopSequence"`
	Extensions              *Extensions              `json:"Extensions,omitempty"`
}

// FramedVehicleJourneyRef uniquely identifies a vehicle journey
type FramedVehicleJourneyRef struct {
	DataFrameRef           string `json:"DataFrameRef"`
	DatedVehicleJourneyRef string `json:"DatedVehicleJourneyRef"`
}

// VehicleLocation represents the geographical location of a vehicle
type VehicleLocation struct {
	Latitude  float64 `json:"Latitude"`
	Longitude float64 `json:"Longitude"`
}

// Extensions carries truck fields outside the SIRI vocabulary
type Extensions struct {
	PONumber   string `json:"PONumber,omitempty"`
	RouteColor string `json:"RouteColor,omitempty"`
}
