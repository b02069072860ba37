package gtfs

// Route is a row of truck_routes.txt
type Route struct {
	RouteID    string `json:"route_id"`
	RouteType  int    `json:"route_type"`
	RouteName  string `json:"route_name"`
	RouteColor string `json:"route_color"`
}

// Trip is a row of truck_trips.txt
type Trip struct {
	TripID       string `json:"trip_id"`
	RouteID      string `json:"route_id"`
	TripHeadsign string `json:"trip_headsign"`
	ServiceID    string `json:"service_id"`
	PONumber     string `json:"po_number"`
}

// Stop is a row of truck_stops.txt
type Stop struct {
	StopID       string  `json:"stop_id"`
	StopName     string  `json:"stop_name"`
	Lat          float64 `json:"stop_lat"`
	Lon          float64 `json:"stop_lon"`
	LocationType int     `json:"location_type"`
}

// StopTime is a row of truck_stop_times.txt
type StopTime struct {
	TripID        string `json:"trip_id"`
	ArrivalTime   string `json:"arrival_time"`
	DepartureTime string `json:"departure_time"`
	StopID        string `json:"stop_id"`
	StopSequence  int    `json:"stop_sequence"`
}

// CalendarDate is a row of calendar_dates.txt. Date is YYYYMMDD.
type CalendarDate struct {
	ServiceID     string `json:"service_id"`
	Date          int    `json:"date"`
	ExceptionType int    `json:"exception_type"`
}

// StopInfo is a stop visit of a trip joined with the stop and its service date
type StopInfo struct {
	ArrivalTime   string  `json:"arrival_time"`
	DepartureTime string  `json:"departure_time"`
	StopID        string  `json:"stop_id"`
	StopSequence  int     `json:"stop_sequence"`
	Lat           float64 `json:"lat"`
	Lng           float64 `json:"lng"`
	StopName      string  `json:"stop_name"`
	Date          int     `json:"date"`
}

// TripDeparture is a trip on one service date with its first departure
type TripDeparture struct {
	RouteID         string `json:"route_id"`
	TripHeadsign    string `json:"trip_headsign"`
	PONumber        string `json:"po_number"`
	TripID          string `json:"trip_id"`
	DepartureDate   int    `json:"departure_date"`
	DepartureTime   string `json:"departure_time"`
	DepartureStopID string `json:"departure_stop_id"`
}

// StopWithPONumbers is a stop annotated with the PO numbers of the trips calling at it
type StopWithPONumbers struct {
	Stop
	PONumbers []string `json:"poNumbers,omitempty"`
}
