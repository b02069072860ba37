package gtfs

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrRouteNotFound is returned when a route id is not in truck_routes.txt
	ErrRouteNotFound = errors.New("route not found")
	// ErrTripNotFound is returned when a trip id is not in truck_trips.txt
	ErrTripNotFound = errors.New("trip not found")
)

// GTFSIndex stores truck GTFS static data in memory for fast lookups.
// It is read-only once loaded and safe for concurrent use.
type GTFSIndex struct {
	Routes        map[string]Route      // route_id -> route
	Trips         map[string]Trip       // trip_id -> trip
	TripOrder     []string              // trip_ids in file order
	Stops         map[string]Stop       // stop_id -> stop
	StopOrder     []string              // stop_ids in file order
	StopTimes     map[string][]StopTime // trip_id -> stop times ordered by stop_sequence
	CalendarDates []CalendarDate        // file order
}

// NewGTFSIndex creates a new empty GTFS index
func NewGTFSIndex() *GTFSIndex {
	return &GTFSIndex{
		Routes:    map[string]Route{},
		Trips:     map[string]Trip{},
		Stops:     map[string]Stop{},
		StopTimes: map[string][]StopTime{},
	}
}

// GetTruckRouteByID returns the route with the given id
func (g *GTFSIndex) GetTruckRouteByID(ctx context.Context, routeID string) (Route, error) {
	if err := ctx.Err(); err != nil {
		return Route{}, err
	}
	r, ok := g.Routes[routeID]
	if !ok {
		return Route{}, fmt.Errorf("route %q: %w", routeID, ErrRouteNotFound)
	}
	return r, nil
}

// GetTruckStopInfoForTrip returns the stops of a trip joined with stop
// coordinates and the service dates of the trip, ordered by departure time.
func (g *GTFSIndex) GetTruckStopInfoForTrip(ctx context.Context, tripID string) ([]StopInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	trip, ok := g.Trips[tripID]
	if !ok {
		return nil, fmt.Errorf("trip %q: %w", tripID, ErrTripNotFound)
	}
	out := []StopInfo{}
	for _, st := range g.StopTimes[tripID] {
		stop, ok := g.Stops[st.StopID]
		if !ok {
			continue
		}
		for _, cd := range g.CalendarDates {
			if cd.ServiceID != trip.ServiceID {
				continue
			}
			out = append(out, StopInfo{
				ArrivalTime:   st.ArrivalTime,
				DepartureTime: st.DepartureTime,
				StopID:        st.StopID,
				StopSequence:  st.StopSequence,
				Lat:           stop.Lat,
				Lng:           stop.Lon,
				StopName:      stop.StopName,
				Date:          cd.Date,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DepartureTime < out[j].DepartureTime })
	return out, nil
}

// GetCalendarDates returns all calendar dates ordered by service_id
func (g *GTFSIndex) GetCalendarDates() []CalendarDate {
	out := make([]CalendarDate, len(g.CalendarDates))
	copy(out, g.CalendarDates)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ServiceID < out[j].ServiceID })
	return out
}

// GetTruckTripsOrderedByTime returns every trip on every one of its service
// dates with its earliest departure, ordered by date then departure time.
func (g *GTFSIndex) GetTruckTripsOrderedByTime() []TripDeparture {
	out := []TripDeparture{}
	for _, tripID := range g.TripOrder {
		trip := g.Trips[tripID]
		first, ok := g.firstDeparture(tripID)
		for _, cd := range g.CalendarDates {
			if cd.ServiceID != trip.ServiceID {
				continue
			}
			td := TripDeparture{
				RouteID:       trip.RouteID,
				TripHeadsign:  trip.TripHeadsign,
				PONumber:      trip.PONumber,
				TripID:        trip.TripID,
				DepartureDate: cd.Date,
			}
			if ok {
				td.DepartureTime = first.DepartureTime
				td.DepartureStopID = first.StopID
			}
			out = append(out, td)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DepartureDate != out[j].DepartureDate {
			return out[i].DepartureDate < out[j].DepartureDate
		}
		return out[i].DepartureTime < out[j].DepartureTime
	})
	return out
}

func (g *GTFSIndex) firstDeparture(tripID string) (StopTime, bool) {
	var first StopTime
	found := false
	for _, st := range g.StopTimes[tripID] {
		if !found || st.DepartureTime < first.DepartureTime {
			first = st
			found = true
		}
	}
	return first, found
}

// StopsWithPONumbers returns every stop with the PO numbers of the trips
// that call at it, in stop file order.
func (g *GTFSIndex) StopsWithPONumbers() []StopWithPONumbers {
	po := map[string][]string{}
	for _, tripID := range g.TripOrder {
		trip := g.Trips[tripID]
		for _, st := range g.StopTimes[tripID] {
			if _, ok := g.Stops[st.StopID]; !ok {
				continue
			}
			po[st.StopID] = append(po[st.StopID], trip.PONumber)
		}
	}
	out := make([]StopWithPONumbers, 0, len(g.StopOrder))
	for _, stopID := range g.StopOrder {
		out = append(out, StopWithPONumbers{Stop: g.Stops[stopID], PONumbers: po[stopID]})
	}
	return out
}

// GetAllRoutes returns route ids sorted
func (g *GTFSIndex) GetAllRoutes() []string {
	keys := make([]string, 0, len(g.Routes))
	for k := range g.Routes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetTrip returns a trip by id
func (g *GTFSIndex) GetTrip(tripID string) (Trip, bool) {
	t, ok := g.Trips[tripID]
	return t, ok
}
