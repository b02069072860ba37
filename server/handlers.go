package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/theoremus-urban-solutions/truck-simulator/formatter"
	"github.com/theoremus-urban-solutions/truck-simulator/gtfs"
	"github.com/theoremus-urban-solutions/truck-simulator/gtfsrt"
	"github.com/theoremus-urban-solutions/truck-simulator/utils"
)

const (
	formatJSON = "json"
	formatXML  = "xml"
)

const errNoSnapshot = "no snapshot published yet"

type healthResponse struct {
	Status        string `json:"status"`
	State         string `json:"state,omitempty"`
	LastTick      uint64 `json:"last_tick"`
	SimulatedTime string `json:"simulated_time,omitempty"`
	ActiveTrucks  int    `json:"active_trucks"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}
	if s.deps.Status != nil {
		resp.State = s.deps.Status.State().String()
	}
	if snap, ok := s.deps.Snapshots.Latest(); ok {
		resp.LastTick = snap.Seq
		resp.SimulatedTime = utils.Iso8601(snap.Time)
		resp.ActiveTrucks = len(snap.Trucks)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTruckLocations(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.deps.Snapshots.Latest()
	if !ok {
		writeError(w, http.StatusNotFound, errNoSnapshot)
		return
	}
	w.Header().Set("X-Simulated-Time", utils.Iso8601(snap.Time))
	writeJSON(w, http.StatusOK, snap.Trucks)
}

func (s *Server) handleVehiclePositions(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.deps.Snapshots.Latest()
	if !ok {
		writeError(w, http.StatusNotFound, errNoSnapshot)
		return
	}
	format := queryParam(r, "format")
	body, err := s.cache.get(snap.Seq, memoKey("gtfsrt", format), func() ([]byte, error) {
		if format == formatJSON {
			return gtfsrt.MarshalJSON(snap)
		}
		return gtfsrt.Marshal(snap)
	})
	if err != nil {
		s.logger.WithError(err).Error("Failed to encode vehicle positions")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if format == formatJSON {
		w.Header().Set("Content-Type", "application/json")
	} else {
		w.Header().Set("Content-Type", "application/x-protobuf")
	}
	_, _ = w.Write(body)
}

func (s *Server) handleVehicleMonitoring(format string) http.HandlerFunc {
	contentType := "application/json"
	if format == formatXML {
		contentType = "application/xml"
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		snap, ok := s.deps.Snapshots.Latest()
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write(buildErrorPayload(format, errNoSnapshot))
			return
		}
		lineRef, vehicleRef := queryParam(r, "LineRef"), queryParam(r, "VehicleRef")
		body, err := s.cache.get(snap.Seq, memoKey("vm", format, lineRef, vehicleRef), func() ([]byte, error) {
			res := formatter.FilterResponse(s.deps.Converter.VehicleMonitoringResponse(context.WithoutCancel(r.Context()), snap), lineRef, vehicleRef)
			rb := formatter.NewResponseBuilder()
			if format == formatXML {
				return rb.BuildXML(res), nil
			}
			return rb.BuildJSON(res)
		})
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write(buildErrorPayload(format, err.Error()))
			return
		}
		_, _ = w.Write(body)
	}
}

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	route, err := s.deps.Metadata.GetTruckRouteByID(r.Context(), mux.Vars(r)["route_id"])
	if errors.Is(err, gtfs.ErrRouteNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, route)
}

func (s *Server) handleTripStops(w http.ResponseWriter, r *http.Request) {
	stops, err := s.deps.Metadata.GetTruckStopInfoForTrip(r.Context(), mux.Vars(r)["trip_id"])
	if errors.Is(err, gtfs.ErrTripNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(len(stops)))
	writeJSON(w, http.StatusOK, stops)
}

func (s *Server) handleStops(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Metadata.StopsWithPONumbers())
}

func (s *Server) handleCalendarDates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Metadata.GetCalendarDates())
}
