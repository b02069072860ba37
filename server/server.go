package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/theoremus-urban-solutions/truck-simulator/config"
	"github.com/theoremus-urban-solutions/truck-simulator/converter"
	"github.com/theoremus-urban-solutions/truck-simulator/gtfs"
	"github.com/theoremus-urban-solutions/truck-simulator/simulator"
	"github.com/theoremus-urban-solutions/truck-simulator/sink"
)

// SnapshotSource returns the latest published snapshot. *sink.Memory implements it.
type SnapshotSource interface {
	Latest() (sink.Snapshot, bool)
}

// Metadata is the route and trip store. *gtfs.GTFSIndex implements it.
type Metadata interface {
	GetTruckRouteByID(ctx context.Context, routeID string) (gtfs.Route, error)
	GetTruckStopInfoForTrip(ctx context.Context, tripID string) ([]gtfs.StopInfo, error)
	StopsWithPONumbers() []gtfs.StopWithPONumbers
	GetCalendarDates() []gtfs.CalendarDate
}

// DriverStatus reports driver progress. *simulator.Driver implements it.
type DriverStatus interface {
	State() simulator.State
	LastPublished() (uint64, time.Time)
}

// Deps are the collaborators the handlers read from. Status may be nil.
type Deps struct {
	Snapshots SnapshotSource
	Metadata  Metadata
	Converter *converter.Converter
	Status    DriverStatus
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *mux.Router
	deps       Deps
	cache      *responseCache
	logger     *logrus.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg config.ServerConfig, deps Deps, logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if deps.Converter == nil {
		deps.Converter = converter.NewConverter(deps.Metadata, converter.Options{})
	}
	s := &Server{
		router: mux.NewRouter(),
		deps:   deps,
		cache:  newResponseCache(),
		logger: logger,
	}
	s.routes()

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) routes() {
	s.router.Use(s.logRequests)
	api := s.router.PathPrefix("/api").Methods(http.MethodGet).Subrouter()
	api.HandleFunc("/health", s.handleHealth)
	api.HandleFunc("/truck-locations.json", s.handleTruckLocations)
	api.HandleFunc("/gtfsrt/vehicle-positions.pb", s.handleVehiclePositions)
	api.HandleFunc("/siri/vehicle-monitoring.json", s.handleVehicleMonitoring(formatJSON))
	api.HandleFunc("/siri/vehicle-monitoring.xml", s.handleVehicleMonitoring(formatXML))
	api.HandleFunc("/routes/{route_id}", s.handleRoute)
	api.HandleFunc("/trips/{trip_id}/stops", s.handleTripStops)
	api.HandleFunc("/stops.json", s.handleStops)
	api.HandleFunc("/calendar-dates.json", s.handleCalendarDates)
}

// Handler returns the router
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start serves until Stop is called
func (s *Server) Start() error {
	s.logger.Infof("Starting server on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		next.ServeHTTP(w, r)
		s.logger.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(started),
		}).Debug("Handled request")
	})
}
