package simulator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/theoremus-urban-solutions/truck-simulator/clock"
	"github.com/theoremus-urban-solutions/truck-simulator/gtfs"
	"github.com/theoremus-urban-solutions/truck-simulator/paths"
	"github.com/theoremus-urban-solutions/truck-simulator/sink"
)

var (
	// ErrNoActiveTrucks is returned for a tick at which no trace is active
	ErrNoActiveTrucks = errors.New("no active trucks")
	// ErrStaleTick is returned when a tick was superseded before it could publish
	ErrStaleTick = errors.New("stale tick")
)

// DefaultConcurrency bounds the metadata lookups of one tick
const DefaultConcurrency = 32

// PathSource resolves active traces and their locations. *paths.Index implements it.
type PathSource interface {
	ActiveTraces(t time.Time) []paths.PathTrace
	LocationAt(tr paths.PathTrace, t time.Time) (paths.Location, error)
}

// RouteStore looks up route metadata. *gtfs.GTFSIndex implements it.
type RouteStore interface {
	GetTruckRouteByID(ctx context.Context, routeID string) (gtfs.Route, error)
}

// State of the driver
type State int

const (
	StateIdle State = iota
	StateComputing
)

func (s State) String() string {
	if s == StateComputing {
		return "computing"
	}
	return "idle"
}

// Driver computes and publishes a snapshot per clock tick
type Driver struct {
	paths       PathSource
	routes      RouteStore
	sink        sink.Publisher
	logger      *logrus.Logger
	concurrency int

	seq      atomic.Uint64
	inflight atomic.Int32

	mu            sync.Mutex
	claimedSeq    uint64
	lastSeq       uint64
	lastPublished time.Time
}

// NewDriver wires a driver. logger may be nil.
func NewDriver(index PathSource, routes RouteStore, publisher sink.Publisher, logger *logrus.Logger) *Driver {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Driver{
		paths:       index,
		routes:      routes,
		sink:        publisher,
		logger:      logger,
		concurrency: DefaultConcurrency,
	}
}

// State reports whether a tick is being computed
func (d *Driver) State() State {
	if d.inflight.Load() > 0 {
		return StateComputing
	}
	return StateIdle
}

// LastPublished returns the sequence and simulated time of the last
// published snapshot. seq is zero before the first publish.
func (d *Driver) LastPublished() (seq uint64, t time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastSeq, d.lastPublished
}

// Run consumes ticks until ctx is done or ticks is closed. Each tick is
// computed in its own goroutine and cancels the one before it. Error events
// are logged and skipped. Sink writes outlive the tick that started them but
// not ctx.
func (d *Driver) Run(ctx context.Context, ticks <-chan clock.Event) error {
	var wg sync.WaitGroup
	cancelPrev := context.CancelFunc(func() {})
	defer func() {
		cancelPrev()
		wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-ticks:
			if !ok {
				wg.Wait()
				return nil
			}
			if ev.Err != nil {
				d.logger.WithError(ev.Err).Warn("Ignoring clock error")
				continue
			}
			cancelPrev()
			tickCtx, cancel := context.WithCancel(ctx)
			cancelPrev = cancel
			seq := d.seq.Add(1)

			wg.Add(1)
			go func() {
				defer wg.Done()
				defer cancel()
				d.handle(tickCtx, ctx, seq, ev.Time)
			}()
		}
	}
}

// Tick computes and publishes the snapshot for t synchronously
func (d *Driver) Tick(ctx context.Context, t time.Time) (sink.Snapshot, error) {
	return d.tick(ctx, ctx, d.seq.Add(1), t)
}

func (d *Driver) handle(ctx, publishCtx context.Context, seq uint64, t time.Time) {
	log := d.logger.WithFields(logrus.Fields{"tick": seq, "simulated_time": t.UTC().Format(time.RFC3339)})
	snap, err := d.tick(ctx, publishCtx, seq, t)
	switch {
	case err == nil:
		log.WithField("active_trucks", len(snap.Trucks)).Debug("Published snapshot")
	case errors.Is(err, ErrNoActiveTrucks):
		log.Debug("No active trucks")
	case errors.Is(err, ErrStaleTick), errors.Is(err, sink.ErrStaleSnapshot), errors.Is(err, context.Canceled):
		log.Debug("Tick superseded")
	default:
		log.WithError(err).Error("Tick failed")
	}
}

// tick builds the snapshot under ctx and hands it to the sink under publishCtx
func (d *Driver) tick(ctx, publishCtx context.Context, seq uint64, t time.Time) (sink.Snapshot, error) {
	d.inflight.Add(1)
	defer d.inflight.Add(-1)

	trucks, err := d.BuildSnapshot(ctx, t)
	if err != nil {
		return sink.Snapshot{}, err
	}
	snap := sink.Snapshot{Seq: seq, Time: t, Trucks: trucks}
	if err := d.publish(ctx, publishCtx, snap); err != nil {
		return sink.Snapshot{}, err
	}
	return snap, nil
}

// BuildSnapshot resolves every truck active at t. Any failed lookup fails
// the whole snapshot.
func (d *Driver) BuildSnapshot(ctx context.Context, t time.Time) (map[string]sink.TruckLocation, error) {
	active := d.paths.ActiveTraces(t)
	if len(active) == 0 {
		return nil, ErrNoActiveTrucks
	}

	locations := make([]sink.TruckLocation, len(active))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)
	for i, tr := range active {
		i, tr := i, tr
		g.Go(func() error {
			loc, err := d.paths.LocationAt(tr, t)
			if err != nil {
				return err
			}
			route, err := d.routes.GetTruckRouteByID(gctx, tr.Trip.RouteID)
			if err != nil {
				return fmt.Errorf("trip %s: %w", tr.Trip.TripID, err)
			}
			locations[i] = sink.TruckLocation{
				RouteID:    tr.Trip.RouteID,
				RouteName:  route.RouteName,
				RouteColor: route.RouteColor,
				PONumber:   tr.Trip.PONumber,
				Lat:        loc.Lat,
				Lng:        loc.Lng,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	trucks := make(map[string]sink.TruckLocation, len(active))
	for i, tr := range active {
		trucks[sink.TripKey(tr.Trip.TripID)] = locations[i]
	}
	return trucks, nil
}

// publish hands snap to the sink unless the tick was cancelled or a newer
// tick already claimed the sink. The sink write runs outside d.mu so a slow
// sink never holds up later ticks.
func (d *Driver) publish(ctx, publishCtx context.Context, snap sink.Snapshot) error {
	d.mu.Lock()
	if ctx.Err() != nil || snap.Seq <= d.claimedSeq {
		d.mu.Unlock()
		return fmt.Errorf("tick %d: %w", snap.Seq, ErrStaleTick)
	}
	d.claimedSeq = snap.Seq
	d.mu.Unlock()

	if err := d.sink.Publish(publishCtx, snap); err != nil {
		return fmt.Errorf("publishing tick %d: %w", snap.Seq, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if snap.Seq > d.lastSeq {
		d.lastSeq = snap.Seq
		d.lastPublished = snap.Time
	}
	return nil
}
