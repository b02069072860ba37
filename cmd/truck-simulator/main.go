package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/theoremus-urban-solutions/truck-simulator/clock"
	"github.com/theoremus-urban-solutions/truck-simulator/config"
	"github.com/theoremus-urban-solutions/truck-simulator/converter"
	"github.com/theoremus-urban-solutions/truck-simulator/formatter"
	"github.com/theoremus-urban-solutions/truck-simulator/gtfs"
	"github.com/theoremus-urban-solutions/truck-simulator/gtfsrt"
	"github.com/theoremus-urban-solutions/truck-simulator/internal"
	"github.com/theoremus-urban-solutions/truck-simulator/paths"
	"github.com/theoremus-urban-solutions/truck-simulator/server"
	"github.com/theoremus-urban-solutions/truck-simulator/simulator"
	"github.com/theoremus-urban-solutions/truck-simulator/sink"
	"github.com/theoremus-urban-solutions/truck-simulator/utils"
)

func main() {
	configPath := flag.String("config", "", "config file (default: config.yml, ./configs/config.yml)")
	mode := flag.String("mode", "serve", "serve|oneshot")
	at := flag.String("at", "", "oneshot: simulated time, RFC3339 or \"YYYYMMDD HH:mm:ss\"")
	format := flag.String("format", "json", "oneshot: json|siri-json|siri-xml|gtfsrt")
	flag.Parse()

	if err := config.LoadAppConfig(*configPath); err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	cfg := config.Config
	logger := internal.NewLogger(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	index, err := loadGTFS(ctx, cfg.GTFS, logger)
	if err != nil {
		logger.Fatalf("Failed to load GTFS: %v", err)
	}

	var pathIndex *paths.Index
	if cfg.Simulation.Enabled {
		if pathIndex, err = loadPaths(ctx, cfg.Simulation); err != nil {
			logger.Fatalf("Failed to load paths: %v", err)
		}
		start, end, _ := pathIndex.Span()
		logger.WithFields(logrus.Fields{
			"traces":        pathIndex.Len(),
			"interpolation": pathIndex.Mode(),
			"start":         utils.Iso8601(start),
			"end":           utils.Iso8601(end),
		}).Info("Loaded truck paths")
	}

	mem := sink.NewMemory()
	publishers := sink.Multi{mem}
	if len(cfg.Kafka.Brokers) > 0 && *mode == "serve" {
		k := sink.NewKafka(cfg.Kafka)
		defer k.Close()
		publishers = append(publishers, k)
	}

	conv := converter.NewConverter(index, converter.Options{
		Codespace:  cfg.Siri.Codespace,
		ValidForMS: cfg.Siri.ValidForMS,
	})

	switch *mode {
	case "oneshot":
		if pathIndex == nil {
			logger.Fatal("oneshot requires simulation.enabled")
		}
		driver := simulator.NewDriver(pathIndex, index, publishers, logger)
		if err := oneshot(ctx, driver, conv, *at, *format); err != nil {
			logger.Fatal(err)
		}
	case "serve":
		var driver *simulator.Driver
		if pathIndex != nil {
			driver = simulator.NewDriver(pathIndex, index, publishers, logger)
		}
		if err := serve(ctx, cfg, driver, index, mem, conv, logger); err != nil {
			logger.Fatal(err)
		}
	default:
		logger.Fatalf("unknown mode %q", *mode)
	}
}

func loadGTFS(ctx context.Context, cfg config.GTFSConfig, logger *logrus.Logger) (*gtfs.GTFSIndex, error) {
	if cfg.IndexCachePath != "" {
		if index, err := gtfs.DeserializeIndexFromFile(cfg.IndexCachePath); err == nil {
			logger.WithField("path", cfg.IndexCachePath).Info("Loaded GTFS index from cache")
			return index, nil
		}
	}
	started := time.Now()
	index, err := gtfs.Load(ctx, cfg.StaticPath)
	if err != nil {
		return nil, err
	}
	logger.WithFields(logrus.Fields{
		"routes":   len(index.Routes),
		"trips":    len(index.Trips),
		"stops":    len(index.Stops),
		"duration": time.Since(started),
	}).Info("Loaded GTFS tables")
	if cfg.IndexCachePath != "" {
		if err := gtfs.SerializeIndexToFile(index, cfg.IndexCachePath); err != nil {
			logger.WithError(err).Warn("Failed to write GTFS index cache")
		}
	}
	return index, nil
}

func loadPaths(ctx context.Context, cfg config.SimulationConfig) (*paths.Index, error) {
	mode, err := paths.ParseInterpolation(cfg.Interpolation)
	if err != nil {
		return nil, err
	}
	var traces []paths.PathTrace
	if isURL(cfg.PathsFile) {
		var data []byte
		if data, err = newFetcher().fetch(ctx, cfg.PathsFile); err != nil {
			return nil, err
		}
		if traces, err = paths.Decode(bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("%s: %w", cfg.PathsFile, err)
		}
	} else if traces, err = paths.LoadFile(cfg.PathsFile); err != nil {
		return nil, err
	}
	return paths.NewIndex(traces, mode)
}

// clockEvents selects the tick source from config
func clockEvents(ctx context.Context, cfg config.AppConfig, logger *logrus.Logger) (<-chan clock.Event, func(), error) {
	if cfg.Clock.Source == "kafka" {
		sub := clock.NewKafkaSubscriber(cfg.Kafka, logger)
		return sub.Subscribe(ctx), func() {}, nil
	}

	var publisher clock.TimePublisher
	closer := func() {}
	if cfg.HeartBeat.Enabled && len(cfg.Kafka.Brokers) > 0 {
		p := clock.NewKafkaPublisher(cfg.Kafka)
		publisher = p
		closer = func() { _ = p.Close() }
	}
	hb, err := clock.NewHeartBeat(cfg.HeartBeat, publisher, logger)
	if err != nil {
		closer()
		return nil, nil, err
	}
	return hb.Start(ctx), closer, nil
}

func serve(ctx context.Context, cfg config.AppConfig, driver *simulator.Driver, index *gtfs.GTFSIndex, mem *sink.Memory, conv *converter.Converter, logger *logrus.Logger) error {
	deps := server.Deps{Snapshots: mem, Metadata: index, Converter: conv}
	if driver != nil {
		deps.Status = driver
	}
	srv := server.NewServer(cfg.Server, deps, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Stop(shutdownCtx)
	})
	if driver != nil {
		events, closeClock, err := clockEvents(gctx, cfg, logger)
		if err != nil {
			return err
		}
		defer closeClock()
		g.Go(func() error {
			err := driver.Run(gctx, events)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	err := g.Wait()
	logger.Info("Shut down")
	return err
}

func oneshot(ctx context.Context, driver *simulator.Driver, conv *converter.Converter, at, format string) error {
	t, err := utils.ParseMoment(at)
	if err != nil {
		return fmt.Errorf("-at: %w", err)
	}
	snap, err := driver.Tick(ctx, t)
	if errors.Is(err, simulator.ErrNoActiveTrucks) {
		snap = sink.Snapshot{Time: t, Trucks: map[string]sink.TruckLocation{}}
	} else if err != nil {
		return err
	}

	var out []byte
	switch format {
	case "json":
		out, err = json.MarshalIndent(snap.Trucks, "", "  ")
	case "siri-json":
		out, err = formatter.NewResponseBuilder().BuildJSON(conv.VehicleMonitoringResponse(ctx, snap))
	case "siri-xml":
		out = formatter.NewResponseBuilder().BuildXML(conv.VehicleMonitoringResponse(ctx, snap))
	case "gtfsrt":
		out, err = gtfsrt.MarshalJSON(snap)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
