package clock

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/theoremus-urban-solutions/truck-simulator/config"
)

// HeartBeat emits the current simulated time at a fixed wall-clock interval.
//
// With a start time configured it runs in simulation mode and reports
// start + elapsed*speedup, wrapping back to start once end is reached (when an
// end is set). Without a start time it reports the wall clock in UTC.
type HeartBeat struct {
	interval  time.Duration
	speedup   float64
	start     time.Time
	end       time.Time
	publisher TimePublisher
	logger    *logrus.Logger
	now       func() time.Time
}

// NewHeartBeat builds a heartbeat from config. publisher may be nil.
func NewHeartBeat(cfg config.HeartBeatConfig, publisher TimePublisher, logger *logrus.Logger) (*HeartBeat, error) {
	start, end, err := cfg.Window()
	if err != nil {
		return nil, err
	}
	speedup := cfg.Speedup
	if speedup <= 0 {
		speedup = 1
	}
	interval := cfg.Interval()
	if interval <= 0 {
		interval = time.Duration(config.DefaultIntervalMS) * time.Millisecond
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &HeartBeat{
		interval:  interval,
		speedup:   speedup,
		start:     start,
		end:       end,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}, nil
}

// Simulated reports whether the heartbeat runs in simulation mode
func (h *HeartBeat) Simulated() bool {
	return !h.start.IsZero()
}

// SimulatedTime maps wall-clock elapsed time since Start to a clock reading.
// wall is used only in real mode.
func (h *HeartBeat) SimulatedTime(elapsed time.Duration, wall time.Time) time.Time {
	if !h.Simulated() {
		return wall.UTC()
	}
	offset := time.Duration(float64(elapsed) * h.speedup)
	if !h.end.IsZero() {
		if span := h.end.Sub(h.start); span > 0 && offset >= span {
			offset %= span
		}
	}
	return h.start.Add(offset)
}

// Start runs the heartbeat until ctx is done. The first beat is emitted
// immediately. The returned channel is closed on exit.
func (h *HeartBeat) Start(ctx context.Context) <-chan Event {
	out := make(chan Event)
	go func() {
		defer close(out)
		ticker := time.NewTicker(h.interval)
		defer ticker.Stop()

		began := h.now()
		wall := began
		for {
			t := h.SimulatedTime(wall.Sub(began), wall)
			if h.publisher != nil {
				if err := h.publisher.PublishTime(ctx, t); err != nil && ctx.Err() == nil {
					h.logger.WithError(err).Warn("Failed to publish clock tick")
				}
			}
			select {
			case out <- Event{Time: t}:
			case <-ctx.Done():
				return
			}
			select {
			case <-ticker.C:
				wall = h.now()
			case <-ctx.Done():
				return
			}
		}
	}()
	h.logger.WithFields(logrus.Fields{
		"interval":  h.interval,
		"speedup":   h.speedup,
		"simulated": h.Simulated(),
	}).Info("Heartbeat started")
	return out
}
