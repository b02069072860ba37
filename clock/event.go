package clock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/theoremus-urban-solutions/truck-simulator/utils"
)

// Event is one clock tick. Exactly one of Time or Err is meaningful.
type Event struct {
	Time time.Time
	Err  error
}

// TimePublisher announces a simulated time to other consumers
type TimePublisher interface {
	PublishTime(ctx context.Context, t time.Time) error
}

// Moment is the wire form of a clock message
type Moment struct {
	Moment string `json:"moment"`
}

// EncodeMoment renders t as a clock message
func EncodeMoment(t time.Time) ([]byte, error) {
	return json.Marshal(Moment{Moment: utils.Iso8601(t)})
}

// DecodeMoment parses a clock message
func DecodeMoment(data []byte) (time.Time, error) {
	var m Moment
	if err := json.Unmarshal(data, &m); err != nil {
		return time.Time{}, fmt.Errorf("decoding clock message: %w", err)
	}
	if m.Moment == "" {
		return time.Time{}, errors.New("decoding clock message: missing moment")
	}
	t, err := utils.ParseMoment(m.Moment)
	if err != nil {
		return time.Time{}, fmt.Errorf("decoding clock message: %w", err)
	}
	return t, nil
}
