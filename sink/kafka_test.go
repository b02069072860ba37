package sink

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func header(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestKafka_Publish(t *testing.T) {
	w := &fakeWriter{}
	k := &Kafka{writer: w}

	s := Snapshot{Seq: 1, Time: simTime, Trucks: map[string]TruckLocation{
		"Trip_700": {RouteID: "10", RouteName: "Northern Loop", RouteColor: "FF0000", PONumber: "PO-1042", Lat: 42.7, Lng: 23.3},
	}}
	require.NoError(t, k.Publish(context.Background(), s))
	require.NoError(t, k.Publish(context.Background(), s))
	require.Len(t, w.msgs, 2)

	msg := w.msgs[0]
	assert.Equal(t, MessageKey, string(msg.Key))
	assert.JSONEq(t, `{"Trip_700":{"route_id":"10","route_name":"Northern Loop","route_color":"FF0000","po_number":"PO-1042","lat":42.7,"lng":23.3}}`, string(msg.Value))
	assert.Equal(t, "2018-07-30T08:12:00Z", header(msg, "simulated-time"))
	assert.NotEmpty(t, header(msg, "snapshot-id"))
	assert.NotEqual(t, header(msg, "snapshot-id"), header(w.msgs[1], "snapshot-id"))
}

func TestKafka_PublishWrapsWriterError(t *testing.T) {
	cause := errors.New("broker down")
	k := &Kafka{writer: &fakeWriter{err: cause}}
	err := k.Publish(context.Background(), snapshot(3, "700"))
	assert.ErrorIs(t, err, cause)
}

type countingPublisher struct {
	calls int
	err   error
}

func (p *countingPublisher) Publish(context.Context, Snapshot) error {
	p.calls++
	return p.err
}

func TestMulti_FansOutAndJoinsErrors(t *testing.T) {
	cause := errors.New("boom")
	a, b, c := &countingPublisher{}, &countingPublisher{err: cause}, &countingPublisher{}

	err := Multi{a, b, c}.Publish(context.Background(), snapshot(1, "700"))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls)
	assert.Equal(t, 1, c.calls)

	assert.NoError(t, Multi{a, c}.Publish(context.Background(), snapshot(2, "700")))
}
