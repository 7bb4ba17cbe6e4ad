package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("publish without deadline")
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestProducer_Publish(t *testing.T) {
	t.Parallel()

	w := &fakeWriter{}
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	p := &Producer{w: w, now: func() time.Time { return at }}

	err := p.Publish(context.Background(), TopicFavoriteEvents, Event{
		Type:     TypeFavoriteAdded,
		UserID:   12,
		MuseumID: "M0001",
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, TopicFavoriteEvents, msg.Topic)
	assert.Equal(t, "12", string(msg.Key))

	var got Event
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, TypeFavoriteAdded, got.Type)
	assert.EqualValues(t, 12, got.UserID)
	assert.Equal(t, "M0001", got.MuseumID)
	assert.True(t, at.Equal(got.OccurredAt))

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestProducer_PublishError(t *testing.T) {
	t.Parallel()

	boom := errors.New("broker down")
	p := &Producer{w: &fakeWriter{err: boom}, now: time.Now}

	err := p.Publish(context.Background(), TopicUserEvents, Event{Type: TypeUserLoggedIn, UserID: 1})
	assert.ErrorIs(t, err, boom)
}

func TestNewProducer_NoBrokersIsNop(t *testing.T) {
	t.Parallel()

	p := NewProducer(nil)
	_, ok := p.(Nop)
	require.True(t, ok)
	assert.NoError(t, p.Publish(context.Background(), TopicUserEvents, Event{}))
	assert.NoError(t, p.Close())

	kp := NewProducer([]string{"localhost:9092"})
	_, ok = kp.(*Producer)
	assert.True(t, ok)
	_ = kp.Close()
}
