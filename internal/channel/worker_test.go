package channel_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sensorhandler/sensorhandler/internal/channel"
	"github.com/sensorhandler/sensorhandler/internal/keycode"
	"github.com/sensorhandler/sensorhandler/internal/log"
	"github.com/sensorhandler/sensorhandler/internal/sink"
	th "github.com/sensorhandler/sensorhandler/internal/testing"
)

func TestWorker_Process(t *testing.T) {
	rec := th.NewRecordingSink()
	w := channel.NewWorker(channel.NewOsu("osu"), rec, 4, log.Discard())

	require.NoError(t, w.Process("1"))
	require.NoError(t, w.Process("1"))
	require.ErrorIs(t, w.Process("nope"), channel.ErrDecode)
	require.NoError(t, w.Process("2"))

	assert.Equal(t, [][]sink.Event{
		{sink.Press(keycode.KeyZ)},
		{sink.Release(keycode.KeyZ), sink.Press(keycode.KeyX)},
	}, rec.Batches(), "frames without transitions must not reach the sink")
	assert.Equal(t, channel.Stats{Processed: 3, Dropped: 1}, w.Stats())
}

func TestWorker_EmitErrorKeepsState(t *testing.T) {
	rec := th.NewRecordingSink()
	rec.EmitErr = errors.New("device gone")
	w := channel.NewWorker(channel.NewOsu("osu"), rec, 1, log.Discard())

	require.Error(t, w.Process("1"))
	rec.EmitErr = nil
	require.NoError(t, w.Process("1"))

	assert.Len(t, rec.Batches(), 1)
	assert.Equal(t, uint64(1), w.Stats().EmitErrs)
}

func TestWorker_RunPreservesOrderAndReleasesOnStop(t *testing.T) {
	rec := th.NewRecordingSink()
	w := channel.NewWorker(channel.NewOsu("osu"), rec, 8, log.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	for _, p := range []string{"1", "3", "2"} {
		w.Queue() <- p
	}
	rec.WaitBatches(t, 3, time.Second)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}

	assert.Equal(t, [][]sink.Event{
		{sink.Press(keycode.KeyZ)},
		{sink.Press(keycode.KeyX)},
		{sink.Release(keycode.KeyZ)},
		{sink.Release(keycode.KeyX)},
	}, rec.Batches())
	assert.True(t, rec.Closed())
}

func TestWorker_QueueSizeFloor(t *testing.T) {
	w := channel.NewWorker(channel.NewOsu("osu"), th.NewRecordingSink(), 0, log.Discard())
	select {
	case w.Queue() <- "1":
	default:
		t.Fatal("queue must hold at least one payload")
	}
	assert.Equal(t, "osu", w.Name())
}

func TestWorker_CloseQueueDrainsThenStops(t *testing.T) {
	rec := th.NewRecordingSink()
	w := channel.NewWorker(channel.NewOsu("osu"), rec, 8, log.Discard())

	for _, p := range []string{"1", "x", "3"} {
		w.Queue() <- p
	}
	w.CloseQueue()

	require.NoError(t, w.Run(context.Background()))

	assert.Equal(t, [][]sink.Event{
		{sink.Press(keycode.KeyZ)},
		{sink.Press(keycode.KeyX)},
		{sink.Release(keycode.KeyZ), sink.Release(keycode.KeyX)},
	}, rec.Batches())
	assert.Equal(t, channel.Stats{Processed: 2, Dropped: 1}, w.Stats())
	assert.True(t, rec.Closed())
}
