package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestScheduler_AddRejectsBadSpec(t *testing.T) {
	s := New(testLogger(), time.Second)

	err := s.Add("purge", "not a schedule", func(context.Context) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "purge")
}

func TestScheduler_RunsJob(t *testing.T) {
	s := New(testLogger(), time.Second)

	ran := make(chan struct{}, 1)
	require.NoError(t, s.Add("tick", "@every 1s", func(ctx context.Context) error {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		select {
		case ran <- struct{}{}:
		default:
		}
		return errors.New("logged, not fatal")
	}))

	s.Start()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		assert.NoError(t, s.Stop(ctx))
	}()

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run")
	}
}
