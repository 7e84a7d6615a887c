package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidhub/account-service/internal/core/domain"
)

type memorySink struct {
	mu       sync.Mutex
	events   []domain.SessionEvent
	attempts int
	err      error
}

func (s *memorySink) InsertEvent(_ context.Context, e *domain.SessionEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts++
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, *e)
	return nil
}

func (s *memorySink) snapshot() []domain.SessionEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.SessionEvent(nil), s.events...)
}

func TestDispatcher_PreservesPerUserOrder(t *testing.T) {
	sink := &memorySink{}
	d := NewDispatcher(3, sink, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	order := []domain.SessionEventType{
		domain.EventLoggedIn,
		domain.EventRefreshed,
		domain.EventRefreshed,
		domain.EventLoggedOut,
	}
	for _, typ := range order {
		d.Publish(domain.SessionEvent{UserID: "u1", Type: typ, OccurredAt: time.Now()})
		d.Publish(domain.SessionEvent{UserID: "u2", Type: typ, OccurredAt: time.Now()})
	}

	require.Eventually(t, func() bool { return len(sink.snapshot()) == 2*len(order) }, time.Second, 5*time.Millisecond)
	cancel()
	d.Wait()

	var got []domain.SessionEventType
	for _, e := range sink.snapshot() {
		if e.UserID == "u1" {
			got = append(got, e.Type)
		}
	}
	assert.Equal(t, order, got)
}

func TestDispatcher_DrainsOnShutdown(t *testing.T) {
	sink := &memorySink{}
	d := NewDispatcher(1, sink, zerolog.Nop())

	for i := 0; i < 10; i++ {
		d.Publish(domain.SessionEvent{UserID: "u1", Type: domain.EventRefreshed})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Start(ctx)
	d.Wait()

	assert.Len(t, sink.snapshot(), 10)
}

func TestDispatcher_PublishNeverBlocks(t *testing.T) {
	d := NewDispatcher(1, &memorySink{}, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer+10; i++ {
			d.Publish(domain.SessionEvent{UserID: "u1", Type: domain.EventLoggedIn})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full queue")
	}
	assert.Len(t, d.workers[0], channelBuffer)
}

func TestDispatcher_WriteFailureDoesNotStopWorker(t *testing.T) {
	sink := &memorySink{err: errors.New("mongo down")}
	d := NewDispatcher(1, sink, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	d.Publish(domain.SessionEvent{UserID: "u1", Type: domain.EventLoggedIn})
	require.Eventually(t, func() bool {
		sink.mu.Lock()
		defer sink.mu.Unlock()
		return sink.attempts == 1
	}, time.Second, 5*time.Millisecond)

	sink.mu.Lock()
	sink.err = nil
	sink.mu.Unlock()

	d.Publish(domain.SessionEvent{UserID: "u1", Type: domain.EventLoggedOut})
	require.Eventually(t, func() bool { return len(sink.snapshot()) == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	d.Wait()
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(8, &memorySink{}, zerolog.Nop())
	assert.Equal(t, d.shardIndex("64f1c0"), d.shardIndex("64f1c0"))
	assert.Len(t, d.workers, 8)
	assert.Len(t, NewDispatcher(0, &memorySink{}, zerolog.Nop()).workers, defaultWorkers)
}
