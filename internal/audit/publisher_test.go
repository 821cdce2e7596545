package audit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	id "talentflow/pkg/domain"
	"talentflow/pkg/requestcontext"
)

type failingSink struct {
	mu    sync.Mutex
	calls int
}

func (f *failingSink) Append(context.Context, Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return errors.New("sink unavailable")
}

func (f *failingSink) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type AuditPipelineSuite struct {
	suite.Suite
	logger *slog.Logger
	actor  id.UserID
}

func TestAuditPipelineSuite(t *testing.T) {
	suite.Run(t, new(AuditPipelineSuite))
}

func (s *AuditPipelineSuite) SetupSuite() {
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	actor, err := id.ParseUserID(uuid.NewString())
	s.Require().NoError(err)
	s.actor = actor
}

func (s *AuditPipelineSuite) entry(action Action) Entry {
	return Entry{
		ActorID:        s.actor,
		Classification: id.ClassificationMentalHealth,
		Action:         action,
		Detail:         "test entry",
	}
}

func (s *AuditPipelineSuite) TestEmitFillsContextFields() {
	publisher := NewPublisher(4, s.logger, nil)

	now := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithRequestID(requestcontext.WithTime(context.Background(), now), "req-42")
	publisher.Emit(ctx, s.entry(ActionView))

	got := <-publisher.Inbox()
	s.Equal(now, got.Timestamp)
	s.Equal("req-42", got.RequestID)

	s.Run("client label derived from user agent", func() {
		uaCtx := requestcontext.WithUserAgent(ctx, "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0")
		publisher.Emit(uaCtx, s.entry(ActionView))

		got := <-publisher.Inbox()
		s.Contains(got.Client, "Firefox")
	})

	s.Run("explicit fields preserved", func() {
		explicit := s.entry(ActionView)
		explicit.Timestamp = now.Add(time.Hour)
		explicit.RequestID = "req-43"
		publisher.Emit(ctx, explicit)

		got := <-publisher.Inbox()
		s.Equal(now.Add(time.Hour), got.Timestamp)
		s.Equal("req-43", got.RequestID)
	})
}

// A full buffer drops the entry instead of blocking the caller. Emitting
// never fails the business operation it trails.
func (s *AuditPipelineSuite) TestEmitDropsWhenFull() {
	publisher := NewPublisher(1, s.logger, nil)
	ctx := context.Background()

	publisher.Emit(ctx, s.entry(ActionView))
	done := make(chan struct{})
	go func() {
		publisher.Emit(ctx, s.entry(ActionAssign)) // buffer full, must not block
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		s.Fail("Emit blocked on a full buffer")
	}
	s.Len(publisher.Inbox(), 1)
}

func (s *AuditPipelineSuite) TestWorkerPersistsToAllSinks() {
	publisher := NewPublisher(8, s.logger, nil)
	primary := NewInMemoryStore()
	secondary := NewInMemoryStore()
	worker := NewWorker(publisher.Inbox(), s.logger, nil, primary, secondary)

	ctx, cancel := context.WithCancel(context.Background())
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Run(ctx)
	}()

	publisher.Emit(ctx, s.entry(ActionCreate))
	publisher.Emit(ctx, s.entry(ActionView))

	require.Eventually(s.T(), func() bool {
		return primary.Len() == 2 && secondary.Len() == 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-workerDone

	entries, err := primary.ListByActor(context.Background(), s.actor)
	s.Require().NoError(err)
	s.Len(entries, 2)
}

// Sink failures are absorbed: the worker keeps consuming and healthy
// sinks still receive every entry.
func (s *AuditPipelineSuite) TestWorkerSurvivesSinkFailure() {
	publisher := NewPublisher(8, s.logger, nil)
	broken := &failingSink{}
	healthy := NewInMemoryStore()
	worker := NewWorker(publisher.Inbox(), s.logger, nil, broken, healthy)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go worker.Run(ctx)

	for range 3 {
		publisher.Emit(ctx, s.entry(ActionView))
	}

	require.Eventually(s.T(), func() bool {
		return healthy.Len() == 3 && broken.count() == 3
	}, time.Second, 5*time.Millisecond)
}

// Entries still queued at shutdown are flushed before Run returns.
func (s *AuditPipelineSuite) TestWorkerDrainsOnShutdown() {
	publisher := NewPublisher(8, s.logger, nil)
	sink := NewInMemoryStore()
	worker := NewWorker(publisher.Inbox(), s.logger, nil, sink)

	for range 5 {
		publisher.Emit(context.Background(), s.entry(ActionCreate))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		worker.Run(ctx)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		s.Fail("worker did not stop")
	}
	s.Equal(5, sink.Len())
}
