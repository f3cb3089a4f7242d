package sink

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
	"go.uber.org/zap"

	"test-rol/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingSink struct {
	mu   sync.Mutex
	subs []domain.Submission
	err  error
}

func (r *recordingSink) Forward(_ context.Context, sub domain.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = append(r.subs, sub)
	return r.err
}

func (r *recordingSink) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}

func TestDispatcherDeliversAndDrainsOnClose(t *testing.T) {
	rec := &recordingSink{}
	d := NewDispatcher(rec, zap.NewNop(), Options{Workers: 2, QueueSize: 10})
	for i := 0; i < 5; i++ {
		if err := d.Enqueue(domain.Submission{PostulanteID: "p"}); err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := d.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}
	if rec.count() != 5 {
		t.Fatalf("expected 5 deliveries, got %d", rec.count())
	}
	if err := d.Enqueue(domain.Submission{}); !errors.Is(err, ErrDispatcherClosed) {
		t.Fatalf("expected ErrDispatcherClosed, got %v", err)
	}
	if err := d.Close(ctx); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestDispatcherFailureDoesNotSurface(t *testing.T) {
	rec := &recordingSink{err: errors.New("remote down")}
	d := NewDispatcher(rec, zap.NewNop(), Options{})
	if err := d.Enqueue(domain.Submission{PostulanteID: "p"}); err != nil {
		t.Fatalf("enqueue must succeed even if sink fails: %v", err)
	}
	if err := d.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}
	if rec.count() != 1 {
		t.Fatalf("expected 1 attempt, got %d", rec.count())
	}
}

func TestDispatcherQueueFull(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	blocking := Func(func(ctx context.Context, _ domain.Submission) error {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
		return nil
	})
	d := NewDispatcher(blocking, zap.NewNop(), Options{Workers: 1, QueueSize: 1})

	if err := d.Enqueue(domain.Submission{}); err != nil {
		t.Fatalf("first enqueue: %v", err)
	}
	<-started
	if err := d.Enqueue(domain.Submission{}); err != nil {
		t.Fatalf("second enqueue: %v", err)
	}
	if err := d.Enqueue(domain.Submission{}); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
	close(release)
	if err := d.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestDispatcherCloseHonorsContext(t *testing.T) {
	release := make(chan struct{})
	blocking := Func(func(ctx context.Context, _ domain.Submission) error {
		<-release
		return nil
	})
	d := NewDispatcher(blocking, zap.NewNop(), Options{Workers: 1, QueueSize: 1})
	_ = d.Enqueue(domain.Submission{})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := d.Close(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	close(release)
	if err := d.Close(context.Background()); err != nil {
		t.Fatalf("close after release: %v", err)
	}
}

func TestMultiJoinsErrors(t *testing.T) {
	ok := &recordingSink{}
	bad := &recordingSink{err: errors.New("boom")}
	s := Multi(ok, nil, bad)
	err := s.Forward(context.Background(), domain.Submission{})
	if err == nil || err.Error() != "boom" {
		t.Fatalf("expected joined boom error, got %v", err)
	}
	if ok.count() != 1 || bad.count() != 1 {
		t.Fatalf("expected both sinks called")
	}
}
