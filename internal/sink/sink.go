// Package sink entrega los resultados calculados a sistemas externos sin
// bloquear ni afectar el cálculo del veredicto.
package sink

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"test-rol/internal/domain"
)

// Sink recibe un resultado ya calculado.
type Sink interface {
	Forward(ctx context.Context, sub domain.Submission) error
}

// Func adapta una función a Sink.
type Func func(ctx context.Context, sub domain.Submission) error

func (f Func) Forward(ctx context.Context, sub domain.Submission) error {
	return f(ctx, sub)
}

type multi []Sink

// Multi reenvía a todos los sinks y junta los errores.
func Multi(sinks ...Sink) Sink {
	var out multi
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (m multi) Forward(ctx context.Context, sub domain.Submission) error {
	var errs []error
	for _, s := range m {
		if err := s.Forward(ctx, sub); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var (
	ErrQueueFull        = errors.New("sink queue full")
	ErrDispatcherClosed = errors.New("sink dispatcher closed")
)

// Options configura el Dispatcher.
type Options struct {
	Workers   int
	QueueSize int
	Timeout   time.Duration
}

// Dispatcher reenvía envíos en segundo plano con una cola acotada.
type Dispatcher struct {
	sink    Sink
	logger  *zap.Logger
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan domain.Submission
	wg     sync.WaitGroup
}

func NewDispatcher(s Sink, logger *zap.Logger, opts Options) *Dispatcher {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 16
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Dispatcher{
		sink:    s,
		logger:  logger,
		timeout: opts.Timeout,
		queue:   make(chan domain.Submission, opts.QueueSize),
	}
	d.wg.Add(opts.Workers)
	for i := 0; i < opts.Workers; i++ {
		go d.worker()
	}
	return d
}

// Enqueue agrega sub a la cola sin bloquear.
func (d *Dispatcher) Enqueue(sub domain.Submission) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrDispatcherClosed
	}
	select {
	case d.queue <- sub:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close deja de aceptar envíos y espera a que la cola se vacíe o ctx expire.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for sub := range d.queue {
		d.forward(sub)
	}
}

func (d *Dispatcher) forward(sub domain.Submission) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	start := time.Now()
	if err := d.sink.Forward(ctx, sub); err != nil {
		d.logger.Warn("forward test result failed",
			zap.String("postulante_id", sub.PostulanteID),
			zap.String("submission_id", sub.ID),
			zap.Error(err),
		)
		return
	}
	d.logger.Info("test result forwarded",
		zap.String("postulante_id", sub.PostulanteID),
		zap.String("rol_principal", string(sub.RolPrincipal)),
		zap.Duration("latency", time.Since(start)),
	)
}
