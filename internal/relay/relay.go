package relay

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kpauljoseph/pdfexplorer/pkg/logger"
	"github.com/kpauljoseph/pdfexplorer/pkg/models"
)

const DefaultInboxSize = 16

var (
	ErrClosed         = errors.New("relay is closed")
	ErrStopped        = errors.New("relay has stopped")
	ErrAlreadyRunning = errors.New("relay is already running")
	ErrModulePanic    = errors.New("module panicked")
)

type State int32

const (
	StateUninitialized State = iota
	StateReady
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

type Message struct {
	ID      uint64
	Payload models.FileRef
}

// Reply answers exactly one Message. Err is set when the module failed.
type Reply struct {
	ID      uint64
	Payload models.FileRef
	Result  *models.ExploreResult
	Err     error
}

type Relay struct {
	module  Module
	logger  *logger.Logger
	metrics *Metrics

	inbox   chan Message
	replies chan Reply

	// mu guards closed and stopped and the inbox close. Send holds it for
	// reading only while it can still make progress: closing and done wake
	// every blocked sender before Close or Run take it for writing.
	mu      sync.RWMutex
	closed  bool
	stopped bool
	closing chan struct{}
	done    chan struct{}

	closeOnce sync.Once

	state   atomic.Int32
	started atomic.Bool
	nextID  atomic.Uint64
}

type Option func(*options)

type options struct {
	inboxSize  int
	registerer prometheus.Registerer
}

func WithInboxSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.inboxSize = n
		}
	}
}

func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

func New(module Module, log *logger.Logger, opts ...Option) *Relay {
	o := options{inboxSize: DefaultInboxSize}
	for _, opt := range opts {
		opt(&o)
	}
	if log == nil {
		log = logger.Discard()
	}

	return &Relay{
		module:  module,
		logger:  log,
		metrics: NewMetrics(o.registerer),
		inbox:   make(chan Message, o.inboxSize),
		replies: make(chan Reply, o.inboxSize),
		closing: make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Done is closed once Run returns.
func (r *Relay) Done() <-chan struct{} {
	return r.done
}

func (r *Relay) State() State {
	return State(r.state.Load())
}

func (r *Relay) Metrics() *Metrics {
	return r.metrics
}

// Replies is closed once Run returns.
func (r *Relay) Replies() <-chan Reply {
	return r.replies
}

// Send enqueues payload unchanged. It is safe to call before Run has
// finished initializing; queued messages wait for the module handle.
// Once Run has returned, Send fails with ErrStopped.
func (r *Relay) Send(ctx context.Context, payload models.FileRef) (uint64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	switch {
	case r.stopped:
		return 0, ErrStopped
	case r.closed:
		return 0, ErrClosed
	}

	select {
	case <-r.done:
		return 0, ErrStopped
	case <-r.closing:
		return 0, ErrClosed
	default:
	}

	msg := Message{ID: r.nextID.Add(1), Payload: payload}
	select {
	case r.inbox <- msg:
		r.metrics.queued.Inc()
		return msg.ID, nil
	case <-r.done:
		return 0, ErrStopped
	case <-r.closing:
		return 0, ErrClosed
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// Close stops accepting messages. Run handles whatever is already queued
// and then returns.
func (r *Relay) Close() {
	r.closeOnce.Do(func() {
		close(r.closing)
	})

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	if !r.stopped {
		close(r.inbox)
	}
}

// shutdown marks the relay stopped. Messages still queued at that point are
// never handled; they are counted as dropped.
func (r *Relay) shutdown() {
	r.state.Store(int32(StateStopped))
	close(r.done)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopped = true

	dropped := 0
	for {
		select {
		case _, ok := <-r.inbox:
			if !ok {
				r.logDropped(dropped)
				return
			}
			dropped++
		default:
			r.logDropped(dropped)
			return
		}
	}
}

func (r *Relay) logDropped(n int) {
	if n == 0 {
		return
	}
	r.metrics.dropped.Add(float64(n))
	r.logger.Error("Dropped %d queued messages on stop", n)
}

// Run initializes the module once and then handles messages strictly in
// arrival order, one at a time, until the relay is closed or ctx is done.
func (r *Relay) Run(ctx context.Context) error {
	if !r.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer close(r.replies)
	defer r.shutdown()

	r.logger.Info("Worker: Hello.")
	handle, err := r.module.Init(ctx)
	if err != nil {
		r.metrics.initFailures.Inc()
		return fmt.Errorf("failed to initialize module: %w", err)
	}
	r.state.Store(int32(StateReady))
	r.logger.Info("Worker: Done module init.")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-r.inbox:
			if !ok {
				r.logger.Debug("Inbox closed, stopping")
				return nil
			}

			r.logger.Debug("Worker: Message %d received: %s", msg.ID, msg.Payload.DisplayName())
			reply := r.process(ctx, handle, msg)

			r.logger.Debug("Worker: Posting reply %d", reply.ID)
			select {
			case r.replies <- reply:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

func (r *Relay) process(ctx context.Context, handle Handle, msg Message) (reply Reply) {
	reply = Reply{ID: msg.ID, Payload: msg.Payload}
	start := time.Now()

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("Module panicked on message %d: %v", msg.ID, rec)
			r.logger.Trace("%s", debug.Stack())
			reply.Result = nil
			reply.Err = fmt.Errorf("%w: %v", ErrModulePanic, rec)
		}
		r.metrics.observe(time.Since(start), reply.Err)
	}()

	reply.Result, reply.Err = handle.HandleFile(ctx, msg.Payload)
	if reply.Err != nil {
		r.logger.Info("Error handling %s: %v", msg.Payload.DisplayName(), reply.Err)
	}
	return reply
}
