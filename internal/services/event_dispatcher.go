package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
)

// ErrQueueFull is returned when the dispatcher buffer cannot take an event.
var ErrQueueFull = errors.New("event queue full")

// DispatcherConfig holds configuration for the in-process event dispatcher
type DispatcherConfig struct {
	// BufferSize is how many events may wait for the handler (default: 100)
	BufferSize int

	// HandlerTimeout bounds a single handler call (default: 5s)
	HandlerTimeout time.Duration
}

func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{
		BufferSize:     100,
		HandlerTimeout: 5 * time.Second,
	}
}

// EventHandler processes one transaction event.
type EventHandler func(ctx context.Context, event *amqp.TransactionEvent) error

// EventDispatcher is an EventPublisher that hands events to a handler in a
// background goroutine. It replaces the broker when AMQP is not configured.
type EventDispatcher struct {
	handler EventHandler
	config  DispatcherConfig
	events  chan *amqp.TransactionEvent
	dropped atomic.Int64

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewEventDispatcher(handler EventHandler, config DispatcherConfig) *EventDispatcher {
	if config.BufferSize <= 0 {
		config.BufferSize = DefaultDispatcherConfig().BufferSize
	}
	if config.HandlerTimeout <= 0 {
		config.HandlerTimeout = DefaultDispatcherConfig().HandlerTimeout
	}
	return &EventDispatcher{
		handler: handler,
		config:  config,
		events:  make(chan *amqp.TransactionEvent, config.BufferSize),
	}
}

// PublishTransactionCreated enqueues the event without blocking.
func (d *EventDispatcher) PublishTransactionCreated(ctx context.Context, t core.Transaction) error {
	event := amqp.NewTransactionEvent(t)
	select {
	case d.events <- event:
		return nil
	default:
		d.dropped.Add(1)
		return fmt.Errorf("dispatch %s: %w", event.EventID, ErrQueueFull)
	}
}

// Dropped returns how many events were rejected because the buffer was full.
func (d *EventDispatcher) Dropped() int64 {
	return d.dropped.Load()
}

// Start begins the dispatch loop. Returns an error if already running.
func (d *EventDispatcher) Start(ctx context.Context) error {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return fmt.Errorf("event dispatcher is already running")
	}
	d.running = true
	d.stopCh = make(chan struct{})
	d.doneCh = make(chan struct{})
	d.mu.Unlock()

	go d.runLoop(ctx)

	slog.InfoContext(ctx, "Event dispatcher started",
		"buffer_size", d.config.BufferSize,
		"handler_timeout", d.config.HandlerTimeout)
	return nil
}

// Stop drains buffered events and waits for the loop to exit.
func (d *EventDispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return nil
	}
	stopCh, doneCh := d.stopCh, d.doneCh
	d.running = false
	d.mu.Unlock()

	close(stopCh)

	select {
	case <-doneCh:
		slog.InfoContext(ctx, "Event dispatcher stopped gracefully")
		return nil
	case <-ctx.Done():
		slog.WarnContext(ctx, "Event dispatcher stop timed out")
		return ctx.Err()
	}
}

func (d *EventDispatcher) IsRunning() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

func (d *EventDispatcher) runLoop(ctx context.Context) {
	defer close(d.doneCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-d.stopCh:
			d.drain(ctx)
			return
		case event := <-d.events:
			d.handle(ctx, event)
		}
	}
}

func (d *EventDispatcher) drain(ctx context.Context) {
	for {
		select {
		case event := <-d.events:
			d.handle(ctx, event)
		default:
			return
		}
	}
}

func (d *EventDispatcher) handle(ctx context.Context, event *amqp.TransactionEvent) {
	hctx, cancel := context.WithTimeout(ctx, d.config.HandlerTimeout)
	defer cancel()

	if err := d.handler(hctx, event); err != nil {
		slog.ErrorContext(ctx, "Event handler failed",
			"event_id", event.EventID,
			"transaction_id", event.TransactionID,
			"error", err)
	}
}
