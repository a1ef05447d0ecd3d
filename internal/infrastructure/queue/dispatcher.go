package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sirpyerre/pizza-delivery-api/internal/api/metrics"
	"github.com/sirpyerre/pizza-delivery-api/internal/core/domain"
	"github.com/sirpyerre/pizza-delivery-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	writeTimeout   = 5 * time.Second
)

// Dispatcher moves order audit events off the request path. Events are sharded
// by order id so the trail of a single order is written in publish order.
type Dispatcher struct {
	workers []chan domain.OrderEvent
	repo    ports.AuditRepository
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, repo ports.AuditRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.OrderEvent, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.OrderEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers exit once Close has drained
// their channel.
func (d *Dispatcher) Start() {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(i, ch)
	}
}

// Publish hands an event to its worker without blocking. The event is dropped
// when the worker is saturated or the dispatcher is closed.
func (d *Dispatcher) Publish(event domain.OrderEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(event, "dispatcher closed")
		return
	}

	idx := d.shardIndex(event.OrderID)
	select {
	case d.workers[idx] <- event:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		d.drop(event, "queue full")
	}
}

// Close stops accepting events and waits for queued ones to be written, or for
// ctx to expire.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
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

// shardIndex maps an order id deterministically to a worker index.
func (d *Dispatcher) shardIndex(orderID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(orderID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) drop(event domain.OrderEvent, reason string) {
	metrics.AuditEventsTotal.WithLabelValues("dropped").Inc()
	d.log.Warn().
		Str("order_id", event.OrderID).
		Str("type", string(event.Type)).
		Str("reason", reason).
		Msg("audit event dropped")
}

func (d *Dispatcher) runWorker(id int, ch <-chan domain.OrderEvent) {
	defer d.wg.Done()
	depth := metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(id))

	for event := range ch {
		depth.Set(float64(len(ch)))

		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		start := time.Now()
		err := d.repo.InsertEvent(ctx, &event)
		cancel()
		metrics.AuditWriteDuration.Observe(time.Since(start).Seconds())

		if err != nil {
			metrics.AuditEventsTotal.WithLabelValues("failed").Inc()
			d.log.Error().Err(err).
				Str("order_id", event.OrderID).
				Int("worker_id", id).
				Msg("audit event write failed")
			continue
		}
		metrics.AuditEventsTotal.WithLabelValues("stored").Inc()
	}
}
