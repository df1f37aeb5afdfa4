package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Dispatcher queues changes in memory and hands them to a Sink from a single
// background goroutine. When the queue is full the change is dropped and logged.
type Dispatcher struct {
	sink    Sink
	log     *zap.Logger
	queue   chan Change
	timeout time.Duration

	once sync.Once
	done chan struct{}
}

// NewDispatcher creates a dispatcher with room for size pending changes.
func NewDispatcher(sink Sink, size int, log *zap.Logger) *Dispatcher {
	if size <= 0 {
		size = 256
	}
	return &Dispatcher{
		sink:    sink,
		log:     log,
		queue:   make(chan Change, size),
		timeout: 10 * time.Second,
		done:    make(chan struct{}),
	}
}

func (d *Dispatcher) Notify(_ context.Context, c Change) {
	select {
	case d.queue <- c:
	default:
		d.log.Warn("notification queue full, dropping change",
			zap.String("order_id", c.OrderID.String()),
			zap.String("new_status", c.NewStatus))
	}
}

// Run sends queued changes until ctx is cancelled, then flushes what is left.
func (d *Dispatcher) Run(ctx context.Context) {
	defer close(d.done)
	for {
		select {
		case c := <-d.queue:
			d.send(c)
		case <-ctx.Done():
			for {
				select {
				case c := <-d.queue:
					d.send(c)
				default:
					return
				}
			}
		}
	}
}

// Wait blocks until Run has returned.
func (d *Dispatcher) Wait() {
	<-d.done
}

func (d *Dispatcher) send(c Change) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	if err := d.sink.Send(ctx, c); err != nil {
		d.log.Error("notification failed",
			zap.String("order_id", c.OrderID.String()),
			zap.String("new_status", c.NewStatus),
			zap.Error(err))
	}
}
