// Package notify fans change signals out to subscribers. Signals carry no
// payload; a subscriber that is busy when several arrive sees them as one.
package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/jury/pkg/logger"
	"github.com/okian/jury/pkg/metrics"
)

// Handler runs after a change has been committed.
type Handler func(ctx context.Context)

// Notifier delivers change signals to subscribers.
type Notifier struct {
	mu     sync.Mutex
	subs   map[uint64]*subscriber
	nextID uint64
	closed bool
	wg     sync.WaitGroup
	logger logger.Logger
}

type subscriber struct {
	id      uint64
	handler Handler
	// pending holds at most one undelivered signal.
	pending  chan struct{}
	shutdown chan struct{}
	once     sync.Once
}

// New returns a notifier with no subscribers.
func New(opts ...Option) *Notifier {
	n := &Notifier{
		subs:   make(map[uint64]*subscriber),
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	n.logger = n.logger.Named("notify")
	return n
}

// Subscribe registers handler and starts its worker. The returned function
// removes the subscription; calling it more than once is harmless.
func (n *Notifier) Subscribe(handler Handler) (unsubscribe func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed || handler == nil {
		return func() {}
	}
	n.nextID++
	s := &subscriber{
		id:       n.nextID,
		handler:  handler,
		pending:  make(chan struct{}, 1),
		shutdown: make(chan struct{}),
	}
	n.subs[s.id] = s
	metrics.UpdateSubscriberCount(len(n.subs))

	n.wg.Add(1)
	go n.run(s)

	return func() { n.remove(s) }
}

// Publish signals every subscriber. It never blocks.
func (n *Notifier) Publish() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	metrics.RecordNotifyPublished()
	for _, s := range n.subs {
		select {
		case s.pending <- struct{}{}:
		default:
			metrics.RecordNotifyCoalesced()
		}
	}
}

// Subscribers reports the number of live subscriptions.
func (n *Notifier) Subscribers() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs)
}

// Close stops every worker and waits for running handlers to return.
// Signals still pending are dropped.
func (n *Notifier) Close() {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	for id, s := range n.subs {
		s.stop()
		delete(n.subs, id)
	}
	metrics.UpdateSubscriberCount(0)
	n.mu.Unlock()
	n.wg.Wait()
}

func (n *Notifier) remove(s *subscriber) {
	n.mu.Lock()
	if _, ok := n.subs[s.id]; ok {
		delete(n.subs, s.id)
		metrics.UpdateSubscriberCount(len(n.subs))
	}
	n.mu.Unlock()
	s.stop()
}

func (s *subscriber) stop() {
	s.once.Do(func() { close(s.shutdown) })
}

func (n *Notifier) run(s *subscriber) {
	defer n.wg.Done()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-s.shutdown
		cancel()
	}()

	for {
		select {
		case <-s.shutdown:
			return
		case <-s.pending:
			n.deliver(ctx, s)
		}
	}
}

func (n *Notifier) deliver(ctx context.Context, s *subscriber) {
	defer func() {
		if r := recover(); r != nil {
			metrics.RecordNotifyPanic()
			n.logger.Error(ctx, "subscriber panicked",
				logger.Int("subscriber", int(s.id)), //nolint:gosec // ids are small
				logger.String("panic", fmt.Sprint(r)),
			)
		}
	}()
	metrics.RecordNotifyDelivered()
	s.handler(ctx)
}
