// Package messaging serializes inbound event handling per user.
//
// Conversation state transitions are order-dependent, so a single user's
// events must be handled to completion in arrival order. Different users'
// events may interleave freely. The dispatcher gives each chat id its own
// queue and worker goroutine; while a handler is suspended on an outbound
// call, no other handler can observe that user's state.
package messaging

import (
	"context"
	"log/slog"
	"sync"

	"github.com/notekeep/notekeep/internal/telegram"
)

// Handler processes one inbound update to completion.
type Handler func(ctx context.Context, upd telegram.Update)

// queueCapacity bounds how many updates may be pending per user before
// further ones are dropped. Telegram retries dropped webhook deliveries.
const queueCapacity = 64

// Dispatcher fans inbound updates out to per-user worker goroutines.
type Dispatcher struct {
	handler Handler

	mu     sync.Mutex
	queues map[int64]chan telegram.Update
	closed bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewDispatcher creates a dispatcher that routes updates to the handler.
func NewDispatcher(handler Handler) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		handler: handler,
		queues:  make(map[int64]chan telegram.Update),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Enqueue queues an update for its user's worker, starting the worker on
// first use. Updates without a resolvable chat id are dropped. Returns
// false when the update was dropped (unknown chat, full queue, or stopped
// dispatcher).
func (d *Dispatcher) Enqueue(upd telegram.Update) bool {
	chatID := upd.ChatID()
	if chatID == 0 {
		slog.Debug("Dispatcher dropping update without chat id", "updateID", upd.UpdateID)
		return false
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		slog.Warn("Dispatcher rejecting update after stop", "updateID", upd.UpdateID)
		return false
	}
	queue, ok := d.queues[chatID]
	if !ok {
		queue = make(chan telegram.Update, queueCapacity)
		d.queues[chatID] = queue
		d.wg.Add(1)
		go d.drain(chatID, queue)
		slog.Debug("Dispatcher started worker", "chatID", chatID)
	}
	d.mu.Unlock()

	select {
	case queue <- upd:
		return true
	default:
		slog.Warn("Dispatcher queue full, dropping update", "chatID", chatID, "updateID", upd.UpdateID)
		return false
	}
}

// drain handles one user's updates strictly sequentially.
func (d *Dispatcher) drain(chatID int64, queue chan telegram.Update) {
	defer d.wg.Done()
	for {
		select {
		case <-d.ctx.Done():
			return
		case upd := <-queue:
			d.handler(d.ctx, upd)
		}
	}
}

// Stop rejects further updates and cancels workers. Handlers already
// running finish their current event.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	d.cancel()
	d.wg.Wait()
	slog.Debug("Dispatcher stopped")
}
