package messaging

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/notekeep/notekeep/internal/telegram"
)

func textUpdate(chatID int64, text string) telegram.Update {
	return telegram.Update{
		Message: &telegram.Message{
			Chat: telegram.Chat{ID: chatID},
			Text: text,
		},
	}
}

// collectingHandler records handled updates per chat.
type collectingHandler struct {
	mu    sync.Mutex
	seen  map[int64][]string
	slow  time.Duration
	done  chan struct{}
	count int
	want  int
}

func newCollectingHandler(want int) *collectingHandler {
	return &collectingHandler{
		seen: make(map[int64][]string),
		done: make(chan struct{}),
		want: want,
	}
}

func (h *collectingHandler) handle(ctx context.Context, upd telegram.Update) {
	if h.slow > 0 {
		time.Sleep(h.slow)
	}
	h.mu.Lock()
	chatID := upd.ChatID()
	h.seen[chatID] = append(h.seen[chatID], upd.Message.Text)
	h.count++
	if h.count == h.want {
		close(h.done)
	}
	h.mu.Unlock()
}

func (h *collectingHandler) wait(t *testing.T) {
	t.Helper()
	select {
	case <-h.done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for updates to be handled")
	}
}

func TestDispatcherPerChatOrdering(t *testing.T) {
	const n = 20
	h := newCollectingHandler(n)
	h.slow = time.Millisecond
	d := NewDispatcher(h.handle)
	defer d.Stop()

	for i := 0; i < n; i++ {
		if !d.Enqueue(textUpdate(1, strconv.Itoa(i))) {
			t.Fatalf("enqueue %d rejected", i)
		}
	}
	h.wait(t)

	h.mu.Lock()
	defer h.mu.Unlock()
	got := h.seen[1]
	for i := 0; i < n; i++ {
		if got[i] != strconv.Itoa(i) {
			t.Fatalf("order broken at %d: %v", i, got)
		}
	}
}

func TestDispatcherInterleavesChats(t *testing.T) {
	const perChat = 5
	h := newCollectingHandler(perChat * 2)
	d := NewDispatcher(h.handle)
	defer d.Stop()

	for i := 0; i < perChat; i++ {
		d.Enqueue(textUpdate(1, strconv.Itoa(i)))
		d.Enqueue(textUpdate(2, strconv.Itoa(i)))
	}
	h.wait(t)

	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.seen[1]) != perChat || len(h.seen[2]) != perChat {
		t.Errorf("per-chat counts: %d and %d, want %d each", len(h.seen[1]), len(h.seen[2]), perChat)
	}
	// Each chat's own sequence stays ordered.
	for chat, msgs := range h.seen {
		for i, msg := range msgs {
			if msg != strconv.Itoa(i) {
				t.Errorf("chat %d order broken: %v", chat, msgs)
				break
			}
		}
	}
}

func TestDispatcherDropsUpdatesWithoutChatID(t *testing.T) {
	d := NewDispatcher(func(ctx context.Context, upd telegram.Update) {})
	defer d.Stop()

	if d.Enqueue(telegram.Update{UpdateID: 1}) {
		t.Error("update without a chat id should be dropped")
	}
}

func TestDispatcherRejectsAfterStop(t *testing.T) {
	d := NewDispatcher(func(ctx context.Context, upd telegram.Update) {})
	d.Stop()

	if d.Enqueue(textUpdate(1, "late")) {
		t.Error("enqueue after stop should be rejected")
	}
}

func TestDispatcherStopWaitsForWorkers(t *testing.T) {
	started := make(chan struct{})
	finished := make(chan struct{})
	d := NewDispatcher(func(ctx context.Context, upd telegram.Update) {
		close(started)
		time.Sleep(50 * time.Millisecond)
		close(finished)
	})

	d.Enqueue(textUpdate(1, "work"))
	<-started
	d.Stop()

	select {
	case <-finished:
	default:
		t.Error("Stop returned before the running handler finished")
	}
}
