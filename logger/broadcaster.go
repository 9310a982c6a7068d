package logger

import (
	"io"
	"os"
	"sync"
)

const historySize = 200

// Broadcaster is an io.Writer that copies log output to a sink and to every
// subscribed channel. The most recent lines are kept so a new subscriber
// sees what happened just before it connected.
type Broadcaster struct {
	mu          sync.Mutex
	out         io.Writer
	subscribers map[chan string]struct{}
	history     []string
	next        int
	full        bool
}

func NewBroadcaster(out io.Writer) *Broadcaster {
	return &Broadcaster{
		out:         out,
		subscribers: make(map[chan string]struct{}),
		history:     make([]string, historySize),
	}
}

var Instance = NewBroadcaster(os.Stdout)

func (b *Broadcaster) Write(p []byte) (int, error) {
	msg := string(p)

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.out != nil {
		b.out.Write(p)
	}

	b.history[b.next] = msg
	b.next = (b.next + 1) % len(b.history)
	if b.next == 0 {
		b.full = true
	}

	for ch := range b.subscribers {
		// slow readers drop lines instead of stalling the logger
		select {
		case ch <- msg:
		default:
		}
	}
	return len(p), nil
}

// Subscribe returns a channel primed with the buffered history.
func (b *Broadcaster) Subscribe() chan string {
	ch := make(chan string, historySize+100)

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, line := range b.recentLocked() {
		ch <- line
	}
	b.subscribers[ch] = struct{}{}
	return ch
}

func (b *Broadcaster) Unsubscribe(ch chan string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subscribers[ch]; !ok {
		return
	}
	delete(b.subscribers, ch)
	close(ch)
}

// Recent returns the buffered lines, oldest first.
func (b *Broadcaster) Recent() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.recentLocked()
}

func (b *Broadcaster) recentLocked() []string {
	if !b.full {
		return append([]string(nil), b.history[:b.next]...)
	}
	out := make([]string, 0, len(b.history))
	out = append(out, b.history[b.next:]...)
	return append(out, b.history[:b.next]...)
}

func GetWriter() io.Writer {
	return Instance
}
