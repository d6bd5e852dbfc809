package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event announces that student records changed. Consumers treat it as
// "re-fetch the student list", never as data to trust directly.
type Event struct {
	ID string    `json:"id"`
	At time.Time `json:"at"`
}

// Notifier is the abstraction over different backends.
type Notifier interface {
	StudentsChanged(ctx context.Context) error
	// Subscribe streams change events until ctx is done.
	Subscribe(ctx context.Context) (<-chan Event, error)
}

// InMemory is a minimal fan-out notifier for dev/testing.
type InMemory struct {
	mu   sync.Mutex
	subs []chan Event
}

// NewInMemory creates an in-memory notifier.
func NewInMemory() *InMemory {
	return &InMemory{}
}

// StudentsChanged fans the event out to all subscribers. Slow
// subscribers drop events rather than blocking the publisher.
func (n *InMemory) StudentsChanged(ctx context.Context) error {
	evt := Event{ID: uuid.NewString(), At: time.Now().UTC()}
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, ch := range n.subs {
		select {
		case ch <- evt:
		default:
		}
	}
	return nil
}

// Subscribe returns a channel closed when ctx is done.
func (n *InMemory) Subscribe(ctx context.Context) (<-chan Event, error) {
	ch := make(chan Event, 8)
	n.mu.Lock()
	n.subs = append(n.subs, ch)
	n.mu.Unlock()

	go func() {
		<-ctx.Done()
		n.mu.Lock()
		for i, sub := range n.subs {
			if sub == ch {
				n.subs = append(n.subs[:i], n.subs[i+1:]...)
				break
			}
		}
		n.mu.Unlock()
		close(ch)
	}()
	return ch, nil
}
