package notify

import (
	"sync"
	"time"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

type Notification struct {
	ID        int64     `json:"id"`
	Message   string    `json:"message"`
	Level     Level     `json:"level"`
	CreatedAt time.Time `json:"created_at"`
}

// Queue holds transient user-facing messages. Entries expire after a TTL
// or on explicit dismissal; expiry is evaluated lazily on read, so the
// queue needs no background timer.
type Queue struct {
	mu     sync.Mutex
	ttl    time.Duration
	nextID int64
	items  []Notification
	now    func() time.Time
}

func NewQueue(ttl time.Duration) *Queue {
	return &Queue{ttl: ttl, now: time.Now}
}

func (q *Queue) Push(message string, level Level) Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.nextID++
	n := Notification{
		ID:        q.nextID,
		Message:   message,
		Level:     level,
		CreatedAt: q.now(),
	}
	q.items = append(q.items, n)
	return n
}

// Active returns the not-yet-expired notifications in arrival order and
// drops the expired ones.
func (q *Queue) Active() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	cutoff := q.now().Add(-q.ttl)
	kept := q.items[:0]
	for _, n := range q.items {
		if n.CreatedAt.After(cutoff) {
			kept = append(kept, n)
		}
	}
	q.items = kept

	out := make([]Notification, len(q.items))
	copy(out, q.items)
	return out
}

// Dismiss removes a notification by id; no-op if already gone.
func (q *Queue) Dismiss(id int64) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, n := range q.items {
		if n.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return
		}
	}
}
