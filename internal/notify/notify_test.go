package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPushAndActive(t *testing.T) {
	q := NewQueue(3 * time.Second)

	q.Push("added to cart", LevelSuccess)
	q.Push("coupon rejected", LevelError)

	active := q.Active()
	assert.Len(t, active, 2)
	assert.Equal(t, "added to cart", active[0].Message)
	assert.Equal(t, LevelError, active[1].Level)
}

func TestAutoExpire(t *testing.T) {
	q := NewQueue(3 * time.Second)
	current := time.Now()
	q.now = func() time.Time { return current }

	q.Push("old", LevelInfo)
	current = current.Add(2 * time.Second)
	q.Push("new", LevelInfo)
	current = current.Add(2 * time.Second)

	active := q.Active()
	assert.Len(t, active, 1)
	assert.Equal(t, "new", active[0].Message)
}

func TestDismiss(t *testing.T) {
	q := NewQueue(time.Minute)

	n1 := q.Push("one", LevelInfo)
	q.Push("two", LevelInfo)

	q.Dismiss(n1.ID)
	q.Dismiss(999) // unknown id is a no-op

	active := q.Active()
	assert.Len(t, active, 1)
	assert.Equal(t, "two", active[0].Message)
}

func TestIDsAreMonotonic(t *testing.T) {
	q := NewQueue(time.Minute)

	a := q.Push("a", LevelInfo)
	b := q.Push("b", LevelInfo)
	assert.Greater(t, b.ID, a.ID)
}
