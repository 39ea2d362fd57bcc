// Package toastsvc collects the short messages shown to the person using the client.
package toastsvc

import (
	"sync"

	"github.com/trezcool/projectgl/core"
)

// Toast levels.
const (
	LevelSuccess = "success"
	LevelWarning = "warning"
	LevelError   = "error"
)

type Toast struct {
	Level   string
	Message string
}

// Queue buffers toasts until the next page shows them. Beyond its capacity, the oldest
// toasts are dropped so that notifying never blocks.
type Queue struct {
	mu     sync.Mutex
	toasts []Toast
	max    int
}

var _ core.Notifier = (*Queue)(nil)

// DefaultCapacity is the capacity of a Queue created with a non-positive one.
const DefaultCapacity = 20

func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Queue{max: capacity}
}

func (q *Queue) push(level, msg string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.toasts = append(q.toasts, Toast{Level: level, Message: msg})
	if over := len(q.toasts) - q.max; over > 0 {
		q.toasts = append([]Toast(nil), q.toasts[over:]...)
	}
}

func (q *Queue) Success(msg string) { q.push(LevelSuccess, msg) }
func (q *Queue) Warning(msg string) { q.push(LevelWarning, msg) }
func (q *Queue) Error(msg string)   { q.push(LevelError, msg) }

// Drain returns the buffered toasts, oldest first, and empties the queue.
func (q *Queue) Drain() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	toasts := q.toasts
	q.toasts = nil
	return toasts
}

// Len returns how many toasts are buffered.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.toasts)
}
