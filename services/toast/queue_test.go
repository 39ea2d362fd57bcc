package toastsvc

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueue(t *testing.T) {
	q := NewQueue(0)
	assert.Empty(t, q.Drain())

	q.Success("saved")
	q.Warning("forbidden")
	q.Error("failed")
	assert.Equal(t, 3, q.Len())
	assert.Equal(t, []Toast{
		{Level: LevelSuccess, Message: "saved"},
		{Level: LevelWarning, Message: "forbidden"},
		{Level: LevelError, Message: "failed"},
	}, q.Drain())
	assert.Zero(t, q.Len())
}

func TestQueue_dropsOldest(t *testing.T) {
	q := NewQueue(2)
	q.Error("1")
	q.Error("2")
	q.Error("3")
	toasts := q.Drain()
	if assert.Len(t, toasts, 2) {
		assert.Equal(t, "2", toasts[0].Message)
		assert.Equal(t, "3", toasts[1].Message)
	}
}

func TestQueue_concurrent(t *testing.T) {
	q := NewQueue(1000)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.Warning("w")
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, q.Len())
}
