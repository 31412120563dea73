package tasks

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGroupJoinCollectsAllOutcomes(t *testing.T) {
	g := NewGroup()

	g.Spawn("ok", func() error { return nil })
	g.Spawn("boom", func() error { return errors.New("boom") })
	g.Spawn("slow", func() error {
		time.Sleep(20 * time.Millisecond)
		return nil
	})

	results := g.Join()
	assert.Len(t, results, 3)

	failed := Failed(results)
	assert.Len(t, failed, 1)
	assert.Equal(t, "boom", failed[0].Name)
}

func TestGroupFailureDoesNotCancelSiblings(t *testing.T) {
	g := NewGroup()
	var completed int32

	g.Spawn("fail-fast", func() error { return errors.New("early failure") })
	for i := 0; i < 5; i++ {
		g.Spawn("worker", func() error {
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt32(&completed, 1)
			return nil
		})
	}

	results := g.Join()
	assert.Len(t, results, 6)
	assert.Equal(t, int32(5), atomic.LoadInt32(&completed))
}

func TestEmptyGroup(t *testing.T) {
	g := NewGroup()
	assert.Empty(t, g.Join())
	assert.Empty(t, Failed(nil))
}
