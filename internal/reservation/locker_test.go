package reservation

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLocker_SerializesSameKey(t *testing.T) {
	l := NewLocker()
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := l.Lock(machineKey(1))
			defer unlock()

			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Equal(t, 0, l.Len(), "released keys should be dropped")
}

func TestLocker_IndependentKeys(t *testing.T) {
	l := NewLocker()
	unlockA := l.Lock(machineKey(1))
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock := l.Lock(machineKey(2))
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on another machine should not block")
	}
	assert.Equal(t, 1, l.Len())
}

func TestLockKeys(t *testing.T) {
	assert.Equal(t, "machine:7", machineKey(7))
	assert.Equal(t, "user:7", userKey(7))
	assert.NotEqual(t, machineKey(7), userKey(7))
}
