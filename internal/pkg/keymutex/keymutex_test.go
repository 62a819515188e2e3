// internal/pkg/keymutex/keymutex_test.go
package keymutex

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLockSerializesSameKey(t *testing.T) {
	m := New()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := m.Lock("cart:1")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestDifferentKeysDoNotBlock(t *testing.T) {
	m := New()

	unlockA := m.Lock("cart:1")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := m.Lock("cart:2")
		unlockB()
		close(done)
	}()

	<-done
}

func TestEntriesReleasedAfterLastUnlock(t *testing.T) {
	m := New()

	unlock := m.Lock("cart:1")
	unlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	assert.Empty(t, m.entries)
}
