package chatbot

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	km := newKeyedMutex()

	var (
		wg      sync.WaitGroup
		counter int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.Lock("+60123456789")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
}

func TestKeyedMutexDistinctKeysIndependent(t *testing.T) {
	km := newKeyedMutex()

	unlockA := km.Lock("+60123456789")
	defer unlockA()

	// Holding one key must not block another.
	done := make(chan struct{})
	go func() {
		unlockB := km.Lock("+14155550100")
		unlockB()
		close(done)
	}()
	<-done
}

func TestKeyedMutexReusesLockPerKey(t *testing.T) {
	km := newKeyedMutex()

	unlock := km.Lock("+60123456789")
	unlock()
	unlock = km.Lock("+60123456789")
	unlock()

	assert.Len(t, km.locks, 1)
}
