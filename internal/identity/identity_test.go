package identity

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllocator_PrefixAndKind(t *testing.T) {
	a := NewAllocator()

	id := a.NewTempID(KindCard)
	assert.True(t, strings.HasPrefix(id, "temp-card-"), "id %q must carry prefix and kind", id)
	assert.True(t, IsTempID(id))

	assert.True(t, strings.HasPrefix(a.NewTempID(KindColumn), "temp-column-"))
	assert.True(t, strings.HasPrefix(a.NewTempID(KindLabel), "temp-label-"))
	assert.True(t, strings.HasPrefix(a.NewTempID(KindBoard), "temp-board-"))
}

func TestAllocator_Unique(t *testing.T) {
	a := NewAllocator()
	const goroutines = 50
	const perGoroutine = 100

	var wg sync.WaitGroup
	ids := make(chan string, goroutines*perGoroutine)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				ids <- a.NewTempID(KindCard)
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		assert.False(t, seen[id], "id %q minted twice", id)
		seen[id] = true
	}
	assert.Len(t, seen, goroutines*perGoroutine)
}

func TestIsTempID(t *testing.T) {
	assert.True(t, IsTempID("temp-card-1714000000000-1"))
	assert.False(t, IsTempID("4e9c2a7e-9be2-4a8f-8a6a-1f2f3d4c5b6a"), "server uuids are never temporary")
	assert.False(t, IsTempID(""))
	assert.False(t, IsTempID("card-temp-1"), "prefix must be leading")
}

func TestSequenceGenerator_Deterministic(t *testing.T) {
	g := NewSequenceGenerator()
	assert.Equal(t, "temp-card-1", g.NewTempID(KindCard))
	assert.Equal(t, "temp-column-2", g.NewTempID(KindColumn))
	assert.Equal(t, "temp-card-3", g.NewTempID(KindCard))
}
