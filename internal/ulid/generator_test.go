package ulid

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidID(t *testing.T) {
	t.Run("Generated", func(t *testing.T) {
		assert.True(t, ValidID(GenerateID()))
	})

	t.Run("Invalid", func(t *testing.T) {
		assert.False(t, ValidID(""))
		assert.False(t, ValidID("not-a-ulid"))
		// Lowercase form parses but does not round trip to itself.
		assert.False(t, ValidID("01hjk3m5n6p7q8r9s0t1v2w3x4"))
	})
}

func TestGenerateUniqueID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := GenerateID()
		assert.False(t, seen[id], "duplicate id %q", id)
		seen[id] = true
	}
}

func TestGenerateUniqueID_Concurrent(t *testing.T) {
	var (
		mu   sync.Mutex
		seen = make(map[string]bool)
		wg   sync.WaitGroup
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				id := GenerateID()
				mu.Lock()
				assert.False(t, seen[id], "duplicate id %q", id)
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
}

func TestMockGenerator(t *testing.T) {
	MockGenerator("01HMOCKMOCKMOCKMOCKMOCKMOC")
	defer ResetGenerator()

	assert.Equal(t, "01HMOCKMOCKMOCKMOCKMOCKMOC", GenerateID())
	assert.Equal(t, "01HMOCKMOCKMOCKMOCKMOCKMOC", GenerateID())
}
