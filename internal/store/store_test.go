package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"countyq/internal/models"
)

func TestStoreSwap(t *testing.T) {
	st := New()

	assert.Nil(t, st.Current())
	assert.False(t, st.Loaded())

	first := &models.Snapshot{Totals: models.Totals{Population: 100}}
	st.Swap(first)

	require.True(t, st.Loaded())
	assert.Same(t, first, st.Current())

	// A swap replaces the snapshot wholesale; the old one is untouched.
	second := &models.Snapshot{Totals: models.Totals{Population: 200}}
	st.Swap(second)

	assert.Same(t, second, st.Current())
	assert.Equal(t, 100.0, first.Totals.Population)
}

func TestStoreConcurrentReaders(t *testing.T) {
	st := New()
	st.Swap(&models.Snapshot{})

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			st.Swap(&models.Snapshot{Totals: models.Totals{Population: float64(i)}})
		}
		close(done)
	}()

	for {
		select {
		case <-done:
			return
		default:
			snap := st.Current()
			require.NotNil(t, snap)
		}
	}
}
