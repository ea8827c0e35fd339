package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Marcos-ViniciusDEV/PDV/internal/model"
)

func TestCounterNextIsGaplessUnderConcurrency(t *testing.T) {
	svc := NewCounterService(newMemCounterRepo())
	ctx := context.Background()

	const n = 100
	results := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := svc.Next(ctx, model.CounterCOO)
			require.NoError(t, err)
			results <- v
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int64]bool, n)
	for v := range results {
		assert.False(t, seen[v], "valor duplicado: %d", v)
		seen[v] = true
	}
	for v := int64(1); v <= n; v++ {
		assert.True(t, seen[v], "lacuna na sequência: %d", v)
	}
}

func TestNextSalePairAdvancesBothSequences(t *testing.T) {
	svc := NewCounterService(newMemCounterRepo())
	ctx := context.Background()

	ccf, coo, err := svc.NextSalePair(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), ccf)
	assert.Equal(t, int64(1), coo)

	ccf, coo, err = svc.NextSalePair(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), ccf)
	assert.Equal(t, int64(2), coo)
}

func TestCurrentDoesNotAdvance(t *testing.T) {
	svc := NewCounterService(newMemCounterRepo())
	ctx := context.Background()

	_, err := svc.Next(ctx, model.CounterCRO)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		v, err := svc.Current(ctx, model.CounterCRO)
		require.NoError(t, err)
		assert.Equal(t, int64(1), v)
	}
}
