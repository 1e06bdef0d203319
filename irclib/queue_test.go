package irclib

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQueue_FIFO(t *testing.T) {
	q := NewQueue[string]()

	_, ok := q.Pop()
	require.False(t, ok)

	q.Push("a")
	q.Push("b")
	q.Push("c")
	require.Equal(t, 3, q.Len())

	for _, want := range []string{"a", "b", "c"} {
		got, ok := q.Pop()
		require.True(t, ok)
		require.Equal(t, want, got)
	}

	_, ok = q.Pop()
	require.False(t, ok)
	require.Zero(t, q.Len())
}

func TestQueue_Clear(t *testing.T) {
	q := NewQueue[int]()
	q.Push(1)
	q.Push(2)
	q.Clear()

	_, ok := q.Pop()
	require.False(t, ok)
}

func TestQueue_Concurrent(t *testing.T) {
	q := NewQueue[[2]int]()

	n, m := 8, 1024

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			for j := 0; j < m; j++ {
				q.Push([2]int{i, j})
			}
		}(i)
	}
	wg.Wait()

	require.Equal(t, n*m, q.Len())

	// per-producer order survives interleaving
	next := make([]int, n)
	for {
		item, ok := q.Pop()
		if !ok {
			break
		}
		require.Equal(t, next[item[0]], item[1])
		next[item[0]]++
	}
	for i := range next {
		require.Equal(t, m, next[i])
	}
}
