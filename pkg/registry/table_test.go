package registry

import (
	"fmt"
	"sync"
	"testing"

	"github.com/arthur-debert/asprules/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_PutReplaces(t *testing.T) {
	tbl := NewTable[string]()

	require.NoError(t, tbl.Put("png", "image viewer"))
	require.NoError(t, tbl.Put("png", "zhixu-draw"))

	got, ok := tbl.Get("png")
	require.True(t, ok)
	assert.Equal(t, "zhixu-draw", got)
	assert.Equal(t, []string{"png"}, tbl.Keys())
}

func TestTable_EmptyKey(t *testing.T) {
	tbl := NewTable[string]()

	err := tbl.Put("", "x")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	assert.Empty(t, tbl.Keys())
}

func TestTable_GetMissing(t *testing.T) {
	tbl := NewTable[int]()

	got, ok := tbl.Get("md")
	assert.False(t, ok)
	assert.Zero(t, got)
}

func TestTable_KeysSortedAndClear(t *testing.T) {
	tbl := NewTable[int]()
	for i, key := range []string{"zhixu", "md", "pdf"} {
		require.NoError(t, tbl.Put(key, i))
	}

	assert.Equal(t, []string{"md", "pdf", "zhixu"}, tbl.Keys())

	tbl.Clear()
	assert.Empty(t, tbl.Keys())
	_, ok := tbl.Get("md")
	assert.False(t, ok)
}

func TestTable_Concurrency(t *testing.T) {
	tbl := NewTable[int]()
	const goroutines = 10
	const perGoroutine = 100

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func(g int) {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				key := fmt.Sprintf("g%dext%d", g, i)
				assert.NoError(t, tbl.Put(key, i))
				_, _ = tbl.Get(key)
			}
		}(g)
	}
	wg.Wait()

	assert.Len(t, tbl.Keys(), goroutines*perGoroutine)
}
