package names

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/parc/internal/hash"
)

func TestNewTableStockSeeding(t *testing.T) {
	seeded := NewTable(true)
	name, ok := seeded.Lookup(hash.ID("param_root"))
	require.True(t, ok)
	require.Equal(t, "param_root", name)

	empty := NewTable(false)
	require.Equal(t, 0, empty.Len())

	_, ok = empty.Lookup(hash.ID("param_root"))
	require.False(t, ok)
}

func TestTableAddAndLookup(t *testing.T) {
	table := NewTable(false)

	table.Add("CustomSetting")
	name, ok := table.Lookup(hash.ID("CustomSetting"))
	require.True(t, ok)
	require.Equal(t, "CustomSetting", name)

	// Re-adding is idempotent.
	table.Add("CustomSetting")
	require.Equal(t, 1, table.Len())
}

func TestDefaultTableIsShared(t *testing.T) {
	require.Same(t, Default(), Default())
}

func TestTableConcurrentAdd(t *testing.T) {
	table := NewTable(false)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				table.Add(fmt.Sprintf("Name_%d_%d", n, j))
			}
		}(i)
	}
	wg.Wait()

	require.Equal(t, 800, table.Len())

	name, ok := table.Lookup(hash.ID("Name_3_42"))
	require.True(t, ok)
	require.Equal(t, "Name_3_42", name)
}
