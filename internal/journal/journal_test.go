package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	journal, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { journal.Close() })
	return journal
}

func TestRecordAndList(t *testing.T) {
	journal := openTestJournal(t)
	ctx := context.Background()
	base := time.Date(2024, time.May, 6, 9, 0, 0, 0, time.UTC)

	first := &Entry{
		StartedAt: base,
		StoppedAt: base.Add(26 * time.Minute),
		Elapsed:   25*time.Minute + 300*time.Millisecond,
		Target:    25 * time.Minute,
		HasTarget: true,
		Completed: true,
	}
	second := &Entry{
		StartedAt: base.Add(time.Hour),
		StoppedAt: base.Add(time.Hour + 10*time.Minute),
		Elapsed:   10 * time.Minute,
	}
	require.NoError(t, journal.Record(ctx, first))
	require.NoError(t, journal.Record(ctx, second))
	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)

	entries, err := journal.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, second.ID, entries[0].ID)
	assert.False(t, entries[0].HasTarget)
	assert.False(t, entries[0].Completed)

	assert.Equal(t, first.ID, entries[1].ID)
	assert.True(t, entries[1].StartedAt.Equal(first.StartedAt))
	assert.True(t, entries[1].StoppedAt.Equal(first.StoppedAt))
	assert.Equal(t, first.Elapsed, entries[1].Elapsed)
	assert.Equal(t, first.Target, entries[1].Target)
	assert.True(t, entries[1].HasTarget)
	assert.True(t, entries[1].Completed)

	limited, err := journal.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestTotals(t *testing.T) {
	journal := openTestJournal(t)
	ctx := context.Background()
	base := time.Date(2024, time.May, 6, 9, 0, 0, 0, time.UTC)

	for index, completed := range []bool{true, false, true} {
		start := base.Add(time.Duration(index) * time.Hour)
		require.NoError(t, journal.Record(ctx, &Entry{
			StartedAt: start,
			StoppedAt: start.Add(20 * time.Minute),
			Elapsed:   20 * time.Minute,
			Completed: completed,
		}))
	}

	totals, err := journal.Totals(ctx, base.Add(30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, Totals{Sessions: 2, Completed: 1, Elapsed: 40 * time.Minute}, totals)

	empty, err := journal.Totals(ctx, base.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, Totals{}, empty)
}
