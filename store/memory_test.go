package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raushankrgupta/stylemate-backend/models"
)

func TestMemoryWardrobeAppendAndFetch(t *testing.T) {
	ctx := context.Background()
	wardrobe := NewMemoryWardrobe()

	entries, err := wardrobe.FetchAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	for i := 0; i < 5; i++ {
		err := wardrobe.Append(ctx, models.WardrobeEntry{
			ID:      fmt.Sprintf("entry-%d", i),
			Summary: fmt.Sprintf("outfit %d", i),
		})
		require.NoError(t, err)
	}

	entries, err = wardrobe.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 5)

	for i, entry := range entries {
		assert.Equal(t, fmt.Sprintf("entry-%d", i), entry.ID)
	}
}

func TestMemoryWardrobeFetchReturnsCopy(t *testing.T) {
	ctx := context.Background()
	wardrobe := NewMemoryWardrobe()
	require.NoError(t, wardrobe.Append(ctx, models.WardrobeEntry{ID: "a", Summary: "original"}))

	entries, err := wardrobe.FetchAll(ctx)
	require.NoError(t, err)
	entries[0].Summary = "mutated"

	again, err := wardrobe.FetchAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "original", again[0].Summary)
}
