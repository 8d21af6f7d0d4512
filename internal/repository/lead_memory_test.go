package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thinktars/playground/internal/entity"
)

func TestLeadMemoryCreateAndGet(t *testing.T) {
	repo := NewLeadMemory()
	ctx := context.Background()

	stored, err := repo.CreateLead(ctx, &entity.Lead{
		ID:      "lead-1",
		Kind:    entity.LeadKindIdea,
		Name:    "Ana",
		Message: "olá",
	})
	require.NoError(t, err)
	assert.Equal(t, "lead-1", stored.ID)

	got, err := repo.GetLeadByID(ctx, "lead-1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)

	_, err = repo.GetLeadByID(ctx, "missing")
	assert.ErrorIs(t, err, entity.ErrLeadNotFound)
}

func TestLeadMemoryListNewestFirst(t *testing.T) {
	repo := NewLeadMemory()
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		_, err := repo.CreateLead(ctx, &entity.Lead{ID: id, Kind: entity.LeadKindGeneric})
		require.NoError(t, err)
	}

	leads, err := repo.ListLeads(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Equal(t, "c", leads[0].ID)
	assert.Equal(t, "b", leads[1].ID)

	leads, err = repo.ListLeads(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "a", leads[0].ID)

	leads, err = repo.ListLeads(ctx, 10, 5)
	require.NoError(t, err)
	assert.Empty(t, leads)
}
