package encounters

import (
	"context"
	"testing"

	"github.com/KirkDiggler/combat-engine/internal/domain/combat"
	engerr "github.com/KirkDiggler/combat-engine/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEncounter(id string) *combat.Encounter {
	return &combat.Encounter{
		ID:    id,
		Round: 1,
		Participants: []*combat.Participant{
			{ID: "p1", Name: "Fighter", CurrentHP: 45, MaxHP: 45, AC: 18},
		},
		Terrain:  combat.DefaultTerrain(),
		Lighting: combat.LightingBright,
	}
}

func TestInMemoryRepository_CreateAndGet(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	err := repo.Create(ctx, testEncounter("enc-1"))
	require.NoError(t, err)

	enc, err := repo.Get(ctx, "enc-1")
	require.NoError(t, err)
	assert.Equal(t, "enc-1", enc.ID)
	assert.Len(t, enc.Participants, 1)
}

func TestInMemoryRepository_CreateDuplicate(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testEncounter("enc-1")))

	err := repo.Create(ctx, testEncounter("enc-1"))
	require.Error(t, err)
	assert.True(t, engerr.IsAlreadyExists(err))
}

func TestInMemoryRepository_GetMissing(t *testing.T) {
	repo := NewInMemoryRepository()

	_, err := repo.Get(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, engerr.IsNotFound(err))
}

func TestInMemoryRepository_Update(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	enc := testEncounter("enc-1")
	require.NoError(t, repo.Create(ctx, enc))

	enc.Round = 3
	require.NoError(t, repo.Update(ctx, enc))

	got, err := repo.Get(ctx, "enc-1")
	require.NoError(t, err)
	assert.Equal(t, 3, got.Round)

	err = repo.Update(ctx, testEncounter("missing"))
	assert.True(t, engerr.IsNotFound(err))
}

func TestInMemoryRepository_Delete(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testEncounter("enc-1")))
	require.NoError(t, repo.Delete(ctx, "enc-1"))

	_, err := repo.Get(ctx, "enc-1")
	assert.True(t, engerr.IsNotFound(err))

	err = repo.Delete(ctx, "enc-1")
	assert.True(t, engerr.IsNotFound(err))
}

func TestInMemoryRepository_ListAndClear(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testEncounter("enc-1")))
	require.NoError(t, repo.Create(ctx, testEncounter("enc-2")))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, repo.Clear(ctx))

	list, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
