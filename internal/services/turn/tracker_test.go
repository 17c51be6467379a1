package turn_test

import (
	"testing"

	engerr "github.com/KirkDiggler/combat-engine/internal/errors"
	"github.com/KirkDiggler/combat-engine/internal/services/turn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_LazyCreation(t *testing.T) {
	tracker := turn.NewTracker()

	state := tracker.Get("enc-1", "p1")
	require.NotNil(t, state)
	assert.False(t, state.ActionUsed)
	assert.False(t, state.ReactionUsed)
	assert.Zero(t, state.MovementUsed)

	// Same pair returns the same state
	tracker.UseAction("enc-1", "p1")
	assert.True(t, tracker.Get("enc-1", "p1").ActionUsed)

	// Different participant gets a fresh state
	assert.False(t, tracker.Get("enc-1", "p2").ActionUsed)
}

func TestTracker_SpendMovement(t *testing.T) {
	t.Run("within budget", func(t *testing.T) {
		tracker := turn.NewTracker()

		require.NoError(t, tracker.SpendMovement("enc-1", "p1", 20, 30))
		assert.Equal(t, 20, tracker.Get("enc-1", "p1").MovementUsed)
		assert.Equal(t, 10, tracker.MovementBudget("enc-1", "p1", 30))
	})

	t.Run("over budget is rejected, not clamped", func(t *testing.T) {
		tracker := turn.NewTracker()

		require.NoError(t, tracker.SpendMovement("enc-1", "p1", 25, 30))

		err := tracker.SpendMovement("enc-1", "p1", 10, 30)
		require.Error(t, err)
		assert.True(t, engerr.IsRuleViolation(err))
		assert.Equal(t, 25, tracker.Get("enc-1", "p1").MovementUsed)
	})

	t.Run("dash doubles the allowance", func(t *testing.T) {
		tracker := turn.NewTracker()
		tracker.MarkDashed("enc-1", "p1")

		assert.Equal(t, 60, tracker.MovementBudget("enc-1", "p1", 30))
		require.NoError(t, tracker.SpendMovement("enc-1", "p1", 55, 30))

		err := tracker.SpendMovement("enc-1", "p1", 10, 30)
		assert.True(t, engerr.IsRuleViolation(err))
	})

	t.Run("negative spend is invalid", func(t *testing.T) {
		tracker := turn.NewTracker()

		err := tracker.SpendMovement("enc-1", "p1", -5, 30)
		assert.True(t, engerr.IsInvalidArgument(err))
	})
}

func TestTracker_UseReaction(t *testing.T) {
	tracker := turn.NewTracker()

	assert.True(t, tracker.UseReaction("enc-1", "p1"))
	assert.False(t, tracker.UseReaction("enc-1", "p1"))

	// Reset restores the reaction
	tracker.Reset("enc-1", "p1")
	assert.True(t, tracker.UseReaction("enc-1", "p1"))
}

func TestTracker_Flags(t *testing.T) {
	tracker := turn.NewTracker()

	tracker.MarkDisengaged("enc-1", "p1")
	tracker.SetDodging("enc-1", "p1", true)
	tracker.UseBonusAction("enc-1", "p1")

	state := tracker.Get("enc-1", "p1")
	assert.True(t, state.DisengagedThisTurn)
	assert.True(t, state.IsDodging)
	assert.True(t, state.BonusActionUsed)

	tracker.SetDodging("enc-1", "p1", false)
	assert.False(t, tracker.Get("enc-1", "p1").IsDodging)
}

func TestTracker_Reset(t *testing.T) {
	tracker := turn.NewTracker()

	tracker.UseAction("enc-1", "p1")
	require.NoError(t, tracker.SpendMovement("enc-1", "p1", 30, 30))

	tracker.Reset("enc-1", "p1")

	state := tracker.Get("enc-1", "p1")
	assert.False(t, state.ActionUsed)
	assert.Zero(t, state.MovementUsed)
}

func TestTracker_RemoveEncounter(t *testing.T) {
	tracker := turn.NewTracker()

	tracker.UseAction("enc-1", "p1")
	tracker.UseAction("enc-1", "p2")
	tracker.UseAction("enc-2", "p1")

	tracker.RemoveEncounter("enc-1")

	assert.False(t, tracker.Get("enc-1", "p1").ActionUsed)
	assert.False(t, tracker.Get("enc-1", "p2").ActionUsed)
	assert.True(t, tracker.Get("enc-2", "p1").ActionUsed)
}
