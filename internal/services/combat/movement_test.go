package combat_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/KirkDiggler/combat-engine/internal/domain/combat"
	"github.com/KirkDiggler/combat-engine/internal/domain/conditions"
	engerr "github.com/KirkDiggler/combat-engine/internal/errors"
	combatsvc "github.com/KirkDiggler/combat-engine/internal/services/combat"
	"github.com/KirkDiggler/combat-engine/internal/services/condition"
)

// moveGoblinAway parks the goblin out of melee reach so plain movement
// tests don't trip opportunity attacks
func moveGoblinAway(f *fixture) {
	f.enc.FindParticipant("goblin-1").Position = domain.Position{X: 10, Y: 10}
}

func TestMove_UpdatesPositionAndBudget(t *testing.T) {
	f := newFixture(t)
	moveGoblinAway(f)

	result, err := f.svc.ExecuteAction(context.Background(), &combatsvc.ActionInput{
		EncounterID: "enc-1",
		Actor:       "fighter-1",
		Action:      combatsvc.ActionMove,
		MoveTo:      &domain.Position{X: 4, Y: 3},
	})
	require.NoError(t, err)

	require.NotNil(t, result.Movement)
	assert.Equal(t, 20, result.Movement.DistanceFeet) // Chebyshev(4,3) = 4 squares
	assert.Equal(t, 10, result.Movement.MovementRemaining)
	assert.Equal(t, domain.Position{X: 4, Y: 3}, f.enc.FindParticipant("fighter-1").Position)
}

func TestMove_RemainingBudgetAccumulatesAcrossMoves(t *testing.T) {
	f := newFixture(t)
	moveGoblinAway(f)

	result, err := f.svc.ExecuteAction(context.Background(), &combatsvc.ActionInput{
		EncounterID: "enc-1",
		Actor:       "fighter-1",
		Action:      combatsvc.ActionMove,
		MoveTo:      &domain.Position{X: 2, Y: 0}, // 10 ft
	})
	require.NoError(t, err)
	assert.Equal(t, 20, result.Movement.MovementRemaining)

	result, err = f.svc.ExecuteAction(context.Background(), &combatsvc.ActionInput{
		EncounterID: "enc-1",
		Actor:       "fighter-1",
		Action:      combatsvc.ActionMove,
		MoveTo:      &domain.Position{X: 2, Y: 3}, // 15 ft more
	})
	require.NoError(t, err)
	assert.Equal(t, 5, result.Movement.MovementRemaining)
}

func TestMove_BeyondBudgetFailsWithoutMoving(t *testing.T) {
	f := newFixture(t)
	moveGoblinAway(f)

	result, err := f.svc.ExecuteAction(context.Background(), &combatsvc.ActionInput{
		EncounterID: "enc-1",
		Actor:       "fighter-1",
		Action:      combatsvc.ActionMove,
		MoveTo:      &domain.Position{X: 7, Y: 0}, // 35 ft with a 30 ft budget
	})
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "insufficient movement")
	assert.Equal(t, domain.Position{X: 0, Y: 0}, f.enc.FindParticipant("fighter-1").Position)
}

func TestMove_OffGridRejected(t *testing.T) {
	f := newFixture(t)
	moveGoblinAway(f)

	result, err := f.svc.ExecuteAction(context.Background(), &combatsvc.ActionInput{
		EncounterID: "enc-1",
		Actor:       "fighter-1",
		Action:      combatsvc.ActionMove,
		MoveTo:      &domain.Position{X: -1, Y: 0},
	})
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "outside")
}

func TestMove_RequiresDestination(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ExecuteAction(context.Background(), &combatsvc.ActionInput{
		EncounterID: "enc-1",
		Actor:       "fighter-1",
		Action:      combatsvc.ActionMove,
	})
	require.Error(t, err)
	assert.True(t, engerr.IsInvalidArgument(err))
}

func TestMove_ConditionReducedSpeedLimitsBudget(t *testing.T) {
	f := newFixture(t)
	moveGoblinAway(f)

	// Exhaustion level 2 halves speed to 15 ft
	_, err := f.conditions.Add(&condition.AddInput{
		Target:           "fighter-1",
		Type:             conditions.Exhaustion,
		ExhaustionLevels: 2,
	})
	require.NoError(t, err)

	result, err := f.svc.ExecuteAction(context.Background(), &combatsvc.ActionInput{
		EncounterID: "enc-1",
		Actor:       "fighter-1",
		Action:      combatsvc.ActionMove,
		MoveTo:      &domain.Position{X: 4, Y: 0}, // 20 ft
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "insufficient movement")
}

func TestOpportunityAttack_TriggeredOnLeavingReach(t *testing.T) {
	f := newFixture(t)

	// Goblin attack roll 19 beats the fighter's AC 18; 1d6 damage die is 4
	f.roller.SetRolls([]int{19, 4})

	result, err := f.svc.ExecuteAction(context.Background(), &combatsvc.ActionInput{
		EncounterID: "enc-1",
		Actor:       "fighter-1",
		Action:      combatsvc.ActionMove,
		MoveTo:      &domain.Position{X: 4, Y: 0},
	})
	require.NoError(t, err)

	require.Len(t, result.OpportunityAttacks, 1)
	oa := result.OpportunityAttacks[0]
	assert.Equal(t, "goblin-1", oa.Attacker)
	assert.Equal(t, 19, oa.AttackRoll)
	assert.True(t, oa.Hit)
	assert.Equal(t, 6, oa.Damage) // 1d6+2
	assert.Equal(t, 39, oa.TargetHPAfter)
	assert.Equal(t, 39, f.enc.FindParticipant("fighter-1").CurrentHP)

	// The reaction is spent
	assert.True(t, f.tracker.Get("enc-1", "goblin-1").ReactionUsed)
}

func TestOpportunityAttack_MissDealsNoDamage(t *testing.T) {
	f := newFixture(t)
	f.roller.SetRolls([]int{12}) // below AC 18, no damage roll follows

	result, err := f.svc.ExecuteAction(context.Background(), &combatsvc.ActionInput{
		EncounterID: "enc-1",
		Actor:       "fighter-1",
		Action:      combatsvc.ActionMove,
		MoveTo:      &domain.Position{X: 4, Y: 0},
	})
	require.NoError(t, err)

	require.Len(t, result.OpportunityAttacks, 1)
	assert.False(t, result.OpportunityAttacks[0].Hit)
	assert.Equal(t, 45, f.enc.FindParticipant("fighter-1").CurrentHP)
}

func TestOpportunityAttack_NotTriggeredWhenStayingInReach(t *testing.T) {
	f := newFixture(t)

	result, err := f.svc.ExecuteAction(context.Background(), &combatsvc.ActionInput{
		EncounterID: "enc-1",
		Actor:       "fighter-1",
		Action:      combatsvc.ActionMove,
		MoveTo:      &domain.Position{X: 0, Y: 1}, // still adjacent to the goblin
	})
	require.NoError(t, err)
	assert.Empty(t, result.OpportunityAttacks)
	assert.Zero(t, f.roller.DiceRolled())
}

func TestOpportunityAttack_SuppressedByDisengage(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ExecuteAction(context.Background(), &combatsvc.ActionInput{
		EncounterID: "enc-1",
		Actor:       "fighter-1",
		Action:      combatsvc.ActionDisengage,
	})
	require.NoError(t, err)

	result, err := f.svc.ExecuteAction(context.Background(), &combatsvc.ActionInput{
		EncounterID: "enc-1",
		Actor:       "fighter-1",
		Action:      combatsvc.ActionMove,
		MoveTo:      &domain.Position{X: 4, Y: 0},
	})
	require.NoError(t, err)
	assert.Empty(t, result.OpportunityAttacks)
	assert.Zero(t, f.roller.DiceRolled())
}

func TestOpportunityAttack_SkippedWhenReactionSpent(t *testing.T) {
	f := newFixture(t)
	f.tracker.UseReaction("enc-1", "goblin-1")

	result, err := f.svc.ExecuteAction(context.Background(), &combatsvc.ActionInput{
		EncounterID: "enc-1",
		Actor:       "fighter-1",
		Action:      combatsvc.ActionMove,
		MoveTo:      &domain.Position{X: 4, Y: 0},
	})
	require.NoError(t, err)
	assert.Empty(t, result.OpportunityAttacks)
}

func TestOpportunityAttack_SkippedForAllies(t *testing.T) {
	f := newFixture(t)
	f.enc.FindParticipant("goblin-1").IsEnemy = false

	result, err := f.svc.ExecuteAction(context.Background(), &combatsvc.ActionInput{
		EncounterID: "enc-1",
		Actor:       "fighter-1",
		Action:      combatsvc.ActionMove,
		MoveTo:      &domain.Position{X: 4, Y: 0},
	})
	require.NoError(t, err)
	assert.Empty(t, result.OpportunityAttacks)
}

func TestOpportunityAttack_SkippedForDownedEnemies(t *testing.T) {
	f := newFixture(t)
	f.enc.FindParticipant("goblin-1").CurrentHP = 0

	result, err := f.svc.ExecuteAction(context.Background(), &combatsvc.ActionInput{
		EncounterID: "enc-1",
		Actor:       "fighter-1",
		Action:      combatsvc.ActionMove,
		MoveTo:      &domain.Position{X: 4, Y: 0},
	})
	require.NoError(t, err)
	assert.Empty(t, result.OpportunityAttacks)
}

func TestOpportunityAttack_MultipleEligibleEnemies(t *testing.T) {
	f := newFixture(t)
	f.enc.Participants = append(f.enc.Participants, &domain.Participant{
		ID:        "goblin-2",
		Name:      "Goblin Archer",
		CurrentHP: 7,
		MaxHP:     7,
		AC:        13,
		Speed:     30,
		IsEnemy:   true,
		Position:  domain.Position{X: 0, Y: 1},
	})

	// Both goblins miss (rolls 5 and 9)
	f.roller.SetRolls([]int{5, 9})

	result, err := f.svc.ExecuteAction(context.Background(), &combatsvc.ActionInput{
		EncounterID: "enc-1",
		Actor:       "fighter-1",
		Action:      combatsvc.ActionMove,
		MoveTo:      &domain.Position{X: 4, Y: 4},
	})
	require.NoError(t, err)
	assert.Len(t, result.OpportunityAttacks, 2)
}
