package dice_test

import (
	"testing"

	"github.com/KirkDiggler/combat-engine/internal/dice"
	mockdice "github.com/KirkDiggler/combat-engine/internal/dice/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNotation(t *testing.T) {
	tests := []struct {
		name      string
		expr      string
		wantCount int
		wantSides int
		wantBonus int
		wantErr   bool
	}{
		{
			name:      "plain dice",
			expr:      "2d6",
			wantCount: 2,
			wantSides: 6,
		},
		{
			name:      "dice with bonus",
			expr:      "1d8+3",
			wantCount: 1,
			wantSides: 8,
			wantBonus: 3,
		},
		{
			name:      "dice with penalty",
			expr:      "1d4-1",
			wantCount: 1,
			wantSides: 4,
			wantBonus: -1,
		},
		{
			name:      "implicit single die",
			expr:      "d20",
			wantCount: 1,
			wantSides: 20,
		},
		{
			name:      "uppercase and spaces",
			expr:      " 2D10+5 ",
			wantCount: 2,
			wantSides: 10,
			wantBonus: 5,
		},
		{
			name:    "empty",
			expr:    "",
			wantErr: true,
		},
		{
			name:    "garbage",
			expr:    "fireball",
			wantErr: true,
		},
		{
			name:    "zero dice",
			expr:    "0d6",
			wantErr: true,
		},
		{
			name:    "missing sides",
			expr:    "2d",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := dice.ParseNotation(tt.expr)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCount, n.Count)
			assert.Equal(t, tt.wantSides, n.Sides)
			assert.Equal(t, tt.wantBonus, n.Bonus)
		})
	}
}

func TestRandomRoller_Roll(t *testing.T) {
	roller := dice.NewRandomRoller()

	t.Run("results stay in range", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			result, err := roller.Roll(2, 6, 3)
			require.NoError(t, err)
			assert.Len(t, result.Rolls, 2)
			for _, r := range result.Rolls {
				assert.GreaterOrEqual(t, r, 1)
				assert.LessOrEqual(t, r, 6)
			}
			assert.Equal(t, result.RawTotal+3, result.Total)
		}
	})

	t.Run("invalid count", func(t *testing.T) {
		_, err := roller.Roll(0, 6, 0)
		assert.Error(t, err)
	})

	t.Run("invalid sides", func(t *testing.T) {
		_, err := roller.Roll(1, 0, 0)
		assert.Error(t, err)
	})
}

func TestManualMockRoller(t *testing.T) {
	t.Run("roll consumes predetermined dice", func(t *testing.T) {
		roller := mockdice.NewManualMockRoller()
		roller.SetRolls([]int{4, 5})

		result, err := roller.Roll(2, 6, 3)
		require.NoError(t, err)
		assert.Equal(t, 12, result.Total) // 4+5+3
		assert.Equal(t, []int{4, 5}, result.Rolls)
		assert.Equal(t, 2, roller.DiceRolled())
	})

	t.Run("runs out of rolls", func(t *testing.T) {
		roller := mockdice.NewManualMockRoller()
		roller.SetRolls([]int{10})

		_, err := roller.Roll(2, 6, 0)
		assert.Error(t, err)
	})

	t.Run("advantage keeps higher", func(t *testing.T) {
		roller := mockdice.NewManualMockRoller()
		roller.SetRolls([]int{8, 17})

		result, err := roller.RollWithAdvantage(20, 2)
		require.NoError(t, err)
		assert.Equal(t, 19, result.Total)
		assert.Equal(t, 17, result.RawTotal)
		assert.Equal(t, []int{8, 17}, result.Rolls)
	})

	t.Run("disadvantage keeps lower", func(t *testing.T) {
		roller := mockdice.NewManualMockRoller()
		roller.SetRolls([]int{8, 17})

		result, err := roller.RollWithDisadvantage(20, 0)
		require.NoError(t, err)
		assert.Equal(t, 8, result.Total)
	})

	t.Run("natural twenty flags crit", func(t *testing.T) {
		roller := mockdice.NewManualMockRoller()
		roller.SetNextRoll(20)

		result, err := roller.Roll(1, 20, 5)
		require.NoError(t, err)
		assert.True(t, result.IsCrit)
		assert.False(t, result.IsFumble)
	})

	t.Run("natural one flags fumble", func(t *testing.T) {
		roller := mockdice.NewManualMockRoller()
		roller.SetNextRoll(1)

		result, err := roller.Roll(1, 20, 5)
		require.NoError(t, err)
		assert.True(t, result.IsFumble)
	})
}
