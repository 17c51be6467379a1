package mockdice

import (
	"fmt"
	"sync"

	"github.com/KirkDiggler/combat-engine/internal/dice"
)

// ManualMockRoller implements dice.Roller for testing with predetermined results
type ManualMockRoller struct {
	mu        sync.Mutex
	rolls     []int
	rollIndex int
	callCount int
}

// NewManualMockRoller creates a new mock dice roller
func NewManualMockRoller() *ManualMockRoller {
	return &ManualMockRoller{
		rolls: []int{},
	}
}

// SetNextRoll sets the next roll result
func (m *ManualMockRoller) SetNextRoll(roll int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rolls = append(m.rolls, roll)
}

// SetRolls sets multiple roll results
func (m *ManualMockRoller) SetRolls(rolls []int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rolls = rolls
	m.rollIndex = 0
	m.callCount = 0
}

// Reset clears all rolls and resets the index
func (m *ManualMockRoller) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rolls = []int{}
	m.rollIndex = 0
	m.callCount = 0
}

// DiceRolled returns how many individual dice were consumed
func (m *ManualMockRoller) DiceRolled() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// getNextRoll returns the next predetermined roll
func (m *ManualMockRoller) getNextRoll() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.rollIndex >= len(m.rolls) {
		return 0, fmt.Errorf("no more predetermined rolls available (used %d of %d)", m.rollIndex, len(m.rolls))
	}

	roll := m.rolls[m.rollIndex]
	m.rollIndex++
	m.callCount++
	return roll, nil
}

// Roll implements dice.Roller.Roll using predetermined results
func (m *ManualMockRoller) Roll(count, sides, bonus int) (*dice.RollResult, error) {
	total := 0
	rolls := make([]int, count)
	for i := 0; i < count; i++ {
		r, err := m.getNextRoll()
		if err != nil {
			return nil, err
		}
		rolls[i] = r
		total += r
	}

	result := &dice.RollResult{
		Total:    total + bonus,
		Rolls:    rolls,
		Bonus:    bonus,
		Count:    count,
		Sides:    sides,
		RawTotal: total,
	}

	if count == 1 && sides == 20 {
		result.IsCrit = rolls[0] == 20
		result.IsFumble = rolls[0] == 1
	}

	return result, nil
}

// RollWithAdvantage consumes two predetermined rolls and keeps the higher
func (m *ManualMockRoller) RollWithAdvantage(sides, bonus int) (*dice.RollResult, error) {
	roll1, err := m.getNextRoll()
	if err != nil {
		return nil, err
	}
	roll2, err := m.getNextRoll()
	if err != nil {
		return nil, err
	}

	kept := roll1
	if roll2 > roll1 {
		kept = roll2
	}

	result := &dice.RollResult{
		Total:    kept + bonus,
		Rolls:    []int{roll1, roll2},
		Bonus:    bonus,
		Count:    1,
		Sides:    sides,
		RawTotal: kept,
	}

	if sides == 20 {
		result.IsCrit = kept == 20
		result.IsFumble = kept == 1
	}

	return result, nil
}

// RollWithDisadvantage consumes two predetermined rolls and keeps the lower
func (m *ManualMockRoller) RollWithDisadvantage(sides, bonus int) (*dice.RollResult, error) {
	roll1, err := m.getNextRoll()
	if err != nil {
		return nil, err
	}
	roll2, err := m.getNextRoll()
	if err != nil {
		return nil, err
	}

	kept := roll1
	if roll2 < roll1 {
		kept = roll2
	}

	result := &dice.RollResult{
		Total:    kept + bonus,
		Rolls:    []int{roll1, roll2},
		Bonus:    bonus,
		Count:    1,
		Sides:    sides,
		RawTotal: kept,
	}

	if sides == 20 {
		result.IsCrit = kept == 20
		result.IsFumble = kept == 1
	}

	return result, nil
}
