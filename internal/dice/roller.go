package dice

// Roller provides an interface for rolling dice
// This allows us to inject different implementations for testing
type Roller interface {
	// Roll rolls a number of dice with the given sides and adds a bonus
	Roll(count, sides, bonus int) (*RollResult, error)

	// RollWithAdvantage rolls with advantage (roll twice, take higher)
	RollWithAdvantage(sides, bonus int) (*RollResult, error)

	// RollWithDisadvantage rolls with disadvantage (roll twice, take lower)
	RollWithDisadvantage(sides, bonus int) (*RollResult, error)
}

// RollResult contains detailed information about a dice roll
type RollResult struct {
	Total    int   // Sum of the kept dice plus bonus
	Rolls    []int // Individual die results, including discarded ones
	Bonus    int   // Bonus applied
	Count    int   // Number of dice rolled
	Sides    int   // Number of sides on each die
	RawTotal int   // Total without the bonus
	IsCrit   bool  // Kept d20 die was a natural 20
	IsFumble bool  // Kept d20 die was a natural 1
}
