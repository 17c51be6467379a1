package dice

import (
	"errors"
	"math/rand"
	"strconv"
	"strings"
)

// Notation describes a parsed dice expression such as "2d6+3"
type Notation struct {
	Count int
	Sides int
	Bonus int
}

// ParseNotation parses a dice expression of the form "XdY", "XdY+Z", or "XdY-Z"
func ParseNotation(expr string) (*Notation, error) {
	expr = strings.ToLower(strings.TrimSpace(expr))
	if expr == "" {
		return nil, errors.New("empty dice expression")
	}

	bonus := 0
	dicePart := expr

	if idx := strings.IndexAny(expr, "+-"); idx > 0 {
		b, err := strconv.Atoi(expr[idx:])
		if err != nil {
			return nil, errors.New("invalid dice expression")
		}
		bonus = b
		dicePart = expr[:idx]
	}

	parts := strings.Split(dicePart, "d")
	if len(parts) != 2 {
		return nil, errors.New("invalid dice expression")
	}

	count := 1
	if parts[0] != "" {
		c, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, errors.New("invalid dice expression")
		}
		count = c
	}

	sides, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, errors.New("invalid dice expression")
	}

	if count < 1 {
		return nil, errors.New("invalid dice count")
	}
	if sides < 1 {
		return nil, errors.New("invalid dice size")
	}

	return &Notation{Count: count, Sides: sides, Bonus: bonus}, nil
}

// roll performs the raw dice roll shared by the random roller
func roll(count, sides, bonus int) (*RollResult, error) {
	if count < 1 {
		return nil, errors.New("invalid dice count")
	}
	if sides < 1 {
		return nil, errors.New("invalid dice size")
	}

	total := 0
	rolls := make([]int, count)
	for i := 0; i < count; i++ {
		r := rand.Intn(sides) + 1
		rolls[i] = r
		total += r
	}

	return &RollResult{
		Total:    total + bonus,
		Rolls:    rolls,
		Bonus:    bonus,
		Count:    count,
		Sides:    sides,
		RawTotal: total,
	}, nil
}
