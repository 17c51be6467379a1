package combat

import (
	"strings"
	"time"
)

// Lighting describes the ambient light level of an encounter
type Lighting string

const (
	LightingBright Lighting = "bright"
	LightingDim    Lighting = "dim"
	LightingDark   Lighting = "dark"
)

// Size is a creature size category
type Size string

const (
	SizeTiny   Size = "tiny"
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
	SizeHuge   Size = "huge"
)

// Position is a square on the encounter grid
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z,omitempty"`
}

// Chebyshev returns the grid distance between two positions in squares
func Chebyshev(a, b Position) int {
	dx := abs(a.X - b.X)
	dy := abs(a.Y - b.Y)
	if dx > dy {
		return dx
	}
	return dy
}

// DistanceFeet returns the distance between two positions in feet (5 ft per square)
func DistanceFeet(a, b Position) int {
	return Chebyshev(a, b) * FeetPerSquare
}

const (
	// FeetPerSquare is the grid scale
	FeetPerSquare = 5

	// MeleeReachSquares is the reach, in squares, used for opportunity attacks
	MeleeReachSquares = 1

	// DefaultSpeed is the walking speed assumed when a participant omits one
	DefaultSpeed = 30

	// DefaultAC is the armor class assumed when a participant omits one
	DefaultAC = 10
)

// Participant is one combatant inside an encounter
type Participant struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	CurrentHP           int      `json:"current_hp"`
	MaxHP               int      `json:"max_hp"`
	AC                  int      `json:"ac"`
	Initiative          int      `json:"initiative"`
	InitiativeBonus     int      `json:"initiative_bonus"`
	Position            Position `json:"position"`
	Speed               int      `json:"speed"`
	Size                Size     `json:"size"`
	IsEnemy             bool     `json:"is_enemy"`
	Resistances         []string `json:"resistances,omitempty"`
	Immunities          []string `json:"immunities,omitempty"`
	Vulnerabilities     []string `json:"vulnerabilities,omitempty"`
	ConditionImmunities []string `json:"condition_immunities,omitempty"`
	Surprised           bool     `json:"surprised,omitempty"`
}

// IsAlive returns true if the participant has more than 0 HP
func (p *Participant) IsAlive() bool {
	return p.CurrentHP > 0
}

// ApplyDamage reduces current HP, clamped at 0
func (p *Participant) ApplyDamage(damage int) {
	if damage < 0 {
		return
	}
	p.CurrentHP -= damage
	if p.CurrentHP < 0 {
		p.CurrentHP = 0
	}
}

// Heal restores hit points, clamped at MaxHP
func (p *Participant) Heal(amount int) {
	if amount < 0 {
		return
	}
	p.CurrentHP += amount
	if p.CurrentHP > p.MaxHP {
		p.CurrentHP = p.MaxHP
	}
}

// Hazard is a dangerous square on the battlefield
type Hazard struct {
	Position Position `json:"position"`
	Type     string   `json:"type"`
	Damage   string   `json:"damage,omitempty"` // dice expression
	DC       int      `json:"dc,omitempty"`
}

// Terrain describes the battlefield grid
type Terrain struct {
	Width            int        `json:"width"`
	Height           int        `json:"height"`
	Obstacles        []Position `json:"obstacles,omitempty"`
	DifficultTerrain []Position `json:"difficult_terrain,omitempty"`
	Water            []Position `json:"water,omitempty"`
	Hazards          []Hazard   `json:"hazards,omitempty"`
}

const (
	MinGridDimension     = 5
	MaxGridDimension     = 100
	DefaultGridDimension = 20
)

// DefaultTerrain returns the terrain used when an encounter omits one
func DefaultTerrain() *Terrain {
	return &Terrain{
		Width:  DefaultGridDimension,
		Height: DefaultGridDimension,
	}
}

// Encounter is one bounded combat scenario. Participants are stored in
// initiative order; TurnIndex points at the participant whose turn it is.
type Encounter struct {
	ID           string         `json:"id"`
	Round        int            `json:"round"`
	Participants []*Participant `json:"participants"`
	TurnIndex    int            `json:"turn_index"`
	Terrain      *Terrain       `json:"terrain"`
	Lighting     Lighting       `json:"lighting"`
	Seed         int64          `json:"seed"`
	CreatedAt    time.Time      `json:"created_at"`
}

// FindParticipant locates a participant by ID or case-insensitive name.
// Returns nil when no participant matches.
func (e *Encounter) FindParticipant(ref string) *Participant {
	for _, p := range e.Participants {
		if p.ID == ref {
			return p
		}
	}
	for _, p := range e.Participants {
		if strings.EqualFold(p.Name, ref) {
			return p
		}
	}
	return nil
}

// CurrentParticipant returns the participant whose turn it is
func (e *Encounter) CurrentParticipant() *Participant {
	if e.TurnIndex < 0 || e.TurnIndex >= len(e.Participants) {
		return nil
	}
	return e.Participants[e.TurnIndex]
}

// AdvanceTurn moves the turn pointer forward, wrapping into a new round
// when it passes the end of the initiative order. Returns true on a wrap.
func (e *Encounter) AdvanceTurn() bool {
	if len(e.Participants) == 0 {
		return false
	}

	e.TurnIndex++
	if e.TurnIndex >= len(e.Participants) {
		e.TurnIndex = 0
		e.Round++
		return true
	}
	return false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
