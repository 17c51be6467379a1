package conditions

import "time"

// ConditionType represents a type of condition. The constants below are the
// built-in vocabulary; any other string is treated as a homebrew condition.
type ConditionType string

const (
	Blinded       ConditionType = "blinded"
	Charmed       ConditionType = "charmed"
	Deafened      ConditionType = "deafened"
	Frightened    ConditionType = "frightened"
	Grappled      ConditionType = "grappled"
	Incapacitated ConditionType = "incapacitated"
	Invisible     ConditionType = "invisible"
	Paralyzed     ConditionType = "paralyzed"
	Petrified     ConditionType = "petrified"
	Poisoned      ConditionType = "poisoned"
	Prone         ConditionType = "prone"
	Restrained    ConditionType = "restrained"
	Stunned       ConditionType = "stunned"
	Unconscious   ConditionType = "unconscious"
	Exhaustion    ConditionType = "exhaustion" // Has levels 1-6

	// RemoveAll is the pseudo-type accepted by remove operations
	RemoveAll ConditionType = "all"
)

const (
	// MinExhaustionLevel and MaxExhaustionLevel bound the exhaustion track
	MinExhaustionLevel = 1
	MaxExhaustionLevel = 6
)

// DurationType defines how long a condition lasts
type DurationType string

const (
	// DurationNone means the condition persists until removed
	DurationNone DurationType = ""

	// DurationRounds lasts a numeric number of rounds and ticks down
	DurationRounds DurationType = "rounds"

	// Symbolic durations never tick; an external event ends them
	DurationConcentration  DurationType = "concentration"
	DurationUntilDispelled DurationType = "until_dispelled"
	DurationUntilRest      DurationType = "until_rest"
	DurationSaveEnds       DurationType = "save_ends"
)

// IsSymbolic reports whether the duration is one of the named non-numeric kinds
func (d DurationType) IsSymbolic() bool {
	switch d {
	case DurationConcentration, DurationUntilDispelled, DurationUntilRest, DurationSaveEnds:
		return true
	}
	return false
}

// ActiveCondition is one status effect applied to a target
type ActiveCondition struct {
	Target string        `json:"target"`
	Type   ConditionType `json:"type"`
	Source string        `json:"source,omitempty"`

	DurationType    DurationType `json:"duration_type,omitempty"`
	Rounds          int          `json:"rounds,omitempty"`           // initial round count for numeric durations
	RoundsRemaining int          `json:"rounds_remaining,omitempty"` // ticks down for numeric durations only

	Level       int    `json:"level,omitempty"` // exhaustion only, 1-6
	SaveDC      int    `json:"save_dc,omitempty"`
	SaveAbility string `json:"save_ability,omitempty"`

	// Override replaces the built-in effect lookup when set
	Override *ConditionEffect `json:"override,omitempty"`

	AppliedAt time.Time `json:"applied_at"`
}

// HasNumericDuration reports whether the condition ticks down each round
func (c *ActiveCondition) HasNumericDuration() bool {
	return c.DurationType == DurationRounds
}

// ConditionEffect describes the mechanical consequences of a condition
type ConditionEffect struct {
	HPMaxMultiplier float64  `json:"hp_max_multiplier,omitempty"` // 0 means unset
	HPMaxModifier   int      `json:"hp_max_modifier,omitempty"`
	SpeedMultiplier float64  `json:"speed_multiplier,omitempty"` // 0 means unset
	SpeedModifier   int      `json:"speed_modifier,omitempty"`
	ACModifier      int      `json:"ac_modifier,omitempty"`
	CannotMove      bool     `json:"cannot_move,omitempty"` // forces speed to 0 regardless of multiplier
	Incapacitated   bool     `json:"incapacitated,omitempty"`
	Dead            bool     `json:"dead,omitempty"`
	DisadvantageOn  []string `json:"disadvantage_on,omitempty"` // attack_rolls, ability_checks, ...
	AutoFailSaves   []string `json:"auto_fail_saves,omitempty"` // str, dex
	Notes           []string `json:"notes,omitempty"`           // freeform extras, e.g. "can only crawl"
}

// Check and save labels used in effect derivations
const (
	EffectAttackRolls   = "attack_rolls"
	EffectAbilityChecks = "ability_checks"
	EffectSavingThrows  = "saving_throws"
	EffectDexSaves      = "dex_saves"

	SaveStr = "str"
	SaveDex = "dex"
)

// EffectiveStats is the derived, condition-modified view of a target's
// stats. It is recomputed on demand and never stored.
type EffectiveStats struct {
	Target     string   `json:"target"`
	BaseMaxHP  int      `json:"base_max_hp"`
	MaxHP      int      `json:"max_hp"`
	BaseSpeed  int      `json:"base_speed"`
	Speed      int      `json:"speed"`
	BaseAC     int      `json:"base_ac"`
	AC         int      `json:"ac"`
	CannotMove bool     `json:"cannot_move,omitempty"`
	Dead       bool     `json:"dead,omitempty"`
	Conditions []string `json:"conditions"`
	Notes      []string `json:"notes"`
}
