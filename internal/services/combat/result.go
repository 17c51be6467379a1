package combat

import (
	domain "github.com/KirkDiggler/combat-engine/internal/domain/combat"
)

// ActionKind identifies a combat action
type ActionKind string

const (
	ActionAttack    ActionKind = "attack"
	ActionDash      ActionKind = "dash"
	ActionDisengage ActionKind = "disengage"
	ActionDodge     ActionKind = "dodge"
	ActionGrapple   ActionKind = "grapple"
	ActionShove     ActionKind = "shove"
	ActionMove      ActionKind = "move"
)

// SupportedActions lists every action kind the resolver dispatches on
func SupportedActions() []string {
	return []string{
		string(ActionAttack),
		string(ActionDash),
		string(ActionDisengage),
		string(ActionDodge),
		string(ActionGrapple),
		string(ActionShove),
		string(ActionMove),
	}
}

// Shove directions
const (
	ShoveAway  = "away"
	ShoveProne = "prone"
)

// Attack roll modes
const (
	RollModeManual       = "manual"
	RollModeNormal       = "normal"
	RollModeAdvantage    = "advantage"
	RollModeDisadvantage = "disadvantage"
)

// ActionInput describes one action request against an encounter
type ActionInput struct {
	EncounterID string
	Actor       string // participant ID or case-insensitive name
	Action      ActionKind

	// Attack / grapple / shove
	Target           string
	Weapon           string
	Damage           string // dice expression, e.g. "1d8+3"
	DamageType       string
	Advantage        bool
	Disadvantage     bool
	ManualAttackRoll *int
	ManualDamageRoll *int

	// Movement (attack, dash, and move accept a destination)
	MoveTo *domain.Position

	// Shove
	ShoveDirection string
}

// ActionResult is the structured outcome of one action
type ActionResult struct {
	Success bool       `json:"success"`
	Action  ActionKind `json:"action"`
	Actor   string     `json:"actor"`
	Message string     `json:"message"`

	Attack             *AttackOutcome       `json:"attack,omitempty"`
	Movement           *MovementOutcome     `json:"movement,omitempty"`
	Contest            *ContestOutcome      `json:"contest,omitempty"`
	OpportunityAttacks []*OpportunityAttack `json:"opportunity_attacks,omitempty"`

	// SupportedActions is populated when the action kind is not implemented
	SupportedActions []string `json:"supported_actions,omitempty"`
}

// AttackOutcome details an attack roll and its damage
type AttackOutcome struct {
	Target         string `json:"target"`
	AttackRoll     int    `json:"attack_roll"`
	RollMode       string `json:"roll_mode"`
	Rolls          []int  `json:"rolls,omitempty"`
	TargetAC       int    `json:"target_ac"`
	Hit            bool   `json:"hit"`
	Critical       bool   `json:"critical"`
	Fumble         bool   `json:"fumble"`
	Damage         int    `json:"damage"`
	DamageRolls    []int  `json:"damage_rolls,omitempty"`
	CritRolls      []int  `json:"crit_rolls,omitempty"`
	DamageType     string `json:"damage_type,omitempty"`
	TargetHPBefore int    `json:"target_hp_before"`
	TargetHPAfter  int    `json:"target_hp_after"`
}

// MovementOutcome details a completed move
type MovementOutcome struct {
	From              domain.Position `json:"from"`
	To                domain.Position `json:"to"`
	DistanceFeet      int             `json:"distance_feet"`
	MovementRemaining int             `json:"movement_remaining"`
}

// ContestOutcome details a contested check (grapple, shove)
type ContestOutcome struct {
	Target       string `json:"target"`
	ActorRoll    int    `json:"actor_roll"`
	DefenderRoll int    `json:"defender_roll"`
	ActorWins    bool   `json:"actor_wins"`
	Direction    string `json:"direction,omitempty"`
}

// OpportunityAttack details one reaction attack triggered by movement
type OpportunityAttack struct {
	Attacker      string `json:"attacker"`
	AttackRoll    int    `json:"attack_roll"`
	Hit           bool   `json:"hit"`
	Damage        int    `json:"damage"`
	TargetHPAfter int    `json:"target_hp_after"`
}
