package turn

import (
	"fmt"
	"strings"
	"sync"

	engerr "github.com/KirkDiggler/combat-engine/internal/errors"
)

// State is the per-turn action economy for one participant in one encounter
type State struct {
	ActionUsed         bool `json:"action_used"`
	BonusActionUsed    bool `json:"bonus_action_used"`
	ReactionUsed       bool `json:"reaction_used"`
	HasDashed          bool `json:"has_dashed"`
	DisengagedThisTurn bool `json:"disengaged_this_turn"`
	IsDodging          bool `json:"is_dodging"`
	MovementUsed       int  `json:"movement_used"` // feet
}

// Tracker owns turn state for every (encounter, participant) pair. States
// are created lazily on first lookup. Mutation happens through the action
// resolver; the encounter manager resets state when turns advance.
type Tracker struct {
	mu     sync.RWMutex
	states map[string]*State
}

// NewTracker creates a new turn tracker
func NewTracker() *Tracker {
	return &Tracker{
		states: make(map[string]*State),
	}
}

func stateKey(encounterID, participantID string) string {
	return fmt.Sprintf("%s:%s", encounterID, participantID)
}

// Get returns the turn state for a participant, creating a zeroed state on
// first reference
func (t *Tracker) Get(encounterID, participantID string) *State {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := stateKey(encounterID, participantID)
	if state, exists := t.states[key]; exists {
		return state
	}

	state := &State{}
	t.states[key] = state
	return state
}

// Reset clears the turn state for a participant, typically when the
// encounter's turn pointer advances past them
func (t *Tracker) Reset(encounterID, participantID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.states, stateKey(encounterID, participantID))
}

// RemoveEncounter drops all turn state belonging to an encounter
func (t *Tracker) RemoveEncounter(encounterID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	prefix := encounterID + ":"
	for key := range t.states {
		if strings.HasPrefix(key, prefix) {
			delete(t.states, key)
		}
	}
}

// Clear drops all turn state
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.states = make(map[string]*State)
}

// MovementBudget returns the feet of movement still available this turn,
// given the participant's effective speed. Dashing doubles the allowance.
func (t *Tracker) MovementBudget(encounterID, participantID string, speed int) int {
	state := t.Get(encounterID, participantID)

	t.mu.RLock()
	defer t.mu.RUnlock()

	allowance := speed
	if state.HasDashed {
		allowance *= 2
	}

	remaining := allowance - state.MovementUsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// SpendMovement consumes feet of movement, rejecting spends that exceed the
// remaining budget rather than clamping them
func (t *Tracker) SpendMovement(encounterID, participantID string, feet, speed int) error {
	if feet < 0 {
		return engerr.InvalidArgument("movement cannot be negative")
	}

	state := t.Get(encounterID, participantID)

	t.mu.Lock()
	defer t.mu.Unlock()

	allowance := speed
	if state.HasDashed {
		allowance *= 2
	}

	if state.MovementUsed+feet > allowance {
		return engerr.RuleViolationf("insufficient movement: %d ft requested, %d ft remaining",
			feet, allowance-state.MovementUsed)
	}

	state.MovementUsed += feet
	return nil
}

// UseAction marks the participant's action as spent
func (t *Tracker) UseAction(encounterID, participantID string) {
	state := t.Get(encounterID, participantID)

	t.mu.Lock()
	defer t.mu.Unlock()
	state.ActionUsed = true
}

// UseBonusAction marks the participant's bonus action as spent
func (t *Tracker) UseBonusAction(encounterID, participantID string) {
	state := t.Get(encounterID, participantID)

	t.mu.Lock()
	defer t.mu.Unlock()
	state.BonusActionUsed = true
}

// UseReaction marks the participant's reaction as spent. Returns false when
// the reaction was already consumed this round.
func (t *Tracker) UseReaction(encounterID, participantID string) bool {
	state := t.Get(encounterID, participantID)

	t.mu.Lock()
	defer t.mu.Unlock()

	if state.ReactionUsed {
		return false
	}
	state.ReactionUsed = true
	return true
}

// MarkDashed doubles the participant's movement allowance for the turn
func (t *Tracker) MarkDashed(encounterID, participantID string) {
	state := t.Get(encounterID, participantID)

	t.mu.Lock()
	defer t.mu.Unlock()
	state.HasDashed = true
}

// MarkDisengaged suppresses opportunity attacks against the participant's
// movement for the rest of the turn
func (t *Tracker) MarkDisengaged(encounterID, participantID string) {
	state := t.Get(encounterID, participantID)

	t.mu.Lock()
	defer t.mu.Unlock()
	state.DisengagedThisTurn = true
}

// SetDodging toggles the dodging flag; incoming attacks roll at
// disadvantage while it is set
func (t *Tracker) SetDodging(encounterID, participantID string, dodging bool) {
	state := t.Get(encounterID, participantID)

	t.mu.Lock()
	defer t.mu.Unlock()
	state.IsDodging = dodging
}
