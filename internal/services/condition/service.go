package condition

import (
	"log"
	"sync"
	"time"

	"github.com/KirkDiggler/combat-engine/internal/domain/combat"
	"github.com/KirkDiggler/combat-engine/internal/domain/conditions"
	engerr "github.com/KirkDiggler/combat-engine/internal/errors"
)

// Service is the condition ledger: it owns active conditions per target and
// derives their mechanical effects on stats
type Service interface {
	// Add applies a condition to a target. Adding a condition the target
	// already has is idempotent except for exhaustion, which stacks.
	Add(input *AddInput) (*AddResult, error)

	// Remove deletes a condition by type, reduces exhaustion by levels, or
	// clears every condition when given conditions.RemoveAll
	Remove(target string, condType conditions.ConditionType, levels int) (*RemoveResult, error)

	// Query returns all active conditions for a target
	Query(target string) []*conditions.ActiveCondition

	// Tick decrements round-based durations, expiring entries that reach zero
	Tick(target string) *TickResult

	// HasCondition checks if a target has a specific condition type
	HasCondition(target string, condType conditions.ConditionType) bool

	// EffectiveStats derives the condition-modified stats for a participant
	EffectiveStats(p *combat.Participant) *conditions.EffectiveStats
}

// AddInput contains data for applying a condition
type AddInput struct {
	Target           string
	Type             conditions.ConditionType
	Source           string
	DurationType     conditions.DurationType
	Rounds           int
	SaveDC           int
	SaveAbility      string
	ExhaustionLevels int
	Override         *conditions.ConditionEffect
}

// AddResult reports the outcome of an add operation
type AddResult struct {
	Condition     *conditions.ActiveCondition
	AlreadyActive bool
}

// RemoveResult reports the outcome of a remove operation
type RemoveResult struct {
	Removed []*conditions.ActiveCondition

	// ExhaustionLevel is the level left after a partial exhaustion removal;
	// zero when the entry was deleted
	ExhaustionLevel int
}

// TickResult reports which conditions expired and which remain
type TickResult struct {
	Expired []*conditions.ActiveCondition
	Active  []*conditions.ActiveCondition
}

type service struct {
	mu     sync.RWMutex
	ledger map[string][]*conditions.ActiveCondition // target -> conditions, in application order
}

// NewService creates a new condition ledger service
func NewService() Service {
	return &service{
		ledger: make(map[string][]*conditions.ActiveCondition),
	}
}

func (s *service) Add(input *AddInput) (*AddResult, error) {
	if input == nil {
		return nil, engerr.InvalidArgument("input cannot be nil")
	}
	if input.Target == "" {
		return nil, engerr.InvalidArgument("target is required")
	}
	if input.Type == "" || input.Type == conditions.RemoveAll {
		return nil, engerr.InvalidArgument("condition type is required")
	}
	if input.DurationType == conditions.DurationRounds && input.Rounds < 1 {
		return nil, engerr.InvalidArgument("round duration must be at least 1")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if input.Type == conditions.Exhaustion {
		return s.addExhaustion(input), nil
	}

	if existing := s.find(input.Target, input.Type); existing != nil {
		return &AddResult{Condition: existing, AlreadyActive: true}, nil
	}

	cond := &conditions.ActiveCondition{
		Target:       input.Target,
		Type:         input.Type,
		Source:       input.Source,
		DurationType: input.DurationType,
		SaveDC:       input.SaveDC,
		SaveAbility:  input.SaveAbility,
		Override:     input.Override,
		AppliedAt:    time.Now(),
	}
	if input.DurationType == conditions.DurationRounds {
		cond.Rounds = input.Rounds
		cond.RoundsRemaining = input.Rounds
	}

	s.ledger[input.Target] = append(s.ledger[input.Target], cond)

	log.Printf("[CONDITIONS] Applied %s to %s (source: %s, duration: %s/%d)",
		cond.Type, cond.Target, cond.Source, cond.DurationType, cond.Rounds)

	return &AddResult{Condition: cond}, nil
}

// addExhaustion stacks exhaustion levels, clamped to the 1-6 track.
// Caller holds the lock.
func (s *service) addExhaustion(input *AddInput) *AddResult {
	levels := input.ExhaustionLevels
	if levels < 1 {
		levels = 1
	}

	if existing := s.find(input.Target, conditions.Exhaustion); existing != nil {
		existing.Level += levels
		if existing.Level > conditions.MaxExhaustionLevel {
			existing.Level = conditions.MaxExhaustionLevel
		}
		log.Printf("[CONDITIONS] %s exhaustion now level %d", input.Target, existing.Level)
		return &AddResult{Condition: existing}
	}

	if levels > conditions.MaxExhaustionLevel {
		levels = conditions.MaxExhaustionLevel
	}

	cond := &conditions.ActiveCondition{
		Target:       input.Target,
		Type:         conditions.Exhaustion,
		Source:       input.Source,
		DurationType: input.DurationType,
		Level:        levels,
		AppliedAt:    time.Now(),
	}
	if input.DurationType == conditions.DurationRounds {
		cond.Rounds = input.Rounds
		cond.RoundsRemaining = input.Rounds
	}
	s.ledger[input.Target] = append(s.ledger[input.Target], cond)

	log.Printf("[CONDITIONS] Applied exhaustion level %d to %s", levels, input.Target)

	return &AddResult{Condition: cond}
}

func (s *service) Remove(target string, condType conditions.ConditionType, levels int) (*RemoveResult, error) {
	if target == "" {
		return nil, engerr.InvalidArgument("target is required")
	}
	if condType == "" {
		return nil, engerr.InvalidArgument("condition type is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if condType == conditions.RemoveAll {
		removed := s.ledger[target]
		delete(s.ledger, target)
		log.Printf("[CONDITIONS] Cleared %d condition(s) from %s", len(removed), target)
		return &RemoveResult{Removed: removed}, nil
	}

	existing := s.find(target, condType)
	if existing == nil {
		return nil, engerr.NotFoundf("condition %s not found on %s", condType, target)
	}

	if condType == conditions.Exhaustion {
		if levels < 1 {
			levels = 1
		}
		existing.Level -= levels
		if existing.Level >= conditions.MinExhaustionLevel {
			log.Printf("[CONDITIONS] %s exhaustion reduced to level %d", target, existing.Level)
			return &RemoveResult{ExhaustionLevel: existing.Level}, nil
		}
		// Fell below level 1, drop the entry entirely
	}

	s.delete(target, existing)
	log.Printf("[CONDITIONS] Removed %s from %s", condType, target)

	return &RemoveResult{Removed: []*conditions.ActiveCondition{existing}}, nil
}

func (s *service) Query(target string) []*conditions.ActiveCondition {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := s.ledger[target]
	out := make([]*conditions.ActiveCondition, len(active))
	copy(out, active)
	return out
}

func (s *service) Tick(target string) *TickResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := &TickResult{}
	var kept []*conditions.ActiveCondition

	for _, cond := range s.ledger[target] {
		if !cond.HasNumericDuration() {
			kept = append(kept, cond)
			result.Active = append(result.Active, cond)
			continue
		}

		cond.RoundsRemaining--
		if cond.RoundsRemaining <= 0 {
			result.Expired = append(result.Expired, cond)
			log.Printf("[CONDITIONS] %s expired on %s", cond.Type, target)
			continue
		}

		kept = append(kept, cond)
		result.Active = append(result.Active, cond)
	}

	if len(kept) == 0 {
		delete(s.ledger, target)
	} else {
		s.ledger[target] = kept
	}

	return result
}

func (s *service) HasCondition(target string, condType conditions.ConditionType) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.find(target, condType) != nil
}

func (s *service) EffectiveStats(p *combat.Participant) *conditions.EffectiveStats {
	s.mu.RLock()
	active := s.ledger[p.ID]
	s.mu.RUnlock()

	return conditions.CalculateEffectiveStats(p.ID, p.MaxHP, p.Speed, p.AC, active)
}

// find returns the active condition of a type, nil when absent.
// Caller holds the lock.
func (s *service) find(target string, condType conditions.ConditionType) *conditions.ActiveCondition {
	for _, cond := range s.ledger[target] {
		if cond.Type == condType {
			return cond
		}
	}
	return nil
}

// delete removes one condition entry. Caller holds the lock.
func (s *service) delete(target string, cond *conditions.ActiveCondition) {
	active := s.ledger[target]
	for i, c := range active {
		if c == cond {
			s.ledger[target] = append(active[:i], active[i+1:]...)
			break
		}
	}
	if len(s.ledger[target]) == 0 {
		delete(s.ledger, target)
	}
}
