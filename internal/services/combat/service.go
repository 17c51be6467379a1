package combat

//go:generate mockgen -destination=mock/mock_service.go -package=mockcombat -source=service.go

import (
	"context"
	"fmt"
	"strings"

	"github.com/KirkDiggler/combat-engine/internal/dice"
	domain "github.com/KirkDiggler/combat-engine/internal/domain/combat"
	engerr "github.com/KirkDiggler/combat-engine/internal/errors"
	"github.com/KirkDiggler/combat-engine/internal/services/condition"
	"github.com/KirkDiggler/combat-engine/internal/services/encounter"
	"github.com/KirkDiggler/combat-engine/internal/services/turn"
)

// Service is the action resolver: it executes one action against an
// encounter, consulting the turn tracker for legality and the condition
// ledger for modifiers, and persists the resulting mutations.
type Service interface {
	// ExecuteAction resolves a single action. Rule violations come back as
	// failed results with a message; errors are reserved for unknown
	// encounters/participants and malformed requests.
	ExecuteAction(ctx context.Context, input *ActionInput) (*ActionResult, error)
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	Encounters encounter.Service
	Conditions condition.Service
	Tracker    *turn.Tracker
	Roller     dice.Roller
}

type service struct {
	encounters encounter.Service
	conditions condition.Service
	tracker    *turn.Tracker
	roller     dice.Roller
}

// NewService creates a new action resolver
func NewService(cfg *ServiceConfig) Service {
	if cfg.Encounters == nil {
		panic("encounter service is required")
	}
	if cfg.Conditions == nil {
		panic("condition service is required")
	}
	if cfg.Tracker == nil {
		panic("turn tracker is required")
	}

	svc := &service{
		encounters: cfg.Encounters,
		conditions: cfg.Conditions,
		tracker:    cfg.Tracker,
		roller:     cfg.Roller,
	}

	if svc.roller == nil {
		svc.roller = dice.NewRandomRoller()
	}

	return svc
}

func (s *service) ExecuteAction(ctx context.Context, input *ActionInput) (*ActionResult, error) {
	if input == nil {
		return nil, engerr.InvalidArgument("input cannot be nil")
	}
	if strings.TrimSpace(input.EncounterID) == "" {
		return nil, engerr.InvalidArgument("encounter ID is required")
	}
	if strings.TrimSpace(input.Actor) == "" {
		return nil, engerr.InvalidArgument("actor is required")
	}

	enc, err := s.encounters.Get(ctx, input.EncounterID)
	if err != nil {
		return nil, err
	}

	actor := enc.FindParticipant(input.Actor)
	if actor == nil {
		return nil, engerr.NotFoundf("actor '%s' not found in encounter '%s'", input.Actor, input.EncounterID)
	}

	var result *ActionResult
	switch input.Action {
	case ActionAttack:
		result, err = s.resolveAttack(enc, actor, input)
	case ActionDash:
		result, err = s.resolveDash(enc, actor, input)
	case ActionDisengage:
		result, err = s.resolveDisengage(enc, actor)
	case ActionDodge:
		result, err = s.resolveDodge(enc, actor)
	case ActionGrapple:
		result, err = s.resolveGrapple(enc, actor, input)
	case ActionShove:
		result, err = s.resolveShove(enc, actor, input)
	case ActionMove:
		result, err = s.resolveMove(enc, actor, input)
	default:
		return &ActionResult{
			Success:          false,
			Action:           input.Action,
			Actor:            actor.ID,
			Message:          fmt.Sprintf("action '%s' is not implemented", input.Action),
			SupportedActions: SupportedActions(),
		}, nil
	}
	if err != nil {
		// Rule violations are normal outcomes, not transport failures.
		// Mutations made before the violation (a hit whose ride-along move
		// overspent the budget) still persist, and the partial payload the
		// handler resolved before failing is kept so callers can see them.
		if engerr.IsRuleViolation(err) {
			if saveErr := s.encounters.Save(ctx, enc); saveErr != nil {
				return nil, saveErr
			}
			if result == nil {
				result = &ActionResult{Action: input.Action, Actor: actor.ID}
			}
			result.Success = false
			result.Message = err.Error()
			return result, nil
		}
		return nil, err
	}

	if err := s.encounters.Save(ctx, enc); err != nil {
		return nil, err
	}

	return result, nil
}

// resolveTarget locates the attack/contest target, which is required
func (s *service) resolveTarget(enc *domain.Encounter, input *ActionInput) (*domain.Participant, error) {
	if strings.TrimSpace(input.Target) == "" {
		return nil, engerr.InvalidArgumentf("%s requires a target", input.Action)
	}

	target := enc.FindParticipant(input.Target)
	if target == nil {
		return nil, engerr.NotFoundf("target '%s' not found in encounter '%s'", input.Target, enc.ID)
	}

	return target, nil
}

// effectiveSpeed returns the actor's condition-adjusted speed
func (s *service) effectiveSpeed(actor *domain.Participant) int {
	return s.conditions.EffectiveStats(actor).Speed
}
