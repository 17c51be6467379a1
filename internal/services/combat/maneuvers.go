package combat

import (
	"fmt"
	"log"

	domain "github.com/KirkDiggler/combat-engine/internal/domain/combat"
	engerr "github.com/KirkDiggler/combat-engine/internal/errors"
)

func (s *service) resolveDash(enc *domain.Encounter, actor *domain.Participant, input *ActionInput) (*ActionResult, error) {
	s.tracker.UseAction(enc.ID, actor.ID)
	s.tracker.MarkDashed(enc.ID, actor.ID)

	speed := s.effectiveSpeed(actor)
	budget := s.tracker.MovementBudget(enc.ID, actor.ID, speed)

	result := &ActionResult{
		Success: true,
		Action:  ActionDash,
		Actor:   actor.ID,
		Message: fmt.Sprintf("%s dashes, movement for the turn is now %d ft", actor.Name, budget),
	}

	if input.MoveTo != nil {
		movement, oas, err := s.moveParticipant(enc, actor, *input.MoveTo)
		if err != nil {
			// The dash itself stands; only the ride-along move failed
			return result, err
		}
		result.Movement = movement
		result.OpportunityAttacks = oas
		result.Message = fmt.Sprintf("%s dashes to (%d, %d), %d ft of movement remaining",
			actor.Name, movement.To.X, movement.To.Y, movement.MovementRemaining)
	}

	log.Printf("[COMBAT] %s", result.Message)
	return result, nil
}

func (s *service) resolveDisengage(enc *domain.Encounter, actor *domain.Participant) (*ActionResult, error) {
	s.tracker.UseAction(enc.ID, actor.ID)
	s.tracker.MarkDisengaged(enc.ID, actor.ID)

	return &ActionResult{
		Success: true,
		Action:  ActionDisengage,
		Actor:   actor.ID,
		Message: fmt.Sprintf("%s disengages, movement this turn provokes no opportunity attacks", actor.Name),
	}, nil
}

func (s *service) resolveDodge(enc *domain.Encounter, actor *domain.Participant) (*ActionResult, error) {
	s.tracker.UseAction(enc.ID, actor.ID)
	s.tracker.SetDodging(enc.ID, actor.ID, true)

	return &ActionResult{
		Success: true,
		Action:  ActionDodge,
		Actor:   actor.ID,
		Message: fmt.Sprintf("%s dodges, attacks against them have disadvantage until their next turn", actor.Name),
	}, nil
}

func (s *service) resolveGrapple(enc *domain.Encounter, actor *domain.Participant, input *ActionInput) (*ActionResult, error) {
	target, err := s.resolveTarget(enc, input)
	if err != nil {
		return nil, err
	}

	contest, err := s.rollContest(target, input)
	if err != nil {
		return nil, err
	}

	s.tracker.UseAction(enc.ID, actor.ID)

	message := fmt.Sprintf("%s fails to grapple %s (%d vs %d)",
		actor.Name, target.Name, contest.ActorRoll, contest.DefenderRoll)
	if contest.ActorWins {
		// The grappled condition is the caller's to apply via the ledger
		message = fmt.Sprintf("%s grapples %s (%d vs %d)",
			actor.Name, target.Name, contest.ActorRoll, contest.DefenderRoll)
	}
	log.Printf("[COMBAT] %s", message)

	return &ActionResult{
		Success: true,
		Action:  ActionGrapple,
		Actor:   actor.ID,
		Contest: contest,
		Message: message,
	}, nil
}

func (s *service) resolveShove(enc *domain.Encounter, actor *domain.Participant, input *ActionInput) (*ActionResult, error) {
	target, err := s.resolveTarget(enc, input)
	if err != nil {
		return nil, err
	}

	direction := input.ShoveDirection
	if direction == "" {
		direction = ShoveAway
	}
	if direction != ShoveAway && direction != ShoveProne {
		return nil, engerr.InvalidArgumentf("shove direction must be '%s' or '%s'", ShoveAway, ShoveProne)
	}

	contest, err := s.rollContest(target, input)
	if err != nil {
		return nil, err
	}
	contest.Direction = direction

	s.tracker.UseAction(enc.ID, actor.ID)

	result := &ActionResult{
		Success: true,
		Action:  ActionShove,
		Actor:   actor.ID,
		Contest: contest,
	}

	if !contest.ActorWins {
		result.Message = fmt.Sprintf("%s fails to shove %s (%d vs %d)",
			actor.Name, target.Name, contest.ActorRoll, contest.DefenderRoll)
		log.Printf("[COMBAT] %s", result.Message)
		return result, nil
	}

	switch direction {
	case ShoveAway:
		from := target.Position
		target.Position = stepAway(actor.Position, target.Position, enc.Terrain)
		result.Message = fmt.Sprintf("%s shoves %s from (%d, %d) to (%d, %d)",
			actor.Name, target.Name, from.X, from.Y, target.Position.X, target.Position.Y)
	case ShoveProne:
		// Knocking prone moves nothing; the prone condition is applied by the caller
		result.Message = fmt.Sprintf("%s shoves %s prone (%d vs %d)",
			actor.Name, target.Name, contest.ActorRoll, contest.DefenderRoll)
	}
	log.Printf("[COMBAT] %s", result.Message)

	return result, nil
}

// rollContest resolves an opposed check; the tie goes to the defender
func (s *service) rollContest(target *domain.Participant, input *ActionInput) (*ContestOutcome, error) {
	contest := &ContestOutcome{Target: target.ID}

	if input.ManualAttackRoll != nil {
		contest.ActorRoll = *input.ManualAttackRoll
	} else {
		roll, err := s.roller.Roll(1, 20, 0)
		if err != nil {
			return nil, engerr.Wrap(err, "failed to roll contest")
		}
		contest.ActorRoll = roll.RawTotal
	}

	defenderRoll, err := s.roller.Roll(1, 20, 0)
	if err != nil {
		return nil, engerr.Wrap(err, "failed to roll contest")
	}
	contest.DefenderRoll = defenderRoll.RawTotal

	contest.ActorWins = contest.ActorRoll > contest.DefenderRoll
	return contest, nil
}

// stepAway moves the target one grid step along the sign of the coordinate
// delta from the actor, clamped to the grid. Coincident positions do not move.
func stepAway(from, target domain.Position, terrain *domain.Terrain) domain.Position {
	stepped := target
	stepped.X += sign(target.X - from.X)
	stepped.Y += sign(target.Y - from.Y)

	if stepped.X < 0 {
		stepped.X = 0
	}
	if stepped.X >= terrain.Width {
		stepped.X = terrain.Width - 1
	}
	if stepped.Y < 0 {
		stepped.Y = 0
	}
	if stepped.Y >= terrain.Height {
		stepped.Y = terrain.Height - 1
	}

	return stepped
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}
