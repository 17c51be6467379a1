package combat

import (
	"fmt"
	"log"

	domain "github.com/KirkDiggler/combat-engine/internal/domain/combat"
	engerr "github.com/KirkDiggler/combat-engine/internal/errors"
)

// Flat opportunity attack damage, independent of the attacker's weapon
const (
	opportunityDamageDice  = 1
	opportunityDamageSides = 6
	opportunityDamageBonus = 2
)

func (s *service) resolveMove(enc *domain.Encounter, actor *domain.Participant, input *ActionInput) (*ActionResult, error) {
	if input.MoveTo == nil {
		return nil, engerr.InvalidArgument("move requires a destination")
	}

	movement, oas, err := s.moveParticipant(enc, actor, *input.MoveTo)
	if err != nil {
		return nil, err
	}

	result := &ActionResult{
		Success:            true,
		Action:             ActionMove,
		Actor:              actor.ID,
		Movement:           movement,
		OpportunityAttacks: oas,
		Message: fmt.Sprintf("%s moves to (%d, %d), %d ft of movement remaining",
			actor.Name, movement.To.X, movement.To.Y, movement.MovementRemaining),
	}

	return result, nil
}

// moveParticipant validates the move against the turn's budget, resolves any
// opportunity attacks, and then mutates the actor's position. A rejected move
// leaves the position untouched and triggers nothing.
func (s *service) moveParticipant(enc *domain.Encounter, actor *domain.Participant, to domain.Position) (*MovementOutcome, []*OpportunityAttack, error) {
	if to.X < 0 || to.X >= enc.Terrain.Width || to.Y < 0 || to.Y >= enc.Terrain.Height {
		return nil, nil, engerr.RuleViolationf("destination (%d, %d) is outside the %dx%d grid",
			to.X, to.Y, enc.Terrain.Width, enc.Terrain.Height)
	}

	from := actor.Position
	feet := domain.DistanceFeet(from, to)
	speed := s.effectiveSpeed(actor)

	if err := s.tracker.SpendMovement(enc.ID, actor.ID, feet, speed); err != nil {
		return nil, nil, err
	}

	oas := s.resolveOpportunityAttacks(enc, actor, from, to)
	actor.Position = to

	return &MovementOutcome{
		From:              from,
		To:                to,
		DistanceFeet:      feet,
		MovementRemaining: s.tracker.MovementBudget(enc.ID, actor.ID, speed),
	}, oas, nil
}

// resolveOpportunityAttacks rolls a reaction attack for every eligible
// opponent the mover leaves melee reach of
func (s *service) resolveOpportunityAttacks(enc *domain.Encounter, mover *domain.Participant, from, to domain.Position) []*OpportunityAttack {
	if s.tracker.Get(enc.ID, mover.ID).DisengagedThisTurn {
		return nil
	}

	var attacks []*OpportunityAttack
	for _, p := range enc.Participants {
		if p.ID == mover.ID || p.IsEnemy == mover.IsEnemy || !p.IsAlive() {
			continue
		}
		if domain.Chebyshev(p.Position, from) > domain.MeleeReachSquares {
			continue
		}
		if domain.Chebyshev(p.Position, to) <= domain.MeleeReachSquares {
			continue
		}
		if !s.tracker.UseReaction(enc.ID, p.ID) {
			continue
		}

		oa := &OpportunityAttack{Attacker: p.ID}
		roll, err := s.roller.Roll(1, 20, 0)
		if err != nil {
			log.Printf("[COMBAT] opportunity attack roll failed for %s: %v", p.Name, err)
			continue
		}
		oa.AttackRoll = roll.RawTotal

		switch {
		case oa.AttackRoll == 20:
			oa.Hit = true
		case oa.AttackRoll == 1:
			oa.Hit = false
		default:
			oa.Hit = oa.AttackRoll >= mover.AC
		}

		if oa.Hit {
			dmg, err := s.roller.Roll(opportunityDamageDice, opportunityDamageSides, opportunityDamageBonus)
			if err != nil {
				log.Printf("[COMBAT] opportunity damage roll failed for %s: %v", p.Name, err)
				continue
			}
			oa.Damage = dmg.Total
			mover.ApplyDamage(oa.Damage)
			log.Printf("[COMBAT] %s takes an opportunity attack from %s for %d damage", mover.Name, p.Name, oa.Damage)
		}
		oa.TargetHPAfter = mover.CurrentHP

		attacks = append(attacks, oa)
	}

	return attacks
}
