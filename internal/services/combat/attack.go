package combat

import (
	"fmt"
	"log"
	"strings"

	"github.com/KirkDiggler/combat-engine/internal/dice"
	domain "github.com/KirkDiggler/combat-engine/internal/domain/combat"
	engerr "github.com/KirkDiggler/combat-engine/internal/errors"
)

func (s *service) resolveAttack(enc *domain.Encounter, actor *domain.Participant, input *ActionInput) (*ActionResult, error) {
	target, err := s.resolveTarget(enc, input)
	if err != nil {
		return nil, err
	}

	// A dodging target imposes disadvantage on top of whatever the caller asked for
	advantage := input.Advantage
	disadvantage := input.Disadvantage
	if s.tracker.Get(enc.ID, target.ID).IsDodging {
		disadvantage = true
	}

	attack := &AttackOutcome{
		Target:     target.ID,
		TargetAC:   target.AC,
		DamageType: input.DamageType,
	}

	if input.ManualAttackRoll != nil {
		attack.AttackRoll = *input.ManualAttackRoll
		attack.RollMode = RollModeManual
		attack.Rolls = []int{attack.AttackRoll}
	} else {
		var roll *dice.RollResult
		var rollErr error
		switch {
		case advantage && !disadvantage:
			roll, rollErr = s.roller.RollWithAdvantage(20, 0)
			attack.RollMode = RollModeAdvantage
		case disadvantage && !advantage:
			roll, rollErr = s.roller.RollWithDisadvantage(20, 0)
			attack.RollMode = RollModeDisadvantage
		default:
			// Advantage and disadvantage together cancel to a single die
			roll, rollErr = s.roller.Roll(1, 20, 0)
			attack.RollMode = RollModeNormal
		}
		if rollErr != nil {
			return nil, engerr.Wrap(rollErr, "failed to roll attack")
		}
		attack.AttackRoll = roll.RawTotal
		attack.Rolls = roll.Rolls
	}

	switch {
	case attack.AttackRoll == 20:
		attack.Hit = true
		attack.Critical = true
	case attack.AttackRoll == 1:
		attack.Fumble = true
	default:
		attack.Hit = attack.AttackRoll >= target.AC
	}

	attack.TargetHPBefore = target.CurrentHP
	attack.TargetHPAfter = target.CurrentHP

	if attack.Hit && strings.TrimSpace(input.Damage) != "" {
		if err := s.rollDamage(attack, input); err != nil {
			return nil, err
		}
		attack.Damage = adjustDamage(attack.Damage, input.DamageType, target)
		target.ApplyDamage(attack.Damage)
		attack.TargetHPAfter = target.CurrentHP
	}

	s.tracker.UseAction(enc.ID, actor.ID)

	result := &ActionResult{
		Success: true,
		Action:  ActionAttack,
		Actor:   actor.ID,
		Attack:  attack,
	}

	// A destination rides along with the attack as part of the same action.
	// A rejected move keeps the resolved attack in the returned result.
	if input.MoveTo != nil {
		movement, oas, err := s.moveParticipant(enc, actor, *input.MoveTo)
		if err != nil {
			return result, err
		}
		result.Movement = movement
		result.OpportunityAttacks = oas
	}

	result.Message = attackMessage(actor, target, attack)
	log.Printf("[COMBAT] %s", result.Message)

	return result, nil
}

// rollDamage fills in the damage breakdown, doubling only the dice portion
// on a critical hit
func (s *service) rollDamage(attack *AttackOutcome, input *ActionInput) error {
	notation, err := dice.ParseNotation(input.Damage)
	if err != nil {
		return engerr.Wrapf(err, "invalid damage expression '%s'", input.Damage)
	}

	if input.ManualDamageRoll != nil {
		diceTotal := *input.ManualDamageRoll
		attack.DamageRolls = []int{diceTotal}
		attack.Damage = diceTotal + notation.Bonus
		if attack.Critical {
			attack.CritRolls = []int{diceTotal}
			attack.Damage += diceTotal
		}
		return nil
	}

	roll, err := s.roller.Roll(notation.Count, notation.Sides, notation.Bonus)
	if err != nil {
		return engerr.Wrap(err, "failed to roll damage")
	}
	attack.DamageRolls = roll.Rolls
	attack.Damage = roll.Total

	if attack.Critical {
		critRoll, err := s.roller.Roll(notation.Count, notation.Sides, 0)
		if err != nil {
			return engerr.Wrap(err, "failed to roll critical damage")
		}
		attack.CritRolls = critRoll.Rolls
		attack.Damage += critRoll.Total
	}

	return nil
}

// adjustDamage applies the target's defenses for the given damage type
func adjustDamage(damage int, damageType string, target *domain.Participant) int {
	if damageType == "" {
		return damage
	}

	for _, t := range target.Immunities {
		if strings.EqualFold(t, damageType) {
			return 0
		}
	}
	for _, t := range target.Resistances {
		if strings.EqualFold(t, damageType) {
			return damage / 2
		}
	}
	for _, t := range target.Vulnerabilities {
		if strings.EqualFold(t, damageType) {
			return damage * 2
		}
	}

	return damage
}

func attackMessage(actor, target *domain.Participant, attack *AttackOutcome) string {
	switch {
	case attack.Critical:
		return fmt.Sprintf("%s critically hits %s for %d damage (rolled natural 20), %d HP remaining",
			actor.Name, target.Name, attack.Damage, attack.TargetHPAfter)
	case attack.Fumble:
		return fmt.Sprintf("%s rolls a natural 1 and misses %s", actor.Name, target.Name)
	case attack.Hit:
		return fmt.Sprintf("%s hits %s for %d damage (rolled %d vs AC %d), %d HP remaining",
			actor.Name, target.Name, attack.Damage, attack.AttackRoll, attack.TargetAC, attack.TargetHPAfter)
	default:
		return fmt.Sprintf("%s misses %s (rolled %d vs AC %d)",
			actor.Name, target.Name, attack.AttackRoll, attack.TargetAC)
	}
}
