package conditions

import (
	"fmt"
	"strings"
)

// standardEffects maps each built-in condition to its mechanical effect.
// Conditions absent from the map (blinded, charmed, deafened, frightened,
// invisible) change no stats but still show up in the active list.
var standardEffects = map[ConditionType]*ConditionEffect{
	Poisoned: {
		DisadvantageOn: []string{EffectAttackRolls, EffectAbilityChecks},
	},
	Grappled: {
		CannotMove: true,
	},
	Restrained: {
		CannotMove:     true,
		DisadvantageOn: []string{EffectAttackRolls, EffectDexSaves},
	},
	Prone: {
		SpeedMultiplier: 0.5,
		DisadvantageOn:  []string{EffectAttackRolls},
		Notes:           []string{"can only crawl"},
	},
	Paralyzed: {
		Incapacitated: true,
		CannotMove:    true,
		AutoFailSaves: []string{SaveStr, SaveDex},
	},
	Stunned: {
		Incapacitated: true,
		CannotMove:    true,
		AutoFailSaves: []string{SaveStr, SaveDex},
	},
	Unconscious: {
		Incapacitated: true,
		CannotMove:    true,
		AutoFailSaves: []string{SaveStr, SaveDex},
	},
	Petrified: {
		Incapacitated: true,
		CannotMove:    true,
		AutoFailSaves: []string{SaveStr, SaveDex},
	},
	Incapacitated: {
		Incapacitated: true,
	},
}

// exhaustionTiers holds the per-level exhaustion effects. A creature at
// level N suffers the effects of every tier up to N.
var exhaustionTiers = [MaxExhaustionLevel]*ConditionEffect{
	{DisadvantageOn: []string{EffectAbilityChecks}},
	{SpeedMultiplier: 0.5},
	{DisadvantageOn: []string{EffectAttackRolls, EffectSavingThrows}},
	{HPMaxMultiplier: 0.5},
	{CannotMove: true},
	{Dead: true},
}

// StandardEffect resolves the built-in effect for a condition type. For
// exhaustion the level is cumulative: level N merges tiers 1..N. Unknown
// (homebrew) conditions resolve to an empty effect.
func StandardEffect(condType ConditionType, level int) *ConditionEffect {
	if condType == Exhaustion {
		return exhaustionEffect(level)
	}
	if effect, ok := standardEffects[condType]; ok {
		return effect
	}
	return &ConditionEffect{}
}

func exhaustionEffect(level int) *ConditionEffect {
	if level < MinExhaustionLevel {
		level = MinExhaustionLevel
	}
	if level > MaxExhaustionLevel {
		level = MaxExhaustionLevel
	}

	merged := &ConditionEffect{}
	for i := 0; i < level; i++ {
		tier := exhaustionTiers[i]
		if tier.HPMaxMultiplier > 0 {
			merged.HPMaxMultiplier = tier.HPMaxMultiplier
		}
		if tier.SpeedMultiplier > 0 {
			merged.SpeedMultiplier = tier.SpeedMultiplier
		}
		merged.CannotMove = merged.CannotMove || tier.CannotMove
		merged.Dead = merged.Dead || tier.Dead
		merged.DisadvantageOn = append(merged.DisadvantageOn, tier.DisadvantageOn...)
		merged.AutoFailSaves = append(merged.AutoFailSaves, tier.AutoFailSaves...)
	}
	return merged
}

// CalculateEffectiveStats derives condition-modified stats from base values
// and the target's active conditions. Per condition, in order: HP-max
// multiplier then modifier, speed multiplier then modifier (CannotMove
// forces speed to 0), AC modifier, then human-readable notes.
func CalculateEffectiveStats(target string, baseMaxHP, baseSpeed, baseAC int, active []*ActiveCondition) *EffectiveStats {
	stats := &EffectiveStats{
		Target:     target,
		BaseMaxHP:  baseMaxHP,
		MaxHP:      baseMaxHP,
		BaseSpeed:  baseSpeed,
		Speed:      baseSpeed,
		BaseAC:     baseAC,
		AC:         baseAC,
		Conditions: make([]string, 0, len(active)),
		Notes:      []string{},
	}

	for _, cond := range active {
		stats.Conditions = append(stats.Conditions, conditionLabel(cond))

		effect := cond.Override
		if effect == nil {
			effect = StandardEffect(cond.Type, cond.Level)
		}

		if effect.HPMaxMultiplier > 0 {
			stats.MaxHP = int(float64(stats.MaxHP) * effect.HPMaxMultiplier)
		}
		stats.MaxHP += effect.HPMaxModifier

		if effect.SpeedMultiplier > 0 {
			stats.Speed = int(float64(stats.Speed) * effect.SpeedMultiplier)
		}
		stats.Speed += effect.SpeedModifier
		if effect.CannotMove {
			stats.Speed = 0
			stats.CannotMove = true
		}

		stats.AC += effect.ACModifier

		if effect.Dead {
			stats.Dead = true
		}

		stats.Notes = append(stats.Notes, effectNotes(cond, effect)...)
	}

	if stats.MaxHP < 0 {
		stats.MaxHP = 0
	}
	if stats.Speed < 0 {
		stats.Speed = 0
	}

	return stats
}

func conditionLabel(cond *ActiveCondition) string {
	if cond.Type == Exhaustion {
		return fmt.Sprintf("%s (level %d)", cond.Type, cond.Level)
	}
	return string(cond.Type)
}

func effectNotes(cond *ActiveCondition, effect *ConditionEffect) []string {
	label := conditionLabel(cond)
	var notes []string

	if len(effect.DisadvantageOn) > 0 {
		notes = append(notes, fmt.Sprintf("%s: disadvantage on %s", label, strings.Join(effect.DisadvantageOn, ", ")))
	}
	if len(effect.AutoFailSaves) > 0 {
		notes = append(notes, fmt.Sprintf("%s: auto-fails %s saving throws", label, strings.Join(effect.AutoFailSaves, ", ")))
	}
	if effect.Incapacitated {
		notes = append(notes, fmt.Sprintf("%s: incapacitated", label))
	}
	if effect.CannotMove {
		notes = append(notes, fmt.Sprintf("%s: cannot move", label))
	}
	if effect.Dead {
		notes = append(notes, fmt.Sprintf("%s: dead", label))
	}
	for _, n := range effect.Notes {
		notes = append(notes, fmt.Sprintf("%s: %s", label, n))
	}

	return notes
}
