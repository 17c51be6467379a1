package encounter

//go:generate mockgen -destination=mock/mock_service.go -package=mockencounter -source=service.go

import (
	"context"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/KirkDiggler/combat-engine/internal/dice"
	"github.com/KirkDiggler/combat-engine/internal/domain/combat"
	engerr "github.com/KirkDiggler/combat-engine/internal/errors"
	"github.com/KirkDiggler/combat-engine/internal/repositories/encounters"
	"github.com/KirkDiggler/combat-engine/internal/services/condition"
	"github.com/KirkDiggler/combat-engine/internal/services/turn"
	"github.com/KirkDiggler/combat-engine/internal/uuid"
)

// Service manages the encounter lifecycle: creation with initiative,
// lookups, and turn advancement. It owns the canonical participant roster
// that the action resolver mutates.
type Service interface {
	// Create starts a new encounter, rolling initiative for every participant
	Create(ctx context.Context, input *CreateInput) (*combat.Encounter, error)

	// Get retrieves an encounter by ID
	Get(ctx context.Context, encounterID string) (*combat.Encounter, error)

	// GetParticipant locates a participant by ID or case-insensitive name
	GetParticipant(ctx context.Context, encounterID, ref string) (*combat.Participant, error)

	// NextTurn advances the turn pointer, resetting the upcoming
	// participant's turn state and ticking conditions on a round wrap
	NextTurn(ctx context.Context, encounterID string) (*combat.Encounter, error)

	// Save persists encounter mutations made by the action resolver
	Save(ctx context.Context, encounter *combat.Encounter) error

	// Clear resets the encounter store and all turn state
	Clear(ctx context.Context) error
}

// ParticipantInput describes one combatant joining an encounter
type ParticipantInput struct {
	ID                  string
	Name                string
	HP                  int
	MaxHP               int
	AC                  int
	InitiativeBonus     int
	Position            combat.Position
	Speed               int
	Size                combat.Size
	IsEnemy             bool
	Resistances         []string
	Immunities          []string
	Vulnerabilities     []string
	ConditionImmunities []string
}

// CreateInput contains data for starting an encounter
type CreateInput struct {
	Participants []*ParticipantInput
	Terrain      *combat.Terrain
	Lighting     combat.Lighting
	Surprise     []string // participant IDs that start surprised
	Seed         int64
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	Repository    encounters.Repository
	Roller        dice.Roller
	Conditions    condition.Service
	Tracker       *turn.Tracker
	UUIDGenerator uuid.Generator
}

type service struct {
	repository    encounters.Repository
	roller        dice.Roller
	conditions    condition.Service
	tracker       *turn.Tracker
	uuidGenerator uuid.Generator
}

// NewService creates a new encounter service
func NewService(cfg *ServiceConfig) Service {
	if cfg.Repository == nil {
		panic("repository is required")
	}
	if cfg.Conditions == nil {
		panic("condition service is required")
	}
	if cfg.Tracker == nil {
		panic("turn tracker is required")
	}

	svc := &service{
		repository: cfg.Repository,
		roller:     cfg.Roller,
		conditions: cfg.Conditions,
		tracker:    cfg.Tracker,
	}

	if svc.roller == nil {
		svc.roller = dice.NewRandomRoller()
	}

	if cfg.UUIDGenerator != nil {
		svc.uuidGenerator = cfg.UUIDGenerator
	} else {
		svc.uuidGenerator = uuid.NewGoogleUUIDGenerator()
	}

	return svc
}

func (s *service) Create(ctx context.Context, input *CreateInput) (*combat.Encounter, error) {
	if input == nil {
		return nil, engerr.InvalidArgument("input cannot be nil")
	}
	if len(input.Participants) == 0 {
		return nil, engerr.InvalidArgument("at least one participant is required")
	}

	seen := make(map[string]bool, len(input.Participants))
	for _, pi := range input.Participants {
		if strings.TrimSpace(pi.ID) == "" {
			return nil, engerr.InvalidArgument("participant ID is required")
		}
		if strings.TrimSpace(pi.Name) == "" {
			return nil, engerr.InvalidArgumentf("participant %s has no name", pi.ID)
		}
		if seen[pi.ID] {
			return nil, engerr.AlreadyExistsf("duplicate participant ID: %s", pi.ID)
		}
		seen[pi.ID] = true

		if pi.MaxHP < 1 {
			return nil, engerr.InvalidArgumentf("participant %s needs a positive max HP", pi.ID)
		}
		if pi.HP < 0 || pi.HP > pi.MaxHP {
			return nil, engerr.InvalidArgumentf("participant %s HP must be within [0, %d]", pi.ID, pi.MaxHP)
		}
	}

	terrain := input.Terrain
	if terrain == nil {
		terrain = combat.DefaultTerrain()
	}
	if terrain.Width < combat.MinGridDimension || terrain.Width > combat.MaxGridDimension ||
		terrain.Height < combat.MinGridDimension || terrain.Height > combat.MaxGridDimension {
		return nil, engerr.InvalidArgumentf("terrain must be between %dx%d and %dx%d",
			combat.MinGridDimension, combat.MinGridDimension,
			combat.MaxGridDimension, combat.MaxGridDimension)
	}

	lighting := input.Lighting
	if lighting == "" {
		lighting = combat.LightingBright
	}

	seed := input.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	surprised := make(map[string]bool, len(input.Surprise))
	for _, id := range input.Surprise {
		surprised[id] = true
	}

	participants := make([]*combat.Participant, 0, len(input.Participants))
	for _, pi := range input.Participants {
		p := &combat.Participant{
			ID:                  pi.ID,
			Name:                pi.Name,
			CurrentHP:           pi.HP,
			MaxHP:               pi.MaxHP,
			AC:                  pi.AC,
			InitiativeBonus:     pi.InitiativeBonus,
			Position:            pi.Position,
			Speed:               pi.Speed,
			Size:                pi.Size,
			IsEnemy:             pi.IsEnemy,
			Resistances:         pi.Resistances,
			Immunities:          pi.Immunities,
			Vulnerabilities:     pi.Vulnerabilities,
			ConditionImmunities: pi.ConditionImmunities,
			Surprised:           surprised[pi.ID],
		}
		if p.AC == 0 {
			p.AC = combat.DefaultAC
		}
		if p.Speed == 0 {
			p.Speed = combat.DefaultSpeed
		}
		if p.Size == "" {
			p.Size = combat.SizeMedium
		}

		rollResult, err := s.roller.Roll(1, 20, p.InitiativeBonus)
		if err != nil {
			return nil, engerr.Wrap(err, "failed to roll initiative")
		}
		p.Initiative = rollResult.Total

		log.Printf("[ENCOUNTER] %s rolls initiative: %v + %d = %d",
			p.Name, rollResult.Rolls[0], p.InitiativeBonus, p.Initiative)

		participants = append(participants, p)
	}

	// Sort descending by initiative, ties broken toward the higher bonus
	sort.SliceStable(participants, func(i, j int) bool {
		if participants[i].Initiative != participants[j].Initiative {
			return participants[i].Initiative > participants[j].Initiative
		}
		return participants[i].InitiativeBonus > participants[j].InitiativeBonus
	})

	encounter := &combat.Encounter{
		ID:           s.uuidGenerator.New(),
		Round:        1,
		Participants: participants,
		TurnIndex:    0,
		Terrain:      terrain,
		Lighting:     lighting,
		Seed:         seed,
		CreatedAt:    time.Now(),
	}

	if err := s.repository.Create(ctx, encounter); err != nil {
		return nil, engerr.Wrap(err, "failed to create encounter")
	}

	return encounter, nil
}

func (s *service) Get(ctx context.Context, encounterID string) (*combat.Encounter, error) {
	if strings.TrimSpace(encounterID) == "" {
		return nil, engerr.InvalidArgument("encounter ID is required")
	}

	encounter, err := s.repository.Get(ctx, encounterID)
	if err != nil {
		return nil, engerr.Wrapf(err, "failed to get encounter '%s'", encounterID)
	}

	return encounter, nil
}

func (s *service) GetParticipant(ctx context.Context, encounterID, ref string) (*combat.Participant, error) {
	encounter, err := s.Get(ctx, encounterID)
	if err != nil {
		return nil, err
	}

	participant := encounter.FindParticipant(ref)
	if participant == nil {
		return nil, engerr.NotFoundf("participant '%s' not found in encounter '%s'", ref, encounterID)
	}

	return participant, nil
}

func (s *service) NextTurn(ctx context.Context, encounterID string) (*combat.Encounter, error) {
	encounter, err := s.Get(ctx, encounterID)
	if err != nil {
		return nil, err
	}
	if len(encounter.Participants) == 0 {
		return nil, engerr.InvalidArgument("encounter has no participants")
	}

	wrapped := encounter.AdvanceTurn()

	// The upcoming participant starts a fresh turn: their action economy
	// resets and any dodge from their previous turn ends
	current := encounter.CurrentParticipant()
	s.tracker.Reset(encounter.ID, current.ID)

	if wrapped {
		for _, p := range encounter.Participants {
			tickResult := s.conditions.Tick(p.ID)
			for _, expired := range tickResult.Expired {
				log.Printf("[ENCOUNTER] %s: %s expired", p.Name, expired.Type)
			}
			// Surprise only lasts the first round
			p.Surprised = false
		}
	}

	if err := s.repository.Update(ctx, encounter); err != nil {
		return nil, engerr.Wrap(err, "failed to update encounter")
	}

	return encounter, nil
}

func (s *service) Save(ctx context.Context, encounter *combat.Encounter) error {
	if encounter == nil {
		return engerr.InvalidArgument("encounter cannot be nil")
	}

	if err := s.repository.Update(ctx, encounter); err != nil {
		return engerr.Wrap(err, "failed to update encounter")
	}

	return nil
}

func (s *service) Clear(ctx context.Context) error {
	if err := s.repository.Clear(ctx); err != nil {
		return engerr.Wrap(err, "failed to clear encounters")
	}

	s.tracker.Clear()
	return nil
}
