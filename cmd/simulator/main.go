package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/combat-engine/internal/config"
	domain "github.com/KirkDiggler/combat-engine/internal/domain/combat"
	"github.com/KirkDiggler/combat-engine/internal/domain/conditions"
	"github.com/KirkDiggler/combat-engine/internal/repositories/encounters"
	combatsvc "github.com/KirkDiggler/combat-engine/internal/services/combat"
	"github.com/KirkDiggler/combat-engine/internal/services/condition"
	"github.com/KirkDiggler/combat-engine/internal/services/encounter"
	"github.com/KirkDiggler/combat-engine/internal/services/turn"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.Load()
	ctx := context.Background()

	repo := buildRepository(cfg)

	tracker := turn.NewTracker()
	conditionSvc := condition.NewService()

	encounterSvc := encounter.NewService(&encounter.ServiceConfig{
		Repository: repo,
		Conditions: conditionSvc,
		Tracker:    tracker,
	})

	resolver := combatsvc.NewService(&combatsvc.ServiceConfig{
		Encounters: encounterSvc,
		Conditions: conditionSvc,
		Tracker:    tracker,
	})

	runDemoBout(ctx, cfg, encounterSvc, resolver, conditionSvc)
}

// buildRepository connects to Redis when configured, falling back to the
// in-memory store
func buildRepository(cfg *config.Config) encounters.Repository {
	if cfg.Redis.Addr == "" {
		log.Println("No REDIS_ADDR found, using in-memory encounter store")
		return encounters.NewInMemoryRepository()
	}

	log.Printf("Connecting to Redis at: %s", cfg.Redis.Addr)
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		log.Println("Falling back to in-memory encounter store")
		return encounters.NewInMemoryRepository()
	}

	log.Println("Using Redis for encounter storage")
	return encounters.NewRedisRepository(&encounters.RedisRepoConfig{
		Client: client,
		TTL:    cfg.Redis.TTL,
	})
}

// runDemoBout plays out a short scripted skirmish to exercise the engine
func runDemoBout(
	ctx context.Context,
	cfg *config.Config,
	encounterSvc encounter.Service,
	resolver combatsvc.Service,
	conditionSvc condition.Service,
) {
	enc, err := encounterSvc.Create(ctx, &encounter.CreateInput{
		Participants: []*encounter.ParticipantInput{
			{
				ID:              "fighter-1",
				Name:            "Fighter",
				HP:              45,
				MaxHP:           45,
				AC:              18,
				InitiativeBonus: 2,
				Position:        domain.Position{X: 2, Y: 2},
			},
			{
				ID:              "goblin-1",
				Name:            "Goblin",
				HP:              7,
				MaxHP:           7,
				AC:              13,
				InitiativeBonus: 1,
				Position:        domain.Position{X: 3, Y: 2},
				IsEnemy:         true,
			},
		},
		Terrain: &domain.Terrain{
			Width:  cfg.Simulator.GridWidth,
			Height: cfg.Simulator.GridHeight,
		},
		Seed: cfg.Simulator.Seed,
	})
	if err != nil {
		log.Fatalf("Failed to create encounter: %v", err)
	}

	log.Printf("Encounter %s: round %d, %s acts first",
		enc.ID, enc.Round, enc.CurrentParticipant().Name)

	actions := []*combatsvc.ActionInput{
		{
			EncounterID: enc.ID,
			Actor:       "fighter-1",
			Action:      combatsvc.ActionAttack,
			Target:      "goblin-1",
			Damage:      "1d8+3",
			DamageType:  "slashing",
		},
		{
			EncounterID: enc.ID,
			Actor:       "goblin-1",
			Action:      combatsvc.ActionDodge,
		},
		{
			EncounterID: enc.ID,
			Actor:       "goblin-1",
			Action:      combatsvc.ActionMove,
			MoveTo:      &domain.Position{X: 6, Y: 2},
		},
	}

	for _, action := range actions {
		result, execErr := resolver.ExecuteAction(ctx, action)
		if execErr != nil {
			log.Printf("Action %s failed: %v", action.Action, execErr)
			continue
		}
		log.Printf("%s", result.Message)

		if _, turnErr := encounterSvc.NextTurn(ctx, enc.ID); turnErr != nil {
			log.Printf("Failed to advance turn: %v", turnErr)
		}
	}

	// Poison the goblin and show the derived stats
	if _, err := conditionSvc.Add(&condition.AddInput{
		Target:       "goblin-1",
		Type:         conditions.Poisoned,
		Source:       "poisoned blade",
		DurationType: conditions.DurationRounds,
		Rounds:       3,
	}); err != nil {
		log.Printf("Failed to add condition: %v", err)
	}

	goblin, err := encounterSvc.GetParticipant(ctx, enc.ID, "goblin-1")
	if err != nil {
		log.Fatalf("Failed to look up goblin: %v", err)
	}

	stats := conditionSvc.EffectiveStats(goblin)
	log.Printf("Goblin: %d/%d HP, speed %d, conditions %v, notes %v",
		goblin.CurrentHP, stats.MaxHP, stats.Speed, stats.Conditions, stats.Notes)
}
