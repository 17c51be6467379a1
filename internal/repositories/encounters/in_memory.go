package encounters

import (
	"context"
	"sync"

	"github.com/KirkDiggler/combat-engine/internal/domain/combat"
	engerr "github.com/KirkDiggler/combat-engine/internal/errors"
)

type inMemoryRepository struct {
	mu         sync.RWMutex
	encounters map[string]*combat.Encounter
}

// NewInMemoryRepository creates a new in-memory encounter repository
func NewInMemoryRepository() Repository {
	return &inMemoryRepository{
		encounters: make(map[string]*combat.Encounter),
	}
}

// Create stores a new encounter
func (r *inMemoryRepository) Create(ctx context.Context, encounter *combat.Encounter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.encounters[encounter.ID]; exists {
		return engerr.AlreadyExistsf("encounter with ID %s already exists", encounter.ID)
	}

	r.encounters[encounter.ID] = encounter
	return nil
}

// Get retrieves an encounter by ID
func (r *inMemoryRepository) Get(ctx context.Context, id string) (*combat.Encounter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	encounter, exists := r.encounters[id]
	if !exists {
		return nil, engerr.NotFoundf("encounter not found: %s", id)
	}

	return encounter, nil
}

// Update modifies an existing encounter
func (r *inMemoryRepository) Update(ctx context.Context, encounter *combat.Encounter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.encounters[encounter.ID]; !exists {
		return engerr.NotFoundf("encounter not found: %s", encounter.ID)
	}

	r.encounters[encounter.ID] = encounter
	return nil
}

// Delete removes an encounter
func (r *inMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.encounters[id]; !exists {
		return engerr.NotFoundf("encounter not found: %s", id)
	}

	delete(r.encounters, id)
	return nil
}

// List retrieves every stored encounter
func (r *inMemoryRepository) List(ctx context.Context) ([]*combat.Encounter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*combat.Encounter, 0, len(r.encounters))
	for _, enc := range r.encounters {
		out = append(out, enc)
	}
	return out, nil
}

// Clear removes every stored encounter
func (r *inMemoryRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.encounters = make(map[string]*combat.Encounter)
	return nil
}
