package repositories

import (
	"context"
	"sync"

	"github.com/Dosada05/tournament-engine/models"
)

// MemorySnapshotRepository keeps the snapshot in process. It is used when no
// database is configured and in tests.
type MemorySnapshotRepository struct {
	mu    sync.RWMutex
	snap  models.Snapshot
	saves int
}

func NewMemorySnapshotRepository(initial models.Snapshot) *MemorySnapshotRepository {
	return &MemorySnapshotRepository{snap: initial.Clone()}
}

func (r *MemorySnapshotRepository) Load(ctx context.Context) (models.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return models.Snapshot{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snap.Clone(), nil
}

func (r *MemorySnapshotRepository) Save(ctx context.Context, snap models.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snap = snap.Clone()
	r.saves++
	return nil
}

// Saves counts successful Save calls.
func (r *MemorySnapshotRepository) Saves() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.saves
}
