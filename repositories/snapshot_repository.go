package repositories

import (
	"context"
	"errors"

	"github.com/Dosada05/tournament-engine/models"
)

var ErrCorruptSnapshot = errors.New("stored snapshot cannot be decoded")

// SnapshotRepository persists the whole engine state. Save replaces what is
// stored: rows missing from snap are removed.
type SnapshotRepository interface {
	Load(ctx context.Context) (models.Snapshot, error)
	Save(ctx context.Context, snap models.Snapshot) error
}
