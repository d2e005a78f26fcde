package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Dosada05/tournament-engine/models"
	"github.com/lib/pq"
)

type postgresSnapshotRepository struct {
	db *sql.DB
}

func NewPostgresSnapshotRepository(db *sql.DB) SnapshotRepository {
	return &postgresSnapshotRepository{db: db}
}

func (r *postgresSnapshotRepository) Load(ctx context.Context) (models.Snapshot, error) {
	var snap models.Snapshot
	tournaments, err := loadBodies[models.Tournament](ctx, r.db,
		`SELECT body FROM tournaments ORDER BY position, id`)
	if err != nil {
		return snap, err
	}
	containers, err := loadBodies[models.TournamentContainer](ctx, r.db,
		`SELECT body FROM tournament_containers ORDER BY position, id`)
	if err != nil {
		return snap, err
	}
	snap.Tournaments = tournaments
	snap.Containers = containers
	return snap, nil
}

func loadBodies[T any](ctx context.Context, exec SQLExecutor, query string) ([]T, error) {
	rows, err := exec.QueryContext(ctx, query)
	if err != nil {
		return nil, handlePQError("load snapshot", err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, handlePQError("scan snapshot row", err)
		}
		var v T
		if err := json.Unmarshal(body, &v); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, handlePQError("iterate snapshot rows", err)
	}
	return out, nil
}

func (r *postgresSnapshotRepository) Save(ctx context.Context, snap models.Snapshot) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return handlePQError("begin snapshot save", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	ids := make([]string, len(snap.Tournaments))
	for i, t := range snap.Tournaments {
		ids[i] = t.ID
		if err = upsertBody(ctx, tx, "tournaments", t.ID, t.Revision, i, string(t.Status), t); err != nil {
			return err
		}
	}
	if err = deleteMissing(ctx, tx, "tournaments", ids); err != nil {
		return err
	}

	ids = make([]string, len(snap.Containers))
	for i, c := range snap.Containers {
		ids[i] = c.ID
		if err = upsertBody(ctx, tx, "tournament_containers", c.ID, c.Revision, i, string(c.Status), c); err != nil {
			return err
		}
	}
	if err = deleteMissing(ctx, tx, "tournament_containers", ids); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return handlePQError("commit snapshot save", err)
	}
	return nil
}

// upsertBody writes one row; rows whose revision and position are unchanged
// are left alone.
func upsertBody(ctx context.Context, exec SQLExecutor, table, id string, revision int64, position int, status string, v interface{}) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s %q: %w", table, id, err)
	}
	query := fmt.Sprintf(`
		INSERT INTO %[1]s (id, revision, position, status, body, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (id) DO UPDATE SET
			revision = EXCLUDED.revision,
			position = EXCLUDED.position,
			status = EXCLUDED.status,
			body = EXCLUDED.body,
			updated_at = NOW()
		WHERE %[1]s.revision <> EXCLUDED.revision OR %[1]s.position <> EXCLUDED.position`, table)
	_, err = exec.ExecContext(ctx, query, id, revision, position, status, body)
	return handlePQError("upsert "+table, err)
}

func deleteMissing(ctx context.Context, exec SQLExecutor, table string, keep []string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE NOT (id = ANY($1))`, table)
	_, err := exec.ExecContext(ctx, query, pq.Array(keep))
	return handlePQError("prune "+table, err)
}
