package checkout

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/bellavista/ordering-service/internal/cart"
)

// SnapshotRepository is the session-scoped handoff between the cart page and
// the checkout page. The snapshot is written when the user proceeds to
// checkout and deleted on successful order submission.
type SnapshotRepository interface {
	Save(ctx context.Context, sessionID string, snap cart.Snapshot) error
	Load(ctx context.Context, sessionID string) (*cart.Snapshot, error)
	Clear(ctx context.Context, sessionID string) error
}

type snapshotRepo struct {
	db *sql.DB
}

func NewSnapshotRepository(db *sql.DB) SnapshotRepository {
	return &snapshotRepo{db: db}
}

func (r *snapshotRepo) Save(ctx context.Context, sessionID string, snap cart.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	const upsert = `
INSERT INTO checkout_snapshots (session_id, payload, created_at)
VALUES ($1, $2, NOW())
ON CONFLICT (session_id) DO UPDATE
SET payload = EXCLUDED.payload, created_at = NOW()
`
	if _, err := r.db.ExecContext(ctx, upsert, sessionID, payload); err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

func (r *snapshotRepo) Load(ctx context.Context, sessionID string) (*cart.Snapshot, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM checkout_snapshots WHERE session_id = $1`, sessionID).Scan(&payload)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("select snapshot: %w", err)
	}

	var snap cart.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot payload: %w", err)
	}
	return &snap, nil
}

func (r *snapshotRepo) Clear(ctx context.Context, sessionID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM checkout_snapshots WHERE session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}
