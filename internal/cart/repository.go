package cart

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// Repository persists the full cart payload for a session as a single JSON
// document. Writes are last-write-wins across concurrent sessions of the same
// browser, matching the storage semantics the cart had before.
type Repository interface {
	Load(ctx context.Context, sessionID string) ([]Line, error)
	Save(ctx context.Context, sessionID string, lines []Line) error
	Clear(ctx context.Context, sessionID string) error
}

type repo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repo{db: db}
}

func (r *repo) Load(ctx context.Context, sessionID string) ([]Line, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM carts WHERE session_id = $1`, sessionID).Scan(&payload)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("select cart: %w", err)
	}

	var lines []Line
	if err := json.Unmarshal(payload, &lines); err != nil {
		return nil, fmt.Errorf("decode cart payload: %w", err)
	}
	return lines, nil
}

func (r *repo) Save(ctx context.Context, sessionID string, lines []Line) error {
	if lines == nil {
		lines = []Line{}
	}
	payload, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encode cart payload: %w", err)
	}

	const upsert = `
INSERT INTO carts (session_id, payload, updated_at)
VALUES ($1, $2, NOW())
ON CONFLICT (session_id) DO UPDATE
SET payload = EXCLUDED.payload, updated_at = NOW()
`
	if _, err := r.db.ExecContext(ctx, upsert, sessionID, payload); err != nil {
		return fmt.Errorf("upsert cart: %w", err)
	}
	return nil
}

func (r *repo) Clear(ctx context.Context, sessionID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM carts WHERE session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}
