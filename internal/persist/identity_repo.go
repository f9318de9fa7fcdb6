package persist

import (
	"context"
	"fmt"
)

// IdentityRepo is the Postgres-backed identity store.
type IdentityRepo struct {
	db *DB
}

func NewIdentityRepo(db *DB) *IdentityRepo {
	return &IdentityRepo{db: db}
}

// LoadAll reads the full identity mapping.
func (r *IdentityRepo) LoadAll(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT player_id, username FROM identities`,
	)
	if err != nil {
		return nil, fmt.Errorf("load identities: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan identity: %w", err)
		}
		out[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load identities: %w", err)
	}
	return out, nil
}

// Save upserts one identity record.
func (r *IdentityRepo) Save(ctx context.Context, playerID, username string) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO identities (player_id, username, updated_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (player_id) DO UPDATE
		 SET username = EXCLUDED.username, updated_at = NOW()`,
		playerID, username,
	)
	return err
}
