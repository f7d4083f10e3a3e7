// internal/database/game.go
package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tlacour/president/internal/engine"
)

// SaveSnapshot upserts the serialized game, guarded by the snapshot version:
// the row is only written when the incoming version supersedes the stored
// one. A rejected write surfaces engine.ErrStaleVersion so the caller can
// refetch and retry against the fresh snapshot.
func SaveSnapshot(ctx context.Context, g *engine.Game) error {
	data, err := engine.EncodeSnapshot(g)
	if err != nil {
		return err
	}

	status := "lobby"
	switch {
	case g.Finished():
		status = "completed"
	case g.Launched:
		status = "in_progress"
	}

	q := `
		INSERT INTO games (id, status, version, snapshot, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (id) DO UPDATE
		SET status = EXCLUDED.status,
		    version = EXCLUDED.version,
		    snapshot = EXCLUDED.snapshot,
		    updated_at = NOW()
		WHERE games.version < EXCLUDED.version
	`
	var tag int64
	err = pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		ct, execErr := tx.Exec(ctx, q, g.ID, status, g.Version, data)
		if execErr != nil {
			return execErr
		}
		tag = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return fmt.Errorf("save snapshot for game %s: %w", g.ID, err)
	}
	if tag == 0 {
		return engine.ErrStaleVersion
	}
	return nil
}

// LoadSnapshot rebuilds the stored game through the engine codec.
func LoadSnapshot(ctx context.Context, gameID uuid.UUID) (*engine.Game, error) {
	var data []byte
	q := `SELECT snapshot FROM games WHERE id = $1`
	if err := DB.QueryRow(ctx, q, gameID).Scan(&data); err != nil {
		return nil, fmt.Errorf("load snapshot for game %s: %w", gameID, err)
	}
	return engine.DecodeSnapshot(data)
}

// RecordResults persists the final leaderboard once a game is terminal.
// Placement is 1-based finishing order.
func RecordResults(ctx context.Context, g *engine.Game) error {
	if !g.Finished() {
		return fmt.Errorf("game %s is not finished", g.ID)
	}
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		q := `
			INSERT INTO game_results (game_id, player_id, placement)
			VALUES ($1, $2, $3)
			ON CONFLICT (game_id, player_id) DO UPDATE SET placement = $3
		`
		for place, playerID := range g.Leaderboard {
			if _, e := tx.Exec(ctx, q, g.ID, playerID, place+1); e != nil {
				return e
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("record results for game %s: %w", g.ID, err)
	}
	return nil
}
