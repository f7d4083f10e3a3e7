package engine

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// EncodeSnapshot serializes the game aggregate with its stable field set so
// hosts can store and transmit it without coupling to engine internals.
func EncodeSnapshot(g *Game) ([]byte, error) {
	data, err := json.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("encode game %s: %w", g.ID, err)
	}
	return data, nil
}

// DecodeSnapshot rebuilds a game from its serialized form and verifies the
// aggregate invariants. A malformed snapshot is a programming error, not a
// business rejection: the operation aborts rather than repairing the state.
func DecodeSnapshot(data []byte) (*Game, error) {
	var g Game
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if err := validate(&g); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &g, nil
}

// validate checks the structural invariants every snapshot must satisfy.
func validate(g *Game) error {
	if g.ID == uuid.Nil {
		return fmt.Errorf("missing game id")
	}
	if len(g.Players) > 0 && (g.CurrentPlayerIndex < 0 || g.CurrentPlayerIndex >= len(g.Players)) {
		return fmt.Errorf("current player index %d out of range for %d players",
			g.CurrentPlayerIndex, len(g.Players))
	}

	seats := make(map[uuid.UUID]bool, len(g.Players))
	for _, p := range g.Players {
		if seats[p.ID] {
			return fmt.Errorf("player %s seated twice", p.ID)
		}
		seats[p.ID] = true
	}

	seen := make(map[uuid.UUID]bool, len(g.Leaderboard))
	for _, id := range g.Leaderboard {
		if seen[id] {
			return fmt.Errorf("player %s on leaderboard twice", id)
		}
		seen[id] = true
		if !seats[id] {
			return fmt.Errorf("leaderboard references unknown player %s", id)
		}
	}
	for _, p := range g.Players {
		if seen[p.ID] && !p.Hand.IsEmpty() {
			return fmt.Errorf("finished player %s still holds cards", p.ID)
		}
	}

	if !isSameRankSet(g.CurrentCardSet) && len(g.CurrentCardSet) > 0 {
		return fmt.Errorf("table holds a mixed-rank card set")
	}
	if !g.Launched && len(g.Leaderboard) > 0 {
		return fmt.Errorf("leaderboard populated before launch")
	}
	return nil
}
