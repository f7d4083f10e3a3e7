package models

import "github.com/google/uuid"

// Player holds a stable identity plus the hand the engine deals to it.
// The id is the join key across snapshots and the leaderboard; the name may
// change without affecting identity. Whether a player has finished is derived
// from leaderboard membership, never stored here.
type Player struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Hand Hand      `json:"hand"`
}

// NewPlayer creates a player with a fresh v7 uuid and an empty hand.
func NewPlayer(name string) (*Player, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	return &Player{ID: id, Name: name, Hand: Hand{}}, nil
}

// Clone returns an independent copy of the player, including its hand.
func (p *Player) Clone() *Player {
	return &Player{ID: p.ID, Name: p.Name, Hand: p.Hand.Clone()}
}
