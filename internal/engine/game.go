// Package engine holds the authoritative game state machine for President.
// Every operation is a pure transform from one Game snapshot to the next:
// on success a new snapshot with a bumped version is returned, on rejection
// the input snapshot is returned unchanged alongside the reason. The engine
// has no transport, storage, or clock dependencies; persisting and
// broadcasting accepted snapshots is the host's job.
package engine

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/tlacour/president/internal/models"
)

// Game is the full state of one President game. Players are kept in turn
// order; Leaderboard records ids in finishing order, first entry = first hand
// to empty. Version increases by one on every accepted mutation and drives
// the compare-and-set publish discipline at the sync boundary.
type Game struct {
	ID                 uuid.UUID        `json:"id"`
	Players            []*models.Player `json:"players"`
	CurrentPlayerIndex int              `json:"currentPlayerIndex"`
	CurrentCardSet     []models.Card    `json:"currentCardSet"`
	Leaderboard        []uuid.UUID      `json:"leaderboard"`
	Launched           bool             `json:"isLaunched"`
	IncludeJokers      bool             `json:"includeJokers"`
	Version            uint64           `json:"version"`
}

// Clone returns a deep copy. Engine operations mutate clones only, so a
// rejected operation can hand back the caller's snapshot untouched.
func (g *Game) Clone() *Game {
	next := &Game{
		ID:                 g.ID,
		Players:            make([]*models.Player, len(g.Players)),
		CurrentPlayerIndex: g.CurrentPlayerIndex,
		Launched:           g.Launched,
		IncludeJokers:      g.IncludeJokers,
		Version:            g.Version,
	}
	for i, p := range g.Players {
		next.Players[i] = p.Clone()
	}
	if len(g.CurrentCardSet) > 0 {
		next.CurrentCardSet = make([]models.Card, len(g.CurrentCardSet))
		copy(next.CurrentCardSet, g.CurrentCardSet)
	}
	if len(g.Leaderboard) > 0 {
		next.Leaderboard = make([]uuid.UUID, len(g.Leaderboard))
		copy(next.Leaderboard, g.Leaderboard)
	}
	return next
}

// CurrentPlayer returns the player whose turn it is, or nil for an empty
// game.
func (g *Game) CurrentPlayer() *models.Player {
	if len(g.Players) == 0 {
		return nil
	}
	return g.Players[g.CurrentPlayerIndex]
}

// HasFinished reports whether the given player id is on the leaderboard.
func (g *Game) HasFinished(id uuid.UUID) bool {
	for _, fin := range g.Leaderboard {
		if fin == id {
			return true
		}
	}
	return false
}

// Finished reports whether every player has emptied their hand. A finished
// game accepts no further mutating operations.
func (g *Game) Finished() bool {
	return g.Launched && len(g.Players) > 0 && len(g.Leaderboard) == len(g.Players)
}

// CreateGame builds a new lobby game hosted by host. A nil host still yields
// a usable game but surfaces ErrMissingHost so the caller can abort.
func CreateGame(host *models.Player) (*Game, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	g := &Game{ID: id, Version: 1}
	if host == nil {
		return g, ErrMissingHost
	}
	g.Players = []*models.Player{host.Clone()}
	return g, nil
}

// JoinGame seats a new player at the end of the turn order. Joins are only
// accepted in the lobby; a duplicate id is a no-op rejection.
func JoinGame(g *Game, player *models.Player) (*Game, error) {
	if g.Launched {
		return g, ErrGameAlreadyLaunched
	}
	for _, p := range g.Players {
		if p.ID == player.ID {
			return g, ErrDuplicatePlayer
		}
	}
	next := g.Clone()
	next.Players = append(next.Players, player.Clone())
	next.Version++
	return next, nil
}

// LaunchGame shuffles the deck and deals it round-robin one card at a time,
// so hand sizes differ by at most one. The table and leaderboard are cleared
// and the turn returns to the first seat. After launch no further joins are
// accepted.
func LaunchGame(g *Game) (*Game, error) {
	if g.Launched {
		return g, ErrGameAlreadyLaunched
	}
	if len(g.Players) == 0 {
		return g, ErrMissingHost
	}
	next := g.Clone()
	deck := Shuffle(GenerateDeck(next.IncludeJokers))
	for i := range next.Players {
		next.Players[i].Hand = models.Hand{}
	}
	for i, card := range deck {
		next.Players[i%len(next.Players)].Hand.Add(card)
	}
	next.CurrentPlayerIndex = 0
	next.CurrentCardSet = nil
	next.Leaderboard = nil
	next.Launched = true
	next.Version++
	return next, nil
}

// PlayCardSet plays cards for the current player. Validation order:
//
//  1. the set is non-empty and single-rank (ErrInvalidSet)
//  2. every card is in the current player's hand (ErrHandMismatch)
//  3. against a non-empty table, the set has the same size and strictly
//     outranks it (ErrCannotBeat)
//
// On success the cards leave the hand and become the table. A player whose
// hand empties is appended to the leaderboard exactly once; once every
// player has finished the game is terminal, otherwise the turn advances.
func PlayCardSet(g *Game, cards []models.Card) (*Game, error) {
	if !g.Launched {
		return g, ErrGameNotLaunched
	}
	if g.Finished() {
		return g, ErrGameFinished
	}
	if !isSameRankSet(cards) {
		return g, ErrInvalidSet
	}

	next := g.Clone()
	player := next.CurrentPlayer()
	if err := player.Hand.RemoveMatching(cards); err != nil {
		return g, fmt.Errorf("%w: %v", ErrHandMismatch, err)
	}

	if len(g.CurrentCardSet) > 0 {
		if len(cards) != len(g.CurrentCardSet) {
			return g, ErrCannotBeat
		}
		if rankValue(cards[0].Rank) <= rankValue(g.CurrentCardSet[0].Rank) {
			return g, ErrCannotBeat
		}
	}

	next.CurrentCardSet = make([]models.Card, len(cards))
	copy(next.CurrentCardSet, cards)

	if player.Hand.IsEmpty() {
		next.Leaderboard = append(next.Leaderboard, player.ID)
	}
	if !next.Finished() {
		next.advanceTurn()
	}
	next.Version++
	return next, nil
}

// SkipTurn passes without altering the table or any hand.
func SkipTurn(g *Game) (*Game, error) {
	if !g.Launched {
		return g, ErrGameNotLaunched
	}
	if g.Finished() {
		return g, ErrGameFinished
	}
	next := g.Clone()
	next.advanceTurn()
	next.Version++
	return next, nil
}

// advanceTurn moves to the next seat, skipping players already on the
// leaderboard. If no eligible player remains the index is left alone; the
// game is terminal at that point.
func (g *Game) advanceTurn() {
	for i := 0; i < len(g.Players); i++ {
		g.CurrentPlayerIndex = (g.CurrentPlayerIndex + 1) % len(g.Players)
		if !g.HasFinished(g.Players[g.CurrentPlayerIndex].ID) {
			return
		}
	}
}

// rankValue maps a rank to its comparison key. Rank 2 is the highest rank in
// the game; everything else compares numerically, which leaves the ace low.
// Jokers (rank 0) have no defined beat semantics and compare below
// everything.
func rankValue(rank int) int {
	if rank == 2 {
		return 15
	}
	return rank
}

// isSameRankSet reports whether cards form a non-empty set sharing one rank.
func isSameRankSet(cards []models.Card) bool {
	if len(cards) == 0 {
		return false
	}
	for _, c := range cards {
		if c.Rank != cards[0].Rank {
			return false
		}
	}
	return true
}
