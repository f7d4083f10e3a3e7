package models

import "fmt"

// Suits. A joker carries SuitJoker and rank 0.
const (
	SuitHearts   = "hearts"
	SuitDiamonds = "diamonds"
	SuitClubs    = "clubs"
	SuitSpades   = "spades"
	SuitJoker    = "joker"
)

// JokerRank is the rank carried by joker cards.
const JokerRank = 0

// Card is an immutable value identified by (suit, rank). Hands are rebuilt
// from snapshots, so two cards are the same card whenever suit and rank match.
type Card struct {
	Suit string `json:"suit"`
	Rank int    `json:"rank"`
}

// IsJoker reports whether c is a joker.
func (c Card) IsJoker() bool {
	return c.Suit == SuitJoker
}

// RankSymbol returns the display symbol for a rank: V (Jack), D (Queen),
// R (King), or the numeric rank.
func RankSymbol(rank int) string {
	switch rank {
	case 11:
		return "V"
	case 12:
		return "D"
	case 13:
		return "R"
	default:
		return fmt.Sprintf("%d", rank)
	}
}

// SuitSymbol returns the glyph for a suit, or empty for unknown suits.
func SuitSymbol(suit string) string {
	switch suit {
	case SuitHearts:
		return "♥"
	case SuitDiamonds:
		return "♦"
	case SuitClubs:
		return "♣"
	case SuitSpades:
		return "♠"
	default:
		return ""
	}
}

func (c Card) String() string {
	if c.IsJoker() {
		return "joker"
	}
	return RankSymbol(c.Rank) + SuitSymbol(c.Suit)
}
