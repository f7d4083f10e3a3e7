package engine

import (
	"math/rand"
	"time"

	"github.com/tlacour/president/internal/models"
)

var globalRand = rand.New(rand.NewSource(time.Now().UnixNano()))

// JokerCount is how many jokers extend the 52-card deck when jokers are
// enabled for a game.
const JokerCount = 2

var deckSuits = []string{
	models.SuitHearts,
	models.SuitDiamonds,
	models.SuitClubs,
	models.SuitSpades,
}

// GenerateDeck returns the canonical unshuffled deck: every (suit, rank)
// combination for ranks 1-13, optionally extended with jokers. The result is
// identical on every call for the same flag.
func GenerateDeck(includeJokers bool) []models.Card {
	size := 52
	if includeJokers {
		size += JokerCount
	}
	deck := make([]models.Card, 0, size)
	for _, suit := range deckSuits {
		for rank := 1; rank <= 13; rank++ {
			deck = append(deck, models.Card{Suit: suit, Rank: rank})
		}
	}
	if includeJokers {
		for i := 0; i < JokerCount; i++ {
			deck = append(deck, models.Card{Suit: models.SuitJoker, Rank: models.JokerRank})
		}
	}
	return deck
}

// Shuffle returns a uniformly random permutation of deck. The input is not
// mutated.
func Shuffle(deck []models.Card) []models.Card {
	return shuffleWith(globalRand, deck)
}

// shuffleWith runs a Fisher-Yates pass over a copy of deck using rng, so
// tests can seed the permutation.
func shuffleWith(rng *rand.Rand, deck []models.Card) []models.Card {
	out := make([]models.Card, len(deck))
	copy(out, deck)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
