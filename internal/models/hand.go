package models

import (
	"fmt"
	"sort"
)

// Hand is the unordered collection of cards owned by one player. It is
// mutated only by dealing (Add) and playing (RemoveMatching).
type Hand []Card

// Add appends cards to the hand.
func (h *Hand) Add(cards ...Card) {
	*h = append(*h, cards...)
}

// IsEmpty reports whether the hand holds no cards.
func (h Hand) IsEmpty() bool {
	return len(h) == 0
}

// Contains reports whether at least one card matching (suit, rank) is held.
func (h Hand) Contains(c Card) bool {
	for _, held := range h {
		if held == c {
			return true
		}
	}
	return false
}

// RemoveMatching removes exactly one occurrence of each requested card,
// matched by (suit, rank). The removal is atomic: if any requested card has
// no remaining match, the hand is left untouched and the unmatched card is
// reported in the error.
func (h *Hand) RemoveMatching(cards []Card) error {
	remaining := make(Hand, len(*h))
	copy(remaining, *h)

	for _, want := range cards {
		idx := -1
		for i, held := range remaining {
			if held == want {
				idx = i
				break
			}
		}
		if idx == -1 {
			return fmt.Errorf("card %s not in hand", want)
		}
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}

	*h = remaining
	return nil
}

// Sorted returns the hand ordered by ascending rank for deterministic
// display. The stored order is not changed.
func (h Hand) Sorted() []Card {
	out := make([]Card, len(h))
	copy(out, h)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Rank < out[j].Rank
	})
	return out
}

// Clone returns an independent copy of the hand.
func (h Hand) Clone() Hand {
	out := make(Hand, len(h))
	copy(out, h)
	return out
}
