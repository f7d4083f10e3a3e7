package engine

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tlacour/president/internal/models"
)

func TestSnapshotRoundTrip(t *testing.T) {
	g, _ := setupLobby(t, "host", "alice", "bob")
	g, err := LaunchGame(g)
	require.NoError(t, err)

	data, err := EncodeSnapshot(g)
	require.NoError(t, err)

	decoded, err := DecodeSnapshot(data)
	require.NoError(t, err)

	assert.Equal(t, g.ID, decoded.ID)
	assert.Equal(t, g.Version, decoded.Version)
	assert.Equal(t, g.Launched, decoded.Launched)
	assert.Equal(t, g.CurrentPlayerIndex, decoded.CurrentPlayerIndex)
	require.Len(t, decoded.Players, len(g.Players))
	for i := range g.Players {
		assert.Equal(t, g.Players[i].ID, decoded.Players[i].ID)
		assert.Equal(t, g.Players[i].Hand, decoded.Players[i].Hand)
	}
}

func TestDecodeSnapshotMalformed(t *testing.T) {
	_, err := DecodeSnapshot([]byte(`{"id": 42`))
	assert.Error(t, err)

	_, err = DecodeSnapshot([]byte(`{}`))
	assert.Error(t, err, "a snapshot without a game id is rejected")
}

func TestDecodeSnapshotInvariants(t *testing.T) {
	base := func() *Game {
		g, _ := fixedGame(t,
			models.Hand{{Suit: models.SuitHearts, Rank: 7}},
			models.Hand{{Suit: models.SuitClubs, Rank: 9}},
		)
		return g
	}

	encode := func(g *Game) []byte {
		data, err := EncodeSnapshot(g)
		require.NoError(t, err)
		return data
	}

	t.Run("current player index out of range", func(t *testing.T) {
		g := base()
		g.CurrentPlayerIndex = 5
		_, err := DecodeSnapshot(encode(g))
		assert.Error(t, err)
	})

	t.Run("duplicate leaderboard entry", func(t *testing.T) {
		g := base()
		g.Players[0].Hand = models.Hand{}
		g.Leaderboard = []uuid.UUID{g.Players[0].ID, g.Players[0].ID}
		_, err := DecodeSnapshot(encode(g))
		assert.Error(t, err)
	})

	t.Run("finished player still holding cards", func(t *testing.T) {
		g := base()
		g.Leaderboard = []uuid.UUID{g.Players[0].ID}
		_, err := DecodeSnapshot(encode(g))
		assert.Error(t, err)
	})

	t.Run("leaderboard references unknown player", func(t *testing.T) {
		g := base()
		g.Leaderboard = []uuid.UUID{uuid.New()}
		_, err := DecodeSnapshot(encode(g))
		assert.Error(t, err)
	})

	t.Run("mixed rank table", func(t *testing.T) {
		g := base()
		g.CurrentCardSet = []models.Card{
			{Suit: models.SuitHearts, Rank: 4},
			{Suit: models.SuitClubs, Rank: 5},
		}
		_, err := DecodeSnapshot(encode(g))
		assert.Error(t, err)
	})
}
