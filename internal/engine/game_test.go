package engine

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tlacour/president/internal/models"
)

func newTestPlayer(t *testing.T, name string) *models.Player {
	t.Helper()
	p, err := models.NewPlayer(name)
	require.NoError(t, err)
	return p
}

// setupLobby builds a lobby game through the public operations: the first
// name hosts, the rest join.
func setupLobby(t *testing.T, names ...string) (*Game, []*models.Player) {
	t.Helper()
	require.NotEmpty(t, names)

	players := make([]*models.Player, len(names))
	for i, name := range names {
		players[i] = newTestPlayer(t, name)
	}

	g, err := CreateGame(players[0])
	require.NoError(t, err)
	for _, p := range players[1:] {
		g, err = JoinGame(g, p)
		require.NoError(t, err)
	}
	return g, players
}

// fixedGame builds a launched game with handcrafted hands, bypassing the
// shuffle so play tests are deterministic.
func fixedGame(t *testing.T, hands ...models.Hand) (*Game, []*models.Player) {
	t.Helper()
	players := make([]*models.Player, len(hands))
	for i, hand := range hands {
		players[i] = newTestPlayer(t, "player")
		players[i].Hand = hand.Clone()
	}
	id, err := uuid.NewV7()
	require.NoError(t, err)
	return &Game{ID: id, Players: players, Launched: true, Version: 2}, players
}

func card(suit string, rank int) models.Card {
	return models.Card{Suit: suit, Rank: rank}
}

func TestCreateGame(t *testing.T) {
	host := newTestPlayer(t, "host")
	g, err := CreateGame(host)
	require.NoError(t, err)

	require.Len(t, g.Players, 1)
	assert.Equal(t, host.ID, g.Players[0].ID)
	assert.False(t, g.Launched)
	assert.Empty(t, g.Leaderboard)
	assert.NotEqual(t, uuid.Nil, g.ID)
}

func TestCreateGameMissingHost(t *testing.T) {
	g, err := CreateGame(nil)
	require.ErrorIs(t, err, ErrMissingHost)
	require.NotNil(t, g, "a game object is still produced; the caller decides whether to abort")
	assert.Empty(t, g.Players)
}

func TestJoinGame(t *testing.T) {
	g, players := setupLobby(t, "host", "alice")

	bob := newTestPlayer(t, "bob")
	next, err := JoinGame(g, bob)
	require.NoError(t, err)

	require.Len(t, next.Players, 3)
	assert.Equal(t, players[0].ID, next.Players[0].ID, "turn order preserves join order")
	assert.Equal(t, bob.ID, next.Players[2].ID)
	assert.Greater(t, next.Version, g.Version)
}

func TestJoinGameDuplicate(t *testing.T) {
	g, players := setupLobby(t, "host", "alice")

	next, err := JoinGame(g, players[1])
	require.ErrorIs(t, err, ErrDuplicatePlayer)
	assert.Same(t, g, next, "a duplicate join is a no-op returning the unchanged game")
}

func TestJoinAfterLaunch(t *testing.T) {
	g, _ := setupLobby(t, "host", "alice")
	g, err := LaunchGame(g)
	require.NoError(t, err)

	_, err = JoinGame(g, newTestPlayer(t, "late"))
	assert.ErrorIs(t, err, ErrGameAlreadyLaunched)
}

func TestLaunchGameDealsWholeDeck(t *testing.T) {
	g, _ := setupLobby(t, "host", "alice", "bob")

	launched, err := LaunchGame(g)
	require.NoError(t, err)

	assert.True(t, launched.Launched)
	assert.Equal(t, 0, launched.CurrentPlayerIndex)
	assert.Empty(t, launched.CurrentCardSet)
	assert.Empty(t, launched.Leaderboard)

	total := 0
	minSize, maxSize := 53, 0
	for _, p := range launched.Players {
		n := len(p.Hand)
		total += n
		if n < minSize {
			minSize = n
		}
		if n > maxSize {
			maxSize = n
		}
	}
	assert.Equal(t, 52, total, "the whole deck is dealt")
	assert.LessOrEqual(t, maxSize-minSize, 1, "round-robin deal: hand sizes differ by at most one")

	// The original lobby snapshot is untouched.
	for _, p := range g.Players {
		assert.Empty(t, p.Hand)
	}

	_, err = LaunchGame(launched)
	assert.ErrorIs(t, err, ErrGameAlreadyLaunched)
}

func TestLaunchGameWithJokers(t *testing.T) {
	g, _ := setupLobby(t, "host", "alice", "bob")
	g.IncludeJokers = true

	launched, err := LaunchGame(g)
	require.NoError(t, err)

	total := 0
	for _, p := range launched.Players {
		total += len(p.Hand)
	}
	assert.Equal(t, 52+JokerCount, total)
}

func TestPlayCardSetBeforeLaunch(t *testing.T) {
	g, _ := setupLobby(t, "host", "alice")
	_, err := PlayCardSet(g, []models.Card{card(models.SuitHearts, 7)})
	assert.ErrorIs(t, err, ErrGameNotLaunched)

	_, err = SkipTurn(g)
	assert.ErrorIs(t, err, ErrGameNotLaunched)
}

func TestPlayCardSetInvalidSet(t *testing.T) {
	g, _ := fixedGame(t,
		models.Hand{card(models.SuitHearts, 7), card(models.SuitSpades, 7)},
		models.Hand{card(models.SuitClubs, 9)},
	)

	_, err := PlayCardSet(g, nil)
	assert.ErrorIs(t, err, ErrInvalidSet)

	_, err = PlayCardSet(g, []models.Card{
		card(models.SuitHearts, 7),
		card(models.SuitClubs, 9),
	})
	assert.ErrorIs(t, err, ErrInvalidSet, "mixed ranks are not a set")
}

func TestPlayCardSetHandMismatch(t *testing.T) {
	g, _ := fixedGame(t,
		models.Hand{card(models.SuitHearts, 7)},
		models.Hand{card(models.SuitClubs, 9)},
	)

	next, err := PlayCardSet(g, []models.Card{card(models.SuitSpades, 7)})
	require.ErrorIs(t, err, ErrHandMismatch)
	assert.Same(t, g, next, "rejection returns the unchanged snapshot")
	assert.Len(t, g.Players[0].Hand, 1, "no partial removal on rejection")
}

func TestPlayCardSetCannotBeat(t *testing.T) {
	g, _ := fixedGame(t,
		models.Hand{card(models.SuitHearts, 7), card(models.SuitSpades, 7), card(models.SuitHearts, 9)},
		models.Hand{card(models.SuitClubs, 9)},
	)
	g.CurrentCardSet = []models.Card{card(models.SuitDiamonds, 8)}

	// Lower rank.
	_, err := PlayCardSet(g, []models.Card{card(models.SuitHearts, 7)})
	assert.ErrorIs(t, err, ErrCannotBeat)

	// Right rank, wrong set size.
	g.CurrentCardSet = []models.Card{card(models.SuitDiamonds, 8), card(models.SuitClubs, 8)}
	_, err = PlayCardSet(g, []models.Card{card(models.SuitHearts, 9)})
	assert.ErrorIs(t, err, ErrCannotBeat)

	// Equal rank is not enough: strictly greater required.
	g.CurrentCardSet = []models.Card{card(models.SuitDiamonds, 9)}
	_, err = PlayCardSet(g, []models.Card{card(models.SuitHearts, 9)})
	assert.ErrorIs(t, err, ErrCannotBeat)
}

func TestRankTwoIsHighest(t *testing.T) {
	g, _ := fixedGame(t,
		models.Hand{card(models.SuitHearts, 2), card(models.SuitHearts, 13)},
		models.Hand{card(models.SuitClubs, 9)},
	)
	g.CurrentCardSet = []models.Card{card(models.SuitDiamonds, 5)}

	// A 2 beats a 5.
	next, err := PlayCardSet(g, []models.Card{card(models.SuitHearts, 2)})
	require.NoError(t, err)
	assert.Equal(t, []models.Card{card(models.SuitHearts, 2)}, next.CurrentCardSet)

	// Nothing beats a 2, not even another 2.
	g.CurrentCardSet = []models.Card{card(models.SuitDiamonds, 2)}
	_, err = PlayCardSet(g, []models.Card{card(models.SuitHearts, 13)})
	assert.ErrorIs(t, err, ErrCannotBeat)
	_, err = PlayCardSet(g, []models.Card{card(models.SuitHearts, 2)})
	assert.ErrorIs(t, err, ErrCannotBeat)
}

func TestPlayCardSetSuccess(t *testing.T) {
	g, players := fixedGame(t,
		models.Hand{card(models.SuitHearts, 7), card(models.SuitSpades, 7), card(models.SuitHearts, 9)},
		models.Hand{card(models.SuitClubs, 9)},
	)

	pair := []models.Card{card(models.SuitHearts, 7), card(models.SuitSpades, 7)}
	next, err := PlayCardSet(g, pair)
	require.NoError(t, err)

	assert.Equal(t, pair, next.CurrentCardSet)
	assert.Equal(t, 1, next.CurrentPlayerIndex, "turn advances after a play")
	assert.Equal(t, models.Hand{card(models.SuitHearts, 9)}, next.Players[0].Hand,
		"only the requested cards leave the hand")
	assert.Greater(t, next.Version, g.Version)

	// Original snapshot untouched.
	assert.Len(t, g.Players[0].Hand, 3)
	assert.Equal(t, players[0].ID, g.Players[0].ID)
}

func TestSkipTurn(t *testing.T) {
	g, _ := fixedGame(t,
		models.Hand{card(models.SuitHearts, 7)},
		models.Hand{card(models.SuitClubs, 9)},
		models.Hand{card(models.SuitSpades, 11)},
	)
	g.CurrentCardSet = []models.Card{card(models.SuitDiamonds, 10)}

	next, err := SkipTurn(g)
	require.NoError(t, err)
	assert.Equal(t, 1, next.CurrentPlayerIndex)
	assert.Equal(t, g.CurrentCardSet, next.CurrentCardSet, "skipping leaves the table alone")
	for i := range g.Players {
		assert.Equal(t, g.Players[i].Hand, next.Players[i].Hand)
	}

	// Skipping wraps around.
	next, err = SkipTurn(next)
	require.NoError(t, err)
	next, err = SkipTurn(next)
	require.NoError(t, err)
	assert.Equal(t, 0, next.CurrentPlayerIndex)
}

func TestTurnAdvancementSkipsFinished(t *testing.T) {
	g, players := fixedGame(t,
		models.Hand{card(models.SuitHearts, 7)},
		models.Hand{}, // already finished
		models.Hand{card(models.SuitSpades, 11)},
	)
	g.Leaderboard = []uuid.UUID{players[1].ID}

	next, err := PlayCardSet(g, []models.Card{card(models.SuitHearts, 7)})
	require.NoError(t, err)
	assert.Equal(t, 2, next.CurrentPlayerIndex, "finished players are never landed on")
	assert.Len(t, next.Leaderboard, 2, "player 0 emptied their hand and joins the leaderboard")
	assert.Equal(t, players[0].ID, next.Leaderboard[1])
}

func TestGameEnd(t *testing.T) {
	// A three-player endgame scripted so every play strictly climbs.
	g, players := fixedGame(t,
		models.Hand{card(models.SuitHearts, 3), card(models.SuitHearts, 6)},
		models.Hand{card(models.SuitClubs, 4), card(models.SuitClubs, 7), card(models.SuitClubs, 9)},
		models.Hand{card(models.SuitSpades, 5), card(models.SuitSpades, 8)},
	)

	plays := []struct {
		cards    []models.Card
		finished []uuid.UUID
	}{
		{[]models.Card{card(models.SuitHearts, 3)}, nil},
		{[]models.Card{card(models.SuitClubs, 4)}, nil},
		{[]models.Card{card(models.SuitSpades, 5)}, nil},
		{[]models.Card{card(models.SuitHearts, 6)}, []uuid.UUID{players[0].ID}},
		{[]models.Card{card(models.SuitClubs, 7)}, []uuid.UUID{players[0].ID}},
		{[]models.Card{card(models.SuitSpades, 8)}, []uuid.UUID{players[0].ID, players[2].ID}},
	}

	var err error
	for _, step := range plays {
		g, err = PlayCardSet(g, step.cards)
		require.NoError(t, err)
		assert.Equal(t, step.finished, g.Leaderboard)
	}

	require.False(t, g.Finished())
	assert.Equal(t, 1, g.CurrentPlayerIndex, "only player 1 is left")

	// Player 1 sheds their last card and the game is terminal.
	g, err = PlayCardSet(g, []models.Card{card(models.SuitClubs, 9)})
	require.NoError(t, err)
	require.True(t, g.Finished())
	assert.Equal(t, []uuid.UUID{players[0].ID, players[2].ID, players[1].ID}, g.Leaderboard)

	// No further mutating operations are accepted.
	_, err = SkipTurn(g)
	assert.ErrorIs(t, err, ErrGameFinished)
	_, err = PlayCardSet(g, []models.Card{card(models.SuitClubs, 9)})
	assert.ErrorIs(t, err, ErrGameFinished)
}

func TestLeaderboardNeverDuplicates(t *testing.T) {
	g, players := fixedGame(t,
		models.Hand{card(models.SuitHearts, 3)},
		models.Hand{card(models.SuitClubs, 4), card(models.SuitClubs, 5)},
	)

	g, err := PlayCardSet(g, []models.Card{card(models.SuitHearts, 3)})
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{players[0].ID}, g.Leaderboard)

	// Subsequent turns never re-append the finished player.
	g, err = PlayCardSet(g, []models.Card{card(models.SuitClubs, 4)})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{players[0].ID}, g.Leaderboard)
	assert.Equal(t, 1, g.CurrentPlayerIndex)
}
