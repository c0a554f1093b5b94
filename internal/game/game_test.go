// internal/game/game_test.go
package game

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calebsw/unoroom/internal/models"
)

// setupLobby builds a lobby-state game with n seated players named P1..Pn.
func setupLobby(t *testing.T, n int) (*UnoGame, []uuid.UUID) {
	t.Helper()
	g := NewUnoGame("TEST01", 0)
	ids := make([]uuid.UUID, n)
	for i := 0; i < n; i++ {
		ids[i] = uuid.New()
		require.NoError(t, g.AddPlayer(ids[i], fmt.Sprintf("P%d", i+1)))
	}
	return g, ids
}

// setupStartedGame readies everyone and starts the round.
func setupStartedGame(t *testing.T, n int) (*UnoGame, []uuid.UUID) {
	t.Helper()
	g, ids := setupLobby(t, n)
	for _, id := range ids {
		g.SetReady(id, true)
	}
	require.NoError(t, g.Start(ids[0]))
	return g, ids
}

// rigTurn pins the full table state for a deterministic play: whose turn it
// is, their hand, the discard top, and the active color.
func rigTurn(g *UnoGame, playerIdx int, hand []models.Card, top models.Card, color models.Color) {
	g.CurrentPlayerIndex = playerIdx
	g.Players[playerIdx].Hand = hand
	g.DiscardPile = []models.Card{top}
	g.CurrentColor = color
}

// totalCards counts every card in play: hands, deck, and discard pile.
func totalCards(g *UnoGame) int {
	total := len(g.Deck) + len(g.DiscardPile)
	for _, p := range g.Players {
		total += len(p.Hand)
	}
	return total
}

func TestAddPlayerHostAndLimits(t *testing.T) {
	g := NewUnoGame("TEST01", 2)
	p1, p2, p3 := uuid.New(), uuid.New(), uuid.New()

	require.NoError(t, g.AddPlayer(p1, "P1"))
	assert.Equal(t, p1, g.HostID)

	require.NoError(t, g.AddPlayer(p2, "P2"))
	assert.ErrorIs(t, g.AddPlayer(p3, "P3"), ErrRoomUnjoinable)
}

func TestAddPlayerAfterStart(t *testing.T) {
	g, _ := setupStartedGame(t, 2)
	assert.ErrorIs(t, g.AddPlayer(uuid.New(), "late"), ErrRoomUnjoinable)
}

func TestStartValidation(t *testing.T) {
	g, ids := setupLobby(t, 2)

	assert.ErrorIs(t, g.Start(ids[1]), ErrNotHost)

	g.SetReady(ids[0], true)
	err := g.Start(ids[0])
	require.Error(t, err)
	assert.Equal(t, "Waiting for players to be ready: P2", err.Error())

	g.SetReady(ids[1], true)
	assert.NoError(t, g.Start(ids[0]))
}

func TestStartNeedsTwoPlayers(t *testing.T) {
	g, ids := setupLobby(t, 1)
	g.SetReady(ids[0], true)
	assert.ErrorIs(t, g.Start(ids[0]), ErrNotEnoughPlayers)
}

func TestStartDealsHandsAndOpeningCard(t *testing.T) {
	g, _ := setupStartedGame(t, 3)

	for _, p := range g.Players {
		assert.Len(t, p.Hand, 7)
	}
	require.NotEmpty(t, g.DiscardPile)
	top := g.topCard()
	assert.False(t, top.IsWild(), "opening card must not be wild")
	assert.Equal(t, top.Color, g.CurrentColor)
	assert.Equal(t, 0, g.CurrentPlayerIndex)
	assert.Equal(t, 1, g.Direction)

	// Skipped opening wilds go back under the deck, so nothing leaks.
	assert.Equal(t, DeckSize, totalCards(g))
}

func TestPlayCardTurnAndHandValidation(t *testing.T) {
	g, ids := setupStartedGame(t, 2)
	rigTurn(g, 0,
		[]models.Card{{Color: models.ColorRed, Kind: models.KindNumber, Value: 5}},
		models.Card{Color: models.ColorRed, Kind: models.KindNumber, Value: 3},
		models.ColorRed)
	g.Players[0].UnoCall = true

	_, err := g.PlayCard(ids[1], models.Card{Color: models.ColorRed, Kind: models.KindNumber, Value: 5}, "")
	assert.ErrorIs(t, err, ErrNotYourTurn)

	_, err = g.PlayCard(ids[0], models.Card{Color: models.ColorBlue, Kind: models.KindNumber, Value: 9}, "")
	assert.ErrorIs(t, err, ErrCardNotInHand)

	// Failed attempts must not touch the hand or the turn.
	assert.Len(t, g.Players[0].Hand, 1)
	assert.Equal(t, 0, g.CurrentPlayerIndex)
}

func TestPlayCardRejectsNonMatching(t *testing.T) {
	g, ids := setupStartedGame(t, 2)
	rigTurn(g, 0,
		[]models.Card{{Color: models.ColorBlue, Kind: models.KindNumber, Value: 9}},
		models.Card{Color: models.ColorRed, Kind: models.KindNumber, Value: 3},
		models.ColorRed)

	_, err := g.PlayCard(ids[0], models.Card{Color: models.ColorBlue, Kind: models.KindNumber, Value: 9}, "")
	assert.ErrorIs(t, err, ErrInvalidPlay)
}

func TestPlayMatchingByFace(t *testing.T) {
	g, ids := setupStartedGame(t, 2)
	card := models.Card{Color: models.ColorBlue, Kind: models.KindNumber, Value: 3}
	rigTurn(g, 0,
		[]models.Card{card, {Color: models.ColorBlue, Kind: models.KindNumber, Value: 9}},
		models.Card{Color: models.ColorRed, Kind: models.KindNumber, Value: 3},
		models.ColorRed)

	res, err := g.PlayCard(ids[0], card, "")
	require.NoError(t, err)
	assert.Empty(t, res.Message)
	assert.Equal(t, models.ColorBlue, g.CurrentColor)
	assert.Equal(t, 1, g.CurrentPlayerIndex)
	assert.Equal(t, card, g.topCard())
}

func TestSkipCard(t *testing.T) {
	g, ids := setupStartedGame(t, 3)
	skip := models.Card{Color: models.ColorRed, Kind: models.KindSkip}
	rigTurn(g, 0,
		[]models.Card{skip, {Color: models.ColorBlue, Kind: models.KindNumber, Value: 9}},
		models.Card{Color: models.ColorRed, Kind: models.KindNumber, Value: 3},
		models.ColorRed)

	res, err := g.PlayCard(ids[0], skip, "")
	require.NoError(t, err)
	assert.Equal(t, "P2 was skipped!", res.Message)
	assert.Equal(t, 2, g.CurrentPlayerIndex)
	assert.Equal(t, uuid.Nil, g.SkippedPlayer)
}

func TestReverseFlipsDirection(t *testing.T) {
	g, ids := setupStartedGame(t, 3)
	rev := models.Card{Color: models.ColorRed, Kind: models.KindReverse}
	rigTurn(g, 0,
		[]models.Card{rev, {Color: models.ColorBlue, Kind: models.KindNumber, Value: 9}},
		models.Card{Color: models.ColorRed, Kind: models.KindNumber, Value: 3},
		models.ColorRed)

	res, err := g.PlayCard(ids[0], rev, "")
	require.NoError(t, err)
	assert.Equal(t, "Direction reversed!", res.Message)
	assert.Equal(t, -1, g.Direction)
	assert.Equal(t, 2, g.CurrentPlayerIndex)
}

func TestReverseWithTwoPlayersActsAsSkip(t *testing.T) {
	g, ids := setupStartedGame(t, 2)
	rev := models.Card{Color: models.ColorRed, Kind: models.KindReverse}
	rigTurn(g, 0,
		[]models.Card{rev, {Color: models.ColorBlue, Kind: models.KindNumber, Value: 9}},
		models.Card{Color: models.ColorRed, Kind: models.KindNumber, Value: 3},
		models.ColorRed)

	res, err := g.PlayCard(ids[0], rev, "")
	require.NoError(t, err)
	assert.Equal(t, "P2 was skipped!", res.Message)
	assert.Equal(t, -1, g.Direction)
	assert.Equal(t, 0, g.CurrentPlayerIndex)
}

func TestDrawTwoStacking(t *testing.T) {
	g, ids := setupStartedGame(t, 3)
	d2 := models.Card{Color: models.ColorRed, Kind: models.KindDrawTwo}
	rigTurn(g, 0,
		[]models.Card{d2, {Color: models.ColorBlue, Kind: models.KindNumber, Value: 9}},
		models.Card{Color: models.ColorRed, Kind: models.KindNumber, Value: 3},
		models.ColorRed)

	res, err := g.PlayCard(ids[0], d2, "")
	require.NoError(t, err)
	assert.Equal(t, "P2 must draw 2 cards!", res.Message)
	assert.Equal(t, 2, g.DrawCount)
	assert.Equal(t, 1, g.CurrentPlayerIndex)

	// The threatened player stacks another draw2, passing 4 along.
	stack := models.Card{Color: models.ColorBlue, Kind: models.KindDrawTwo}
	g.Players[1].Hand = []models.Card{stack, {Color: models.ColorGreen, Kind: models.KindNumber, Value: 1}}
	res, err = g.PlayCard(ids[1], stack, "")
	require.NoError(t, err)
	assert.Equal(t, "P3 must draw 4 cards!", res.Message)
	assert.Equal(t, 4, g.DrawCount)
	assert.Equal(t, 2, g.CurrentPlayerIndex)

	// Non-stacking cards are unplayable under a pending penalty.
	number := models.Card{Color: models.ColorBlue, Kind: models.KindNumber, Value: 7}
	g.Players[2].Hand = []models.Card{number}
	_, err = g.PlayCard(ids[2], number, "")
	assert.ErrorIs(t, err, ErrInvalidPlay)

	// Drawing resolves the whole accumulated penalty and passes the turn.
	handBefore := len(g.Players[2].Hand)
	drawRes, err := g.DrawCard(ids[2])
	require.NoError(t, err)
	assert.True(t, drawRes.Penalty)
	assert.Len(t, drawRes.Cards, 4)
	assert.Len(t, g.Players[2].Hand, handBefore+4)
	assert.Equal(t, 0, g.DrawCount)
	assert.Equal(t, 0, g.CurrentPlayerIndex)
}

func TestDrawTwoOnWildDrawFourNeedsColorMatch(t *testing.T) {
	g, ids := setupStartedGame(t, 2)
	rigTurn(g, 0,
		[]models.Card{
			{Color: models.ColorRed, Kind: models.KindDrawTwo},
			{Color: models.ColorBlue, Kind: models.KindDrawTwo},
		},
		models.Card{Color: models.ColorWild, Kind: models.KindWildDrawFour},
		models.ColorBlue)
	g.DrawCount = 4

	_, err := g.PlayCard(ids[0], models.Card{Color: models.ColorRed, Kind: models.KindDrawTwo}, "")
	assert.ErrorIs(t, err, ErrInvalidPlay)

	res, err := g.PlayCard(ids[0], models.Card{Color: models.ColorBlue, Kind: models.KindDrawTwo}, "")
	require.NoError(t, err)
	assert.Equal(t, 6, g.DrawCount)
	assert.Equal(t, "P2 must draw 6 cards!", res.Message)
}

func TestWildChoosesColor(t *testing.T) {
	g, ids := setupStartedGame(t, 2)
	wild := models.Card{Color: models.ColorWild, Kind: models.KindWild}
	rigTurn(g, 0,
		[]models.Card{wild, {Color: models.ColorBlue, Kind: models.KindNumber, Value: 9}},
		models.Card{Color: models.ColorRed, Kind: models.KindNumber, Value: 3},
		models.ColorRed)

	_, err := g.PlayCard(ids[0], wild, models.ColorGreen)
	require.NoError(t, err)
	assert.Equal(t, models.ColorGreen, g.CurrentColor)
}

func TestWildWithoutColorDefaultsToRed(t *testing.T) {
	g, ids := setupStartedGame(t, 2)
	wild := models.Card{Color: models.ColorWild, Kind: models.KindWild}
	rigTurn(g, 0,
		[]models.Card{wild, {Color: models.ColorBlue, Kind: models.KindNumber, Value: 9}},
		models.Card{Color: models.ColorGreen, Kind: models.KindNumber, Value: 3},
		models.ColorGreen)

	_, err := g.PlayCard(ids[0], wild, "")
	require.NoError(t, err)
	assert.Equal(t, models.ColorRed, g.CurrentColor)
}

func TestMissedUnoCallPenalty(t *testing.T) {
	g, ids := setupStartedGame(t, 2)
	card := models.Card{Color: models.ColorRed, Kind: models.KindNumber, Value: 5}
	rigTurn(g, 0,
		[]models.Card{card},
		models.Card{Color: models.ColorRed, Kind: models.KindNumber, Value: 3},
		models.ColorRed)

	res, err := g.PlayCard(ids[0], card, "")
	require.NoError(t, err)
	assert.True(t, res.UnoPenalty)
	assert.Equal(t, "P1 didn't call UNO! Drawing 2 penalty cards.", res.Message)
	// Drew 2, played 1.
	assert.Len(t, g.Players[0].Hand, 2)
	assert.Equal(t, uuid.Nil, res.Winner)
	assert.False(t, g.GameEnded)
}

func TestCallUnoThenWin(t *testing.T) {
	g, ids := setupStartedGame(t, 2)
	card := models.Card{Color: models.ColorRed, Kind: models.KindNumber, Value: 5}
	rigTurn(g, 0,
		[]models.Card{card},
		models.Card{Color: models.ColorRed, Kind: models.KindNumber, Value: 3},
		models.ColorRed)

	require.NoError(t, g.CallUno(ids[0]))

	res, err := g.PlayCard(ids[0], card, "")
	require.NoError(t, err)
	assert.False(t, res.UnoPenalty)
	assert.Equal(t, ids[0], res.Winner)
	assert.True(t, g.GameEnded)
	assert.Equal(t, ids[0], g.Winner)
}

func TestCallUnoRequiresSingleCard(t *testing.T) {
	g, ids := setupStartedGame(t, 2)
	assert.ErrorIs(t, g.CallUno(ids[0]), ErrUnoNotAllowed)
	assert.ErrorIs(t, g.CallUno(ids[1]), ErrNotYourTurn)
}

func TestDrawCardSingle(t *testing.T) {
	g, ids := setupStartedGame(t, 2)
	handBefore := len(g.Players[0].Hand)

	res, err := g.DrawCard(ids[0])
	require.NoError(t, err)
	assert.False(t, res.Penalty)
	require.Len(t, res.Cards, 1)
	assert.Len(t, g.Players[0].Hand, handBefore+1)
	assert.Equal(t, 1, g.CurrentPlayerIndex)

	_, err = g.DrawCard(ids[0])
	assert.ErrorIs(t, err, ErrNotYourTurn)
}

func TestDrawCardFullyExhausted(t *testing.T) {
	g, ids := setupStartedGame(t, 2)
	g.Deck = nil
	g.DiscardPile = []models.Card{{Color: models.ColorRed, Kind: models.KindNumber, Value: 3}}

	res, err := g.DrawCard(ids[0])
	require.NoError(t, err)
	assert.Empty(t, res.Cards)
	// Nothing drawn, turn stays put.
	assert.Equal(t, 0, g.CurrentPlayerIndex)
}

func TestCommandsRejectedBeforeStart(t *testing.T) {
	g, ids := setupLobby(t, 2)
	_, err := g.PlayCard(ids[0], models.Card{Color: models.ColorRed, Kind: models.KindNumber, Value: 5}, "")
	assert.ErrorIs(t, err, ErrGameNotStarted)
	_, err = g.DrawCard(ids[0])
	assert.ErrorIs(t, err, ErrGameNotStarted)
	assert.ErrorIs(t, g.CallUno(ids[0]), ErrGameNotStarted)
}

func TestPlayAgainVoting(t *testing.T) {
	g, ids := setupStartedGame(t, 3)

	_, err := g.VotePlayAgain(ids[0])
	assert.ErrorIs(t, err, ErrGameNotEnded)

	g.GameEnded = true
	status, err := g.VotePlayAgain(ids[0])
	require.NoError(t, err)
	assert.Equal(t, 1, status.Votes)
	assert.False(t, status.AllVoted)

	// Repeat votes do not double count.
	status, err = g.VotePlayAgain(ids[0])
	require.NoError(t, err)
	assert.Equal(t, 1, status.Votes)
	assert.True(t, g.HasVoted(ids[0]))
	assert.False(t, g.HasVoted(ids[1]))

	_, err = g.VotePlayAgain(ids[1])
	require.NoError(t, err)
	status, err = g.VotePlayAgain(ids[2])
	require.NoError(t, err)
	assert.Equal(t, 3, status.Votes)
	assert.Equal(t, 3, status.TotalPlayers)
	assert.True(t, status.AllVoted)
}

func TestResetReturnsToLobby(t *testing.T) {
	g, ids := setupStartedGame(t, 2)
	g.GameEnded = true
	g.Winner = ids[0]
	_, err := g.VotePlayAgain(ids[0])
	require.NoError(t, err)

	g.Reset()

	assert.False(t, g.GameStarted)
	assert.False(t, g.GameEnded)
	assert.Equal(t, uuid.Nil, g.Winner)
	assert.Equal(t, 1, g.Direction)
	assert.Empty(t, g.Deck)
	assert.Empty(t, g.DiscardPile)
	assert.False(t, g.HasVoted(ids[0]))
	assert.Len(t, g.Players, 2)
	assert.Equal(t, ids[0], g.HostID)
	for _, p := range g.Players {
		assert.Empty(t, p.Hand)
		assert.False(t, p.Ready)
		assert.False(t, p.UnoCall)
	}
}

func TestRemovePlayerAdjustsTurnPointer(t *testing.T) {
	g, ids := setupStartedGame(t, 3)
	g.CurrentPlayerIndex = 2

	// Removing a seat before the turn pointer shifts it left so the same
	// player keeps the turn.
	name, removed := g.RemovePlayer(ids[1])
	require.True(t, removed)
	assert.Equal(t, "P2", name)
	assert.Equal(t, 1, g.CurrentPlayerIndex)
	assert.Equal(t, ids[2], g.Players[g.CurrentPlayerIndex].ID)
}

func TestRemoveHostReassigns(t *testing.T) {
	g, ids := setupLobby(t, 3)

	_, removed := g.RemovePlayer(ids[0])
	require.True(t, removed)
	assert.Equal(t, ids[1], g.HostID)

	_, removed = g.RemovePlayer(uuid.New())
	assert.False(t, removed)
}

func TestCardConservationThroughPlay(t *testing.T) {
	g, _ := setupStartedGame(t, 3)
	require.Equal(t, DeckSize, totalCards(g))

	// A handful of draws keeps the total invariant.
	for i := 0; i < 5; i++ {
		current := g.Players[g.CurrentPlayerIndex].ID
		_, err := g.DrawCard(current)
		require.NoError(t, err)
		assert.Equal(t, DeckSize, totalCards(g))
	}
}
