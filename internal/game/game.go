package game

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/calebsw/unoroom/internal/models"
)

// DefaultMaxPlayers is the seat cap for a room.
const DefaultMaxPlayers = 10

// UnoGame holds the entire authoritative state for one room's game. It has
// no locking of its own: the room registry serializes every command and
// timer callback, and is the game's only caller.
type UnoGame struct {
	RoomID string

	Players     []*models.Player
	Deck        []models.Card
	DiscardPile []models.Card

	CurrentPlayerIndex int
	Direction          int
	CurrentColor       models.Color
	DrawCount          int

	// SkippedPlayer marks the player a skip/reverse just passed over; it
	// is uuid.Nil whenever no skip is being resolved.
	SkippedPlayer uuid.UUID

	HostID      uuid.UUID
	GameStarted bool
	GameEnded   bool
	Winner      uuid.UUID
	StartedAt   time.Time

	playAgainVotes []uuid.UUID
	maxPlayers     int
	rng            *rand.Rand
}

// PlayResult reports the side effects of a successful card play.
type PlayResult struct {
	// Message is a table-wide notification (skip, reverse, draw penalty,
	// or missed UNO call), empty if the play had none.
	Message string
	// Winner is the winning player when this play emptied their hand,
	// uuid.Nil otherwise.
	Winner uuid.UUID
	// UnoPenalty is set when the player was dealt 2 penalty cards for
	// playing at one card without having called UNO.
	UnoPenalty bool
}

// DrawResult reports the outcome of a draw command.
type DrawResult struct {
	Cards []models.Card
	// Penalty is set when the draw resolved a pending stacked penalty
	// rather than the normal single draw.
	Penalty bool
}

// VoteStatus is the running play-again tally.
type VoteStatus struct {
	Votes        int
	TotalPlayers int
	VotedPlayers []uuid.UUID
	AllVoted     bool
}

// NewUnoGame builds an empty lobby-state game for a room.
func NewUnoGame(roomID string, maxPlayers int) *UnoGame {
	if maxPlayers <= 0 {
		maxPlayers = DefaultMaxPlayers
	}
	return &UnoGame{
		RoomID:     roomID,
		Direction:  1,
		maxPlayers: maxPlayers,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// AddPlayer seats a new player. The first player to join becomes host.
// Joining fails once the game is in progress or the room is full.
func (g *UnoGame) AddPlayer(playerID uuid.UUID, name string) error {
	if len(g.Players) >= g.maxPlayers || g.GameStarted {
		return ErrRoomUnjoinable
	}
	g.Players = append(g.Players, &models.Player{
		ID:   playerID,
		Name: name,
		Hand: []models.Card{},
	})
	if len(g.Players) == 1 {
		g.HostID = playerID
	}
	return nil
}

// RemovePlayer unseats a player, shifting the turn pointer left when the
// removed seat was at or before it so the same player keeps the turn. If
// the host leaves, the earliest-seated remaining player inherits the role.
func (g *UnoGame) RemovePlayer(playerID uuid.UUID) (name string, removed bool) {
	idx := g.playerIndex(playerID)
	if idx < 0 {
		return "", false
	}
	name = g.Players[idx].Name
	g.Players = append(g.Players[:idx], g.Players[idx+1:]...)

	if g.CurrentPlayerIndex >= idx && g.CurrentPlayerIndex > 0 {
		g.CurrentPlayerIndex--
	}
	if g.CurrentPlayerIndex >= len(g.Players) {
		g.CurrentPlayerIndex = 0
	}

	if playerID == g.HostID && len(g.Players) > 0 {
		g.HostID = g.Players[0].ID
	}
	return name, true
}

// SetReady flips a player's lobby ready flag.
func (g *UnoGame) SetReady(playerID uuid.UUID, ready bool) bool {
	p := g.playerByID(playerID)
	if p == nil {
		return false
	}
	p.Ready = ready
	return true
}

// Start validates the host's start request, then shuffles a fresh deck,
// deals 7 cards to each seat, and flips the opening discard card.
func (g *UnoGame) Start(callerID uuid.UUID) error {
	if callerID != g.HostID {
		return ErrNotHost
	}
	if len(g.Players) < 2 {
		return ErrNotEnoughPlayers
	}
	var notReady []string
	for _, p := range g.Players {
		if !p.Ready {
			notReady = append(notReady, p.Name)
		}
	}
	if len(notReady) > 0 {
		return fmt.Errorf("Waiting for players to be ready: %s", strings.Join(notReady, ", "))
	}

	g.GameStarted = true
	g.GameEnded = false
	g.CurrentPlayerIndex = 0
	g.Direction = 1
	g.DrawCount = 0
	g.Winner = uuid.Nil
	g.SkippedPlayer = uuid.Nil
	g.Deck = newDeck()
	shuffle(g.Deck, g.rng)
	g.DiscardPile = nil
	g.deal()
	g.StartedAt = time.Now()
	return nil
}

// deal gives each player 7 cards in seating order, then draws for the
// opening discard until a non-wild comes up. Skipped wilds go back under
// the deck so the table still holds a full 108-card set.
func (g *UnoGame) deal() {
	for _, p := range g.Players {
		p.Hand = make([]models.Card, 0, 7)
		for i := 0; i < 7; i++ {
			card, ok := g.drawOne()
			if !ok {
				break
			}
			p.Hand = append(p.Hand, card)
		}
	}

	var skippedWilds []models.Card
	for {
		card, ok := g.drawOne()
		if !ok {
			break
		}
		if card.IsWild() {
			skippedWilds = append(skippedWilds, card)
			continue
		}
		g.DiscardPile = append(g.DiscardPile, card)
		g.CurrentColor = card.Color
		break
	}
	if len(skippedWilds) > 0 {
		g.Deck = append(skippedWilds, g.Deck...)
	}
}

// PlayCard validates and applies one card play for the player. On success
// the discard pile, active color, turn pointer, and any special-card state
// have all been updated; the returned result carries the broadcast
// side effects.
func (g *UnoGame) PlayCard(playerID uuid.UUID, card models.Card, chosenColor models.Color) (PlayResult, error) {
	if !g.GameStarted || g.GameEnded {
		return PlayResult{}, ErrGameNotStarted
	}
	if g.Players[g.CurrentPlayerIndex].ID != playerID {
		return PlayResult{}, ErrNotYourTurn
	}
	if g.SkippedPlayer == playerID {
		return PlayResult{}, ErrSkipped
	}

	p := g.playerByID(playerID)
	cardIdx := p.CardIndex(card)
	if cardIdx < 0 {
		return PlayResult{}, ErrCardNotInHand
	}
	if !g.isValidPlay(card) {
		return PlayResult{}, ErrInvalidPlay
	}

	var result PlayResult

	// Missed UNO declaration: playing from one card without having called
	// UNO costs 2 penalty cards, drawn before the play is applied.
	if len(p.Hand) == 1 && !p.UnoCall {
		for i := 0; i < 2; i++ {
			penalty, ok := g.drawOne()
			if !ok {
				break
			}
			p.Hand = append(p.Hand, penalty)
		}
		result.UnoPenalty = true
		// The hand just grew, so the played card may have shifted.
		cardIdx = p.CardIndex(card)
	}

	p.Hand = append(p.Hand[:cardIdx], p.Hand[cardIdx+1:]...)
	g.DiscardPile = append(g.DiscardPile, card)

	if card.IsWild() {
		if models.ValidPlayableColor(chosenColor) {
			g.CurrentColor = chosenColor
		} else {
			g.CurrentColor = models.ColorRed
		}
	} else {
		g.CurrentColor = card.Color
	}

	// UNO must be re-declared the next time the player is down to one card.
	p.UnoCall = false

	special := g.applySpecialCard(card)
	result.Message = special.message
	if result.UnoPenalty {
		result.Message = fmt.Sprintf("%s didn't call UNO! Drawing 2 penalty cards.", p.Name)
	}

	if len(p.Hand) == 0 {
		g.Winner = playerID
		g.GameEnded = true
		result.Winner = playerID
		return result, nil
	}

	if !special.advancedTurn {
		g.advanceTurn()
	}
	if g.SkippedPlayer != uuid.Nil && g.Players[g.CurrentPlayerIndex].ID != g.SkippedPlayer {
		g.SkippedPlayer = uuid.Nil
	}
	return result, nil
}

type specialResult struct {
	// advancedTurn is set when the special effect already moved the turn
	// pointer, so PlayCard must not advance again.
	advancedTurn bool
	message      string
}

// applySpecialCard resolves skip/reverse/draw effects after a card lands
// on the discard pile.
func (g *UnoGame) applySpecialCard(card models.Card) specialResult {
	switch card.Kind {
	case models.KindSkip:
		return g.skipNextPlayer()
	case models.KindReverse:
		g.Direction *= -1
		if len(g.Players) == 2 {
			// With two players a reverse behaves exactly like a skip.
			return g.skipNextPlayer()
		}
		return specialResult{message: "Direction reversed!"}
	case models.KindDrawTwo, models.KindWildDrawFour:
		g.DrawCount += card.PenaltyAmount()
		target := g.peekNext()
		g.advanceTurn()
		return specialResult{
			advancedTurn: true,
			message:      fmt.Sprintf("%s must draw %d cards!", target.Name, card.PenaltyAmount()),
		}
	}
	return specialResult{}
}

// skipNextPlayer flags the next player as skipped and lands the turn on
// the player after them.
func (g *UnoGame) skipNextPlayer() specialResult {
	target := g.peekNext()
	g.SkippedPlayer = target.ID
	g.advanceTurn()
	g.advanceTurn()
	return specialResult{
		advancedTurn: true,
		message:      fmt.Sprintf("%s was skipped!", target.Name),
	}
}

// DrawCard handles the draw command on the caller's turn. With a pending
// stacked penalty it draws the full accumulated amount and clears it;
// otherwise it draws a single card. Either way the turn advances, except
// when deck and discard are both exhausted and nothing could be drawn.
func (g *UnoGame) DrawCard(playerID uuid.UUID) (DrawResult, error) {
	if !g.GameStarted || g.GameEnded {
		return DrawResult{}, ErrGameNotStarted
	}
	if g.Players[g.CurrentPlayerIndex].ID != playerID {
		return DrawResult{}, ErrNotYourTurn
	}
	p := g.playerByID(playerID)

	if g.DrawCount > 0 {
		drawn := make([]models.Card, 0, g.DrawCount)
		for i := 0; i < g.DrawCount; i++ {
			card, ok := g.drawOne()
			if !ok {
				break
			}
			p.Hand = append(p.Hand, card)
			drawn = append(drawn, card)
		}
		g.DrawCount = 0
		g.advanceTurn()
		return DrawResult{Cards: drawn, Penalty: true}, nil
	}

	card, ok := g.drawOne()
	if !ok {
		// Accepted edge case: nothing left anywhere outside hands. The
		// draw yields no card and the turn does not move.
		return DrawResult{}, nil
	}
	p.Hand = append(p.Hand, card)
	g.advanceTurn()
	return DrawResult{Cards: []models.Card{card}}, nil
}

// CallUno registers the player's UNO declaration. Legal only on their turn
// with exactly one card left; it wards off the missed-call penalty on
// their next play.
func (g *UnoGame) CallUno(playerID uuid.UUID) error {
	if !g.GameStarted || g.GameEnded {
		return ErrGameNotStarted
	}
	if g.Players[g.CurrentPlayerIndex].ID != playerID {
		return ErrNotYourTurn
	}
	p := g.playerByID(playerID)
	if len(p.Hand) != 1 {
		return ErrUnoNotAllowed
	}
	p.UnoCall = true
	return nil
}

// VotePlayAgain records an idempotent post-game vote and returns the tally.
func (g *UnoGame) VotePlayAgain(playerID uuid.UUID) (VoteStatus, error) {
	if !g.GameEnded {
		return VoteStatus{}, ErrGameNotEnded
	}
	if !g.HasVoted(playerID) {
		g.playAgainVotes = append(g.playAgainVotes, playerID)
	}
	return g.PlayAgainStatus(), nil
}

// HasVoted reports whether the player already cast a play-again vote.
func (g *UnoGame) HasVoted(playerID uuid.UUID) bool {
	for _, id := range g.playAgainVotes {
		if id == playerID {
			return true
		}
	}
	return false
}

// PlayAgainStatus returns the current play-again tally.
func (g *UnoGame) PlayAgainStatus() VoteStatus {
	voted := make([]uuid.UUID, len(g.playAgainVotes))
	copy(voted, g.playAgainVotes)
	return VoteStatus{
		Votes:        len(g.playAgainVotes),
		TotalPlayers: len(g.Players),
		VotedPlayers: voted,
		AllVoted:     len(g.Players) > 0 && len(g.playAgainVotes) == len(g.Players),
	}
}

// Reset returns the room to the lobby: round state, hands, votes, and
// ready/UNO flags are cleared while players, room code, and host survive.
func (g *UnoGame) Reset() {
	g.CurrentPlayerIndex = 0
	g.Direction = 1
	g.Deck = nil
	g.DiscardPile = nil
	g.GameStarted = false
	g.GameEnded = false
	g.Winner = uuid.Nil
	g.CurrentColor = ""
	g.DrawCount = 0
	g.SkippedPlayer = uuid.Nil
	g.playAgainVotes = nil
	for _, p := range g.Players {
		p.Hand = []models.Card{}
		p.UnoCall = false
		p.Ready = false
	}
}

// peekNext returns the player one step ahead in turn order.
func (g *UnoGame) peekNext() *models.Player {
	idx := (g.CurrentPlayerIndex + g.Direction + len(g.Players)) % len(g.Players)
	return g.Players[idx]
}

// advanceTurn moves the turn pointer one step along the current direction.
func (g *UnoGame) advanceTurn() {
	g.CurrentPlayerIndex = (g.CurrentPlayerIndex + g.Direction + len(g.Players)) % len(g.Players)
}

func (g *UnoGame) playerByID(playerID uuid.UUID) *models.Player {
	if idx := g.playerIndex(playerID); idx >= 0 {
		return g.Players[idx]
	}
	return nil
}

func (g *UnoGame) playerIndex(playerID uuid.UUID) int {
	for i, p := range g.Players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

// PlayerName returns the display name for a seated player, or a fallback
// for one that has already left.
func (g *UnoGame) PlayerName(playerID uuid.UUID) string {
	if p := g.playerByID(playerID); p != nil {
		return p.Name
	}
	return "Unknown Player"
}
