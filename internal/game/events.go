package game

import (
	"github.com/google/uuid"

	"github.com/calebsw/unoroom/internal/models"
)

// EventType names an outbound event pushed to clients.
type EventType string

const (
	EventRoomCreated           EventType = "roomCreated"
	EventJoinedRoom            EventType = "joinedRoom"
	EventGameUpdate            EventType = "gameUpdate"
	EventGameStarted           EventType = "gameStarted"
	EventHandUpdate            EventType = "handUpdate"
	EventGameMessage           EventType = "gameMessage"
	EventGameWon               EventType = "gameWon"
	EventCardDrawn             EventType = "cardDrawn"
	EventCardsDrawn            EventType = "cardsDrawn"
	EventUnoCalled             EventType = "unoCalled"
	EventPlayAgainVote         EventType = "playAgainVote"
	EventPlayAgainStatus       EventType = "playAgainStatus"
	EventGameReset             EventType = "gameReset"
	EventPlayerLeft            EventType = "playerLeft"
	EventGameEndedSinglePlayer EventType = "gameEndedSinglePlayer"
	EventError                 EventType = "error"
	EventPong                  EventType = "pong"
)

// Event is the single outbound message shape. Every event carries its type
// plus whichever payload fields apply; the rest are omitted from the JSON.
type Event struct {
	Type         EventType      `json:"type"`
	RoomID       string         `json:"roomId,omitempty"`
	State        *State         `json:"state,omitempty"`
	Hand         *[]models.Card `json:"hand,omitempty"`
	Card         *models.Card   `json:"card,omitempty"`
	Cards        []models.Card  `json:"cards,omitempty"`
	Message      string         `json:"message,omitempty"`
	Winner       *uuid.UUID     `json:"winner,omitempty"`
	PlayerID     *uuid.UUID     `json:"playerId,omitempty"`
	PlayerName   string         `json:"playerName,omitempty"`
	Votes        int            `json:"votes,omitempty"`
	TotalPlayers int            `json:"totalPlayers,omitempty"`
	VotedPlayers []uuid.UUID    `json:"votedPlayers,omitempty"`
	AllVoted     bool           `json:"allVoted,omitempty"`
}

// PlayerState is the public view of one seat. Hand contents are never
// included; other players only ever learn the count.
type PlayerState struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	HandSize int       `json:"handSize"`
	UnoCall  bool      `json:"unoCall"`
	Ready    bool      `json:"ready"`
	IsHost   bool      `json:"isHost"`
}

// State is the public game-state snapshot broadcast to every room member.
type State struct {
	Players       []PlayerState `json:"players"`
	CurrentPlayer int           `json:"currentPlayer"`
	Direction     int           `json:"direction"`
	TopCard       *models.Card  `json:"topCard"`
	CurrentColor  models.Color  `json:"currentColor"`
	GameStarted   bool          `json:"gameStarted"`
	Winner        *uuid.UUID    `json:"winner"`
	DeckSize      int           `json:"deckSize"`
	DrawCount     int           `json:"drawCount"`
	SkippedPlayer *uuid.UUID    `json:"skippedPlayer"`
	HostID        uuid.UUID     `json:"hostId"`
}

// Snapshot builds the public state view of the game.
func (g *UnoGame) Snapshot() State {
	players := make([]PlayerState, len(g.Players))
	for i, p := range g.Players {
		players[i] = PlayerState{
			ID:       p.ID,
			Name:     p.Name,
			HandSize: len(p.Hand),
			UnoCall:  p.UnoCall,
			Ready:    p.Ready,
			IsHost:   p.ID == g.HostID,
		}
	}

	st := State{
		Players:       players,
		CurrentPlayer: g.CurrentPlayerIndex,
		Direction:     g.Direction,
		CurrentColor:  g.CurrentColor,
		GameStarted:   g.GameStarted,
		DeckSize:      len(g.Deck),
		DrawCount:     g.DrawCount,
		HostID:        g.HostID,
	}
	if len(g.DiscardPile) > 0 {
		top := g.topCard()
		st.TopCard = &top
	}
	if g.Winner != uuid.Nil {
		winner := g.Winner
		st.Winner = &winner
	}
	if g.SkippedPlayer != uuid.Nil {
		skipped := g.SkippedPlayer
		st.SkippedPlayer = &skipped
	}
	return st
}

// PlayerHand returns a copy of the player's hand, or an empty slice for an
// unknown player. The result is only ever sent to the owning connection.
func (g *UnoGame) PlayerHand(playerID uuid.UUID) []models.Card {
	p := g.playerByID(playerID)
	if p == nil {
		return []models.Card{}
	}
	hand := make([]models.Card, len(p.Hand))
	copy(hand, p.Hand)
	return hand
}
