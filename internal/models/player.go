package models

import "github.com/google/uuid"

// Player is one seat in a room. The owning game holds the only reference;
// the transport layer addresses players purely by ID.
type Player struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Hand    []Card    `json:"-"`
	Ready   bool      `json:"ready"`
	UnoCall bool      `json:"unoCall"`
}

// HoldsCard reports whether the player's hand contains a card structurally
// equal to card.
func (p *Player) HoldsCard(card Card) bool {
	return p.CardIndex(card) >= 0
}

// CardIndex returns the index of the first card in the hand equal to card,
// or -1 if the player does not hold it.
func (p *Player) CardIndex(card Card) int {
	for i, c := range p.Hand {
		if c == card {
			return i
		}
	}
	return -1
}
