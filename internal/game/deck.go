package game

import (
	"math/rand"

	"github.com/calebsw/unoroom/internal/models"
)

// DeckSize is the number of cards in a complete UNO deck.
const DeckSize = 108

// newDeck builds the full 108-card set, unshuffled: per color one 0, two
// each of 1-9 and two each of skip/reverse/draw2, plus four wilds and four
// wild draw-fours.
func newDeck() []models.Card {
	deck := make([]models.Card, 0, DeckSize)
	for _, color := range models.PlayableColors {
		deck = append(deck, models.Card{Color: color, Kind: models.KindNumber, Value: 0})
		for v := 1; v <= 9; v++ {
			deck = append(deck,
				models.Card{Color: color, Kind: models.KindNumber, Value: v},
				models.Card{Color: color, Kind: models.KindNumber, Value: v})
		}
		for _, kind := range []models.Kind{models.KindSkip, models.KindReverse, models.KindDrawTwo} {
			deck = append(deck,
				models.Card{Color: color, Kind: kind},
				models.Card{Color: color, Kind: kind})
		}
	}
	for i := 0; i < 4; i++ {
		deck = append(deck,
			models.Card{Color: models.ColorWild, Kind: models.KindWild},
			models.Card{Color: models.ColorWild, Kind: models.KindWildDrawFour})
	}
	return deck
}

// shuffle permutes the deck in place (Fisher-Yates via rand.Shuffle).
func shuffle(deck []models.Card, rng *rand.Rand) {
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
}

// drawOne removes and returns the top deck card, first reshuffling the
// discard pile into the deck if the deck is exhausted. It returns false
// when no card exists outside hands; the draw then silently yields nothing
// and the caller's hand is unchanged.
func (g *UnoGame) drawOne() (models.Card, bool) {
	if len(g.Deck) == 0 {
		g.reshuffleFromDiscard()
	}
	if len(g.Deck) == 0 {
		return models.Card{}, false
	}
	card := g.Deck[len(g.Deck)-1]
	g.Deck = g.Deck[:len(g.Deck)-1]
	return card, true
}

// reshuffleFromDiscard moves every discard card except the top one back
// into the deck and shuffles. With one or zero discards there is nothing
// to recycle and the call is a no-op.
func (g *UnoGame) reshuffleFromDiscard() {
	if len(g.DiscardPile) <= 1 {
		return
	}
	top := g.DiscardPile[len(g.DiscardPile)-1]
	g.Deck = append(g.Deck, g.DiscardPile[:len(g.DiscardPile)-1]...)
	g.DiscardPile = []models.Card{top}
	shuffle(g.Deck, g.rng)
}
