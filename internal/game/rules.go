package game

import "github.com/calebsw/unoroom/internal/models"

// isValidPlay applies the UNO matching rules for a card the player holds.
// Rules, in order: wild-colored cards are always legal; while a draw
// penalty is pending only stacking draw cards are legal (draw4 on
// anything, draw2 on draw2, draw2 on draw4 when the card matches the
// active color); otherwise the card must match the active color or show
// the same face as the top discard.
func (g *UnoGame) isValidPlay(card models.Card) bool {
	if card.IsWild() {
		return true
	}

	top := g.topCard()

	if g.DrawCount > 0 {
		if card.Kind == models.KindDrawTwo && top.Kind == models.KindDrawTwo {
			return true
		}
		if card.Kind == models.KindDrawTwo && top.Kind == models.KindWildDrawFour {
			return card.Color == g.CurrentColor
		}
		return false
	}

	return card.Color == g.CurrentColor || card.SameFace(top)
}

// topCard returns the top of the discard pile. Only meaningful once the
// game has started and the opening card has been dealt.
func (g *UnoGame) topCard() models.Card {
	return g.DiscardPile[len(g.DiscardPile)-1]
}
