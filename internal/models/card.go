package models

// Color is a card's printed color. Wild cards carry ColorWild until the
// player who plays one chooses the active color for the table.
type Color string

const (
	ColorRed    Color = "red"
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorYellow Color = "yellow"
	ColorWild   Color = "wild"
)

// PlayableColors are the colors a wild card may choose from.
var PlayableColors = []Color{ColorRed, ColorBlue, ColorGreen, ColorYellow}

// Kind discriminates the card faces. Number cards additionally carry a
// Value of 0-9; every other kind leaves Value at zero.
type Kind string

const (
	KindNumber       Kind = "number"
	KindSkip         Kind = "skip"
	KindReverse      Kind = "reverse"
	KindDrawTwo      Kind = "draw2"
	KindWild         Kind = "wild"
	KindWildDrawFour Kind = "draw4"
)

// Card is a single UNO card. Cards are plain comparable values: hand
// membership is decided by (color, kind, value) equality, and structurally
// identical cards appear multiple times in a full deck.
type Card struct {
	Color Color `json:"color"`
	Kind  Kind  `json:"kind"`
	Value int   `json:"value"`
}

// IsWild reports whether the card is colorless (wild or wild draw-four).
func (c Card) IsWild() bool {
	return c.Color == ColorWild
}

// PenaltyAmount returns the number of cards the next player must draw for
// a draw-penalty card, or 0 for any other card.
func (c Card) PenaltyAmount() int {
	switch c.Kind {
	case KindDrawTwo:
		return 2
	case KindWildDrawFour:
		return 4
	}
	return 0
}

// SameFace reports whether two cards show the same face, ignoring color:
// equal kind, and for number cards an equal value.
func (c Card) SameFace(other Card) bool {
	return c.Kind == other.Kind && c.Value == other.Value
}

// ValidPlayableColor reports whether color is one of the four colors a
// wild card may select.
func ValidPlayableColor(color Color) bool {
	for _, pc := range PlayableColors {
		if color == pc {
			return true
		}
	}
	return false
}
