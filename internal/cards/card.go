// internal/cards/card.go
package cards

// Type classifies what a card does when played.
type Type string

const (
	TypeAttack Type = "attack"
	TypeDefend Type = "defend"
	TypeTrivia Type = "trivia"
)

// Category is the card's color. Wild cards belong to no color and are only
// playable as a response while under attack.
type Category string

const (
	CategoryRed    Category = "red"
	CategoryOrange Category = "orange"
	CategoryBlue   Category = "blue"
	CategoryWild   Category = "wild"
)

// Subcategory is one of the three shape markers printed on a card.
type Subcategory string

const (
	SubcategorySquare   Subcategory = "square"
	SubcategoryTriangle Subcategory = "triangle"
	SubcategoryCircle   Subcategory = "circle"
)

// Subcategories lists every defined subcategory, in display order.
var Subcategories = []Subcategory{SubcategorySquare, SubcategoryTriangle, SubcategoryCircle}

// Card is an immutable card definition as received from the server.
// The ID is unique and stable for the lifetime of a game.
type Card struct {
	ID            int           `json:"id"`
	Title         string        `json:"title"`
	Image         string        `json:"image"`
	Description   string        `json:"description"`
	Type          Type          `json:"cardType"`
	Category      Category      `json:"cardCategory"`
	Subcategories []Subcategory `json:"cardSubCategories"`
}

// subcategoryPattern maps every defined subcategory to whether the card
// carries it. Unknown markers on the card are ignored.
func subcategoryPattern(c Card) map[Subcategory]bool {
	pattern := map[Subcategory]bool{
		SubcategorySquare:   false,
		SubcategoryTriangle: false,
		SubcategoryCircle:   false,
	}
	for _, sub := range c.Subcategories {
		if _, ok := pattern[sub]; ok {
			pattern[sub] = true
		}
	}
	return pattern
}

// IsSubcategoryCompatible reports whether a and b share at least one shape
// marker. The check runs per defined subcategory, so a card carrying no
// markers is compatible with nothing, itself included. Symmetric, no side
// effects.
func IsSubcategoryCompatible(a, b Card) bool {
	patternA := subcategoryPattern(a)
	patternB := subcategoryPattern(b)
	for _, sub := range Subcategories {
		if patternA[sub] && patternB[sub] {
			return true
		}
	}
	return false
}
