// internal/cards/card_test.go
package cards

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func card(subs ...Subcategory) Card {
	return Card{ID: 1, Type: TypeAttack, Category: CategoryRed, Subcategories: subs}
}

func TestSubcategoryCompatibleSharedMarker(t *testing.T) {
	a := card(SubcategoryCircle, SubcategorySquare)
	b := card(SubcategoryCircle)

	assert.True(t, IsSubcategoryCompatible(a, b))
	assert.True(t, IsSubcategoryCompatible(b, a), "predicate must be symmetric")
}

func TestSubcategoryCompatibleDisjoint(t *testing.T) {
	a := card(SubcategorySquare)
	b := card(SubcategoryTriangle, SubcategoryCircle)

	assert.False(t, IsSubcategoryCompatible(a, b))
	assert.False(t, IsSubcategoryCompatible(b, a))
}

func TestSubcategoryCompatibleSelf(t *testing.T) {
	marked := card(SubcategoryTriangle)
	assert.True(t, IsSubcategoryCompatible(marked, marked))

	// A card with no markers never matches anything, not even itself.
	blank := card()
	assert.False(t, IsSubcategoryCompatible(blank, blank))
	assert.False(t, IsSubcategoryCompatible(blank, marked))
	assert.False(t, IsSubcategoryCompatible(marked, blank))
}

func TestSubcategoryCompatibleIgnoresUnknownMarkers(t *testing.T) {
	a := card(Subcategory("hexagon"))
	b := card(Subcategory("hexagon"))

	assert.False(t, IsSubcategoryCompatible(a, b))
}
