// internal/session/legality.go
package session

import "github.com/triadgame/triad-client/internal/cards"

// CanPlay reports whether the local player may currently offer the given
// hand card for play. This is an advisory prediction used to gate the UI
// before a play intent is sent; the server remains the authority on
// legality and answers with the result flag on the echoed event.
//
// While the local player is the attack target, a wild card is always
// playable and any other card must be a defend card of the attacking card's
// category sharing at least one subcategory with it. Otherwise non-wild
// cards are playable on the local player's turn and nothing is playable on
// anyone else's.
func (s *Session) CanPlay(localPlayer string, c cards.Card) bool {
	if s.Phase == PhaseAttack && s.IsAttackTarget {
		if c.Category == cards.CategoryWild {
			return true
		}
		attackCard, ok := s.TopDiscard()
		if !ok {
			return false
		}
		return c.Type == cards.TypeDefend &&
			c.Category == attackCard.Category &&
			cards.IsSubcategoryCompatible(c, attackCard)
	}

	return s.CurrentTurn == localPlayer && c.Category != cards.CategoryWild
}

// PlayableCards filters the local hand through CanPlay, preserving hand
// order.
func (s *Session) PlayableCards(localPlayer string) []cards.Card {
	playable := []cards.Card{}
	for _, c := range s.Hand {
		if s.CanPlay(localPlayer, c) {
			playable = append(playable, c)
		}
	}
	return playable
}
