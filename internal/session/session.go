// internal/session/session.go
package session

import (
	"github.com/triadgame/triad-client/internal/cards"
)

// Phase is the discrete stage of a game's turn structure. A session starts
// in waiting, cycles turn <-> attack while cards are played, and terminates
// at end. There is no transition out of end.
type Phase string

const (
	PhaseWaiting Phase = "waiting"
	PhaseTurn    Phase = "turn"
	PhaseAttack  Phase = "attack"
	PhaseEnd     Phase = "end"
)

// Scores holds one player's pip counters. The server replaces these
// wholesale on every scoring event; the client never increments them.
type Scores struct {
	Red    int `json:"red"`
	Orange int `json:"orange"`
	Blue   int `json:"blue"`
}

// Session is the full client-side model of one active game room. It is
// exclusively owned by the dispatcher; consumers read copies.
type Session struct {
	ID       int
	Name     string
	Host     string
	Players  []string
	CanStart bool

	Phase Phase
	// CurrentTurn names the player whose turn it is; empty when nobody's
	// (waiting, or after the game ended).
	CurrentTurn string

	Hand           []cards.Card
	ScoresByPlayer map[string]Scores
	DiscardPile    []cards.Card

	// IsAttackTarget is true while the local player must respond to the
	// attack card on top of the discard pile.
	IsAttackTarget bool
}

// New builds a fresh session in the waiting phase with zeroed scores for
// every player in the roster.
func New(id int, name, host string, players []string, canStart bool) *Session {
	s := &Session{
		ID:             id,
		Name:           name,
		Host:           host,
		Players:        append([]string(nil), players...),
		CanStart:       canStart,
		Phase:          PhaseWaiting,
		Hand:           []cards.Card{},
		ScoresByPlayer: make(map[string]Scores, len(players)),
		DiscardPile:    []cards.Card{},
	}
	for _, p := range players {
		s.ScoresByPlayer[p] = Scores{}
	}
	return s
}

// SyncRoster replaces the roster fields in place and re-syncs the score map
// to the new roster: existing entries are kept, new players start zeroed and
// departed players are dropped.
func (s *Session) SyncRoster(host string, players []string, canStart bool) {
	s.Host = host
	s.Players = append([]string(nil), players...)
	s.CanStart = canStart

	scores := make(map[string]Scores, len(players))
	for _, p := range players {
		scores[p] = s.ScoresByPlayer[p]
	}
	s.ScoresByPlayer = scores
}

// SetScores replaces every player's score wholesale from a server payload.
func (s *Session) SetScores(scores map[string]Scores) {
	s.ScoresByPlayer = make(map[string]Scores, len(scores))
	for p, sc := range scores {
		s.ScoresByPlayer[p] = sc
	}
}

// TopDiscard returns the most recently played card. During the attack phase
// this is the attack card being defended against.
func (s *Session) TopDiscard() (cards.Card, bool) {
	if len(s.DiscardPile) == 0 {
		return cards.Card{}, false
	}
	return s.DiscardPile[len(s.DiscardPile)-1], true
}

// AppendDiscard appends a played card. The pile records play order and only
// ever grows within a game.
func (s *Session) AppendDiscard(c cards.Card) {
	s.DiscardPile = append(s.DiscardPile, c)
}

// AddToHand appends drawn cards to the local player's hand.
func (s *Session) AddToHand(cs ...cards.Card) {
	s.Hand = append(s.Hand, cs...)
}

// RemoveFromHand drops the card with the given id from the local hand, if
// present.
func (s *Session) RemoveFromHand(cardID int) {
	hand := s.Hand[:0]
	for _, c := range s.Hand {
		if c.ID != cardID {
			hand = append(hand, c)
		}
	}
	s.Hand = hand
}

// Clone returns a deep copy safe to hand to render-layer consumers.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.Players = append([]string(nil), s.Players...)
	out.Hand = append([]cards.Card(nil), s.Hand...)
	out.DiscardPile = append([]cards.Card(nil), s.DiscardPile...)
	out.ScoresByPlayer = make(map[string]Scores, len(s.ScoresByPlayer))
	for p, sc := range s.ScoresByPlayer {
		out.ScoresByPlayer[p] = sc
	}
	return &out
}
