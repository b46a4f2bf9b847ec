// internal/protocol/events_test.go
package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triadgame/triad-client/internal/cards"
	"github.com/triadgame/triad-client/internal/session"
)

func TestDecodeNarrowsByType(t *testing.T) {
	raw := `{"type":"join","result":true,"playerJoin":"bob","gameId":3,"gameName":"Arena","host":"alice","players":["alice","bob"],"isCanStart":true}`

	ev, err := DecodeServerEvent([]byte(raw))
	require.NoError(t, err)

	join, ok := ev.(*JoinServerEvent)
	require.True(t, ok, "expected *JoinServerEvent, got %T", ev)
	assert.True(t, join.OK())
	assert.Equal(t, "bob", join.PlayerJoin)
	assert.Equal(t, 3, join.GameID)
	assert.Equal(t, []string{"alice", "bob"}, join.Players)
	assert.True(t, join.CanStart)
}

func TestDecodeNarrowsPlayByAction(t *testing.T) {
	raw := `{"type":"play","action":"attack","result":true,"playerAttack":"alice","playerTarget":"bob",` +
		`"card":{"id":9,"title":"Jab","image":"jab.png","description":"","cardType":"attack","cardCategory":"red","cardSubCategories":["circle","square"]}}`

	ev, err := DecodeServerEvent([]byte(raw))
	require.NoError(t, err)

	attack, ok := ev.(*AttackPlayServerEvent)
	require.True(t, ok, "expected *AttackPlayServerEvent, got %T", ev)
	assert.Equal(t, "alice", attack.PlayerAttack)
	assert.Equal(t, "bob", attack.PlayerTarget)
	assert.Equal(t, cards.CategoryRed, attack.Card.Category)
	assert.Equal(t, []cards.Subcategory{cards.SubcategoryCircle, cards.SubcategorySquare}, attack.Card.Subcategories)
}

func TestDecodeScoresPayload(t *testing.T) {
	raw := `{"type":"play","action":"skip","result":true,"playerSkip":"bob",` +
		`"playersScores":{"alice":{"red":1,"orange":0,"blue":2},"bob":{"red":0,"orange":1,"blue":0}}}`

	ev, err := DecodeServerEvent([]byte(raw))
	require.NoError(t, err)

	skip, ok := ev.(*SkipPlayServerEvent)
	require.True(t, ok)
	assert.Equal(t, session.Scores{Red: 1, Blue: 2}, skip.PlayersScores["alice"])
	assert.Equal(t, session.Scores{Orange: 1}, skip.PlayersScores["bob"])
}

func TestDecodeRejectsUnknownDiscriminants(t *testing.T) {
	_, err := DecodeServerEvent([]byte(`{"type":"teleport"}`))
	assert.ErrorContains(t, err, "unknown event type")

	_, err = DecodeServerEvent([]byte(`{"type":"play","action":"moonwalk"}`))
	assert.ErrorContains(t, err, "unknown play action")

	_, err = DecodeServerEvent([]byte(`not json`))
	assert.Error(t, err)
}

func TestEncodeClientEvents(t *testing.T) {
	b, err := EncodeClientEvent(NewSignInEvent("alice"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"signin","playerName":"alice"}`, string(b))

	b, err = EncodeClientEvent(NewPlayCardEvent(ActionCounter, 42))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"play","action":"counter","cardId":42}`, string(b))

	b, err = EncodeClientEvent(NewSkipPlayEvent())
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"play","action":"skip"}`, string(b))
}
