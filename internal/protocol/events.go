// internal/protocol/events.go
//
// Wire protocol shared with the game server: JSON text messages over a
// single websocket, one message per event. Every message carries a "type"
// discriminant; play messages carry a second-level "action" discriminant.
// Server messages additionally carry a "result" flag signaling whether the
// requested operation succeeded.
package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/triadgame/triad-client/internal/cards"
	"github.com/triadgame/triad-client/internal/session"
)

// EventType is the first-level message discriminant.
type EventType string

const (
	EventSignIn EventType = "signin"
	EventCreate EventType = "create"
	EventJoin   EventType = "join"
	EventLeave  EventType = "leave"
	EventSearch EventType = "search"
	EventStart  EventType = "start"
	EventPlay   EventType = "play"
)

// PlayAction is the second-level discriminant carried by play events.
type PlayAction string

const (
	ActionAttack  PlayAction = "attack"
	ActionCounter PlayAction = "counter"
	ActionDefend  PlayAction = "defend"
	ActionDraw    PlayAction = "draw"
	ActionEnd     PlayAction = "end"
	ActionSkip    PlayAction = "skip"
	ActionTurn    PlayAction = "turn"
)

// Room is one lobby listing entry. The full list is replaced, never merged,
// on every search response; isFull is derived server-side.
type Room struct {
	GameID      int    `json:"gameId"`
	GameName    string `json:"gameName"`
	PlayerCount int    `json:"playerCount"`
	IsFull      bool   `json:"isFull"`
}

// ClientEvent is implemented by every client->server message.
type ClientEvent interface{ isClientEvent() }

// SignInEvent announces the local player's chosen display name.
type SignInEvent struct {
	Type       EventType `json:"type"`
	PlayerName string    `json:"playerName"`
}

// CreateEvent asks the server to open a new room.
type CreateEvent struct {
	Type     EventType `json:"type"`
	GameName string    `json:"gameName"`
}

// JoinEvent asks to join an existing room by id.
type JoinEvent struct {
	Type   EventType `json:"type"`
	GameID int       `json:"gameId"`
}

// LeaveEvent leaves the current room.
type LeaveEvent struct {
	Type EventType `json:"type"`
}

// SearchEvent requests the current lobby listing.
type SearchEvent struct {
	Type EventType `json:"type"`
}

// StartEvent asks the server to start the game in the current room.
type StartEvent struct {
	Type EventType `json:"type"`
}

// PlayCardEvent offers a hand card for an attack, counter or defend play.
type PlayCardEvent struct {
	Type   EventType  `json:"type"`
	Action PlayAction `json:"action"`
	CardID int        `json:"cardId"`
}

// SkipPlayEvent passes the local player's turn.
type SkipPlayEvent struct {
	Type   EventType  `json:"type"`
	Action PlayAction `json:"action"`
}

func (SignInEvent) isClientEvent()   {}
func (CreateEvent) isClientEvent()   {}
func (JoinEvent) isClientEvent()     {}
func (LeaveEvent) isClientEvent()    {}
func (SearchEvent) isClientEvent()   {}
func (StartEvent) isClientEvent()    {}
func (PlayCardEvent) isClientEvent() {}
func (SkipPlayEvent) isClientEvent() {}

func NewSignInEvent(playerName string) SignInEvent {
	return SignInEvent{Type: EventSignIn, PlayerName: playerName}
}

func NewCreateEvent(gameName string) CreateEvent {
	return CreateEvent{Type: EventCreate, GameName: gameName}
}

func NewJoinEvent(gameID int) JoinEvent {
	return JoinEvent{Type: EventJoin, GameID: gameID}
}

func NewLeaveEvent() LeaveEvent { return LeaveEvent{Type: EventLeave} }

func NewSearchEvent() SearchEvent { return SearchEvent{Type: EventSearch} }

func NewStartEvent() StartEvent { return StartEvent{Type: EventStart} }

// NewPlayCardEvent builds an attack, counter or defend play for a card.
func NewPlayCardEvent(action PlayAction, cardID int) PlayCardEvent {
	return PlayCardEvent{Type: EventPlay, Action: action, CardID: cardID}
}

func NewSkipPlayEvent() SkipPlayEvent {
	return SkipPlayEvent{Type: EventPlay, Action: ActionSkip}
}

// EncodeClientEvent serializes a client event for transmission.
func EncodeClientEvent(ev ClientEvent) ([]byte, error) {
	b, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("failed to encode client event %T: %w", ev, err)
	}
	return b, nil
}

// ServerEvent is implemented by every server->client message.
type ServerEvent interface {
	isServerEvent()
	// OK reports the server's result flag for the operation this event
	// echoes or relays.
	OK() bool
}

// ServerResult carries the success flag every server event includes.
// Embed it in concrete server event structs.
type ServerResult struct {
	Result bool `json:"result"`
}

func (ServerResult) isServerEvent() {}

func (r ServerResult) OK() bool { return r.Result }

// SignInServerEvent acknowledges a signin.
type SignInServerEvent struct {
	ServerResult
	PlayerName string `json:"playerName"`
}

// CreateServerEvent acknowledges a create with the new room's identity.
type CreateServerEvent struct {
	ServerResult
	GameID   int    `json:"gameId"`
	GameName string `json:"gameName"`
}

// JoinServerEvent is relayed to every room member when a player joins.
type JoinServerEvent struct {
	ServerResult
	PlayerJoin string   `json:"playerJoin"`
	GameID     int      `json:"gameId"`
	GameName   string   `json:"gameName"`
	Host       string   `json:"host"`
	Players    []string `json:"players"`
	CanStart   bool     `json:"isCanStart"`
}

// LeaveServerEvent is relayed to every room member when a player leaves.
type LeaveServerEvent struct {
	ServerResult
	PlayerLeave string   `json:"playerLeave"`
	GameID      int      `json:"gameId"`
	GameName    string   `json:"gameName"`
	Host        string   `json:"host"`
	Players     []string `json:"players"`
	CanStart    bool     `json:"isCanStart"`
}

// SearchServerEvent carries the complete current lobby listing.
type SearchServerEvent struct {
	ServerResult
	Rooms []Room `json:"rooms"`
}

// StartServerEvent acknowledges a game start.
type StartServerEvent struct {
	ServerResult
}

// AttackPlayServerEvent relays an attack play to the room.
type AttackPlayServerEvent struct {
	ServerResult
	PlayerAttack string     `json:"playerAttack"`
	PlayerTarget string     `json:"playerTarget"`
	Card         cards.Card `json:"card"`
}

// CounterPlayServerEvent relays a counter-attack play and the resulting
// scores.
type CounterPlayServerEvent struct {
	ServerResult
	PlayerCounter string                    `json:"playerCounter"`
	Card          cards.Card                `json:"card"`
	PlayersScores map[string]session.Scores `json:"playersScores"`
}

// DefendPlayServerEvent relays a defend play and the resulting scores.
type DefendPlayServerEvent struct {
	ServerResult
	PlayerDefend  string                    `json:"playerDefend"`
	Card          cards.Card                `json:"card"`
	PlayersScores map[string]session.Scores `json:"playersScores"`
}

// DrawPlayServerEvent delivers cards drawn into the local player's hand.
type DrawPlayServerEvent struct {
	ServerResult
	Cards []cards.Card `json:"cards"`
}

// EndPlayServerEvent announces the end of the game and its winner.
type EndPlayServerEvent struct {
	ServerResult
	PlayerWin string `json:"playerWin"`
}

// SkipPlayServerEvent relays a skipped turn and the resulting scores.
type SkipPlayServerEvent struct {
	ServerResult
	PlayerSkip    string                    `json:"playerSkip"`
	PlayersScores map[string]session.Scores `json:"playersScores"`
}

// TurnPlayServerEvent announces whose turn it is.
type TurnPlayServerEvent struct {
	ServerResult
	PlayerTurn string `json:"playerTurn"`
}

// envelope is the minimal shape peeked at before decoding a concrete event.
type envelope struct {
	Type   EventType  `json:"type"`
	Action PlayAction `json:"action"`
}

// DecodeServerEvent parses a raw server message into its concrete event
// type, narrowing first by type and then, for play messages, by action.
func DecodeServerEvent(data []byte) (ServerEvent, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to decode event envelope: %w", err)
	}

	var ev ServerEvent
	switch env.Type {
	case EventSignIn:
		ev = &SignInServerEvent{}
	case EventCreate:
		ev = &CreateServerEvent{}
	case EventJoin:
		ev = &JoinServerEvent{}
	case EventLeave:
		ev = &LeaveServerEvent{}
	case EventSearch:
		ev = &SearchServerEvent{}
	case EventStart:
		ev = &StartServerEvent{}
	case EventPlay:
		switch env.Action {
		case ActionAttack:
			ev = &AttackPlayServerEvent{}
		case ActionCounter:
			ev = &CounterPlayServerEvent{}
		case ActionDefend:
			ev = &DefendPlayServerEvent{}
		case ActionDraw:
			ev = &DrawPlayServerEvent{}
		case ActionEnd:
			ev = &EndPlayServerEvent{}
		case ActionSkip:
			ev = &SkipPlayServerEvent{}
		case ActionTurn:
			ev = &TurnPlayServerEvent{}
		default:
			return nil, fmt.Errorf("unknown play action %q", env.Action)
		}
	default:
		return nil, fmt.Errorf("unknown event type %q", env.Type)
	}

	if err := json.Unmarshal(data, ev); err != nil {
		return nil, fmt.Errorf("failed to decode %s event: %w", env.Type, err)
	}
	return ev, nil
}
