// internal/dispatch/dispatch.go
package dispatch

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/triadgame/triad-client/internal/cards"
	"github.com/triadgame/triad-client/internal/conn"
	"github.com/triadgame/triad-client/internal/protocol"
	"github.com/triadgame/triad-client/internal/scene"
	"github.com/triadgame/triad-client/internal/session"
)

// User-visible error messages, matching the two error kinds: a local
// precondition failure before any network attempt, and a remote rejection
// reported by the server's result flag.
const (
	msgNotConnected = "Not connected to server. Try again later."
	msgServerError  = "Error occurred. Try again later."
	msgPlayError    = "An error has occurred."
)

// Sender is the outbound half of the connection manager.
type Sender interface {
	Ready() bool
	Send(ctx context.Context, ev protocol.ClientEvent) error
}

// Dispatcher is the client's state machine. It is the single owner of the
// mutable session, scene, lobby listing and local identity: inbound server
// events and UI intents mutate state only through it, and consumers read
// copies through the view methods. Inbound events are applied strictly in
// arrival order.
type Dispatcher struct {
	logger *logrus.Logger
	sender Sender

	mu           sync.Mutex
	playerName   string
	scene        scene.Scene
	sess         *session.Session
	rooms        []protocol.Room
	lastError    string
	announcement string
}

// New builds a dispatcher at the start scene with no session.
func New(logger *logrus.Logger, sender Sender) *Dispatcher {
	return &Dispatcher{
		logger: logger,
		sender: sender,
		scene:  scene.Start,
	}
}

// checkReady guards every outbound intent: when the connection is not ready
// the intent fails locally, surfaces the not-connected error and mutates
// nothing else.
func (d *Dispatcher) checkReady() error {
	if d.sender.Ready() {
		return nil
	}
	d.setError(msgNotConnected)
	return conn.ErrNotConnected
}

func (d *Dispatcher) send(ctx context.Context, ev protocol.ClientEvent) error {
	if err := d.sender.Send(ctx, ev); err != nil {
		d.logger.Warnf("Failed to send %T: %v", ev, err)
		d.setError(msgNotConnected)
		return err
	}
	return nil
}

// SignIn sets the local identity immediately and optimistically, then
// announces it to the server. The identity is not reverted if the server
// later rejects the signin.
func (d *Dispatcher) SignIn(ctx context.Context, playerName string) error {
	if err := d.checkReady(); err != nil {
		return err
	}

	d.mu.Lock()
	d.playerName = playerName
	d.mu.Unlock()

	return d.send(ctx, protocol.NewSignInEvent(playerName))
}

// CreateGame asks the server to open a new room.
func (d *Dispatcher) CreateGame(ctx context.Context, gameName string) error {
	if err := d.checkReady(); err != nil {
		return err
	}
	return d.send(ctx, protocol.NewCreateEvent(gameName))
}

// JoinGame asks to join the room with the given id.
func (d *Dispatcher) JoinGame(ctx context.Context, gameID int) error {
	if err := d.checkReady(); err != nil {
		return err
	}
	return d.send(ctx, protocol.NewJoinEvent(gameID))
}

// LeaveGame leaves the current room.
func (d *Dispatcher) LeaveGame(ctx context.Context) error {
	if err := d.checkReady(); err != nil {
		return err
	}
	return d.send(ctx, protocol.NewLeaveEvent())
}

// Search requests the current lobby listing.
func (d *Dispatcher) Search(ctx context.Context) error {
	if err := d.checkReady(); err != nil {
		return err
	}
	return d.send(ctx, protocol.NewSearchEvent())
}

// StartGame asks the server to start the game in the current room.
func (d *Dispatcher) StartGame(ctx context.Context) error {
	if err := d.checkReady(); err != nil {
		return err
	}
	return d.send(ctx, protocol.NewStartEvent())
}

// PlayAttack offers a hand card as an attack.
func (d *Dispatcher) PlayAttack(ctx context.Context, cardID int) error {
	if err := d.checkReady(); err != nil {
		return err
	}
	return d.send(ctx, protocol.NewPlayCardEvent(protocol.ActionAttack, cardID))
}

// PlayCounter offers a hand card as a counter-attack while under attack.
func (d *Dispatcher) PlayCounter(ctx context.Context, cardID int) error {
	if err := d.checkReady(); err != nil {
		return err
	}
	return d.send(ctx, protocol.NewPlayCardEvent(protocol.ActionCounter, cardID))
}

// PlayDefend offers a hand card as a defence.
func (d *Dispatcher) PlayDefend(ctx context.Context, cardID int) error {
	if err := d.checkReady(); err != nil {
		return err
	}
	return d.send(ctx, protocol.NewPlayCardEvent(protocol.ActionDefend, cardID))
}

// PlaySkip passes the local player's turn.
func (d *Dispatcher) PlaySkip(ctx context.Context) error {
	if err := d.checkReady(); err != nil {
		return err
	}
	return d.send(ctx, protocol.NewSkipPlayEvent())
}

// Navigate overwrites the current scene. Pure UI-local navigation; no
// history is kept.
func (d *Dispatcher) Navigate(s scene.Scene) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.scene = s
}

// DiscardHandCard removes a card from the local hand by id. Pure UI-local
// mutator, used by the interaction layer once a card has been offered for
// play.
func (d *Dispatcher) DiscardHandCard(cardID int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.sess == nil {
		return
	}
	d.sess.RemoveFromHand(cardID)
}

// PlayerName returns the local player's display name; empty before signin.
func (d *Dispatcher) PlayerName() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.playerName
}

// Scene returns the current UI scene.
func (d *Dispatcher) Scene() scene.Scene {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.scene
}

// Session returns a copy of the current session, or nil when the local
// player is not in a room.
func (d *Dispatcher) Session() *session.Session {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sess.Clone()
}

// Rooms returns a copy of the last lobby listing received.
func (d *Dispatcher) Rooms() []protocol.Room {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]protocol.Room(nil), d.rooms...)
}

// LastError returns the most recent user-visible error message; empty when
// none has occurred.
func (d *Dispatcher) LastError() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastError
}

// Announcement returns the most recent action announcement.
func (d *Dispatcher) Announcement() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.announcement
}

// PlayableCards returns the hand cards the local player may currently offer
// for play, per the advisory legality prediction.
func (d *Dispatcher) PlayableCards() []cards.Card {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.sess == nil {
		return nil
	}
	return d.sess.PlayableCards(d.playerName)
}

func (d *Dispatcher) setError(msg string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastError = msg
}
