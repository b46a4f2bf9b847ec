// internal/dispatch/reduce.go
package dispatch

import (
	"github.com/triadgame/triad-client/internal/protocol"
	"github.com/triadgame/triad-client/internal/scene"
	"github.com/triadgame/triad-client/internal/session"
)

// HandleServerEvent applies one inbound server event to the model. Events
// are assumed delivered exactly once, in order; the connection manager's
// read loop calls this sequentially.
//
// A result=false event surfaces a user-visible error in addition to, not
// instead of, the listed state mutation. The server is trusted to only
// reject operations whose relayed state is still consistent; see DESIGN.md
// for the rationale behind keeping this behavior.
func (d *Dispatcher) HandleServerEvent(ev protocol.ServerEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.logger.Debugf("Applying %T (result=%v)", ev, ev.OK())

	switch msg := ev.(type) {
	case *protocol.SignInServerEvent:
		d.applySignIn(msg)
	case *protocol.CreateServerEvent:
		d.applyCreate(msg)
	case *protocol.JoinServerEvent:
		d.applyJoin(msg)
	case *protocol.LeaveServerEvent:
		d.applyLeave(msg)
	case *protocol.SearchServerEvent:
		d.applySearch(msg)
	case *protocol.StartServerEvent:
		d.applyStart(msg)
	case *protocol.AttackPlayServerEvent:
		d.applyAttack(msg)
	case *protocol.CounterPlayServerEvent:
		d.applyCounter(msg)
	case *protocol.DefendPlayServerEvent:
		d.applyDefend(msg)
	case *protocol.DrawPlayServerEvent:
		d.applyDraw(msg)
	case *protocol.EndPlayServerEvent:
		d.applyEnd(msg)
	case *protocol.SkipPlayServerEvent:
		d.applySkip(msg)
	case *protocol.TurnPlayServerEvent:
		d.applyTurn(msg)
	default:
		d.logger.Warnf("Unhandled server event %T", ev)
	}
}

func (d *Dispatcher) applySignIn(msg *protocol.SignInServerEvent) {
	if !msg.OK() {
		d.lastError = msgServerError
	}
	// Identity was already set optimistically on send.
	d.scene = scene.Lobby
}

func (d *Dispatcher) applyCreate(msg *protocol.CreateServerEvent) {
	if !msg.OK() {
		d.lastError = msgServerError
	}
	d.sess = session.New(msg.GameID, msg.GameName, d.playerName, []string{d.playerName}, false)
	d.scene = scene.Room
}

func (d *Dispatcher) applyJoin(msg *protocol.JoinServerEvent) {
	self := msg.PlayerJoin == d.playerName
	if !msg.OK() && self {
		d.lastError = msgServerError
	}

	if self {
		d.sess = session.New(msg.GameID, msg.GameName, msg.Host, msg.Players, msg.CanStart)
		d.scene = scene.Room
		return
	}
	if d.sess == nil {
		return
	}
	d.sess.SyncRoster(msg.Host, msg.Players, msg.CanStart)
}

func (d *Dispatcher) applyLeave(msg *protocol.LeaveServerEvent) {
	self := msg.PlayerLeave == d.playerName
	if !msg.OK() && self {
		d.lastError = msgServerError
	}

	if self {
		d.sess = nil
		d.scene = scene.Lobby
		return
	}
	if d.sess == nil {
		return
	}
	d.sess.SyncRoster(msg.Host, msg.Players, msg.CanStart)
}

func (d *Dispatcher) applySearch(msg *protocol.SearchServerEvent) {
	if !msg.OK() {
		d.lastError = msgServerError
	}
	// Replace the listing wholesale; search responses are never merged.
	d.rooms = append([]protocol.Room(nil), msg.Rooms...)
}

// applyStart only switches scenes. The waiting phase ends when the server's
// first turn event arrives, not on the start ack itself.
func (d *Dispatcher) applyStart(msg *protocol.StartServerEvent) {
	if !msg.OK() {
		d.lastError = msgServerError
	}
	d.scene = scene.Game
}

func (d *Dispatcher) applyAttack(msg *protocol.AttackPlayServerEvent) {
	if !msg.OK() {
		d.lastError = msgPlayError
	}
	if d.sess == nil {
		return
	}

	d.sess.Phase = session.PhaseAttack
	d.sess.CurrentTurn = msg.PlayerTarget
	d.sess.AppendDiscard(msg.Card)
	d.sess.IsAttackTarget = msg.PlayerTarget == d.playerName

	attacker := msg.PlayerAttack + " is"
	if msg.PlayerAttack == d.playerName {
		attacker = "You are"
	}
	target := msg.PlayerTarget
	if target == d.playerName {
		target = "you"
	}
	d.announcement = attacker + " attacking " + target
}

func (d *Dispatcher) applyCounter(msg *protocol.CounterPlayServerEvent) {
	if !msg.OK() {
		d.lastError = msgPlayError
	}
	if d.sess == nil {
		return
	}

	d.sess.AppendDiscard(msg.Card)
	d.sess.SetScores(msg.PlayersScores)
	d.announcement = d.subject(msg.PlayerCounter) + " counter-attacked"
}

func (d *Dispatcher) applyDefend(msg *protocol.DefendPlayServerEvent) {
	if !msg.OK() {
		d.lastError = msgPlayError
	}
	if d.sess == nil {
		return
	}

	d.sess.AppendDiscard(msg.Card)
	d.sess.SetScores(msg.PlayersScores)
	d.announcement = d.subject(msg.PlayerDefend) + " built up defence"
}

func (d *Dispatcher) applyDraw(msg *protocol.DrawPlayServerEvent) {
	if !msg.OK() {
		d.lastError = msgPlayError
	}
	if d.sess == nil {
		return
	}
	d.sess.AddToHand(msg.Cards...)
}

func (d *Dispatcher) applyEnd(msg *protocol.EndPlayServerEvent) {
	if !msg.OK() {
		d.lastError = msgPlayError
	}
	if d.sess == nil {
		return
	}

	d.sess.Phase = session.PhaseEnd
	d.sess.CurrentTurn = ""
	d.announcement = d.subject(msg.PlayerWin) + " won"
}

func (d *Dispatcher) applySkip(msg *protocol.SkipPlayServerEvent) {
	if !msg.OK() {
		d.lastError = msgPlayError
	}
	if d.sess == nil {
		return
	}

	d.sess.SetScores(msg.PlayersScores)
	d.announcement = d.subject(msg.PlayerSkip) + " skipped"
}

func (d *Dispatcher) applyTurn(msg *protocol.TurnPlayServerEvent) {
	if !msg.OK() {
		d.lastError = msgPlayError
	}
	if d.sess == nil {
		return
	}

	d.sess.Phase = session.PhaseTurn
	d.sess.CurrentTurn = msg.PlayerTurn
}

// subject resolves you/third-person phrasing for action announcements.
func (d *Dispatcher) subject(name string) string {
	if name == d.playerName {
		return "You"
	}
	return name
}
