// internal/conn/conn.go
package conn

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/triadgame/triad-client/internal/protocol"
)

// ErrNotConnected is returned by Send when no ready channel exists. It is a
// local precondition failure: nothing was transmitted and no state changed.
var ErrNotConnected = errors.New("not connected")

// ErrAlreadyConnected is returned by Connect when a channel is already open.
// The client keeps exactly one connection per process run.
var ErrAlreadyConnected = errors.New("already connected")

const writeTimeout = 5 * time.Second

// Handler receives each decoded inbound server event, in arrival order.
type Handler func(ev protocol.ServerEvent)

// Manager owns the single duplex channel to the game server. It frames
// messages and decodes inbound envelopes but never interprets payload
// semantics; those belong to the dispatcher. There is no reconnect or
// backoff: one connect/disconnect lifecycle per process run, bound to the
// consuming UI's lifetime.
type Manager struct {
	serverURL string
	logger    *logrus.Logger
	handler   Handler

	mu         sync.Mutex
	conn       *websocket.Conn
	ready      bool
	cancelRead context.CancelFunc
	id         uuid.UUID // connection instance id, for log correlation
}

// NewManager builds a manager dialing serverURL. Inbound events are handed
// to handler from the read loop.
func NewManager(serverURL string, logger *logrus.Logger, handler Handler) *Manager {
	return &Manager{
		serverURL: serverURL,
		logger:    logger,
		handler:   handler,
	}
}

// Connect dials the server and, on success, flips the ready flag and starts
// the read loop. Exactly one channel may exist at a time.
func (m *Manager) Connect(ctx context.Context) error {
	m.mu.Lock()
	if m.conn != nil {
		m.mu.Unlock()
		return ErrAlreadyConnected
	}
	m.mu.Unlock()

	m.logger.Infof("Connecting to %s", m.serverURL)
	c, _, err := websocket.Dial(ctx, m.serverURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", m.serverURL, err)
	}

	readCtx, cancel := context.WithCancel(context.Background())

	m.mu.Lock()
	m.conn = c
	m.ready = true
	m.cancelRead = cancel
	m.id = uuid.New()
	m.mu.Unlock()

	m.logger.Infof("Connection %s established", m.id)
	go m.readLoop(readCtx, c)

	return nil
}

// Ready reports whether the channel is open and messages can be sent.
func (m *Manager) Ready() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ready
}

// Send serializes and transmits a client event. It fails fast with
// ErrNotConnected when no ready channel exists and never blocks beyond the
// write timeout.
func (m *Manager) Send(ctx context.Context, ev protocol.ClientEvent) error {
	m.mu.Lock()
	c, ready := m.conn, m.ready
	m.mu.Unlock()
	if !ready || c == nil {
		return ErrNotConnected
	}

	b, err := protocol.EncodeClientEvent(ev)
	if err != nil {
		return err
	}

	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	if err := c.Write(writeCtx, websocket.MessageText, b); err != nil {
		return fmt.Errorf("failed to write to connection: %w", err)
	}
	return nil
}

// Disconnect closes the channel if one is open and resets the ready flag.
// Safe to call any number of times, including before Connect.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	c := m.conn
	cancel := m.cancelRead
	id := m.id
	m.conn = nil
	m.ready = false
	m.cancelRead = nil
	m.mu.Unlock()

	if c == nil {
		return
	}
	if cancel != nil {
		cancel()
	}
	if err := c.Close(websocket.StatusNormalClosure, "client closing"); err != nil {
		m.logger.Debugf("Connection %s close: %v", id, err)
	}
	m.logger.Infof("Connection %s closed", id)
}

// readLoop reads inbound frames until the connection closes or the context
// is cancelled, decoding each into a server event and handing it to the
// handler in arrival order. Frames that fail to decode are logged and
// skipped.
func (m *Manager) readLoop(ctx context.Context, c *websocket.Conn) {
	defer m.markClosed()

	for {
		typ, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				m.logger.Infof("Connection %s closed by server", m.connID())
			} else if strings.Contains(err.Error(), "context canceled") {
				m.logger.Debugf("Connection %s read loop canceled", m.connID())
			} else {
				m.logger.Warnf("Connection %s read error: %v (status: %d)", m.connID(), err, status)
			}
			return
		}

		if typ != websocket.MessageText {
			m.logger.Warnf("Connection %s received non-text message type %d, ignoring", m.connID(), typ)
			continue
		}

		ev, err := protocol.DecodeServerEvent(data)
		if err != nil {
			m.logger.Warnf("Connection %s received invalid event: %v. Data: %s", m.connID(), err, string(data))
			continue
		}

		m.logger.Debugf("Connection %s received %T", m.connID(), ev)
		m.handler(ev)
	}
}

// markClosed clears the ready flag once the read loop exits, so subsequent
// sends fail fast instead of writing to a dead channel.
func (m *Manager) markClosed() {
	m.mu.Lock()
	m.ready = false
	m.mu.Unlock()
}

func (m *Manager) connID() uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.id
}
