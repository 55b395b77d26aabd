// Package client is the headless game client: it joins a server over
// websockets, forwards intents, and predicts the local avatar between
// replicated snapshots.
package client

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/automoto/ballguys-mp/shared/messages"
	"github.com/automoto/ballguys-mp/shared/netconfig"
	"github.com/coder/websocket"
	"github.com/leap-fish/necs/esync"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
)

type ClientState int

const (
	StateDisconnected ClientState = iota
	StateConnecting
	StateConnected
	StateJoinedGame
	StateError
)

var clientStateNames = map[ClientState]string{
	StateDisconnected: "disconnected",
	StateConnecting:   "connecting",
	StateConnected:    "connected",
	StateJoinedGame:   "joined",
	StateError:        "error",
}

func (s ClientState) String() string {
	if name, ok := clientStateNames[s]; ok {
		return name
	}
	return "unknown"
}

// ErrNotConnected is returned when sending before the transport is up.
var ErrNotConnected = errors.New("not connected")

const (
	eventBufferSize = 64
	joinPoll        = 50 * time.Millisecond
)

// Client owns one websocket session with a game server. Router callbacks run
// on necs goroutines, so every field below mu is guarded by it.
type Client struct {
	events chan any
	joined chan struct{} // Closed once the server accepts the join
	once   sync.Once

	mu        sync.RWMutex
	state     ClientState
	lastError error
	session   messages.JoinAccepted
	conn      *websocket.Conn
	snapshot  *esync.WorldSnapshot // Latest unread snapshot; older ones are dropped
}

func NewClient() *Client {
	return &Client{
		state:  StateDisconnected,
		events: make(chan any, eventBufferSize),
		joined: make(chan struct{}),
	}
}

// Connect dials address in the background and sends a join request as soon
// as the connection is up. Use WaitJoined to block until the server answers.
func (c *Client) Connect(address, version, playerName string) {
	c.setState(StateConnecting, nil)
	c.registerHandlers(messages.JoinRequest{Version: version, PlayerName: playerName})

	go func() {
		transport := transports.NewWsClientTransport("ws://" + address)
		err := transport.Start(func(conn *websocket.Conn) {
			c.mu.Lock()
			c.conn = conn
			c.mu.Unlock()
		})
		if err != nil {
			c.setState(StateError, fmt.Errorf("connect %s: %w", address, err))
		}
	}()
}

func (c *Client) registerHandlers(join messages.JoinRequest) {
	router.OnConnect(func(_ *router.NetworkClient) {
		log.Println("[client] connected to server")
		c.setState(StateConnected, nil)
		if err := c.SendMessage(join); err != nil {
			c.setState(StateError, fmt.Errorf("send join request: %w", err))
		}
	})

	router.On(func(_ *router.NetworkClient, msg messages.JoinAccepted) {
		log.Printf("[client] joined %q as %s (tick rate %d, level %s)",
			msg.ServerName, msg.ParticipantID, msg.TickRate, msg.Level)
		c.mu.Lock()
		c.session = msg
		c.state = StateJoinedGame
		c.mu.Unlock()
		c.once.Do(func() { close(c.joined) })
	})

	router.On(func(_ *router.NetworkClient, msg messages.JoinRejected) {
		log.Printf("[client] join rejected: %s", msg.Reason)
		c.setState(StateError, fmt.Errorf("join rejected: %s", msg.Reason))
	})

	router.On(func(_ *router.NetworkClient, snapshot esync.WorldSnapshot) {
		c.mu.Lock()
		c.snapshot = &snapshot
		c.mu.Unlock()
	})

	queueEvent[messages.PhaseChangedEvent](c)
	queueEvent[messages.SpawnEvent](c)
	queueEvent[messages.LifeLostEvent](c)
	queueEvent[messages.EliminatedEvent](c)
	queueEvent[messages.KnockbackEvent](c)
	queueEvent[messages.BoostEvent](c)

	router.OnDisconnect(func(_ *router.NetworkClient, err error) {
		log.Printf("[client] disconnected: %v", err)
		c.mu.Lock()
		if c.state != StateError {
			c.state = StateDisconnected
		}
		c.conn = nil
		c.mu.Unlock()
	})

	router.OnError(func(_ *router.NetworkClient, err error) {
		log.Printf("[client] error: %v", err)
	})
}

// queueEvent routes server events of type T into the client's event queue.
func queueEvent[T any](c *Client) {
	router.On(func(_ *router.NetworkClient, evt T) {
		select {
		case c.events <- evt:
		default:
			log.Printf("[client] event buffer full, dropping %T", evt)
		}
	})
}

// WaitJoined blocks until the join is accepted, the client fails, or ctx ends.
func (c *Client) WaitJoined(ctx context.Context) error {
	ticker := time.NewTicker(joinPoll)
	defer ticker.Stop()
	for {
		select {
		case <-c.joined:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := c.LastError(); err != nil {
				return err
			}
		}
	}
}

func (c *Client) Disconnect() {
	c.mu.Lock()
	conn := c.conn
	c.state = StateDisconnected
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		_ = conn.CloseNow()
	}
	router.ResetRouter()
}

func (c *Client) State() ClientState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Client) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastError
}

// Session returns what the server told us when it accepted the join.
func (c *Client) Session() messages.JoinAccepted {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

func (c *Client) ParticipantID() netconfig.ParticipantID {
	return c.Session().ParticipantID
}

// LatestSnapshot returns the newest snapshot received since the last call,
// or nil.
func (c *Client) LatestSnapshot() *esync.WorldSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := c.snapshot
	c.snapshot = nil
	return snap
}

// DrainEvents returns every queued server event without blocking.
func (c *Client) DrainEvents() []any {
	var out []any
	for {
		select {
		case evt := <-c.events:
			out = append(out, evt)
		default:
			return out
		}
	}
}

// SendMessage serializes msg with the necs router and writes it to the server.
func (c *Client) SendMessage(msg any) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()
	if conn == nil {
		return ErrNotConnected
	}

	payload, err := router.Serialize(msg)
	if err != nil {
		return fmt.Errorf("serialize %T: %w", msg, err)
	}
	return conn.Write(context.Background(), websocket.MessageBinary, payload)
}

func (c *Client) setState(state ClientState, err error) {
	c.mu.Lock()
	c.state = state
	c.lastError = err
	c.mu.Unlock()
}
