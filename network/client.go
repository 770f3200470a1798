package network

import (
	"context"
	"fmt"
	"sync"

	"github.com/coder/websocket"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
	"go.uber.org/zap"

	"github.com/SeloSlav/saltgrass-client/protocol"
)

type ClientState int

const (
	StateDisconnected ClientState = iota
	StateConnecting
	StateConnected
	StateJoined
	StateError
)

func (s ClientState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateJoined:
		return "joined"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// deltaBuffer sizes the inbound delta channel. Deltas are incremental and
// must not be dropped; if the simulation stalls this long the connection
// is already lost.
const deltaBuffer = 256

// Client manages a WebSocket session with the game server.
// All shared fields are protected by mu (router callbacks run on necs
// goroutines); the delta channel hands rows to the simulation goroutine.
type Client struct {
	log *zap.SugaredLogger

	mu sync.RWMutex

	state     ClientState
	lastError error

	playerID       protocol.PlayerID
	reconnectToken string
	serverName     string
	serverChecksum uint64
	checksumOK     bool
	worldWidthPx   float64
	worldHeightPx  float64

	conn *websocket.Conn

	deltaCh chan protocol.StateDelta
}

// NewClient returns a disconnected client.
func NewClient(log *zap.SugaredLogger) *Client {
	return &Client{
		log:     log,
		state:   StateDisconnected,
		deltaCh: make(chan protocol.StateDelta, deltaBuffer),
	}
}

// Connect dials the server in a background goroutine and initiates the
// session handshake. constantsChecksum is this build's hash of the
// mirrored constant tables; the welcome carries the server's for
// comparison.
func (c *Client) Connect(address, version, playerName, reconnectToken string, constantsChecksum uint64) {
	c.mu.Lock()
	c.state = StateConnecting
	c.lastError = nil
	c.mu.Unlock()

	router.OnConnect(func(_ *router.NetworkClient) {
		c.log.Infof("connected to %s", address)
		c.mu.Lock()
		c.state = StateConnected
		c.mu.Unlock()

		err := c.Call(protocol.SessionHello{
			Version:           version,
			PlayerName:        playerName,
			ReconnectToken:    reconnectToken,
			ConstantsChecksum: constantsChecksum,
		})
		if err != nil {
			c.setError(fmt.Errorf("send session hello: %w", err))
		}
	})

	router.On(func(_ *router.NetworkClient, msg protocol.SessionWelcome) {
		ok := msg.ConstantsChecksum == constantsChecksum
		if ok {
			c.log.Infof("session accepted: player=%d server=%s", msg.PlayerID, msg.ServerName)
		} else {
			c.log.Errorf("constants checksum mismatch: client=%x server=%x, prediction disabled",
				constantsChecksum, msg.ConstantsChecksum)
		}

		c.mu.Lock()
		c.playerID = msg.PlayerID
		c.reconnectToken = msg.ReconnectToken
		c.serverName = msg.ServerName
		c.serverChecksum = msg.ConstantsChecksum
		c.checksumOK = ok
		c.worldWidthPx = msg.WorldWidthPx
		c.worldHeightPx = msg.WorldHeightPx
		c.state = StateJoined
		c.mu.Unlock()
	})

	router.On(func(_ *router.NetworkClient, msg protocol.SessionRejected) {
		c.log.Warnf("session rejected: %s", msg.Reason)
		c.setError(fmt.Errorf("session rejected: %s", msg.Reason))
	})

	router.On(func(_ *router.NetworkClient, delta protocol.StateDelta) {
		// Blocking hand-off: deltas are incremental and skipping one
		// corrupts the cache. The buffer absorbs normal scheduling jitter.
		c.deltaCh <- delta
	})

	router.OnDisconnect(func(_ *router.NetworkClient, err error) {
		c.log.Infof("disconnected: %v", err)
		c.mu.Lock()
		if c.state != StateError {
			c.state = StateDisconnected
		}
		c.conn = nil
		c.mu.Unlock()
	})

	router.OnError(func(_ *router.NetworkClient, err error) {
		c.log.Warnf("transport error: %v", err)
	})

	go func() {
		transport := transports.NewWsClientTransport("ws://" + address)
		err := transport.Start(func(conn *websocket.Conn) {
			c.mu.Lock()
			c.conn = conn
			c.mu.Unlock()
		})
		if err != nil {
			c.setError(fmt.Errorf("connection failed: %w", err))
		}
	}()
}

// Disconnect closes the connection and detaches all router callbacks.
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

func (c *Client) PlayerID() protocol.PlayerID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerID
}

func (c *Client) ReconnectToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.reconnectToken
}

// ChecksumOK reports whether the server's constant tables hash matched
// ours. Prediction must stay disabled when it did not.
func (c *Client) ChecksumOK() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.checksumOK
}

// WorldSize returns the world dimensions the server announced.
func (c *Client) WorldSize() (w, h float64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.worldWidthPx, c.worldHeightPx
}

// DrainDeltas returns all pending state deltas, non-blocking.
func (c *Client) DrainDeltas() []protocol.StateDelta {
	return drainChan(c.deltaCh)
}

// Call serializes a message and fires it at the server. Fire-and-forget:
// the caller logs and moves on when it errors.
func (c *Client) Call(msg any) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil {
		return fmt.Errorf("not connected")
	}

	payload, err := router.Serialize(msg)
	if err != nil {
		return fmt.Errorf("serialize: %w", err)
	}

	return conn.Write(context.Background(), websocket.MessageBinary, payload)
}

func (c *Client) setError(err error) {
	c.mu.Lock()
	c.state = StateError
	c.lastError = err
	c.mu.Unlock()
}

func drainChan[T any](ch chan T) []T {
	var out []T
	for {
		select {
		case v := <-ch:
			out = append(out, v)
		default:
			return out
		}
	}
}
