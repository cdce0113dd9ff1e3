package gateway

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mbeoliero/kit/log"
)

// Client represents a connected WebSocket client. The gateway is
// push-only: clients receive events, inbound frames beyond pongs are
// discarded.
type Client struct {
	conn       *websocket.Conn
	UserId     string
	PlatformId int
	ConnId     string

	server    *WsServer
	sendChan  chan []byte
	closed    atomic.Bool
	closeOnce sync.Once
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewClient creates a new client
func NewClient(conn *websocket.Conn, userId string, platformId int, connId string, server *WsServer) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		conn:       conn,
		UserId:     userId,
		PlatformId: platformId,
		ConnId:     connId,
		server:     server,
		sendChan:   make(chan []byte, server.cfg.WebSocket.SendChannelSize),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start starts the client read and write loops
func (c *Client) Start() {
	go c.writeLoop()
	go c.readLoop()
}

// readLoop drains the connection so control frames are processed and
// disconnects are noticed. Payload frames are ignored.
func (c *Client) readLoop() {
	defer func() {
		if r := recover(); r != nil {
			log.CtxError(c.ctx, "client read loop panic: user_id=%s, error=%v", c.UserId, r)
		}
		c.close()
	}()

	c.conn.SetReadLimit(c.server.cfg.WebSocket.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.server.cfg.WebSocket.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.server.cfg.WebSocket.PongWait))
		c.server.userMap.RefreshOnlineStatus(c.ctx, c.UserId)
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			log.CtxDebug(c.ctx, "read message error: user_id=%s, error=%v", c.UserId, err)
			return
		}
		if c.closed.Load() {
			return
		}
	}
}

// writeLoop is the single writer for the connection
func (c *Client) writeLoop() {
	ticker := time.NewTicker(c.server.cfg.WebSocket.PingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.sendChan:
			c.conn.SetWriteDeadline(time.Now().Add(c.server.cfg.WebSocket.WriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.CtxDebug(c.ctx, "write message error: user_id=%s, error=%v", c.UserId, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.server.cfg.WebSocket.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.CtxDebug(c.ctx, "ping error: user_id=%s, error=%v", c.UserId, err)
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// Push queues an encoded event for delivery. Slow consumers get
// ErrWriteChannelFull instead of blocking the pusher.
func (c *Client) Push(data []byte) error {
	if c.closed.Load() {
		return ErrConnClosed
	}

	select {
	case c.sendChan <- data:
		return nil
	default:
		return ErrWriteChannelFull
	}
}

// Kick notifies the client it was displaced and closes the connection
func (c *Client) Kick() {
	if data, err := EncodeEvent(EventKicked, nil); err == nil {
		c.Push(data)
	}
	c.Close()
}

// Close closes the client connection
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		c.cancel()
		c.conn.Close()
	})
}

// close handles cleanup when the read loop exits
func (c *Client) close() {
	c.Close()
	c.server.UnregisterClient(c)
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	return c.closed.Load()
}
