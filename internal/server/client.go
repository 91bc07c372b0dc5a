package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/sharivan/XSharp-sub001/internal/engine"
	"github.com/sharivan/XSharp-sub001/pkg/api"
	"github.com/sharivan/XSharp-sub001/pkg/logger"
)

// WebSocket settings
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

var clientSeq atomic.Int64

// Client sits between a WebSocket and the GameService. It receives every
// tick summary and may request saves.
type Client struct {
	Game *engine.GameService
	Conn *websocket.Conn
	Send chan interface{}
	ID   string

	// done is closed when writePump stops; nothing reads Send after that
	done     chan struct{}
	doneOnce sync.Once

	log *logrus.Entry
}

// Ack answers a client command.
type Ack struct {
	Type   string            `json:"type"` // ACK
	Action string            `json:"action"`
	Error  string            `json:"error,omitempty"`
	Save   *api.SaveSlotView `json:"save,omitempty"`
}

func NewClient(game *engine.GameService, conn *websocket.Conn) *Client {
	id := fmt.Sprintf("ws-%d", clientSeq.Add(1))
	return &Client{
		Game: game,
		Conn: conn,
		Send: make(chan interface{}, 256),
		ID:   id,
		done: make(chan struct{}),
		log:  logger.Component("ws").WithField("client", id),
	}
}

func (c *Client) stop() {
	c.doneOnce.Do(func() { close(c.done) })
}

// forward moves hub summaries into Send until the hub closes updates or
// writePump stops. Send is closed only on the first path.
func (c *Client) forward(updates <-chan api.TickSummary) {
	for msg := range updates {
		select {
		case c.Send <- msg:
		case <-c.done:
			return
		}
	}
	close(c.Send)
}

// readPump subscribes the client and reads its commands.
func (c *Client) readPump() {
	go c.forward(c.Game.Hub.Register(c.ID))

	defer func() {
		c.Game.Hub.Unregister(c.ID)
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection")
		}
		c.log.Info("client disconnected")
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			c.log.WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})
	c.log.Info("client connected")

	for {
		var cmd api.ClientCommand
		if err := c.Conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.WithError(err).Error("ws error")
			}
			return
		}
		c.reply(c.handle(cmd))
	}
}

func (c *Client) handle(cmd api.ClientCommand) Ack {
	ack := Ack{Type: "ACK", Action: cmd.Action}
	if err := cmd.Validate(); err != nil {
		ack.Error = err.Error()
		return ack
	}

	switch cmd.Action {
	case "SAVE":
		var p api.SlotPayload
		if err := json.Unmarshal(cmd.Payload, &p); err != nil {
			ack.Error = "invalid payload: " + err.Error()
			return ack
		}
		if err := p.Validate(); err != nil {
			ack.Error = err.Error()
			return ack
		}
		if p.Slot == "" {
			ack.Error = "slot is required"
			return ack
		}
		ctx, cancel := context.WithTimeout(context.Background(), writeWait)
		defer cancel()
		view, err := c.Game.Save(ctx, p.Slot)
		if err != nil {
			ack.Error = err.Error()
			return ack
		}
		ack.Save = &view
	}
	return ack
}

func (c *Client) reply(ack Ack) {
	// Send is closed only after readPump returns
	select {
	case c.Send <- ack:
	case <-c.done:
	default:
		c.log.Warn("send buffer full, ack dropped")
	}
}

// writePump sends queued messages and pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.stop()
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.Conn.WriteJSON(message); err != nil {
				c.log.WithError(err).Debug("write json message failed")
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}
