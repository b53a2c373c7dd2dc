package hub

import (
	"encoding/json"
	"log"
	"sync/atomic"

	"github.com/gorilla/websocket"
)

// PlayerSwitcher moves a viewer onto another player's pad state.
type PlayerSwitcher interface {
	SelectPlayer(c *Client, playerIndex int) bool
}

// Client is one viewer connection. Outbound frames are queued on send and
// written by WritePump.
type Client struct {
	hub         *Hub
	conn        *websocket.Conn
	send        chan []byte
	playerIndex atomic.Int64 // 1-based
}

func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	c := &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
	c.playerIndex.Store(1)
	return c
}

// PlayerIndex returns the player whose state this viewer receives.
func (c *Client) PlayerIndex() int {
	return int(c.playerIndex.Load())
}

func (c *Client) SetPlayerIndex(index int) {
	c.playerIndex.Store(int64(index))
}

// WritePump drains the send queue until the hub closes it or a write fails.
func (c *Client) WritePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// ReadPumpWithHandler serves viewer commands until the connection drops,
// then unregisters the viewer.
func (c *Client) ReadPumpWithHandler(switcher PlayerSwitcher) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("Error parsing viewer message: %v", err)
			continue
		}
		if msg.Type != "select_player" {
			continue
		}

		if !switcher.SelectPlayer(c, msg.PlayerIndex) {
			log.Printf("Viewer asked for unknown player %d", msg.PlayerIndex)
			continue
		}
		log.Printf("Viewer switched to player %d", msg.PlayerIndex)
	}
}
