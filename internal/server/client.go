package server

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gorilla/websocket"

	"monsterpet/internal/pet"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// ClientMessage is a command sent by the browser over the WebSocket
type ClientMessage struct {
	Type   string `json:"type"` // "action", "item", "reveal" or "reset"
	Action string `json:"action,omitempty"`
	Item   string `json:"item,omitempty"`
}

// ErrorMessage reports a rejected command to the client that sent it
type ErrorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// Client is one WebSocket connection attached to a session
type Client struct {
	session *Session
	conn    *websocket.Conn
	send    chan []byte
	logger  *Logger
}

// NewClient creates a client for session on conn
func NewClient(session *Session, conn *websocket.Conn, logger *Logger) *Client {
	return &Client{
		session: session,
		conn:    conn,
		send:    make(chan []byte, 256),
		logger:  logger,
	}
}

// ReadPump applies commands from the connection until it closes
func (c *Client) ReadPump() {
	defer func() {
		c.session.detach(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("WebSocket read error: " + err.Error())
			}
			break
		}

		var msg ClientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.reject(errors.New("invalid json message"))
			continue
		}
		if err := c.handle(msg); err != nil {
			c.reject(err)
		}
	}
}

// handle applies msg to the session. Successful changes reach every client,
// this one included, through the hub.
func (c *Client) handle(msg ClientMessage) error {
	switch msg.Type {
	case "action":
		a, err := pet.ParseAction(msg.Action)
		if err != nil {
			return err
		}
		_, err = c.session.Act(a)
		return err
	case "item":
		i, err := pet.ParseItem(msg.Item)
		if err != nil {
			return err
		}
		_, err = c.session.UseItem(i)
		return err
	case "reveal":
		_, err := c.session.Reveal()
		return err
	case "reset":
		c.session.Reset()
		return nil
	default:
		return errors.New("unknown message type: " + msg.Type)
	}
}

func (c *Client) reject(err error) {
	payload, _ := json.Marshal(ErrorMessage{Type: "error", Error: err.Error()})
	c.logger.Warn("Rejected WebSocket command for game " + c.session.ID + ": " + err.Error())
	c.session.hub.SendTo(c, payload)
}

// WritePump pumps messages from the hub to the websocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
