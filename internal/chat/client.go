// internal/chat/client.go

package chat

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 64 * 1024 // 64KB
)

// Client is one websocket connection
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	userID  string
	service Service
}

func NewClient(hub *Hub, conn *websocket.Conn, userID string, service Service) *Client {
	return &Client{
		hub:     hub,
		conn:    conn,
		send:    make(chan []byte, 256),
		userID:  userID,
		service: service,
	}
}

func (c *Client) Start() {
	c.hub.register <- c
	go c.writePump()
	go c.readPump()
}

func (c *Client) Close() {
	if c.conn != nil {
		c.conn.Close()
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error for user %s: %v", c.userID, err)
			}
			break
		}

		c.processFrame(data)
	}
}

func (c *Client) writePump() {
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

func (c *Client) processFrame(data []byte) {
	var frame inboundFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		c.sendError("", "Malformed frame")
		return
	}

	ctx := context.Background()

	switch frame.Type {
	case frameSubscribe:
		c.handleSubscribe(ctx, frame.Channel)

	case frameUnsubscribe:
		c.hub.Unsubscribe(c.userID, frame.Channel)

	case frameSendMessage:
		c.handleSendMessage(ctx, frame.Data)

	default:
		c.sendError("", "Unknown frame type: "+frame.Type)
	}
}

func (c *Client) handleSubscribe(ctx context.Context, channel string) {
	chatID, ok := parseChatChannel(channel)
	if !ok {
		c.sendError("", "Unknown channel: "+channel)
		return
	}

	if err := c.service.VerifyMembership(ctx, chatID, c.userID); err != nil {
		c.sendError("", "Cannot subscribe to "+channel)
		return
	}

	c.hub.Subscribe(c.userID, channel)
	c.sendEvent(Event{
		Channel:   channel,
		Event:     EventSubscribed,
		Timestamp: time.Now(),
	})
}

func (c *Client) handleSendMessage(ctx context.Context, data json.RawMessage) {
	var payload sendMessagePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		c.sendError("", "Malformed send-message payload")
		return
	}

	_, err := c.service.SendMessage(ctx, payload.ChatID, c.userID, payload.Content, payload.TempID, "websocket")
	if err != nil {
		// Echo the temp id so the client can fail the right outbox
		// entry and keep the composed text
		c.sendError(payload.TempID, err.Error())
	}
}

func (c *Client) sendEvent(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (c *Client) sendError(tempID, message string) {
	c.sendEvent(Event{
		Event:     EventError,
		Payload:   map[string]string{"tempId": tempID, "message": message},
		Timestamp: time.Now(),
	})
}

func parseChatChannel(channel string) (string, bool) {
	const prefix = "chat-"
	if len(channel) <= len(prefix) || channel[:len(prefix)] != prefix {
		return "", false
	}
	return channel[len(prefix):], true
}
