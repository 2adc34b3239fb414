package server

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/lox/handeval/poker"
)

// Connection represents a WebSocket connection to a client
type Connection struct {
	id        string
	conn      *websocket.Conn
	send      chan *Message
	server    *Server
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, server *Server, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	id := uuid.NewString()

	return &Connection{
		id:     id,
		conn:   conn,
		send:   make(chan *Message, 256),
		server: server,
		logger: logger.WithPrefix("conn").With("conn", id),
		ctx:    ctx,
		cancel: cancel,
	}
}

// ID returns the connection's unique identifier.
func (c *Connection) ID() string {
	return c.id
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		err = c.conn.Close()
		c.server.unregister(c)
	})
	return err
}

// SendMessage queues a message for the client
func (c *Connection) SendMessage(msg *Message) error {
	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close() // Ignore close errors
		return ErrConnectionClosed
	}
}

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 64 * 1024
)

var (
	ErrConnectionClosed = websocket.ErrCloseSent
)

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }() // Ignore close errors during cleanup

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Close() // Ignore close errors during cleanup
	}()

	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			_ = c.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type, "request", msg.RequestID)

	switch msg.Type {
	case MessageTypeEvaluate:
		var data EvaluateData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError(msg.RequestID, ErrCodeInvalidMessage, "Failed to parse evaluate data")
			return
		}
		c.handleEvaluate(msg.RequestID, data)

	case MessageTypeCompare:
		var data CompareData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError(msg.RequestID, ErrCodeInvalidMessage, "Failed to parse compare data")
			return
		}
		c.handleCompare(msg.RequestID, data)

	default:
		c.sendError(msg.RequestID, ErrCodeUnknownType, "Unknown message type: "+msg.Type.String())
	}
}

func (c *Connection) handleEvaluate(requestID string, data EvaluateData) {
	limit := c.server.config.Server.MaxBatch
	if len(data.Hands) > limit {
		c.sendError(requestID, ErrCodeBatchTooLarge, fmt.Sprintf("batch of %d exceeds limit of %d", len(data.Hands), limit))
		return
	}

	results, err := c.server.evaluate(c.ctx, data.Hands)
	if err != nil {
		c.sendError(requestID, ErrCodeCancelled, err.Error())
		return
	}
	c.reply(requestID, MessageTypeResults, ResultsData{Results: results})
}

func (c *Connection) handleCompare(requestID string, data CompareData) {
	if len(data.Hands) != 2 {
		c.sendError(requestID, ErrCodeInvalidMessage, fmt.Sprintf("compare needs exactly 2 hands, got %d", len(data.Hands)))
		return
	}

	hands := make([]poker.Hand, 2)
	for i, input := range data.Hands {
		h, err := poker.ParseHand(input)
		if err != nil {
			c.sendError(requestID, ErrCodeInvalidHand, fmt.Sprintf("hand %d: %v", i+1, err))
			return
		}
		hands[i] = h
	}

	results, err := c.server.evaluate(c.ctx, data.Hands)
	if err != nil {
		c.sendError(requestID, ErrCodeCancelled, err.Error())
		return
	}

	result := hands[0].Compare(hands[1])
	winner := -1
	switch result {
	case 1:
		winner = 0
	case -1:
		winner = 1
	}
	c.reply(requestID, MessageTypeComparison, ComparisonData{Hands: results, Result: result, Winner: winner})
}

func (c *Connection) reply(requestID string, messageType MessageType, data interface{}) {
	msg, err := NewMessage(messageType, data)
	if err != nil {
		c.logger.Error("Failed to create message", "type", messageType, "error", err)
		return
	}
	msg.RequestID = requestID
	_ = c.SendMessage(msg) // Closed connections have nobody to tell
}

// sendError sends an error message to the client
func (c *Connection) sendError(requestID, code, message string) {
	c.reply(requestID, MessageTypeError, ErrorData{Code: code, Message: message})
}
