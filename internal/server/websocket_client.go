package server

import (
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

// WebSocketClient adapts a gorilla connection to Client.
type WebSocketClient struct {
	conn *websocket.Conn

	readMu  sync.Mutex
	pending []string // Remaining lines of a multi-line message

	writeMu sync.Mutex // gorilla allows one concurrent writer
}

// NewWebSocketClient wraps conn. A positive readLimit caps incoming message size.
func NewWebSocketClient(conn *websocket.Conn, readLimit int64) *WebSocketClient {
	if readLimit > 0 {
		conn.SetReadLimit(readLimit)
	}
	return &WebSocketClient{conn: conn}
}

// ReadLine returns the next non-blank line. Messages holding several lines are
// split and handed out one line per call.
func (c *WebSocketClient) ReadLine() (string, error) {
	c.readMu.Lock()
	defer c.readMu.Unlock()

	for len(c.pending) == 0 {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return "", err
		}
		for _, line := range strings.Split(string(message), "\n") {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				c.pending = append(c.pending, trimmed)
			}
		}
	}

	line := c.pending[0]
	c.pending = c.pending[1:]
	return line, nil
}

func (c *WebSocketClient) WriteLine(message string) error {
	return c.Write([]byte(message))
}

func (c *WebSocketClient) Write(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *WebSocketClient) Close() error {
	return c.conn.Close()
}

func (c *WebSocketClient) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}
