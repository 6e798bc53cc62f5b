package realtime

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// Client adapts a websocket connection to Conn. gorilla/websocket supports
// one concurrent writer, so writes are serialised here.
type Client struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func NewClient(ws *websocket.Conn) *Client {
	return &Client{ws: ws}
}

func (c *Client) WriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteJSON(v)
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return c.ws.Close()
}

// ReadText returns the next text message
func (c *Client) ReadText() (string, error) {
	for {
		kind, data, err := c.ws.ReadMessage()
		if err != nil {
			return "", err
		}
		if kind == websocket.TextMessage {
			return string(data), nil
		}
	}
}
