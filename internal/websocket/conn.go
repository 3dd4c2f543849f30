package websocket

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait = 10 * time.Second
	// readWait bounds client silence; clients ping well within it.
	readWait = 2 * time.Minute
)

// Conn is a feed socket. One goroutine may Receive while another Sends,
// but neither method may be called concurrently with itself.
type Conn struct {
	ws *websocket.Conn
}

// NewConn wraps an upgraded connection.
func NewConn(ws *websocket.Conn) *Conn {
	return &Conn{ws: ws}
}

// Send writes one JSON payload.
func (c *Conn) Send(v any) error {
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.ws.WriteJSON(v)
}

// Receive blocks for the next client request.
func (c *Conn) Receive() (FilterRequest, error) {
	var req FilterRequest
	if err := c.ws.SetReadDeadline(time.Now().Add(readWait)); err != nil {
		return req, err
	}
	err := c.ws.ReadJSON(&req)
	return req, err
}

// Shutdown sends a going-away close frame and closes the socket.
func (c *Conn) Shutdown(reason string) {
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, reason)
	_ = c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	_ = c.ws.Close()
}

// Close closes the socket without a close frame.
func (c *Conn) Close() error {
	return c.ws.Close()
}

// IsUnexpectedClose reports read errors other than a normal client close.
func IsUnexpectedClose(err error) bool {
	return websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure)
}
