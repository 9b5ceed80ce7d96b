package game

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsPongTimeout  = time.Minute
)

// WebsocketConn adapts a gorilla connection to the Conn interface. Frames
// are text: the protocol is JSON and browser guests read it directly.
type WebsocketConn struct {
	socket *websocket.Conn
}

func NewWebsocketConn(conn *websocket.Conn) *WebsocketConn {
	conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
		return nil
	})
	return &WebsocketConn{socket: conn}
}

func (wc *WebsocketConn) Write(data []byte) error {
	wc.socket.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return wc.socket.WriteMessage(websocket.TextMessage, data)
}

func (wc *WebsocketConn) Ping() error {
	wc.socket.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return wc.socket.WriteMessage(websocket.PingMessage, nil)
}

func (wc *WebsocketConn) Read() ([]byte, error) {
	_, p, err := wc.socket.ReadMessage()
	return p, err
}

func (wc *WebsocketConn) Close(reason string) {
	wc.socket.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	wc.socket.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason))
	wc.socket.Close()
}
