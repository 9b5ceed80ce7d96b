package game

import (
	"bufio"
	"net"
	"time"
)

const tcpWriteTimeout = 10 * time.Second

// maxFrame bounds a single newline-delimited frame. A full snapshot with
// obstacles is well under 2 KiB.
const maxFrame = 64 * 1024

// TCPConn frames protocol envelopes as newline-delimited JSON over a raw
// duplex socket, the peer-hosted alternative to the websocket room. Ping is
// a bare newline; the decoder on the other side skips empty frames.
type TCPConn struct {
	socket net.Conn
	reader *bufio.Reader
}

func NewTCPConn(c net.Conn) *TCPConn {
	return &TCPConn{socket: c, reader: bufio.NewReaderSize(c, maxFrame)}
}

// DialTCP connects to a peer-hosted match.
func DialTCP(addr string) (*TCPConn, error) {
	c, err := net.DialTimeout("tcp", addr, 10*time.Second)
	if err != nil {
		return nil, err
	}
	return NewTCPConn(c), nil
}

func (tc *TCPConn) Write(data []byte) error {
	tc.socket.SetWriteDeadline(time.Now().Add(tcpWriteTimeout))
	if _, err := tc.socket.Write(data); err != nil {
		return err
	}
	_, err := tc.socket.Write([]byte{'\n'})
	return err
}

// Read returns the next non-empty frame without its delimiter.
func (tc *TCPConn) Read() ([]byte, error) {
	for {
		line, err := tc.reader.ReadBytes('\n')
		if err != nil {
			return nil, err
		}
		line = line[:len(line)-1]
		if len(line) == 0 {
			continue
		}
		return line, nil
	}
}

func (tc *TCPConn) Ping() error {
	tc.socket.SetWriteDeadline(time.Now().Add(tcpWriteTimeout))
	_, err := tc.socket.Write([]byte{'\n'})
	return err
}

func (tc *TCPConn) Close(string) {
	tc.socket.Close()
}

// AcceptOne waits for a single guest on the listener and hands back the
// framed connection. Used by peer-hosted two-player matches.
func AcceptOne(l net.Listener) (*TCPConn, error) {
	c, err := l.Accept()
	if err != nil {
		return nil, err
	}
	return NewTCPConn(c), nil
}
