package ntrip

import (
	"bufio"
	"net"
	"testing"
	"time"

	"github.com/ntripmon/ntripmon/internal/events"
	"github.com/ntripmon/ntripmon/internal/sink"
	"github.com/ntripmon/ntripmon/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listenerPort(t *testing.T, ln net.Listener) int {
	t.Helper()
	return ln.Addr().(*net.TCPAddr).Port
}

// scenario1Frame is a minimal valid type-1005 frame (2-byte payload:
// the 12-bit message type plus 4 padding bits, CRC-24Q over the whole
// header+payload).
var scenario1Frame = []byte{0xD3, 0x00, 0x02, 0x3E, 0xD0, 0xA4, 0xE0, 0x00}

func TestHandshakeRequestBytes(t *testing.T) {
	cfg := Config{Caster: "rtk2go.com", Mountpoint: "MP1", Username: "u", Password: "p"}
	req := handshakeRequest(cfg)
	assert.Contains(t, req, "GET /MP1 HTTP/1.1\r\n")
	assert.Contains(t, req, "Host: rtk2go.com\r\n")
	assert.Contains(t, req, "Ntrip-Version: Ntrip/2.0\r\n")
	assert.Contains(t, req, "User-Agent: NTRIP CClient/1.0\r\n")
	assert.Contains(t, req, "Authorization: Basic ")
	assert.True(t, len(req) > 4 && req[len(req)-4:] == "\r\n\r\n")
}

func TestRunStreamsFramesAfterHandshake(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	serverDone := make(chan struct{})
	go func() {
		defer close(serverDone)
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		reader := bufio.NewReader(conn)
		for {
			line, err := reader.ReadString('\n')
			if err != nil || line == "\r\n" {
				break
			}
		}
		conn.Write([]byte("ICY 200 OK\r\n\r\n"))
		conn.Write(scenario1Frame)
		time.Sleep(50 * time.Millisecond)
	}()

	cfg := Config{Caster: "127.0.0.1", Port: listenerPort(t, ln), Mountpoint: "MP1", Username: "u", Password: "p"}
	bus := events.New(32)
	agg := stats.New()
	buf := &sink.Buffer{}
	sess := NewSession(cfg, bus, agg, nil, buf)

	done := make(chan error, 1)
	go func() { done <- sess.Run() }()

	time.Sleep(150 * time.Millisecond)
	bus.Cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("session did not terminate after cancellation")
	}
	<-serverDone

	row, ok := agg.Stat(1005)
	require.True(t, ok)
	assert.Equal(t, int64(1), row.Count)
}

func TestRunReportsHandshakeRejected(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 4096)
		conn.Read(buf)
		conn.Write([]byte("HTTP/1.1 401 Unauthorized\r\n\r\n"))
	}()

	cfg := Config{Caster: "127.0.0.1", Port: listenerPort(t, ln), Mountpoint: "MP1"}
	bus := events.New(8)
	agg := stats.New()
	sess := NewSession(cfg, bus, agg, nil, sink.Discard)

	err = sess.Run()
	require.Error(t, err)
	var serr *SessionError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, HandshakeRejected, serr.Class)
}

func TestRunReportsConnectFailed(t *testing.T) {
	cfg := Config{Caster: "127.0.0.1", Port: 1, Mountpoint: "MP1"}
	bus := events.New(8)
	agg := stats.New()
	sess := NewSession(cfg, bus, agg, nil, sink.Discard)

	err := sess.Run()
	require.Error(t, err)
	var serr *SessionError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, ConnectFailed, serr.Class)
}
