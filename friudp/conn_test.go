package friudp

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/openlbr/go-fri/fri"
)

func openLoopbackConn(t *testing.T) (*Connection, *net.UDPAddr) {
	t.Helper()

	cfg, err := NewConnectionConfig()
	require.NoError(t, err)

	conn, err := NewConnection(cfg)
	require.NoError(t, err)

	// an ephemeral port with the peer learned from the first datagram
	require.NoError(t, conn.Open(0, ""))
	t.Cleanup(func() { _ = conn.Close() })

	local, ok := conn.LocalAddr().(*net.UDPAddr)
	require.True(t, ok)

	return conn, &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: local.Port}
}

func TestConnection_NilConfig(t *testing.T) {
	_, err := NewConnection(nil)
	require.ErrorIs(t, err, ErrConfigNil)
}

func TestConnection_Loopback(t *testing.T) {
	require := require.New(t)

	conn, addr := openLoopbackConn(t)

	// no datagram received yet, the peer is unknown
	require.ErrorIs(conn.Send([]byte{0x01}), fri.ErrPeerUnknown)

	peer, err := net.DialUDP("udp", nil, addr)
	require.NoError(err)
	defer peer.Close()

	_, err = peer.Write([]byte{0xDE, 0xAD, 0xBE, 0xEF})
	require.NoError(err)

	data, err := conn.Receive(time.Second)
	require.NoError(err)
	require.Equal([]byte{0xDE, 0xAD, 0xBE, 0xEF}, data)

	// the peer is learned, replies reach the sender
	require.NoError(conn.Send([]byte{0x0B, 0x0C}))

	reply := make([]byte, 16)
	require.NoError(peer.SetReadDeadline(time.Now().Add(time.Second)))
	n, err := peer.Read(reply)
	require.NoError(err)
	require.Equal([]byte{0x0B, 0x0C}, reply[:n])
}

func TestConnection_ReceiveTimeout(t *testing.T) {
	require := require.New(t)

	conn, _ := openLoopbackConn(t)

	start := time.Now()
	_, err := conn.Receive(20 * time.Millisecond)
	require.ErrorIs(err, fri.ErrReceiveTimeout)
	require.GreaterOrEqual(time.Since(start), 20*time.Millisecond)
}

func TestConnection_OpenTwice(t *testing.T) {
	require := require.New(t)

	conn, _ := openLoopbackConn(t)
	require.ErrorIs(conn.Open(0, ""), fri.ErrConnOpened)
}

func TestConnection_Close(t *testing.T) {
	require := require.New(t)

	conn, _ := openLoopbackConn(t)

	require.NoError(conn.Close())
	require.NoError(conn.Close())
	require.Nil(conn.LocalAddr())

	_, err := conn.Receive(time.Millisecond)
	require.ErrorIs(err, fri.ErrConnClosed)
	require.ErrorIs(conn.Send([]byte{0x01}), fri.ErrConnClosed)

	// the port can be bound again after a close
	require.NoError(conn.Open(0, ""))
	require.NoError(conn.Close())
}

func TestConnection_CloseUnblocksReceive(t *testing.T) {
	require := require.New(t)

	conn, _ := openLoopbackConn(t)

	errCh := make(chan error, 1)
	go func() {
		_, err := conn.Receive(5 * time.Second)
		errCh <- err
	}()

	time.Sleep(50 * time.Millisecond)
	require.NoError(conn.Close())

	select {
	case err := <-errCh:
		require.ErrorIs(err, fri.ErrConnClosed)
	case <-time.After(time.Second):
		t.Fatal("pending receive was not unblocked by close")
	}
}
