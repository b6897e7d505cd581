package transport

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTCPOpenAfterCloseRedials(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	conns := make(chan net.Conn, 2)
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conns <- conn
		}
	}()

	ctx := context.Background()
	tr := NewTCPTransport(ln.Addr().String(), "")
	require.NoError(t, tr.Open(ctx))
	require.False(t, tr.IsClosed())

	require.NoError(t, tr.Close())
	require.True(t, tr.IsClosed())

	// Open on a closed transport dials a fresh connection; the old dead
	// one must not be handed back.
	require.NoError(t, tr.Open(ctx))
	require.False(t, tr.IsClosed())
	require.NoError(t, tr.Send(ctx, []byte{0x01}))
	require.NoError(t, tr.Close())

	for i := 0; i < 2; i++ {
		select {
		case conn := <-conns:
			conn.Close()
		case <-time.After(2 * time.Second):
			t.Fatalf("accepted %d connections, want 2", i)
		}
	}
}

func TestUDPOpenAfterCloseRebinds(t *testing.T) {
	ctx := context.Background()
	tr := NewUDPTransport("127.0.0.1:9", "")
	require.NoError(t, tr.Open(ctx))
	require.NoError(t, tr.Close())
	require.True(t, tr.IsClosed())

	require.NoError(t, tr.Open(ctx))
	require.False(t, tr.IsClosed())
	require.NoError(t, tr.Send(ctx, []byte{0x01}))
	require.NoError(t, tr.Close())
}
