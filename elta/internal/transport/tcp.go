// Package transport provides the byte-level transports for the radar link
package transport

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"
)

// TCPTransport carries the stream-framed link over a TCP connection
type TCPTransport struct {
	remoteAddr   string
	localAddr    string
	conn         net.Conn
	mu           sync.RWMutex
	readTimeout  time.Duration
	writeTimeout time.Duration
	closed       bool
}

// NewTCPTransport creates a new TCP transport for the given remote address
func NewTCPTransport(remoteAddr, localAddr string) *TCPTransport {
	return &TCPTransport{
		remoteAddr:   remoteAddr,
		localAddr:    localAddr,
		readTimeout:  3 * time.Second,
		writeTimeout: 3 * time.Second,
	}
}

// SetReadTimeout sets the read timeout
func (t *TCPTransport) SetReadTimeout(d time.Duration) {
	t.mu.Lock()
	t.readTimeout = d
	t.mu.Unlock()
}

// SetWriteTimeout sets the write timeout
func (t *TCPTransport) SetWriteTimeout(d time.Duration) {
	t.mu.Lock()
	t.writeTimeout = d
	t.mu.Unlock()
}

// Open dials the remote endpoint
func (t *TCPTransport) Open(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	// A closed transport redials; only an open connection is reused.
	if t.conn != nil && !t.closed {
		return nil
	}

	dialer := &net.Dialer{}
	if t.localAddr != "" {
		addr, err := net.ResolveTCPAddr("tcp", t.localAddr)
		if err != nil {
			return fmt.Errorf("resolve local address: %w", err)
		}
		dialer.LocalAddr = addr
	}

	conn, err := dialer.DialContext(ctx, "tcp", t.remoteAddr)
	if err != nil {
		return fmt.Errorf("dial TCP: %w", err)
	}
	if tc, ok := conn.(*net.TCPConn); ok {
		_ = tc.SetNoDelay(true)
	}

	t.conn = conn
	t.closed = false
	return nil
}

// Close closes the connection
func (t *TCPTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn == nil || t.closed {
		return nil
	}

	t.closed = true
	return t.conn.Close()
}

// LocalAddr returns the local address
func (t *TCPTransport) LocalAddr() net.Addr {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.conn == nil {
		return nil
	}
	return t.conn.LocalAddr()
}

// RemoteAddr returns the remote address
func (t *TCPTransport) RemoteAddr() net.Addr {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.conn == nil {
		return nil
	}
	return t.conn.RemoteAddr()
}

// Send writes data to the connection
func (t *TCPTransport) Send(ctx context.Context, data []byte) error {
	t.mu.RLock()
	conn := t.conn
	writeTimeout := t.writeTimeout
	t.mu.RUnlock()

	if conn == nil {
		return fmt.Errorf("transport not open")
	}

	// Set deadline from context or default timeout
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(writeTimeout)
	}
	if err := conn.SetWriteDeadline(deadline); err != nil {
		return fmt.Errorf("set write deadline: %w", err)
	}

	n, err := conn.Write(data)
	if err != nil {
		return fmt.Errorf("write TCP: %w", err)
	}
	if n != len(data) {
		return fmt.Errorf("partial write: %d of %d bytes", n, len(data))
	}

	return nil
}

// Receive reads whatever bytes the connection has available. The caller
// reassembles message boundaries; the chunk carries no framing of its
// own.
func (t *TCPTransport) Receive(ctx context.Context) ([]byte, error) {
	t.mu.RLock()
	conn := t.conn
	readTimeout := t.readTimeout
	t.mu.RUnlock()

	if conn == nil {
		return nil, fmt.Errorf("transport not open")
	}

	// Set deadline from context or default timeout
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(readTimeout)
	}
	if err := conn.SetReadDeadline(deadline); err != nil {
		return nil, fmt.Errorf("set read deadline: %w", err)
	}

	buf := make([]byte, 4096)
	n, err := conn.Read(buf)
	if err != nil {
		return nil, err
	}

	return buf[:n], nil
}

// ReceiveWithTimeout reads with a specific timeout
func (t *TCPTransport) ReceiveWithTimeout(timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return t.Receive(ctx)
}

// IsClosed returns true if the transport is closed
func (t *TCPTransport) IsClosed() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.closed
}
