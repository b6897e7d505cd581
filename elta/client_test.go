// Copyright 2025 Oraqon Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package elta

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientChannelLossResetsLink(t *testing.T) {
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

	c, err := NewClient(ln.Addr().String(),
		WithReadTimeout(20*time.Millisecond),
		WithKeepAliveInterval(time.Hour),
	)
	require.NoError(t, err)
	require.NoError(t, c.Connect(context.Background()))
	defer c.Close()

	var peer net.Conn
	select {
	case peer = <-conns:
	case <-time.After(2 * time.Second):
		t.Fatal("no inbound connection")
	}

	require.Equal(t, StateConnected, c.State())

	// Peer hangs up: the link must drop to Disconnected with counters
	// cleared, not sit on the dead socket.
	require.NoError(t, peer.Close())
	require.Eventually(t, func() bool {
		return c.State() == StateDisconnected
	}, 2*time.Second, 20*time.Millisecond)
	select {
	case <-c.loopDone:
	case <-time.After(time.Second):
		t.Fatal("run loop did not exit")
	}

	assert.EqualValues(t, 1, c.Metrics().Disconnects.Value())
	assert.EqualValues(t, 0, c.Metrics().ActiveChannels.Value())
	assert.Zero(t, c.session.StatusCount())

	// The same client can dial again after the loss.
	require.NoError(t, c.Connect(context.Background()))
	select {
	case peer = <-conns:
	case <-time.After(2 * time.Second):
		t.Fatal("no inbound connection after reconnect")
	}
	defer peer.Close()
	require.Equal(t, StateConnected, c.State())
}
