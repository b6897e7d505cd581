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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// statusDecoded builds a Decoded status as the session would see it off
// the wire.
func statusDecoded(t *testing.T, seq uint32, state RadarState) Decoded {
	t.Helper()
	data, err := RevD.Marshal(SimulatorSourceID, seq, time.Now(), SystemStatus{
		State: state,
		Mode:  ModeSearch,
	})
	require.NoError(t, err)

	d, err := DecodeMessage(RevD.Layout, data)
	require.NoError(t, err)
	return d
}

func startedSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession(SessionConfig{})
	require.NoError(t, s.Start())
	require.Equal(t, StateConnected, s.State())
	return s
}

func TestSessionHandshake(t *testing.T) {
	s := startedSession(t)

	// First status: counting only.
	out := s.Handle(statusDecoded(t, 1, RadarStateStartup))
	assert.Empty(t, out)
	assert.Equal(t, StateConnected, s.State())

	// Second status reaches the standby threshold.
	out = s.Handle(statusDecoded(t, 2, RadarStateStartup))
	require.Len(t, out, 1)
	ctrl, ok := out[0].(SystemControl)
	require.True(t, ok)
	assert.Equal(t, RadarStateStandby, ctrl.RadarState)
	assert.Equal(t, StateStandbyRequested, s.State())

	// Third status: ack cadence fires, echoing the status's sequence.
	out = s.Handle(statusDecoded(t, 3, RadarStateStandby))
	require.Len(t, out, 1)
	ack, ok := out[0].(Acknowledge)
	require.True(t, ok)
	assert.Equal(t, uint32(3), ack.AckedSequence)
	assert.Equal(t, StateStandby, s.State(), "standby confirmed by reported state")

	// Fourth and fifth: nothing due.
	assert.Empty(t, s.Handle(statusDecoded(t, 4, RadarStateStandby)))
	assert.Empty(t, s.Handle(statusDecoded(t, 5, RadarStateStandby)))

	// Sixth status reaches the operate threshold; the ack cadence fires
	// on the same message and comes first.
	out = s.Handle(statusDecoded(t, 6, RadarStateStandby))
	require.Len(t, out, 2)
	ack, ok = out[0].(Acknowledge)
	require.True(t, ok)
	assert.Equal(t, uint32(6), ack.AckedSequence)
	ctrl, ok = out[1].(SystemControl)
	require.True(t, ok)
	assert.Equal(t, RadarStateOperate, ctrl.RadarState)
	assert.Equal(t, StateOperateRequested, s.State())

	// A status reporting operate ends the handshake.
	out = s.Handle(statusDecoded(t, 7, RadarStateOperate))
	assert.Empty(t, out)
	assert.Equal(t, StateOperate, s.State())

	// Terminal: further statuses trigger nothing but the ack cadence.
	out = s.Handle(statusDecoded(t, 8, RadarStateOperate))
	assert.Empty(t, out)
	out = s.Handle(statusDecoded(t, 9, RadarStateOperate))
	require.Len(t, out, 1)
	assert.IsType(t, Acknowledge{}, out[0])
	assert.Equal(t, StateOperate, s.State())
}

func TestSessionNonStatusMessagesDoNotTransition(t *testing.T) {
	s := startedSession(t)

	for _, body := range []Message{
		KeepAlive{},
		SingleTargetReport{Target: sampleTarget(1)},
		TargetReport{Count: 1, Targets: []Target{sampleTarget(2)}},
		Generic{ID: 0xCEF0FFFF},
	} {
		data, err := RevD.Marshal(SimulatorSourceID, 1, time.Now(), body)
		require.NoError(t, err)
		d, err := DecodeMessage(RevD.Layout, data)
		require.NoError(t, err)

		assert.Empty(t, s.Handle(d))
	}

	assert.Equal(t, StateConnected, s.State())
	assert.Equal(t, 0, s.StatusCount())
}

func TestSessionMalformedStatusStillCounts(t *testing.T) {
	s := startedSession(t)

	short := frame(t, LayoutRevD, MsgSystemStatus, u32s(4)) // 4-byte payload
	d, err := DecodeMessage(LayoutRevD, short)
	require.Error(t, err)

	// One good status, one short one: the short status reaches the
	// standby threshold even though its state field is unreadable.
	s.Handle(statusDecoded(t, 1, RadarStateStartup))
	out := s.Handle(d)

	require.Len(t, out, 1)
	assert.IsType(t, SystemControl{}, out[0])
	assert.Equal(t, StateStandbyRequested, s.State())
	assert.Equal(t, 2, s.StatusCount())
}

func TestSessionOperateFromPartialStatusNotTaken(t *testing.T) {
	s := startedSession(t)

	// A short payload whose first word happens to read as operate must
	// not be trusted.
	short := frame(t, LayoutRevD, MsgSystemStatus, u32s(uint32(RadarStateOperate)))
	d, err := DecodeMessage(LayoutRevD, short)
	require.Error(t, err)

	s.Handle(d)
	assert.Equal(t, StateConnected, s.State())
}

func TestSessionHeartbeat(t *testing.T) {
	s := NewSession(SessionConfig{})
	assert.Empty(t, s.Heartbeat(), "no keep-alive while disconnected")

	require.NoError(t, s.Start())
	out := s.Heartbeat()
	require.Len(t, out, 1)
	assert.IsType(t, KeepAlive{}, out[0])
}

func TestSessionReset(t *testing.T) {
	s := startedSession(t)
	s.Handle(statusDecoded(t, 1, RadarStateStartup))
	s.Handle(statusDecoded(t, 2, RadarStateStartup))
	require.Equal(t, StateStandbyRequested, s.State())

	s.Reset()
	assert.Equal(t, StateDisconnected, s.State())
	assert.Equal(t, 0, s.StatusCount())
	assert.Empty(t, s.Handle(statusDecoded(t, 3, RadarStateStartup)),
		"disconnected sessions ignore traffic")

	// Reconnection restarts the handshake from scratch.
	require.NoError(t, s.Start())
	assert.Equal(t, uint32(1), s.NextSequence())
	s.Handle(statusDecoded(t, 1, RadarStateStartup))
	out := s.Handle(statusDecoded(t, 2, RadarStateStartup))
	require.Len(t, out, 1)
	assert.IsType(t, SystemControl{}, out[0])
}

func TestSessionStartTwice(t *testing.T) {
	s := startedSession(t)
	assert.ErrorIs(t, s.Start(), ErrAlreadyConnected)
}

func TestSessionConfigDefaults(t *testing.T) {
	s := NewSession(SessionConfig{})
	cfg := s.Config()
	assert.Equal(t, DefaultStandbyThreshold, cfg.StandbyThreshold)
	assert.Equal(t, DefaultOperateThreshold, cfg.OperateThreshold)
	assert.Equal(t, DefaultAckEvery, cfg.AckEvery)
	assert.Equal(t, uint32(DefaultSourceID), cfg.SourceID)
}
