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

func wireStatus(t *testing.T, seq uint32) []byte {
	t.Helper()
	data, err := RevD.Marshal(SimulatorSourceID, seq, time.Now(), SystemStatus{
		State: RadarStateStandby,
		Mode:  ModeSearch,
	})
	require.NoError(t, err)
	return data
}

func TestReassemblerSingleMessage(t *testing.T) {
	re := NewReassembler(LayoutRevD)
	msg := wireStatus(t, 1)

	frames := re.Push(msg)
	require.Len(t, frames, 1)
	assert.Equal(t, msg, frames[0])
	assert.Equal(t, 0, re.Pending())
}

func TestReassemblerPartialDelivery(t *testing.T) {
	re := NewReassembler(LayoutRevD)
	msg := wireStatus(t, 1)

	// Drip the message in three chunks; only the last completes it.
	assert.Empty(t, re.Push(msg[:10]))
	assert.Empty(t, re.Push(msg[10:25]))

	frames := re.Push(msg[25:])
	require.Len(t, frames, 1)
	assert.Equal(t, msg, frames[0])
}

func TestReassemblerCoalescedMessages(t *testing.T) {
	re := NewReassembler(LayoutRevD)
	a := wireStatus(t, 1)
	b := wireStatus(t, 2)
	ka, err := RevD.Marshal(1, 3, time.Now(), KeepAlive{})
	require.NoError(t, err)

	var stream []byte
	stream = append(stream, a...)
	stream = append(stream, b...)
	stream = append(stream, ka...)

	frames := re.Push(stream)
	require.Len(t, frames, 3)
	assert.Equal(t, a, frames[0])
	assert.Equal(t, b, frames[1])
	assert.Equal(t, ka, frames[2])
}

func TestReassemblerSplitAcrossMessages(t *testing.T) {
	re := NewReassembler(LayoutRevD)
	a := wireStatus(t, 1)
	b := wireStatus(t, 2)

	stream := append(append([]byte{}, a...), b...)

	// A chunk boundary in the middle of the second message.
	cut := len(a) + 8
	frames := re.Push(stream[:cut])
	require.Len(t, frames, 1)
	assert.Equal(t, a, frames[0])
	assert.Equal(t, 8, re.Pending())

	frames = re.Push(stream[cut:])
	require.Len(t, frames, 1)
	assert.Equal(t, b, frames[0])
}

func TestReassemblerResyncAfterGarbage(t *testing.T) {
	re := NewReassembler(LayoutRevD)

	ext := SingleTargetExtended{Track: sampleTrack(), Plot: samplePlot()}
	msg, err := RevD.Marshal(0, 5, time.Now(), ext)
	require.NoError(t, err)
	require.Len(t, msg, HeaderSize+ExtendedPayloadSize)

	// A zeroed prefix never yields a plausible length word at any slide
	// position, so the reassembler discards it byte by byte until the
	// real message boundary lines up.
	garbage := make([]byte, 25)
	stream := append(append([]byte{}, garbage...), msg...)

	frames := re.Push(stream)
	require.Len(t, frames, 1)
	assert.Equal(t, msg, frames[0])
	assert.Equal(t, uint64(len(garbage)), re.Desyncs())
}

func TestReassemblerOversizedLengthDiscarded(t *testing.T) {
	re := NewReassembler(LayoutRevD)

	h := MessageHeader{
		SourceID:      1,
		MessageID:     MsgKeepAlive,
		MessageLength: MaxFrameSize + 1,
	}
	bad := LayoutRevD.EncodeHeader(h)

	assert.Empty(t, re.Push(bad))
	assert.Positive(t, re.Desyncs())
}

func TestReassemblerReset(t *testing.T) {
	re := NewReassembler(LayoutRevD)
	msg := wireStatus(t, 1)

	re.Push(msg[:15])
	require.Equal(t, 15, re.Pending())

	re.Reset()
	assert.Equal(t, 0, re.Pending())

	// A fresh message after reset decodes cleanly; the stale prefix is
	// gone.
	frames := re.Push(msg)
	require.Len(t, frames, 1)
	assert.Equal(t, msg, frames[0])
}
