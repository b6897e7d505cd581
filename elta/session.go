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

import "fmt"

// LinkState is the control-session state of a C2-to-RC channel.
type LinkState int

const (
	StateDisconnected LinkState = iota
	StateConnected
	StateStandbyRequested
	StateStandby
	StateOperateRequested
	StateOperate
)

var linkStateNames = map[LinkState]string{
	StateDisconnected:     "Disconnected",
	StateConnected:        "Connected",
	StateStandbyRequested: "StandbyRequested",
	StateStandby:          "Standby",
	StateOperateRequested: "OperateRequested",
	StateOperate:          "Operate",
}

func (s LinkState) String() string {
	if name, ok := linkStateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("LinkState(%d)", int(s))
}

// SessionConfig holds the tunable cadence parameters of a control
// session. Zero values fall back to the defaults below.
type SessionConfig struct {
	// SourceID identifies the C2 side in outbound headers.
	SourceID uint32

	// StandbyThreshold is the number of received status messages after
	// which a standby request is sent.
	StandbyThreshold int

	// OperateThreshold is the number of received status messages after
	// which an operate request is sent. Must exceed StandbyThreshold.
	OperateThreshold int

	// AckEvery acknowledges every Nth received status message by echoing
	// its sequence number.
	AckEvery int

	// MissionCategory is carried in outbound control messages.
	MissionCategory uint32
}

const (
	DefaultStandbyThreshold = 2
	DefaultOperateThreshold = 6
	DefaultAckEvery         = 3
	DefaultSourceID         = 0x01
)

func (c SessionConfig) withDefaults() SessionConfig {
	if c.SourceID == 0 {
		c.SourceID = DefaultSourceID
	}
	if c.StandbyThreshold <= 0 {
		c.StandbyThreshold = DefaultStandbyThreshold
	}
	if c.OperateThreshold <= 0 {
		c.OperateThreshold = DefaultOperateThreshold
	}
	if c.AckEvery <= 0 {
		c.AckEvery = DefaultAckEvery
	}
	return c
}

// Session drives the C2 side of a control channel: keep-alive on a fixed
// cadence, a staged standby-then-operate handshake keyed off received
// status counts, and periodic acknowledgment of status messages.
//
// Session is a synchronous state machine with no internal locking. It
// must be owned by a single loop; the surrounding client serializes
// access. Handle and Heartbeat return the messages the caller should put
// on the wire, in order.
type Session struct {
	cfg SessionConfig

	state       LinkState
	statusCount int
	seq         uint32
}

// NewSession returns a session in the Disconnected state.
func NewSession(cfg SessionConfig) *Session {
	return &Session{cfg: cfg.withDefaults()}
}

// State returns the current link state.
func (s *Session) State() LinkState { return s.state }

// StatusCount returns how many status messages have been received since
// the session connected.
func (s *Session) StatusCount() int { return s.statusCount }

// Config returns the effective cadence parameters after defaulting.
func (s *Session) Config() SessionConfig { return s.cfg }

// NextSequence returns the sequence number for the next outbound message
// and advances the counter. The first message of a session is sequence 1.
func (s *Session) NextSequence() uint32 {
	s.seq++
	return s.seq
}

// Start moves the session from Disconnected to Connected. The caller
// should begin its keep-alive cadence once Start returns.
func (s *Session) Start() error {
	if s.state != StateDisconnected {
		return ErrAlreadyConnected
	}
	s.state = StateConnected
	return nil
}

// Reset returns the session to Disconnected and clears all counters.
// Called on channel loss; a reconnect restarts the handshake from
// scratch.
func (s *Session) Reset() {
	s.state = StateDisconnected
	s.statusCount = 0
	s.seq = 0
}

// Heartbeat returns the outbound messages due on the periodic timer: one
// KeepAlive per tick while the session is active, nothing while
// disconnected.
func (s *Session) Heartbeat() []Message {
	if s.state == StateDisconnected {
		return nil
	}
	return []Message{KeepAlive{}}
}

// Handle feeds one received message through the state machine and
// returns the outbound messages it triggers. Acknowledgments come before
// control requests so the peer sees its status answered before a state
// change is asked for.
//
// Only status messages move the state machine. Target reports, motion
// and position messages pass through untouched; decoding problems on a
// status message still count it but never advance past counting.
func (s *Session) Handle(d Decoded) []Message {
	if s.state == StateDisconnected {
		return nil
	}
	status, ok := d.Body.(SystemStatus)
	if !ok {
		return nil
	}

	s.statusCount++
	var out []Message

	if s.statusCount%s.cfg.AckEvery == 0 {
		out = append(out, Acknowledge{AckedSequence: d.Header.SequenceNumber})
	}

	switch {
	case s.state == StateConnected && s.statusCount >= s.cfg.StandbyThreshold:
		s.state = StateStandbyRequested
		out = append(out, s.control(RadarStateStandby))

	case (s.state == StateStandbyRequested || s.state == StateStandby) &&
		s.statusCount >= s.cfg.OperateThreshold:
		s.state = StateOperateRequested
		out = append(out, s.control(RadarStateOperate))
	}

	// A confirmed operate status ends the handshake regardless of where
	// the counters stand. Short payloads carry no usable state field.
	if !status.Partial {
		switch {
		case status.State == RadarStateOperate:
			s.state = StateOperate
		case status.State == RadarStateStandby && s.state == StateStandbyRequested:
			s.state = StateStandby
		}
	}

	return out
}

func (s *Session) control(state RadarState) SystemControl {
	return SystemControl{
		RadarState:      state,
		MissionCategory: s.cfg.MissionCategory,
	}
}
