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
	"errors"
	"log/slog"
	"net"
	"sync"
	"time"
)

// SimulatorSourceID identifies the simulated RC in outbound headers.
const SimulatorSourceID = 0x2135

// Simulator plays the RC side of the link for integration testing: it
// accepts one C2 connection at a time, streams status and target
// traffic on a fixed cadence, and honors received control requests by
// moving its reported radar state, so a client run against it walks the
// whole standby/operate handshake.
type Simulator struct {
	rev    Revision
	logger *slog.Logger

	mu    sync.Mutex
	state RadarState
	seq   uint32

	listener net.Listener
}

// NewSimulator returns a simulator speaking the given revision.
func NewSimulator(rev Revision, logger *slog.Logger) *Simulator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Simulator{
		rev:    rev,
		logger: logger,
		state:  RadarStateStartup,
	}
}

// State returns the radar state the simulator currently reports.
func (s *Simulator) State() RadarState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Run listens on addr and serves connections until the context is
// canceled.
func (s *Simulator) Run(ctx context.Context, addr string) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	s.listener = ln
	defer ln.Close()

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	s.logger.Info("simulator listening",
		slog.String("addr", ln.Addr().String()),
		slog.String("revision", s.rev.Name),
	)

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		s.logger.Info("client connected", slog.String("remote", conn.RemoteAddr().String()))
		s.serve(ctx, conn)
		s.logger.Info("client disconnected")
	}
}

// serve runs one connection: a reader applying control requests and a
// ticker streaming the scripted traffic cycle.
func (s *Simulator) serve(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	connCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer cancel()
		s.readLoop(conn)
	}()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	cycle := 0
	for {
		select {
		case <-connCtx.Done():
			wg.Wait()
			return
		case <-ticker.C:
		}

		msgs := []Message{s.statusMessage()}
		// Target traffic rides along every other tick, cycling through
		// the report shapes.
		if cycle%2 == 1 {
			switch (cycle / 2) % 3 {
			case 0:
				msgs = append(msgs, s.targetReport())
			case 1:
				msgs = append(msgs, SingleTargetReport{Target: sampleTarget(12345)})
			case 2:
				msgs = append(msgs, s.sensorPosition())
			}
		}
		cycle++

		for _, m := range msgs {
			if err := s.write(conn, m); err != nil {
				if !errors.Is(err, net.ErrClosed) {
					s.logger.Debug("write failed", slog.String("error", err.Error()))
				}
				cancel()
				wg.Wait()
				return
			}
		}
	}
}

func (s *Simulator) readLoop(conn net.Conn) {
	re := NewReassembler(s.rev.Layout)
	buf := make([]byte, 4096)
	for {
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		n, err := conn.Read(buf)
		if err != nil {
			return
		}
		for _, frame := range re.Push(buf[:n]) {
			d, err := DecodeMessage(s.rev.Layout, frame)
			if err != nil {
				continue
			}
			if ctrl, ok := d.Body.(SystemControl); ok {
				s.applyControl(ctrl)
			}
		}
	}
}

// applyControl moves the reported state toward what the C2 asked for.
func (s *Simulator) applyControl(ctrl SystemControl) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch ctrl.RadarState {
	case RadarStateStandby, RadarStateOperate:
		s.state = ctrl.RadarState
	}
	s.logger.Info("control received",
		slog.String("requested", ctrl.RadarState.String()),
		slog.String("state", s.state.String()),
	)
}

func (s *Simulator) write(conn net.Conn, m Message) error {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	data, err := s.rev.Marshal(SimulatorSourceID, seq, time.Now(), m)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(3 * time.Second))
	_, err = conn.Write(data)
	return err
}

func (s *Simulator) statusMessage() SystemStatus {
	s.mu.Lock()
	state := s.state
	s.mu.Unlock()

	return SystemStatus{
		State:           state,
		Mode:            ModeSearch,
		ErrorCode:       0,
		Temperature:     425, // 42.5 C
		Power:           PowerMain | PowerTransmitter | PowerReceiver | PowerProcessingUnit,
		AntennaPosition: 4500,
		Fields:          StatusHasTemperature | StatusHasPower | StatusHasAntenna,
	}
}

func (s *Simulator) targetReport() TargetReport {
	targets := []Target{
		sampleTarget(1001),
		{
			ID: 1002, Range: 8200, Azimuth: 135000, Elevation: 2500,
			Velocity: 8500, RCS: -1520, Class: ClassHelicopter, Confidence: 88,
		},
		{
			ID: 1003, Range: 3100, Azimuth: 270000, Elevation: 1200,
			Velocity: 1500, RCS: -2500, Class: ClassBird, Confidence: 65,
		},
	}
	return TargetReport{Count: uint32(len(targets)), Targets: targets}
}

func (s *Simulator) sensorPosition() SensorPosition {
	return SensorPosition{
		Latitude:  320851000, // 32.0851
		Longitude: 347818000, // 34.7818
		Altitude:  120500,
		Heading:   45000,
		Pitch:     2100,
		Roll:      -1300,
	}
}

func sampleTarget(id uint32) Target {
	return Target{
		ID:         id,
		Range:      15750,
		Azimuth:    127500,
		Elevation:  5200,
		Velocity:   8530,
		RCS:        -1250,
		Class:      ClassAircraft,
		Confidence: 85,
	}
}
