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
	"encoding/binary"
	"fmt"
	"time"
)

// TimeTag converts a wall-clock time to the ICD time tag: milliseconds
// since local midnight.
func TimeTag(t time.Time) uint32 {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return uint32(t.Sub(midnight) / time.Millisecond)
}

// Marshal encodes a message body into complete wire bytes for this
// revision. The header is built fresh with the given sender identity and
// sequence number; MessageLength is always header + payload.
func (r Revision) Marshal(sourceID, seq uint32, t time.Time, body Message) ([]byte, error) {
	payload, err := r.EncodePayload(body)
	if err != nil {
		return nil, err
	}

	header := MessageHeader{
		SourceID:       sourceID,
		MessageID:      body.MessageID(),
		MessageLength:  uint32(HeaderSize + len(payload)),
		TimeTag:        TimeTag(t),
		SequenceNumber: seq,
	}

	out := r.Layout.EncodeHeader(header)
	return append(out, payload...), nil
}

// EncodePayload encodes the type-specific payload for a message body.
func (r Revision) EncodePayload(body Message) ([]byte, error) {
	switch m := body.(type) {
	case KeepAlive:
		return nil, nil

	case Acknowledge:
		return binary.LittleEndian.AppendUint32(nil, m.AckedSequence), nil

	case SystemControl:
		return r.encodeSystemControl(m), nil

	case SystemStatus:
		return encodeSystemStatus(m), nil

	case TargetReport:
		return encodeTargetReport(m), nil

	case SingleTargetReport:
		return appendTarget(make([]byte, 0, TargetSize), m.Target), nil

	case SingleTargetExtended:
		buf := make([]byte, 0, ExtendedPayloadSize)
		buf = appendTargetData(buf, m.Track)
		return appendPlotData(buf, m.Plot), nil

	case SystemMotion:
		return encodeSystemMotion(m), nil

	case SensorPosition:
		return encodeSensorPosition(m), nil

	case Generic:
		return cloneBytes(m.Payload), nil

	default:
		return nil, fmt.Errorf("elta: cannot encode message type %T", body)
	}
}

// encodeSystemControl builds the fixed control payload for this revision:
// state, mission category, HFL and radar control bytes, frequency index,
// then the revision's spare block (zero-filled past what the message
// carries).
func (r Revision) encodeSystemControl(m SystemControl) []byte {
	buf := make([]byte, 0, r.ControlPayloadSize())
	buf = binary.LittleEndian.AppendUint32(buf, uint32(m.RadarState))
	buf = binary.LittleEndian.AppendUint32(buf, m.MissionCategory)
	buf = append(buf, m.HFLControl[:]...)
	buf = append(buf, m.RadarControl[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, m.FrequencyIndex)
	return appendSpare(buf, m.Spare, r.ControlSpare)
}

func encodeSystemStatus(m SystemStatus) []byte {
	buf := make([]byte, 0, 24)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(m.State))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(m.Mode))
	buf = binary.LittleEndian.AppendUint32(buf, m.ErrorCode)

	// The optional tail is progressive: a later field can only be present
	// if every earlier one is.
	if m.Fields&StatusHasTemperature == 0 {
		return buf
	}
	buf = binary.LittleEndian.AppendUint32(buf, m.Temperature)
	if m.Fields&StatusHasPower == 0 {
		return buf
	}
	buf = binary.LittleEndian.AppendUint32(buf, uint32(m.Power))
	if m.Fields&StatusHasAntenna == 0 {
		return buf
	}
	return binary.LittleEndian.AppendUint32(buf, m.AntennaPosition)
}

func encodeTargetReport(m TargetReport) []byte {
	count := m.Count
	if count == 0 {
		count = uint32(len(m.Targets))
	}
	buf := make([]byte, 0, 4+len(m.Targets)*TargetSize)
	buf = binary.LittleEndian.AppendUint32(buf, count)
	for _, t := range m.Targets {
		buf = appendTarget(buf, t)
	}
	return buf
}

func encodeSystemMotion(m SystemMotion) []byte {
	buf := make([]byte, 0, SystemMotionSize)
	buf = binary.LittleEndian.AppendUint64(buf, m.TimeTag)
	buf = appendGeo(buf, m.Position)
	buf = appendF64(buf, m.Attitude.Heading)
	buf = appendF64(buf, m.Attitude.Pitch)
	buf = appendF64(buf, m.Attitude.Roll)
	buf = appendVector3(buf, m.Velocity)
	buf = appendVector3(buf, m.AngularVelocity)
	buf = appendVector3(buf, m.Acceleration)
	return appendSpare(buf, m.Spare, SystemMotionSize-128)
}

func encodeSensorPosition(m SensorPosition) []byte {
	buf := make([]byte, 0, SensorPositionSize)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(m.Latitude))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(m.Longitude))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(m.Altitude))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(m.Heading))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(m.Pitch))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(m.Roll))
	return buf
}
