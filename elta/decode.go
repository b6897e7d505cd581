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

import "encoding/binary"

// Decoded is a fully decoded message: header plus the type-specific body.
// LengthMismatch flags a header whose declared length disagreed with the
// bytes actually decoded; the body is still produced from what was there.
type Decoded struct {
	Header         MessageHeader
	Body           Message
	LengthMismatch bool
}

type payloadDecoder func(payload []byte) (Message, error)

type registryEntry struct {
	name   string
	decode payloadDecoder
}

// registry maps catalog message identifiers to their names and decoders.
// Identifiers outside the table decode as Generic; that is expected
// behavior on this link, not an error.
var registry = map[uint32]registryEntry{
	MsgKeepAlive:            {"Keep Alive", decodeKeepAlive},
	MsgSystemControl:        {"System Control", decodeSystemControl},
	MsgSystemMotion:         {"System Motion", decodeSystemMotion},
	MsgSystemStatus:         {"System Status", decodeSystemStatus},
	MsgTargetReport:         {"Target Report", decodeTargetReport},
	MsgAcknowledge:          {"Acknowledge", decodeAcknowledge},
	MsgSingleTargetReport:   {"Single Target Report", decodeSingleTargetReport},
	MsgMaintenanceData:      {"Maintenance Data", nil},
	MsgSingleTargetExtended: {"Single Target Extended", decodeSingleTargetExtended},
	MsgBITStatusData:        {"BIT Status Data", nil},
	MsgBITRequest:           {"BIT Request", nil},
	MsgResourceRequest:      {"Resource Request", nil},
	MsgMaintenanceRequest:   {"Maintenance Request", nil},
	MsgSetSensorPosition:    {"Set Sensor Position", nil},
	MsgGetSensorPosition:    {"Get Sensor Position", nil},
	MsgSensorPosition:       {"Sensor Position", decodeSensorPosition},
	MsgDataStream:           {"Data Stream", decodeSingleTargetExtended},
}

// MessageName returns the catalog name for a message identifier, or a
// hex-formatted fallback for identifiers outside the catalog.
func MessageName(id uint32) string {
	if e, ok := registry[id]; ok {
		return e.name
	}
	return "Unknown (0x" + hexUpper32(id) + ")"
}

func hexUpper32(v uint32) string {
	const digits = "0123456789ABCDEF"
	var b [8]byte
	for i := 7; i >= 0; i-- {
		b[i] = digits[v&0xF]
		v >>= 4
	}
	return string(b[:])
}

// DecodeMessage decodes one complete message. It is a pure function: no
// state, no side effects. Unknown identifiers decode as Generic. A short
// payload yields a partial body plus an InsufficientPayloadError; the
// caller decides whether the partial value is still useful.
func DecodeMessage(layout HeaderLayout, data []byte) (Decoded, error) {
	header, err := layout.DecodeHeader(data)
	if err != nil {
		return Decoded{}, err
	}

	d := Decoded{Header: header}
	payload := data[HeaderSize:]

	if int(header.MessageLength) != len(data) {
		d.LengthMismatch = true
	}

	entry, ok := registry[header.MessageID]
	if !ok || entry.decode == nil {
		d.Body = Generic{ID: header.MessageID, Payload: cloneBytes(payload)}
		return d, nil
	}

	body, err := entry.decode(payload)
	if body == nil {
		body = Generic{ID: header.MessageID, Payload: cloneBytes(payload)}
	}
	d.Body = body
	if err != nil {
		if ipe, ok := err.(*InsufficientPayloadError); ok && ipe.ID == 0 {
			ipe.ID = header.MessageID
		}
		return d, err
	}
	return d, nil
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

func decodeKeepAlive(payload []byte) (Message, error) {
	// Keep Alive carries no payload; anything trailing is ignored.
	return KeepAlive{}, nil
}

func decodeAcknowledge(payload []byte) (Message, error) {
	if len(payload) < 4 {
		return Acknowledge{}, &InsufficientPayloadError{ID: MsgAcknowledge, Min: 4, Raw: cloneBytes(payload)}
	}
	return Acknowledge{AckedSequence: binary.LittleEndian.Uint32(payload)}, nil
}

// decodeSystemStatus reads fields in order, extending the result only as
// far as the payload allows: 12 bytes gives state/mode/error, 16 adds
// temperature, 20 adds the power bitmask, 24 adds antenna position.
func decodeSystemStatus(payload []byte) (Message, error) {
	if len(payload) < 12 {
		st := SystemStatus{Partial: true, Raw: cloneBytes(payload)}
		return st, &InsufficientPayloadError{ID: MsgSystemStatus, Min: 12, Raw: cloneBytes(payload)}
	}

	st := SystemStatus{
		State:     RadarState(binary.LittleEndian.Uint32(payload[0:])),
		Mode:      OperationalMode(binary.LittleEndian.Uint32(payload[4:])),
		ErrorCode: binary.LittleEndian.Uint32(payload[8:]),
	}
	if len(payload) >= 16 {
		st.Temperature = binary.LittleEndian.Uint32(payload[12:])
		st.Fields |= StatusHasTemperature
	}
	if len(payload) >= 20 {
		st.Power = PowerStatus(binary.LittleEndian.Uint32(payload[16:]))
		st.Fields |= StatusHasPower
	}
	if len(payload) >= 24 {
		st.AntennaPosition = binary.LittleEndian.Uint32(payload[20:])
		st.Fields |= StatusHasAntenna
	}
	return st, nil
}

// decodeSystemControl tolerates the shorter control payloads older
// revisions produced: only state and mission category are mandatory.
func decodeSystemControl(payload []byte) (Message, error) {
	if len(payload) < 8 {
		return SystemControl{Spare: cloneBytes(payload)},
			&InsufficientPayloadError{ID: MsgSystemControl, Min: 8, Raw: cloneBytes(payload)}
	}

	sc := SystemControl{
		RadarState:      RadarState(binary.LittleEndian.Uint32(payload[0:])),
		MissionCategory: binary.LittleEndian.Uint32(payload[4:]),
	}
	if len(payload) >= 20 {
		copy(sc.HFLControl[:], payload[8:12])
		copy(sc.RadarControl[:], payload[12:16])
		sc.FrequencyIndex = binary.LittleEndian.Uint32(payload[16:])
		sc.Spare = cloneBytes(payload[20:])
	} else {
		sc.Spare = cloneBytes(payload[8:])
	}
	return sc, nil
}

// decodeTargetReport reads the declared count, then as many complete
// 32-byte records as are actually present. A declared count exceeding the
// available records marks the result truncated instead of failing.
func decodeTargetReport(payload []byte) (Message, error) {
	if len(payload) < 4 {
		return TargetReport{}, &InsufficientPayloadError{ID: MsgTargetReport, Min: 4, Raw: cloneBytes(payload)}
	}

	count := binary.LittleEndian.Uint32(payload)
	avail := (len(payload) - 4) / TargetSize

	n := int(count)
	if n > avail {
		n = avail
	}

	tr := TargetReport{Count: count, Truncated: int(count) > avail}
	tr.Targets = make([]Target, 0, n)
	for i := 0; i < n; i++ {
		off := 4 + i*TargetSize
		tr.Targets = append(tr.Targets, decodeTarget(payload[off:off+TargetSize]))
	}
	return tr, nil
}

func decodeSingleTargetReport(payload []byte) (Message, error) {
	if len(payload) < TargetSize {
		return SingleTargetReport{}, &InsufficientPayloadError{ID: MsgSingleTargetReport, Min: TargetSize, Raw: cloneBytes(payload)}
	}
	return SingleTargetReport{Target: decodeTarget(payload)}, nil
}

// decodeSingleTargetExtended requires the full 508-byte record pair. All
// 332 track bytes are decoded positionally regardless of the availability
// flags; the flags only gate whether the optional triples are meaningful.
func decodeSingleTargetExtended(payload []byte) (Message, error) {
	if len(payload) < ExtendedPayloadSize {
		return SingleTargetExtended{},
			&InsufficientPayloadError{Min: ExtendedPayloadSize, Raw: cloneBytes(payload)}
	}
	return SingleTargetExtended{
		Track: decodeTargetData(payload[:TargetDataSize]),
		Plot:  decodePlotData(payload[TargetDataSize : TargetDataSize+PlotDataSize]),
	}, nil
}

func decodeSystemMotion(payload []byte) (Message, error) {
	if len(payload) < SystemMotionSize {
		return SystemMotion{}, &InsufficientPayloadError{ID: MsgSystemMotion, Min: SystemMotionSize, Raw: cloneBytes(payload)}
	}

	m := SystemMotion{
		TimeTag:  binary.LittleEndian.Uint64(payload[0:]),
		Position: getGeo(payload, 8),
		Attitude: Attitude{
			Heading: getF64(payload, 32),
			Pitch:   getF64(payload, 40),
			Roll:    getF64(payload, 48),
		},
		Velocity:        getVector3(payload, 56),
		AngularVelocity: getVector3(payload, 80),
		Acceleration:    getVector3(payload, 104),
	}
	m.Spare = cloneBytes(payload[128:SystemMotionSize])
	return m, nil
}

func decodeSensorPosition(payload []byte) (Message, error) {
	if len(payload) < SensorPositionSize {
		return SensorPosition{}, &InsufficientPayloadError{ID: MsgSensorPosition, Min: SensorPositionSize, Raw: cloneBytes(payload)}
	}
	return SensorPosition{
		Latitude:  int32(binary.LittleEndian.Uint32(payload[0:])),
		Longitude: int32(binary.LittleEndian.Uint32(payload[4:])),
		Altitude:  int32(binary.LittleEndian.Uint32(payload[8:])),
		Heading:   int32(binary.LittleEndian.Uint32(payload[12:])),
		Pitch:     int32(binary.LittleEndian.Uint32(payload[16:])),
		Roll:      int32(binary.LittleEndian.Uint32(payload[20:])),
	}, nil
}
