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

// Package elta implements the wire protocol and session logic for the
// control/telemetry link between a command system (C2) and an
// ELM-2135-family radar controller (RC).
package elta

import "fmt"

// HeaderSize is the fixed size of the message header in bytes.
const HeaderSize = 20

// MaxFrameSize is the largest message length the framer will accept before
// treating the stream as desynchronized.
const MaxFrameSize = 65536

// Fixed record sizes from the ICD.
const (
	TargetSize          = 32
	TargetDataSize      = 332
	PlotDataSize        = 176
	ExtendedPayloadSize = TargetDataSize + PlotDataSize
	SystemMotionSize    = 172
	SensorPositionSize  = 24
)

// Message identifiers from the ICD catalog.
const (
	MsgKeepAlive            uint32 = 0xCEF00400
	MsgSystemControl        uint32 = 0xCEF00401
	MsgSystemMotion         uint32 = 0xCEF00402
	MsgSystemStatus         uint32 = 0xCEF00403
	MsgTargetReport         uint32 = 0xCEF00404
	MsgAcknowledge          uint32 = 0xCEF00405
	MsgSingleTargetReport   uint32 = 0xCEF00406
	MsgMaintenanceData      uint32 = 0xCEF00407
	MsgSingleTargetExtended uint32 = 0xCEF00408
	MsgBITStatusData        uint32 = 0xCEF00409
	MsgBITRequest           uint32 = 0xCEF0040A
	MsgResourceRequest      uint32 = 0xCEF0040B
	MsgMaintenanceRequest   uint32 = 0xCEF0040C
	MsgSetSensorPosition    uint32 = 0xCEF00418
	MsgGetSensorPosition    uint32 = 0xCEF00419
	MsgSensorPosition       uint32 = 0xCEF0041A

	// MsgDataStream is not in the ICD catalog; it is the identifier the TDP
	// simulator uses for its live track stream, carrying the same extended
	// target record pair as MsgSingleTargetExtended.
	MsgDataStream uint32 = 0x00000210
)

// RadarState is the RDR_STATE field carried by SystemControl and
// SystemStatus messages. Standby and Operate match the commanded values
// confirmed against the radar (2 and 4).
type RadarState uint32

const (
	RadarStateIdle        RadarState = 0
	RadarStateStartup     RadarState = 1
	RadarStateStandby     RadarState = 2
	RadarStateMaintenance RadarState = 3
	RadarStateOperate     RadarState = 4
	RadarStateError       RadarState = 5
)

func (s RadarState) String() string {
	names := map[RadarState]string{
		RadarStateIdle:        "idle",
		RadarStateStartup:     "startup",
		RadarStateStandby:     "standby",
		RadarStateMaintenance: "maintenance",
		RadarStateOperate:     "operate",
		RadarStateError:       "error",
	}
	if name, ok := names[s]; ok {
		return name
	}
	return fmt.Sprintf("radar-state(%d)", uint32(s))
}

// OperationalMode is the operating mode carried by SystemStatus messages.
type OperationalMode uint32

const (
	ModeStandby        OperationalMode = 0
	ModeSearch         OperationalMode = 1
	ModeTrack          OperationalMode = 2
	ModeSearchAndTrack OperationalMode = 3
	ModeMaintenance    OperationalMode = 4
	ModeTest           OperationalMode = 5
)

func (m OperationalMode) String() string {
	names := map[OperationalMode]string{
		ModeStandby:        "standby",
		ModeSearch:         "search",
		ModeTrack:          "track",
		ModeSearchAndTrack: "search-and-track",
		ModeMaintenance:    "maintenance",
		ModeTest:           "test",
	}
	if name, ok := names[m]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", uint32(m))
}

// PowerStatus is the power subsystem bitmask in SystemStatus messages.
type PowerStatus uint32

const (
	PowerMain           PowerStatus = 0x01
	PowerBackup         PowerStatus = 0x02
	PowerTransmitter    PowerStatus = 0x04
	PowerReceiver       PowerStatus = 0x08
	PowerAntennaDrive   PowerStatus = 0x10
	PowerProcessingUnit PowerStatus = 0x20
)

func (p PowerStatus) String() string {
	names := []struct {
		bit  PowerStatus
		name string
	}{
		{PowerMain, "main"},
		{PowerBackup, "backup"},
		{PowerTransmitter, "transmitter"},
		{PowerReceiver, "receiver"},
		{PowerAntennaDrive, "antenna-drive"},
		{PowerProcessingUnit, "processing-unit"},
	}
	out := ""
	for _, n := range names {
		if p&n.bit == 0 {
			continue
		}
		if out != "" {
			out += ","
		}
		out += n.name
	}
	if out == "" {
		return "off"
	}
	return out
}

// TargetClass is the classification field of legacy target records.
type TargetClass uint32

const (
	ClassUnknown    TargetClass = 0
	ClassAircraft   TargetClass = 1
	ClassHelicopter TargetClass = 2
	ClassBird       TargetClass = 3
	ClassClutter    TargetClass = 4
	ClassWeather    TargetClass = 5
)

func (c TargetClass) String() string {
	names := map[TargetClass]string{
		ClassUnknown:    "unknown",
		ClassAircraft:   "aircraft",
		ClassHelicopter: "helicopter",
		ClassBird:       "bird",
		ClassClutter:    "clutter",
		ClassWeather:    "weather",
	}
	if name, ok := names[c]; ok {
		return name
	}
	return fmt.Sprintf("class(%d)", uint32(c))
}

// TrackStatus is the lifecycle state of an extended track record.
type TrackStatus uint32

const (
	TrackNew         TrackStatus = 0
	TrackUpdate      TrackStatus = 1
	TrackDelete      TrackStatus = 2
	TrackExtrapolate TrackStatus = 3
)

func (s TrackStatus) String() string {
	names := map[TrackStatus]string{
		TrackNew:         "new",
		TrackUpdate:      "update",
		TrackDelete:      "delete",
		TrackExtrapolate: "extrapolate",
	}
	if name, ok := names[s]; ok {
		return name
	}
	return fmt.Sprintf("track-status(%d)", uint32(s))
}

// Message is a decoded message body. Concrete types are the per-identifier
// variants plus Generic for identifiers outside the catalog.
type Message interface {
	MessageID() uint32
}

// KeepAlive is the heartbeat message. It carries no payload.
type KeepAlive struct{}

func (KeepAlive) MessageID() uint32 { return MsgKeepAlive }

// SystemControl commands a radar state transition. The spare block size
// depends on the protocol revision; see Revision.
type SystemControl struct {
	RadarState      RadarState
	MissionCategory uint32
	HFLControl      [4]byte
	RadarControl    [4]byte
	FrequencyIndex  uint32
	Spare           []byte
}

func (SystemControl) MessageID() uint32 { return MsgSystemControl }

// StatusFields records which optional tail fields were physically present
// in a SystemStatus payload.
type StatusFields uint8

const (
	StatusHasTemperature StatusFields = 1 << iota
	StatusHasPower
	StatusHasAntenna
)

// SystemStatus is the periodic radar health report. The tail fields are
// progressive: their presence depends only on how many payload bytes the
// radar sent, reported in Fields.
type SystemStatus struct {
	State     RadarState
	Mode      OperationalMode
	ErrorCode uint32

	Temperature     uint32 // deci-degrees Celsius
	Power           PowerStatus
	AntennaPosition uint32 // centi-degrees

	Fields StatusFields

	// Partial is set when fewer than the 12 mandatory bytes were present;
	// State, Mode and ErrorCode are then undefined and Raw holds the bytes.
	Partial bool
	Raw     []byte
}

func (SystemStatus) MessageID() uint32 { return MsgSystemStatus }

// TemperatureCelsius returns the system temperature in degrees Celsius.
func (s SystemStatus) TemperatureCelsius() float64 { return float64(s.Temperature) / 10 }

// AntennaDegrees returns the antenna position in degrees.
func (s SystemStatus) AntennaDegrees() float64 { return float64(s.AntennaPosition) / 100 }

// Acknowledge confirms receipt of a message, echoing its sequence number.
type Acknowledge struct {
	AckedSequence uint32
}

func (Acknowledge) MessageID() uint32 { return MsgAcknowledge }

// TargetReport carries a declared count of legacy target records.
// Truncated is set when fewer complete records were present than declared.
type TargetReport struct {
	Count     uint32
	Targets   []Target
	Truncated bool
}

func (TargetReport) MessageID() uint32 { return MsgTargetReport }

// SingleTargetReport carries one legacy target record.
type SingleTargetReport struct {
	Target Target
}

func (SingleTargetReport) MessageID() uint32 { return MsgSingleTargetReport }

// SingleTargetExtended carries one extended track record and its
// originating plot.
type SingleTargetExtended struct {
	Track TargetData
	Plot  PlotData
}

func (SingleTargetExtended) MessageID() uint32 { return MsgSingleTargetExtended }

// SystemMotion reports platform position, attitude and kinematics.
// Angular fields are radians on the wire; degree accessors are provided
// for display.
type SystemMotion struct {
	TimeTag         uint64 // milliseconds
	Position        GeoPoint
	Attitude        Attitude
	Velocity        Vector3 // north/east/down, m/s
	AngularVelocity Vector3 // roll/pitch/yaw rates, rad/s
	Acceleration    Vector3 // m/s^2
	Spare           []byte
}

func (SystemMotion) MessageID() uint32 { return MsgSystemMotion }

// SensorPosition reports the surveyed sensor location and orientation as
// fixed-point integers.
type SensorPosition struct {
	Latitude  int32 // degrees * 1e7
	Longitude int32 // degrees * 1e7
	Altitude  int32 // millimeters
	Heading   int32 // millidegrees
	Pitch     int32 // millidegrees
	Roll      int32 // millidegrees
}

func (SensorPosition) MessageID() uint32 { return MsgSensorPosition }

// LatitudeDegrees returns the latitude in degrees.
func (p SensorPosition) LatitudeDegrees() float64 { return float64(p.Latitude) / 1e7 }

// LongitudeDegrees returns the longitude in degrees.
func (p SensorPosition) LongitudeDegrees() float64 { return float64(p.Longitude) / 1e7 }

// AltitudeMeters returns the altitude in meters.
func (p SensorPosition) AltitudeMeters() float64 { return float64(p.Altitude) / 1000 }

// HeadingDegrees returns the heading in degrees.
func (p SensorPosition) HeadingDegrees() float64 { return float64(p.Heading) / 1000 }

// PitchDegrees returns the pitch in degrees.
func (p SensorPosition) PitchDegrees() float64 { return float64(p.Pitch) / 1000 }

// RollDegrees returns the roll in degrees.
func (p SensorPosition) RollDegrees() float64 { return float64(p.Roll) / 1000 }

// Generic is the fallback body for identifiers outside the catalog.
// Unknown identifiers are expected on this link and are not an error.
type Generic struct {
	ID      uint32
	Payload []byte
}

func (g Generic) MessageID() uint32 { return g.ID }

// Vector3 is a three-component vector of 64-bit floats.
type Vector3 struct {
	X, Y, Z float64
}

// GeoPoint is a geodetic position in degrees and meters.
type GeoPoint struct {
	Latitude  float64
	Longitude float64
	Altitude  float64
}

// PolarPoint is a polar position relative to the sensor.
type PolarPoint struct {
	Elevation float64 // radians
	Azimuth   float64 // radians
	Range     float64 // meters
}

// Attitude is a heading/pitch/roll triple in radians.
type Attitude struct {
	Heading float64
	Pitch   float64
	Roll    float64
}

// HeadingDegrees returns the heading in degrees.
func (a Attitude) HeadingDegrees() float64 { return degrees(a.Heading) }

// PitchDegrees returns the pitch in degrees.
func (a Attitude) PitchDegrees() float64 { return degrees(a.Pitch) }

// RollDegrees returns the roll in degrees.
func (a Attitude) RollDegrees() float64 { return degrees(a.Roll) }

// ElevationDegrees returns the elevation in degrees.
func (p PolarPoint) ElevationDegrees() float64 { return degrees(p.Elevation) }

// AzimuthDegrees returns the azimuth in degrees.
func (p PolarPoint) AzimuthDegrees() float64 { return degrees(p.Azimuth) }
