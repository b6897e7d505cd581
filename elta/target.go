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
	"math"
)

func degrees(rad float64) float64 { return rad * 180 / math.Pi }

// Target is the legacy 32-byte target record. All fields are fixed-point
// integers; the accessor methods apply the documented scale factors.
type Target struct {
	ID         uint32
	Range      uint32 // meters * 1000
	Azimuth    uint32 // degrees * 1000
	Elevation  uint32 // degrees * 1000
	Velocity   int32  // m/s * 100
	RCS        int32  // dBsm * 100
	Class      TargetClass
	Confidence int32 // percent
}

// RangeMeters returns the target range in meters.
func (t Target) RangeMeters() float64 { return float64(t.Range) / 1000 }

// AzimuthDegrees returns the azimuth in degrees.
func (t Target) AzimuthDegrees() float64 { return float64(t.Azimuth) / 1000 }

// ElevationDegrees returns the elevation in degrees.
func (t Target) ElevationDegrees() float64 { return float64(t.Elevation) / 1000 }

// VelocityMps returns the radial velocity in meters per second.
func (t Target) VelocityMps() float64 { return float64(t.Velocity) / 100 }

// RCSdBsm returns the radar cross-section in dBsm.
func (t Target) RCSdBsm() float64 { return float64(t.RCS) / 100 }

func decodeTarget(data []byte) Target {
	return Target{
		ID:         binary.LittleEndian.Uint32(data[0:]),
		Range:      binary.LittleEndian.Uint32(data[4:]),
		Azimuth:    binary.LittleEndian.Uint32(data[8:]),
		Elevation:  binary.LittleEndian.Uint32(data[12:]),
		Velocity:   int32(binary.LittleEndian.Uint32(data[16:])),
		RCS:        int32(binary.LittleEndian.Uint32(data[20:])),
		Class:      TargetClass(binary.LittleEndian.Uint32(data[24:])),
		Confidence: int32(binary.LittleEndian.Uint32(data[28:])),
	}
}

func appendTarget(buf []byte, t Target) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, t.ID)
	buf = binary.LittleEndian.AppendUint32(buf, t.Range)
	buf = binary.LittleEndian.AppendUint32(buf, t.Azimuth)
	buf = binary.LittleEndian.AppendUint32(buf, t.Elevation)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(t.Velocity))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(t.RCS))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(t.Class))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(t.Confidence))
	return buf
}

// AvailabilityFlags marks which fields of an extended track record carry
// meaningful values. The flagged fields are always physically present in
// the record; a clear bit means present-but-undefined, never absent.
type AvailabilityFlags uint8

const (
	AvailCartesianLocation AvailabilityFlags = 1 << iota
	AvailCartesianVelocity
	AvailPolarLocation
	AvailPolarVelocity
	AvailGeoLocation
	AvailAbsoluteVelocity
	AvailCartesianVariance
)

// Has returns true if the given flag bit is set.
func (f AvailabilityFlags) Has(flag AvailabilityFlags) bool { return f&flag != 0 }

// TargetData is the extended 332-byte track record. The record is always
// read in full; Flags only gates whether the optional triples should be
// trusted.
//
// Wire layout (little-endian):
//
//	  0  ID             u32
//	  4  DetectionTime  u64  ms
//	 12  UpdateTime     u64  ms
//	 20  Source         u32
//	 24  Status         u32
//	 28  Score          u32
//	 32  Class          u32
//	 36  Confidence     u32
//	 40  Seniority      u32
//	 44  RCS            f64  dBsm
//	 52  Polar          3*f64 (elevation rad, azimuth rad, range m)
//	 76  Velocity       f64  m/s
//	 84  Course         f64  rad
//	 92  PolarSigma     3*f64
//	116  Dimensionality u32
//	120  CoordSystem    u32
//	124  Flags          u8, 3 pad bytes
//	128  GeoPosition    3*f64 (lat deg, lon deg, alt m)
//	152  CartesianPosition      3*f64
//	176  CartesianVelocity      3*f64
//	200  CartesianSigma         3*f64
//	224  CartesianVelocitySigma 3*f64
//	248  PolarVelocity          3*f64
//	272  PolarVelocityVariance  3*f64
//	296  Spare          36 bytes
type TargetData struct {
	ID            uint32
	DetectionTime uint64
	UpdateTime    uint64
	Source        uint32
	Status        TrackStatus
	Score         uint32
	Class         TargetClass
	Confidence    uint32
	Seniority     uint32
	RCS           float64
	Polar         PolarPoint
	Velocity      float64
	Course        float64
	PolarSigma    PolarPoint

	Dimensionality uint32
	CoordSystem    uint32
	Flags          AvailabilityFlags

	GeoPosition            GeoPoint
	CartesianPosition      Vector3
	CartesianVelocity      Vector3
	CartesianSigma         Vector3
	CartesianVelocitySigma Vector3
	PolarVelocity          Vector3
	PolarVelocityVariance  Vector3

	Spare []byte
}

// CourseDegrees returns the track course in degrees.
func (t TargetData) CourseDegrees() float64 { return degrees(t.Course) }

// PlotData is the 176-byte plot record that accompanies an extended track.
//
// Wire layout (little-endian):
//
//	 0  Time        u64 ms
//	 8  ID          u32, 4 pad bytes
//	16  Polar       3*f64 (elevation rad, azimuth rad, range m)
//	40  Doppler     f64 m/s
//	48  SNR         f64 dB
//	56  PolarSigma  3*f64
//	80  DopplerSigma f64
//	88  Reserved    88 bytes
type PlotData struct {
	Time         uint64
	ID           uint32
	Polar        PolarPoint
	Doppler      float64
	SNR          float64
	PolarSigma   PolarPoint
	DopplerSigma float64
	Reserved     []byte
}

func getF64(data []byte, off int) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(data[off:]))
}

func getVector3(data []byte, off int) Vector3 {
	return Vector3{
		X: getF64(data, off),
		Y: getF64(data, off+8),
		Z: getF64(data, off+16),
	}
}

func getPolar(data []byte, off int) PolarPoint {
	return PolarPoint{
		Elevation: getF64(data, off),
		Azimuth:   getF64(data, off+8),
		Range:     getF64(data, off+16),
	}
}

func getGeo(data []byte, off int) GeoPoint {
	return GeoPoint{
		Latitude:  getF64(data, off),
		Longitude: getF64(data, off+8),
		Altitude:  getF64(data, off+16),
	}
}

// decodeTargetData decodes a 332-byte extended track record. The caller
// guarantees len(data) >= TargetDataSize.
func decodeTargetData(data []byte) TargetData {
	td := TargetData{
		ID:            binary.LittleEndian.Uint32(data[0:]),
		DetectionTime: binary.LittleEndian.Uint64(data[4:]),
		UpdateTime:    binary.LittleEndian.Uint64(data[12:]),
		Source:        binary.LittleEndian.Uint32(data[20:]),
		Status:        TrackStatus(binary.LittleEndian.Uint32(data[24:])),
		Score:         binary.LittleEndian.Uint32(data[28:]),
		Class:         TargetClass(binary.LittleEndian.Uint32(data[32:])),
		Confidence:    binary.LittleEndian.Uint32(data[36:]),
		Seniority:     binary.LittleEndian.Uint32(data[40:]),
		RCS:           getF64(data, 44),
		Polar:         getPolar(data, 52),
		Velocity:      getF64(data, 76),
		Course:        getF64(data, 84),
		PolarSigma:    getPolar(data, 92),

		Dimensionality: binary.LittleEndian.Uint32(data[116:]),
		CoordSystem:    binary.LittleEndian.Uint32(data[120:]),
		Flags:          AvailabilityFlags(data[124]),

		// Optional triples are always physically present; Flags only says
		// whether to trust them.
		GeoPosition:            getGeo(data, 128),
		CartesianPosition:      getVector3(data, 152),
		CartesianVelocity:      getVector3(data, 176),
		CartesianSigma:         getVector3(data, 200),
		CartesianVelocitySigma: getVector3(data, 224),
		PolarVelocity:          getVector3(data, 248),
		PolarVelocityVariance:  getVector3(data, 272),
	}
	td.Spare = make([]byte, 36)
	copy(td.Spare, data[296:332])
	return td
}

// decodePlotData decodes a 176-byte plot record. The caller guarantees
// len(data) >= PlotDataSize.
func decodePlotData(data []byte) PlotData {
	pd := PlotData{
		Time:         binary.LittleEndian.Uint64(data[0:]),
		ID:           binary.LittleEndian.Uint32(data[8:]),
		Polar:        getPolar(data, 16),
		Doppler:      getF64(data, 40),
		SNR:          getF64(data, 48),
		PolarSigma:   getPolar(data, 56),
		DopplerSigma: getF64(data, 80),
	}
	pd.Reserved = make([]byte, 88)
	copy(pd.Reserved, data[88:176])
	return pd
}

func appendF64(buf []byte, v float64) []byte {
	return binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
}

func appendVector3(buf []byte, v Vector3) []byte {
	buf = appendF64(buf, v.X)
	buf = appendF64(buf, v.Y)
	return appendF64(buf, v.Z)
}

func appendPolar(buf []byte, p PolarPoint) []byte {
	buf = appendF64(buf, p.Elevation)
	buf = appendF64(buf, p.Azimuth)
	return appendF64(buf, p.Range)
}

func appendGeo(buf []byte, g GeoPoint) []byte {
	buf = appendF64(buf, g.Latitude)
	buf = appendF64(buf, g.Longitude)
	return appendF64(buf, g.Altitude)
}

func appendTargetData(buf []byte, td TargetData) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, td.ID)
	buf = binary.LittleEndian.AppendUint64(buf, td.DetectionTime)
	buf = binary.LittleEndian.AppendUint64(buf, td.UpdateTime)
	buf = binary.LittleEndian.AppendUint32(buf, td.Source)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(td.Status))
	buf = binary.LittleEndian.AppendUint32(buf, td.Score)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(td.Class))
	buf = binary.LittleEndian.AppendUint32(buf, td.Confidence)
	buf = binary.LittleEndian.AppendUint32(buf, td.Seniority)
	buf = appendF64(buf, td.RCS)
	buf = appendPolar(buf, td.Polar)
	buf = appendF64(buf, td.Velocity)
	buf = appendF64(buf, td.Course)
	buf = appendPolar(buf, td.PolarSigma)
	buf = binary.LittleEndian.AppendUint32(buf, td.Dimensionality)
	buf = binary.LittleEndian.AppendUint32(buf, td.CoordSystem)
	buf = append(buf, byte(td.Flags), 0, 0, 0)
	buf = appendGeo(buf, td.GeoPosition)
	buf = appendVector3(buf, td.CartesianPosition)
	buf = appendVector3(buf, td.CartesianVelocity)
	buf = appendVector3(buf, td.CartesianSigma)
	buf = appendVector3(buf, td.CartesianVelocitySigma)
	buf = appendVector3(buf, td.PolarVelocity)
	buf = appendVector3(buf, td.PolarVelocityVariance)
	buf = appendSpare(buf, td.Spare, 36)
	return buf
}

func appendPlotData(buf []byte, pd PlotData) []byte {
	buf = binary.LittleEndian.AppendUint64(buf, pd.Time)
	buf = binary.LittleEndian.AppendUint32(buf, pd.ID)
	buf = append(buf, 0, 0, 0, 0)
	buf = appendPolar(buf, pd.Polar)
	buf = appendF64(buf, pd.Doppler)
	buf = appendF64(buf, pd.SNR)
	buf = appendPolar(buf, pd.PolarSigma)
	buf = appendF64(buf, pd.DopplerSigma)
	buf = appendSpare(buf, pd.Reserved, 88)
	return buf
}

// appendSpare appends exactly n bytes, copying from src and zero-filling
// the remainder.
func appendSpare(buf, src []byte, n int) []byte {
	block := make([]byte, n)
	copy(block, src)
	return append(buf, block...)
}
