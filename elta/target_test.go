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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTrack() TargetData {
	return TargetData{
		ID:            77,
		DetectionTime: 1_000_000,
		UpdateTime:    1_000_250,
		Source:        1,
		Status:        TrackUpdate,
		Score:         90,
		Class:         ClassAircraft,
		Confidence:    85,
		Seniority:     12,
		RCS:           -8.5,
		Polar:         PolarPoint{Elevation: 0.05, Azimuth: math.Pi / 4, Range: 12500},
		Velocity:      220,
		Course:        1.2,
		PolarSigma:    PolarPoint{Elevation: 0.001, Azimuth: 0.002, Range: 5},

		Dimensionality: 3,
		CoordSystem:    1,
		Flags:          AvailPolarLocation | AvailPolarVelocity | AvailGeoLocation,

		GeoPosition:       GeoPoint{Latitude: 32.0851, Longitude: 34.7818, Altitude: 1200},
		CartesianPosition: Vector3{X: 8800, Y: 8800, Z: 1200},
		PolarVelocity:     Vector3{X: 0.01, Y: 0.02, Z: 220},

		Spare: make([]byte, 36),
	}
}

func samplePlot() PlotData {
	return PlotData{
		Time:         1_000_250,
		ID:           77,
		Polar:        PolarPoint{Elevation: 0.05, Azimuth: math.Pi / 4, Range: 12500},
		Doppler:      -35.5,
		SNR:          18.2,
		PolarSigma:   PolarPoint{Elevation: 0.001, Azimuth: 0.002, Range: 5},
		DopplerSigma: 0.4,
		Reserved:     make([]byte, 88),
	}
}

func TestTargetDataRecordSize(t *testing.T) {
	buf := appendTargetData(nil, sampleTrack())
	assert.Len(t, buf, TargetDataSize)

	buf = appendPlotData(nil, samplePlot())
	assert.Len(t, buf, PlotDataSize)
}

func TestSingleTargetExtendedRoundTrip(t *testing.T) {
	payload := appendTargetData(nil, sampleTrack())
	payload = appendPlotData(payload, samplePlot())
	require.Len(t, payload, ExtendedPayloadSize)

	d, err := DecodeMessage(LayoutRevD, frame(t, LayoutRevD, MsgSingleTargetExtended, payload))
	require.NoError(t, err)

	ext, ok := d.Body.(SingleTargetExtended)
	require.True(t, ok)
	assert.Equal(t, sampleTrack(), ext.Track)
	assert.Equal(t, samplePlot(), ext.Plot)
}

func TestSingleTargetExtendedShort(t *testing.T) {
	d, err := DecodeMessage(LayoutRevD,
		frame(t, LayoutRevD, MsgSingleTargetExtended, make([]byte, 100)))

	require.Error(t, err)
	assert.True(t, IsInsufficientPayload(err))
	assert.IsType(t, SingleTargetExtended{}, d.Body)
}

func TestAvailabilityFlagsGateMeaningNotBytes(t *testing.T) {
	track := sampleTrack()
	track.Flags = 0 // nothing advertised as valid

	payload := appendTargetData(nil, track)
	payload = appendPlotData(payload, samplePlot())

	d, err := DecodeMessage(LayoutRevD, frame(t, LayoutRevD, MsgSingleTargetExtended, payload))
	require.NoError(t, err)

	// The geo position bytes are still decoded positionally; the flags
	// only say whether the peer considers them meaningful.
	ext := d.Body.(SingleTargetExtended)
	assert.False(t, ext.Track.Flags.Has(AvailGeoLocation))
	assert.InDelta(t, 32.0851, ext.Track.GeoPosition.Latitude, 1e-9)
}

func TestDataStreamDecodesAsExtended(t *testing.T) {
	payload := appendTargetData(nil, sampleTrack())
	payload = appendPlotData(payload, samplePlot())

	d, err := DecodeMessage(LayoutRevD, frame(t, LayoutRevD, MsgDataStream, payload))
	require.NoError(t, err)
	assert.IsType(t, SingleTargetExtended{}, d.Body)
}

func TestSystemMotionRoundTrip(t *testing.T) {
	motion := SystemMotion{
		TimeTag:         5_000_000,
		Position:        GeoPoint{Latitude: 32.1, Longitude: 34.8, Altitude: 150},
		Attitude:        Attitude{Heading: 0.8, Pitch: 0.01, Roll: -0.02},
		Velocity:        Vector3{X: 1.5, Y: -0.5, Z: 0},
		AngularVelocity: Vector3{X: 0.001, Y: 0.002, Z: 0.003},
		Acceleration:    Vector3{X: 0.1, Y: 0.2, Z: -9.8},
		Spare:           make([]byte, SystemMotionSize-128),
	}

	payload := encodeSystemMotion(motion)
	require.Len(t, payload, SystemMotionSize)

	d, err := DecodeMessage(LayoutRevD, frame(t, LayoutRevD, MsgSystemMotion, payload))
	require.NoError(t, err)

	got, ok := d.Body.(SystemMotion)
	require.True(t, ok)
	assert.Equal(t, motion, got)
	assert.InDelta(t, 45.836, got.Attitude.HeadingDegrees(), 0.001)
}
