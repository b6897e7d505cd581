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

func TestMarshalKeepAlive(t *testing.T) {
	data, err := RevD.Marshal(1, 1, time.Now(), KeepAlive{})
	require.NoError(t, err)
	require.Len(t, data, HeaderSize, "keep alive is a bare header")

	h, err := LayoutRevD.DecodeHeader(data)
	require.NoError(t, err)
	assert.Equal(t, uint32(HeaderSize), h.MessageLength)
	assert.Equal(t, uint32(MsgKeepAlive), h.MessageID)
	assert.Equal(t, uint32(1), h.SequenceNumber)
}

func TestSystemControlPayloadSizePerRevision(t *testing.T) {
	ctrl := SystemControl{RadarState: RadarStateStandby, MissionCategory: 1}

	dPayload, err := RevD.EncodePayload(ctrl)
	require.NoError(t, err)
	assert.Len(t, dPayload, 40)

	ePayload, err := RevE.EncodePayload(ctrl)
	require.NoError(t, err)
	assert.Len(t, ePayload, 44)
}

func TestSystemControlRoundTrip(t *testing.T) {
	ctrl := SystemControl{
		RadarState:      RadarStateOperate,
		MissionCategory: 3,
		HFLControl:      [4]byte{1, 0, 1, 0},
		RadarControl:    [4]byte{1, 1, 0, 0},
		FrequencyIndex:  7,
		Spare:           make([]byte, RevD.ControlSpare),
	}

	data, err := RevD.Marshal(1, 5, time.Now(), ctrl)
	require.NoError(t, err)
	assert.Len(t, data, HeaderSize+RevD.ControlPayloadSize())

	d, err := DecodeMessage(RevD.Layout, data)
	require.NoError(t, err)

	got, ok := d.Body.(SystemControl)
	require.True(t, ok)
	assert.Equal(t, ctrl, got)
}

func TestSystemStatusRoundTrip(t *testing.T) {
	status := SystemStatus{
		State:           RadarStateOperate,
		Mode:            ModeSearchAndTrack,
		ErrorCode:       0,
		Temperature:     425,
		Power:           PowerMain | PowerTransmitter,
		AntennaPosition: 9000,
		Fields:          StatusHasTemperature | StatusHasPower | StatusHasAntenna,
	}

	data, err := RevD.Marshal(SimulatorSourceID, 9, time.Now(), status)
	require.NoError(t, err)

	d, err := DecodeMessage(RevD.Layout, data)
	require.NoError(t, err)
	assert.Equal(t, status, d.Body)
}

func TestSystemStatusEncodeStopsAtMissingField(t *testing.T) {
	status := SystemStatus{
		State:       RadarStateStandby,
		Temperature: 400,
		Fields:      StatusHasTemperature,
	}
	payload := encodeSystemStatus(status)
	assert.Len(t, payload, 16, "tail ends at the last present field")

	// A later field without the earlier ones cannot be expressed.
	status.Fields = StatusHasAntenna
	assert.Len(t, encodeSystemStatus(status), 12)
}

func TestTargetReportRoundTrip(t *testing.T) {
	report := TargetReport{
		Count: 2,
		Targets: []Target{
			{ID: 1, Range: 12500, Azimuth: 45000, Elevation: 5000, Velocity: 22000, RCS: -850, Class: ClassAircraft, Confidence: 92},
			{ID: 2, Range: 8200, Azimuth: 135000, Elevation: 2500, Velocity: 8500, RCS: -1520, Class: ClassHelicopter, Confidence: 88},
		},
	}

	data, err := RevD.Marshal(SimulatorSourceID, 2, time.Now(), report)
	require.NoError(t, err)

	d, err := DecodeMessage(RevD.Layout, data)
	require.NoError(t, err)
	assert.Equal(t, report, d.Body)
}

func TestSensorPositionRoundTrip(t *testing.T) {
	pos := SensorPosition{
		Latitude:  320851000,
		Longitude: 347818000,
		Altitude:  120500,
		Heading:   45000,
		Pitch:     2100,
		Roll:      -1300,
	}

	data, err := RevE.Marshal(SimulatorSourceID, 3, time.Now(), pos)
	require.NoError(t, err)

	d, err := DecodeMessage(RevE.Layout, data)
	require.NoError(t, err)
	assert.Equal(t, pos, d.Body)
}

func TestTimeTag(t *testing.T) {
	loc := time.UTC
	at := time.Date(2026, 8, 31, 1, 2, 3, 456e6, loc)
	want := uint32((1*3600+2*60+3)*1000 + 456)
	assert.Equal(t, want, TimeTag(at))

	midnight := time.Date(2026, 8, 31, 0, 0, 0, 0, loc)
	assert.Equal(t, uint32(0), TimeTag(midnight))
}

func TestFormatTimeTag(t *testing.T) {
	assert.Equal(t, "01:02:03.456", FormatTimeTag(3723456))
	assert.Equal(t, "00:00:00.000", FormatTimeTag(0))
}
