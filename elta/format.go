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
	"fmt"
	"strings"
)

// FormatTimeTag renders a millisecond-from-midnight time tag as
// HH:MM:SS.mmm.
func FormatTimeTag(ms uint32) string {
	total := ms / 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d",
		total/3600, (total%3600)/60, total%60, ms%1000)
}

// Format renders a decoded message for console or log output: a header
// block, the type-specific fields, and a hex dump of raw payloads where
// the bytes themselves are the interesting part.
func Format(d Decoded) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", MessageName(d.Header.MessageID))
	fmt.Fprintf(&b, "  source:   0x%08X\n", d.Header.SourceID)
	fmt.Fprintf(&b, "  length:   %d bytes", d.Header.MessageLength)
	if d.LengthMismatch {
		b.WriteString(" (mismatched)")
	}
	b.WriteByte('\n')
	fmt.Fprintf(&b, "  time tag: %s (%d ms)\n", FormatTimeTag(d.Header.TimeTag), d.Header.TimeTag)
	fmt.Fprintf(&b, "  sequence: %d\n", d.Header.SequenceNumber)

	switch body := d.Body.(type) {
	case KeepAlive:

	case Acknowledge:
		fmt.Fprintf(&b, "  acked sequence: %d\n", body.AckedSequence)

	case SystemControl:
		fmt.Fprintf(&b, "  requested state: %s\n", body.RadarState)
		fmt.Fprintf(&b, "  mission:         %d\n", body.MissionCategory)
		fmt.Fprintf(&b, "  frequency index: %d\n", body.FrequencyIndex)

	case SystemStatus:
		formatStatus(&b, body)

	case TargetReport:
		fmt.Fprintf(&b, "  targets: %d", body.Count)
		if body.Truncated {
			fmt.Fprintf(&b, " (%d present)", len(body.Targets))
		}
		b.WriteByte('\n')
		for _, t := range body.Targets {
			formatTarget(&b, t)
		}

	case SingleTargetReport:
		formatTarget(&b, body.Target)

	case SingleTargetExtended:
		td := body.Track
		fmt.Fprintf(&b, "  track %d: %s, score %d, confidence %d\n",
			td.ID, td.Status, td.Score, td.Confidence)
		fmt.Fprintf(&b, "    polar:  rng %.1f m  az %.3f°  el %.3f°\n",
			td.Polar.Range, td.Polar.AzimuthDegrees(), td.Polar.ElevationDegrees())
		if td.Flags.Has(AvailGeoLocation) {
			fmt.Fprintf(&b, "    geo:    %.6f°, %.6f°, %.1f m\n",
				td.GeoPosition.Latitude, td.GeoPosition.Longitude, td.GeoPosition.Altitude)
		}
		fmt.Fprintf(&b, "  plot %d: doppler %.2f m/s  snr %.1f dB\n",
			body.Plot.ID, body.Plot.Doppler, body.Plot.SNR)

	case SystemMotion:
		fmt.Fprintf(&b, "  position: %.6f°, %.6f°, %.1f m\n",
			body.Position.Latitude, body.Position.Longitude, body.Position.Altitude)
		fmt.Fprintf(&b, "  attitude: hdg %.2f°  pitch %.2f°  roll %.2f°\n",
			body.Attitude.HeadingDegrees(), body.Attitude.PitchDegrees(), body.Attitude.RollDegrees())

	case SensorPosition:
		fmt.Fprintf(&b, "  position: %.7f°, %.7f°, %.3f m\n",
			body.LatitudeDegrees(), body.LongitudeDegrees(), body.AltitudeMeters())
		fmt.Fprintf(&b, "  attitude: hdg %.3f°  pitch %.3f°  roll %.3f°\n",
			body.HeadingDegrees(), body.PitchDegrees(), body.RollDegrees())

	case Generic:
		fmt.Fprintf(&b, "  payload: %d bytes\n", len(body.Payload))
		b.WriteString(HexDump(body.Payload))
	}

	return b.String()
}

func formatStatus(b *strings.Builder, s SystemStatus) {
	if s.Partial {
		fmt.Fprintf(b, "  insufficient payload (%d bytes)\n", len(s.Raw))
		b.WriteString(HexDump(s.Raw))
		return
	}
	fmt.Fprintf(b, "  state: %s  mode: %s  error: 0x%04X\n", s.State, s.Mode, s.ErrorCode)
	if s.Fields&StatusHasTemperature != 0 {
		fmt.Fprintf(b, "  temperature: %.1f°C\n", s.TemperatureCelsius())
	}
	if s.Fields&StatusHasPower != 0 {
		fmt.Fprintf(b, "  power: %s\n", s.Power)
	}
	if s.Fields&StatusHasAntenna != 0 {
		fmt.Fprintf(b, "  antenna: %.2f°\n", s.AntennaDegrees())
	}
}

func formatTarget(b *strings.Builder, t Target) {
	fmt.Fprintf(b, "  target %d: %s  rng %.1f m  az %.3f°  el %.3f°  vel %.2f m/s  rcs %.2f dBsm\n",
		t.ID, t.Class, t.RangeMeters(), t.AzimuthDegrees(), t.ElevationDegrees(),
		t.VelocityMps(), t.RCSdBsm())
}

// HexDump renders data as a classic 16-bytes-per-line hex and ASCII
// dump, each line prefixed with its offset.
func HexDump(data []byte) string {
	var b strings.Builder
	for i := 0; i < len(data); i += 16 {
		end := i + 16
		if end > len(data) {
			end = len(data)
		}
		chunk := data[i:end]

		var hexPart strings.Builder
		var asciiPart strings.Builder
		for _, c := range chunk {
			fmt.Fprintf(&hexPart, "%02X ", c)
			if c >= 0x20 && c < 0x7F {
				asciiPart.WriteByte(c)
			} else {
				asciiPart.WriteByte('.')
			}
		}

		fmt.Fprintf(&b, "  %04X: %-48s |%s|\n", i, hexPart.String(), asciiPart.String())
	}
	return b.String()
}
