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
)

// MessageHeader is the fixed 20-byte header common to every message.
// All fields are little-endian unsigned 32-bit integers.
type MessageHeader struct {
	SourceID       uint32
	MessageID      uint32
	MessageLength  uint32 // total bytes, header + payload
	TimeTag        uint32 // milliseconds since local midnight
	SequenceNumber uint32
}

// PayloadLength returns the payload size the header declares.
func (h MessageHeader) PayloadLength() int {
	if h.MessageLength < HeaderSize {
		return 0
	}
	return int(h.MessageLength) - HeaderSize
}

// HeaderLayout selects the on-wire ordering of the five header fields.
// Two incompatible orderings exist across ICD revisions; the layout is a
// named codec configuration so either link peer can be supported.
type HeaderLayout int

const (
	// LayoutRevD is the catalog ordering:
	// sourceId, messageId, messageLength, timeTag, sequenceNumber.
	LayoutRevD HeaderLayout = iota

	// LayoutRevE is the later "corrected" ordering:
	// messageId, messageLength, timeTag, sequenceNumber, sourceId.
	LayoutRevE
)

func (l HeaderLayout) String() string {
	switch l {
	case LayoutRevD:
		return "rev-d"
	case LayoutRevE:
		return "rev-e"
	default:
		return fmt.Sprintf("layout(%d)", int(l))
	}
}

// DecodeHeader decodes the fixed header from the first 20 bytes of data.
func (l HeaderLayout) DecodeHeader(data []byte) (MessageHeader, error) {
	if len(data) < HeaderSize {
		return MessageHeader{}, ErrHeaderTooShort
	}

	var w [5]uint32
	for i := range w {
		w[i] = binary.LittleEndian.Uint32(data[i*4:])
	}

	switch l {
	case LayoutRevE:
		return MessageHeader{
			MessageID:      w[0],
			MessageLength:  w[1],
			TimeTag:        w[2],
			SequenceNumber: w[3],
			SourceID:       w[4],
		}, nil
	default:
		return MessageHeader{
			SourceID:       w[0],
			MessageID:      w[1],
			MessageLength:  w[2],
			TimeTag:        w[3],
			SequenceNumber: w[4],
		}, nil
	}
}

// EncodeHeader encodes the header into a fresh 20-byte slice.
func (l HeaderLayout) EncodeHeader(h MessageHeader) []byte {
	var w [5]uint32
	switch l {
	case LayoutRevE:
		w = [5]uint32{h.MessageID, h.MessageLength, h.TimeTag, h.SequenceNumber, h.SourceID}
	default:
		w = [5]uint32{h.SourceID, h.MessageID, h.MessageLength, h.TimeTag, h.SequenceNumber}
	}

	buf := make([]byte, HeaderSize)
	for i, v := range w {
		binary.LittleEndian.PutUint32(buf[i*4:], v)
	}
	return buf
}

// PeekLength extracts the declared message length from a partial buffer
// without decoding the full header. Used by the framer.
func (l HeaderLayout) PeekLength(data []byte) (uint32, bool) {
	var off int
	switch l {
	case LayoutRevE:
		off = 4
	default:
		off = 8
	}
	if len(data) < off+4 {
		return 0, false
	}
	return binary.LittleEndian.Uint32(data[off:]), true
}
