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

// Reassembler splits a byte stream into complete messages. A message is
// exactly MessageLength bytes starting at its boundary; the reassembler
// buffers until the 20-byte header is available, then until the declared
// length is, and hands the rest to the next message.
//
// A declared length below the header size or above MaxFrameSize means
// the stream is out of sync. Recovery is to discard a single byte and
// try again, so a corrupted prefix costs at most one scan of the buffer
// and never a crash.
//
// Reassembler is not safe for concurrent use; each channel owns one.
type Reassembler struct {
	layout HeaderLayout
	buf    []byte

	desyncs uint64
}

// NewReassembler returns a reassembler for streams using the given
// header layout.
func NewReassembler(layout HeaderLayout) *Reassembler {
	return &Reassembler{layout: layout}
}

// Push appends stream bytes and returns every complete message now
// available, each as its own slice including the header.
func (r *Reassembler) Push(data []byte) [][]byte {
	r.buf = append(r.buf, data...)

	var frames [][]byte
	for {
		frame, ok := r.next()
		if !ok {
			return frames
		}
		frames = append(frames, frame)
	}
}

func (r *Reassembler) next() ([]byte, bool) {
	for len(r.buf) >= HeaderSize {
		declared, _ := r.layout.PeekLength(r.buf)
		length := int(declared)
		if length < HeaderSize || length > MaxFrameSize {
			// Desynchronized; slide one byte and rescan.
			r.buf = r.buf[1:]
			r.desyncs++
			continue
		}
		if len(r.buf) < length {
			return nil, false
		}

		frame := make([]byte, length)
		copy(frame, r.buf[:length])
		r.buf = r.buf[length:]
		return frame, true
	}
	return nil, false
}

// Pending returns the number of buffered bytes that do not yet form a
// complete message.
func (r *Reassembler) Pending() int { return len(r.buf) }

// Desyncs returns how many bytes have been discarded during
// resynchronization since the reassembler was created.
func (r *Reassembler) Desyncs() uint64 { return r.desyncs }

// Reset discards any partial frame. Used when a channel is torn down so
// a stale prefix never leaks into the next connection.
func (r *Reassembler) Reset() {
	r.buf = r.buf[:0]
}
