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
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrHeaderTooShort      = errors.New("elta: fewer than 20 bytes for header")
	ErrInsufficientPayload = errors.New("elta: payload shorter than decoder minimum")
	ErrUnknownRevision     = errors.New("elta: unknown protocol revision")
	ErrNotConnected        = errors.New("elta: not connected")
	ErrAlreadyConnected    = errors.New("elta: already connected")
	ErrConnectionClosed    = errors.New("elta: connection closed")
	ErrTimeout             = errors.New("elta: timeout")
)

// InsufficientPayloadError reports a payload shorter than the minimum the
// decoder for that message type requires. The raw payload bytes are kept
// for diagnostics; decoding is non-fatal and a partial value is still
// returned alongside this error.
type InsufficientPayloadError struct {
	ID  uint32
	Min int
	Raw []byte
}

func (e *InsufficientPayloadError) Error() string {
	return fmt.Sprintf("elta: %s payload too short: %d bytes, need %d",
		MessageName(e.ID), len(e.Raw), e.Min)
}

func (e *InsufficientPayloadError) Is(target error) bool {
	return target == ErrInsufficientPayload
}

// LengthMismatchError reports a header whose declared MessageLength does
// not match the bytes handed to the decoder. It is a warning condition:
// the message is still decoded from the available bytes.
type LengthMismatchError struct {
	ID       uint32
	Declared uint32
	Actual   int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("elta: %s declares %d bytes, got %d",
		MessageName(e.ID), e.Declared, e.Actual)
}

// IsInsufficientPayload returns true if the error reports a short payload.
func IsInsufficientPayload(err error) bool {
	return errors.Is(err, ErrInsufficientPayload)
}

// IsTimeout returns true if the error is a timeout error.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}
