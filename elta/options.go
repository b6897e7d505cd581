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
	"log/slog"
	"time"
)

// clientOptions holds configuration for the link client
type clientOptions struct {
	// Addressing
	network      string
	localAddress string

	// Protocol revision
	revision Revision

	// Session cadence
	sourceID         uint32
	missionCategory  uint32
	standbyThreshold int
	operateThreshold int
	ackEvery         int

	// Timing
	keepAliveInterval time.Duration
	readTimeout       time.Duration
	connectTimeout    time.Duration

	// Logging
	logger *slog.Logger
}

// defaultClientOptions returns the default client options
func defaultClientOptions() *clientOptions {
	return &clientOptions{
		network:           "tcp",
		revision:          RevD,
		sourceID:          DefaultSourceID,
		standbyThreshold:  DefaultStandbyThreshold,
		operateThreshold:  DefaultOperateThreshold,
		ackEvery:          DefaultAckEvery,
		keepAliveInterval: time.Second,
		readTimeout:       500 * time.Millisecond,
		connectTimeout:    5 * time.Second,
		logger:            slog.Default(),
	}
}

// Option is a functional option for configuring the client
type Option func(*clientOptions)

// WithNetwork selects the transport network, "tcp" or "udp"
func WithNetwork(network string) Option {
	return func(o *clientOptions) {
		o.network = network
	}
}

// WithLocalAddress sets the local address to bind to
func WithLocalAddress(addr string) Option {
	return func(o *clientOptions) {
		o.localAddress = addr
	}
}

// WithRevision selects the protocol revision, which fixes both the
// header field ordering and the control payload size
func WithRevision(rev Revision) Option {
	return func(o *clientOptions) {
		o.revision = rev
	}
}

// WithSourceID sets the source identifier stamped into outbound headers
func WithSourceID(id uint32) Option {
	return func(o *clientOptions) {
		o.sourceID = id
	}
}

// WithMissionCategory sets the mission category carried in control messages
func WithMissionCategory(category uint32) Option {
	return func(o *clientOptions) {
		o.missionCategory = category
	}
}

// WithStandbyThreshold sets the status count at which standby is requested
func WithStandbyThreshold(n int) Option {
	return func(o *clientOptions) {
		o.standbyThreshold = n
	}
}

// WithOperateThreshold sets the status count at which operate is requested
func WithOperateThreshold(n int) Option {
	return func(o *clientOptions) {
		o.operateThreshold = n
	}
}

// WithAckEvery acknowledges every Nth received status message
func WithAckEvery(n int) Option {
	return func(o *clientOptions) {
		o.ackEvery = n
	}
}

// WithKeepAliveInterval sets the keep-alive cadence
func WithKeepAliveInterval(d time.Duration) Option {
	return func(o *clientOptions) {
		o.keepAliveInterval = d
	}
}

// WithReadTimeout sets the receive poll timeout; it bounds how long the
// read loop blocks between keep-alive ticks
func WithReadTimeout(d time.Duration) Option {
	return func(o *clientOptions) {
		o.readTimeout = d
	}
}

// WithConnectTimeout sets the dial timeout
func WithConnectTimeout(d time.Duration) Option {
	return func(o *clientOptions) {
		o.connectTimeout = d
	}
}

// WithLogger sets the logger for the client
func WithLogger(logger *slog.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}
