package elta

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oraqon/elta/elta/internal/transport"
)

// Transport is the byte-level channel under a client. Implementations
// carry opaque chunks; message framing happens above them.
type Transport interface {
	Open(ctx context.Context) error
	Close() error
	Send(ctx context.Context, data []byte) error
	ReceiveWithTimeout(timeout time.Duration) ([]byte, error)
	IsClosed() bool
	LocalAddr() net.Addr
}

// StatusHandler is called for every decoded status message
type StatusHandler func(header MessageHeader, status SystemStatus)

// TargetHandler is called for every decoded target record, from plain
// and extended reports alike
type TargetHandler func(header MessageHeader, target Target)

// MessageHandler is called for every decoded message after the session
// has processed it
type MessageHandler func(d Decoded)

// Client drives one channel to an RC endpoint: it owns the transport,
// the reassembler and the session, and runs the read and keep-alive
// cadence in a single loop so session state never needs a lock.
type Client struct {
	opts      *clientOptions
	transport Transport

	session    *Session
	reassembly *Reassembler

	running atomic.Bool

	handlerMu sync.RWMutex
	onStatus  StatusHandler
	onTarget  TargetHandler
	onMessage MessageHandler

	// Metrics
	metrics *Metrics

	// Logger
	logger *slog.Logger

	// Run loop goroutine
	loopCtx    context.Context
	loopCancel context.CancelFunc
	loopDone   chan struct{}

	lastStatus time.Time
}

// NewClient creates a client for the RC at the given address
func NewClient(remoteAddr string, opts ...Option) (*Client, error) {
	options := defaultClientOptions()
	for _, opt := range opts {
		opt(options)
	}

	c := &Client{
		opts: options,
		session: NewSession(SessionConfig{
			SourceID:         options.sourceID,
			StandbyThreshold: options.standbyThreshold,
			OperateThreshold: options.operateThreshold,
			AckEvery:         options.ackEvery,
			MissionCategory:  options.missionCategory,
		}),
		reassembly: NewReassembler(options.revision.Layout),
		metrics:    NewMetrics(),
		logger:     options.logger,
	}

	switch options.network {
	case "tcp":
		c.transport = transport.NewTCPTransport(remoteAddr, options.localAddress)
	case "udp":
		c.transport = transport.NewUDPTransport(remoteAddr, options.localAddress)
	default:
		return nil, fmt.Errorf("unsupported network %q", options.network)
	}

	return c, nil
}

// OnStatus registers a handler for status messages
func (c *Client) OnStatus(h StatusHandler) {
	c.handlerMu.Lock()
	c.onStatus = h
	c.handlerMu.Unlock()
}

// OnTarget registers a handler for target records
func (c *Client) OnTarget(h TargetHandler) {
	c.handlerMu.Lock()
	c.onTarget = h
	c.handlerMu.Unlock()
}

// OnMessage registers a handler for all decoded messages
func (c *Client) OnMessage(h MessageHandler) {
	c.handlerMu.Lock()
	c.onMessage = h
	c.handlerMu.Unlock()
}

// Connect opens the transport and starts the session loop
func (c *Client) Connect(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return ErrAlreadyConnected
	}

	c.metrics.ConnectAttempts.Inc()

	openCtx, cancel := context.WithTimeout(ctx, c.opts.connectTimeout)
	defer cancel()
	if err := c.transport.Open(openCtx); err != nil {
		c.running.Store(false)
		c.metrics.ConnectFailures.Inc()
		return fmt.Errorf("open transport: %w", err)
	}

	if err := c.session.Start(); err != nil {
		c.running.Store(false)
		_ = c.transport.Close()
		return err
	}

	c.loopCtx, c.loopCancel = context.WithCancel(context.Background())
	c.loopDone = make(chan struct{})
	go c.run()

	c.metrics.ConnectSuccesses.Inc()
	c.metrics.ActiveChannels.Inc()

	c.logger.Info("connected",
		slog.String("local_addr", c.transport.LocalAddr().String()),
		slog.String("revision", c.opts.revision.Name),
	)

	return nil
}

// Close stops the session loop and closes the transport. Any partial
// frame in the reassembler is discarded.
func (c *Client) Close() error {
	if !c.running.CompareAndSwap(true, false) {
		return nil
	}

	c.metrics.Disconnects.Inc()
	c.metrics.ActiveChannels.Dec()

	if c.loopCancel != nil {
		c.loopCancel()
		<-c.loopDone
	}

	if err := c.transport.Close(); err != nil {
		return fmt.Errorf("close transport: %w", err)
	}

	c.logger.Info("disconnected",
		slog.String("link_state", c.session.State().String()),
	)
	return nil
}

// channelLost tears the client down from inside the run loop when the
// peer closes the channel. If Close raced us and already flipped the
// running flag, the teardown is already underway.
func (c *Client) channelLost() {
	if !c.running.CompareAndSwap(true, false) {
		return
	}
	c.metrics.Disconnects.Inc()
	c.metrics.ActiveChannels.Dec()
	_ = c.transport.Close()
}

// State returns the current link state
func (c *Client) State() LinkState {
	if !c.running.Load() {
		return StateDisconnected
	}
	return c.session.State()
}

// Metrics returns the client metrics
func (c *Client) Metrics() *Metrics {
	return c.metrics
}

// run is the single loop that owns the session: it interleaves timed
// receives with the keep-alive ticker, so the 1-second cadence holds
// even while waiting for inbound data.
func (c *Client) run() {
	defer close(c.loopDone)
	defer func() {
		c.session.Reset()
		c.reassembly.Reset()
	}()

	ticker := time.NewTicker(c.opts.keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.loopCtx.Done():
			return
		case <-ticker.C:
			c.sendAll(c.session.Heartbeat())
		default:
		}

		data, err := c.transport.ReceiveWithTimeout(c.opts.readTimeout)
		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				continue
			}
			if c.loopCtx.Err() != nil || c.transport.IsClosed() {
				return
			}
			// EOF or a hard socket error: the channel is gone. Returning
			// runs the deferred session and reassembler resets.
			c.logger.Warn("channel lost",
				slog.String("link_state", c.session.State().String()),
				slog.String("error", err.Error()),
			)
			c.channelLost()
			return
		}

		c.metrics.BytesReceived.Add(int64(len(data)))
		c.metrics.RecordActivity()

		desyncsBefore := c.reassembly.Desyncs()
		frames := c.reassembly.Push(data)
		if d := c.reassembly.Desyncs() - desyncsBefore; d > 0 {
			c.metrics.FramingDesyncs.Add(int64(d))
			c.logger.Warn("stream resynchronized", slog.Uint64("bytes_discarded", d))
		}

		for _, frame := range frames {
			c.handleFrame(frame)
		}
	}
}

// handleFrame decodes one complete message, feeds the session and sends
// whatever the session asks for.
func (c *Client) handleFrame(frame []byte) {
	d, err := DecodeMessage(c.opts.revision.Layout, frame)
	if err != nil {
		c.metrics.DecodeErrors.Inc()
		c.logger.Warn("decode error",
			slog.String("message", MessageName(d.Header.MessageID)),
			slog.Uint64("sequence", uint64(d.Header.SequenceNumber)),
			slog.String("error", err.Error()),
		)
		// Short payloads still carry a header; the session counts them.
	}

	c.metrics.MessagesReceived.Inc()
	if d.LengthMismatch {
		c.metrics.LengthMismatches.Inc()
	}

	c.observe(d)
	c.sendAll(c.session.Handle(d))
	c.dispatch(d)
}

// observe updates inbound metrics for a decoded message
func (c *Client) observe(d Decoded) {
	switch body := d.Body.(type) {
	case SystemStatus:
		c.metrics.StatusesReceived.Inc()
		now := time.Now()
		if !c.lastStatus.IsZero() {
			c.metrics.StatusInterval.Record(now.Sub(c.lastStatus))
		}
		c.lastStatus = now
	case TargetReport:
		c.metrics.TargetsReceived.Add(int64(len(body.Targets)))
	case SingleTargetReport:
		c.metrics.TargetsReceived.Inc()
	case SingleTargetExtended:
		c.metrics.TargetsReceived.Inc()
	case Generic:
		c.metrics.UnknownReceived.Inc()
	}
}

// dispatch forwards a decoded message to the registered handlers
func (c *Client) dispatch(d Decoded) {
	c.handlerMu.RLock()
	onStatus := c.onStatus
	onTarget := c.onTarget
	onMessage := c.onMessage
	c.handlerMu.RUnlock()

	if onStatus != nil {
		if status, ok := d.Body.(SystemStatus); ok {
			onStatus(d.Header, status)
		}
	}

	if onTarget != nil {
		switch body := d.Body.(type) {
		case TargetReport:
			for _, t := range body.Targets {
				onTarget(d.Header, t)
			}
		case SingleTargetReport:
			onTarget(d.Header, body.Target)
		}
	}

	if onMessage != nil {
		onMessage(d)
	}
}

// sendAll marshals and sends session output in order
func (c *Client) sendAll(msgs []Message) {
	for _, m := range msgs {
		if err := c.send(m); err != nil {
			c.metrics.SendFailures.Inc()
			c.logger.Warn("send failed",
				slog.String("message", MessageName(m.MessageID())),
				slog.String("error", err.Error()),
			)
		}
	}
}

func (c *Client) send(m Message) error {
	data, err := c.opts.revision.Marshal(c.opts.sourceID, c.session.NextSequence(), time.Now(), m)
	if err != nil {
		return err
	}

	if err := c.transport.Send(c.loopCtx, data); err != nil {
		return err
	}

	c.metrics.MessagesSent.Inc()
	c.metrics.BytesSent.Add(int64(len(data)))
	switch body := m.(type) {
	case KeepAlive:
		c.metrics.KeepAlivesSent.Inc()
	case Acknowledge:
		c.metrics.AcksSent.Inc()
	case SystemControl:
		c.metrics.ControlsSent.Inc()
		c.logger.Info("control requested",
			slog.String("radar_state", body.RadarState.String()),
			slog.String("link_state", c.session.State().String()),
		)
	}

	return nil
}
