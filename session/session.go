// Package session implements the per-connection Session state machine
// (Component G): handshake, world registration, then a single goroutine
// multiplexing idle timeout, inbound packets and outbound world responses
// via select — mirroring original_source/protocol.rs's GameSession and the
// teacher's functional-options Client/readLoop shape in
// k64z-steamstacks/steamclient/steamclient.go.
package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/teraserver/gamecore/cipher"
	"github.com/teraserver/gamecore/event"
	"github.com/teraserver/gamecore/gameerr"
	"github.com/teraserver/gamecore/opcode"
	"github.com/teraserver/gamecore/protocol"
)

// responseChannelCapacity is the bound on the channel the world uses to
// send this Session its reply events — backpressure, not an error
// condition, once full.
const responseChannelCapacity = 128

// defaultIdleTimeout is how long Run waits for either side to produce
// activity before closing an idle connection.
const defaultIdleTimeout = 180 * time.Second

type config struct {
	idleTimeout time.Duration
	logger      *slog.Logger
}

// Option configures a Session constructed by New.
type Option func(*config)

// WithIdleTimeout overrides the default 180-second idle timeout.
func WithIdleTimeout(d time.Duration) Option {
	return func(c *config) { c.idleTimeout = d }
}

// WithLogger sets the structured logger a Session uses.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// Session owns one client TCP connection end to end: handshake, packet
// framing/ciphering, and dispatch to and from the world.
type Session struct {
	conn         net.Conn
	cipher       *cipher.Session
	table        *opcode.Table
	connectionID uuid.UUID

	globalRequestCh chan<- event.Event
	responseCh      chan event.Event

	idleTimeout time.Duration
	logger      *slog.Logger

	state State
}

// New performs the handshake and world registration and returns a Session
// ready for Run. It blocks until both complete or fail.
func New(conn net.Conn, table *opcode.Table, globalRequestCh chan<- event.Event, opts ...Option) (*Session, error) {
	cfg := config{idleTimeout: defaultIdleTimeout, logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Session{
		conn:            conn,
		table:           table,
		globalRequestCh: globalRequestCh,
		responseCh:      make(chan event.Event, responseChannelCapacity),
		idleTimeout:     cfg.idleTimeout,
		logger:          cfg.logger,
		state:           StateNew,
	}

	s.state = StateHandshaking
	cs, err := handshake(conn)
	if err != nil {
		return nil, gameerr.Wrap(gameerr.KindIO, "handshake", err)
	}
	s.cipher = cs

	s.state = StateRegistering
	s.globalRequestCh <- event.RequestRegisterConnection{ResponseChannel: s.responseCh}

	s.state = StateAwaitID
	msg, ok := <-s.responseCh
	if !ok {
		return nil, gameerr.New(gameerr.KindNoSenderResponseChannel, "world response channel closed during registration")
	}
	reg, ok := msg.(event.ResponseRegisterConnection)
	if !ok {
		return nil, gameerr.New(gameerr.KindWrongEventReceived, fmt.Sprintf("expected ResponseRegisterConnection, got %T", msg))
	}
	if !reg.Valid {
		return nil, gameerr.New(gameerr.KindEntityNotSet, "world did not assign a connection id")
	}
	s.connectionID = reg.ConnectionID

	s.logger.Info("session registered", "connection_id", s.connectionID)
	return s, nil
}

// ConnectionID returns the identifier the world assigned this Session.
func (s *Session) ConnectionID() uuid.UUID {
	return s.connectionID
}

// State returns the Session's current lifecycle state.
func (s *Session) State() State {
	return s.state
}

type frameResult struct {
	frame protocol.Frame
	err   error
}

// readLoop decodes frames off the wire until the connection fails, sending
// each result to out. It owns deciphering inbound bytes, so it must run
// sequentially and exclusively against conn and s.cipher.
func (s *Session) readLoop(out chan<- frameResult) {
	header := make([]byte, protocol.HeaderSize)
	for {
		if _, err := io.ReadFull(s.conn, header); err != nil {
			out <- frameResult{err: err}
			return
		}
		s.cipher.CryptClientData(header)

		totalLength, wireOp, err := protocol.DecodeHeader(header)
		if err != nil {
			out <- frameResult{err: err}
			return
		}
		bodyLen := int(totalLength) - protocol.HeaderSize
		if bodyLen < 0 {
			out <- frameResult{err: fmt.Errorf("session: frame length %d shorter than header", totalLength)}
			return
		}

		body := make([]byte, bodyLen)
		if bodyLen > 0 {
			if _, err := io.ReadFull(s.conn, body); err != nil {
				out <- frameResult{err: err}
				return
			}
			s.cipher.CryptClientData(body)
		}

		out <- frameResult{frame: protocol.Frame{Opcode: s.table.Forward(wireOp), Body: body}}
	}
}

// Run drives the Session's RUNNING state until the idle timer expires, the
// peer closes the socket, the world drops the connection, or an
// unrecoverable protocol error occurs.
func (s *Session) Run(ctx context.Context) error {
	s.state = StateRunning
	defer func() { s.state = StateClosed }()

	inbound := make(chan frameResult, 1)
	go s.readLoop(inbound)

	for {
		timer := time.NewTimer(s.idleTimeout)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()

		case <-timer.C:
			s.logger.Info("session idle timeout", "connection_id", s.connectionID)
			return nil

		case res := <-inbound:
			timer.Stop()
			if res.err != nil {
				if res.err == io.EOF {
					return nil
				}
				return gameerr.Wrap(gameerr.KindIO, "read frame", res.err)
			}
			if err := s.handleFrame(res.frame); err != nil {
				return err
			}

		case msg, ok := <-s.responseCh:
			timer.Stop()
			if !ok {
				return gameerr.New(gameerr.KindNoSenderResponseChannel, "world response channel closed")
			}
			if done, err := s.handleWorldMessage(msg); done {
				return err
			}
		}
	}
}

func (s *Session) handleFrame(f protocol.Frame) error {
	if f.Opcode == opcode.Unknown {
		s.logger.Warn("unmapped inbound packet", "connection_id", s.connectionID)
		return nil
	}

	ev, err := event.NewEventFromPacket(s.connectionID, f.Opcode, f.Body)
	if err != nil {
		if gameerr.Is(err, gameerr.KindNoEventMapping) {
			s.logger.Warn("no event mapping for packet", "opcode", f.Opcode)
			return nil
		}
		return err
	}

	switch ev.Target() {
	case event.TargetGlobal:
		s.globalRequestCh <- ev
	case event.TargetLocal:
		s.logger.Warn("local world routing not implemented, dropping event", "connection_id", s.connectionID)
	case event.TargetConnection:
		s.logger.Error("inbound event targeted Connection, discarding", "connection_id", s.connectionID)
	}
	return nil
}

// handleWorldMessage processes one event from the world. done is true if
// the Session must stop running; err is the reason (nil for a clean
// ResponseDropConnection).
func (s *Session) handleWorldMessage(msg event.Event) (done bool, err error) {
	if _, ok := msg.(event.ResponseDropConnection); ok {
		return true, nil
	}

	op, ok := msg.Opcode()
	if !ok {
		s.logger.Error("response event has no opcode", "event", fmt.Sprintf("%T", msg))
		return false, nil
	}
	data, ok := msg.Data()
	if !ok {
		s.logger.Error("response event has no data", "event", fmt.Sprintf("%T", msg))
		return false, nil
	}

	wireOp, ok := s.table.Reverse(op)
	if !ok {
		s.logger.Error("outbound opcode not in reverse table", "opcode", op)
		return false, nil
	}

	frame, encErr := protocol.EncodeFrame(wireOp, data)
	if encErr != nil {
		s.logger.Error("outbound frame too large, dropping", "opcode", op, "err", encErr)
		return false, nil
	}

	s.cipher.CryptServerData(frame)
	if _, writeErr := s.conn.Write(frame); writeErr != nil {
		return true, gameerr.Wrap(gameerr.KindIO, "write frame", writeErr)
	}
	return false, nil
}

// Close releases the underlying connection.
func (s *Session) Close() error {
	return s.conn.Close()
}
