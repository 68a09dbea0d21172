// Package world implements the reference world side of the event bridge
// (Component H): it answers the four request/response pairs named in the
// supplemental data model using the hardcoded Almetica reference dataset,
// the same role original_source/ecs/system/user_manager.rs plays against
// the rest of the game ECS. A real deployment replaces this package with
// one backed by persistent storage; this one exists to make every end to
// end scenario testable without one.
package world

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/teraserver/gamecore/event"
	"github.com/teraserver/gamecore/protocol"
)

// requestChannelCapacity bounds the channel every Session shares to submit
// events to this world.
const requestChannelCapacity = 128

type config struct {
	logger *slog.Logger
}

// Option configures a World constructed by New.
type Option func(*config)

// WithLogger sets the structured logger a World uses.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// World is the single goroutine that owns the connection registry and
// answers every Session's requests. Because exactly one goroutine ever
// touches connections, no lock is needed.
type World struct {
	requestCh   chan event.Event
	connections map[uuid.UUID]chan event.Event
	logger      *slog.Logger
}

// New constructs a World. Call Run to start processing.
func New(opts ...Option) *World {
	cfg := config{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &World{
		requestCh:   make(chan event.Event, requestChannelCapacity),
		connections: make(map[uuid.UUID]chan event.Event),
		logger:      cfg.logger,
	}
}

// RequestChannel returns the channel Sessions send their Request* events to.
func (w *World) RequestChannel() chan<- event.Event {
	return w.requestCh
}

// Run processes events until ctx is cancelled.
func (w *World) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-w.requestCh:
			w.handle(ev)
		}
	}
}

func (w *World) handle(ev event.Event) {
	switch e := ev.(type) {
	case event.RequestRegisterConnection:
		id := uuid.New()
		w.connections[id] = e.ResponseChannel
		e.ResponseChannel <- event.NewResponseRegisterConnection(id)

	case event.RequestCheckVersion:
		w.respond(e.ConnectionID, event.NewResponseCheckVersion(e.ConnectionID, protocol.SCheckVersion{Ok: true}))

	case event.RequestGetUserList:
		w.respond(e.ConnectionID, event.NewResponseGetUserList(e.ConnectionID, referenceUserList()))

	case event.RequestCheckUserName:
		ok := IsValidUserName(e.Packet.Name)
		w.respond(e.ConnectionID, event.NewResponseCheckUserName(e.ConnectionID, protocol.SCheckUserName{Ok: ok}))

	case event.RequestCanCreateUser:
		// TODO check persisted character count once storage exists; hardwired allow for now.
		w.respond(e.ConnectionID, event.NewResponseCanCreateUser(e.ConnectionID, protocol.SCanCreateUser{Ok: true}))

	default:
		w.logger.Warn("unhandled event", "type", fmt.Sprintf("%T", ev))
	}
}

func (w *World) respond(id uuid.UUID, resp event.Event) {
	ch, ok := w.connections[id]
	if !ok {
		w.logger.Error("no session registered for connection", "connection_id", id)
		return
	}
	ch <- resp
}
