// Package event implements the tagged Event model (Component F) that
// bridges decoded packets between a Session and the world: every inbound
// packet becomes a Request* event routed to the world, and every outbound
// reply is a Response* event routed back to exactly the Session that is
// waiting for it. Grounded on original_source/protocol.rs's Event enum and
// handle_packet/handle_message dispatch.
package event

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/teraserver/gamecore/gameerr"
	"github.com/teraserver/gamecore/opcode"
	"github.com/teraserver/gamecore/protocol"
)

// Target says which goroutine an event is routed to.
type Target int

const (
	// TargetConnection events are answers meant for one specific Session;
	// receiving one with this target from within a Session is a
	// programming error (events flow world -> session with this target,
	// never the other way).
	TargetConnection Target = iota
	// TargetLocal events belong to a per-instance (zone/dungeon) world; no
	// such world exists here, and a Session logs and drops them.
	TargetLocal
	// TargetGlobal events are handled by the account-wide world.
	TargetGlobal
)

func (t Target) String() string {
	switch t {
	case TargetConnection:
		return "Connection"
	case TargetLocal:
		return "Local"
	case TargetGlobal:
		return "Global"
	default:
		return fmt.Sprintf("Target(%d)", int(t))
	}
}

// Event is implemented by every request and response variant. Target
// reports where the event should be delivered. Opcode and Data are only
// meaningful for response events carrying a packet to send to the client:
// Opcode reports the wire opcode to encode it under, Data reports the
// already-serialized packet body. Request events return ok=false from both,
// matching the reference's "not used on the egress path" note.
type Event interface {
	Target() Target
	Opcode() (opcode.Opcode, bool)
	Data() ([]byte, bool)
}

// responseBase is embedded by every Response* event and does the
// opcode+packet encoding once; request events don't embed it; they return
// (0, false) / (nil, false) directly since they are never written back to
// the wire.
type responseBase struct {
	op     opcode.Opcode
	packet any
}

func (r responseBase) Opcode() (opcode.Opcode, bool) {
	return r.op, true
}

func (r responseBase) Data() ([]byte, bool) {
	body, err := protocol.Encode(r.op, r.packet)
	if err != nil {
		return nil, false
	}
	return body, true
}

func (r responseBase) Target() Target {
	return TargetConnection
}

type requestBase struct{}

func (requestBase) Opcode() (opcode.Opcode, bool) { return 0, false }
func (requestBase) Data() ([]byte, bool)          { return nil, false }

// RequestRegisterConnection is sent by a brand-new Session to the world to
// obtain a connection identifier. ResponseChannel is where the world must
// send exactly one ResponseRegisterConnection.
type RequestRegisterConnection struct {
	requestBase
	ResponseChannel chan Event
}

func (RequestRegisterConnection) Target() Target { return TargetGlobal }

// ResponseRegisterConnection answers RequestRegisterConnection. Valid is
// false if the world failed to allocate an entity (EntityNotSet).
type ResponseRegisterConnection struct {
	responseBase
	ConnectionID uuid.UUID
	Valid        bool
}

func NewResponseRegisterConnection(id uuid.UUID) ResponseRegisterConnection {
	return ResponseRegisterConnection{ConnectionID: id, Valid: true}
}

// ResponseDropConnection tells a Session to close, e.g. because the world
// reaped the entity (ban, admin kick). Receiving this ends the Session's
// running loop without logging it as an error.
type ResponseDropConnection struct {
	responseBase
	ConnectionID uuid.UUID
}

func NewResponseDropConnection(id uuid.UUID) ResponseDropConnection {
	return ResponseDropConnection{ConnectionID: id}
}

// RequestCheckVersion is the decoded C_CHECK_VERSION packet.
type RequestCheckVersion struct {
	requestBase
	ConnectionID uuid.UUID
	Packet       protocol.CCheckVersion
}

func (RequestCheckVersion) Target() Target { return TargetGlobal }

// ResponseCheckVersion answers RequestCheckVersion.
type ResponseCheckVersion struct {
	responseBase
	ConnectionID uuid.UUID
}

func NewResponseCheckVersion(id uuid.UUID, p protocol.SCheckVersion) ResponseCheckVersion {
	return ResponseCheckVersion{responseBase: responseBase{op: opcode.SCheckVersion, packet: p}, ConnectionID: id}
}

// RequestGetUserList is the decoded C_GET_USER_LIST packet (empty body).
type RequestGetUserList struct {
	requestBase
	ConnectionID uuid.UUID
}

func (RequestGetUserList) Target() Target { return TargetGlobal }

// ResponseGetUserList answers RequestGetUserList.
type ResponseGetUserList struct {
	responseBase
	ConnectionID uuid.UUID
}

func NewResponseGetUserList(id uuid.UUID, p protocol.SGetUserList) ResponseGetUserList {
	return ResponseGetUserList{responseBase: responseBase{op: opcode.SGetUserList, packet: p}, ConnectionID: id}
}

// RequestCheckUserName is the decoded C_CHECK_USER_NAME packet.
type RequestCheckUserName struct {
	requestBase
	ConnectionID uuid.UUID
	Packet       protocol.CCheckUserName
}

func (RequestCheckUserName) Target() Target { return TargetGlobal }

// ResponseCheckUserName answers RequestCheckUserName.
type ResponseCheckUserName struct {
	responseBase
	ConnectionID uuid.UUID
}

func NewResponseCheckUserName(id uuid.UUID, p protocol.SCheckUserName) ResponseCheckUserName {
	return ResponseCheckUserName{responseBase: responseBase{op: opcode.SCheckUserName, packet: p}, ConnectionID: id}
}

// RequestCanCreateUser is the decoded C_CAN_CREATE_USER packet (empty body).
type RequestCanCreateUser struct {
	requestBase
	ConnectionID uuid.UUID
}

func (RequestCanCreateUser) Target() Target { return TargetGlobal }

// ResponseCanCreateUser answers RequestCanCreateUser.
type ResponseCanCreateUser struct {
	responseBase
	ConnectionID uuid.UUID
}

func NewResponseCanCreateUser(id uuid.UUID, p protocol.SCanCreateUser) ResponseCanCreateUser {
	return ResponseCanCreateUser{responseBase: responseBase{op: opcode.SCanCreateUser, packet: p}, ConnectionID: id}
}

// NewEventFromPacket decodes body with the codec matching op and wraps the
// result in the matching Request* event. It returns a gameerr of kind
// NoEventMapping for any opcode without a binding yet — expected for
// partially-implemented protocol coverage, and non-fatal to the Session.
func NewEventFromPacket(connectionID uuid.UUID, op opcode.Opcode, body []byte) (Event, error) {
	switch op {
	case opcode.CCheckVersion:
		p, err := protocol.Decode(op, body)
		if err != nil {
			return nil, gameerr.Wrap(gameerr.KindMalformedPacket, "decode C_CHECK_VERSION", err)
		}
		return RequestCheckVersion{ConnectionID: connectionID, Packet: p.(protocol.CCheckVersion)}, nil
	case opcode.CGetUserList:
		return RequestGetUserList{ConnectionID: connectionID}, nil
	case opcode.CCheckUserName:
		p, err := protocol.Decode(op, body)
		if err != nil {
			return nil, gameerr.Wrap(gameerr.KindMalformedPacket, "decode C_CHECK_USER_NAME", err)
		}
		return RequestCheckUserName{ConnectionID: connectionID, Packet: p.(protocol.CCheckUserName)}, nil
	case opcode.CCanCreateUser:
		return RequestCanCreateUser{ConnectionID: connectionID}, nil
	default:
		return nil, gameerr.New(gameerr.KindNoEventMapping, fmt.Sprintf("no event mapping for opcode %v", op))
	}
}
