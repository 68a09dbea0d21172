// Package gameerr defines the error taxonomy shared by the protocol core.
//
// Errors are classified by Kind rather than by concrete type, mirroring how
// the teacher keeps a small set of sentinel errors (steamclient.ErrDisconnected)
// next to the package that raises them instead of building an error hierarchy.
package gameerr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the purposes of session-lifecycle decisions:
// some kinds are fatal to a Session, others are logged and the Session
// continues.
type Kind int

const (
	// KindIO covers socket read/write/peek failures.
	KindIO Kind = iota
	// KindConnectionClosed covers an explicit ResponseDropConnection or a clean FIN.
	KindConnectionClosed
	// KindMalformedPacket covers codec validation failures.
	KindMalformedPacket
	// KindNoEventMapping covers a known opcode with no event binding.
	KindNoEventMapping
	// KindOversizePacket covers an outbound body that doesn't fit the u16 length field.
	KindOversizePacket
	// KindUnknownReverseOpcode covers an outbound opcode missing from the reverse table.
	KindUnknownReverseOpcode
	// KindWrongEventReceived covers a handshake/registration step receiving an unexpected event.
	KindWrongEventReceived
	// KindEntityNotSet covers the world returning no connection id during registration.
	KindEntityNotSet
	// KindNoSenderResponseChannel covers the world's response channel being closed.
	KindNoSenderResponseChannel
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindConnectionClosed:
		return "connection_closed"
	case KindMalformedPacket:
		return "malformed_packet"
	case KindNoEventMapping:
		return "no_event_mapping"
	case KindOversizePacket:
		return "oversize_packet"
	case KindUnknownReverseOpcode:
		return "unknown_reverse_opcode"
	case KindWrongEventReceived:
		return "wrong_event_received"
	case KindEntityNotSet:
		return "entity_not_set"
	case KindNoSenderResponseChannel:
		return "no_sender_response_channel"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is a gamecore error tagged with a Kind, wrapping an optional cause.
type Error struct {
	Kind  Kind
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Cause }

// New creates an Error of the given Kind with a message.
func New(k Kind, msg string) *Error {
	return &Error{Kind: k, Msg: msg}
}

// Wrap creates an Error of the given Kind wrapping cause.
func Wrap(k Kind, msg string, cause error) *Error {
	return &Error{Kind: k, Msg: msg, Cause: cause}
}

// Is reports whether err is a gamecore Error of the given Kind.
func Is(err error, k Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == k
	}
	return false
}

// Fatal reports whether an error of this Kind must close the owning Session.
// Mirrors the fatal/non-fatal rule in the error handling design: errors that
// corrupt cipher state or frame alignment are fatal, errors contained to a
// single packet are not.
func Fatal(k Kind) bool {
	switch k {
	case KindNoEventMapping, KindOversizePacket, KindUnknownReverseOpcode:
		return false
	default:
		return true
	}
}
