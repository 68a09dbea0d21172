// Package protocol implements the post-handshake wire format (Component E):
// the 4-byte frame header, the per-opcode body codecs, and the concrete
// packet catalogue named in the supplemental data model. Frame header
// encode/decode follows the same hand-rolled binary.Write/little-endian
// style the teacher uses for its own non-protobuf CM framing
// (encodeNonProtoPacket/decodeNonProtoPacket) — there is no third-party
// serializer for this bespoke length-prefixed format, so the frame and body
// codecs are built on encoding/binary throughout (see DESIGN.md).
package protocol

import (
	"encoding/binary"
	"fmt"

	"github.com/teraserver/gamecore/opcode"
)

// HeaderSize is the fixed width of the frame header preceding every body.
const HeaderSize = 4

// MaxFrameSize is the largest total_length a uint16 frame header can carry.
const MaxFrameSize = 65535

// EncodeHeader serializes the 4-byte frame header: total_length (including
// itself) then wire_opcode, both little-endian.
func EncodeHeader(totalLength uint16, wireOpcode uint16) [HeaderSize]byte {
	var out [HeaderSize]byte
	binary.LittleEndian.PutUint16(out[0:2], totalLength)
	binary.LittleEndian.PutUint16(out[2:4], wireOpcode)
	return out
}

// DecodeHeader parses a 4-byte frame header. The caller must supply exactly
// HeaderSize bytes.
func DecodeHeader(header []byte) (totalLength uint16, wireOpcode uint16, err error) {
	if len(header) != HeaderSize {
		return 0, 0, fmt.Errorf("protocol: header must be %d bytes, got %d", HeaderSize, len(header))
	}
	return binary.LittleEndian.Uint16(header[0:2]), binary.LittleEndian.Uint16(header[2:4]), nil
}

// Frame is a decoded wire frame: the opcode it carries and its raw,
// not-yet-interpreted body bytes.
type Frame struct {
	Opcode opcode.Opcode
	Body   []byte
}

// EncodeFrame prepends the frame header to an already-serialized body.
// Fails without modifying any session state if the resulting frame would
// exceed MaxFrameSize — the caller drops and logs the packet rather than
// tearing down the connection.
func EncodeFrame(wireOpcode uint16, body []byte) ([]byte, error) {
	total := len(body) + HeaderSize
	if total > MaxFrameSize {
		return nil, fmt.Errorf("protocol: frame of %d bytes exceeds max %d", total, MaxFrameSize)
	}
	header := EncodeHeader(uint16(total), wireOpcode)
	out := make([]byte, 0, total)
	out = append(out, header[:]...)
	out = append(out, body...)
	return out, nil
}

// DecodeFrame splits a complete wire frame (header + body) into its opcode
// and body bytes, resolving the wire opcode against table.
func DecodeFrame(table *opcode.Table, frame []byte) (Frame, error) {
	if len(frame) < HeaderSize {
		return Frame{}, fmt.Errorf("protocol: frame shorter than header: %d bytes", len(frame))
	}
	total, wireOp, err := DecodeHeader(frame[:HeaderSize])
	if err != nil {
		return Frame{}, err
	}
	if int(total) != len(frame) {
		return Frame{}, fmt.Errorf("protocol: header declares length %d, frame is %d bytes", total, len(frame))
	}
	return Frame{
		Opcode: table.Forward(wireOp),
		Body:   frame[HeaderSize:],
	}, nil
}
