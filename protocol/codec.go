package protocol

import (
	"encoding/binary"
	"math"
	"unicode/utf16"

	"github.com/teraserver/gamecore/gameerr"
)

// Writer assembles one packet body into a single growing byte slice.
// Variable-length fields (strings, arrays) are referenced from the fixed
// part of the body via an (offset, length) or (offset, count) header pair
// that is reserved inline and back-patched once the referenced data is
// appended — every offset is relative to the start of this buffer, i.e. to
// the packet body, per the convention fixed in §4.5.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty body writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the body assembled so far.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Offset returns the current body-relative write position.
func (w *Writer) Offset() uint16 {
	return uint16(len(w.buf))
}

func (w *Writer) WriteUint8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *Writer) WriteBool(v bool) {
	if v {
		w.WriteUint8(1)
	} else {
		w.WriteUint8(0)
	}
}

func (w *Writer) WriteUint16(v uint16) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

func (w *Writer) WriteInt32(v int32) {
	w.WriteUint32(uint32(v))
}

func (w *Writer) WriteUint32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

func (w *Writer) WriteUint64(v uint64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
}

func (w *Writer) WriteFloat32(v float32) {
	w.WriteUint32(math.Float32bits(v))
}

// WriteBytes appends a fixed-size vector of raw bytes.
func (w *Writer) WriteBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

// Reserve appends n zero bytes and returns their starting position, for
// later patching once the value they hold is known.
func (w *Writer) Reserve(n int) int {
	pos := len(w.buf)
	w.buf = append(w.buf, make([]byte, n)...)
	return pos
}

func (w *Writer) PatchUint16(pos int, v uint16) {
	binary.LittleEndian.PutUint16(w.buf[pos:pos+2], v)
}

// ReserveRef reserves the 4-byte (offset, length-or-count) header pair used
// by both string and array references.
func (w *Writer) ReserveRef() int {
	return w.Reserve(4)
}

// WriteStringData appends s as UTF-16LE, NUL-terminated, then patches the
// (offset, length) header previously reserved at refPos. length is the
// code unit count including the terminator.
func (w *Writer) WriteStringData(refPos int, s string) {
	offset := w.Offset()
	units := utf16.Encode([]rune(s))
	for _, u := range units {
		w.WriteUint16(u)
	}
	w.WriteUint16(0) // NUL terminator
	w.PatchUint16(refPos, offset)
	w.PatchUint16(refPos+2, uint16(len(units)+1))
}

// ArrayWriter assembles a variable-length linked-list array of records
// referenced from a (offset-to-first, count) header pair.
type ArrayWriter struct {
	w                *Writer
	count            uint16
	firstOffset      uint16
	pendingNextPatch int
}

// BeginArray starts a new linked-list array in the same body buffer.
func (w *Writer) BeginArray() *ArrayWriter {
	return &ArrayWriter{w: w, pendingNextPatch: -1}
}

// StartRecord patches the previous record's offset-to-next (if any), writes
// the new record's own (offset-to-this, offset-to-next) header, reserving
// the latter for the next call, and returns this record's body-relative
// start offset so the caller can write its fixed fields.
func (a *ArrayWriter) StartRecord() uint16 {
	if a.pendingNextPatch >= 0 {
		a.w.PatchUint16(a.pendingNextPatch, a.w.Offset())
	}
	thisOffset := a.w.Offset()
	if a.count == 0 {
		a.firstOffset = thisOffset
	}
	a.count++
	a.w.WriteUint16(thisOffset)
	a.pendingNextPatch = a.w.Reserve(2)
	return thisOffset
}

// Finish patches the last record's offset-to-next to 0 and writes the
// (offset-to-first, count) reference header at refPos.
func (a *ArrayWriter) Finish(refPos int) {
	if a.pendingNextPatch >= 0 {
		a.w.PatchUint16(a.pendingNextPatch, 0)
	}
	a.w.PatchUint16(refPos, a.firstOffset)
	a.w.PatchUint16(refPos+2, a.count)
}

// Reader walks a packet body sequentially, decoding primitives and
// resolving the offset/length references Writer produced.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps a packet body for sequential decoding.
func NewReader(body []byte) *Reader {
	return &Reader{buf: body}
}

func malformed(msg string) error {
	return gameerr.New(gameerr.KindMalformedPacket, msg)
}

func (r *Reader) need(n int) error {
	if r.pos+n > len(r.buf) {
		return malformed("protocol: read past end of body")
	}
	return nil
}

func (r *Reader) ReadUint8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.buf[r.pos]
	r.pos++
	return v, nil
}

func (r *Reader) ReadBool() (bool, error) {
	v, err := r.ReadUint8()
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

func (r *Reader) ReadUint16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(r.buf[r.pos:])
	r.pos += 2
	return v, nil
}

func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

func (r *Reader) ReadUint32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *Reader) ReadUint64() (uint64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(r.buf[r.pos:])
	r.pos += 8
	return v, nil
}

func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadUint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	v := r.buf[r.pos : r.pos+n]
	r.pos += n
	return v, nil
}

// ReadStringRef reads the (offset, length) header at the current position
// and resolves the UTF-16LE, NUL-terminated string it points to.
func (r *Reader) ReadStringRef() (string, error) {
	offset, err := r.ReadUint16()
	if err != nil {
		return "", err
	}
	length, err := r.ReadUint16()
	if err != nil {
		return "", err
	}
	return readStringAt(r.buf, offset, length)
}

func readStringAt(buf []byte, offset, length uint16) (string, error) {
	if length == 0 {
		return "", malformed("protocol: string length must include NUL terminator")
	}
	start := int(offset)
	byteLen := int(length) * 2
	if start < 0 || start+byteLen > len(buf) {
		return "", malformed("protocol: string offset out of bounds")
	}
	units := make([]uint16, length)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(buf[start+i*2:])
	}
	if units[len(units)-1] != 0 {
		return "", malformed("protocol: string not NUL-terminated")
	}
	return string(utf16.Decode(units[:len(units)-1])), nil
}

// ReadArrayRef reads the (offset-to-first, count) header at the current
// position.
func (r *Reader) ReadArrayRef() (offset uint16, count uint16, err error) {
	offset, err = r.ReadUint16()
	if err != nil {
		return 0, 0, err
	}
	count, err = r.ReadUint16()
	if err != nil {
		return 0, 0, err
	}
	return offset, count, nil
}

// WalkArray walks a linked-list array of count records starting at offset,
// calling recordFn with a Reader positioned at the start of each record's
// own fields (i.e. past that record's 4-byte link header).
func WalkArray(buf []byte, offset uint16, count uint16, recordFn func(rec *Reader) error) error {
	pos := offset
	for i := uint16(0); i < count; i++ {
		if int(pos)+4 > len(buf) {
			return malformed("protocol: array record header out of bounds")
		}
		// offset-to-this is redundant with pos and not otherwise used.
		_ = binary.LittleEndian.Uint16(buf[pos:])
		next := binary.LittleEndian.Uint16(buf[pos+2:])

		rec := &Reader{buf: buf, pos: int(pos) + 4}
		if err := recordFn(rec); err != nil {
			return err
		}

		if i == count-1 {
			break
		}
		if next == 0 {
			return malformed("protocol: array record chain ended early")
		}
		pos = next
	}
	return nil
}
