package cipher

import "encoding/binary"

// blockSize is the width of one keystream block and of the internal PRG
// state fed back into the next block.
const blockSize = 128

// block is the keyed 128-byte pseudo-random block generator (Component B).
// It produces a deterministic stream of 128-byte blocks: the first block is
// derived from the handshake key material, and every following block is the
// Sum1 expansion of the prior block, which becomes the new state. This
// construction is this package's own; no test here compares its output with
// the TERA-toolbox reference keystream.
type block struct {
	state [blockSize]byte
	out   [blockSize]byte
	pos   int
}

// newBlock seeds a block generator from the handshake key material. seed is
// expanded to exactly blockSize bytes via repeated hashing with a
// little-endian counter, since the three concatenated keys are wider than
// one block.
func newBlock(seed []byte) *block {
	b := &block{}
	expand(b.state[:], seed)
	expand(b.out[:], b.state[:])
	return b
}

// expand fills dst with Sum1(seed || counter) chunks, counter starting at 0
// and incrementing as a little-endian uint32, until dst is full.
func expand(dst []byte, seed []byte) {
	buf := make([]byte, len(seed)+4)
	copy(buf, seed)
	var counter uint32
	filled := 0
	for filled < len(dst) {
		binary.LittleEndian.PutUint32(buf[len(seed):], counter)
		digest := Sum1(buf)
		filled += copy(dst[filled:], digest[:])
		counter++
	}
}

// nextByte returns the next keystream byte, regenerating the block from the
// current state once the prior 128 bytes are exhausted.
func (b *block) nextByte() byte {
	if b.pos == blockSize {
		b.state = b.out
		expand(b.out[:], b.state[:])
		b.pos = 0
	}
	v := b.out[b.pos]
	b.pos++
	return v
}

// crypt XORs data in place against the keystream, consuming exactly
// len(data) keystream bytes.
func (b *block) crypt(data []byte) {
	for i := range data {
		data[i] ^= b.nextByte()
	}
}
