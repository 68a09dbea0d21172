// Package cipher: stream.go assembles the two directional keystreams
// (Component C) from the four handshake keys and exposes the session-facing
// Session type that Component G drives.
package cipher

import "fmt"

// KeySize is the fixed length of each of the four handshake keys.
const KeySize = 128

// Session holds the two independent, stateful keystream generators for one
// connection: one crypts client→server bytes, the other server→client
// bytes. There is no reinit, no nonce and no rekey for the lifetime of a
// connection — every byte seen on the wire in a direction must be crypted
// exactly once, in order, through that direction's generator.
type Session struct {
	clientToServer *block
	serverToClient *block
}

// shiftLeft rotates a copy of key left by n bytes (mod len(key)).
func shiftLeft(key []byte, n int) []byte {
	if len(key) == 0 {
		return nil
	}
	n = ((n % len(key)) + len(key)) % len(key)
	out := make([]byte, len(key))
	copy(out, key[n:])
	copy(out[len(key)-n:], key[:n])
	return out
}

// NewSession derives the two directional keystreams from the four handshake
// keys exchanged in §4.4. Each direction's seed is three keys concatenated,
// the last of them rotated left by the first byte of another key
// (clientKey2 by serverKey1[0] for client→server, serverKey1 by
// clientKey2[0] for server→client). This seed layout and rotation are this
// package's own; no test here compares the resulting keystreams with the
// game client's.
func NewSession(clientKey1, clientKey2, serverKey1, serverKey2 []byte) (*Session, error) {
	for name, k := range map[string][]byte{
		"clientKey1": clientKey1, "clientKey2": clientKey2,
		"serverKey1": serverKey1, "serverKey2": serverKey2,
	} {
		if len(k) != KeySize {
			return nil, fmt.Errorf("cipher: %s must be %d bytes, got %d", name, KeySize, len(k))
		}
	}

	c2sSeed := make([]byte, 0, KeySize*3)
	c2sSeed = append(c2sSeed, clientKey1...)
	c2sSeed = append(c2sSeed, serverKey1...)
	c2sSeed = append(c2sSeed, shiftLeft(clientKey2, int(serverKey1[0]))...)

	s2cSeed := make([]byte, 0, KeySize*3)
	s2cSeed = append(s2cSeed, serverKey2...)
	s2cSeed = append(s2cSeed, clientKey2...)
	s2cSeed = append(s2cSeed, shiftLeft(serverKey1, int(clientKey2[0]))...)

	return &Session{
		clientToServer: newBlock(c2sSeed),
		serverToClient: newBlock(s2cSeed),
	}, nil
}

// CryptClientData XORs data in place against the client→server keystream.
// The server calls this to decrypt bytes the client sent.
func (s *Session) CryptClientData(data []byte) {
	s.clientToServer.crypt(data)
}

// CryptServerData XORs data in place against the server→client keystream.
// The server calls this to encrypt bytes before writing them to the client.
func (s *Session) CryptServerData(data []byte) {
	s.serverToClient.crypt(data)
}
