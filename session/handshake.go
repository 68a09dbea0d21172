package session

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/teraserver/gamecore/cipher"
)

var magicWord = [4]byte{0x01, 0x00, 0x00, 0x00}

// handshake performs the fixed key exchange of §4.4 and derives the
// directional keystreams for the rest of the connection's lifetime.
// Grounded on original_source/protocol.rs's init_crypto.
func handshake(rw io.ReadWriter) (*cipher.Session, error) {
	if _, err := rw.Write(magicWord[:]); err != nil {
		return nil, fmt.Errorf("session: write magic word: %w", err)
	}

	clientKey1 := make([]byte, cipher.KeySize)
	if _, err := io.ReadFull(rw, clientKey1); err != nil {
		return nil, fmt.Errorf("session: read client key 1: %w", err)
	}

	serverKey1 := make([]byte, cipher.KeySize)
	if _, err := rand.Read(serverKey1); err != nil {
		return nil, fmt.Errorf("session: generate server key 1: %w", err)
	}
	if _, err := rw.Write(serverKey1); err != nil {
		return nil, fmt.Errorf("session: write server key 1: %w", err)
	}

	clientKey2 := make([]byte, cipher.KeySize)
	if _, err := io.ReadFull(rw, clientKey2); err != nil {
		return nil, fmt.Errorf("session: read client key 2: %w", err)
	}

	serverKey2 := make([]byte, cipher.KeySize)
	if _, err := rand.Read(serverKey2); err != nil {
		return nil, fmt.Errorf("session: generate server key 2: %w", err)
	}
	if _, err := rw.Write(serverKey2); err != nil {
		return nil, fmt.Errorf("session: write server key 2: %w", err)
	}

	return cipher.NewSession(clientKey1, clientKey2, serverKey1, serverKey2)
}
