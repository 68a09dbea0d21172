package session

import (
	"context"
	"crypto/rand"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/teraserver/gamecore/cipher"
	"github.com/teraserver/gamecore/event"
	"github.com/teraserver/gamecore/opcode"
	"github.com/teraserver/gamecore/protocol"
)

func testTable(t *testing.T) *opcode.Table {
	t.Helper()
	tbl, err := opcode.ParseTable(strings.NewReader(
		"C_CHECK_USER_NAME: 30\nS_CHECK_USER_NAME: 31\n",
	))
	if err != nil {
		t.Fatal(err)
	}
	return tbl
}

// clientHandshake plays the client half of §4.4 over conn and returns the
// directional cipher derived from the exchanged keys.
func clientHandshake(t *testing.T, conn net.Conn) *cipher.Session {
	t.Helper()
	var magic [4]byte
	if _, err := io.ReadFull(conn, magic[:]); err != nil {
		t.Fatal(err)
	}

	clientKey1 := make([]byte, cipher.KeySize)
	rand.Read(clientKey1)
	if _, err := conn.Write(clientKey1); err != nil {
		t.Fatal(err)
	}

	serverKey1 := make([]byte, cipher.KeySize)
	if _, err := io.ReadFull(conn, serverKey1); err != nil {
		t.Fatal(err)
	}

	clientKey2 := make([]byte, cipher.KeySize)
	rand.Read(clientKey2)
	if _, err := conn.Write(clientKey2); err != nil {
		t.Fatal(err)
	}

	serverKey2 := make([]byte, cipher.KeySize)
	if _, err := io.ReadFull(conn, serverKey2); err != nil {
		t.Fatal(err)
	}

	cs, err := cipher.NewSession(clientKey1, clientKey2, serverKey1, serverKey2)
	if err != nil {
		t.Fatal(err)
	}
	return cs
}

func TestNewCompletesHandshakeAndRegistration(t *testing.T) {
	serverConn, clientConn := net.Pipe()
	defer serverConn.Close()
	defer clientConn.Close()

	table := testTable(t)
	globalCh := make(chan event.Event, 1)

	type result struct {
		sess *Session
		err  error
	}
	resultCh := make(chan result, 1)
	go func() {
		s, err := New(serverConn, table, globalCh)
		resultCh <- result{s, err}
	}()

	clientDone := make(chan struct{})
	go func() {
		clientHandshake(t, clientConn)
		close(clientDone)
	}()

	req := (<-globalCh).(event.RequestRegisterConnection)
	wantID := uuid.New()
	req.ResponseChannel <- event.NewResponseRegisterConnection(wantID)

	<-clientDone
	res := <-resultCh
	if res.err != nil {
		t.Fatal(res.err)
	}
	if res.sess.ConnectionID() != wantID {
		t.Fatalf("ConnectionID() = %v, want %v", res.sess.ConnectionID(), wantID)
	}
	if res.sess.State() != StateAwaitID {
		t.Fatalf("State() = %v, want AwaitID (Run not started yet)", res.sess.State())
	}
}

func TestRunRoutesInboundPacketToWorldAndRepliesBack(t *testing.T) {
	serverConn, clientConn := net.Pipe()
	defer serverConn.Close()
	defer clientConn.Close()

	table := testTable(t)
	globalCh := make(chan event.Event, 1)

	type result struct {
		sess *Session
		err  error
	}
	resultCh := make(chan result, 1)
	go func() {
		s, err := New(serverConn, table, globalCh)
		resultCh <- result{s, err}
	}()

	var clientCipher *cipher.Session
	clientDone := make(chan struct{})
	go func() {
		clientCipher = clientHandshake(t, clientConn)
		close(clientDone)
	}()

	req := (<-globalCh).(event.RequestRegisterConnection)
	connID := uuid.New()
	req.ResponseChannel <- event.NewResponseRegisterConnection(connID)
	<-clientDone

	res := <-resultCh
	if res.err != nil {
		t.Fatal(res.err)
	}
	sess := res.sess

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runErr := make(chan error, 1)
	go func() { runErr <- sess.Run(ctx) }()

	body, err := protocol.Encode(opcode.CCheckUserName, protocol.CCheckUserName{Name: "Almetica"})
	if err != nil {
		t.Fatal(err)
	}
	wireOp, _ := table.Reverse(opcode.CCheckUserName)
	frame, err := protocol.EncodeFrame(wireOp, body)
	if err != nil {
		t.Fatal(err)
	}
	clientCipher.CryptClientData(frame)

	writeDone := make(chan error, 1)
	go func() {
		_, err := clientConn.Write(frame)
		writeDone <- err
	}()
	if err := <-writeDone; err != nil {
		t.Fatal(err)
	}

	var reqEvent event.RequestCheckUserName
	select {
	case ev := <-globalCh:
		var ok bool
		reqEvent, ok = ev.(event.RequestCheckUserName)
		if !ok {
			t.Fatalf("got %T, want RequestCheckUserName", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for routed request event")
	}
	if reqEvent.Packet.Name != "Almetica" || reqEvent.ConnectionID != connID {
		t.Fatalf("unexpected request: %+v", reqEvent)
	}

	sess.responseCh <- event.NewResponseCheckUserName(connID, protocol.SCheckUserName{Ok: true})

	replyHeader := make([]byte, protocol.HeaderSize)
	readDone := make(chan error, 1)
	go func() {
		_, err := io.ReadFull(clientConn, replyHeader)
		readDone <- err
	}()
	if err := <-readDone; err != nil {
		t.Fatal(err)
	}
	clientCipher.CryptServerData(replyHeader)
	totalLength, replyOp, err := protocol.DecodeHeader(replyHeader)
	if err != nil {
		t.Fatal(err)
	}
	wantWireOp, _ := table.Reverse(opcode.SCheckUserName)
	if replyOp != wantWireOp {
		t.Fatalf("reply opcode = %d, want %d", replyOp, wantWireOp)
	}

	replyBody := make([]byte, int(totalLength)-protocol.HeaderSize)
	if len(replyBody) > 0 {
		if _, err := io.ReadFull(clientConn, replyBody); err != nil {
			t.Fatal(err)
		}
		clientCipher.CryptServerData(replyBody)
	}
	decoded, err := protocol.Decode(opcode.SCheckUserName, replyBody)
	if err != nil {
		t.Fatal(err)
	}
	if !decoded.(protocol.SCheckUserName).Ok {
		t.Fatal("expected Ok=true in reply")
	}

	cancel()
	<-runErr
}
