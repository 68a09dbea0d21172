package event

import (
	"testing"

	"github.com/google/uuid"
	"github.com/teraserver/gamecore/gameerr"
	"github.com/teraserver/gamecore/opcode"
	"github.com/teraserver/gamecore/protocol"
)

func TestNewEventFromPacketCheckUserName(t *testing.T) {
	id := uuid.New()
	body, err := protocol.Encode(opcode.CCheckUserName, protocol.CCheckUserName{Name: "Almetica"})
	if err != nil {
		t.Fatal(err)
	}

	ev, err := NewEventFromPacket(id, opcode.CCheckUserName, body)
	if err != nil {
		t.Fatal(err)
	}
	req, ok := ev.(RequestCheckUserName)
	if !ok {
		t.Fatalf("got %T, want RequestCheckUserName", ev)
	}
	if req.Packet.Name != "Almetica" || req.ConnectionID != id {
		t.Fatalf("unexpected request: %+v", req)
	}
	if req.Target() != TargetGlobal {
		t.Fatalf("Target() = %v, want Global", req.Target())
	}
	if _, ok := req.Opcode(); ok {
		t.Fatal("request event must not expose an egress opcode")
	}
}

func TestNewEventFromPacketUnknownOpcodeIsNonFatal(t *testing.T) {
	_, err := NewEventFromPacket(uuid.New(), opcode.Unknown, nil)
	if !gameerr.Is(err, gameerr.KindNoEventMapping) {
		t.Fatalf("expected KindNoEventMapping, got %v", err)
	}
	if gameerr.Fatal(gameerr.KindNoEventMapping) {
		t.Fatal("NoEventMapping must be classified non-fatal")
	}
}

func TestResponseEventEncodesData(t *testing.T) {
	id := uuid.New()
	resp := NewResponseCheckUserName(id, protocol.SCheckUserName{Ok: true})

	if resp.Target() != TargetConnection {
		t.Fatalf("Target() = %v, want Connection", resp.Target())
	}
	op, ok := resp.Opcode()
	if !ok || op != opcode.SCheckUserName {
		t.Fatalf("Opcode() = (%v, %v), want (SCheckUserName, true)", op, ok)
	}
	data, ok := resp.Data()
	if !ok {
		t.Fatal("Data() ok = false, want true")
	}
	decoded, err := protocol.Decode(opcode.SCheckUserName, data)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.(protocol.SCheckUserName).Ok != true {
		t.Fatalf("decoded = %+v, want Ok=true", decoded)
	}
}

func TestResponseRegisterConnectionTargetsConnection(t *testing.T) {
	resp := NewResponseRegisterConnection(uuid.New())
	if resp.Target() != TargetConnection {
		t.Fatalf("Target() = %v, want Connection", resp.Target())
	}
	if !resp.Valid {
		t.Fatal("expected Valid=true from NewResponseRegisterConnection")
	}
}
