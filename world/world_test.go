package world

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/teraserver/gamecore/event"
	"github.com/teraserver/gamecore/protocol"
)

func startWorld(t *testing.T) (*World, context.CancelFunc) {
	t.Helper()
	w := New()
	ctx, cancel := context.WithCancel(context.Background())
	go w.Run(ctx)
	return w, cancel
}

func registerConnection(t *testing.T, w *World) (uuid.UUID, chan event.Event) {
	t.Helper()
	respCh := make(chan event.Event, 128)
	w.RequestChannel() <- event.RequestRegisterConnection{ResponseChannel: respCh}

	select {
	case msg := <-respCh:
		reg := msg.(event.ResponseRegisterConnection)
		if !reg.Valid {
			t.Fatal("expected valid registration")
		}
		return reg.ConnectionID, respCh
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for registration")
		return uuid.UUID{}, nil
	}
}

func TestRegisterConnectionAssignsDistinctIDs(t *testing.T) {
	w, cancel := startWorld(t)
	defer cancel()

	id1, _ := registerConnection(t, w)
	id2, _ := registerConnection(t, w)
	if id1 == id2 {
		t.Fatal("expected distinct connection ids")
	}
}

func TestGetUserListReturnsAlmeticaReference(t *testing.T) {
	w, cancel := startWorld(t)
	defer cancel()

	id, respCh := registerConnection(t, w)
	w.RequestChannel() <- event.RequestGetUserList{ConnectionID: id}

	select {
	case msg := <-respCh:
		resp := msg.(event.ResponseGetUserList)
		data, ok := resp.Data()
		if !ok {
			t.Fatal("expected response data")
		}
		op, ok := resp.Opcode()
		if !ok {
			t.Fatal("expected response opcode")
		}
		decoded, err := protocol.Decode(op, data)
		if err != nil {
			t.Fatal(err)
		}
		list := decoded.(protocol.SGetUserList)
		if len(list.Characters) != 1 || list.Characters[0].Name != "Almetica" {
			t.Fatalf("unexpected character list: %+v", list)
		}
		if list.Characters[0].Level != 65 || list.Characters[0].Class != classLancer {
			t.Fatalf("unexpected reference character fields: %+v", list.Characters[0])
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for user list response")
	}
}

func TestCheckUserNameValid(t *testing.T) {
	w, cancel := startWorld(t)
	defer cancel()

	id, respCh := registerConnection(t, w)
	w.RequestChannel() <- event.RequestCheckUserName{ConnectionID: id, Packet: protocol.CCheckUserName{Name: "NotTaken0"}}

	msg := <-respCh
	resp := msg.(event.ResponseCheckUserName)
	data, _ := resp.Data()
	op, _ := resp.Opcode()
	decoded, err := protocol.Decode(op, data)
	if err != nil {
		t.Fatal(err)
	}
	if !decoded.(protocol.SCheckUserName).Ok {
		t.Fatal("expected valid username to be accepted")
	}
}

func TestCheckUserNameInvalid(t *testing.T) {
	w, cancel := startWorld(t)
	defer cancel()

	id, respCh := registerConnection(t, w)
	w.RequestChannel() <- event.RequestCheckUserName{ConnectionID: id, Packet: protocol.CCheckUserName{Name: "H!x?or0"}}

	msg := <-respCh
	resp := msg.(event.ResponseCheckUserName)
	data, _ := resp.Data()
	op, _ := resp.Opcode()
	decoded, err := protocol.Decode(op, data)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.(protocol.SCheckUserName).Ok {
		t.Fatal("expected invalid username to be rejected")
	}
}

func TestIsValidUserName(t *testing.T) {
	valid := []string{"NotTaken0", "Almetica", "abc123"}
	invalid := []string{"H!x?or0", "with space", "", "ünïcode"}
	for _, name := range valid {
		if !IsValidUserName(name) {
			t.Errorf("IsValidUserName(%q) = false, want true", name)
		}
	}
	for _, name := range invalid {
		if IsValidUserName(name) {
			t.Errorf("IsValidUserName(%q) = true, want false", name)
		}
	}
}
