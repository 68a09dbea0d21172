package opcode

import (
	"strings"
	"testing"
)

const sampleTable = `# version handshake
C_CHECK_VERSION: 10
S_CHECK_VERSION: 11

C_GET_USER_LIST: 20
S_GET_USER_LIST: 21
C_CHECK_USER_NAME: 30
S_CHECK_USER_NAME: 31
`

func TestParseTableForwardAndReverse(t *testing.T) {
	tbl, err := ParseTable(strings.NewReader(sampleTable))
	if err != nil {
		t.Fatal(err)
	}

	if got := tbl.Forward(10); got != CCheckVersion {
		t.Errorf("Forward(10) = %v, want CCheckVersion", got)
	}
	if got := tbl.Forward(21); got != SGetUserList {
		t.Errorf("Forward(21) = %v, want SGetUserList", got)
	}

	wire, ok := tbl.Reverse(CCheckVersion)
	if !ok || wire != 10 {
		t.Errorf("Reverse(CCheckVersion) = (%d, %v), want (10, true)", wire, ok)
	}
}

func TestParseTableUnmappedSlotsAreUnknown(t *testing.T) {
	tbl, err := ParseTable(strings.NewReader(sampleTable))
	if err != nil {
		t.Fatal(err)
	}
	for _, wire := range []uint16{0, 1, 9, 12, 19} {
		if got := tbl.Forward(wire); got != Unknown {
			t.Errorf("Forward(%d) = %v, want Unknown", wire, got)
		}
	}
	if got := tbl.Forward(9999); got != Unknown {
		t.Errorf("Forward(9999) = %v, want Unknown (out of built range)", got)
	}
}

func TestParseTableRejectsDuplicateName(t *testing.T) {
	_, err := ParseTable(strings.NewReader("C_CHECK_VERSION: 10\nC_CHECK_VERSION: 11\n"))
	if err == nil {
		t.Fatal("expected error for duplicate name")
	}
}

func TestParseTableRejectsDuplicateNumber(t *testing.T) {
	_, err := ParseTable(strings.NewReader("C_CHECK_VERSION: 10\nS_CHECK_VERSION: 10\n"))
	if err == nil {
		t.Fatal("expected error for duplicate number")
	}
}

func TestParseTableRejectsOutOfRangeNumber(t *testing.T) {
	_, err := ParseTable(strings.NewReader("C_CHECK_VERSION: 70000\n"))
	if err == nil {
		t.Fatal("expected error for out-of-range number")
	}
}

func TestParseTableSkipsUnrecognizedName(t *testing.T) {
	// A real opcode mapping file names far more messages than any partial
	// build implements; unrecognized names must not fail the whole table.
	tbl, err := ParseTable(strings.NewReader("C_NOT_A_REAL_OPCODE: 5\nC_CHECK_VERSION: 10\n"))
	if err != nil {
		t.Fatalf("unexpected error for unrecognized opcode name: %v", err)
	}
	if got := tbl.Forward(5); got != Unknown {
		t.Errorf("Forward(5) = %v, want Unknown for unrecognized name", got)
	}
	if got := tbl.Forward(10); got != CCheckVersion {
		t.Errorf("Forward(10) = %v, want CCheckVersion", got)
	}
}

func TestParseTableStillRejectsDuplicateNumberAcrossUnrecognizedName(t *testing.T) {
	// Duplicate/out-of-range validation must not be skipped just because
	// one of the colliding names is unrecognized.
	_, err := ParseTable(strings.NewReader("C_NOT_A_REAL_OPCODE: 10\nC_CHECK_VERSION: 10\n"))
	if err == nil {
		t.Fatal("expected error for duplicate number even with an unrecognized name")
	}
}

func TestParseTableRoundTripsEveryMappedName(t *testing.T) {
	tbl, err := ParseTable(strings.NewReader(sampleTable))
	if err != nil {
		t.Fatal(err)
	}
	for _, wire := range []uint16{10, 11, 20, 21, 30, 31} {
		op := tbl.Forward(wire)
		gotWire, ok := tbl.Reverse(op)
		if !ok || gotWire != wire {
			t.Errorf("round trip for wire %d: op=%v reverse=(%d,%v)", wire, op, gotWire, ok)
		}
	}
}
