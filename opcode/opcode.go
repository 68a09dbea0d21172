// Package opcode implements the bidirectional mapping between the numeric
// wire opcode a packet carries and the internal Opcode enumeration the rest
// of the codebase dispatches on (Component D).
package opcode

import "fmt"

// Opcode is a closed enumeration of named protocol messages plus the
// Unknown sentinel used for any wire value the loaded table doesn't map.
type Opcode int

const (
	Unknown Opcode = iota
	CCheckVersion
	SCheckVersion
	CGetUserList
	SGetUserList
	CCheckUserName
	SCheckUserName
	CCanCreateUser
	SCanCreateUser
)

var names = map[Opcode]string{
	Unknown:        "UNKNOWN",
	CCheckVersion:  "C_CHECK_VERSION",
	SCheckVersion:  "S_CHECK_VERSION",
	CGetUserList:   "C_GET_USER_LIST",
	SGetUserList:   "S_GET_USER_LIST",
	CCheckUserName: "C_CHECK_USER_NAME",
	SCheckUserName: "S_CHECK_USER_NAME",
	CCanCreateUser: "C_CAN_CREATE_USER",
	SCanCreateUser: "S_CAN_CREATE_USER",
}

var byName = func() map[string]Opcode {
	m := make(map[string]Opcode, len(names))
	for op, name := range names {
		m[name] = op
	}
	return m
}()

func (o Opcode) String() string {
	if name, ok := names[o]; ok {
		return name
	}
	return fmt.Sprintf("Opcode(%d)", int(o))
}

// ParseName resolves a name as it appears in the mapping file to its
// Opcode. It returns false for names the codebase doesn't implement yet —
// callers tolerate that as a sparse table, not an error.
func ParseName(name string) (Opcode, bool) {
	op, ok := byName[name]
	return op, ok
}
