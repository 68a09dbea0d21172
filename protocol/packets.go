package protocol

import (
	"fmt"

	"github.com/teraserver/gamecore/opcode"
)

// VersionEntry is one (index, value) pair from the client's version
// handshake list.
type VersionEntry struct {
	Index uint32
	Value uint32
}

// CCheckVersion is the client's version handshake request.
type CCheckVersion struct {
	Versions []VersionEntry
}

// SCheckVersion is the server's version handshake acknowledgement.
type SCheckVersion struct {
	Ok bool
}

// CGetUserList requests the account's character list. It carries no body.
type CGetUserList struct{}

// CustomString is one (id, string) pair nested inside a character record —
// the one place in the catalogue where a variable-length array is itself
// nested inside another variable-length array, exercising the codec's
// support for that shape.
type CustomString struct {
	ID     uint32
	String string
}

// SGetUserListCharacter carries one character's full list entry. Cosmetic
// customization fields the reference implementation leaves as opaque,
// unused numeric slots (model/dye/style variants) are consolidated into
// Cosmetics rather than given ~30 individually meaningless names — see
// DESIGN.md for this simplification; every field that gates gameplay logic
// (identity, stats, equipment, deletion state) keeps its own name.
type SGetUserListCharacter struct {
	CustomStrings []CustomString
	Name          string
	Details       []byte // fixed 32-byte appearance detail blob
	Shape         []byte // fixed 66-byte body shape blob
	GuildName     string

	DBID   uint32
	Gender uint8
	Race   uint8
	Class  uint8
	Level  int32
	HP     int32
	MP     int32

	WorldID        int32
	GuardID        int32
	SectionID      int32
	LastLogoutTime uint32

	IsDeleting      bool
	DeleteTime      int32
	DeleteRemainSec int32

	// Equipment holds the twelve equipment model-id slots in reference
	// order: weapon, earring1, earring2, body, hand, feet, unk_item7,
	// ring1, ring2, underwear, head, face.
	Equipment [12]int32
	Appearance [8]byte

	IsSecondCharacter bool
	AdminLevel        int32
	IsBanned          bool
	BanEndTime        uint32
	BanRemainSec      int32
	RenameNeeded      int32

	Cosmetics [40]int32

	ShowFace               bool
	StyleHeadScale         float32
	UsedStyleHeadTransform bool
	IsNewCharacter         bool
	TutorialState          int32
	ShowStyle              bool
	Appearance2            int32
	AchievementPoints      int32
	Laurel                 int32
	Position               int32
	GuildLogoID            int32
	AwakeningLevel         int32
	HasBrokerSales         bool
}

// SGetUserList is the full character list response for one account.
type SGetUserList struct {
	Characters                   []SGetUserListCharacter
	Veteran                      bool
	BonusBufSec                  int32
	MaxCharacters                int32
	First                        bool
	More                         bool
	LeftDelTimeAccountOver       int32
	DeletionSectionClassifyLevel int32
	DeleteCharacterExpireHour1   int32
	DeleteCharacterExpireHour2   int32
}

// CCheckUserName asks whether a candidate character name is usable.
type CCheckUserName struct {
	Name string
}

// SCheckUserName answers CCheckUserName.
type SCheckUserName struct {
	Ok bool
}

// CCanCreateUser asks whether the account may create another character. It
// carries no body.
type CCanCreateUser struct{}

// SCanCreateUser answers CCanCreateUser.
type SCanCreateUser struct {
	Ok bool
}

func encodeCCheckVersion(p CCheckVersion) []byte {
	w := NewWriter()
	ref := w.ReserveRef()
	if len(p.Versions) == 0 {
		w.PatchUint16(ref, 0)
		w.PatchUint16(ref+2, 0)
		return w.Bytes()
	}
	arr := w.BeginArray()
	for _, v := range p.Versions {
		arr.StartRecord()
		w.WriteUint32(v.Index)
		w.WriteUint32(v.Value)
	}
	arr.Finish(ref)
	return w.Bytes()
}

func decodeCCheckVersion(body []byte) (CCheckVersion, error) {
	r := NewReader(body)
	offset, count, err := r.ReadArrayRef()
	if err != nil {
		return CCheckVersion{}, err
	}
	p := CCheckVersion{Versions: make([]VersionEntry, 0, count)}
	err = WalkArray(body, offset, count, func(rec *Reader) error {
		idx, err := rec.ReadUint32()
		if err != nil {
			return err
		}
		val, err := rec.ReadUint32()
		if err != nil {
			return err
		}
		p.Versions = append(p.Versions, VersionEntry{Index: idx, Value: val})
		return nil
	})
	return p, err
}

func encodeSCheckVersion(p SCheckVersion) []byte {
	w := NewWriter()
	w.WriteBool(p.Ok)
	return w.Bytes()
}

func decodeSCheckVersion(body []byte) (SCheckVersion, error) {
	r := NewReader(body)
	ok, err := r.ReadBool()
	return SCheckVersion{Ok: ok}, err
}

func encodeCustomString(w *Writer, arr *ArrayWriter, cs CustomString) {
	arr.StartRecord()
	w.WriteUint32(cs.ID)
	ref := w.ReserveRef()
	w.WriteStringData(ref, cs.String)
}

func encodeSGetUserListCharacter(w *Writer, arr *ArrayWriter, c SGetUserListCharacter) {
	arr.StartRecord()

	csRef := w.ReserveRef()
	nameRef := w.ReserveRef()
	w.WriteBytes(padTo(c.Details, 32))
	w.WriteBytes(padTo(c.Shape, 66))
	guildRef := w.ReserveRef()

	w.WriteUint32(c.DBID)
	w.WriteUint8(c.Gender)
	w.WriteUint8(c.Race)
	w.WriteUint8(c.Class)
	w.WriteInt32(c.Level)
	w.WriteInt32(c.HP)
	w.WriteInt32(c.MP)

	w.WriteInt32(c.WorldID)
	w.WriteInt32(c.GuardID)
	w.WriteInt32(c.SectionID)
	w.WriteUint32(c.LastLogoutTime)

	w.WriteBool(c.IsDeleting)
	w.WriteInt32(c.DeleteTime)
	w.WriteInt32(c.DeleteRemainSec)

	for _, v := range c.Equipment {
		w.WriteInt32(v)
	}
	w.WriteBytes(c.Appearance[:])

	w.WriteBool(c.IsSecondCharacter)
	w.WriteInt32(c.AdminLevel)
	w.WriteBool(c.IsBanned)
	w.WriteUint32(c.BanEndTime)
	w.WriteInt32(c.BanRemainSec)
	w.WriteInt32(c.RenameNeeded)

	for _, v := range c.Cosmetics {
		w.WriteInt32(v)
	}

	w.WriteBool(c.ShowFace)
	w.WriteFloat32(c.StyleHeadScale)
	w.WriteBool(c.UsedStyleHeadTransform)
	w.WriteBool(c.IsNewCharacter)
	w.WriteInt32(c.TutorialState)
	w.WriteBool(c.ShowStyle)
	w.WriteInt32(c.Appearance2)
	w.WriteInt32(c.AchievementPoints)
	w.WriteInt32(c.Laurel)
	w.WriteInt32(c.Position)
	w.WriteInt32(c.GuildLogoID)
	w.WriteInt32(c.AwakeningLevel)
	w.WriteBool(c.HasBrokerSales)

	if len(c.CustomStrings) == 0 {
		w.PatchUint16(csRef, 0)
		w.PatchUint16(csRef+2, 0)
	} else {
		csArr := w.BeginArray()
		for _, cs := range c.CustomStrings {
			encodeCustomString(w, csArr, cs)
		}
		csArr.Finish(csRef)
	}
	w.WriteStringData(nameRef, c.Name)
	w.WriteStringData(guildRef, c.GuildName)
}

func padTo(b []byte, n int) []byte {
	out := make([]byte, n)
	copy(out, b)
	return out
}

func decodeSGetUserListCharacter(body []byte, rec *Reader) (SGetUserListCharacter, error) {
	var c SGetUserListCharacter

	csOffset, csCount, err := rec.ReadArrayRef()
	if err != nil {
		return c, err
	}
	nameOffset, err := rec.ReadUint16()
	if err != nil {
		return c, err
	}
	nameLen, err := rec.ReadUint16()
	if err != nil {
		return c, err
	}
	c.Details, err = rec.ReadBytes(32)
	if err != nil {
		return c, err
	}
	c.Shape, err = rec.ReadBytes(66)
	if err != nil {
		return c, err
	}
	guildOffset, err := rec.ReadUint16()
	if err != nil {
		return c, err
	}
	guildLen, err := rec.ReadUint16()
	if err != nil {
		return c, err
	}

	if c.DBID, err = rec.ReadUint32(); err != nil {
		return c, err
	}
	if c.Gender, err = rec.ReadUint8(); err != nil {
		return c, err
	}
	if c.Race, err = rec.ReadUint8(); err != nil {
		return c, err
	}
	if c.Class, err = rec.ReadUint8(); err != nil {
		return c, err
	}
	if c.Level, err = rec.ReadInt32(); err != nil {
		return c, err
	}
	if c.HP, err = rec.ReadInt32(); err != nil {
		return c, err
	}
	if c.MP, err = rec.ReadInt32(); err != nil {
		return c, err
	}

	if c.WorldID, err = rec.ReadInt32(); err != nil {
		return c, err
	}
	if c.GuardID, err = rec.ReadInt32(); err != nil {
		return c, err
	}
	if c.SectionID, err = rec.ReadInt32(); err != nil {
		return c, err
	}
	if c.LastLogoutTime, err = rec.ReadUint32(); err != nil {
		return c, err
	}

	if c.IsDeleting, err = rec.ReadBool(); err != nil {
		return c, err
	}
	if c.DeleteTime, err = rec.ReadInt32(); err != nil {
		return c, err
	}
	if c.DeleteRemainSec, err = rec.ReadInt32(); err != nil {
		return c, err
	}

	for i := range c.Equipment {
		if c.Equipment[i], err = rec.ReadInt32(); err != nil {
			return c, err
		}
	}
	appearance, err := rec.ReadBytes(8)
	if err != nil {
		return c, err
	}
	copy(c.Appearance[:], appearance)

	if c.IsSecondCharacter, err = rec.ReadBool(); err != nil {
		return c, err
	}
	if c.AdminLevel, err = rec.ReadInt32(); err != nil {
		return c, err
	}
	if c.IsBanned, err = rec.ReadBool(); err != nil {
		return c, err
	}
	if c.BanEndTime, err = rec.ReadUint32(); err != nil {
		return c, err
	}
	if c.BanRemainSec, err = rec.ReadInt32(); err != nil {
		return c, err
	}
	if c.RenameNeeded, err = rec.ReadInt32(); err != nil {
		return c, err
	}

	for i := range c.Cosmetics {
		if c.Cosmetics[i], err = rec.ReadInt32(); err != nil {
			return c, err
		}
	}

	if c.ShowFace, err = rec.ReadBool(); err != nil {
		return c, err
	}
	if c.StyleHeadScale, err = rec.ReadFloat32(); err != nil {
		return c, err
	}
	if c.UsedStyleHeadTransform, err = rec.ReadBool(); err != nil {
		return c, err
	}
	if c.IsNewCharacter, err = rec.ReadBool(); err != nil {
		return c, err
	}
	if c.TutorialState, err = rec.ReadInt32(); err != nil {
		return c, err
	}
	if c.ShowStyle, err = rec.ReadBool(); err != nil {
		return c, err
	}
	if c.Appearance2, err = rec.ReadInt32(); err != nil {
		return c, err
	}
	if c.AchievementPoints, err = rec.ReadInt32(); err != nil {
		return c, err
	}
	if c.Laurel, err = rec.ReadInt32(); err != nil {
		return c, err
	}
	if c.Position, err = rec.ReadInt32(); err != nil {
		return c, err
	}
	if c.GuildLogoID, err = rec.ReadInt32(); err != nil {
		return c, err
	}
	if c.AwakeningLevel, err = rec.ReadInt32(); err != nil {
		return c, err
	}
	if c.HasBrokerSales, err = rec.ReadBool(); err != nil {
		return c, err
	}

	c.Name, err = readStringAt(body, nameOffset, nameLen)
	if err != nil {
		return c, err
	}
	c.GuildName, err = readStringAt(body, guildOffset, guildLen)
	if err != nil {
		return c, err
	}

	c.CustomStrings = make([]CustomString, 0, csCount)
	err = WalkArray(body, csOffset, csCount, func(csRec *Reader) error {
		id, err := csRec.ReadUint32()
		if err != nil {
			return err
		}
		s, err := csRec.ReadStringRef()
		if err != nil {
			return err
		}
		c.CustomStrings = append(c.CustomStrings, CustomString{ID: id, String: s})
		return nil
	})
	return c, err
}

func encodeSGetUserList(p SGetUserList) []byte {
	w := NewWriter()
	charsRef := w.ReserveRef()
	w.WriteBool(p.Veteran)
	w.WriteInt32(p.BonusBufSec)
	w.WriteInt32(p.MaxCharacters)
	w.WriteBool(p.First)
	w.WriteBool(p.More)
	w.WriteInt32(p.LeftDelTimeAccountOver)
	w.WriteInt32(p.DeletionSectionClassifyLevel)
	w.WriteInt32(p.DeleteCharacterExpireHour1)
	w.WriteInt32(p.DeleteCharacterExpireHour2)

	if len(p.Characters) == 0 {
		w.PatchUint16(charsRef, 0)
		w.PatchUint16(charsRef+2, 0)
		return w.Bytes()
	}
	arr := w.BeginArray()
	for _, c := range p.Characters {
		encodeSGetUserListCharacter(w, arr, c)
	}
	arr.Finish(charsRef)
	return w.Bytes()
}

func decodeSGetUserList(body []byte) (SGetUserList, error) {
	r := NewReader(body)
	charsOffset, charsCount, err := r.ReadArrayRef()
	if err != nil {
		return SGetUserList{}, err
	}

	var p SGetUserList
	if p.Veteran, err = r.ReadBool(); err != nil {
		return p, err
	}
	if p.BonusBufSec, err = r.ReadInt32(); err != nil {
		return p, err
	}
	if p.MaxCharacters, err = r.ReadInt32(); err != nil {
		return p, err
	}
	if p.First, err = r.ReadBool(); err != nil {
		return p, err
	}
	if p.More, err = r.ReadBool(); err != nil {
		return p, err
	}
	if p.LeftDelTimeAccountOver, err = r.ReadInt32(); err != nil {
		return p, err
	}
	if p.DeletionSectionClassifyLevel, err = r.ReadInt32(); err != nil {
		return p, err
	}
	if p.DeleteCharacterExpireHour1, err = r.ReadInt32(); err != nil {
		return p, err
	}
	if p.DeleteCharacterExpireHour2, err = r.ReadInt32(); err != nil {
		return p, err
	}

	p.Characters = make([]SGetUserListCharacter, 0, charsCount)
	err = WalkArray(body, charsOffset, charsCount, func(rec *Reader) error {
		c, err := decodeSGetUserListCharacter(body, rec)
		if err != nil {
			return err
		}
		p.Characters = append(p.Characters, c)
		return nil
	})
	return p, err
}

func encodeCCheckUserName(p CCheckUserName) []byte {
	w := NewWriter()
	ref := w.ReserveRef()
	w.WriteStringData(ref, p.Name)
	return w.Bytes()
}

func decodeCCheckUserName(body []byte) (CCheckUserName, error) {
	r := NewReader(body)
	name, err := r.ReadStringRef()
	return CCheckUserName{Name: name}, err
}

func encodeSCheckUserName(p SCheckUserName) []byte {
	w := NewWriter()
	w.WriteBool(p.Ok)
	return w.Bytes()
}

func decodeSCheckUserName(body []byte) (SCheckUserName, error) {
	r := NewReader(body)
	ok, err := r.ReadBool()
	return SCheckUserName{Ok: ok}, err
}

func encodeSCanCreateUser(p SCanCreateUser) []byte {
	w := NewWriter()
	w.WriteBool(p.Ok)
	return w.Bytes()
}

func decodeSCanCreateUser(body []byte) (SCanCreateUser, error) {
	r := NewReader(body)
	ok, err := r.ReadBool()
	return SCanCreateUser{Ok: ok}, err
}

// Encode serializes a known packet value to its body bytes, keyed by op.
func Encode(op opcode.Opcode, packet any) ([]byte, error) {
	switch op {
	case opcode.CCheckVersion:
		return encodeCCheckVersion(packet.(CCheckVersion)), nil
	case opcode.SCheckVersion:
		return encodeSCheckVersion(packet.(SCheckVersion)), nil
	case opcode.CGetUserList:
		return nil, nil
	case opcode.SGetUserList:
		return encodeSGetUserList(packet.(SGetUserList)), nil
	case opcode.CCheckUserName:
		return encodeCCheckUserName(packet.(CCheckUserName)), nil
	case opcode.SCheckUserName:
		return encodeSCheckUserName(packet.(SCheckUserName)), nil
	case opcode.CCanCreateUser:
		return nil, nil
	case opcode.SCanCreateUser:
		return encodeSCanCreateUser(packet.(SCanCreateUser)), nil
	default:
		return nil, fmt.Errorf("protocol: no encoder registered for %v", op)
	}
}

// Decode parses body bytes into the packet value matching op.
func Decode(op opcode.Opcode, body []byte) (any, error) {
	switch op {
	case opcode.CCheckVersion:
		return decodeCCheckVersion(body)
	case opcode.SCheckVersion:
		return decodeSCheckVersion(body)
	case opcode.CGetUserList:
		return CGetUserList{}, nil
	case opcode.SGetUserList:
		return decodeSGetUserList(body)
	case opcode.CCheckUserName:
		return decodeCCheckUserName(body)
	case opcode.SCheckUserName:
		return decodeSCheckUserName(body)
	case opcode.CCanCreateUser:
		return CCanCreateUser{}, nil
	case opcode.SCanCreateUser:
		return decodeSCanCreateUser(body)
	default:
		return nil, fmt.Errorf("protocol: no decoder registered for %v", op)
	}
}
