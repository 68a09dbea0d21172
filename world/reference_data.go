package world

import "github.com/teraserver/gamecore/protocol"

// referenceUserList is the hardcoded character list response, carried over
// verbatim from original_source/ecs/system/user_manager.rs's handle_user_list
// mock pending real database-backed character storage (same status as the
// original: "Just a mock. Proper DB handling comes later.").
func referenceUserList() protocol.SGetUserList {
	return protocol.SGetUserList{
		Characters: []protocol.SGetUserListCharacter{
			{
				CustomStrings: []protocol.CustomString{{ID: 254312, String: "Pantsu"}},
				Name:          "Almetica",
				Details: []byte{
					0, 7, 0, 12, 0, 0, 0, 0, 26, 24, 20, 0, 0, 13, 7, 0,
					16, 0, 16, 16, 0, 0, 0, 14, 17, 29, 12, 24, 26, 16, 7, 3,
				},
				Shape: []byte{
					1, 19, 16, 19, 19, 16, 19, 19, 19, 16, 16, 16, 16, 15, 15, 15,
					16, 19, 10, 0, 22, 23, 9, 0, 0, 0, 0, 0, 0, 0, 0, 0,
					0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
					0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
					0, 0,
				},
				GuildName:       "",
				DBID:            2000131,
				Gender:          genderFemale,
				Race:            raceElinPopori,
				Class:           classLancer,
				Level:           65,
				HP:              121111,
				MP:              2000,
				WorldID:         1,
				GuardID:         2,
				SectionID:       8,
				LastLogoutTime:  1584074481,
				DeleteTime:      86400,
				DeleteRemainSec: -1585902611,
				Equipment: [12]int32{
					28369,  // weapon
					96399,  // earring1
					96398,  // earring2
					96281,  // body
					96283,  // hand
					96285,  // feet
					0,      // unk_item7
					96392,  // ring1
					96391,  // ring2
					179035, // underwear
					50056,  // head
					5,      // face
				},
				AdminLevel:        0,
				BanRemainSec:      -1585989011,
				AchievementPoints: 13565,
				GuildLogoID:       4521,
				ShowFace:          true,
				StyleHeadScale:    1.0,
				ShowStyle:         true,
				Appearance2:       100,
				Position:          1,
				Cosmetics: [40]int32{
					0, 0, 177018, 0, 0, 170029, 177761, 0, 421075260, // weapon/body/head style slots
				},
			},
		},
		MaxCharacters:                12,
		First:                        true,
		DeletionSectionClassifyLevel: 40,
		DeleteCharacterExpireHour2:   24,
	}
}

// Gender/Race/Class numeric values are opaque client enums; only the three
// this reference character uses are named (Female / ElinPopori / Lancer).
const (
	genderFemale   = 1
	raceElinPopori = 1
	classLancer    = 1
)
