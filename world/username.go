package world

import "regexp"

// validUserName matches the client's limited font: alphanumeric only.
// Grounded on original_source/ecs/system/user_manager.rs's is_valid_user_name.
var validUserName = regexp.MustCompile(`^[[:alnum:]]+$`)

// IsValidUserName reports whether name is acceptable as a character name.
func IsValidUserName(name string) bool {
	return validUserName.MatchString(name)
}
