package tui

import (
	"cpm/config"
	"cpm/config/models"
)

// ProfilesLoadedMsg is sent when the registry is loaded
type ProfilesLoadedMsg struct {
	Profiles []models.Profile
	Active   string
}

// ProfileSwitchedMsg is sent when a switch completes
type ProfileSwitchedMsg struct {
	Name string
	Err  error
}

// ProfileAddedMsg is sent when a profile is added
type ProfileAddedMsg struct {
	Profile   models.Profile
	Activated bool // First profile, activated on add
	Err       error
}

// ProfileDeletedMsg is sent when a profile is removed
type ProfileDeletedMsg struct {
	Result config.RemoveResult
	Err    error
}

// ProfileClearedMsg is sent when the active profile is cleared
type ProfileClearedMsg struct {
	Err error
}

// errMsg is an error message type
type errMsg string
