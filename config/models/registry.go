package models

import (
	"encoding/json"
	"strconv"

	"cpm/internal/errs"

	"github.com/samber/lo"
)

// Registry is the ordered profile list plus the active pointer
type Registry struct {
	Active   string // Empty means no active profile
	Profiles []Profile
}

// wireRegistry is the on-disk layout of profiles.json
type wireRegistry struct {
	Active   *string   `json:"active"`
	Profiles []Profile `json:"profiles"`
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{Profiles: []Profile{}}
}

// MarshalJSON writes active as null when no profile is active
func (r Registry) MarshalJSON() ([]byte, error) {
	w := wireRegistry{Profiles: r.Profiles}
	if w.Profiles == nil {
		w.Profiles = []Profile{}
	}
	if r.Active != "" {
		active := r.Active
		w.Active = &active
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes profiles.json
func (r *Registry) UnmarshalJSON(data []byte) error {
	var w wireRegistry
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	r.Profiles = w.Profiles
	if r.Profiles == nil {
		r.Profiles = []Profile{}
	}
	r.Active = ""
	if w.Active != nil {
		r.Active = *w.Active
	}
	return nil
}

// Find returns the first profile whose name matches exactly
func (r *Registry) Find(name string) (*Profile, bool) {
	_, idx, ok := lo.FindIndexOf(r.Profiles, func(p Profile) bool {
		return p.Name == name
	})
	if !ok {
		return nil, false
	}
	return &r.Profiles[idx], true
}

// Add appends a profile, rejecting names already present
func (r *Registry) Add(p Profile) error {
	if _, exists := r.Find(p.Name); exists {
		return errs.Duplicate("add", p.Name)
	}
	r.Profiles = append(r.Profiles, p)
	return nil
}

// Remove deletes the named profile preserving the order of the rest.
// The active pointer is left untouched; re-election is the caller's job.
func (r *Registry) Remove(name string) (Profile, error) {
	_, idx, ok := lo.FindIndexOf(r.Profiles, func(p Profile) bool {
		return p.Name == name
	})
	if !ok {
		return Profile{}, errs.NotFound("remove", name)
	}
	removed := r.Profiles[idx]
	r.Profiles = append(r.Profiles[:idx:idx], r.Profiles[idx+1:]...)
	return removed, nil
}

// Resolve maps a 1-based display number or a profile name to a profile name
func (r *Registry) Resolve(nameOrIndex string) (string, bool) {
	if _, ok := r.Find(nameOrIndex); ok {
		return nameOrIndex, true
	}
	if n, err := strconv.Atoi(nameOrIndex); err == nil && n >= 1 && n <= len(r.Profiles) {
		return r.Profiles[n-1].Name, true
	}
	return "", false
}

// ActiveProfile returns the active profile, if one is set and present
func (r *Registry) ActiveProfile() (*Profile, bool) {
	if r.Active == "" {
		return nil, false
	}
	return r.Find(r.Active)
}

// SetActive points the registry at an existing profile
func (r *Registry) SetActive(name string) error {
	if _, ok := r.Find(name); !ok {
		return errs.NotFound("activate", name)
	}
	r.Active = name
	return nil
}

// ClearActive leaves the registry with no active profile
func (r *Registry) ClearActive() {
	r.Active = ""
}

// Names returns profile names in display order
func (r *Registry) Names() []string {
	return lo.Map(r.Profiles, func(p Profile, _ int) string {
		return p.Name
	})
}

// HasDanglingActive reports an active pointer naming a missing profile
func (r *Registry) HasDanglingActive() bool {
	if r.Active == "" {
		return false
	}
	_, ok := r.Find(r.Active)
	return !ok
}
