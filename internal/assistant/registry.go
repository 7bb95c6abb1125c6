package assistant

import (
	"fmt"
	"sync"

	"github.com/taskpilot/taskpilot/internal/api"
	"github.com/taskpilot/taskpilot/pkg/cerr"
)

// Registry holds the simulator's configuration state: modes, profiles,
// auto-approve flags and the MCP registry, together with the server-side
// "current" pointers for mode and profile.
type Registry struct {
	mu             sync.RWMutex
	modes          []*api.Mode
	profiles       []*api.Profile
	mcps           []*api.MCPDetails
	autoApprove    api.AutoApproveSettings
	currentMode    string
	currentProfile string
}

func NewRegistry(fx *Fixtures) *Registry {
	r := &Registry{}
	r.Replace(fx)
	return r
}

// Replace swaps in a new fixture set, keeping the current mode/profile when
// they still exist and falling back to the first entry otherwise.
func (r *Registry) Replace(fx *Fixtures) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modes = fx.Modes
	r.profiles = fx.Profiles
	r.mcps = fx.MCPs
	if fx.AutoApprove != nil {
		r.autoApprove = *fx.AutoApprove
	}
	if r.findMode(r.currentMode) == nil && len(r.modes) > 0 {
		r.currentMode = r.modes[0].Slug
	}
	if r.findProfile(r.currentProfile) == nil && len(r.profiles) > 0 {
		r.currentProfile = r.profiles[0].Name
	}
}

func (r *Registry) findMode(slug string) *api.Mode {
	for _, m := range r.modes {
		if m.Slug == slug {
			return m
		}
	}
	return nil
}

func (r *Registry) findProfile(name string) *api.Profile {
	for _, p := range r.profiles {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func (r *Registry) Modes() []*api.Mode {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*api.Mode, len(r.modes))
	copy(out, r.modes)
	return out
}

func (r *Registry) CurrentMode() (*api.Mode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m := r.findMode(r.currentMode)
	if m == nil {
		return nil, cerr.NewError(cerr.NotFound, "no current mode", nil)
	}
	return m, nil
}

// SwitchMode adopts the mode with the given slug as current.
func (r *Registry) SwitchMode(slug string) (*api.Mode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := r.findMode(slug)
	if m == nil {
		return nil, cerr.NewError(cerr.NotFound, fmt.Sprintf("mode %q not found", slug), nil)
	}
	r.currentMode = slug
	return m, nil
}

// HasMode reports whether slug names a known mode.
func (r *Registry) HasMode(slug string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.findMode(slug) != nil
}

func (r *Registry) Profiles() []*api.Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*api.Profile, len(r.profiles))
	copy(out, r.profiles)
	return out
}

func (r *Registry) CurrentProfile() (*api.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p := r.findProfile(r.currentProfile)
	if p == nil {
		return nil, cerr.NewError(cerr.NotFound, "no current profile", nil)
	}
	return p, nil
}

// SwitchProfile adopts the named profile as current.
func (r *Registry) SwitchProfile(name string) (*api.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.findProfile(name)
	if p == nil {
		return nil, cerr.NewError(cerr.NotFound, fmt.Sprintf("profile %q not found", name), nil)
	}
	r.currentProfile = name
	return p, nil
}

// HasProfile reports whether name names a known profile.
func (r *Registry) HasProfile(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.findProfile(name) != nil
}

func (r *Registry) AutoApprove() api.AutoApproveSettings {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.autoApprove
}

// UpdateAutoApprove merges a partial update into the flag record: nil fields
// keep their current value. Returns the resulting record.
func (r *Registry) UpdateAutoApprove(upd *api.AutoApproveUpdate) api.AutoApproveSettings {
	r.mu.Lock()
	defer r.mu.Unlock()
	apply(&r.autoApprove.AutoApprovalEnabled, upd.AutoApprovalEnabled)
	apply(&r.autoApprove.AlwaysAllowReadOnly, upd.AlwaysAllowReadOnly)
	apply(&r.autoApprove.AlwaysAllowWrite, upd.AlwaysAllowWrite)
	apply(&r.autoApprove.AlwaysAllowExecute, upd.AlwaysAllowExecute)
	apply(&r.autoApprove.AlwaysAllowBrowser, upd.AlwaysAllowBrowser)
	apply(&r.autoApprove.AlwaysAllowMcp, upd.AlwaysAllowMcp)
	apply(&r.autoApprove.AlwaysApproveResubmit, upd.AlwaysApproveResubmit)
	return r.autoApprove
}

// SetAutoApproveEnabled toggles only the master switch.
func (r *Registry) SetAutoApproveEnabled(enabled bool) api.AutoApproveSettings {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.autoApprove.AutoApprovalEnabled = enabled
	return r.autoApprove
}

func apply(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func (r *Registry) MCPs() []*api.MCP {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*api.MCP, 0, len(r.mcps))
	for _, m := range r.mcps {
		mcp := m.MCP
		out = append(out, &mcp)
	}
	return out
}

func (r *Registry) MCP(id string) (*api.MCPDetails, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.findMCP(id)
}

func (r *Registry) findMCP(id string) (*api.MCPDetails, error) {
	for _, m := range r.mcps {
		if m.ID == id {
			copied := *m
			return &copied, nil
		}
	}
	return nil, cerr.NewError(cerr.NotFound, fmt.Sprintf("MCP %q not found", id), nil)
}

// SetMCPStatus toggles the availability of one integration.
func (r *Registry) SetMCPStatus(id string, enabled bool) (*api.MCPDetails, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.mcps {
		if m.ID == id {
			if enabled {
				m.Status = api.MCPEnabled
			} else {
				m.Status = api.MCPDisabled
			}
			copied := *m
			return &copied, nil
		}
	}
	return nil, cerr.NewError(cerr.NotFound, fmt.Sprintf("MCP %q not found", id), nil)
}

// autoApproved reports whether the given action category may proceed without
// operator approval under the current flags.
func (r *Registry) autoApproved(cat actionCategory) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.autoApprove.AutoApprovalEnabled {
		return false
	}
	switch cat {
	case actionReadOnly:
		return r.autoApprove.AlwaysAllowReadOnly
	case actionWrite:
		return r.autoApprove.AlwaysAllowWrite
	case actionExecute:
		return r.autoApprove.AlwaysAllowExecute
	case actionBrowser:
		return r.autoApprove.AlwaysAllowBrowser
	case actionMCP:
		return r.autoApprove.AlwaysAllowMcp
	case actionResubmit:
		return r.autoApprove.AlwaysApproveResubmit
	default:
		return false
	}
}
