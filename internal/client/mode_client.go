package client

import (
	"context"
	"fmt"

	"github.com/taskpilot/taskpilot/internal/api"
)

// ListModes lists the modes the assistant can operate in.
func (c *Client) ListModes(ctx context.Context) ([]*api.Mode, error) {
	var modes []*api.Mode
	if err := c.get(ctx, "/api/modes", &modes); err != nil {
		return nil, fmt.Errorf("failed to list modes: %w", err)
	}
	return modes, nil
}

// CurrentMode fetches the active mode.
func (c *Client) CurrentMode(ctx context.Context) (*api.Mode, error) {
	var mode api.Mode
	if err := c.get(ctx, "/api/modes/current", &mode); err != nil {
		return nil, fmt.Errorf("failed to get current mode: %w", err)
	}
	return &mode, nil
}

// SwitchMode makes the mode with the given slug current.
func (c *Client) SwitchMode(ctx context.Context, slug string) (*api.Mode, error) {
	var mode api.Mode
	req := &api.SwitchModeRequest{Mode: slug}
	if err := c.post(ctx, "/api/modes/switch", req, &mode); err != nil {
		return nil, fmt.Errorf("failed to switch mode: %w", err)
	}
	return &mode, nil
}

// ListProfiles lists the available configuration profiles.
func (c *Client) ListProfiles(ctx context.Context) ([]*api.Profile, error) {
	var profiles []*api.Profile
	if err := c.get(ctx, "/api/profiles", &profiles); err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, nil
}

// CurrentProfile fetches the active profile.
func (c *Client) CurrentProfile(ctx context.Context) (*api.Profile, error) {
	var profile api.Profile
	if err := c.get(ctx, "/api/profiles/current", &profile); err != nil {
		return nil, fmt.Errorf("failed to get current profile: %w", err)
	}
	return &profile, nil
}

// SwitchProfile makes the named profile current.
func (c *Client) SwitchProfile(ctx context.Context, name string) (*api.Profile, error) {
	var profile api.Profile
	req := &api.SwitchProfileRequest{Name: name}
	if err := c.post(ctx, "/api/profiles/switch", req, &profile); err != nil {
		return nil, fmt.Errorf("failed to switch profile: %w", err)
	}
	return &profile, nil
}
