package client

import (
	"context"
	"fmt"

	"github.com/taskpilot/taskpilot/internal/api"
)

// GetAutoApprove fetches the full auto-approve flag record.
func (c *Client) GetAutoApprove(ctx context.Context) (*api.AutoApproveSettings, error) {
	var settings api.AutoApproveSettings
	if err := c.get(ctx, "/api/auto-approve", &settings); err != nil {
		return nil, fmt.Errorf("failed to get auto-approve settings: %w", err)
	}
	return &settings, nil
}

// UpdateAutoApprove applies a partial flag update. Fields left nil keep
// their server-side value; the server returns the merged record.
func (c *Client) UpdateAutoApprove(ctx context.Context, update *api.AutoApproveUpdate) (*api.AutoApproveSettings, error) {
	var settings api.AutoApproveSettings
	if err := c.post(ctx, "/api/auto-approve", update, &settings); err != nil {
		return nil, fmt.Errorf("failed to update auto-approve settings: %w", err)
	}
	return &settings, nil
}

// SetAutoApproveEnabled toggles the master switch without touching the
// per-category flags.
func (c *Client) SetAutoApproveEnabled(ctx context.Context, enabled bool) (*api.AutoApproveSettings, error) {
	var settings api.AutoApproveSettings
	req := &api.SetEnabledRequest{Enabled: enabled}
	if err := c.post(ctx, "/api/auto-approve/enabled", req, &settings); err != nil {
		return nil, fmt.Errorf("failed to set auto-approve enabled: %w", err)
	}
	return &settings, nil
}
