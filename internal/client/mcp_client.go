package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/taskpilot/taskpilot/internal/api"
)

// ListMCPs lists the registered tool integrations with their status.
func (c *Client) ListMCPs(ctx context.Context) ([]*api.MCP, error) {
	var mcps []*api.MCP
	if err := c.get(ctx, "/api/mcps", &mcps); err != nil {
		return nil, fmt.Errorf("failed to list MCPs: %w", err)
	}
	return mcps, nil
}

// GetMCP fetches the full metadata of one tool integration.
func (c *Client) GetMCP(ctx context.Context, mcpID string) (*api.MCPDetails, error) {
	var details api.MCPDetails
	if err := c.get(ctx, "/api/mcps/"+url.PathEscape(mcpID), &details); err != nil {
		return nil, fmt.Errorf("failed to get MCP details: %w", err)
	}
	return &details, nil
}

// SetMCPStatus enables or disables a tool integration.
func (c *Client) SetMCPStatus(ctx context.Context, mcpID string, enabled bool) (*api.MCPDetails, error) {
	var details api.MCPDetails
	req := &api.SetEnabledRequest{Enabled: enabled}
	if err := c.post(ctx, "/api/mcps/"+url.PathEscape(mcpID)+"/status", req, &details); err != nil {
		return nil, fmt.Errorf("failed to set MCP status: %w", err)
	}
	return &details, nil
}
