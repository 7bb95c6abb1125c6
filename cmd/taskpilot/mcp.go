package main

import (
	"context"
	"fmt"

	"github.com/taskpilot/taskpilot/internal/api"
	"github.com/taskpilot/taskpilot/internal/client"
)

func mcpStatusLabel(s api.MCPStatus) string {
	if s == api.MCPEnabled {
		return statusCompleted.Sprint(s)
	}
	return statusError.Sprint(s)
}

func handleMCPList(ctx context.Context, c *client.Client) error {
	mcps, err := c.ListMCPs(ctx)
	if err != nil {
		return err
	}
	if len(mcps) == 0 {
		fmt.Println("No MCPs configured.")
		return nil
	}
	for _, m := range mcps {
		fmt.Printf("%-12s %-20s %s\n", m.ID, m.Name, mcpStatusLabel(m.Status))
	}
	return nil
}

func handleMCPShow(ctx context.Context, c *client.Client, id string) error {
	m, err := c.GetMCP(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("%s (%s) %s\n", m.Name, m.ID, mcpStatusLabel(m.Status))
	if m.Description != "" {
		fmt.Println(m.Description)
	}
	for _, tool := range m.Tools {
		fmt.Printf("  %-16s %s\n", tool.Name, tool.Description)
	}
	return nil
}

func handleMCPStatus(ctx context.Context, c *client.Client, id string, enabled bool) error {
	m, err := c.SetMCPStatus(ctx, id, enabled)
	if err != nil {
		return err
	}
	fmt.Printf("%s is now %s\n", m.Name, mcpStatusLabel(m.Status))
	return nil
}
