package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/taskpilot/taskpilot/internal/api"
	"github.com/taskpilot/taskpilot/internal/client"
)

func handleModeList(ctx context.Context, c *client.Client) error {
	modes, err := c.ListModes(ctx)
	if err != nil {
		return err
	}
	for _, m := range modes {
		fmt.Printf("%-12s %s\n", m.Slug, m.Name)
	}
	return nil
}

func handleModeCurrent(ctx context.Context, c *client.Client) error {
	m, err := c.CurrentMode(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s (%s)\n", m.Slug, m.Name)
	return nil
}

func handleModeSwitch(ctx context.Context, c *client.Client, slug string) error {
	m, err := c.SwitchMode(ctx, slug)
	if err != nil {
		return err
	}
	fmt.Printf("Switched to mode %s (%s)\n", m.Slug, m.Name)
	return nil
}

func handleProfileList(ctx context.Context, c *client.Client) error {
	profiles, err := c.ListProfiles(ctx)
	if err != nil {
		return err
	}
	for _, p := range profiles {
		fmt.Println(p.Name)
	}
	return nil
}

func handleProfileCurrent(ctx context.Context, c *client.Client) error {
	p, err := c.CurrentProfile(ctx)
	if err != nil {
		return err
	}
	fmt.Println(p.Name)
	return nil
}

func handleProfileSwitch(ctx context.Context, c *client.Client, name string) error {
	p, err := c.SwitchProfile(ctx, name)
	if err != nil {
		return err
	}
	fmt.Printf("Switched to profile %s\n", p.Name)
	return nil
}

func printAutoApprove(s *api.AutoApproveSettings) {
	fmt.Printf("enabled:   %v\n", s.AutoApprovalEnabled)
	fmt.Printf("read-only: %v\n", s.AlwaysAllowReadOnly)
	fmt.Printf("write:     %v\n", s.AlwaysAllowWrite)
	fmt.Printf("execute:   %v\n", s.AlwaysAllowExecute)
	fmt.Printf("browser:   %v\n", s.AlwaysAllowBrowser)
	fmt.Printf("mcp:       %v\n", s.AlwaysAllowMcp)
	fmt.Printf("resubmit:  %v\n", s.AlwaysApproveResubmit)
}

func handleAutoApproveShow(ctx context.Context, c *client.Client) error {
	s, err := c.GetAutoApprove(ctx)
	if err != nil {
		return err
	}
	printAutoApprove(s)
	return nil
}

func handleAutoApproveEnabled(ctx context.Context, c *client.Client, enabled bool) error {
	s, err := c.SetAutoApproveEnabled(ctx, enabled)
	if err != nil {
		return err
	}
	printAutoApprove(s)
	return nil
}

func handleAutoApproveSet(ctx context.Context, c *client.Client) error {
	update := &api.AutoApproveUpdate{}
	for _, f := range []struct {
		raw  string
		name string
		dst  **bool
	}{
		{*autoApproveSetEnabled, "enabled", &update.AutoApprovalEnabled},
		{*autoApproveSetReadOnly, "read-only", &update.AlwaysAllowReadOnly},
		{*autoApproveSetWrite, "write", &update.AlwaysAllowWrite},
		{*autoApproveSetExecute, "execute", &update.AlwaysAllowExecute},
		{*autoApproveSetBrowser, "browser", &update.AlwaysAllowBrowser},
		{*autoApproveSetMcp, "mcp", &update.AlwaysAllowMcp},
		{*autoApproveSetResubmit, "resubmit", &update.AlwaysApproveResubmit},
	} {
		if f.raw == "" {
			continue
		}
		v, err := strconv.ParseBool(f.raw)
		if err != nil {
			return fmt.Errorf("invalid value for --%s: %q", f.name, f.raw)
		}
		*f.dst = &v
	}
	s, err := c.UpdateAutoApprove(ctx, update)
	if err != nil {
		return err
	}
	printAutoApprove(s)
	return nil
}
