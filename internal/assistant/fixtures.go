package assistant

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/taskpilot/taskpilot/internal/api"
)

// Fixtures seed the simulator's configuration surface: available modes,
// profiles and tool integrations, plus initial auto-approve flags. Sections
// missing from a fixtures file fall back to the built-in defaults.
type Fixtures struct {
	Modes       []*api.Mode              `yaml:"modes"`
	Profiles    []*api.Profile           `yaml:"profiles"`
	MCPs        []*api.MCPDetails        `yaml:"mcps"`
	AutoApprove *api.AutoApproveSettings `yaml:"auto_approve"`
}

// DefaultFixtures mirrors the stock configuration of the assistant the
// simulator stands in for.
func DefaultFixtures() *Fixtures {
	return &Fixtures{
		Modes: []*api.Mode{
			{Slug: "code", Name: "Code"},
			{Slug: "architect", Name: "Architect"},
			{Slug: "ask", Name: "Ask"},
			{Slug: "debug", Name: "Debug"},
		},
		Profiles: []*api.Profile{
			{Name: "default"},
			{Name: "fast"},
		},
		MCPs: []*api.MCPDetails{
			{
				MCP:         api.MCP{ID: "filesystem", Name: "Filesystem", Status: api.MCPEnabled},
				Description: "Read and write files in the workspace",
				Tools: []api.MCPTool{
					{Name: "read_file", Description: "Read a file"},
					{Name: "write_file", Description: "Write a file"},
					{Name: "list_directory", Description: "List a directory"},
				},
			},
			{
				MCP:         api.MCP{ID: "fetch", Name: "Fetch", Status: api.MCPEnabled},
				Description: "Fetch web content",
				Tools: []api.MCPTool{
					{Name: "fetch_url", Description: "Fetch a URL and return its content"},
				},
			},
		},
		AutoApprove: &api.AutoApproveSettings{},
	}
}

// LoadFixtures reads a fixtures file and fills missing sections from the
// defaults.
func LoadFixtures(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures: %w", err)
	}
	var fx Fixtures
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}
	defaults := DefaultFixtures()
	if len(fx.Modes) == 0 {
		fx.Modes = defaults.Modes
	}
	if len(fx.Profiles) == 0 {
		fx.Profiles = defaults.Profiles
	}
	if len(fx.MCPs) == 0 {
		fx.MCPs = defaults.MCPs
	}
	if fx.AutoApprove == nil {
		fx.AutoApprove = defaults.AutoApprove
	}
	for _, m := range fx.MCPs {
		if m.Status == "" {
			m.Status = api.MCPEnabled
		}
	}
	return &fx, nil
}
