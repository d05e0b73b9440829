package tools

import "strings"

// Toolset names. A tool registers under exactly one toolset; disabling a
// toolset removes its tools from the server surface entirely.
const (
	ToolsetUsers = "users"
	ToolsetMail  = "mail"
	ToolsetAuth  = "auth"
)

// Tool describes a callable method in the MCP server for registry
// bookkeeping: the method name (e.g. "list_email_messages"), a short
// description, and the toolset it belongs to.
type Tool struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Toolset     string `json:"toolset"`
}

// ToolsetRegistry tracks which toolsets are enabled and which tools were
// registered under them.
type ToolsetRegistry struct {
	Enabled map[string]bool
	tools   map[string]Tool
}

// NewToolsetRegistry creates a registry with the given toolsets enabled.
// Names are trimmed so comma-separated configuration with spaces works.
// An empty list enables everything.
func NewToolsetRegistry(toolsets []string) *ToolsetRegistry {
	enabled := make(map[string]bool)
	for _, t := range toolsets {
		if name := strings.TrimSpace(t); name != "" {
			enabled[name] = true
		}
	}
	return &ToolsetRegistry{
		Enabled: enabled,
		tools:   make(map[string]Tool),
	}
}

// ToolsetEnabled reports whether a toolset should register its tools.
func (r *ToolsetRegistry) ToolsetEnabled(name string) bool {
	if len(r.Enabled) == 0 {
		return true
	}
	return r.Enabled[name]
}

// RegisterTool records a tool in the registry.
func (r *ToolsetRegistry) RegisterTool(tool Tool) {
	r.tools[tool.Name] = tool
}

// ListTools returns all registered tools.
func (r *ToolsetRegistry) ListTools() []Tool {
	tools := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		tools = append(tools, t)
	}
	return tools
}
