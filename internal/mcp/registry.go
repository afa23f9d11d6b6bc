package mcp

import (
	"errors"
	"sort"
	"time"

	"github.com/ppiankov/awscostlens/internal/tools"
)

// ToolSpec is a registered tool.
type ToolSpec struct {
	Name        string
	Description string
	InputSchema map[string]any
	// Timeout overrides the registry default for this tool. Zero keeps the default.
	Timeout time.Duration
	Handler tools.Handler
}

// ToolInfo is the listing view of a tool.
type ToolInfo struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

type ToolRegistry struct {
	tools map[string]ToolSpec
	// timeout bounds each tool call. Zero means no bound.
	timeout time.Duration
}

func NewRegistry(timeout time.Duration) *ToolRegistry {
	return &ToolRegistry{tools: map[string]ToolSpec{}, timeout: timeout}
}

// NewToolRegistry registers every tool bound to d.
func NewToolRegistry(d *tools.Deps, timeout time.Duration) (*ToolRegistry, error) {
	reg := NewRegistry(timeout)
	for _, t := range tools.All(d) {
		if err := reg.Add(ToolSpec{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.InputSchema,
			Handler:     t.Handler,
		}); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func (r *ToolRegistry) Add(spec ToolSpec) error {
	if spec.Name == "" {
		return errors.New("tool name required")
	}
	if spec.Handler == nil {
		return errors.New("tool handler required")
	}
	r.tools[spec.Name] = spec
	return nil
}

func (r *ToolRegistry) List() []ToolInfo {
	infos := make([]ToolInfo, 0, len(r.tools))
	for _, tool := range r.tools {
		infos = append(infos, ToolInfo{Name: tool.Name, Description: tool.Description, InputSchema: tool.InputSchema})
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name < infos[j].Name
	})
	return infos
}

func (r *ToolRegistry) Get(name string) (ToolSpec, bool) {
	spec, ok := r.tools[name]
	return spec, ok
}

func (r *ToolRegistry) Specs() []ToolSpec {
	specs := make([]ToolSpec, 0, len(r.tools))
	for _, tool := range r.tools {
		specs = append(specs, tool)
	}
	sort.Slice(specs, func(i, j int) bool {
		return specs[i].Name < specs[j].Name
	})
	return specs
}

func (r *ToolRegistry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
