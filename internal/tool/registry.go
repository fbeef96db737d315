package tool

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/aura-ai/aura/internal/provider"
)

// Schema is a tool's name paired with its JSON Schema, returned by Registry.Schemas.
type Schema struct {
	Name   string
	Schema json.RawMessage
}

// Registry holds registered tools.
// It is instance-based (not global) for better testability.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// Register adds a tool to the registry.
// It returns ErrDuplicateTool if a tool with the same name is already registered.
func (r *Registry) Register(t Tool) error {
	name := strings.TrimSpace(t.Name())
	if name == "" {
		return ErrEmptyToolName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, name)
	}

	r.tools[name] = t
	return nil
}

// Get returns the tool with the given name, or ErrToolNotFound.
func (r *Registry) Get(name string) (Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	return t, nil
}

// Schemas returns all registered tool schemas sorted by name.
func (r *Registry) Schemas() []Schema {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schemas := make([]Schema, 0, len(r.tools))
	for name, t := range r.tools {
		schemas = append(schemas, Schema{
			Name:   name,
			Schema: t.Schema(),
		})
	}
	slices.SortFunc(schemas, func(a, b Schema) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return schemas
}

// Names returns all registered tool names sorted alphabetically.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Definitions returns tool definitions in the form the provider sends to
// the model, sorted by name.
func (r *Registry) Definitions() []provider.ToolDefinition {
	schemas := r.Schemas()

	defs := make([]provider.ToolDefinition, 0, len(schemas))
	for _, s := range schemas {
		t, err := r.Get(s.Name)
		if err != nil {
			continue
		}
		defs = append(defs, provider.ToolDefinition{
			Name:        s.Name,
			Description: t.Description(),
			Parameters:  s.Schema,
		})
	}
	return defs
}

// Execute looks up a tool and runs it.
func (r *Registry) Execute(ctx context.Context, name string, args json.RawMessage) (Output, error) {
	t, err := r.Get(name)
	if err != nil {
		return Output{}, err
	}
	return t.Execute(ctx, args)
}
