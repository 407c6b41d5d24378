// Package tools provides the closed set of agent tools and the
// dispatcher that executes them. The dispatcher is total: every
// invocation returns a well-formed Result, never a raised fault.
package tools

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/synthesistalk/synthesistalk/server/ai"
)

// LLM is the chat completion capability consumed by tools.
type LLM interface {
	Complete(ctx context.Context, messages []ai.Message, maxTokens int) (string, error)
}

// Result represents the outcome of a tool execution.
type Result struct {
	Tool    string         `json:"tool"`
	Success bool           `json:"success"`
	Payload map[string]any `json:"payload,omitempty"`
	Err     string         `json:"error,omitempty"`
}

// Succeed builds a successful result.
func Succeed(tool string, payload map[string]any) *Result {
	return &Result{Tool: tool, Success: true, Payload: payload}
}

// Fail builds a failed result with a human-readable message.
func Fail(tool, msg string) *Result {
	return &Result{Tool: tool, Success: false, Err: msg}
}

// Failf builds a failed result with formatting.
func Failf(tool, format string, args ...any) *Result {
	return Fail(tool, fmt.Sprintf(format, args...))
}

// String serializes the result for the reasoning log.
func (r *Result) String() string {
	if r.Success {
		return fmt.Sprintf("Tool '%s' result: success=%v payload=%v", r.Tool, r.Success, r.Payload)
	}
	return fmt.Sprintf("Tool '%s' result: success=%v error=%s", r.Tool, r.Success, r.Err)
}

// ParamSpec declares which parameter keys a tool accepts and which are
// required. Keys outside Allowed are a parameter mismatch.
type ParamSpec struct {
	Allowed  []string
	Required []string
}

// Allows reports whether key is in the allow-list.
func (s ParamSpec) Allows(key string) bool {
	for _, k := range s.Allowed {
		if k == key {
			return true
		}
	}
	return false
}

// Tool is one member of the fixed tool set.
type Tool interface {
	// Name returns the tool's identifier.
	Name() string

	// Signature returns the call signature shown in the agent's tool menu.
	Signature() string

	// Spec returns the tool's parameter contract.
	Spec() ParamSpec

	// Call executes the tool. Implementations return failure Results
	// instead of errors; panics are caught by the registry.
	Call(ctx context.Context, params map[string]any) *Result
}

// Registry is the fixed name-to-tool mapping.
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool. Duplicate or empty names are rejected.
func (r *Registry) Register(tool Tool) error {
	if tool == nil {
		return fmt.Errorf("tool cannot be nil")
	}
	name := tool.Name()
	if name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool %s already registered", name)
	}
	r.tools[name] = tool
	r.order = append(r.order, name)
	return nil
}

// Get retrieves a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	tool, exists := r.tools[name]
	return tool, exists
}

// Names returns all registered tool names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Menu returns the tool menu shown in reasoning prompts, in
// registration order.
func (r *Registry) Menu() string {
	var sb strings.Builder
	for _, name := range r.order {
		sb.WriteString("- ")
		sb.WriteString(r.tools[name].Signature())
		sb.WriteString("\n")
	}
	return sb.String()
}

// Execute dispatches a tool by name. It never panics and never returns
// nil: unknown tools, parameter mismatches and internal tool failures
// all come back as failure Results.
func (r *Registry) Execute(ctx context.Context, name string, params map[string]any) (result *Result) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("tool execution panicked", "tool", name, "panic", rec)
			result = Failf(name, "Execution error in '%s': %v", name, rec)
		}
	}()

	tool, ok := r.tools[name]
	if !ok {
		return Failf(name, "Tool '%s' not found. Available: %s", name, strings.Join(r.Names(), ", "))
	}

	if err := validateParams(tool.Spec(), params); err != nil {
		slog.Warn("invalid tool parameters", "tool", name, "error", err)
		return Failf(name, "Invalid parameters for '%s': %v", name, err)
	}

	slog.Info("executing tool", "tool", name, "params", params)
	result = tool.Call(ctx, params)
	if result == nil {
		result = Fail(name, "tool returned no result")
	}
	if result.Success {
		slog.Info("tool executed successfully", "tool", name)
	} else {
		slog.Warn("tool execution failed", "tool", name, "error", result.Err)
	}
	return result
}

// validateParams checks params against the tool's spec.
func validateParams(spec ParamSpec, params map[string]any) error {
	for key := range params {
		if !spec.Allows(key) {
			return fmt.Errorf("unexpected parameter %q", key)
		}
	}
	for _, req := range spec.Required {
		if _, ok := params[req]; !ok {
			return fmt.Errorf("missing required parameter %q", req)
		}
	}
	return nil
}

// stringParam reads a string parameter with a default.
func stringParam(params map[string]any, key, fallback string) string {
	if v, ok := params[key]; ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return fallback
}

// intParam reads an integer parameter with a default. JSON numbers
// arrive as float64.
func intParam(params map[string]any, key string, fallback int) int {
	switch v := params[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return fallback
	}
}
