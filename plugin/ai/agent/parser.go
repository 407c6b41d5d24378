package agent

import (
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"
)

// DirectiveKind classifies what the model asked for in a reasoning step.
type DirectiveKind int

const (
	// DirectiveFinish means the model declared it has enough information.
	DirectiveFinish DirectiveKind = iota

	// DirectiveInvoke means the model requested a tool call.
	DirectiveInvoke

	// DirectiveUnparsable means no recognizable action was found.
	DirectiveUnparsable
)

// Directive is the parsed action of one reasoning step. Model output is
// untrusted text; parsing never fails, it degrades to Unparsable.
type Directive struct {
	Kind   DirectiveKind
	Tool   string
	Params map[string]any
}

var (
	finishPattern = regexp.MustCompile(`(?i)Action:\s*finish`)
	actionPattern = regexp.MustCompile(`(?i)Action:\s*(\w+)`)
	paramsPattern = regexp.MustCompile(`(?s)Parameters:\s*(\{.*\})`)
)

// ParseDirective extracts the action from a raw reasoning step. A
// "finish" action wins over any tool mention. A malformed Parameters
// block yields empty params rather than a parse failure.
func ParseDirective(raw string) Directive {
	if finishPattern.MatchString(raw) {
		return Directive{Kind: DirectiveFinish}
	}

	m := actionPattern.FindStringSubmatch(raw)
	if m == nil {
		return Directive{Kind: DirectiveUnparsable}
	}
	tool := strings.ToLower(m[1])

	params := map[string]any{}
	if pm := paramsPattern.FindStringSubmatch(raw); pm != nil {
		if err := json.Unmarshal([]byte(pm[1]), &params); err != nil {
			slog.Warn("malformed parameters block, using empty params",
				"tool", tool,
				"params", pm[1],
				"error", err)
			params = map[string]any{}
		}
	}

	return Directive{Kind: DirectiveInvoke, Tool: tool, Params: params}
}
