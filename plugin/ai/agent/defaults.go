package agent

import (
	"github.com/synthesistalk/synthesistalk/plugin/ai/agent/tools"
)

// StepContext carries the request-scoped values used to fill in
// parameters the model omitted.
type StepContext struct {
	Query          string
	ConversationID string
}

// prepareParams filters model-supplied params down to the tool's
// allow-list and fills required gaps from the step context. It returns
// false when a required parameter cannot be supplied at all, which
// skips the tool call for this iteration.
func prepareParams(tool tools.Tool, raw map[string]any, sc StepContext) (map[string]any, bool) {
	spec := tool.Spec()

	params := make(map[string]any, len(raw))
	for key, val := range raw {
		if spec.Allows(key) {
			params[key] = val
		}
	}

	switch tool.Name() {
	case "web_search":
		if _, ok := params["query"]; !ok {
			params["query"] = sc.Query
		}
	case "take_note":
		if _, ok := params["conversation_id"]; !ok {
			params["conversation_id"] = sc.ConversationID
		}
		if _, ok := params["note"]; !ok {
			params["note"] = "Note regarding: " + sc.Query
		}
	case "get_notes":
		if _, ok := params["conversation_id"]; !ok {
			params["conversation_id"] = sc.ConversationID
		}
	case "explain_concept":
		if _, ok := params["concept"]; !ok {
			params["concept"] = sc.Query
		}
	case "clarify_information":
		if _, ok := params["information"]; !ok {
			params["information"] = sc.Query
		}
	case "generate_insights":
		if _, ok := params["conversation_id"]; !ok {
			params["conversation_id"] = sc.ConversationID
		}
	case "document_summarize", "document_extract":
		// A collection ID cannot be invented from context; the
		// required-parameter check below skips the call.
	}

	for _, req := range spec.Required {
		if _, ok := params[req]; !ok {
			return nil, false
		}
	}
	return params, true
}
