package voice

// Tool represents a function the model can invoke during conversation.
// The assistant exposes exactly one (create_event), but the registry is
// general: dispatch is by declared name, arguments arrive as a parsed object.
type Tool struct {
	// Name is the unique identifier for the tool (e.g., "create_event").
	Name string `json:"name"`

	// Description explains what the tool does, helping the model decide
	// when to call it and how to shape its arguments.
	Description string `json:"description"`

	// Parameters is the JSON schema for the tool's arguments, keyed by
	// property name:
	//
	//	map[string]any{
	//	    "date": map[string]any{
	//	        "type":        "string",
	//	        "description": "...",
	//	    },
	//	}
	Parameters map[string]any `json:"parameters"`

	// Required lists property names the model must supply.
	Required []string `json:"required,omitempty"`

	// Handler is called when the model invokes this tool. The returned
	// string is fed back into the conversation as the tool result; an error
	// is rendered as an error result, not raised.
	Handler func(args map[string]any) (string, error) `json:"-"`
}

// ToolCall is one invocation of a tool by the model.
type ToolCall struct {
	// ID matches results back to the correct call.
	ID string

	// Name is the tool being invoked.
	Name string

	// Arguments contains the parsed arguments.
	Arguments map[string]any
}

// ToolResult is the outcome of a tool invocation, delivered back to the model.
type ToolResult struct {
	// CallID matches the ToolCall.ID this result corresponds to.
	CallID string

	// Result is the string handed back to the model.
	Result string

	// Error is set if the tool execution failed.
	Error error
}
