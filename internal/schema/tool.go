// internal/schema/tool.go
package schema

// ToolName is the function name the model calls for every action.
const ToolName = "computer_use"

// ToolDescription is the contract text presented to the model. It is
// advisory only: the executor re-validates every request it produces.
const ToolDescription = "Use a mouse and keyboard to interact with a computer, and take screenshots.\n" +
	"* This is an interface to a desktop GUI. You do not have access to a terminal or " +
	"applications menu. You must click on desktop icons to start applications.\n" +
	"* Some applications may take time to start or process actions, so you may need to wait " +
	"and take successive screenshots to see the results of your actions. E.g. if you click on " +
	"Firefox and a window doesn't open, try wait and taking another screenshot.\n" +
	"* The screen's resolution is dynamically detected from the host system.\n" +
	"* Whenever you intend to move the cursor to click on an element like an icon, you should consult " +
	"a screenshot to determine the coordinates of the element before moving the cursor.\n" +
	"* Make sure to click any buttons, links, icons, etc with the cursor tip in the center of the element."

// SystemPrompt seeds every conversation as the first history entry.
const SystemPrompt = `You are an automation agent with direct access to a GUI computer.
- Be precise and avoid unnecessary movements.
- Always inspect the most recent screenshot before clicking.
- If an application needs time to load, wait before taking more actions.
- You must finish by calling action=answer with the final response and action=terminate with success/failure.`

// ToolParameters returns the JSON-schema parameter description for the
// computer_use function declaration. The enum is generated from Kinds so the
// advertised vocabulary can never drift from the executor's dispatch table.
func ToolParameters() map[string]any {
	kinds := Kinds()
	enum := make([]string, len(kinds))
	for i, k := range kinds {
		enum[i] = string(k)
	}

	return map[string]any{
		"type":     "object",
		"required": []string{"action"},
		"properties": map[string]any{
			"action": map[string]any{
				"type":        "string",
				"enum":        enum,
				"description": "The action to perform.",
			},
			"keys": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Keys used with action=key.",
			},
			"text": map[string]any{
				"type":        "string",
				"description": "Text for action=type or action=answer.",
			},
			"coordinate": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "number"},
				"description": "Target coordinate [x, y] for mouse actions.",
			},
			"pixels": map[string]any{
				"type":        "number",
				"description": "Scroll amount for action=scroll or action=hscroll.",
			},
			"time": map[string]any{
				"type":        "number",
				"description": "Seconds to wait for action=wait.",
			},
			"status": map[string]any{
				"type":        "string",
				"enum":        []string{string(TerminateSuccess), string(TerminateFailure)},
				"description": "Task status for action=terminate.",
			},
		},
	}
}
