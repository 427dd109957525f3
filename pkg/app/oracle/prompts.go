package oracle

import (
	"encoding/json"
	"fmt"

	"github.com/NeuralTrust/toolhub/pkg/app/toolserver"
)

type promptTool struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema interface{} `json:"inputSchema"`
	ServerName  string      `json:"server_name"`
}

func selectionPrompt(question string, catalog []toolserver.Descriptor) (string, error) {
	tools := make([]promptTool, 0, len(catalog))
	for _, d := range catalog {
		tools = append(tools, promptTool{
			Name:        d.Name,
			Description: d.Description,
			InputSchema: d.InputSchema,
			ServerName:  d.ServerName,
		})
	}
	listing, err := json.MarshalIndent(tools, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode tool catalog: %w", err)
	}
	return fmt.Sprintf(`You are an expert at selecting the correct tool to answer a user's question.
Here is the user's question: %q
Here is a list of available tools:
%s

Based on the user's question, which tool should be used?
You must respond with a JSON object with three keys: "tool_name", "arguments", and "server_name".
"tool_name" must be the name of the selected tool.
"arguments" must be an object containing the arguments for the tool. If the tool has parameters, you must extract the values from the user's question.
"server_name" must be the name of the server where the tool is located.
If no tool is suitable, respond with {"tool_name": "none", "arguments": {}, "server_name": "none"}.
`, question, listing), nil
}

func summaryPrompt(question string, sel Selection, result interface{}) (string, error) {
	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode tool result: %w", err)
	}
	return fmt.Sprintf(`You are an expert at summarizing technical information for a user.
The user asked: %q
To answer this, the tool %q on server %q was used.
The result from the tool is:
%s

Based on this information, generate a friendly and concise answer for the user.
You MUST mention the tool and the server in your answer. Start your answer with "Using the '%s' tool on the '%s' server, ...".
`, question, sel.ToolName, sel.ServerName, encoded, sel.ToolName, sel.ServerName), nil
}
