package oracle

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/NeuralTrust/toolhub/pkg/app/toolserver"
	"github.com/NeuralTrust/toolhub/pkg/domain"
)

// NoTool is the tool_name an oracle answers with when nothing fits.
const NoTool = "none"

// Selection is the oracle's choice of one tool for a question.
type Selection struct {
	ToolName   string                 `json:"tool_name"`
	Arguments  map[string]interface{} `json:"arguments"`
	ServerName string                 `json:"server_name"`
}

// IsNone reports a negative selection.
func (s Selection) IsNone() bool {
	name := strings.TrimSpace(s.ToolName)
	return name == "" || strings.EqualFold(name, NoTool)
}

//go:generate mockery --name=SelectionOracle --dir=. --output=./mocks --filename=oracle_mock.go --case=underscore --with-expecter
type SelectionOracle interface {
	Select(ctx context.Context, question string, catalog []toolserver.Descriptor) (*Selection, error)
	Summarize(ctx context.Context, question string, sel Selection, result interface{}) (string, error)
}

var fencePattern = regexp.MustCompile("(?s)```(?:[A-Za-z]+)?\\s*\\n?(.*?)\\s*```")

// ParseSelection extracts a Selection from raw oracle text. A fenced code
// block, when present, is unwrapped first.
func ParseSelection(raw string) (*Selection, error) {
	text := strings.TrimSpace(raw)
	if m := fencePattern.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}
	var sel Selection
	if err := json.Unmarshal([]byte(text), &sel); err != nil {
		return nil, domain.NewConfigurationError("oracle did not return a valid tool selection")
	}
	if sel.Arguments == nil {
		sel.Arguments = map[string]interface{}{}
	}
	return &sel, nil
}

// EnsureAttribution prefixes answer with the tool and server it came from
// unless both names already appear in it.
func EnsureAttribution(answer string, sel Selection) string {
	answer = strings.TrimSpace(answer)
	if strings.Contains(answer, sel.ToolName) && strings.Contains(answer, sel.ServerName) {
		return answer
	}
	prefix := "Using the '" + sel.ToolName + "' tool on the '" + sel.ServerName + "' server, "
	if answer == "" {
		return strings.TrimSuffix(prefix, ", ") + "."
	}
	return prefix + answer
}
