package toolserver

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/NeuralTrust/toolhub/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// Builtin is a tool body compiled into the tool server. Only the execute
// operation exists; every other operation is a value error.
type Builtin interface {
	Execute(operation string, args map[string]interface{}) (map[string]interface{}, error)
}

// Builtins maps a tool name onto its handler.
type Builtins map[string]Builtin

// NewBuiltins returns the stock handlers. display is reported in each
// result's server field ("Server A", "Server B").
func NewBuiltins(display string, now func() time.Time) Builtins {
	if now == nil {
		now = time.Now
	}
	return Builtins{
		"get_weather":    weatherTool{server: display},
		"get_time":       timeTool{server: display, now: now},
		"data_processor": dataProcessorTool{server: display},
		"text_analyzer":  textAnalyzerTool{server: display},
		"api_client":     apiClientTool{server: display},
	}
}

func (b Builtins) Run(name string, args map[string]interface{}) (map[string]interface{}, error) {
	handler, ok := b[name]
	if !ok {
		return nil, domain.ValueErrorf("unknown tool: %s", name)
	}
	return handler.Execute(operationOf(args), args)
}

func operationOf(args map[string]interface{}) string {
	if op, ok := args["operation"].(string); ok && op != "" {
		return op
	}
	return OperationExecute
}

func decodeArgs(args map[string]interface{}, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(args); err != nil {
		return domain.ValueErrorf("invalid arguments: %v", err)
	}
	return nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

type weatherTool struct{ server string }

type weatherArgs struct {
	Location string `mapstructure:"location"`
}

func (w weatherTool) Execute(operation string, args map[string]interface{}) (map[string]interface{}, error) {
	if operation != OperationExecute {
		return nil, domain.ValueErrorf("unknown weather operation: %s", operation)
	}
	var in weatherArgs
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"operation":   "get_weather",
		"location":    orDefault(in.Location, "Bangkok"),
		"temperature": 28,
		"condition":   "Sunny",
		"humidity":    65,
		"server":      w.server,
	}, nil
}

type timeTool struct {
	server string
	now    func() time.Time
}

type timeArgs struct {
	Location string `mapstructure:"location"`
}

func (t timeTool) Execute(operation string, args map[string]interface{}) (map[string]interface{}, error) {
	if operation != OperationExecute {
		return nil, domain.ValueErrorf("unknown time operation: %s", operation)
	}
	var in timeArgs
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"operation":    "get_time",
		"location":     orDefault(in.Location, "UTC"),
		"current_time": t.now().UTC().Format(time.RFC3339),
		"timezone":     "UTC",
		"server":       t.server,
	}, nil
}

type dataProcessorTool struct{ server string }

type dataProcessorArgs struct {
	Action string      `mapstructure:"action"`
	Data   interface{} `mapstructure:"data"`
}

func (d dataProcessorTool) Execute(operation string, args map[string]interface{}) (map[string]interface{}, error) {
	if operation != OperationExecute {
		return nil, domain.ValueErrorf("unknown data processor operation: %s", operation)
	}
	var in dataProcessorArgs
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}
	data := in.Data
	if data == nil {
		data = map[string]interface{}{}
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, domain.ValueErrorf("data is not serializable: %v", err)
	}
	return map[string]interface{}{
		"operation": "data_processor",
		"action":    orDefault(in.Action, "process"),
		"data_size": len(encoded),
		"processed": true,
		"server":    d.server,
	}, nil
}

type textAnalyzerTool struct{ server string }

type textAnalyzerArgs struct {
	Text string `mapstructure:"text"`
}

func (a textAnalyzerTool) Execute(operation string, args map[string]interface{}) (map[string]interface{}, error) {
	if operation != OperationExecute {
		return nil, domain.ValueErrorf("unknown text analyzer operation: %s", operation)
	}
	var in textAnalyzerArgs
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"operation":   "text_analyzer",
		"text_length": len([]rune(in.Text)),
		"word_count":  len(strings.Fields(in.Text)),
		"language":    "en",
		"server":      a.server,
	}, nil
}

type apiClientTool struct{ server string }

type apiClientArgs struct {
	URL    string `mapstructure:"url"`
	Method string `mapstructure:"method"`
}

func (c apiClientTool) Execute(operation string, args map[string]interface{}) (map[string]interface{}, error) {
	if operation != OperationExecute {
		return nil, domain.ValueErrorf("unknown API client operation: %s", operation)
	}
	var in apiClientArgs
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"operation": "api_client",
		"url":       orDefault(in.URL, "https://api.example.com"),
		"method":    orDefault(in.Method, "GET"),
		"status":    "mock_response",
		"server":    c.server,
	}, nil
}
