package execution

import (
	"context"
	"time"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Log is the record written once per tool invocation, whatever its outcome.
type Log struct {
	ToolID     string                 `json:"tool_id"`
	ToolName   string                 `json:"tool_name"`
	ServerID   string                 `json:"server_id"`
	ServerName string                 `json:"server_name"`
	Arguments  map[string]interface{} `json:"arguments"`
	Result     interface{}            `json:"result,omitempty"`
	Error      string                 `json:"error,omitempty"`
	Status     Status                 `json:"status"`
	DurationMS float64                `json:"duration_ms"`
	Timestamp  time.Time              `json:"timestamp"`
}

//go:generate mockery --name=Sink --dir=. --output=./mocks --filename=sink_mock.go --case=underscore --with-expecter
type Sink interface {
	Record(ctx context.Context, entry Log) error
}
