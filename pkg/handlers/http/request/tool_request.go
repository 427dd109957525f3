package request

import (
	"strings"

	"github.com/NeuralTrust/toolhub/pkg/domain"
	"github.com/NeuralTrust/toolhub/pkg/domain/tool"
)

// ToolRequest is the body of tool create and update calls on a tool server
// and of tool updates on the aggregator.
type ToolRequest struct {
	Name           string             `json:"name"`
	Description    string             `json:"description"`
	Parameters     tool.Parameters    `json:"parameters"`
	APIURL         *string            `json:"api_url,omitempty"`
	HTTPMethod     *string            `json:"http_method,omitempty"`
	RequestHeaders domain.HeadersJSON `json:"request_headers,omitempty"`
	RequestBody    domain.BodyJSON    `json:"request_body,omitempty"`
}

func (r *ToolRequest) Tool() tool.Tool {
	return tool.Tool{
		Name:           strings.TrimSpace(r.Name),
		Description:    r.Description,
		Parameters:     r.Parameters,
		APIURL:         blankToNil(r.APIURL),
		HTTPMethod:     blankToNil(r.HTTPMethod),
		RequestHeaders: r.RequestHeaders,
		RequestBody:    r.RequestBody,
	}
}

func (r *ToolRequest) Update() tool.Update {
	return tool.Update{
		Name:        strings.TrimSpace(r.Name),
		Description: r.Description,
		Parameters:  r.Parameters,
		APIURL:      blankToNil(r.APIURL),
		HTTPMethod:  blankToNil(r.HTTPMethod),
	}
}

// CreateToolRequest is the aggregator variant; the owning server is named
// in the body.
type CreateToolRequest struct {
	ServerName     string             `json:"server_name" validate:"notblank"`
	Name           string             `json:"name" validate:"notblank"`
	Description    string             `json:"description"`
	Parameters     tool.Parameters    `json:"parameters"`
	APIURL         *string            `json:"api_url,omitempty"`
	HTTPMethod     *string            `json:"http_method,omitempty"`
	RequestHeaders domain.HeadersJSON `json:"request_headers,omitempty"`
	RequestBody    domain.BodyJSON    `json:"request_body,omitempty"`
}

func (r *CreateToolRequest) Validate() error {
	return validateStruct(r)
}

func (r *CreateToolRequest) Tool() tool.Tool {
	base := ToolRequest{
		Name:           r.Name,
		Description:    r.Description,
		Parameters:     r.Parameters,
		APIURL:         r.APIURL,
		HTTPMethod:     r.HTTPMethod,
		RequestHeaders: r.RequestHeaders,
		RequestBody:    r.RequestBody,
	}
	return base.Tool()
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// CallToolRequest is the body of POST /tools/call on a tool server.
type CallToolRequest struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

type ExecuteToolRequest struct {
	ToolName  string                 `json:"tool_name" validate:"notblank"`
	Server    string                 `json:"server" validate:"notblank"`
	Arguments map[string]interface{} `json:"arguments"`
}

func (r *ExecuteToolRequest) Validate() error {
	return validateStruct(r)
}
