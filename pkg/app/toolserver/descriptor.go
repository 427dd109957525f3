package toolserver

import (
	"fmt"
	"strings"

	"github.com/NeuralTrust/toolhub/pkg/domain/tool"
	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

const (
	OperationExecute = "execute"
	OperationInfo    = "info"
)

// Descriptor is the wire form of a tool returned by GET /tools.
type Descriptor struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Parameters  tool.Parameters    `json:"parameters"`
	APIURL      *string            `json:"api_url"`
	HTTPMethod  *string            `json:"http_method"`
	InputSchema *jsonschema.Schema `json:"inputSchema"`
	ServerName  string             `json:"server_name"`
}

type Catalog struct {
	Tools []Descriptor `json:"tools"`
}

// Summary is the reduced view served by GET /check-tools.
type Summary struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	APIURL      *string `json:"api_url"`
	HTTPMethod  *string `json:"http_method"`
}

type CheckReport struct {
	Server string    `json:"server"`
	Tools  []Summary `json:"tools"`
}

// Describe renders t as advertised by the tool server bound to slot.
func Describe(t tool.Tool, slot string) Descriptor {
	description := t.Description
	if strings.TrimSpace(description) == "" {
		description = fmt.Sprintf("Tool: %s", t.Name)
	}
	params := t.Parameters
	if params == nil {
		params = tool.Parameters{}
	}
	return Descriptor{
		ID:          t.ID,
		Name:        t.Name,
		Description: description,
		Parameters:  params,
		APIURL:      t.APIURL,
		HTTPMethod:  t.HTTPMethod,
		InputSchema: InputSchema(params),
		ServerName:  slot,
	}
}

// InputSchema builds the object schema for params. The operation property
// is always first and always required; parameter properties follow in
// declaration order.
func InputSchema(params tool.Parameters) *jsonschema.Schema {
	properties := orderedmap.New[string, *jsonschema.Schema]()
	properties.Set("operation", &jsonschema.Schema{
		Type:        "string",
		Description: "Operation to perform",
		Enum:        []any{OperationExecute, OperationInfo},
	})
	required := []string{"operation"}

	for _, p := range params {
		if p.Name == "" || p.Name == "operation" {
			continue
		}
		properties.Set(p.Name, &jsonschema.Schema{
			Type:        p.Type,
			Description: p.Description,
		})
		if p.Required {
			required = append(required, p.Name)
		}
	}

	return &jsonschema.Schema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}
