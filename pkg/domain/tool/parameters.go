package tool

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"

	"github.com/NeuralTrust/toolhub/pkg/domain"
)

type ParameterSpec struct {
	Name        string `json:"name" mapstructure:"name"`
	Type        string `json:"type" mapstructure:"type"`
	Description string `json:"description" mapstructure:"description"`
	Required    bool   `json:"required" mapstructure:"required"`
}

// Parameters is persisted as JSON text and decoded defensively on read.
type Parameters []ParameterSpec

// LegacyInput replaces any parameter encoding that cannot be decoded.
var LegacyInput = ParameterSpec{
	Name:        "input",
	Type:        "string",
	Description: "Input parameter",
	Required:    true,
}

func (p Parameters) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (p *Parameters) Scan(value interface{}) error {
	raw, err := domain.ScanText(value)
	if err != nil {
		*p = Parameters{LegacyInput}
		return nil
	}
	*p = DecodeParameters(raw)
	return nil
}

// DecodeParameters never fails: empty input is an empty list, a single
// object becomes a one-element list and anything else undecodable becomes
// the synthetic "input" parameter.
func DecodeParameters(raw []byte) Parameters {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Parameters{}
	}

	switch trimmed[0] {
	case '[':
		var list []ParameterSpec
		if err := json.Unmarshal(trimmed, &list); err == nil {
			return list
		}
	case '{':
		var single ParameterSpec
		if err := json.Unmarshal(trimmed, &single); err == nil && single.Name != "" {
			return Parameters{single}
		}
	case '"':
		// double-encoded list written by older clients
		var inner string
		if err := json.Unmarshal(trimmed, &inner); err == nil && inner != string(trimmed) {
			decoded := DecodeParameters([]byte(inner))
			return decoded
		}
	}
	return Parameters{LegacyInput}
}

func (p Parameters) Required() []string {
	var names []string
	for _, spec := range p {
		if spec.Required {
			names = append(names, spec.Name)
		}
	}
	return names
}
