package request

type AskRequest struct {
	Question string `json:"question" validate:"notblank"`
	AgentID  string `json:"agent_id" validate:"notblank"`
}

func (r *AskRequest) Validate() error {
	return validateStruct(r)
}

// SelectServerRequest needs one of the two fields; the aggregator decides
// which wins.
type SelectServerRequest struct {
	ServerName string `json:"server_name"`
	ServerURL  string `json:"server_url"`
}

type ChatRequest struct {
	Message string `json:"message" validate:"notblank"`
}

func (r *ChatRequest) Validate() error {
	return validateStruct(r)
}
