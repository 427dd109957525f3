package response

type SlotOutput struct {
	Name string `json:"name"`
	Port int    `json:"port"`
	URL  string `json:"url"`
}

type ServiceIndex struct {
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Version     string                `json:"version"`
	Servers     map[string]SlotOutput `json:"servers"`
	Endpoints   map[string]string     `json:"endpoints"`
}

// AggregatorEndpoints is the route summary published by GET /api.
var AggregatorEndpoints = map[string]string{
	"servers":       "GET /servers",
	"server_status": "GET /servers/{server_name}/status",
	"server_tools":  "GET /servers/{server_name}/tools",
	"select_server": "POST /select-server",
	"execute_tool":  "POST /tools/execute",
	"execute_get":   "GET /tools/{tool_name}/execute?server=server_b",
	"create_tool":   "POST /tools",
	"update_tool":   "PUT /tools/{tool_id}",
	"delete_tool":   "DELETE /tools/{tool_id}",
	"ask_question":  "POST /ask",
	"ask_get":       "GET /ask?question=your_question&agent_id=your_agent",
	"agents":        "GET|POST /agents",
	"agent":         "GET|PUT|DELETE /agents/{agent_id}",
	"agent_servers": "GET|POST /agents/{agent_id}/servers",
	"agent_by_url":  "POST /agents/{agent_id}/servers/by_url",
	"oracle_status": "GET /api/oracle/status",
	"oracle_chat":   "POST /api/oracle/chat",
	"oracle_models": "GET /api/oracle/models",
	"version":       "GET /version",
	"docs":          "GET /docs/",
}

type MessageOutput struct {
	Message string `json:"message"`
}
