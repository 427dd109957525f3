package registry

type failurePolicy int

const (
	// policyRead logs the failure and yields an empty result.
	policyRead failurePolicy = iota
	// policyWrite surfaces the failure as a *domain.StoreError.
	policyWrite
	// policyProbe logs the failure and reports unhealthy.
	policyProbe
)

const (
	opGetServerByName   = "get_server_by_name"
	opGetServerByID     = "get_server_by_id"
	opGetServerByURL    = "get_server_by_url"
	opListServers       = "list_servers"
	opCreateServer      = "create_server"
	opGetTools          = "get_tools"
	opGetTool           = "get_tool"
	opGetToolByID       = "get_tool_by_id"
	opCountTools        = "count_tools"
	opRegisterTool      = "register_tool"
	opUpdateTool        = "update_tool"
	opDeleteTool        = "delete_tool"
	opCreateAgent       = "create_agent"
	opListAgents        = "list_agents"
	opGetAgent          = "get_agent"
	opUpdateAgent       = "update_agent"
	opDeleteAgent       = "delete_agent"
	opLinkAgentServer   = "link_agent_server"
	opUnlinkAgentServer = "unlink_agent_server"
	opServersForAgent   = "servers_for_agent"
	opPing              = "ping"
)

var policies = map[string]failurePolicy{
	opGetServerByName:   policyRead,
	opGetServerByID:     policyRead,
	opGetServerByURL:    policyRead,
	opListServers:       policyRead,
	opCreateServer:      policyWrite,
	opGetTools:          policyRead,
	opGetTool:           policyRead,
	opGetToolByID:       policyRead,
	opCountTools:        policyRead,
	opRegisterTool:      policyWrite,
	opUpdateTool:        policyWrite,
	opDeleteTool:        policyWrite,
	opCreateAgent:       policyWrite,
	opListAgents:        policyRead,
	opGetAgent:          policyRead,
	opUpdateAgent:       policyWrite,
	opDeleteAgent:       policyWrite,
	opLinkAgentServer:   policyWrite,
	opUnlinkAgentServer: policyWrite,
	opServersForAgent:   policyRead,
	opPing:              policyProbe,
}

// policyFor defaults unknown operations to write so nothing fails silently.
func policyFor(op string) failurePolicy {
	if p, ok := policies[op]; ok {
		return p
	}
	return policyWrite
}
