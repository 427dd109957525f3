package aggregator

import (
	"context"
	"strings"

	"github.com/NeuralTrust/toolhub/pkg/app/oracle"
	"github.com/NeuralTrust/toolhub/pkg/app/toolserver"
	"github.com/NeuralTrust/toolhub/pkg/domain"
	"github.com/NeuralTrust/toolhub/pkg/domain/server"
	"github.com/NeuralTrust/toolhub/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	AnswerNoTools        = "There are no tools available for this agent."
	AnswerNoSuitableTool = "I'm sorry, I don't have a tool that can answer that question."
)

// Answer is the result of Ask. Canned answers carry only Answer.
type Answer struct {
	Answer       string      `json:"answer"`
	Question     string      `json:"question,omitempty"`
	Server       string      `json:"server,omitempty"`
	SelectedTool string      `json:"selected_tool,omitempty"`
	ToolResult   interface{} `json:"tool_result,omitempty"`
	Status       string      `json:"status,omitempty"`
}

// Ask answers question with one tool chosen by the oracle from the
// catalogs of the agent's servers.
func (s *Service) Ask(ctx context.Context, question, agentID string) (*Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, domain.NewBadRequestError("question is required")
	}
	if strings.TrimSpace(agentID) == "" {
		return nil, domain.NewBadRequestError("agent_id is required")
	}
	if s.oracle == nil {
		return nil, domain.NewConfigurationError("oracle is not configured")
	}

	servers := s.store.ServersForAgent(ctx, agentID)
	if len(servers) == 0 {
		return nil, domain.NotFoundf("No servers found for this agent")
	}

	catalog, offered := s.collectCatalog(ctx, servers)
	if len(catalog) == 0 {
		return &Answer{Answer: AnswerNoTools}, nil
	}

	sel, err := s.oracle.Select(ctx, question, catalog)
	if err != nil {
		return nil, err
	}
	if sel.IsNone() {
		return &Answer{Answer: AnswerNoSuitableTool}, nil
	}

	target, ok := pickServer(servers, sel.ServerName, offered.has(sel.ToolName))
	if !ok {
		return nil, domain.NotFoundf("Server '%s' not found for this agent.", sel.ServerName)
	}

	args := make(map[string]interface{}, len(sel.Arguments)+1)
	for k, v := range sel.Arguments {
		args[k] = v
	}
	// the oracle never picks the operation
	args["operation"] = toolserver.OperationExecute

	result, err := s.callTool(ctx, target.BaseURL(), sel.ToolName, args)
	if err != nil {
		return nil, err
	}

	answer, err := s.oracle.Summarize(ctx, question, *sel, result)
	if err != nil {
		return nil, err
	}
	answer = oracle.EnsureAttribution(answer, *sel)

	s.logger.WithFields(logrus.Fields{
		"agent_id":  agentID,
		"tool_name": sel.ToolName,
		"server":    sel.ServerName,
	}).Info("question answered")

	return &Answer{
		Answer:       answer,
		Question:     question,
		Server:       sel.ServerName,
		SelectedTool: sel.ToolName,
		ToolResult:   result,
		Status:       "success",
	}, nil
}

// offerings records which tool names each server's catalog listed, keyed by
// server id.
type offerings map[string]map[string]struct{}

func (o offerings) has(toolName string) func(server.Annotated) bool {
	return func(a server.Annotated) bool {
		_, ok := o[a.ID][toolName]
		return ok
	}
}

// collectCatalog fetches every server's catalog concurrently. A failing
// server is logged and skipped; it never cancels the others.
func (s *Service) collectCatalog(ctx context.Context, servers []server.Annotated) ([]toolserver.Descriptor, offerings) {
	results := make([][]toolserver.Descriptor, len(servers))
	var g errgroup.Group
	for i, srv := range servers {
		i, srv := i, srv
		g.Go(func() error {
			tools, err := s.fetchCatalog(ctx, srv.BaseURL())
			if err != nil {
				prometheus.CatalogFetchesTotal.WithLabelValues(srv.ServerName, "error").Inc()
				s.logger.WithError(err).WithFields(logrus.Fields{
					"server": srv.Name,
					"url":    srv.BaseURL(),
				}).Error("could not fetch tool catalog")
				return nil
			}
			prometheus.CatalogFetchesTotal.WithLabelValues(srv.ServerName, "success").Inc()
			for j := range tools {
				if tools[j].ServerName == "" {
					tools[j].ServerName = srv.ServerName
				}
			}
			results[i] = tools
			return nil
		})
	}
	_ = g.Wait()

	var union []toolserver.Descriptor
	offered := make(offerings, len(servers))
	for i, tools := range results {
		names := make(map[string]struct{}, len(tools))
		for _, d := range tools {
			names[d.Name] = struct{}{}
		}
		offered[servers[i].ID] = names
		union = append(union, tools...)
	}
	return union, offered
}

// pickServer matches name against slot names first, then stored names,
// then ids. Several servers can share a slot name; among those, one whose
// catalog listed the selected tool wins.
func pickServer(servers []server.Annotated, name string, offersTool func(server.Annotated) bool) (server.Annotated, bool) {
	matchers := []func(server.Annotated) bool{
		func(a server.Annotated) bool { return a.ServerName == name },
		func(a server.Annotated) bool { return a.Name == name },
		func(a server.Annotated) bool { return a.ID == name },
	}
	for _, match := range matchers {
		var first *server.Annotated
		for i := range servers {
			if !match(servers[i]) {
				continue
			}
			if offersTool(servers[i]) {
				return servers[i], true
			}
			if first == nil {
				first = &servers[i]
			}
		}
		if first != nil {
			return *first, true
		}
	}
	return server.Annotated{}, false
}
