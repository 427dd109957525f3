package aggregator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/NeuralTrust/toolhub/pkg/app/toolserver"
	"github.com/NeuralTrust/toolhub/pkg/domain"
	"github.com/NeuralTrust/toolhub/pkg/infra/httpx"
	"github.com/valyala/fastjson"
)

type callRequest struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + path
}

// probeHealth degrades every failure to a status string.
func (s *Service) probeHealth(ctx context.Context, baseURL string) string {
	ctx, cancel := context.WithTimeout(ctx, s.timeouts.Health)
	defer cancel()

	req, err := httpx.NewJSONRequest(ctx, http.MethodGet, joinURL(baseURL, "/health"), nil)
	if err != nil {
		return "unreachable"
	}
	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.WithError(err).WithField("url", baseURL).Debug("health probe failed")
		return "unreachable"
	}
	raw, err := httpx.ReadBody(resp)
	if resp.StatusCode != http.StatusOK {
		return fmt.Sprintf("error_%d", resp.StatusCode)
	}
	if err != nil {
		return "unknown"
	}
	var parser fastjson.Parser
	v, err := parser.ParseBytes(raw)
	if err != nil {
		return "unknown"
	}
	status := string(v.GetStringBytes("status"))
	if status == "" {
		return "unknown"
	}
	return status
}

// callTool posts to {baseURL}/tools/call. A transport failure is
// ServiceUnavailable; a non-2xx answer keeps the remote status and body.
func (s *Service) callTool(ctx context.Context, baseURL, toolName string, args map[string]interface{}) (interface{}, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeouts.Execute)
	defer cancel()

	req, err := httpx.NewJSONRequest(ctx, http.MethodPost, joinURL(baseURL, "/tools/call"), callRequest{
		Name:      toolName,
		Arguments: args,
	})
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.WithError(err).WithField("tool_name", toolName).Error("tool server call failed")
		return nil, domain.NewServiceUnavailableError(fmt.Sprintf("Could not execute tool '%s'.", toolName), err)
	}
	raw, err := httpx.ReadBody(resp)
	if err != nil {
		return nil, domain.NewServiceUnavailableError(fmt.Sprintf("Could not execute tool '%s'.", toolName), err)
	}
	if !httpx.IsSuccess(resp.StatusCode) {
		return nil, &domain.RemoteStatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	var result interface{}
	if err := json.Unmarshal(raw, &result); err != nil {
		return string(raw), nil
	}
	return result, nil
}

// fetchCatalog reads {baseURL}/tools. Concurrent callers for the same
// url share one request, which is detached from the first caller's
// cancellation and bounded only by the catalog timeout.
func (s *Service) fetchCatalog(ctx context.Context, baseURL string) ([]toolserver.Descriptor, error) {
	v, err, _ := s.catalogs.Do(baseURL, func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeouts.Catalog)
		defer cancel()

		req, err := httpx.NewJSONRequest(ctx, http.MethodGet, joinURL(baseURL, "/tools"), nil)
		if err != nil {
			return nil, err
		}
		resp, err := s.client.Do(req)
		if err != nil {
			return nil, err
		}
		raw, err := httpx.ReadBody(resp)
		if err != nil {
			return nil, err
		}
		if !httpx.IsSuccess(resp.StatusCode) {
			return nil, fmt.Errorf("catalog request returned status %d", resp.StatusCode)
		}
		var catalog toolserver.Catalog
		if err := json.Unmarshal(raw, &catalog); err != nil {
			return nil, fmt.Errorf("invalid catalog: %w", err)
		}
		return catalog.Tools, nil
	})
	if err != nil {
		return nil, err
	}
	tools, _ := v.([]toolserver.Descriptor)
	out := make([]toolserver.Descriptor, len(tools))
	copy(out, tools)
	return out, nil
}

// probeName fetches {rawURL}/tools and reads the optional top-level name.
func (s *Service) probeName(ctx context.Context, rawURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeouts.Probe)
	defer cancel()

	invalid := domain.NewBadRequestError("Could not connect to the server or it is not a valid MCP server.")
	req, err := httpx.NewJSONRequest(ctx, http.MethodGet, joinURL(rawURL, "/tools"), nil)
	if err != nil {
		return "", invalid
	}
	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.WithError(err).WithField("url", rawURL).Warn("server probe failed")
		return "", invalid
	}
	raw, err := httpx.ReadBody(resp)
	if err != nil || !httpx.IsSuccess(resp.StatusCode) {
		return "", invalid
	}
	var parser fastjson.Parser
	v, err := parser.ParseBytes(raw)
	if err != nil {
		return "", invalid
	}
	if name := strings.TrimSpace(string(v.GetStringBytes("name"))); name != "" {
		return name, nil
	}
	return "Unnamed Server", nil
}
