package toolserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"time"

	"github.com/NeuralTrust/toolhub/pkg/domain"
	"github.com/NeuralTrust/toolhub/pkg/domain/tool"
	"github.com/NeuralTrust/toolhub/pkg/infra/httpx"
)

var placeholderPattern = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// RemoteExecutor runs tools that are backed by an external HTTP API.
type RemoteExecutor struct {
	client  httpx.Client
	timeout time.Duration
}

func NewRemoteExecutor(client httpx.Client, timeout time.Duration) *RemoteExecutor {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &RemoteExecutor{client: client, timeout: timeout}
}

// Execute calls t.APIURL with args. GET sends args as query parameters and
// POST as a JSON body layered over the tool's configured request_body.
func (r *RemoteExecutor) Execute(ctx context.Context, t tool.Tool, args map[string]interface{}) (interface{}, error) {
	target, err := InterpolateURL(*t.APIURL, args)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var req *http.Request
	switch method := t.Method(); method {
	case http.MethodGet:
		target, err = withQuery(target, args)
		if err != nil {
			return nil, err
		}
		req, err = httpx.NewJSONRequest(ctx, http.MethodGet, target, nil)
	case http.MethodPost:
		var body map[string]interface{}
		body, err = mergeBody(t.RequestBody, args)
		if err != nil {
			return nil, err
		}
		req, err = httpx.NewJSONRequest(ctx, http.MethodPost, target, body)
	default:
		return nil, domain.ConfigurationErrorf("Unsupported HTTP method: %s", method)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", t.Name, err)
	}
	for key, value := range t.RequestHeaders {
		req.Header.Set(key, value)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, domain.NewServiceUnavailableError(fmt.Sprintf("request to %s failed", redact(target)), err)
	}
	raw, err := httpx.ReadBody(resp)
	if err != nil {
		return nil, err
	}
	if !httpx.IsSuccess(resp.StatusCode) {
		return nil, &domain.RemoteStatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return string(raw), nil
	}
	return decoded, nil
}

// InterpolateURL replaces {key} placeholders with the matching argument.
// A placeholder without an argument is a value error.
func InterpolateURL(template string, args map[string]interface{}) (string, error) {
	var missing string
	out := placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		key := match[1 : len(match)-1]
		value, ok := args[key]
		if !ok {
			if missing == "" {
				missing = key
			}
			return match
		}
		return url.PathEscape(stringify(value))
	})
	if missing != "" {
		return "", domain.ValueErrorf("missing argument for url placeholder '%s'", missing)
	}
	return out, nil
}

func withQuery(target string, args map[string]interface{}) (string, error) {
	parsed, err := url.Parse(target)
	if err != nil {
		return "", domain.ConfigurationErrorf("invalid api_url %q: %v", target, err)
	}
	query := parsed.Query()
	keys := make([]string, 0, len(args))
	for key := range args {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		query.Set(key, stringify(args[key]))
	}
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

func mergeBody(base domain.BodyJSON, args map[string]interface{}) (map[string]interface{}, error) {
	body := map[string]interface{}{}
	if len(base) > 0 {
		if err := json.Unmarshal(base, &body); err != nil {
			return nil, domain.ConfigurationErrorf("request_body must be a JSON object: %v", err)
		}
	}
	for key, value := range args {
		body[key] = value
	}
	return body, nil
}

func stringify(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case nil:
		return ""
	case map[string]interface{}, []interface{}:
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(raw)
	default:
		return fmt.Sprint(v)
	}
}

// redact drops the query string, which may carry credentials.
func redact(target string) string {
	parsed, err := url.Parse(target)
	if err != nil {
		return "remote api"
	}
	parsed.RawQuery = ""
	parsed.User = nil
	return parsed.String()
}
