package aggregator

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/NeuralTrust/toolhub/pkg/app/oracle"
	"github.com/NeuralTrust/toolhub/pkg/app/registry"
	"github.com/NeuralTrust/toolhub/pkg/domain"
	"github.com/NeuralTrust/toolhub/pkg/domain/server"
	"github.com/NeuralTrust/toolhub/pkg/domain/tool"
	"github.com/NeuralTrust/toolhub/pkg/infra/httpx"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

type Timeouts struct {
	Health  time.Duration
	Catalog time.Duration
	Execute time.Duration
	Probe   time.Duration
}

func (t Timeouts) withDefaults() Timeouts {
	if t.Health <= 0 {
		t.Health = 5 * time.Second
	}
	if t.Catalog <= 0 {
		t.Catalog = 10 * time.Second
	}
	if t.Execute <= 0 {
		t.Execute = 30 * time.Second
	}
	if t.Probe <= 0 {
		t.Probe = 5 * time.Second
	}
	return t
}

type Deps struct {
	Store    registry.Store
	Oracle   oracle.SelectionOracle
	Client   httpx.Client
	Slots    server.SlotTable
	Timeouts Timeouts
	Logger   *logrus.Logger
	Now      func() time.Time
}

// Service routes requests to tool servers and runs the oracle-assisted
// ask pipeline.
type Service struct {
	store    registry.Store
	oracle   oracle.SelectionOracle
	client   httpx.Client
	slots    server.SlotTable
	timeouts Timeouts
	logger   *logrus.Logger
	now      func() time.Time
	catalogs singleflight.Group
}

func NewService(deps Deps) *Service {
	slots := deps.Slots
	if len(slots.Rules) == 0 {
		slots = server.DefaultSlotTable
	}
	logger := deps.Logger
	if logger == nil {
		logger = logrus.New()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	client := deps.Client
	if client == nil {
		client = httpx.NewFastHTTPClient()
	}
	return &Service{
		store:    deps.Store,
		oracle:   deps.Oracle,
		client:   client,
		slots:    slots,
		timeouts: deps.Timeouts.withDefaults(),
		logger:   logger,
		now:      now,
	}
}

// View is an annotated server whose url is always reachable.
type View struct {
	server.Annotated
}

func viewOf(a server.Annotated) View {
	a.URL = a.BaseURL()
	return View{Annotated: a}
}

func viewsOf(all []server.Annotated) []View {
	out := make([]View, 0, len(all))
	for _, a := range all {
		out = append(out, viewOf(a))
	}
	return out
}

type ServerList struct {
	Servers      []View    `json:"servers"`
	TotalServers int       `json:"total_servers"`
	Timestamp    time.Time `json:"timestamp"`
}

// ListServers returns every registry server, disabled ones included.
func (s *Service) ListServers(ctx context.Context) ServerList {
	views := viewsOf(s.store.ListServers(ctx))
	return ServerList{Servers: views, TotalServers: len(views), Timestamp: s.now()}
}

type StatusServer struct {
	View
	// Status is the probed health, not the stored status column.
	Status         string `json:"status"`
	DatabaseStatus string `json:"database_status"`
}

type StatusTool struct {
	tool.Tool
	Ready bool `json:"ready"`
}

type ServerStatus struct {
	Server     StatusServer `json:"server"`
	Tools      []StatusTool `json:"tools"`
	ToolsCount int          `json:"tools_count"`
	Timestamp  time.Time    `json:"timestamp"`
}

// ServerStatus probes the server's /health endpoint. Reachability and
// registry connectivity are reported side by side and never merged.
func (s *Service) ServerStatus(ctx context.Context, name string) (*ServerStatus, error) {
	resolved := s.store.GetServerByName(ctx, name)
	if resolved == nil {
		return nil, domain.NotFoundf("Server '%s' not found", name)
	}
	tools := s.store.GetTools(ctx, resolved.ID)
	view := viewOf(*resolved)

	database := "disconnected"
	if s.store.Ping(ctx) {
		database = "connected"
	}

	statusTools := make([]StatusTool, 0, len(tools))
	for _, t := range tools {
		statusTools = append(statusTools, StatusTool{Tool: t, Ready: true})
	}
	return &ServerStatus{
		Server: StatusServer{
			View:           view,
			Status:         s.probeHealth(ctx, view.URL),
			DatabaseStatus: database,
		},
		Tools:      statusTools,
		ToolsCount: len(statusTools),
		Timestamp:  s.now(),
	}, nil
}

type ServerTools struct {
	Server string      `json:"server"`
	Tools  []tool.Tool `json:"tools"`
	Total  int         `json:"total"`
}

func (s *Service) ServerTools(ctx context.Context, name string) (*ServerTools, error) {
	resolved := s.store.GetServerByName(ctx, name)
	if resolved == nil {
		return nil, domain.NotFoundf("Server '%s' not found", name)
	}
	tools := s.store.GetTools(ctx, resolved.ID)
	return &ServerTools{Server: name, Tools: tools, Total: len(tools)}, nil
}

type SelectableTool struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  tool.Parameters `json:"parameters"`
	CanExecute  bool            `json:"can_execute"`
}

type Selected struct {
	SelectedServer View             `json:"selected_server"`
	AvailableTools []SelectableTool `json:"available_tools"`
	TotalTools     int              `json:"total_tools"`
	Message        string           `json:"message"`
}

// SelectServer resolves a server by name or, failing that, infers the
// slot from the port in rawURL.
func (s *Service) SelectServer(ctx context.Context, name, rawURL string) (*Selected, error) {
	name = strings.TrimSpace(name)
	rawURL = strings.TrimSpace(rawURL)
	if name == "" && rawURL == "" {
		return nil, domain.NewBadRequestError("server_name or server_url is required")
	}
	if name == "" {
		slot, ok := s.slotFromURL(rawURL)
		if !ok {
			return nil, domain.NewBadRequestError("Cannot determine server name from URL")
		}
		name = slot
	}

	resolved := s.store.GetServerByName(ctx, name)
	if resolved == nil {
		return nil, domain.NotFoundf("Server '%s' not found", name)
	}
	view := viewOf(*resolved)
	if rawURL != "" {
		view.URL = rawURL
	}

	tools := s.store.GetTools(ctx, resolved.ID)
	available := make([]SelectableTool, 0, len(tools))
	for _, t := range tools {
		available = append(available, SelectableTool{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			Parameters:  t.Parameters,
			CanExecute:  true,
		})
	}
	return &Selected{
		SelectedServer: view,
		AvailableTools: available,
		TotalTools:     len(available),
		Message:        "Server " + name + " selected",
	}, nil
}

// slotFromURL maps the port of rawURL onto a slot. URLs that do not parse
// fall back to a substring match on each slot port.
func (s *Service) slotFromURL(rawURL string) (string, bool) {
	if parsed, err := url.Parse(rawURL); err == nil {
		if port, err := strconv.Atoi(parsed.Port()); err == nil {
			if slot, ok := s.slots.SlotForPort(port); ok {
				return slot, true
			}
		}
	}
	for _, rule := range s.slots.Rules {
		if strings.Contains(rawURL, strconv.Itoa(rule.Port)) {
			return rule.Slot, true
		}
	}
	return "", false
}

type Execution struct {
	Tool   string      `json:"tool"`
	Server string      `json:"server"`
	Result interface{} `json:"result"`
	Status string      `json:"status"`
}

// ExecuteTool forwards a call to the tool server owning serverName.
func (s *Service) ExecuteTool(ctx context.Context, toolName, serverName string, args map[string]interface{}) (*Execution, error) {
	if strings.TrimSpace(toolName) == "" {
		return nil, domain.NewBadRequestError("tool_name is required")
	}
	if strings.TrimSpace(serverName) == "" {
		return nil, domain.NewBadRequestError("server is required")
	}
	resolved := s.store.GetServerByName(ctx, serverName)
	if resolved == nil {
		return nil, domain.NotFoundf("Server '%s' not found", serverName)
	}
	if s.store.GetTool(ctx, resolved.ID, toolName) == nil {
		return nil, domain.NotFoundf("Tool '%s' not found on server '%s'", toolName, serverName)
	}
	if args == nil {
		args = map[string]interface{}{}
	}

	result, err := s.callTool(ctx, resolved.BaseURL(), toolName, args)
	if err != nil {
		return nil, err
	}
	return &Execution{Tool: toolName, Server: serverName, Result: result, Status: "success"}, nil
}
