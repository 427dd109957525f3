package toolserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/NeuralTrust/toolhub/pkg/app/registry"
	"github.com/NeuralTrust/toolhub/pkg/domain"
	"github.com/NeuralTrust/toolhub/pkg/domain/execution"
	"github.com/NeuralTrust/toolhub/pkg/domain/server"
	"github.com/NeuralTrust/toolhub/pkg/domain/tool"
	"github.com/sirupsen/logrus"
)

// ExecutionResult is the body of POST /tools/call. Tool failures are
// reported here, not as transport errors.
type ExecutionResult struct {
	Content []string `json:"content"`
	Success bool     `json:"success"`
	IsError bool     `json:"isError,omitempty"`
}

type Health struct {
	Status    string    `json:"status"`
	Server    string    `json:"server"`
	Port      int       `json:"port"`
	Database  string    `json:"database"`
	Timestamp time.Time `json:"timestamp"`
}

type Info struct {
	Server      server.Annotated `json:"server"`
	ToolsCount  int              `json:"tools_count"`
	ActiveTools []tool.Tool      `json:"active_tools"`
}

// RemoteRunner executes tools that carry an api_url.
type RemoteRunner interface {
	Execute(ctx context.Context, t tool.Tool, args map[string]interface{}) (interface{}, error)
}

type ServiceDeps struct {
	Store    registry.Store
	Slot     string
	Slots    server.SlotTable
	Port     int
	Sink     execution.Sink
	Remote   RemoteRunner
	Builtins Builtins
	Logger   *logrus.Logger
	Now      func() time.Time
}

// Service is a tool server bound to one registry server.
type Service struct {
	store    registry.Store
	slot     string
	display  string
	port     int
	serverID string
	sink     execution.Sink
	remote   RemoteRunner
	builtins Builtins
	logger   *logrus.Logger
	now      func() time.Time

	mu        sync.RWMutex
	listeners []func(context.Context)
}

// NewService resolves slot through the store. An unknown slot, or one no
// registry row maps onto, is a startup error.
func NewService(ctx context.Context, deps ServiceDeps) (*Service, error) {
	slots := deps.Slots
	if len(slots.Rules) == 0 {
		slots = server.DefaultSlotTable
	}
	rule, ok := slots.Rule(deps.Slot)
	if !ok {
		return nil, domain.ConfigurationErrorf("unknown server slot %q", deps.Slot)
	}
	resolved := deps.Store.GetServerByName(ctx, deps.Slot)
	if resolved == nil {
		return nil, domain.ConfigurationErrorf("%s not found in registry", deps.Slot)
	}

	port := deps.Port
	if port <= 0 {
		port = rule.Port
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	builtins := deps.Builtins
	if builtins == nil {
		builtins = NewBuiltins(rule.DisplayName, now)
	}
	logger := deps.Logger
	if logger == nil {
		logger = logrus.New()
	}

	logger.WithFields(logrus.Fields{
		"slot":      deps.Slot,
		"server_id": resolved.ID,
		"name":      resolved.Name,
	}).Info("tool server bound to registry server")

	return &Service{
		store:    deps.Store,
		slot:     deps.Slot,
		display:  rule.DisplayName,
		port:     port,
		serverID: resolved.ID,
		sink:     deps.Sink,
		remote:   deps.Remote,
		builtins: builtins,
		logger:   logger,
		now:      now,
	}, nil
}

func (s *Service) Slot() string        { return s.slot }
func (s *Service) DisplayName() string { return s.display }
func (s *Service) ServerID() string    { return s.serverID }
func (s *Service) Port() int           { return s.port }

// OnCatalogChange registers fn to run after a tool is registered, updated
// or deleted through this service.
func (s *Service) OnCatalogChange(fn func(context.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Service) notifyCatalogChange(ctx context.Context) {
	s.mu.RLock()
	listeners := append([]func(context.Context){}, s.listeners...)
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn(ctx)
	}
}

// ListTools never fails; a store outage yields an empty catalog.
func (s *Service) ListTools(ctx context.Context) Catalog {
	tools := s.store.GetTools(ctx, s.serverID)
	catalog := Catalog{Tools: make([]Descriptor, 0, len(tools))}
	for _, t := range tools {
		catalog.Tools = append(catalog.Tools, Describe(t, s.slot))
	}
	return catalog
}

func (s *Service) CheckTools(ctx context.Context) CheckReport {
	catalog := s.ListTools(ctx)
	report := CheckReport{Server: s.display, Tools: make([]Summary, 0, len(catalog.Tools))}
	for _, d := range catalog.Tools {
		report.Tools = append(report.Tools, Summary{
			Name:        d.Name,
			Description: d.Description,
			APIURL:      d.APIURL,
			HTTPMethod:  d.HTTPMethod,
		})
	}
	return report
}

// Execute runs toolName with args. Only an unknown tool is returned as an
// error; every other failure is an isError result. Each resolved call
// records exactly one execution log before returning.
func (s *Service) Execute(ctx context.Context, toolName string, args map[string]interface{}) (*ExecutionResult, error) {
	if args == nil {
		args = map[string]interface{}{}
	}
	t := s.store.GetTool(ctx, s.serverID, toolName)
	if t == nil {
		return nil, domain.NotFoundf("Tool '%s' not found", toolName)
	}

	start := s.now()
	result, err := s.dispatch(ctx, *t, args)
	var content string
	if err == nil {
		var encoded []byte
		encoded, err = json.MarshalIndent(result, "", "  ")
		content = string(encoded)
	}
	elapsed := s.now().Sub(start)

	entry := execution.Log{
		ToolID:     t.ID,
		ToolName:   t.Name,
		ServerID:   s.serverID,
		ServerName: s.slot,
		Arguments:  args,
		DurationMS: float64(elapsed.Microseconds()) / 1000,
		Timestamp:  start.UTC(),
	}
	if err != nil {
		entry.Status = execution.StatusError
		entry.Error = err.Error()
	} else {
		entry.Status = execution.StatusSuccess
		entry.Result = result
	}
	s.record(ctx, entry)

	if err != nil {
		return &ExecutionResult{
			Content: []string{fmt.Sprintf("Error: %s", err.Error())},
			Success: false,
			IsError: true,
		}, nil
	}
	return &ExecutionResult{Content: []string{content}, Success: true}, nil
}

func (s *Service) dispatch(ctx context.Context, t tool.Tool, args map[string]interface{}) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.WithField("tool_name", t.Name).Errorf("tool panicked: %v", r)
			result, err = nil, fmt.Errorf("tool %s failed: %v", t.Name, r)
		}
	}()
	if t.IsRemote() {
		if s.remote == nil {
			return nil, domain.NewConfigurationError("remote tool execution is not configured")
		}
		return s.remote.Execute(ctx, t, args)
	}
	return s.builtins.Run(t.Name, args)
}

func (s *Service) record(ctx context.Context, entry execution.Log) {
	if s.sink == nil {
		return
	}
	if err := s.sink.Record(ctx, entry); err != nil {
		s.logger.WithError(err).WithField("tool_name", entry.ToolName).Error("failed to record execution")
	}
}

// Health never fails; store problems show up as a disconnected database.
func (s *Service) Health(ctx context.Context) Health {
	database := "disconnected"
	if s.store.Ping(ctx) {
		database = "connected"
	}
	return Health{
		Status:    "healthy",
		Server:    s.display,
		Port:      s.port,
		Database:  database,
		Timestamp: s.now().UTC(),
	}
}

func (s *Service) Info(ctx context.Context) (*Info, error) {
	resolved := s.store.GetServerByName(ctx, s.slot)
	if resolved == nil {
		return nil, domain.NotFoundf("Server not found")
	}
	return &Info{
		Server:      *resolved,
		ToolsCount:  s.store.CountTools(ctx, resolved.ID),
		ActiveTools: s.store.GetTools(ctx, resolved.ID),
	}, nil
}

// RegisterTool stores t under this server with a fresh id.
func (s *Service) RegisterTool(ctx context.Context, t tool.Tool) (*tool.Tool, error) {
	if strings.TrimSpace(t.Name) == "" {
		return nil, domain.NewBadRequestError("Tool name is required")
	}
	t.ID = ""
	t.ServerID = s.serverID
	created, err := s.store.RegisterTool(ctx, t)
	if err != nil {
		return nil, err
	}
	s.notifyCatalogChange(ctx)
	return created, nil
}

func (s *Service) UpdateTool(ctx context.Context, id string, update tool.Update) (*tool.Tool, error) {
	if strings.TrimSpace(update.Name) == "" {
		return nil, domain.NewBadRequestError("Tool name is required")
	}
	if !s.owns(ctx, id) {
		return nil, domain.NotFoundf("Tool not found or could not be updated")
	}
	updated, err := s.store.UpdateTool(ctx, id, update)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, domain.NotFoundf("Tool not found or could not be updated")
	}
	s.notifyCatalogChange(ctx)
	return updated, nil
}

func (s *Service) DeleteTool(ctx context.Context, id string) error {
	if !s.owns(ctx, id) {
		return domain.NotFoundf("Tool not found or could not be deleted")
	}
	deleted, err := s.store.DeleteTool(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.NotFoundf("Tool not found or could not be deleted")
	}
	s.notifyCatalogChange(ctx)
	return nil
}

// owns reports whether tool id belongs to this server. Tools of the other
// slot are invisible here.
func (s *Service) owns(ctx context.Context, id string) bool {
	t := s.store.GetToolByID(ctx, id)
	return t != nil && t.ServerID == s.serverID
}
