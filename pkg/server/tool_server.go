package server

import (
	"github.com/NeuralTrust/toolhub/pkg/config"
	"github.com/NeuralTrust/toolhub/pkg/server/router"
	"github.com/sirupsen/logrus"
)

type (
	ToolServerDI struct {
		Config *config.Config
		Logger *logrus.Logger
		Role   string
		Router router.ServerRouter
	}
	// ToolServer serves one tool server slot (server_a or server_b).
	ToolServer struct {
		*BaseServer
		role string
	}
)

func NewToolServer(di ToolServerDI) *ToolServer {
	s := &ToolServer{
		BaseServer: NewBaseServer(di.Config, di.Logger),
		role:       di.Role,
	}
	s.WithRouters(di.Router)
	return s
}

func (s *ToolServer) Run() error {
	return s.listen(s.role, s.Config.PortFor(s.role))
}
