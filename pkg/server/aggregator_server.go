package server

import (
	"github.com/NeuralTrust/toolhub/pkg/config"
	"github.com/NeuralTrust/toolhub/pkg/server/router"
	"github.com/sirupsen/logrus"
)

type (
	AggregatorServerDI struct {
		Config *config.Config
		Logger *logrus.Logger
		Router router.ServerRouter
	}
	AggregatorServer struct {
		*BaseServer
	}
)

func NewAggregatorServer(di AggregatorServerDI) *AggregatorServer {
	s := &AggregatorServer{BaseServer: NewBaseServer(di.Config, di.Logger)}
	s.WithRouters(di.Router)
	return s
}

func (s *AggregatorServer) Run() error {
	return s.listen(config.RoleAggregator, s.Config.PortFor(config.RoleAggregator))
}
