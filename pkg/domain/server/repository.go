package server

import "context"

//go:generate mockery --name=Repository --dir=. --output=./mocks --filename=repository_mock.go --case=underscore --with-expecter
type Repository interface {
	Get(ctx context.Context, id string) (*Server, error)
	GetByName(ctx context.Context, name string) (*Server, error)
	GetByURL(ctx context.Context, url string) (*Server, error)
	List(ctx context.Context) ([]Server, error)
	ListByAgent(ctx context.Context, agentID string) ([]Server, error)
	Create(ctx context.Context, server *Server) error
}
