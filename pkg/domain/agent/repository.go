package agent

import "context"

//go:generate mockery --name=Repository --dir=. --output=./mocks --filename=repository_mock.go --case=underscore --with-expecter
type Repository interface {
	Create(ctx context.Context, agent *Agent) error
	List(ctx context.Context) ([]Agent, error)
	Get(ctx context.Context, id string) (*Agent, error)
	Update(ctx context.Context, agent *Agent) error
	Delete(ctx context.Context, id string) (bool, error)
	Link(ctx context.Context, agentID, serverID string) error
	Unlink(ctx context.Context, agentID, serverID string) (bool, error)
}
