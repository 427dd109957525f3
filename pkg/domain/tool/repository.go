package tool

import "context"

//go:generate mockery --name=Repository --dir=. --output=./mocks --filename=repository_mock.go --case=underscore --with-expecter
type Repository interface {
	Get(ctx context.Context, id string) (*Tool, error)
	GetByName(ctx context.Context, serverID, name string) (*Tool, error)
	ListByServer(ctx context.Context, serverID string) ([]Tool, error)
	CountByServer(ctx context.Context, serverID string) (int64, error)
	Create(ctx context.Context, tool *Tool) error
	Update(ctx context.Context, tool *Tool) error
	Delete(ctx context.Context, id string) (bool, error)
}
