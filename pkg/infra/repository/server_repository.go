package repository

import (
	"context"

	"github.com/NeuralTrust/toolhub/pkg/domain/server"
	"gorm.io/gorm"
)

type ServerRepository struct {
	db *gorm.DB
}

func NewServerRepository(db *gorm.DB) server.Repository {
	return &ServerRepository{
		db: db,
	}
}

func (r *ServerRepository) Get(ctx context.Context, id string) (*server.Server, error) {
	var entity server.Server
	if err := r.db.WithContext(ctx).First(&entity, "id = ?", id).Error; err != nil {
		return nil, wrapErr("get_server", err)
	}
	return &entity, nil
}

func (r *ServerRepository) GetByName(ctx context.Context, name string) (*server.Server, error) {
	var entity server.Server
	if err := r.db.WithContext(ctx).Where("name = ?", name).Order("id").First(&entity).Error; err != nil {
		return nil, wrapErr("get_server_by_name", err)
	}
	return &entity, nil
}

func (r *ServerRepository) GetByURL(ctx context.Context, url string) (*server.Server, error) {
	var entity server.Server
	if err := r.db.WithContext(ctx).Where("url = ?", url).Order("id").First(&entity).Error; err != nil {
		return nil, wrapErr("get_server_by_url", err)
	}
	return &entity, nil
}

func (r *ServerRepository) List(ctx context.Context) ([]server.Server, error) {
	var servers []server.Server
	if err := r.db.WithContext(ctx).Order("name").Order("id").Find(&servers).Error; err != nil {
		return nil, wrapErr("list_servers", err)
	}
	return servers, nil
}

func (r *ServerRepository) ListByAgent(ctx context.Context, agentID string) ([]server.Server, error) {
	var servers []server.Server
	err := r.db.WithContext(ctx).
		Joins("JOIN agent_servers ON agent_servers.server_id = servers.id").
		Where("agent_servers.agent_id = ?", agentID).
		Order("servers.name").
		Find(&servers).Error
	if err != nil {
		return nil, wrapErr("servers_for_agent", err)
	}
	return servers, nil
}

func (r *ServerRepository) Create(ctx context.Context, entity *server.Server) error {
	return wrapErr("create_server", r.db.WithContext(ctx).Create(entity).Error)
}
