package repository

import (
	"context"

	"github.com/NeuralTrust/toolhub/pkg/domain/agent"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AgentRepository struct {
	db *gorm.DB
}

func NewAgentRepository(db *gorm.DB) agent.Repository {
	return &AgentRepository{
		db: db,
	}
}

func (r *AgentRepository) Create(ctx context.Context, entity *agent.Agent) error {
	return wrapErr("create_agent", r.db.WithContext(ctx).Create(entity).Error)
}

func (r *AgentRepository) List(ctx context.Context) ([]agent.Agent, error) {
	var agents []agent.Agent
	if err := r.db.WithContext(ctx).Order("name").Find(&agents).Error; err != nil {
		return nil, wrapErr("list_agents", err)
	}
	return agents, nil
}

func (r *AgentRepository) Get(ctx context.Context, id string) (*agent.Agent, error) {
	var entity agent.Agent
	if err := r.db.WithContext(ctx).First(&entity, "id = ?", id).Error; err != nil {
		return nil, wrapErr("get_agent", err)
	}
	return &entity, nil
}

func (r *AgentRepository) Update(ctx context.Context, entity *agent.Agent) error {
	result := r.db.WithContext(ctx).
		Model(entity).
		Select("name", "description", "updated_at").
		Updates(entity)
	if result.Error != nil {
		return wrapErr("update_agent", result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound("update_agent")
	}
	return nil
}

func (r *AgentRepository) Delete(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&agent.Agent{}, "id = ?", id)
	if result.Error != nil {
		return false, wrapErr("delete_agent", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *AgentRepository) Link(ctx context.Context, agentID, serverID string) error {
	link := agent.Link{AgentID: agentID, ServerID: serverID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&link).Error
	return wrapErr("link_agent_server", err)
}

func (r *AgentRepository) Unlink(ctx context.Context, agentID, serverID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("agent_id = ? AND server_id = ?", agentID, serverID).
		Delete(&agent.Link{})
	if result.Error != nil {
		return false, wrapErr("unlink_agent_server", result.Error)
	}
	return result.RowsAffected > 0, nil
}
