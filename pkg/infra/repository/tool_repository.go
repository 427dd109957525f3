package repository

import (
	"context"

	"github.com/NeuralTrust/toolhub/pkg/domain/tool"
	"gorm.io/gorm"
)

type ToolRepository struct {
	db *gorm.DB
}

func NewToolRepository(db *gorm.DB) tool.Repository {
	return &ToolRepository{
		db: db,
	}
}

func (r *ToolRepository) Get(ctx context.Context, id string) (*tool.Tool, error) {
	var entity tool.Tool
	if err := r.db.WithContext(ctx).First(&entity, "id = ?", id).Error; err != nil {
		return nil, wrapErr("get_tool_by_id", err)
	}
	return &entity, nil
}

func (r *ToolRepository) GetByName(ctx context.Context, serverID, name string) (*tool.Tool, error) {
	var entity tool.Tool
	if err := r.db.WithContext(ctx).Where("server_id = ? AND name = ?", serverID, name).First(&entity).Error; err != nil {
		return nil, wrapErr("get_tool", err)
	}
	return &entity, nil
}

func (r *ToolRepository) ListByServer(ctx context.Context, serverID string) ([]tool.Tool, error) {
	var tools []tool.Tool
	if err := r.db.WithContext(ctx).Where("server_id = ?", serverID).Order("name").Find(&tools).Error; err != nil {
		return nil, wrapErr("get_tools", err)
	}
	return tools, nil
}

func (r *ToolRepository) CountByServer(ctx context.Context, serverID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&tool.Tool{}).Where("server_id = ?", serverID).Count(&count).Error; err != nil {
		return 0, wrapErr("count_tools", err)
	}
	return count, nil
}

func (r *ToolRepository) Create(ctx context.Context, entity *tool.Tool) error {
	return wrapErr("register_tool", r.db.WithContext(ctx).Create(entity).Error)
}

func (r *ToolRepository) Update(ctx context.Context, entity *tool.Tool) error {
	result := r.db.WithContext(ctx).
		Model(entity).
		Select("name", "description", "parameters", "api_url", "http_method", "updated_at").
		Updates(entity)
	if result.Error != nil {
		return wrapErr("update_tool", result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound("update_tool")
	}
	return nil
}

func (r *ToolRepository) Delete(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&tool.Tool{}, "id = ?", id)
	if result.Error != nil {
		return false, wrapErr("delete_tool", result.Error)
	}
	return result.RowsAffected > 0, nil
}
