package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"task-planner/internal/model"
)

// ListRepository manages task lists.
type ListRepository struct {
	db *gorm.DB
}

func NewListRepository(db *gorm.DB) *ListRepository {
	return &ListRepository{db: db}
}

func (r *ListRepository) Create(ctx context.Context, list *model.List) error {
	if err := r.db.WithContext(ctx).Create(list).Error; err != nil {
		return fmt.Errorf("create list: %w", err)
	}
	return nil
}

func (r *ListRepository) ByID(ctx context.Context, id uint) (*model.List, error) {
	var list model.List
	if err := r.db.WithContext(ctx).First(&list, id).Error; err != nil {
		return nil, err
	}
	return &list, nil
}

func (r *ListRepository) BySlug(ctx context.Context, slug string) (*model.List, error) {
	var list model.List
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&list).Error; err != nil {
		return nil, err
	}
	return &list, nil
}

func (r *ListRepository) List(ctx context.Context) ([]model.List, error) {
	var lists []model.List
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&lists).Error; err != nil {
		return nil, fmt.Errorf("list lists: %w", err)
	}
	return lists, nil
}

func (r *ListRepository) Apply(ctx context.Context, id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Model(&model.List{}).
		Where("id = ?", id).
		Updates(updates).Error; err != nil {
		return fmt.Errorf("update list: %w", err)
	}
	return nil
}

// Delete removes a list; its tasks go with it by cascade.
func (r *ListRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&model.List{}, id).Error; err != nil {
		return fmt.Errorf("delete list: %w", err)
	}
	return nil
}
