package service

import (
	"context"
	"fmt"
	"strings"

	"task-planner/internal/model"
	"task-planner/internal/repository"
)

// LabelService manages labels. Deleting a label drops its task
// associations by cascade; tasks themselves are untouched.
type LabelService struct {
	store *repository.Store
}

func NewLabelService(store *repository.Store) *LabelService {
	return &LabelService{store: store}
}

func (s *LabelService) Create(ctx context.Context, name, color, icon string) (*model.Label, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("label name is required")
	}
	label := model.Label{Name: name, Color: color, Icon: icon}
	if err := s.store.Labels.Create(ctx, &label); err != nil {
		return nil, err
	}
	return &label, nil
}

func (s *LabelService) Update(ctx context.Context, id uint, name, color, icon string) error {
	updates := map[string]interface{}{}
	if name != "" {
		updates["name"] = name
	}
	if color != "" {
		updates["color"] = color
	}
	if icon != "" {
		updates["icon"] = icon
	}
	return s.store.Labels.Apply(ctx, id, updates)
}

func (s *LabelService) Delete(ctx context.Context, id uint) error {
	return s.store.Labels.Delete(ctx, id)
}

func (s *LabelService) Labels(ctx context.Context) ([]model.Label, error) {
	return s.store.Labels.List(ctx)
}
