package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"task-planner/internal/model"
	"task-planner/internal/repository"
)

// ListService manages task lists. Lists own their tasks: deleting one
// cascades.
type ListService struct {
	store *repository.Store
}

func NewListService(store *repository.Store) *ListService {
	return &ListService{store: store}
}

// Create stores a list under a unique slug derived from its name.
func (s *ListService) Create(ctx context.Context, name, color, icon string) (*model.List, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("list name is required")
	}

	slug, err := s.uniqueSlug(ctx, slugify(name))
	if err != nil {
		return nil, err
	}

	list := model.List{Name: name, Color: color, Icon: icon, Slug: slug}
	if err := s.store.Lists.Create(ctx, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (s *ListService) Update(ctx context.Context, id uint, name, color, icon string) error {
	updates := map[string]interface{}{"updated_at": time.Now()}
	if name != "" {
		updates["name"] = name
	}
	if color != "" {
		updates["color"] = color
	}
	if icon != "" {
		updates["icon"] = icon
	}
	return s.store.Lists.Apply(ctx, id, updates)
}

func (s *ListService) Delete(ctx context.Context, id uint) error {
	return s.store.Lists.Delete(ctx, id)
}

func (s *ListService) Lists(ctx context.Context) ([]model.List, error) {
	return s.store.Lists.List(ctx)
}

func (s *ListService) BySlug(ctx context.Context, slug string) (*model.List, error) {
	list, err := s.store.Lists.BySlug(ctx, slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return list, err
}

func (s *ListService) uniqueSlug(ctx context.Context, base string) (string, error) {
	slug := base
	for i := 2; ; i++ {
		_, err := s.store.Lists.BySlug(ctx, slug)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return slug, nil
		}
		if err != nil {
			return "", err
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

func slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteByte('-')
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = "list"
	}
	return slug
}
