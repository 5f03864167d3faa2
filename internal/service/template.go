package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"task-planner/internal/model"
	"task-planner/internal/repository"
)

// Template date placeholder tokens, substituted textually in the stored
// JSON before any date is parsed.
var templateDateTokens = []string{"today", "tomorrow", "next-week"}

// TemplateService stores task-tree templates and instantiates them
// through the normal task creation path.
type TemplateService struct {
	store *repository.Store
	tasks *TaskService
}

func NewTemplateService(store *repository.Store, tasks *TaskService) *TemplateService {
	return &TemplateService{store: store, tasks: tasks}
}

// Create stores a template. Content is kept as-is; it is validated when
// instantiated, not here, so authoring stays flexible.
func (s *TemplateService) Create(ctx context.Context, name, content string) (*model.Template, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("template name is required")
	}
	tpl := model.Template{Name: name, Content: content}
	if err := s.store.Templates.Create(ctx, &tpl); err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (s *TemplateService) Update(ctx context.Context, id uint, name, content string) error {
	updates := map[string]interface{}{
		"name":       name,
		"content":    content,
		"updated_at": time.Now(),
	}
	return s.store.Templates.Apply(ctx, id, updates)
}

func (s *TemplateService) Delete(ctx context.Context, id uint) error {
	return s.store.Templates.Delete(ctx, id)
}

func (s *TemplateService) Templates(ctx context.Context) ([]model.Template, error) {
	return s.store.Templates.List(ctx)
}

// Instantiate creates the template's tasks and nested subtasks through
// the normal create path, so every create-path side effect (created
// logs, suggestion defaults) applies. The whole tree materializes in
// one transaction: a failure partway leaves nothing behind. The listID
// override applies to top-level tasks only, never to subtasks.
func (s *TemplateService) Instantiate(ctx context.Context, templateID uint, listID *uint) ([]model.Task, error) {
	tpl, err := s.store.Templates.ByID(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("load template %d: %w", templateID, err)
	}

	now := time.Now()
	content := substituteDateTokens(tpl.Content, now)
	nodes, err := parseNodes(content)
	if err != nil {
		return nil, err
	}

	var created []model.Task
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		created = created[:0]
		for _, node := range nodes {
			input := nodeInput(node)
			if listID != nil {
				input.ListID = listID
			}
			task, err := s.tasks.createWithDefaults(ctx, tx, input)
			if err != nil {
				return err
			}
			if err := s.createSubtasks(ctx, tx, task.ID, node.Subtasks); err != nil {
				return err
			}
			created = append(created, *task)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *TemplateService) createSubtasks(ctx context.Context, tx *repository.Store, parentID uint, nodes []model.TemplateNode) error {
	for _, node := range nodes {
		input := nodeInput(node)
		input.ListID = nil
		input.ParentID = &parentID

		child, err := createTask(ctx, tx, input, time.Now())
		if err != nil {
			return err
		}
		if err := s.createSubtasks(ctx, tx, child.ID, node.Subtasks); err != nil {
			return err
		}
	}
	return nil
}

func nodeInput(node model.TemplateNode) TaskInput {
	input := TaskInput{
		Title:           node.Title,
		Description:     node.Description,
		Priority:        node.Priority,
		EstimateMinutes: node.EstimateMinutes,
	}
	if node.DueDate != "" {
		if due, err := time.ParseInLocation("2006-01-02", node.DueDate, time.Local); err == nil {
			input.DueDate = &due
		} else {
			log.Printf("[warn] template due date %q: %v", node.DueDate, err)
		}
	}
	return input
}

// parseNodes decodes and validates template content at instantiation
// time, after token substitution. Storage never rejects content, so the
// create path only ever sees well-formed payloads from here.
func parseNodes(content string) ([]model.TemplateNode, error) {
	var nodes []model.TemplateNode
	if err := json.Unmarshal([]byte(content), &nodes); err != nil {
		return nil, fmt.Errorf("parse template content: %w", err)
	}
	if err := validateNodes(nodes); err != nil {
		return nil, err
	}
	return nodes, nil
}

func validateNodes(nodes []model.TemplateNode) error {
	for _, node := range nodes {
		if strings.TrimSpace(node.Title) == "" {
			return fmt.Errorf("template node missing title")
		}
		if err := validateNodes(node.Subtasks); err != nil {
			return err
		}
	}
	return nil
}

// substituteDateTokens replaces the quoted placeholder tokens in the
// raw JSON with concrete ISO dates. Textual on purpose: it happens
// before the content is parsed at all.
func substituteDateTokens(content string, now time.Time) string {
	dates := map[string]time.Time{
		"today":     now,
		"tomorrow":  now.AddDate(0, 0, 1),
		"next-week": now.AddDate(0, 0, 7),
	}
	for _, token := range templateDateTokens {
		quoted := `"` + token + `"`
		replacement := `"` + dates[token].Format("2006-01-02") + `"`
		content = strings.ReplaceAll(content, quoted, replacement)
	}
	return content
}
