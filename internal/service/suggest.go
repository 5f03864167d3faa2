package service

import (
	"context"
	"strings"

	"task-planner/internal/model"
)

// Suggestion is what a metadata collaborator proposes for a new task.
// The zero value means "no suggestion".
type Suggestion struct {
	ListID   *uint
	LabelIDs []uint
}

// Suggester proposes a list and labels for a task title. Implementations
// are treated as fallible collaborators: any error or timeout degrades
// to an empty Suggestion at the call site and never blocks creation.
type Suggester interface {
	Suggest(ctx context.Context, title string, lists []model.List, labels []model.Label) (Suggestion, error)
}

// KeywordSuggester is the built-in fallback: it proposes the first list
// and any labels whose names appear in the title.
type KeywordSuggester struct{}

func (KeywordSuggester) Suggest(ctx context.Context, title string, lists []model.List, labels []model.Label) (Suggestion, error) {
	if err := ctx.Err(); err != nil {
		return Suggestion{}, err
	}

	lower := strings.ToLower(title)
	var out Suggestion

	for _, list := range lists {
		name := strings.ToLower(strings.TrimSpace(list.Name))
		if name != "" && strings.Contains(lower, name) {
			id := list.ID
			out.ListID = &id
			break
		}
	}

	for _, label := range labels {
		name := strings.ToLower(strings.TrimSpace(label.Name))
		if name != "" && strings.Contains(lower, name) {
			out.LabelIDs = append(out.LabelIDs, label.ID)
		}
	}

	return out, nil
}
