package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gremath/internal/common"
	"github.com/dmitrijs2005/gremath/internal/server/models"
	"github.com/dmitrijs2005/gremath/internal/server/questions"
)

type QuestionService struct {
	repo questions.Repository
}

func NewQuestionService(repo questions.Repository) *QuestionService {
	return &QuestionService{repo: repo}
}

// Create stores q on behalf of principal and returns it with its new id.
func (s *QuestionService) Create(ctx context.Context, principal *models.User, q *models.Question) (*models.Question, error) {
	if principal == nil {
		return nil, common.ErrUnauthenticated
	}
	if err := validateQuestion(q); err != nil {
		return nil, err
	}

	if _, err := s.repo.Create(ctx, q, principal.ID); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuestionService) List(ctx context.Context, limit, skip int) ([]models.Question, error) {
	return s.repo.List(ctx, limit, skip)
}

func (s *QuestionService) Get(ctx context.Context, id string) (*models.Question, error) {
	return s.repo.Get(ctx, id)
}

func validateQuestion(q *models.Question) error {
	var missing []string
	if strings.TrimSpace(q.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(q.Content) == "" {
		missing = append(missing, "content")
	}
	if strings.TrimSpace(q.CorrectAnswer) == "" {
		missing = append(missing, "correct_answer")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", common.ErrValidation, strings.Join(missing, ", "))
	}

	seen := make(map[string]struct{}, len(q.Options))
	for _, o := range q.Options {
		if o.ID == "" {
			return fmt.Errorf("%w: option id is required", common.ErrValidation)
		}
		if _, dup := seen[o.ID]; dup {
			return fmt.Errorf("%w: duplicate option id %q", common.ErrValidation, o.ID)
		}
		seen[o.ID] = struct{}{}
	}
	return nil
}
