package quiz

import (
	"context"
	"log/slog"

	pkgerr "github.com/tendant/simple-quiz/pkg/errors"
)

// QuizService exposes read access to the quiz collections.
type QuizService struct {
	repo QuizRepository
}

func NewQuizService(repo QuizRepository) *QuizService {
	return &QuizService{repo: repo}
}

// ListCollections returns the names of the available quiz collections.
func (s *QuizService) ListCollections(ctx context.Context) ([]string, error) {
	names, err := s.repo.ListCollections(ctx)
	if err != nil {
		slog.Error("Failed to list quiz collections", "err", err)
		return nil, err
	}
	return names, nil
}

// FetchQuestions returns the documents in a collection, filtered by an
// optional case-insensitive keyword match on the question text. The
// collection must already exist; an unknown name is an error rather
// than an empty result.
func (s *QuizService) FetchQuestions(ctx context.Context, collection, keyword string) ([]Question, error) {
	exists, err := s.repo.CollectionExists(ctx, collection)
	if err != nil {
		slog.Error("Failed to check quiz collection", "collection", collection, "err", err)
		return nil, err
	}
	if !exists {
		return nil, pkgerr.New(pkgerr.ErrCodeCollectionNotFound, "Collection not found").
			WithDetail("collection", collection)
	}

	questions, err := s.repo.FindQuestions(ctx, collection, keyword)
	if err != nil {
		slog.Error("Failed to fetch questions", "collection", collection, "err", err)
		return nil, err
	}
	return questions, nil
}
