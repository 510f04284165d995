package quiz

import (
	"context"
	"slices"
	"strings"
	"sync"
)

// InMemQuizRepository is a map-backed QuizRepository for tests and local
// development.
type InMemQuizRepository struct {
	mu          sync.RWMutex
	collections map[string][]Question
}

func NewInMemQuizRepository() *InMemQuizRepository {
	return &InMemQuizRepository{
		collections: make(map[string][]Question),
	}
}

// AddQuestion appends a document to the named collection, creating the
// collection if needed.
func (r *InMemQuizRepository) AddQuestion(collection string, q Question) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.collections[collection] = append(r.collections[collection], q)
}

func (r *InMemQuizRepository) ListCollections(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.collections))
	for name := range r.collections {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

func (r *InMemQuizRepository) CollectionExists(ctx context.Context, name string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.collections[name]
	return ok, nil
}

func (r *InMemQuizRepository) FindQuestions(ctx context.Context, collection, keyword string) ([]Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	docs := r.collections[collection]
	if keyword == "" {
		return slices.Clone(docs), nil
	}

	matched := []Question{}
	for _, doc := range docs {
		text, _ := doc["question"].(string)
		if strings.Contains(strings.ToLower(text), strings.ToLower(keyword)) {
			matched = append(matched, doc)
		}
	}
	return matched, nil
}
