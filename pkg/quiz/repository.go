package quiz

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
)

// Question is a single quiz entry. Documents carry free-form fields
// beyond these, so the raw document is preserved alongside the typed
// ones.
type Question bson.M

// QuizRepository reads quiz collections from the document store.
type QuizRepository interface {
	// ListCollections returns the names of all quiz collections,
	// excluding internal ones.
	ListCollections(ctx context.Context) ([]string, error)

	// CollectionExists reports whether the named collection exists.
	CollectionExists(ctx context.Context, name string) (bool, error)

	// FindQuestions returns every document in the collection, or only
	// those whose question text matches keyword when keyword is set.
	FindQuestions(ctx context.Context, collection, keyword string) ([]Question, error)
}
