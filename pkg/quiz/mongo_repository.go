package quiz

import (
	"context"
	"regexp"
	"slices"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tendant/simple-quiz/pkg/dbconn"
	"github.com/tendant/simple-quiz/pkg/user"
)

// MongoQuizRepository implements QuizRepository on top of the shared
// connection manager. Quiz collections are whatever the database holds
// besides the users collection.
type MongoQuizRepository struct {
	conn *dbconn.Manager
}

func NewMongoQuizRepository(conn *dbconn.Manager) *MongoQuizRepository {
	return &MongoQuizRepository{conn: conn}
}

func (r *MongoQuizRepository) ListCollections(ctx context.Context) ([]string, error) {
	db, err := r.conn.Database()
	if err != nil {
		return nil, err
	}

	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	collections := make([]string, 0, len(names))
	for _, name := range names {
		if name == user.UsersCollection {
			continue
		}
		collections = append(collections, name)
	}
	slices.Sort(collections)
	return collections, nil
}

func (r *MongoQuizRepository) CollectionExists(ctx context.Context, name string) (bool, error) {
	db, err := r.conn.Database()
	if err != nil {
		return false, err
	}

	names, err := db.ListCollectionNames(ctx, bson.M{"name": name})
	if err != nil {
		return false, err
	}
	return len(names) > 0, nil
}

func (r *MongoQuizRepository) FindQuestions(ctx context.Context, collection, keyword string) ([]Question, error) {
	db, err := r.conn.Database()
	if err != nil {
		return nil, err
	}

	filter := bson.M{}
	if keyword != "" {
		filter["question"] = primitive.Regex{
			Pattern: regexp.QuoteMeta(keyword),
			Options: "i",
		}
	}

	cursor, err := db.Collection(collection).Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	questions := []Question{}
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}
