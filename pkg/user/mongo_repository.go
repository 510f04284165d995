package user

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tendant/simple-quiz/pkg/dbconn"
)

// UsersCollection is the credential collection name
const UsersCollection = "quiz_users"

// MongoUserRepository implements UserRepository against the quiz_users
// collection. The database handle is acquired per operation so requests
// fail fast while the connection manager is disconnected.
type MongoUserRepository struct {
	conn *dbconn.Manager
}

func NewMongoUserRepository(conn *dbconn.Manager) *MongoUserRepository {
	return &MongoUserRepository{conn: conn}
}

// EnsureIndexes creates the unique indexes on username and email. It is a
// dbconn bootstrap step so the constraints exist before traffic is served.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(UsersCollection)
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("username_1"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_1"),
		},
	})
	if err != nil {
		slog.Error("Failed to create unique indexes on quiz_users", "err", err)
		return err
	}
	return nil
}

func (r *MongoUserRepository) collection() (*mongo.Collection, error) {
	db, err := r.conn.Database()
	if err != nil {
		return nil, err
	}
	return db.Collection(UsersCollection), nil
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*User, error) {
	coll, err := r.collection()
	if err != nil {
		return nil, err
	}

	var u User
	err = coll.FindOne(ctx, filter).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *MongoUserRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*User, error) {
	return r.findOne(ctx, bson.M{"$or": bson.A{
		bson.M{"username": username},
		bson.M{"email": email},
	}})
}

func (r *MongoUserRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepository) Insert(ctx context.Context, u *User) (primitive.ObjectID, error) {
	coll, err := r.collection()
	if err != nil {
		return primitive.NilObjectID, err
	}

	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now

	res, err := coll.InsertOne(ctx, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, r.resolveDuplicate(ctx, u)
		}
		return primitive.NilObjectID, err
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		slog.Error("Unexpected inserted id type", "id", res.InsertedID)
		return primitive.NilObjectID, ErrNotFound
	}
	return id, nil
}

// resolveDuplicate names the field that collided by re-reading the record
// that won the race. Both fields may have collided; username is reported
// first to keep the error deterministic.
func (r *MongoUserRepository) resolveDuplicate(ctx context.Context, u *User) error {
	existing, err := r.FindByUsernameOrEmail(ctx, u.Username, u.Email)
	if err != nil {
		// The winning record is already gone; report the generic pair
		return DuplicateError{Field: "username or email"}
	}
	if existing.Username == u.Username {
		return DuplicateError{Field: "username"}
	}
	return DuplicateError{Field: "email"}
}

func (r *MongoUserRepository) MarkVerified(ctx context.Context, id primitive.ObjectID) error {
	coll, err := r.collection()
	if err != nil {
		return err
	}

	res, err := coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"isVerified": true,
			"updatedAt":  time.Now().UTC(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
