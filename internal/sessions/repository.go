package sessions

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository persists string entries of a session namespace.
// A missing session or key is reported as ("", false, nil).
type Repository interface {
	Get(ctx context.Context, sid, key string) (string, bool, error)
	Set(ctx context.Context, sid, key, value string) error
	// Delete removes the given keys in one operation; with no keys it drops the whole session.
	Delete(ctx context.Context, sid string, keys ...string) error
}

// Toucher is implemented by repositories whose sessions expire when idle.
// Touch restarts the idle timer of an existing session; a missing session is not an error.
type Toucher interface {
	Touch(ctx context.Context, sid string) error
}

// MongoRepository implements Repository using one document per session:
// {_id: sid, entries: {key: value}, updatedAt}.
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

type mongoSession struct {
	ID        string            `bson:"_id"`
	Entries   map[string]string `bson:"entries"`
	UpdatedAt time.Time         `bson:"updatedAt"`
}

func (r *MongoRepository) Get(ctx context.Context, sid, key string) (string, bool, error) {
	var s mongoSession
	opts := options.FindOne().SetProjection(bson.M{"entries." + key: 1})
	if err := r.col.FindOne(ctx, bson.M{"_id": sid}, opts).Decode(&s); err != nil {
		if err == mongo.ErrNoDocuments {
			return "", false, nil
		}
		return "", false, err
	}
	v, ok := s.Entries[key]
	return v, ok, nil
}

func (r *MongoRepository) Set(ctx context.Context, sid, key, value string) error {
	update := bson.M{"$set": bson.M{
		"entries." + key: value,
		"updatedAt":      time.Now().UTC(),
	}}
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": sid}, update, options.Update().SetUpsert(true))
	return err
}

func (r *MongoRepository) Delete(ctx context.Context, sid string, keys ...string) error {
	if len(keys) == 0 {
		_, err := r.col.DeleteOne(ctx, bson.M{"_id": sid})
		return err
	}
	unset := bson.M{}
	for _, k := range keys {
		unset["entries."+k] = ""
	}
	update := bson.M{
		"$unset": unset,
		"$set":   bson.M{"updatedAt": time.Now().UTC()},
	}
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": sid}, update)
	return err
}

// Touch bumps updatedAt, which the session TTL index expires on.
func (r *MongoRepository) Touch(ctx context.Context, sid string) error {
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": sid}, bson.M{"$set": bson.M{"updatedAt": time.Now().UTC()}})
	return err
}
