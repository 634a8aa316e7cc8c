package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoRepository[T any] struct {
	mongo *mongo.Database
}

func NewMongoRepository[T any](mongo *mongo.Database) *MongoRepository[T] {
	return &MongoRepository[T]{mongo: mongo}
}

// FindOne returns the first document matching filter. mongo.ErrNoDocuments is passed through.
func (r *MongoRepository[T]) FindOne(ctx context.Context, collectionName string, filter interface{}) (T, error) {
	var entity T
	collection := r.mongo.Collection(collectionName)
	err := collection.FindOne(ctx, filter).Decode(&entity)
	return entity, err
}

func (r *MongoRepository[T]) FindMany(ctx context.Context, collectionName string, filter interface{}) ([]T, error) {
	if filter == nil {
		filter = bson.D{}
	}

	collection := r.mongo.Collection(collectionName)
	cursor, err := collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entities []T
	for cursor.Next(ctx) {
		var entity T
		if err := cursor.Decode(&entity); err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, cursor.Err()
}
