package repository

import "context"

type Repository[T any] interface {
	FindOne(ctx context.Context, collectionName string, filter interface{}) (T, error)
	FindMany(ctx context.Context, collectionName string, filter interface{}) ([]T, error)
}
