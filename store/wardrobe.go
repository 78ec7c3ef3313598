// Package store persists the wardrobe: the append-only collection of
// analyzed clothing images. Appends are single atomic inserts, so
// concurrent analyses can't lose entries the way a read-modify-write file
// cycle would.
package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/raushankrgupta/stylemate-backend/models"
)

// Wardrobe is the persistence surface the handlers depend on. Entries are
// never mutated or removed once appended.
type Wardrobe interface {
	Append(ctx context.Context, entry models.WardrobeEntry) error
	FetchAll(ctx context.Context) ([]models.WardrobeEntry, error)
}

const dbTimeout = 10 * time.Second

// MongoWardrobe stores entries in a MongoDB collection.
type MongoWardrobe struct {
	collection *mongo.Collection
}

// NewMongoWardrobe creates a wardrobe store over the given collection.
func NewMongoWardrobe(collection *mongo.Collection) *MongoWardrobe {
	return &MongoWardrobe{collection: collection}
}

// Append inserts one entry.
func (s *MongoWardrobe) Append(ctx context.Context, entry models.WardrobeEntry) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if _, err := s.collection.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to save wardrobe entry: %w", err)
	}
	return nil
}

// FetchAll returns every entry in insertion order. A fresh store yields an
// empty slice, never nil.
func (s *MongoWardrobe) FetchAll(ctx context.Context) ([]models.WardrobeEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := s.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch wardrobe: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []models.WardrobeEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode wardrobe entries: %w", err)
	}
	if entries == nil {
		entries = []models.WardrobeEntry{}
	}
	return entries, nil
}
