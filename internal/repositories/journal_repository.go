package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/journalme/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrEntryNotFound is returned when a journal entry does not exist
var ErrEntryNotFound = fmt.Errorf("journal entry not found")

// JournalRepository defines the interface for journal entry data operations
type JournalRepository interface {
	CreateEntry(ctx context.Context, entry *models.JournalEntry) error
	GetEntryByID(ctx context.Context, id string) (*models.JournalEntry, error)
	GetEntriesByUserID(ctx context.Context, userID uint) ([]models.JournalEntry, error)
	GetPublicEntriesByUserIDs(ctx context.Context, userIDs []uint, limit int64) ([]models.JournalEntry, error)
	DeleteEntry(ctx context.Context, id string) error
}

// MongoJournalRepository implements JournalRepository for MongoDB
type MongoJournalRepository struct {
	collection *mongo.Collection
}

// NewMongoJournalRepository creates a new MongoJournalRepository
func NewMongoJournalRepository(db *mongo.Database) *MongoJournalRepository {
	return &MongoJournalRepository{collection: db.Collection("journal_entries")}
}

// CreateEntry creates a new journal entry in MongoDB
func (r *MongoJournalRepository) CreateEntry(ctx context.Context, entry *models.JournalEntry) error {
	entry.ID = primitive.NewObjectID()
	entry.CreatedAt = time.Now()
	entry.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

// GetEntryByID retrieves a journal entry by ID from MongoDB
func (r *MongoJournalRepository) GetEntryByID(ctx context.Context, id string) (*models.JournalEntry, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrEntryNotFound
	}

	var entry models.JournalEntry
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&entry)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// GetEntriesByUserID retrieves a user's journal entries, newest first
func (r *MongoJournalRepository) GetEntriesByUserID(ctx context.Context, userID uint) ([]models.JournalEntry, error) {
	var entries []models.JournalEntry
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// GetPublicEntriesByUserIDs retrieves the most recent public entries authored
// by any of the given users
func (r *MongoJournalRepository) GetPublicEntriesByUserIDs(ctx context.Context, userIDs []uint, limit int64) ([]models.JournalEntry, error) {
	var entries []models.JournalEntry
	if len(userIDs) == 0 {
		return entries, nil
	}

	findOptions := options.Find().SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	filter := bson.M{
		"is_public": true,
		"user_id":   bson.M{"$in": userIDs},
	}
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// DeleteEntry deletes a journal entry by ID from MongoDB
func (r *MongoJournalRepository) DeleteEntry(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrEntryNotFound
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrEntryNotFound
	}
	return nil
}
