package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JournalEntry is a journal post owned by exactly one user. Entries live in
// MongoDB; UserID refers to the PostgreSQL user record.
type JournalEntry struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    uint               `json:"userId" bson:"user_id"`
	Text      string             `json:"text" bson:"text"`
	AudioPath string             `json:"audioPath,omitempty" bson:"audio_path,omitempty"`
	ImagePath string             `json:"imagePath,omitempty" bson:"image_path,omitempty"`
	VideoPath string             `json:"videoPath,omitempty" bson:"video_path,omitempty"`
	IsPublic  bool               `json:"isPublic" bson:"is_public"`
	CreatedAt time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updated_at"`
}

// FeedEntry is a journal entry enriched with its author's public profile
type FeedEntry struct {
	JournalEntry
	User PublicUser `json:"user"`
}
