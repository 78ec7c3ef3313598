package models

import "time"

// WardrobeEntry is one analyzed clothing image. Entries are append-only:
// nothing in the backend mutates or deletes them after creation.
type WardrobeEntry struct {
	ID          string                 `bson:"_id" json:"id"`
	UserID      string                 `bson:"user_id,omitempty" json:"user_id,omitempty"`
	Analysis    map[string]interface{} `bson:"analysis" json:"analysis"`
	Summary     string                 `bson:"summary" json:"summary"`
	ImageBase64 string                 `bson:"base64" json:"base64"`
	CreatedAt   time.Time              `bson:"created_at" json:"timestamp"`
}
