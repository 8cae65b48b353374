// server/internal/models/notebook.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotebookEntry with an empty FarmID is a personal note visible only to its
// author. Entries with a FarmID follow the same farm scoping as any other
// farm resource on every access.
type NotebookEntry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EntryID   string             `bson:"entryID" json:"entryID"` // e.g. "NOTE-1a2b3c4d"
	UserID    string             `bson:"userID" json:"userID"`
	FarmID    string             `bson:"farmID,omitempty" json:"farmID,omitempty"`
	Title     string             `bson:"title" json:"title"`
	Content   string             `bson:"content,omitempty" json:"content,omitempty"`
	Tags      []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
