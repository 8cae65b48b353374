// server/internal/models/livestock.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Livestock struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	LivestockID string             `bson:"livestockID" json:"livestockID"` // e.g. "LS-1a2b3c4d"
	FarmID      string             `bson:"farmID" json:"farmID"`
	TagNumber   string             `bson:"tagNumber" json:"tagNumber"`
	Species     string             `bson:"species" json:"species"` // e.g. "cattle", "goat", "poultry"
	Breed       string             `bson:"breed,omitempty" json:"breed,omitempty"`
	Gender      string             `bson:"gender" json:"gender"`
	DateOfBirth *time.Time         `bson:"dateOfBirth,omitempty" json:"dateOfBirth,omitempty"`
	Status      string             `bson:"status" json:"status"` // "active", "sold", "deceased"
	Photos      []MediaPointer     `bson:"photos,omitempty" json:"photos,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Calf reaches its farm through the dam (LivestockID), never directly.
type Calf struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CalfID      string             `bson:"calfID" json:"calfID"` // e.g. "CALF-1a2b3c4d"
	LivestockID string             `bson:"livestockID" json:"livestockID"`
	TagNumber   string             `bson:"tagNumber,omitempty" json:"tagNumber,omitempty"`
	Gender      string             `bson:"gender" json:"gender"`
	DateOfBirth time.Time          `bson:"dateOfBirth" json:"dateOfBirth"`
	BirthWeight float64            `bson:"birthWeight,omitempty" json:"birthWeight,omitempty"` // kg
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
