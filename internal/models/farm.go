// server/internal/models/farm.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Farm has exactly one owning farmer. Every farm-scoped resource references
// it by FarmID.
type Farm struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FarmID      string             `bson:"farmID" json:"farmID"` // e.g. "FARM-1a2b3c4d"
	FarmerID    string             `bson:"farmerID" json:"farmerID"`
	Name        string             `bson:"name" json:"name"`
	Location    Address            `bson:"location" json:"location"`
	SizeAcres   float64            `bson:"sizeAcres,omitempty" json:"sizeAcres,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
