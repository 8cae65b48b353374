// server/internal/models/listing.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Listing is owned by an agrovets user directly and is outside the farm/vet
// access model: public read while active, creator-only mutation.
type Listing struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ListingID         string             `bson:"listingID" json:"listingID"` // e.g. "LST-1a2b3c4d"
	AgrovetsID        string             `bson:"agrovetsID" json:"agrovetsID"`
	Title             string             `bson:"title" json:"title"`
	Description       string             `bson:"description,omitempty" json:"description,omitempty"`
	Category          string             `bson:"category,omitempty" json:"category,omitempty"` // "feed", "fertilizer", "medicine", "equipment"
	Price             float64            `bson:"price" json:"price"`
	Unit              string             `bson:"unit,omitempty" json:"unit,omitempty"`
	QuantityAvailable float64            `bson:"quantityAvailable,omitempty" json:"quantityAvailable,omitempty"`
	Status            string             `bson:"status" json:"status"` // "active", "inactive", "sold_out"
	Photos            []MediaPointer     `bson:"photos,omitempty" json:"photos,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

const (
	ListingActive   = "active"
	ListingInactive = "inactive"
	ListingSoldOut  = "sold_out"
)
