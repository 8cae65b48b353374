// server/internal/models/pregnancy.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Pregnancy struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PregnancyID        string             `bson:"pregnancyID" json:"pregnancyID"` // e.g. "PREG-1a2b3c4d"
	LivestockID        string             `bson:"livestockID" json:"livestockID"`
	BreedingDate       time.Time          `bson:"breedingDate" json:"breedingDate"`
	ExpectedDueDate    *time.Time         `bson:"expectedDueDate,omitempty" json:"expectedDueDate,omitempty"`
	ActualDeliveryDate *time.Time         `bson:"actualDeliveryDate,omitempty" json:"actualDeliveryDate,omitempty"`
	Sire               string             `bson:"sire,omitempty" json:"sire,omitempty"`
	Status             string             `bson:"status" json:"status"` // "ongoing", "delivered", "lost"
	Notes              string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedBy          string             `bson:"createdBy" json:"createdBy"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}
