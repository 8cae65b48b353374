// server/internal/models/vet_contact.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VetContact is a farmer-kept address-book entry, independent of any
// association record.
type VetContact struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ContactID string             `bson:"contactID" json:"contactID"` // e.g. "VC-1a2b3c4d"
	FarmID    string             `bson:"farmID" json:"farmID"`
	Name      string             `bson:"name" json:"name"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Email     string             `bson:"email,omitempty" json:"email,omitempty"`
	Clinic    string             `bson:"clinic,omitempty" json:"clinic,omitempty"`
	Specialty string             `bson:"specialty,omitempty" json:"specialty,omitempty"`
	Notes     string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
