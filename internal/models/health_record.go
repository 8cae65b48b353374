// server/internal/models/health_record.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HealthRecord belongs to an animal and reaches its farm through it.
// CreatedBy is the authoring user; deletion by vets is restricted to the
// author.
type HealthRecord struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RecordID    string             `bson:"recordID" json:"recordID"` // e.g. "HR-1a2b3c4d"
	LivestockID string             `bson:"livestockID" json:"livestockID"`
	Condition   string             `bson:"condition" json:"condition"`
	Diagnosis   string             `bson:"diagnosis,omitempty" json:"diagnosis,omitempty"`
	Treatment   string             `bson:"treatment,omitempty" json:"treatment,omitempty"`
	Medication  string             `bson:"medication,omitempty" json:"medication,omitempty"`
	Cost        float64            `bson:"cost,omitempty" json:"cost,omitempty"`
	RecordDate  time.Time          `bson:"recordDate" json:"recordDate"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedBy   string             `bson:"createdBy" json:"createdBy"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
