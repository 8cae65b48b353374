// server/internal/models/crop.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Crop struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CropID       string             `bson:"cropID" json:"cropID"` // e.g. "CROP-1a2b3c4d"
	FarmID       string             `bson:"farmID" json:"farmID"`
	Name         string             `bson:"name" json:"name"`
	Variety      string             `bson:"variety,omitempty" json:"variety,omitempty"`
	AreaAcres    float64            `bson:"areaAcres,omitempty" json:"areaAcres,omitempty"`
	PlantingDate time.Time          `bson:"plantingDate" json:"plantingDate"`
	HarvestDate  *time.Time         `bson:"harvestDate,omitempty" json:"harvestDate,omitempty"`
	Status       string             `bson:"status" json:"status"` // "planted", "growing", "harvested", "failed"
	Notes        string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
