// server/internal/models/sale.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Sale struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SaleID      string             `bson:"saleID" json:"saleID"` // e.g. "SALE-1a2b3c4d"
	FarmID      string             `bson:"farmID" json:"farmID"`
	Product     string             `bson:"product" json:"product"`
	Category    string             `bson:"category" json:"category"` // "livestock", "crop", "other"
	Quantity    float64            `bson:"quantity" json:"quantity"`
	Unit        string             `bson:"unit,omitempty" json:"unit,omitempty"`
	UnitPrice   float64            `bson:"unitPrice" json:"unitPrice"`
	TotalAmount float64            `bson:"totalAmount" json:"totalAmount"`
	Buyer       string             `bson:"buyer,omitempty" json:"buyer,omitempty"`
	SaleDate    time.Time          `bson:"saleDate" json:"saleDate"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
