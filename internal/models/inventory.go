// server/internal/models/inventory.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ConsumptionEntry is one dated withdrawal from an inventory item.
type ConsumptionEntry struct {
	Date     time.Time `bson:"date" json:"date"`
	Quantity float64   `bson:"quantity" json:"quantity"`
	Notes    string    `bson:"notes,omitempty" json:"notes,omitempty"`
}

type InventoryItem struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ItemID       string             `bson:"itemID" json:"itemID"` // e.g. "INV-1a2b3c4d"
	FarmID       string             `bson:"farmID" json:"farmID"`
	Name         string             `bson:"name" json:"name"`
	Category     string             `bson:"category,omitempty" json:"category,omitempty"` // "feed", "medicine", "seed", "equipment"
	Quantity     float64            `bson:"quantity" json:"quantity"`
	Unit         string             `bson:"unit,omitempty" json:"unit,omitempty"`
	ReorderLevel *float64           `bson:"reorderLevel,omitempty" json:"reorderLevel,omitempty"`
	Consumption  []ConsumptionEntry `bson:"consumption,omitempty" json:"consumption,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// LogConsumption appends the entry to the item's history and decrements the
// quantity, flooring at zero. It reports whether the item is now at or below
// its reorder level.
func (i *InventoryItem) LogConsumption(entry ConsumptionEntry) bool {
	i.Consumption = append(i.Consumption, entry)
	i.Quantity -= entry.Quantity
	if i.Quantity < 0 {
		i.Quantity = 0
	}
	i.UpdatedAt = time.Now()
	return i.LowStock()
}

// LowStock reports whether quantity has fallen to the reorder level. Items
// without a reorder level never report low stock.
func (i *InventoryItem) LowStock() bool {
	return i.ReorderLevel != nil && i.Quantity <= *i.ReorderLevel
}
