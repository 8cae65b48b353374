// server/internal/models/inventory_test.go
package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLogConsumptionDecrements(t *testing.T) {
	item := InventoryItem{Quantity: 10}

	low := item.LogConsumption(ConsumptionEntry{Date: time.Now(), Quantity: 3})

	assert.False(t, low)
	assert.Equal(t, 7.0, item.Quantity)
	assert.Len(t, item.Consumption, 1)
}

func TestLogConsumptionFloorsAtZero(t *testing.T) {
	item := InventoryItem{Quantity: 4}

	item.LogConsumption(ConsumptionEntry{Date: time.Now(), Quantity: 10})

	assert.Equal(t, 0.0, item.Quantity)
}

func TestLowStock(t *testing.T) {
	reorder := 5.0

	// No reorder level set: never low.
	item := InventoryItem{Quantity: 0}
	assert.False(t, item.LowStock())

	item = InventoryItem{Quantity: 6, ReorderLevel: &reorder}
	assert.False(t, item.LowStock())

	item.Quantity = 5
	assert.True(t, item.LowStock())

	item.Quantity = 2
	assert.True(t, item.LowStock())
}

func TestConsumptionScenario(t *testing.T) {
	reorder := 5.0
	item := InventoryItem{Name: "Dairy feed", Quantity: 10, Unit: "bags", ReorderLevel: &reorder}

	low := item.LogConsumption(ConsumptionEntry{Date: time.Now(), Quantity: 7})
	assert.True(t, low)
	assert.Equal(t, 3.0, item.Quantity)

	// Over-consuming an already low item floors at zero and stays low.
	low = item.LogConsumption(ConsumptionEntry{Date: time.Now(), Quantity: 10})
	assert.True(t, low)
	assert.Equal(t, 0.0, item.Quantity)
	assert.Len(t, item.Consumption, 2)
}
