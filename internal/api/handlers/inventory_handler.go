// server/internal/api/handlers/inventory_handler.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"farmlink-api-server/internal/models"
	"farmlink-api-server/internal/policy"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type InventoryHandler struct {
	DB     *mongo.Database
	Engine *policy.Engine
}

type CreateInventoryItemRequest struct {
	Name         string   `json:"name" binding:"required"`
	Category     string   `json:"category"`
	Quantity     float64  `json:"quantity" binding:"gte=0"`
	Unit         string   `json:"unit"`
	ReorderLevel *float64 `json:"reorderLevel"`
}

type LogConsumptionRequest struct {
	Date     time.Time `json:"date" binding:"required"`
	Quantity float64   `json:"quantity" binding:"required,gt=0"`
	Notes    string    `json:"notes"`
}

func (h *InventoryHandler) CreateItem(c *gin.Context) {
	farmID := c.Param("id")
	user := currentIdentity(c)

	var req CreateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Engine.Authorize(context.Background(), user, policy.ActionWrite,
		policy.Ref{Class: policy.ResourceInventory, FarmID: farmID}); err != nil {
		respondPolicyError(c, err)
		return
	}

	now := time.Now()
	newItem := models.InventoryItem{
		ItemID:       newID("INV"),
		FarmID:       farmID,
		Name:         req.Name,
		Category:     req.Category,
		Quantity:     req.Quantity,
		Unit:         req.Unit,
		ReorderLevel: req.ReorderLevel,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	result, err := h.DB.Collection("inventory").InsertOne(context.Background(), newItem)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create inventory item"})
		return
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		newItem.ID = oid
	}

	c.JSON(http.StatusCreated, newItem)
}

func (h *InventoryHandler) ListItems(c *gin.Context) {
	user := currentIdentity(c)

	scope, err := h.Engine.ScopeFor(context.Background(), user, policy.ResourceInventory)
	if err != nil {
		respondPolicyError(c, err)
		return
	}

	filter := farmScopeFilter(scope)
	if farmID := c.Query("farmID"); farmID != "" {
		filter = bson.M{"$and": []bson.M{filter, {"farmID": farmID}}}
	}

	cursor, err := h.DB.Collection("inventory").Find(context.Background(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query inventory"})
		return
	}
	defer cursor.Close(context.Background())

	var items []models.InventoryItem
	if err = cursor.All(context.Background(), &items); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode inventory"})
		return
	}
	if items == nil {
		items = []models.InventoryItem{}
	}

	c.JSON(http.StatusOK, items)
}

func (h *InventoryHandler) GetItem(c *gin.Context) {
	itemID := c.Param("id")
	user := currentIdentity(c)

	var item models.InventoryItem
	err := h.DB.Collection("inventory").FindOne(context.Background(), bson.M{"itemID": itemID}).Decode(&item)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve inventory item"})
		}
		return
	}

	if err := h.Engine.Authorize(context.Background(), user, policy.ActionRead,
		policy.Ref{Class: policy.ResourceInventory, FarmID: item.FarmID}); err != nil {
		respondPolicyError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": item, "lowStock": item.LowStock()})
}

func (h *InventoryHandler) UpdateItem(c *gin.Context) {
	itemID := c.Param("id")
	user := currentIdentity(c)

	var req CreateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var item models.InventoryItem
	err := h.DB.Collection("inventory").FindOne(context.Background(), bson.M{"itemID": itemID}).Decode(&item)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve inventory item"})
		}
		return
	}

	if err := h.Engine.Authorize(context.Background(), user, policy.ActionWrite,
		policy.Ref{Class: policy.ResourceInventory, FarmID: item.FarmID}); err != nil {
		respondPolicyError(c, err)
		return
	}

	_, err = h.DB.Collection("inventory").UpdateOne(context.Background(), bson.M{"itemID": itemID}, bson.M{"$set": bson.M{
		"name":         req.Name,
		"category":     req.Category,
		"quantity":     req.Quantity,
		"unit":         req.Unit,
		"reorderLevel": req.ReorderLevel,
		"updatedAt":    time.Now(),
	}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update inventory item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Inventory item updated successfully"})
}

// LogConsumption appends a consumption entry and decrements the quantity,
// floored at zero. The update is conditional on the quantity the entry was
// computed from, so two concurrent logs cannot double-decrement from a stale
// read; the loser of the race retries on a fresh read.
func (h *InventoryHandler) LogConsumption(c *gin.Context) {
	itemID := c.Param("id")
	user := currentIdentity(c)

	var req LogConsumptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	collection := h.DB.Collection("inventory")

	for attempt := 0; attempt < 3; attempt++ {
		var item models.InventoryItem
		err := collection.FindOne(context.Background(), bson.M{"itemID": itemID}).Decode(&item)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve inventory item"})
			}
			return
		}

		if err := h.Engine.Authorize(context.Background(), user, policy.ActionWrite,
			policy.Ref{Class: policy.ResourceInventory, FarmID: item.FarmID}); err != nil {
			respondPolicyError(c, err)
			return
		}

		previousQuantity := item.Quantity
		lowStock := item.LogConsumption(models.ConsumptionEntry{
			Date:     req.Date,
			Quantity: req.Quantity,
			Notes:    req.Notes,
		})

		result, err := collection.UpdateOne(context.Background(),
			bson.M{"itemID": itemID, "quantity": previousQuantity},
			bson.M{"$set": bson.M{
				"quantity":    item.Quantity,
				"consumption": item.Consumption,
				"updatedAt":   item.UpdatedAt,
			}})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log consumption"})
			return
		}
		if result.ModifiedCount == 1 {
			c.JSON(http.StatusOK, gin.H{"item": item, "lowStock": lowStock})
			return
		}
		// Quantity moved under us; reread and retry.
	}

	c.JSON(http.StatusConflict, gin.H{"error": "Concurrent update, please retry"})
}

func (h *InventoryHandler) DeleteItem(c *gin.Context) {
	itemID := c.Param("id")
	user := currentIdentity(c)

	var item models.InventoryItem
	err := h.DB.Collection("inventory").FindOne(context.Background(), bson.M{"itemID": itemID}).Decode(&item)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve inventory item"})
		}
		return
	}

	if err := h.Engine.Authorize(context.Background(), user, policy.ActionDelete,
		policy.Ref{Class: policy.ResourceInventory, FarmID: item.FarmID}); err != nil {
		respondPolicyError(c, err)
		return
	}

	_, err = h.DB.Collection("inventory").DeleteOne(context.Background(), bson.M{"itemID": itemID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete inventory item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Inventory item deleted successfully"})
}
