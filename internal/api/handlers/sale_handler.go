// server/internal/api/handlers/sale_handler.go
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

type SaleHandler struct {
	DB     *mongo.Database
	Engine *policy.Engine
}

type CreateSaleRequest struct {
	Product   string    `json:"product" binding:"required"`
	Category  string    `json:"category" binding:"required,oneof=livestock crop other"`
	Quantity  float64   `json:"quantity" binding:"required,gt=0"`
	Unit      string    `json:"unit"`
	UnitPrice float64   `json:"unitPrice" binding:"required,gte=0"`
	Buyer     string    `json:"buyer"`
	SaleDate  time.Time `json:"saleDate" binding:"required"`
	Notes     string    `json:"notes"`
}

// CreateSale records a sale under a farm.
func (h *SaleHandler) CreateSale(c *gin.Context) {
	farmID := c.Param("id")
	user := currentIdentity(c)

	var req CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Engine.Authorize(context.Background(), user, policy.ActionWrite,
		policy.Ref{Class: policy.ResourceSale, FarmID: farmID}); err != nil {
		respondPolicyError(c, err)
		return
	}

	now := time.Now()
	newSale := models.Sale{
		SaleID:      newID("SALE"),
		FarmID:      farmID,
		Product:     req.Product,
		Category:    req.Category,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		UnitPrice:   req.UnitPrice,
		TotalAmount: req.Quantity * req.UnitPrice,
		Buyer:       req.Buyer,
		SaleDate:    req.SaleDate,
		Notes:       req.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	result, err := h.DB.Collection("sales").InsertOne(context.Background(), newSale)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create sale"})
		return
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		newSale.ID = oid
	}

	c.JSON(http.StatusCreated, newSale)
}

// ListSales returns sales across every farm the caller can see.
func (h *SaleHandler) ListSales(c *gin.Context) {
	user := currentIdentity(c)

	scope, err := h.Engine.ScopeFor(context.Background(), user, policy.ResourceSale)
	if err != nil {
		respondPolicyError(c, err)
		return
	}

	filter := farmScopeFilter(scope)
	if farmID := c.Query("farmID"); farmID != "" {
		filter = bson.M{"$and": []bson.M{filter, {"farmID": farmID}}}
	}
	if category := c.Query("category"); category != "" {
		filter = bson.M{"$and": []bson.M{filter, {"category": category}}}
	}

	cursor, err := h.DB.Collection("sales").Find(context.Background(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query sales"})
		return
	}
	defer cursor.Close(context.Background())

	var sales []models.Sale
	if err = cursor.All(context.Background(), &sales); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode sales"})
		return
	}
	if sales == nil {
		sales = []models.Sale{}
	}

	c.JSON(http.StatusOK, sales)
}

// GetSale returns a single sale after an access check.
func (h *SaleHandler) GetSale(c *gin.Context) {
	saleID := c.Param("id")
	user := currentIdentity(c)

	var sale models.Sale
	err := h.DB.Collection("sales").FindOne(context.Background(), bson.M{"saleID": saleID}).Decode(&sale)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve sale"})
		}
		return
	}

	if err := h.Engine.Authorize(context.Background(), user, policy.ActionRead,
		policy.Ref{Class: policy.ResourceSale, FarmID: sale.FarmID}); err != nil {
		respondPolicyError(c, err)
		return
	}

	c.JSON(http.StatusOK, sale)
}

// UpdateSale rewrites a sale's fields.
func (h *SaleHandler) UpdateSale(c *gin.Context) {
	saleID := c.Param("id")
	user := currentIdentity(c)

	var req CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var sale models.Sale
	err := h.DB.Collection("sales").FindOne(context.Background(), bson.M{"saleID": saleID}).Decode(&sale)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve sale"})
		}
		return
	}

	if err := h.Engine.Authorize(context.Background(), user, policy.ActionWrite,
		policy.Ref{Class: policy.ResourceSale, FarmID: sale.FarmID}); err != nil {
		respondPolicyError(c, err)
		return
	}

	_, err = h.DB.Collection("sales").UpdateOne(context.Background(), bson.M{"saleID": saleID}, bson.M{"$set": bson.M{
		"product":     req.Product,
		"category":    req.Category,
		"quantity":    req.Quantity,
		"unit":        req.Unit,
		"unitPrice":   req.UnitPrice,
		"totalAmount": req.Quantity * req.UnitPrice,
		"buyer":       req.Buyer,
		"saleDate":    req.SaleDate,
		"notes":       req.Notes,
		"updatedAt":   time.Now(),
	}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update sale"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Sale updated successfully"})
}

// DeleteSale removes a sale record.
func (h *SaleHandler) DeleteSale(c *gin.Context) {
	saleID := c.Param("id")
	user := currentIdentity(c)

	var sale models.Sale
	err := h.DB.Collection("sales").FindOne(context.Background(), bson.M{"saleID": saleID}).Decode(&sale)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve sale"})
		}
		return
	}

	if err := h.Engine.Authorize(context.Background(), user, policy.ActionDelete,
		policy.Ref{Class: policy.ResourceSale, FarmID: sale.FarmID}); err != nil {
		respondPolicyError(c, err)
		return
	}

	_, err = h.DB.Collection("sales").DeleteOne(context.Background(), bson.M{"saleID": saleID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete sale"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Sale deleted successfully"})
}
