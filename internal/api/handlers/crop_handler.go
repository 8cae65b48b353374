// server/internal/api/handlers/crop_handler.go
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

type CropHandler struct {
	DB     *mongo.Database
	Engine *policy.Engine
}

type CreateCropRequest struct {
	Name         string     `json:"name" binding:"required"`
	Variety      string     `json:"variety"`
	AreaAcres    float64    `json:"areaAcres"`
	PlantingDate time.Time  `json:"plantingDate" binding:"required"`
	HarvestDate  *time.Time `json:"harvestDate"`
	Status       string     `json:"status"`
	Notes        string     `json:"notes"`
}

// CreateCrop records a crop under a farm.
func (h *CropHandler) CreateCrop(c *gin.Context) {
	farmID := c.Param("id")
	user := currentIdentity(c)

	var req CreateCropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Engine.Authorize(context.Background(), user, policy.ActionWrite,
		policy.Ref{Class: policy.ResourceCrop, FarmID: farmID}); err != nil {
		respondPolicyError(c, err)
		return
	}

	status := req.Status
	if status == "" {
		status = "planted"
	}

	now := time.Now()
	newCrop := models.Crop{
		CropID:       newID("CROP"),
		FarmID:       farmID,
		Name:         req.Name,
		Variety:      req.Variety,
		AreaAcres:    req.AreaAcres,
		PlantingDate: req.PlantingDate,
		HarvestDate:  req.HarvestDate,
		Status:       status,
		Notes:        req.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	result, err := h.DB.Collection("crops").InsertOne(context.Background(), newCrop)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create crop"})
		return
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		newCrop.ID = oid
	}

	c.JSON(http.StatusCreated, newCrop)
}

// ListCrops returns the crops on every farm the caller can see.
func (h *CropHandler) ListCrops(c *gin.Context) {
	user := currentIdentity(c)

	scope, err := h.Engine.ScopeFor(context.Background(), user, policy.ResourceCrop)
	if err != nil {
		respondPolicyError(c, err)
		return
	}

	filter := farmScopeFilter(scope)
	if farmID := c.Query("farmID"); farmID != "" {
		filter = bson.M{"$and": []bson.M{filter, {"farmID": farmID}}}
	}

	cursor, err := h.DB.Collection("crops").Find(context.Background(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query crops"})
		return
	}
	defer cursor.Close(context.Background())

	var crops []models.Crop
	if err = cursor.All(context.Background(), &crops); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode crops"})
		return
	}
	if crops == nil {
		crops = []models.Crop{}
	}

	c.JSON(http.StatusOK, crops)
}

// GetCrop returns a single crop after an access check.
func (h *CropHandler) GetCrop(c *gin.Context) {
	cropID := c.Param("id")
	user := currentIdentity(c)

	var crop models.Crop
	err := h.DB.Collection("crops").FindOne(context.Background(), bson.M{"cropID": cropID}).Decode(&crop)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve crop"})
		}
		return
	}

	if err := h.Engine.Authorize(context.Background(), user, policy.ActionRead,
		policy.Ref{Class: policy.ResourceCrop, FarmID: crop.FarmID}); err != nil {
		respondPolicyError(c, err)
		return
	}

	c.JSON(http.StatusOK, crop)
}

// UpdateCrop updates a crop's fields.
func (h *CropHandler) UpdateCrop(c *gin.Context) {
	cropID := c.Param("id")
	user := currentIdentity(c)

	var req CreateCropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var crop models.Crop
	err := h.DB.Collection("crops").FindOne(context.Background(), bson.M{"cropID": cropID}).Decode(&crop)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve crop"})
		}
		return
	}

	if err := h.Engine.Authorize(context.Background(), user, policy.ActionWrite,
		policy.Ref{Class: policy.ResourceCrop, FarmID: crop.FarmID}); err != nil {
		respondPolicyError(c, err)
		return
	}

	_, err = h.DB.Collection("crops").UpdateOne(context.Background(), bson.M{"cropID": cropID}, bson.M{"$set": bson.M{
		"name":         req.Name,
		"variety":      req.Variety,
		"areaAcres":    req.AreaAcres,
		"plantingDate": req.PlantingDate,
		"harvestDate":  req.HarvestDate,
		"status":       req.Status,
		"notes":        req.Notes,
		"updatedAt":    time.Now(),
	}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update crop"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Crop updated successfully"})
}

// DeleteCrop removes a crop. Vets are never allowed to delete crops.
func (h *CropHandler) DeleteCrop(c *gin.Context) {
	cropID := c.Param("id")
	user := currentIdentity(c)

	var crop models.Crop
	err := h.DB.Collection("crops").FindOne(context.Background(), bson.M{"cropID": cropID}).Decode(&crop)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve crop"})
		}
		return
	}

	if err := h.Engine.Authorize(context.Background(), user, policy.ActionDelete,
		policy.Ref{Class: policy.ResourceCrop, FarmID: crop.FarmID}); err != nil {
		respondPolicyError(c, err)
		return
	}

	_, err = h.DB.Collection("crops").DeleteOne(context.Background(), bson.M{"cropID": cropID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete crop"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Crop deleted successfully"})
}
