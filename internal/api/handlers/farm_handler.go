// server/internal/api/handlers/farm_handler.go
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

type FarmHandler struct {
	DB     *mongo.Database
	Engine *policy.Engine
}

type AddressRequest struct {
	FullText  string  `json:"fullText" binding:"required"`
	Latitude  float64 `json:"latitude" binding:"min=-90,max=90"`
	Longitude float64 `json:"longitude" binding:"min=-180,max=180"`
}

type CreateFarmRequest struct {
	Name        string         `json:"name" binding:"required"`
	Location    AddressRequest `json:"location" binding:"required"`
	SizeAcres   float64        `json:"sizeAcres"`
	Description string         `json:"description"`
}

// CreateFarm registers a new farm owned by the calling farmer.
func (h *FarmHandler) CreateFarm(c *gin.Context) {
	var req CreateFarmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := currentIdentity(c)
	now := time.Now()
	newFarm := models.Farm{
		FarmID:   newID("FARM"),
		FarmerID: user.ID,
		Name:     req.Name,
		Location: models.Address{
			FullText:  req.Location.FullText,
			Latitude:  req.Location.Latitude,
			Longitude: req.Location.Longitude,
		},
		SizeAcres:   req.SizeAcres,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	result, err := h.DB.Collection("farms").InsertOne(context.Background(), newFarm)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create farm"})
		return
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		newFarm.ID = oid
	}

	c.JSON(http.StatusCreated, newFarm)
}

// GetMyFarms lists farms visible to the caller: owned farms for farmers,
// actively associated farms for vets.
func (h *FarmHandler) GetMyFarms(c *gin.Context) {
	user := currentIdentity(c)

	scope, err := h.Engine.ScopeFor(context.Background(), user, policy.ResourceFarm)
	if err != nil {
		respondPolicyError(c, err)
		return
	}

	cursor, err := h.DB.Collection("farms").Find(context.Background(), farmScopeFilter(scope))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query farms"})
		return
	}
	defer cursor.Close(context.Background())

	var farms []models.Farm
	if err = cursor.All(context.Background(), &farms); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode farms"})
		return
	}
	if farms == nil {
		farms = []models.Farm{}
	}

	c.JSON(http.StatusOK, farms)
}

// GetFarm returns a single farm after an access check.
func (h *FarmHandler) GetFarm(c *gin.Context) {
	farmID := c.Param("id")
	user := currentIdentity(c)

	var farm models.Farm
	err := h.DB.Collection("farms").FindOne(context.Background(), bson.M{"farmID": farmID}).Decode(&farm)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve farm"})
		}
		return
	}

	if err := h.Engine.Authorize(context.Background(), user, policy.ActionRead,
		policy.Ref{Class: policy.ResourceFarm, FarmID: farmID}); err != nil {
		respondPolicyError(c, err)
		return
	}

	c.JSON(http.StatusOK, farm)
}

// UpdateFarm updates descriptive fields. Ownership never changes.
func (h *FarmHandler) UpdateFarm(c *gin.Context) {
	farmID := c.Param("id")
	user := currentIdentity(c)

	var req CreateFarmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Engine.Authorize(context.Background(), user, policy.ActionWrite,
		policy.Ref{Class: policy.ResourceFarm, FarmID: farmID}); err != nil {
		respondPolicyError(c, err)
		return
	}

	_, err := h.DB.Collection("farms").UpdateOne(context.Background(), bson.M{"farmID": farmID}, bson.M{"$set": bson.M{
		"name": req.Name,
		"location": models.Address{
			FullText:  req.Location.FullText,
			Latitude:  req.Location.Latitude,
			Longitude: req.Location.Longitude,
		},
		"sizeAcres":   req.SizeAcres,
		"description": req.Description,
		"updatedAt":   time.Now(),
	}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update farm"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Farm updated successfully"})
}

// DeleteFarm removes a farm. Only its owner may do this.
func (h *FarmHandler) DeleteFarm(c *gin.Context) {
	farmID := c.Param("id")
	user := currentIdentity(c)

	if err := h.Engine.Authorize(context.Background(), user, policy.ActionDelete,
		policy.Ref{Class: policy.ResourceFarm, FarmID: farmID}); err != nil {
		respondPolicyError(c, err)
		return
	}

	_, err := h.DB.Collection("farms").DeleteOne(context.Background(), bson.M{"farmID": farmID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete farm"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Farm deleted successfully"})
}
