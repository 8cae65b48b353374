// server/internal/api/handlers/pregnancy_handler.go
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

type PregnancyHandler struct {
	DB     *mongo.Database
	Engine *policy.Engine
}

type CreatePregnancyRequest struct {
	BreedingDate       time.Time  `json:"breedingDate" binding:"required"`
	ExpectedDueDate    *time.Time `json:"expectedDueDate"`
	ActualDeliveryDate *time.Time `json:"actualDeliveryDate"`
	Sire               string     `json:"sire"`
	Status             string     `json:"status" binding:"omitempty,oneof=ongoing delivered lost"`
	Notes              string     `json:"notes"`
}

// CreatePregnancy records a pregnancy under an animal.
func (h *PregnancyHandler) CreatePregnancy(c *gin.Context) {
	livestockID := c.Param("id")
	user := currentIdentity(c)

	var req CreatePregnancyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Engine.Authorize(context.Background(), user, policy.ActionWrite,
		policy.Ref{Class: policy.ResourcePregnancy, LivestockID: livestockID}); err != nil {
		respondPolicyError(c, err)
		return
	}

	status := req.Status
	if status == "" {
		status = "ongoing"
	}

	now := time.Now()
	newPregnancy := models.Pregnancy{
		PregnancyID:        newID("PREG"),
		LivestockID:        livestockID,
		BreedingDate:       req.BreedingDate,
		ExpectedDueDate:    req.ExpectedDueDate,
		ActualDeliveryDate: req.ActualDeliveryDate,
		Sire:               req.Sire,
		Status:             status,
		Notes:              req.Notes,
		CreatedBy:          user.ID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	result, err := h.DB.Collection("pregnancies").InsertOne(context.Background(), newPregnancy)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create pregnancy"})
		return
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		newPregnancy.ID = oid
	}

	c.JSON(http.StatusCreated, newPregnancy)
}

// ListPregnancies returns the pregnancies recorded under one animal.
func (h *PregnancyHandler) ListPregnancies(c *gin.Context) {
	livestockID := c.Param("id")
	user := currentIdentity(c)

	if err := h.Engine.Authorize(context.Background(), user, policy.ActionRead,
		policy.Ref{Class: policy.ResourcePregnancy, LivestockID: livestockID}); err != nil {
		respondPolicyError(c, err)
		return
	}

	cursor, err := h.DB.Collection("pregnancies").Find(context.Background(), bson.M{"livestockID": livestockID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query pregnancies"})
		return
	}
	defer cursor.Close(context.Background())

	var pregnancies []models.Pregnancy
	if err = cursor.All(context.Background(), &pregnancies); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode pregnancies"})
		return
	}
	if pregnancies == nil {
		pregnancies = []models.Pregnancy{}
	}

	c.JSON(http.StatusOK, pregnancies)
}

// UpdatePregnancy rewrites a pregnancy record.
func (h *PregnancyHandler) UpdatePregnancy(c *gin.Context) {
	pregnancyID := c.Param("id")
	user := currentIdentity(c)

	var req CreatePregnancyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var pregnancy models.Pregnancy
	err := h.DB.Collection("pregnancies").FindOne(context.Background(), bson.M{"pregnancyID": pregnancyID}).Decode(&pregnancy)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve pregnancy"})
		}
		return
	}

	if err := h.Engine.Authorize(context.Background(), user, policy.ActionWrite,
		policy.Ref{Class: policy.ResourcePregnancy, LivestockID: pregnancy.LivestockID, OwnerID: pregnancy.CreatedBy}); err != nil {
		respondPolicyError(c, err)
		return
	}

	status := req.Status
	if status == "" {
		status = pregnancy.Status
	}

	_, err = h.DB.Collection("pregnancies").UpdateOne(context.Background(), bson.M{"pregnancyID": pregnancyID}, bson.M{"$set": bson.M{
		"breedingDate":       req.BreedingDate,
		"expectedDueDate":    req.ExpectedDueDate,
		"actualDeliveryDate": req.ActualDeliveryDate,
		"sire":               req.Sire,
		"status":             status,
		"notes":              req.Notes,
		"updatedAt":          time.Now(),
	}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update pregnancy"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Pregnancy updated successfully"})
}

// DeletePregnancy removes a pregnancy record. Vets may delete only their own.
func (h *PregnancyHandler) DeletePregnancy(c *gin.Context) {
	pregnancyID := c.Param("id")
	user := currentIdentity(c)

	var pregnancy models.Pregnancy
	err := h.DB.Collection("pregnancies").FindOne(context.Background(), bson.M{"pregnancyID": pregnancyID}).Decode(&pregnancy)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve pregnancy"})
		}
		return
	}

	if err := h.Engine.Authorize(context.Background(), user, policy.ActionDelete,
		policy.Ref{Class: policy.ResourcePregnancy, LivestockID: pregnancy.LivestockID, OwnerID: pregnancy.CreatedBy}); err != nil {
		respondPolicyError(c, err)
		return
	}

	_, err = h.DB.Collection("pregnancies").DeleteOne(context.Background(), bson.M{"pregnancyID": pregnancyID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete pregnancy"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Pregnancy deleted successfully"})
}
