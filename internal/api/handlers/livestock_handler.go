// server/internal/api/handlers/livestock_handler.go
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"farmlink-api-server/internal/models"
	"farmlink-api-server/internal/policy"
	"farmlink-api-server/internal/s3"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type LivestockHandler struct {
	DB       *mongo.Database
	Engine   *policy.Engine
	Uploader *s3.Uploader
}

type CreateLivestockRequest struct {
	TagNumber   string     `json:"tagNumber" binding:"required"`
	Species     string     `json:"species" binding:"required"`
	Breed       string     `json:"breed"`
	Gender      string     `json:"gender" binding:"required,oneof=male female"`
	DateOfBirth *time.Time `json:"dateOfBirth"`
}

type CreateCalfRequest struct {
	TagNumber   string    `json:"tagNumber"`
	Gender      string    `json:"gender" binding:"required,oneof=male female"`
	DateOfBirth time.Time `json:"dateOfBirth" binding:"required"`
	BirthWeight float64   `json:"birthWeight"`
	Notes       string    `json:"notes"`
}

// CreateLivestock registers an animal under a farm.
func (h *LivestockHandler) CreateLivestock(c *gin.Context) {
	farmID := c.Param("id")
	user := currentIdentity(c)

	var req CreateLivestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Engine.Authorize(context.Background(), user, policy.ActionWrite,
		policy.Ref{Class: policy.ResourceLivestock, FarmID: farmID}); err != nil {
		respondPolicyError(c, err)
		return
	}

	now := time.Now()
	newAnimal := models.Livestock{
		LivestockID: newID("LS"),
		FarmID:      farmID,
		TagNumber:   req.TagNumber,
		Species:     req.Species,
		Breed:       req.Breed,
		Gender:      req.Gender,
		DateOfBirth: req.DateOfBirth,
		Status:      "active",
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	result, err := h.DB.Collection("livestock").InsertOne(context.Background(), newAnimal)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create livestock"})
		return
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		newAnimal.ID = oid
	}

	c.JSON(http.StatusCreated, newAnimal)
}

// ListLivestock returns animals across every farm the caller can see.
func (h *LivestockHandler) ListLivestock(c *gin.Context) {
	user := currentIdentity(c)

	scope, err := h.Engine.ScopeFor(context.Background(), user, policy.ResourceLivestock)
	if err != nil {
		respondPolicyError(c, err)
		return
	}

	filter := farmScopeFilter(scope)
	if farmID := c.Query("farmID"); farmID != "" {
		filter = bson.M{"$and": []bson.M{filter, {"farmID": farmID}}}
	}
	if species := c.Query("species"); species != "" {
		filter = bson.M{"$and": []bson.M{filter, {"species": species}}}
	}

	cursor, err := h.DB.Collection("livestock").Find(context.Background(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query livestock"})
		return
	}
	defer cursor.Close(context.Background())

	var animals []models.Livestock
	if err = cursor.All(context.Background(), &animals); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode livestock"})
		return
	}
	if animals == nil {
		animals = []models.Livestock{}
	}

	c.JSON(http.StatusOK, animals)
}

// GetLivestock returns one animal after an access check.
func (h *LivestockHandler) GetLivestock(c *gin.Context) {
	livestockID := c.Param("id")
	user := currentIdentity(c)

	var animal models.Livestock
	err := h.DB.Collection("livestock").FindOne(context.Background(), bson.M{"livestockID": livestockID}).Decode(&animal)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve livestock"})
		}
		return
	}

	if err := h.Engine.Authorize(context.Background(), user, policy.ActionRead,
		policy.Ref{Class: policy.ResourceLivestock, FarmID: animal.FarmID}); err != nil {
		respondPolicyError(c, err)
		return
	}

	c.JSON(http.StatusOK, animal)
}

// UpdateLivestock updates an animal's descriptive fields and status.
func (h *LivestockHandler) UpdateLivestock(c *gin.Context) {
	livestockID := c.Param("id")
	user := currentIdentity(c)

	var req struct {
		CreateLivestockRequest
		Status string `json:"status" binding:"omitempty,oneof=active sold deceased"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var animal models.Livestock
	err := h.DB.Collection("livestock").FindOne(context.Background(), bson.M{"livestockID": livestockID}).Decode(&animal)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve livestock"})
		}
		return
	}

	if err := h.Engine.Authorize(context.Background(), user, policy.ActionWrite,
		policy.Ref{Class: policy.ResourceLivestock, FarmID: animal.FarmID}); err != nil {
		respondPolicyError(c, err)
		return
	}

	status := req.Status
	if status == "" {
		status = animal.Status
	}

	_, err = h.DB.Collection("livestock").UpdateOne(context.Background(), bson.M{"livestockID": livestockID}, bson.M{"$set": bson.M{
		"tagNumber":   req.TagNumber,
		"species":     req.Species,
		"breed":       req.Breed,
		"gender":      req.Gender,
		"dateOfBirth": req.DateOfBirth,
		"status":      status,
		"updatedAt":   time.Now(),
	}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update livestock"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Livestock updated successfully"})
}

// DeleteLivestock removes an animal. Vets cannot delete animals.
func (h *LivestockHandler) DeleteLivestock(c *gin.Context) {
	livestockID := c.Param("id")
	user := currentIdentity(c)

	var animal models.Livestock
	err := h.DB.Collection("livestock").FindOne(context.Background(), bson.M{"livestockID": livestockID}).Decode(&animal)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve livestock"})
		}
		return
	}

	if err := h.Engine.Authorize(context.Background(), user, policy.ActionDelete,
		policy.Ref{Class: policy.ResourceLivestock, FarmID: animal.FarmID}); err != nil {
		respondPolicyError(c, err)
		return
	}

	_, err = h.DB.Collection("livestock").DeleteOne(context.Background(), bson.M{"livestockID": livestockID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete livestock"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Livestock deleted successfully"})
}

// UploadPhoto attaches a photo to an animal.
func (h *LivestockHandler) UploadPhoto(c *gin.Context) {
	livestockID := c.Param("id")
	user := currentIdentity(c)

	if h.Uploader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "File uploads are not configured"})
		return
	}

	var animal models.Livestock
	err := h.DB.Collection("livestock").FindOne(context.Background(), bson.M{"livestockID": livestockID}).Decode(&animal)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve livestock"})
		}
		return
	}

	if err := h.Engine.Authorize(context.Background(), user, policy.ActionWrite,
		policy.Ref{Class: policy.ResourceLivestock, FarmID: animal.FarmID}); err != nil {
		respondPolicyError(c, err)
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open uploaded file"})
		return
	}
	defer file.Close()

	objectKey := fmt.Sprintf("livestock/%s/%s", livestockID, newID("IMG"))
	url, err := h.Uploader.UploadFile(context.Background(), file, objectKey, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload photo"})
		return
	}

	photo := models.MediaPointer{
		ID:       newID("IMG"),
		URL:      url,
		FileName: fileHeader.Filename,
		FileType: fileHeader.Header.Get("Content-Type"),
	}

	_, err = h.DB.Collection("livestock").UpdateOne(context.Background(),
		bson.M{"livestockID": livestockID},
		bson.M{"$push": bson.M{"photos": photo}, "$set": bson.M{"updatedAt": time.Now()}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save photo reference"})
		return
	}

	c.JSON(http.StatusOK, photo)
}

// CreateCalf records a birth under the dam.
func (h *LivestockHandler) CreateCalf(c *gin.Context) {
	livestockID := c.Param("id")
	user := currentIdentity(c)

	var req CreateCalfRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Engine.Authorize(context.Background(), user, policy.ActionWrite,
		policy.Ref{Class: policy.ResourceCalf, LivestockID: livestockID}); err != nil {
		respondPolicyError(c, err)
		return
	}

	newCalf := models.Calf{
		CalfID:      newID("CALF"),
		LivestockID: livestockID,
		TagNumber:   req.TagNumber,
		Gender:      req.Gender,
		DateOfBirth: req.DateOfBirth,
		BirthWeight: req.BirthWeight,
		Notes:       req.Notes,
		CreatedAt:   time.Now(),
	}

	result, err := h.DB.Collection("calves").InsertOne(context.Background(), newCalf)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create calf"})
		return
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		newCalf.ID = oid
	}

	c.JSON(http.StatusCreated, newCalf)
}

// ListCalves returns the calves recorded under one animal.
func (h *LivestockHandler) ListCalves(c *gin.Context) {
	livestockID := c.Param("id")
	user := currentIdentity(c)

	if err := h.Engine.Authorize(context.Background(), user, policy.ActionRead,
		policy.Ref{Class: policy.ResourceCalf, LivestockID: livestockID}); err != nil {
		respondPolicyError(c, err)
		return
	}

	cursor, err := h.DB.Collection("calves").Find(context.Background(), bson.M{"livestockID": livestockID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query calves"})
		return
	}
	defer cursor.Close(context.Background())

	var calves []models.Calf
	if err = cursor.All(context.Background(), &calves); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode calves"})
		return
	}
	if calves == nil {
		calves = []models.Calf{}
	}

	c.JSON(http.StatusOK, calves)
}
