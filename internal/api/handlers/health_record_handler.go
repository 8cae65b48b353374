// server/internal/api/handlers/health_record_handler.go
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

type HealthRecordHandler struct {
	DB     *mongo.Database
	Engine *policy.Engine
}

type CreateHealthRecordRequest struct {
	Condition  string    `json:"condition" binding:"required"`
	Diagnosis  string    `json:"diagnosis"`
	Treatment  string    `json:"treatment"`
	Medication string    `json:"medication"`
	Cost       float64   `json:"cost"`
	RecordDate time.Time `json:"recordDate" binding:"required"`
	Notes      string    `json:"notes"`
}

// CreateHealthRecord adds a record under an animal. Both the owning farmer
// and any vet with an accepted association may create records.
func (h *HealthRecordHandler) CreateHealthRecord(c *gin.Context) {
	livestockID := c.Param("id")
	user := currentIdentity(c)

	var req CreateHealthRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Engine.Authorize(context.Background(), user, policy.ActionWrite,
		policy.Ref{Class: policy.ResourceHealthRecord, LivestockID: livestockID}); err != nil {
		respondPolicyError(c, err)
		return
	}

	now := time.Now()
	newRecord := models.HealthRecord{
		RecordID:    newID("HR"),
		LivestockID: livestockID,
		Condition:   req.Condition,
		Diagnosis:   req.Diagnosis,
		Treatment:   req.Treatment,
		Medication:  req.Medication,
		Cost:        req.Cost,
		RecordDate:  req.RecordDate,
		Notes:       req.Notes,
		CreatedBy:   user.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	result, err := h.DB.Collection("health_records").InsertOne(context.Background(), newRecord)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create health record"})
		return
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		newRecord.ID = oid
	}

	c.JSON(http.StatusCreated, newRecord)
}

// ListHealthRecords returns the records of one animal.
func (h *HealthRecordHandler) ListHealthRecords(c *gin.Context) {
	livestockID := c.Param("id")
	user := currentIdentity(c)

	if err := h.Engine.Authorize(context.Background(), user, policy.ActionRead,
		policy.Ref{Class: policy.ResourceHealthRecord, LivestockID: livestockID}); err != nil {
		respondPolicyError(c, err)
		return
	}

	cursor, err := h.DB.Collection("health_records").Find(context.Background(), bson.M{"livestockID": livestockID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query health records"})
		return
	}
	defer cursor.Close(context.Background())

	var records []models.HealthRecord
	if err = cursor.All(context.Background(), &records); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode health records"})
		return
	}
	if records == nil {
		records = []models.HealthRecord{}
	}

	c.JSON(http.StatusOK, records)
}

// GetHealthRecord returns a single record after an access check.
func (h *HealthRecordHandler) GetHealthRecord(c *gin.Context) {
	recordID := c.Param("id")
	user := currentIdentity(c)

	var record models.HealthRecord
	err := h.DB.Collection("health_records").FindOne(context.Background(), bson.M{"recordID": recordID}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve health record"})
		}
		return
	}

	if err := h.Engine.Authorize(context.Background(), user, policy.ActionRead,
		policy.Ref{Class: policy.ResourceHealthRecord, LivestockID: record.LivestockID, OwnerID: record.CreatedBy}); err != nil {
		respondPolicyError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// UpdateHealthRecord rewrites a record. Any associated vet may correct
// another vet's notes; only deletes are author-gated.
func (h *HealthRecordHandler) UpdateHealthRecord(c *gin.Context) {
	recordID := c.Param("id")
	user := currentIdentity(c)

	var req CreateHealthRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var record models.HealthRecord
	err := h.DB.Collection("health_records").FindOne(context.Background(), bson.M{"recordID": recordID}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve health record"})
		}
		return
	}

	if err := h.Engine.Authorize(context.Background(), user, policy.ActionWrite,
		policy.Ref{Class: policy.ResourceHealthRecord, LivestockID: record.LivestockID, OwnerID: record.CreatedBy}); err != nil {
		respondPolicyError(c, err)
		return
	}

	_, err = h.DB.Collection("health_records").UpdateOne(context.Background(), bson.M{"recordID": recordID}, bson.M{"$set": bson.M{
		"condition":  req.Condition,
		"diagnosis":  req.Diagnosis,
		"treatment":  req.Treatment,
		"medication": req.Medication,
		"cost":       req.Cost,
		"recordDate": req.RecordDate,
		"notes":      req.Notes,
		"updatedAt":  time.Now(),
	}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update health record"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Health record updated successfully"})
}

// DeleteHealthRecord removes a record. A vet may delete only records they
// authored; the owning farmer may delete any record on their farm.
func (h *HealthRecordHandler) DeleteHealthRecord(c *gin.Context) {
	recordID := c.Param("id")
	user := currentIdentity(c)

	var record models.HealthRecord
	err := h.DB.Collection("health_records").FindOne(context.Background(), bson.M{"recordID": recordID}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve health record"})
		}
		return
	}

	if err := h.Engine.Authorize(context.Background(), user, policy.ActionDelete,
		policy.Ref{Class: policy.ResourceHealthRecord, LivestockID: record.LivestockID, OwnerID: record.CreatedBy}); err != nil {
		respondPolicyError(c, err)
		return
	}

	_, err = h.DB.Collection("health_records").DeleteOne(context.Background(), bson.M{"recordID": recordID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete health record"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Health record deleted successfully"})
}
