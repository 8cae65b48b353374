// server/internal/api/handlers/notebook_handler.go
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

type NotebookHandler struct {
	DB     *mongo.Database
	Engine *policy.Engine
}

type CreateNotebookEntryRequest struct {
	FarmID  string   `json:"farmID"` // empty = personal note
	Title   string   `json:"title" binding:"required"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// CreateEntry writes a notebook entry. With a farmID the entry is shared
// under that farm's scoping; without one it is a private note.
func (h *NotebookHandler) CreateEntry(c *gin.Context) {
	user := currentIdentity(c)

	var req CreateNotebookEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Engine.Authorize(context.Background(), user, policy.ActionWrite,
		policy.Ref{Class: policy.ResourceNotebook, FarmID: req.FarmID, OwnerID: user.ID}); err != nil {
		respondPolicyError(c, err)
		return
	}

	now := time.Now()
	newEntry := models.NotebookEntry{
		EntryID:   newID("NOTE"),
		UserID:    user.ID,
		FarmID:    req.FarmID,
		Title:     req.Title,
		Content:   req.Content,
		Tags:      req.Tags,
		CreatedAt: now,
		UpdatedAt: now,
	}

	result, err := h.DB.Collection("notebook").InsertOne(context.Background(), newEntry)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create notebook entry"})
		return
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		newEntry.ID = oid
	}

	c.JSON(http.StatusCreated, newEntry)
}

// ListEntries returns the caller's personal notes plus the farm-scoped
// entries of every farm the caller can currently read.
func (h *NotebookHandler) ListEntries(c *gin.Context) {
	user := currentIdentity(c)

	scope, err := h.Engine.ScopeFor(context.Background(), user, policy.ResourceNotebook)
	if err != nil {
		respondPolicyError(c, err)
		return
	}

	clauses := []bson.M{}
	if scope.OwnerID != "" {
		clauses = append(clauses, bson.M{
			"userID": scope.OwnerID,
			"farmID": bson.M{"$in": bson.A{nil, ""}},
		})
	}
	if len(scope.FarmIDs) > 0 {
		clauses = append(clauses, bson.M{"farmID": bson.M{"$in": scope.FarmIDs}})
	}
	if len(clauses) == 0 {
		c.JSON(http.StatusOK, []models.NotebookEntry{})
		return
	}
	filter := bson.M{"$or": clauses}
	if farmID := c.Query("farmID"); farmID != "" {
		filter = bson.M{"$and": []bson.M{filter, {"farmID": farmID}}}
	}

	cursor, err := h.DB.Collection("notebook").Find(context.Background(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query notebook"})
		return
	}
	defer cursor.Close(context.Background())

	var entries []models.NotebookEntry
	if err = cursor.All(context.Background(), &entries); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode notebook"})
		return
	}
	if entries == nil {
		entries = []models.NotebookEntry{}
	}

	c.JSON(http.StatusOK, entries)
}

// GetEntry re-checks access on every read, so a vet whose association was
// revoked loses farm-scoped entries immediately.
func (h *NotebookHandler) GetEntry(c *gin.Context) {
	entryID := c.Param("id")
	user := currentIdentity(c)

	var entry models.NotebookEntry
	err := h.DB.Collection("notebook").FindOne(context.Background(), bson.M{"entryID": entryID}).Decode(&entry)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve notebook entry"})
		}
		return
	}

	if err := h.Engine.Authorize(context.Background(), user, policy.ActionRead,
		policy.Ref{Class: policy.ResourceNotebook, FarmID: entry.FarmID, OwnerID: entry.UserID}); err != nil {
		respondPolicyError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// UpdateEntry rewrites an entry. Authorship is enforced by the access
// check, not the handler.
func (h *NotebookHandler) UpdateEntry(c *gin.Context) {
	entryID := c.Param("id")
	user := currentIdentity(c)

	var req CreateNotebookEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var entry models.NotebookEntry
	err := h.DB.Collection("notebook").FindOne(context.Background(), bson.M{"entryID": entryID}).Decode(&entry)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve notebook entry"})
		}
		return
	}

	if err := h.Engine.Authorize(context.Background(), user, policy.ActionWrite,
		policy.Ref{Class: policy.ResourceNotebook, FarmID: entry.FarmID, OwnerID: entry.UserID}); err != nil {
		respondPolicyError(c, err)
		return
	}

	_, err = h.DB.Collection("notebook").UpdateOne(context.Background(), bson.M{"entryID": entryID}, bson.M{"$set": bson.M{
		"title":     req.Title,
		"content":   req.Content,
		"tags":      req.Tags,
		"updatedAt": time.Now(),
	}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notebook entry"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notebook entry updated successfully"})
}

func (h *NotebookHandler) DeleteEntry(c *gin.Context) {
	entryID := c.Param("id")
	user := currentIdentity(c)

	var entry models.NotebookEntry
	err := h.DB.Collection("notebook").FindOne(context.Background(), bson.M{"entryID": entryID}).Decode(&entry)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve notebook entry"})
		}
		return
	}

	if err := h.Engine.Authorize(context.Background(), user, policy.ActionDelete,
		policy.Ref{Class: policy.ResourceNotebook, FarmID: entry.FarmID, OwnerID: entry.UserID}); err != nil {
		respondPolicyError(c, err)
		return
	}

	_, err = h.DB.Collection("notebook").DeleteOne(context.Background(), bson.M{"entryID": entryID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete notebook entry"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notebook entry deleted successfully"})
}
