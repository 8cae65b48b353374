// server/internal/api/handlers/marketplace_handler.go
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

type MarketplaceHandler struct {
	DB       *mongo.Database
	Engine   *policy.Engine
	Uploader *s3.Uploader
}

type CreateListingRequest struct {
	Title             string  `json:"title" binding:"required"`
	Description       string  `json:"description"`
	Category          string  `json:"category" binding:"omitempty,oneof=feed fertilizer medicine equipment"`
	Price             float64 `json:"price" binding:"gte=0"`
	Unit              string  `json:"unit"`
	QuantityAvailable float64 `json:"quantityAvailable" binding:"gte=0"`
	Status            string  `json:"status" binding:"omitempty,oneof=active inactive sold_out"`
}

// BrowseListings is the public storefront: active listings only, optionally
// filtered by category.
func (h *MarketplaceHandler) BrowseListings(c *gin.Context) {
	filter := bson.M{"status": models.ListingActive}
	if category := c.Query("category"); category != "" {
		filter["category"] = category
	}

	cursor, err := h.DB.Collection("listings").Find(context.Background(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query listings"})
		return
	}
	defer cursor.Close(context.Background())

	var listings []models.Listing
	if err = cursor.All(context.Background(), &listings); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode listings"})
		return
	}
	if listings == nil {
		listings = []models.Listing{}
	}

	c.JSON(http.StatusOK, listings)
}

// GetListing returns a single listing. Inactive listings stay visible to
// their owner only.
func (h *MarketplaceHandler) GetListing(c *gin.Context) {
	listingID := c.Param("id")

	var listing models.Listing
	err := h.DB.Collection("listings").FindOne(context.Background(), bson.M{"listingID": listingID}).Decode(&listing)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve listing"})
		}
		return
	}

	if listing.Status != models.ListingActive {
		userID, _ := c.Get("user_id")
		if userID != listing.AgrovetsID {
			c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
			return
		}
	}

	c.JSON(http.StatusOK, listing)
}

// CreateListing posts a new marketplace listing for the calling agrovets.
func (h *MarketplaceHandler) CreateListing(c *gin.Context) {
	user := currentIdentity(c)

	var req CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := req.Status
	if status == "" {
		status = models.ListingActive
	}

	now := time.Now()
	newListing := models.Listing{
		ListingID:         newID("LST"),
		AgrovetsID:        user.ID,
		Title:             req.Title,
		Description:       req.Description,
		Category:          req.Category,
		Price:             req.Price,
		Unit:              req.Unit,
		QuantityAvailable: req.QuantityAvailable,
		Status:            status,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	result, err := h.DB.Collection("listings").InsertOne(context.Background(), newListing)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create listing"})
		return
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		newListing.ID = oid
	}

	c.JSON(http.StatusCreated, newListing)
}

// ListMyListings returns every listing of the calling agrovets, all statuses.
func (h *MarketplaceHandler) ListMyListings(c *gin.Context) {
	user := currentIdentity(c)

	scope, err := h.Engine.ScopeFor(context.Background(), user, policy.ResourceListing)
	if err != nil {
		respondPolicyError(c, err)
		return
	}

	cursor, err := h.DB.Collection("listings").Find(context.Background(), bson.M{"agrovetsID": scope.OwnerID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query listings"})
		return
	}
	defer cursor.Close(context.Background())

	var listings []models.Listing
	if err = cursor.All(context.Background(), &listings); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode listings"})
		return
	}
	if listings == nil {
		listings = []models.Listing{}
	}

	c.JSON(http.StatusOK, listings)
}

// UpdateListing rewrites a listing owned by the caller.
func (h *MarketplaceHandler) UpdateListing(c *gin.Context) {
	listingID := c.Param("id")
	user := currentIdentity(c)

	var req CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var listing models.Listing
	err := h.DB.Collection("listings").FindOne(context.Background(), bson.M{"listingID": listingID}).Decode(&listing)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve listing"})
		}
		return
	}

	if err := h.Engine.Authorize(context.Background(), user, policy.ActionWrite,
		policy.Ref{Class: policy.ResourceListing, OwnerID: listing.AgrovetsID}); err != nil {
		respondPolicyError(c, err)
		return
	}

	status := req.Status
	if status == "" {
		status = listing.Status
	}

	_, err = h.DB.Collection("listings").UpdateOne(context.Background(), bson.M{"listingID": listingID}, bson.M{"$set": bson.M{
		"title":             req.Title,
		"description":       req.Description,
		"category":          req.Category,
		"price":             req.Price,
		"unit":              req.Unit,
		"quantityAvailable": req.QuantityAvailable,
		"status":            status,
		"updatedAt":         time.Now(),
	}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update listing"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Listing updated successfully"})
}

// DeleteListing removes a listing owned by the caller.
func (h *MarketplaceHandler) DeleteListing(c *gin.Context) {
	listingID := c.Param("id")
	user := currentIdentity(c)

	var listing models.Listing
	err := h.DB.Collection("listings").FindOne(context.Background(), bson.M{"listingID": listingID}).Decode(&listing)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve listing"})
		}
		return
	}

	if err := h.Engine.Authorize(context.Background(), user, policy.ActionDelete,
		policy.Ref{Class: policy.ResourceListing, OwnerID: listing.AgrovetsID}); err != nil {
		respondPolicyError(c, err)
		return
	}

	_, err = h.DB.Collection("listings").DeleteOne(context.Background(), bson.M{"listingID": listingID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete listing"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Listing deleted successfully"})
}

// UploadListingPhoto attaches a product photo to a listing.
func (h *MarketplaceHandler) UploadListingPhoto(c *gin.Context) {
	listingID := c.Param("id")
	user := currentIdentity(c)

	if h.Uploader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "File uploads are not configured"})
		return
	}

	var listing models.Listing
	err := h.DB.Collection("listings").FindOne(context.Background(), bson.M{"listingID": listingID}).Decode(&listing)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve listing"})
		}
		return
	}

	if err := h.Engine.Authorize(context.Background(), user, policy.ActionWrite,
		policy.Ref{Class: policy.ResourceListing, OwnerID: listing.AgrovetsID}); err != nil {
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

	objectKey := fmt.Sprintf("listings/%s/%s", listingID, newID("IMG"))
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

	_, err = h.DB.Collection("listings").UpdateOne(context.Background(),
		bson.M{"listingID": listingID},
		bson.M{"$push": bson.M{"photos": photo}, "$set": bson.M{"updatedAt": time.Now()}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save photo reference"})
		return
	}

	c.JSON(http.StatusOK, photo)
}
