// server/internal/api/handlers/vet_contact_handler.go
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

type VetContactHandler struct {
	DB     *mongo.Database
	Engine *policy.Engine
}

type CreateVetContactRequest struct {
	Name      string `json:"name" binding:"required"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Clinic    string `json:"clinic"`
	Specialty string `json:"specialty"`
	Notes     string `json:"notes"`
}

func (h *VetContactHandler) CreateVetContact(c *gin.Context) {
	farmID := c.Param("id")
	user := currentIdentity(c)

	var req CreateVetContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Engine.Authorize(context.Background(), user, policy.ActionWrite,
		policy.Ref{Class: policy.ResourceVetContact, FarmID: farmID}); err != nil {
		respondPolicyError(c, err)
		return
	}

	now := time.Now()
	newContact := models.VetContact{
		ContactID: newID("VC"),
		FarmID:    farmID,
		Name:      req.Name,
		Phone:     req.Phone,
		Email:     req.Email,
		Clinic:    req.Clinic,
		Specialty: req.Specialty,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	result, err := h.DB.Collection("vet_contacts").InsertOne(context.Background(), newContact)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create vet contact"})
		return
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		newContact.ID = oid
	}

	c.JSON(http.StatusCreated, newContact)
}

func (h *VetContactHandler) ListVetContacts(c *gin.Context) {
	user := currentIdentity(c)

	scope, err := h.Engine.ScopeFor(context.Background(), user, policy.ResourceVetContact)
	if err != nil {
		respondPolicyError(c, err)
		return
	}

	filter := farmScopeFilter(scope)
	if farmID := c.Query("farmID"); farmID != "" {
		filter = bson.M{"$and": []bson.M{filter, {"farmID": farmID}}}
	}

	cursor, err := h.DB.Collection("vet_contacts").Find(context.Background(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query vet contacts"})
		return
	}
	defer cursor.Close(context.Background())

	var contacts []models.VetContact
	if err = cursor.All(context.Background(), &contacts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode vet contacts"})
		return
	}
	if contacts == nil {
		contacts = []models.VetContact{}
	}

	c.JSON(http.StatusOK, contacts)
}

func (h *VetContactHandler) UpdateVetContact(c *gin.Context) {
	contactID := c.Param("id")
	user := currentIdentity(c)

	var req CreateVetContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var contact models.VetContact
	err := h.DB.Collection("vet_contacts").FindOne(context.Background(), bson.M{"contactID": contactID}).Decode(&contact)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve vet contact"})
		}
		return
	}

	if err := h.Engine.Authorize(context.Background(), user, policy.ActionWrite,
		policy.Ref{Class: policy.ResourceVetContact, FarmID: contact.FarmID}); err != nil {
		respondPolicyError(c, err)
		return
	}

	_, err = h.DB.Collection("vet_contacts").UpdateOne(context.Background(), bson.M{"contactID": contactID}, bson.M{"$set": bson.M{
		"name":      req.Name,
		"phone":     req.Phone,
		"email":     req.Email,
		"clinic":    req.Clinic,
		"specialty": req.Specialty,
		"notes":     req.Notes,
		"updatedAt": time.Now(),
	}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update vet contact"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vet contact updated successfully"})
}

func (h *VetContactHandler) DeleteVetContact(c *gin.Context) {
	contactID := c.Param("id")
	user := currentIdentity(c)

	var contact models.VetContact
	err := h.DB.Collection("vet_contacts").FindOne(context.Background(), bson.M{"contactID": contactID}).Decode(&contact)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve vet contact"})
		}
		return
	}

	if err := h.Engine.Authorize(context.Background(), user, policy.ActionDelete,
		policy.Ref{Class: policy.ResourceVetContact, FarmID: contact.FarmID}); err != nil {
		respondPolicyError(c, err)
		return
	}

	_, err = h.DB.Collection("vet_contacts").DeleteOne(context.Background(), bson.M{"contactID": contactID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete vet contact"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vet contact deleted successfully"})
}
