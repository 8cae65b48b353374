// server/internal/api/handlers/association_handler.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"farmlink-api-server/internal/ledger"
	"farmlink-api-server/internal/models"
	"farmlink-api-server/internal/policy"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type AssociationHandler struct {
	DB     *mongo.Database
	Ledger *ledger.Ledger
	Engine *policy.Engine
	Hub    socketHub
}

// socketHub is the notification surface this handler needs; the concrete
// implementation lives in internal/socket.
type socketHub interface {
	Notify(userID, event string, payload interface{})
}

type InviteVetRequest struct {
	VetEmail string `json:"vetEmail" binding:"required,email"`
}

type RespondRequest struct {
	Decision string `json:"decision" binding:"required,oneof=accepted rejected"`
}

type RecordVisitRequest struct {
	VisitDate string `json:"visitDate" binding:"required"` // "2006-01-02"
	Notes     string `json:"notes"`
}

// InviteVet creates a pending association between the farm and a vet.
func (h *AssociationHandler) InviteVet(c *gin.Context) {
	farmID := c.Param("id")
	user := currentIdentity(c)

	var req InviteVetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	assoc, err := h.Ledger.Invite(context.Background(), user.ID, farmID, req.VetEmail)
	if err != nil {
		respondPolicyError(c, err)
		return
	}

	h.Hub.Notify(assoc.VetID, "association_invited", assoc)

	c.JSON(http.StatusCreated, assoc)
}

// ListFarmAssociations shows a farm's vet team to anyone who may read the
// farm.
func (h *AssociationHandler) ListFarmAssociations(c *gin.Context) {
	farmID := c.Param("id")
	user := currentIdentity(c)

	if err := h.Engine.Authorize(context.Background(), user, policy.ActionRead,
		policy.Ref{Class: policy.ResourceFarm, FarmID: farmID}); err != nil {
		respondPolicyError(c, err)
		return
	}

	filter := bson.M{"farmID": farmID}
	if status := c.Query("status"); status != "" {
		filter["invitationStatus"] = status
	}

	cursor, err := h.DB.Collection("associations").Find(context.Background(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query associations"})
		return
	}
	defer cursor.Close(context.Background())

	var assocs []models.Association
	if err = cursor.All(context.Background(), &assocs); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode associations"})
		return
	}
	if assocs == nil {
		assocs = []models.Association{}
	}

	c.JSON(http.StatusOK, assocs)
}

// ListMyInvites shows the calling vet's own associations, optionally by
// status.
func (h *AssociationHandler) ListMyInvites(c *gin.Context) {
	user := currentIdentity(c)

	filter := bson.M{"vetID": user.ID}
	if status := c.Query("status"); status != "" {
		filter["invitationStatus"] = status
	}

	cursor, err := h.DB.Collection("associations").Find(context.Background(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query associations"})
		return
	}
	defer cursor.Close(context.Background())

	var assocs []models.Association
	if err = cursor.All(context.Background(), &assocs); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode associations"})
		return
	}
	if assocs == nil {
		assocs = []models.Association{}
	}

	c.JSON(http.StatusOK, assocs)
}

// Respond lets the invited vet accept or reject a pending invitation.
func (h *AssociationHandler) Respond(c *gin.Context) {
	associationID := c.Param("id")
	user := currentIdentity(c)

	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	assoc, err := h.Ledger.Respond(context.Background(), user.ID, associationID, models.InvitationStatus(req.Decision))
	if err != nil {
		respondPolicyError(c, err)
		return
	}

	h.Hub.Notify(assoc.InvitedBy, "association_responded", assoc)

	c.JSON(http.StatusOK, assoc)
}

// RecordVisit updates visit metadata on an accepted association.
func (h *AssociationHandler) RecordVisit(c *gin.Context) {
	associationID := c.Param("id")
	user := currentIdentity(c)

	var req RecordVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	visitDate, err := time.Parse("2006-01-02", req.VisitDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "visitDate must be in YYYY-MM-DD format"})
		return
	}

	assoc, err := h.Ledger.RecordVisit(context.Background(), user.ID, associationID, visitDate, req.Notes)
	if err != nil {
		respondPolicyError(c, err)
		return
	}

	c.JSON(http.StatusOK, assoc)
}

// Revoke deletes an association; the vet's access to the farm's resources
// ends with it.
func (h *AssociationHandler) Revoke(c *gin.Context) {
	associationID := c.Param("id")
	user := currentIdentity(c)

	if err := h.Ledger.Revoke(context.Background(), user.ID, associationID); err != nil {
		respondPolicyError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Association revoked successfully"})
}
