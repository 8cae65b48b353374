// server/internal/api/handlers/helpers.go
package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"farmlink-api-server/internal/policy"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// currentIdentity rebuilds the caller's identity from the values the
// Authenticate middleware put into the context.
func currentIdentity(c *gin.Context) policy.Identity {
	return policy.Identity{
		ID:   c.GetString("user_id"),
		Role: policy.Role(c.GetString("user_role")),
	}
}

// respondPolicyError maps the denial taxonomy to HTTP in one place.
// NoActiveAssociation is reported as 404 on purpose: a vet without an
// association must not be able to tell whether a farm id exists.
func respondPolicyError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, policy.ErrNotFound), errors.Is(err, policy.ErrNoActiveAssociation):
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
	case errors.Is(err, policy.ErrNotOwner),
		errors.Is(err, policy.ErrRoleNotPermitted),
		errors.Is(err, policy.ErrNotAuthor):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, policy.ErrConflict), errors.Is(err, policy.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, policy.ErrRoleMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		// Storage fault: log detail, report nothing specific.
		log.Printf("storage error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// farmScopeFilter turns a list scope into the query filter for farm-scoped
// collections.
func farmScopeFilter(scope policy.Scope) bson.M {
	farmIDs := scope.FarmIDs
	if farmIDs == nil {
		farmIDs = []string{}
	}
	return bson.M{"farmID": bson.M{"$in": farmIDs}}
}

// newID mints a user-friendly unique id, e.g. "FARM-1a2b3c4d".
func newID(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.New().String()[:8])
}
