// server/internal/models/association.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InvitationStatus is the state of a farm-vet association. Transitions are
// one-shot: pending moves to accepted or rejected exactly once.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationRejected InvitationStatus = "rejected"
)

// Association links one farm and one vet. At most one association exists per
// (farmID, vetID) pair; farm and vet ids never change after creation.
type Association struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AssociationID    string             `bson:"associationID" json:"associationID"` // e.g. "ASSOC-1a2b3c4d"
	FarmID           string             `bson:"farmID" json:"farmID"`
	VetID            string             `bson:"vetID" json:"vetID"`
	InvitedBy        string             `bson:"invitedBy" json:"invitedBy"`
	InvitationStatus InvitationStatus   `bson:"invitationStatus" json:"invitationStatus"`
	LastVisitDate    *time.Time         `bson:"lastVisitDate,omitempty" json:"lastVisitDate,omitempty"`
	Notes            string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}
