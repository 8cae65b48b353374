// server/internal/ledger/ledger.go
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"farmlink-api-server/internal/models"
	"farmlink-api-server/internal/policy"

	"github.com/google/uuid"
)

// Store is the row-level persistence the ledger needs. Status transitions
// are conditional on the current status so two racing calls cannot both pass
// the precondition.
type Store interface {
	FarmByID(ctx context.Context, farmID string) (*models.Farm, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	AssociationByID(ctx context.Context, associationID string) (*models.Association, error)
	AssociationByFarmAndVet(ctx context.Context, farmID, vetID string) (*models.Association, error)
	InsertAssociation(ctx context.Context, assoc *models.Association) error
	// UpdateAssociationStatus applies only when the stored status equals from,
	// returning policy.ErrNotFound otherwise.
	UpdateAssociationStatus(ctx context.Context, associationID string, from, to models.InvitationStatus) (*models.Association, error)
	// UpdateAssociationVisit applies only while the association is accepted.
	UpdateAssociationVisit(ctx context.Context, associationID string, visitDate time.Time, notes string) (*models.Association, error)
	DeleteAssociation(ctx context.Context, associationID string) error
	AcceptedFarmIDs(ctx context.Context, vetID string) ([]string, error)
}

// Ledger owns the farm-vet relationship records and their lifecycle:
// invite -> accept/reject -> active collaboration -> revocation.
type Ledger struct {
	Store Store
}

func New(store Store) *Ledger {
	return &Ledger{Store: store}
}

// Invite creates a pending association from the owning farmer to a vet
// identified by email. Exactly one association may exist per (farm, vet)
// pair; a second invite reports the existing status so the caller can tell
// "already pending" from "already accepted".
func (l *Ledger) Invite(ctx context.Context, farmerID, farmID, vetEmail string) (*models.Association, error) {
	farm, err := l.Store.FarmByID(ctx, farmID)
	if err != nil {
		return nil, err
	}
	if farm.FarmerID != farmerID {
		return nil, policy.ErrNotOwner
	}

	vet, err := l.Store.UserByEmail(ctx, strings.ToLower(strings.TrimSpace(vetEmail)))
	if err != nil {
		return nil, err
	}
	if vet.Role != string(policy.RoleVet) {
		return nil, policy.ErrRoleMismatch
	}

	if existing, err := l.Store.AssociationByFarmAndVet(ctx, farmID, vet.UserID); err == nil {
		return nil, fmt.Errorf("%w (status: %s)", policy.ErrConflict, existing.InvitationStatus)
	} else if !errors.Is(err, policy.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	assoc := &models.Association{
		AssociationID:    fmt.Sprintf("ASSOC-%s", uuid.New().String()[:8]),
		FarmID:           farmID,
		VetID:            vet.UserID,
		InvitedBy:        farmerID,
		InvitationStatus: models.InvitationPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	// The unique (farmID, vetID) index backs this up against racing invites.
	if err := l.Store.InsertAssociation(ctx, assoc); err != nil {
		return nil, err
	}
	return assoc, nil
}

// Respond resolves a pending invitation. The transition is one-shot: once
// accepted or rejected it cannot be re-resolved.
func (l *Ledger) Respond(ctx context.Context, vetID, associationID string, decision models.InvitationStatus) (*models.Association, error) {
	if decision != models.InvitationAccepted && decision != models.InvitationRejected {
		return nil, policy.ErrInvalidTransition
	}

	assoc, err := l.Store.AssociationByID(ctx, associationID)
	if err != nil {
		return nil, err
	}
	if assoc.VetID != vetID {
		return nil, policy.ErrNotFound
	}
	if assoc.InvitationStatus != models.InvitationPending {
		return nil, policy.ErrInvalidTransition
	}

	updated, err := l.Store.UpdateAssociationStatus(ctx, associationID, models.InvitationPending, decision)
	if errors.Is(err, policy.ErrNotFound) {
		// Lost the race to another response.
		return nil, policy.ErrInvalidTransition
	}
	return updated, err
}

// RecordVisit updates visit metadata on an accepted association.
func (l *Ledger) RecordVisit(ctx context.Context, vetID, associationID string, visitDate time.Time, notes string) (*models.Association, error) {
	assoc, err := l.Store.AssociationByID(ctx, associationID)
	if err != nil {
		return nil, err
	}
	if assoc.VetID != vetID {
		return nil, policy.ErrNotFound
	}
	if assoc.InvitationStatus != models.InvitationAccepted {
		return nil, policy.ErrNoActiveAssociation
	}

	return l.Store.UpdateAssociationVisit(ctx, associationID, visitDate, notes)
}

// Revoke deletes the association. Access it granted disappears immediately
// because the policy engine reads current ledger state on every call.
func (l *Ledger) Revoke(ctx context.Context, farmerID, associationID string) error {
	assoc, err := l.Store.AssociationByID(ctx, associationID)
	if err != nil {
		return err
	}
	farm, err := l.Store.FarmByID(ctx, assoc.FarmID)
	if err != nil {
		return err
	}
	if farm.FarmerID != farmerID {
		return policy.ErrNotOwner
	}
	return l.Store.DeleteAssociation(ctx, associationID)
}

// ActiveFarmsFor returns the farms where the vet holds an accepted
// association — the scoping predicate for every vet-facing list query.
func (l *Ledger) ActiveFarmsFor(ctx context.Context, vetID string) ([]string, error) {
	return l.Store.AcceptedFarmIDs(ctx, vetID)
}
