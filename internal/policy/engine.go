// server/internal/policy/engine.go
package policy

import "context"

// FarmDirectory answers farm ownership questions.
type FarmDirectory interface {
	// FarmOwner returns the owning farmer's user id, or ErrNotFound.
	FarmOwner(ctx context.Context, farmID string) (string, error)
	// FarmIDsOwnedBy returns every farm id owned by the user.
	FarmIDsOwnedBy(ctx context.Context, userID string) ([]string, error)
}

// AssociationReader exposes the ledger state the engine needs. The engine
// reads it on every call, so revoking an association cuts access immediately
// without any cascade.
type AssociationReader interface {
	ActiveFarmsFor(ctx context.Context, vetID string) ([]string, error)
}

// Engine is the single decision point for every resource service. It is
// stateless per call and safe for concurrent use.
type Engine struct {
	Farms        FarmDirectory
	Associations AssociationReader
	Resolver     *Resolver
}

func NewEngine(farms FarmDirectory, assocs AssociationReader, parents ParentLookup) *Engine {
	return &Engine{
		Farms:        farms,
		Associations: assocs,
		Resolver:     &Resolver{Parents: parents},
	}
}

// vetWritable lists the resource classes an associated vet may create or
// update. Everything else is read-only for vets.
var vetWritable = map[ResourceClass]bool{
	ResourceHealthRecord: true,
	ResourcePregnancy:    true,
	ResourceNotebook:     true,
}

// Authorize returns nil to allow, or one of the denial sentinels. Rules in
// precedence order: listings, personal notes, then role dispatch on the
// resolved farm.
func (e *Engine) Authorize(ctx context.Context, user Identity, action Action, ref Ref) error {
	if user.ID == "" {
		return ErrNotFound
	}

	// Marketplace listings sit outside the farm/vet graph entirely.
	if ref.Class == ResourceListing {
		if action == ActionRead {
			return nil
		}
		if ref.OwnerID != user.ID {
			return ErrNotOwner
		}
		return nil
	}

	// Personal notebook entries are owner-only; denied callers learn nothing.
	if ref.Class == ResourceNotebook && ref.FarmID == "" {
		if ref.OwnerID != user.ID {
			return ErrNotFound
		}
		return nil
	}

	farmID, err := e.Resolver.FarmOf(ctx, ref)
	if err != nil {
		return err
	}

	switch user.Role {
	case RoleFarmer:
		owner, err := e.Farms.FarmOwner(ctx, farmID)
		if err != nil {
			return err
		}
		if owner != user.ID {
			return ErrNotOwner
		}
		return nil

	case RoleVet:
		// Membership is checked against current ledger state only; the farm's
		// existence is never revealed to an unassociated vet.
		active, err := e.Associations.ActiveFarmsFor(ctx, user.ID)
		if err != nil {
			return err
		}
		if !contains(active, farmID) {
			return ErrNoActiveAssociation
		}
		switch action {
		case ActionRead:
			return nil
		case ActionWrite:
			if !vetWritable[ref.Class] {
				return ErrRoleNotPermitted
			}
			// Notebook entries stay author-owned even inside a farm; health
			// records and pregnancies may be corrected by any associated vet.
			if ref.Class == ResourceNotebook && ref.OwnerID != "" && ref.OwnerID != user.ID {
				return ErrNotAuthor
			}
			return nil
		case ActionDelete:
			if !vetWritable[ref.Class] {
				return ErrRoleNotPermitted
			}
			if ref.OwnerID != user.ID {
				return ErrNotAuthor
			}
			return nil
		}
		return ErrRoleNotPermitted

	case RoleAgrovets:
		return ErrRoleNotPermitted
	}

	return ErrRoleNotPermitted
}

// ScopeFor returns the list predicate for bulk reads so services can push
// the visibility filter into the query instead of fetching then discarding.
func (e *Engine) ScopeFor(ctx context.Context, user Identity, class ResourceClass) (Scope, error) {
	if user.ID == "" {
		return Scope{}, ErrNotFound
	}

	if class == ResourceListing {
		return Scope{OwnerID: user.ID}, nil
	}

	switch user.Role {
	case RoleFarmer:
		farms, err := e.Farms.FarmIDsOwnedBy(ctx, user.ID)
		if err != nil {
			return Scope{}, err
		}
		if class == ResourceNotebook {
			return Scope{FarmIDs: farms, OwnerID: user.ID}, nil
		}
		return Scope{FarmIDs: farms}, nil

	case RoleVet:
		farms, err := e.Associations.ActiveFarmsFor(ctx, user.ID)
		if err != nil {
			return Scope{}, err
		}
		if class == ResourceNotebook {
			return Scope{FarmIDs: farms, OwnerID: user.ID}, nil
		}
		return Scope{FarmIDs: farms}, nil

	case RoleAgrovets:
		if class == ResourceNotebook {
			// Personal notes only.
			return Scope{OwnerID: user.ID}, nil
		}
		return Scope{}, ErrRoleNotPermitted
	}

	return Scope{}, ErrRoleNotPermitted
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
