// server/internal/policy/resolver.go
package policy

import "context"

// ParentLookup resolves a livestock id to the farm that owns the animal.
// Returns ErrNotFound when the animal does not exist.
type ParentLookup interface {
	FarmIDOfLivestock(ctx context.Context, livestockID string) (string, error)
}

// Resolver maps a resource reference to the farm it belongs to. It performs
// topology resolution only, no authorization, so the engine can apply one
// uniform rule regardless of resource shape.
type Resolver struct {
	Parents ParentLookup
}

// FarmOf returns the farm id for ref, or "" for resources outside the farm
// scope (listings, personal notebook entries).
func (r *Resolver) FarmOf(ctx context.Context, ref Ref) (string, error) {
	switch ref.Class {
	case ResourceListing:
		return "", nil
	case ResourceNotebook:
		// May legitimately be empty: a personal, unscoped note.
		return ref.FarmID, nil
	case ResourceHealthRecord, ResourcePregnancy, ResourceCalf:
		// One hop through the animal.
		if ref.LivestockID == "" {
			return "", ErrNotFound
		}
		return r.Parents.FarmIDOfLivestock(ctx, ref.LivestockID)
	default:
		if ref.FarmID == "" {
			return "", ErrNotFound
		}
		return ref.FarmID, nil
	}
}
