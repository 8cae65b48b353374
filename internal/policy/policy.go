// server/internal/policy/policy.go
package policy

// Role is the closed set of user roles. It never changes after signup.
type Role string

const (
	RoleFarmer   Role = "farmer"
	RoleVet      Role = "vet"
	RoleAgrovets Role = "agrovets"
)

// ValidRole reports whether s names one of the three platform roles.
func ValidRole(s string) bool {
	switch Role(s) {
	case RoleFarmer, RoleVet, RoleAgrovets:
		return true
	}
	return false
}

// Action is what the caller wants to do with a resource.
type Action string

const (
	ActionRead   Action = "read"
	ActionWrite  Action = "write"
	ActionDelete Action = "delete"
)

// ResourceClass identifies the kind of resource a decision is about.
type ResourceClass string

const (
	ResourceFarm         ResourceClass = "farm"
	ResourceCrop         ResourceClass = "crop"
	ResourceLivestock    ResourceClass = "livestock"
	ResourceCalf         ResourceClass = "calf"
	ResourceHealthRecord ResourceClass = "health_record"
	ResourcePregnancy    ResourceClass = "pregnancy"
	ResourceSale         ResourceClass = "sale"
	ResourceInventory    ResourceClass = "inventory"
	ResourceVetContact   ResourceClass = "vet_contact"
	ResourceNotebook     ResourceClass = "notebook"
	ResourceListing      ResourceClass = "listing"
)

// Identity is the authenticated caller as resolved from the session token.
type Identity struct {
	ID   string
	Role Role
}

// Ref describes one resource instance to the engine. FarmID is set for
// resources that carry their farm directly, LivestockID for resources that
// reach it through an animal. OwnerID is the authoring or owning user where
// an author rule applies (health records, notebook entries, listings).
type Ref struct {
	Class       ResourceClass
	FarmID      string
	LivestockID string
	OwnerID     string
}

// Scope is the predicate applied to list queries: resources on one of
// FarmIDs, or owned by OwnerID, are visible. A nil/empty FarmIDs with an
// empty OwnerID matches nothing.
type Scope struct {
	FarmIDs []string
	OwnerID string
}
