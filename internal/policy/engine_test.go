// server/internal/policy/engine_test.go
package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFarms struct {
	owners map[string]string // farmID -> farmer userID
}

func (f *fakeFarms) FarmOwner(ctx context.Context, farmID string) (string, error) {
	owner, ok := f.owners[farmID]
	if !ok {
		return "", ErrNotFound
	}
	return owner, nil
}

func (f *fakeFarms) FarmIDsOwnedBy(ctx context.Context, userID string) ([]string, error) {
	ids := []string{}
	for farmID, owner := range f.owners {
		if owner == userID {
			ids = append(ids, farmID)
		}
	}
	return ids, nil
}

type fakeAssociations struct {
	active map[string][]string // vetID -> farmIDs with accepted associations
}

func (f *fakeAssociations) ActiveFarmsFor(ctx context.Context, vetID string) ([]string, error) {
	return f.active[vetID], nil
}

type fakeParents struct {
	farms map[string]string // livestockID -> farmID
}

func (f *fakeParents) FarmIDOfLivestock(ctx context.Context, livestockID string) (string, error) {
	farmID, ok := f.farms[livestockID]
	if !ok {
		return "", ErrNotFound
	}
	return farmID, nil
}

func newTestEngine(farms *fakeFarms, assocs *fakeAssociations, parents *fakeParents) *Engine {
	if farms == nil {
		farms = &fakeFarms{owners: map[string]string{}}
	}
	if assocs == nil {
		assocs = &fakeAssociations{active: map[string][]string{}}
	}
	if parents == nil {
		parents = &fakeParents{farms: map[string]string{}}
	}
	return NewEngine(farms, assocs, parents)
}

var (
	alice  = Identity{ID: "USR-alice", Role: RoleFarmer}
	bob    = Identity{ID: "USR-bob", Role: RoleFarmer}
	vera   = Identity{ID: "USR-vera", Role: RoleVet}
	victor = Identity{ID: "USR-victor", Role: RoleVet}
	agatha = Identity{ID: "USR-agatha", Role: RoleAgrovets}
)

func TestFarmerAccessOwnFarmOnly(t *testing.T) {
	engine := newTestEngine(&fakeFarms{owners: map[string]string{
		"FARM-a": alice.ID,
		"FARM-b": bob.ID,
	}}, nil, nil)

	ref := Ref{Class: ResourceLivestock, FarmID: "FARM-a"}
	assert.NoError(t, engine.Authorize(context.Background(), alice, ActionRead, ref))
	assert.NoError(t, engine.Authorize(context.Background(), alice, ActionWrite, ref))
	assert.NoError(t, engine.Authorize(context.Background(), alice, ActionDelete, ref))

	err := engine.Authorize(context.Background(), bob, ActionRead, ref)
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestFarmerUnknownFarm(t *testing.T) {
	engine := newTestEngine(&fakeFarms{owners: map[string]string{"FARM-a": alice.ID}}, nil, nil)

	err := engine.Authorize(context.Background(), alice, ActionRead,
		Ref{Class: ResourceFarm, FarmID: "FARM-nope"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVetAccessRequiresAcceptedAssociation(t *testing.T) {
	farms := &fakeFarms{owners: map[string]string{"FARM-a": alice.ID, "FARM-b": bob.ID}}
	assocs := &fakeAssociations{active: map[string][]string{vera.ID: {"FARM-a"}}}
	engine := newTestEngine(farms, assocs, nil)

	ref := Ref{Class: ResourceLivestock, FarmID: "FARM-a"}

	// Accepted association: read allowed.
	assert.NoError(t, engine.Authorize(context.Background(), vera, ActionRead, ref))

	// No association at all: denied as not found.
	err := engine.Authorize(context.Background(), victor, ActionRead, ref)
	assert.ErrorIs(t, err, ErrNoActiveAssociation)

	// Associated with a different farm only.
	err = engine.Authorize(context.Background(), vera, ActionRead,
		Ref{Class: ResourceLivestock, FarmID: "FARM-b"})
	assert.ErrorIs(t, err, ErrNoActiveAssociation)
}

func TestVetDenialHidesFarmExistence(t *testing.T) {
	engine := newTestEngine(&fakeFarms{owners: map[string]string{"FARM-a": alice.ID}}, nil, nil)

	realErr := engine.Authorize(context.Background(), victor, ActionRead,
		Ref{Class: ResourceFarm, FarmID: "FARM-a"})
	fakeErr := engine.Authorize(context.Background(), victor, ActionRead,
		Ref{Class: ResourceFarm, FarmID: "FARM-made-up"})

	// Same verdict whether the farm exists or not.
	assert.ErrorIs(t, realErr, ErrNoActiveAssociation)
	assert.ErrorIs(t, fakeErr, ErrNoActiveAssociation)
}

func TestVetWritableClasses(t *testing.T) {
	assocs := &fakeAssociations{active: map[string][]string{vera.ID: {"FARM-a"}}}
	parents := &fakeParents{farms: map[string]string{"LS-cow": "FARM-a"}}
	engine := newTestEngine(&fakeFarms{owners: map[string]string{"FARM-a": alice.ID}}, assocs, parents)

	// Health records and pregnancies are vet-writable.
	assert.NoError(t, engine.Authorize(context.Background(), vera, ActionWrite,
		Ref{Class: ResourceHealthRecord, LivestockID: "LS-cow"}))
	assert.NoError(t, engine.Authorize(context.Background(), vera, ActionWrite,
		Ref{Class: ResourcePregnancy, LivestockID: "LS-cow"}))

	// Livestock, crops, sales, inventory and calves are read-only for vets.
	for _, ref := range []Ref{
		{Class: ResourceLivestock, FarmID: "FARM-a"},
		{Class: ResourceCrop, FarmID: "FARM-a"},
		{Class: ResourceSale, FarmID: "FARM-a"},
		{Class: ResourceInventory, FarmID: "FARM-a"},
		{Class: ResourceVetContact, FarmID: "FARM-a"},
		{Class: ResourceCalf, LivestockID: "LS-cow"},
	} {
		assert.NoError(t, engine.Authorize(context.Background(), vera, ActionRead, ref), "read %s", ref.Class)
		assert.ErrorIs(t, engine.Authorize(context.Background(), vera, ActionWrite, ref), ErrRoleNotPermitted, "write %s", ref.Class)
		assert.ErrorIs(t, engine.Authorize(context.Background(), vera, ActionDelete, ref), ErrRoleNotPermitted, "delete %s", ref.Class)
	}
}

func TestVetDeleteIsAuthorGated(t *testing.T) {
	assocs := &fakeAssociations{active: map[string][]string{
		vera.ID:   {"FARM-a"},
		victor.ID: {"FARM-a"},
	}}
	parents := &fakeParents{farms: map[string]string{"LS-cow": "FARM-a"}}
	engine := newTestEngine(&fakeFarms{owners: map[string]string{"FARM-a": alice.ID}}, assocs, parents)

	ownRecord := Ref{Class: ResourceHealthRecord, LivestockID: "LS-cow", OwnerID: vera.ID}
	otherRecord := Ref{Class: ResourceHealthRecord, LivestockID: "LS-cow", OwnerID: victor.ID}

	assert.NoError(t, engine.Authorize(context.Background(), vera, ActionDelete, ownRecord))
	assert.ErrorIs(t, engine.Authorize(context.Background(), vera, ActionDelete, otherRecord), ErrNotAuthor)

	// Another associated vet may still correct the record.
	assert.NoError(t, engine.Authorize(context.Background(), vera, ActionWrite, otherRecord))

	// The owning farmer may delete anything on the farm.
	assert.NoError(t, engine.Authorize(context.Background(), alice, ActionDelete, otherRecord))
}

func TestRecordResolvesThroughAnimal(t *testing.T) {
	parents := &fakeParents{farms: map[string]string{"LS-cow": "FARM-a"}}
	engine := newTestEngine(&fakeFarms{owners: map[string]string{"FARM-a": alice.ID}}, nil, parents)

	assert.NoError(t, engine.Authorize(context.Background(), alice, ActionWrite,
		Ref{Class: ResourceHealthRecord, LivestockID: "LS-cow"}))

	err := engine.Authorize(context.Background(), alice, ActionWrite,
		Ref{Class: ResourceHealthRecord, LivestockID: "LS-gone"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAgrovetsDeniedFarmResources(t *testing.T) {
	parents := &fakeParents{farms: map[string]string{"LS-cow": "FARM-a"}}
	engine := newTestEngine(&fakeFarms{owners: map[string]string{"FARM-a": alice.ID}}, nil, parents)

	for _, ref := range []Ref{
		{Class: ResourceFarm, FarmID: "FARM-a"},
		{Class: ResourceLivestock, FarmID: "FARM-a"},
		{Class: ResourceHealthRecord, LivestockID: "LS-cow"},
	} {
		err := engine.Authorize(context.Background(), agatha, ActionRead, ref)
		assert.ErrorIs(t, err, ErrRoleNotPermitted, "read %s", ref.Class)
	}
}

func TestListingRules(t *testing.T) {
	engine := newTestEngine(nil, nil, nil)

	owned := Ref{Class: ResourceListing, OwnerID: agatha.ID}
	foreign := Ref{Class: ResourceListing, OwnerID: "USR-other"}

	// Anyone authenticated may read listings.
	assert.NoError(t, engine.Authorize(context.Background(), alice, ActionRead, foreign))
	assert.NoError(t, engine.Authorize(context.Background(), agatha, ActionRead, foreign))

	// Mutation is creator-only.
	assert.NoError(t, engine.Authorize(context.Background(), agatha, ActionWrite, owned))
	assert.NoError(t, engine.Authorize(context.Background(), agatha, ActionDelete, owned))
	assert.ErrorIs(t, engine.Authorize(context.Background(), agatha, ActionWrite, foreign), ErrNotOwner)
}

func TestPersonalNotebookIsPrivate(t *testing.T) {
	engine := newTestEngine(nil, nil, nil)

	note := Ref{Class: ResourceNotebook, OwnerID: vera.ID}

	assert.NoError(t, engine.Authorize(context.Background(), vera, ActionRead, note))
	assert.NoError(t, engine.Authorize(context.Background(), vera, ActionWrite, note))
	assert.NoError(t, engine.Authorize(context.Background(), vera, ActionDelete, note))

	// Other users get not-found, never forbidden: the note's existence is
	// itself private.
	assert.ErrorIs(t, engine.Authorize(context.Background(), alice, ActionRead, note), ErrNotFound)
	assert.ErrorIs(t, engine.Authorize(context.Background(), agatha, ActionRead, note), ErrNotFound)
}

func TestFarmNotebookFollowsFarmScope(t *testing.T) {
	farms := &fakeFarms{owners: map[string]string{"FARM-a": alice.ID}}
	assocs := &fakeAssociations{active: map[string][]string{vera.ID: {"FARM-a"}}}
	engine := newTestEngine(farms, assocs, nil)

	entry := Ref{Class: ResourceNotebook, FarmID: "FARM-a", OwnerID: vera.ID}

	assert.NoError(t, engine.Authorize(context.Background(), alice, ActionRead, entry))
	assert.NoError(t, engine.Authorize(context.Background(), vera, ActionRead, entry))
	assert.NoError(t, engine.Authorize(context.Background(), vera, ActionWrite, entry))

	// A different vet on the same farm may read but not rewrite Vera's entry.
	assocs.active[victor.ID] = []string{"FARM-a"}
	assert.NoError(t, engine.Authorize(context.Background(), victor, ActionRead, entry))
	assert.ErrorIs(t, engine.Authorize(context.Background(), victor, ActionWrite, entry), ErrNotAuthor)
	assert.ErrorIs(t, engine.Authorize(context.Background(), victor, ActionDelete, entry), ErrNotAuthor)
}

func TestRevocationCutsAccessImmediately(t *testing.T) {
	farms := &fakeFarms{owners: map[string]string{"FARM-a": alice.ID}}
	assocs := &fakeAssociations{active: map[string][]string{vera.ID: {"FARM-a"}}}
	engine := newTestEngine(farms, assocs, nil)

	ref := Ref{Class: ResourceLivestock, FarmID: "FARM-a"}
	require.NoError(t, engine.Authorize(context.Background(), vera, ActionRead, ref))

	// Revoke: the engine reads ledger state fresh on every call, so the next
	// decision flips with no cache to invalidate.
	assocs.active[vera.ID] = nil
	assert.ErrorIs(t, engine.Authorize(context.Background(), vera, ActionRead, ref), ErrNoActiveAssociation)
}

func TestScopeForFarmer(t *testing.T) {
	farms := &fakeFarms{owners: map[string]string{"FARM-a": alice.ID, "FARM-b": bob.ID}}
	engine := newTestEngine(farms, nil, nil)

	scope, err := engine.ScopeFor(context.Background(), alice, ResourceLivestock)
	require.NoError(t, err)
	assert.Equal(t, []string{"FARM-a"}, scope.FarmIDs)
	assert.Empty(t, scope.OwnerID)
}

func TestScopeForVet(t *testing.T) {
	assocs := &fakeAssociations{active: map[string][]string{vera.ID: {"FARM-a", "FARM-c"}}}
	engine := newTestEngine(nil, assocs, nil)

	scope, err := engine.ScopeFor(context.Background(), vera, ResourceLivestock)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"FARM-a", "FARM-c"}, scope.FarmIDs)

	// Vet with no accepted association sees an empty scope, not an error.
	scope, err = engine.ScopeFor(context.Background(), victor, ResourceLivestock)
	require.NoError(t, err)
	assert.Empty(t, scope.FarmIDs)
}

func TestScopeForNotebookIncludesOwner(t *testing.T) {
	farms := &fakeFarms{owners: map[string]string{"FARM-a": alice.ID}}
	engine := newTestEngine(farms, nil, nil)

	scope, err := engine.ScopeFor(context.Background(), alice, ResourceNotebook)
	require.NoError(t, err)
	assert.Equal(t, []string{"FARM-a"}, scope.FarmIDs)
	assert.Equal(t, alice.ID, scope.OwnerID)
}

func TestScopeForAgrovets(t *testing.T) {
	engine := newTestEngine(nil, nil, nil)

	// Listings and personal notes work, farm-scoped classes do not.
	scope, err := engine.ScopeFor(context.Background(), agatha, ResourceListing)
	require.NoError(t, err)
	assert.Equal(t, agatha.ID, scope.OwnerID)

	scope, err = engine.ScopeFor(context.Background(), agatha, ResourceNotebook)
	require.NoError(t, err)
	assert.Equal(t, agatha.ID, scope.OwnerID)
	assert.Empty(t, scope.FarmIDs)

	_, err = engine.ScopeFor(context.Background(), agatha, ResourceLivestock)
	assert.ErrorIs(t, err, ErrRoleNotPermitted)
}

func TestAnonymousIdentityDenied(t *testing.T) {
	engine := newTestEngine(nil, nil, nil)

	err := engine.Authorize(context.Background(), Identity{}, ActionRead,
		Ref{Class: ResourceFarm, FarmID: "FARM-a"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = engine.ScopeFor(context.Background(), Identity{}, ResourceFarm)
	assert.ErrorIs(t, err, ErrNotFound)
}
