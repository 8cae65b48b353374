// server/internal/ledger/ledger_test.go
package ledger

import (
	"context"
	"testing"
	"time"

	"farmlink-api-server/internal/models"
	"farmlink-api-server/internal/policy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory Store with the same conditional-update semantics
// as the MongoDB implementation.
type memStore struct {
	farms        map[string]*models.Farm
	users        map[string]*models.User // keyed by email
	associations map[string]*models.Association
}

func newMemStore() *memStore {
	return &memStore{
		farms:        map[string]*models.Farm{},
		users:        map[string]*models.User{},
		associations: map[string]*models.Association{},
	}
}

func (m *memStore) FarmByID(ctx context.Context, farmID string) (*models.Farm, error) {
	farm, ok := m.farms[farmID]
	if !ok {
		return nil, policy.ErrNotFound
	}
	return farm, nil
}

func (m *memStore) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := m.users[email]
	if !ok {
		return nil, policy.ErrNotFound
	}
	return user, nil
}

func (m *memStore) AssociationByID(ctx context.Context, associationID string) (*models.Association, error) {
	assoc, ok := m.associations[associationID]
	if !ok {
		return nil, policy.ErrNotFound
	}
	copied := *assoc
	return &copied, nil
}

func (m *memStore) AssociationByFarmAndVet(ctx context.Context, farmID, vetID string) (*models.Association, error) {
	for _, assoc := range m.associations {
		if assoc.FarmID == farmID && assoc.VetID == vetID {
			copied := *assoc
			return &copied, nil
		}
	}
	return nil, policy.ErrNotFound
}

func (m *memStore) InsertAssociation(ctx context.Context, assoc *models.Association) error {
	for _, existing := range m.associations {
		if existing.FarmID == assoc.FarmID && existing.VetID == assoc.VetID {
			return policy.ErrConflict
		}
	}
	copied := *assoc
	m.associations[assoc.AssociationID] = &copied
	return nil
}

func (m *memStore) UpdateAssociationStatus(ctx context.Context, associationID string, from, to models.InvitationStatus) (*models.Association, error) {
	assoc, ok := m.associations[associationID]
	if !ok || assoc.InvitationStatus != from {
		return nil, policy.ErrNotFound
	}
	assoc.InvitationStatus = to
	assoc.UpdatedAt = time.Now()
	copied := *assoc
	return &copied, nil
}

func (m *memStore) UpdateAssociationVisit(ctx context.Context, associationID string, visitDate time.Time, notes string) (*models.Association, error) {
	assoc, ok := m.associations[associationID]
	if !ok || assoc.InvitationStatus != models.InvitationAccepted {
		return nil, policy.ErrNotFound
	}
	assoc.LastVisitDate = &visitDate
	assoc.Notes = notes
	assoc.UpdatedAt = time.Now()
	copied := *assoc
	return &copied, nil
}

func (m *memStore) DeleteAssociation(ctx context.Context, associationID string) error {
	if _, ok := m.associations[associationID]; !ok {
		return policy.ErrNotFound
	}
	delete(m.associations, associationID)
	return nil
}

func (m *memStore) AcceptedFarmIDs(ctx context.Context, vetID string) ([]string, error) {
	farmIDs := []string{}
	for _, assoc := range m.associations {
		if assoc.VetID == vetID && assoc.InvitationStatus == models.InvitationAccepted {
			farmIDs = append(farmIDs, assoc.FarmID)
		}
	}
	return farmIDs, nil
}

func setup() (*Ledger, *memStore) {
	store := newMemStore()
	store.farms["FARM-a"] = &models.Farm{FarmID: "FARM-a", FarmerID: "USR-alice"}
	store.farms["FARM-b"] = &models.Farm{FarmID: "FARM-b", FarmerID: "USR-bob"}
	store.users["vera@example.com"] = &models.User{UserID: "USR-vera", Email: "vera@example.com", Role: "vet"}
	store.users["carl@example.com"] = &models.User{UserID: "USR-carl", Email: "carl@example.com", Role: "farmer"}
	return New(store), store
}

func TestInviteCreatesPendingAssociation(t *testing.T) {
	ldg, _ := setup()

	assoc, err := ldg.Invite(context.Background(), "USR-alice", "FARM-a", "vera@example.com")
	require.NoError(t, err)
	assert.Equal(t, "FARM-a", assoc.FarmID)
	assert.Equal(t, "USR-vera", assoc.VetID)
	assert.Equal(t, "USR-alice", assoc.InvitedBy)
	assert.Equal(t, models.InvitationPending, assoc.InvitationStatus)
	assert.NotEmpty(t, assoc.AssociationID)
}

func TestInviteNormalizesEmail(t *testing.T) {
	ldg, _ := setup()

	assoc, err := ldg.Invite(context.Background(), "USR-alice", "FARM-a", "  Vera@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, "USR-vera", assoc.VetID)
}

func TestInviteOnlyByFarmOwner(t *testing.T) {
	ldg, _ := setup()

	_, err := ldg.Invite(context.Background(), "USR-bob", "FARM-a", "vera@example.com")
	assert.ErrorIs(t, err, policy.ErrNotOwner)

	_, err = ldg.Invite(context.Background(), "USR-alice", "FARM-missing", "vera@example.com")
	assert.ErrorIs(t, err, policy.ErrNotFound)
}

func TestInviteRejectsNonVet(t *testing.T) {
	ldg, _ := setup()

	_, err := ldg.Invite(context.Background(), "USR-alice", "FARM-a", "carl@example.com")
	assert.ErrorIs(t, err, policy.ErrRoleMismatch)

	_, err = ldg.Invite(context.Background(), "USR-alice", "FARM-a", "nobody@example.com")
	assert.ErrorIs(t, err, policy.ErrNotFound)
}

func TestInviteConflictReportsExistingStatus(t *testing.T) {
	ldg, _ := setup()

	first, err := ldg.Invite(context.Background(), "USR-alice", "FARM-a", "vera@example.com")
	require.NoError(t, err)

	// Second invite while pending.
	_, err = ldg.Invite(context.Background(), "USR-alice", "FARM-a", "vera@example.com")
	require.ErrorIs(t, err, policy.ErrConflict)
	assert.Contains(t, err.Error(), "pending")

	// Second invite after acceptance reports accepted instead.
	_, err = ldg.Respond(context.Background(), "USR-vera", first.AssociationID, models.InvitationAccepted)
	require.NoError(t, err)
	_, err = ldg.Invite(context.Background(), "USR-alice", "FARM-a", "vera@example.com")
	require.ErrorIs(t, err, policy.ErrConflict)
	assert.Contains(t, err.Error(), "accepted")
}

func TestRespondAccept(t *testing.T) {
	ldg, _ := setup()

	assoc, err := ldg.Invite(context.Background(), "USR-alice", "FARM-a", "vera@example.com")
	require.NoError(t, err)

	updated, err := ldg.Respond(context.Background(), "USR-vera", assoc.AssociationID, models.InvitationAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.InvitationAccepted, updated.InvitationStatus)

	farms, err := ldg.ActiveFarmsFor(context.Background(), "USR-vera")
	require.NoError(t, err)
	assert.Equal(t, []string{"FARM-a"}, farms)
}

func TestRespondRejectGrantsNothing(t *testing.T) {
	ldg, _ := setup()

	assoc, err := ldg.Invite(context.Background(), "USR-alice", "FARM-a", "vera@example.com")
	require.NoError(t, err)

	updated, err := ldg.Respond(context.Background(), "USR-vera", assoc.AssociationID, models.InvitationRejected)
	require.NoError(t, err)
	assert.Equal(t, models.InvitationRejected, updated.InvitationStatus)

	farms, err := ldg.ActiveFarmsFor(context.Background(), "USR-vera")
	require.NoError(t, err)
	assert.Empty(t, farms)
}

func TestRespondIsOneShot(t *testing.T) {
	ldg, _ := setup()

	assoc, err := ldg.Invite(context.Background(), "USR-alice", "FARM-a", "vera@example.com")
	require.NoError(t, err)

	_, err = ldg.Respond(context.Background(), "USR-vera", assoc.AssociationID, models.InvitationAccepted)
	require.NoError(t, err)

	// Any further resolution fails, including flipping the decision.
	_, err = ldg.Respond(context.Background(), "USR-vera", assoc.AssociationID, models.InvitationRejected)
	assert.ErrorIs(t, err, policy.ErrInvalidTransition)
	_, err = ldg.Respond(context.Background(), "USR-vera", assoc.AssociationID, models.InvitationAccepted)
	assert.ErrorIs(t, err, policy.ErrInvalidTransition)
}

func TestRespondValidatesDecisionAndCaller(t *testing.T) {
	ldg, _ := setup()

	assoc, err := ldg.Invite(context.Background(), "USR-alice", "FARM-a", "vera@example.com")
	require.NoError(t, err)

	// Only accepted/rejected are decisions.
	_, err = ldg.Respond(context.Background(), "USR-vera", assoc.AssociationID, models.InvitationPending)
	assert.ErrorIs(t, err, policy.ErrInvalidTransition)

	// Another vet cannot see, let alone answer, this invitation.
	_, err = ldg.Respond(context.Background(), "USR-victor", assoc.AssociationID, models.InvitationAccepted)
	assert.ErrorIs(t, err, policy.ErrNotFound)
}

func TestRecordVisitRequiresAcceptedAssociation(t *testing.T) {
	ldg, _ := setup()

	assoc, err := ldg.Invite(context.Background(), "USR-alice", "FARM-a", "vera@example.com")
	require.NoError(t, err)

	visitDate := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	// Pending: no visits yet.
	_, err = ldg.RecordVisit(context.Background(), "USR-vera", assoc.AssociationID, visitDate, "checkup")
	assert.ErrorIs(t, err, policy.ErrNoActiveAssociation)

	_, err = ldg.Respond(context.Background(), "USR-vera", assoc.AssociationID, models.InvitationAccepted)
	require.NoError(t, err)

	updated, err := ldg.RecordVisit(context.Background(), "USR-vera", assoc.AssociationID, visitDate, "checkup")
	require.NoError(t, err)
	require.NotNil(t, updated.LastVisitDate)
	assert.True(t, updated.LastVisitDate.Equal(visitDate))
	assert.Equal(t, "checkup", updated.Notes)

	// A different vet cannot touch the record.
	_, err = ldg.RecordVisit(context.Background(), "USR-victor", assoc.AssociationID, visitDate, "")
	assert.ErrorIs(t, err, policy.ErrNotFound)
}

func TestRevoke(t *testing.T) {
	ldg, store := setup()

	assoc, err := ldg.Invite(context.Background(), "USR-alice", "FARM-a", "vera@example.com")
	require.NoError(t, err)
	_, err = ldg.Respond(context.Background(), "USR-vera", assoc.AssociationID, models.InvitationAccepted)
	require.NoError(t, err)

	// Only the farm owner may revoke.
	err = ldg.Revoke(context.Background(), "USR-bob", assoc.AssociationID)
	assert.ErrorIs(t, err, policy.ErrNotOwner)

	err = ldg.Revoke(context.Background(), "USR-alice", assoc.AssociationID)
	require.NoError(t, err)
	assert.Empty(t, store.associations)

	farms, err := ldg.ActiveFarmsFor(context.Background(), "USR-vera")
	require.NoError(t, err)
	assert.Empty(t, farms)

	// A fresh invite for the same pair is allowed after revocation.
	_, err = ldg.Invite(context.Background(), "USR-alice", "FARM-a", "vera@example.com")
	assert.NoError(t, err)
}

func TestRevokeUnknownAssociation(t *testing.T) {
	ldg, _ := setup()

	err := ldg.Revoke(context.Background(), "USR-alice", "ASSOC-missing")
	assert.ErrorIs(t, err, policy.ErrNotFound)
}
