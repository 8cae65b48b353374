// server/internal/database/store.go
package database

import (
	"context"
	"errors"
	"time"

	"farmlink-api-server/internal/models"
	"farmlink-api-server/internal/policy"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store implements the persistence interfaces of the ledger and the policy
// engine on top of MongoDB. Mongo driver errors are translated to the policy
// taxonomy at this boundary; anything else propagates as a storage fault.
type Store struct {
	DB *mongo.Database
}

func NewStore(db *mongo.Database) *Store {
	return &Store{DB: db}
}

func translate(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return policy.ErrNotFound
	}
	return err
}

// --- ledger.Store ---

func (s *Store) FarmByID(ctx context.Context, farmID string) (*models.Farm, error) {
	var farm models.Farm
	err := s.DB.Collection("farms").FindOne(ctx, bson.M{"farmID": farmID}).Decode(&farm)
	if err != nil {
		return nil, translate(err)
	}
	return &farm, nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.DB.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Store) AssociationByID(ctx context.Context, associationID string) (*models.Association, error) {
	var assoc models.Association
	err := s.DB.Collection("associations").FindOne(ctx, bson.M{"associationID": associationID}).Decode(&assoc)
	if err != nil {
		return nil, translate(err)
	}
	return &assoc, nil
}

func (s *Store) AssociationByFarmAndVet(ctx context.Context, farmID, vetID string) (*models.Association, error) {
	var assoc models.Association
	err := s.DB.Collection("associations").FindOne(ctx, bson.M{"farmID": farmID, "vetID": vetID}).Decode(&assoc)
	if err != nil {
		return nil, translate(err)
	}
	return &assoc, nil
}

func (s *Store) InsertAssociation(ctx context.Context, assoc *models.Association) error {
	_, err := s.DB.Collection("associations").InsertOne(ctx, assoc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return policy.ErrConflict
		}
		return err
	}
	return nil
}

func (s *Store) UpdateAssociationStatus(ctx context.Context, associationID string, from, to models.InvitationStatus) (*models.Association, error) {
	var assoc models.Association
	err := s.DB.Collection("associations").FindOneAndUpdate(ctx,
		bson.M{"associationID": associationID, "invitationStatus": from},
		bson.M{"$set": bson.M{"invitationStatus": to, "updatedAt": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&assoc)
	if err != nil {
		return nil, translate(err)
	}
	return &assoc, nil
}

func (s *Store) UpdateAssociationVisit(ctx context.Context, associationID string, visitDate time.Time, notes string) (*models.Association, error) {
	var assoc models.Association
	err := s.DB.Collection("associations").FindOneAndUpdate(ctx,
		bson.M{"associationID": associationID, "invitationStatus": models.InvitationAccepted},
		bson.M{"$set": bson.M{"lastVisitDate": visitDate, "notes": notes, "updatedAt": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&assoc)
	if err != nil {
		return nil, translate(err)
	}
	return &assoc, nil
}

func (s *Store) DeleteAssociation(ctx context.Context, associationID string) error {
	result, err := s.DB.Collection("associations").DeleteOne(ctx, bson.M{"associationID": associationID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return policy.ErrNotFound
	}
	return nil
}

func (s *Store) AcceptedFarmIDs(ctx context.Context, vetID string) ([]string, error) {
	cursor, err := s.DB.Collection("associations").Find(ctx,
		bson.M{"vetID": vetID, "invitationStatus": models.InvitationAccepted})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	farmIDs := []string{}
	for cursor.Next(ctx) {
		var assoc models.Association
		if err := cursor.Decode(&assoc); err != nil {
			return nil, err
		}
		farmIDs = append(farmIDs, assoc.FarmID)
	}
	return farmIDs, cursor.Err()
}

// --- policy.FarmDirectory ---

func (s *Store) FarmOwner(ctx context.Context, farmID string) (string, error) {
	farm, err := s.FarmByID(ctx, farmID)
	if err != nil {
		return "", err
	}
	return farm.FarmerID, nil
}

func (s *Store) FarmIDsOwnedBy(ctx context.Context, userID string) ([]string, error) {
	cursor, err := s.DB.Collection("farms").Find(ctx, bson.M{"farmerID": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	farmIDs := []string{}
	for cursor.Next(ctx) {
		var farm models.Farm
		if err := cursor.Decode(&farm); err != nil {
			return nil, err
		}
		farmIDs = append(farmIDs, farm.FarmID)
	}
	return farmIDs, cursor.Err()
}

// --- policy.ParentLookup ---

func (s *Store) FarmIDOfLivestock(ctx context.Context, livestockID string) (string, error) {
	var animal models.Livestock
	err := s.DB.Collection("livestock").FindOne(ctx, bson.M{"livestockID": livestockID}).Decode(&animal)
	if err != nil {
		return "", translate(err)
	}
	return animal.FarmID, nil
}
