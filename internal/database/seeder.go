// server/internal/database/seeder.go
package database

import (
	"context"
	"log"
	"time"

	"farmlink-api-server/internal/auth"
	"farmlink-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SeedDemoUsers creates one account per role for local development. Skipped
// entirely when any of them already exists.
func SeedDemoUsers(db *mongo.Database) error {
	userCollection := db.Collection("users")

	demos := []struct {
		email string
		name  string
		role  string
		id    string
	}{
		{"farmer@example.com", "Demo Farmer", "farmer", "USR-demofarm"},
		{"vet@example.com", "Demo Vet", "vet", "USR-demovet1"},
		{"agrovet@example.com", "Demo Agrovet", "agrovets", "USR-demoagro"},
	}

	count, err := userCollection.CountDocuments(context.Background(),
		bson.M{"email": bson.M{"$in": []string{demos[0].email, demos[1].email, demos[2].email}}})
	if err != nil {
		return err
	}
	if count > 0 {
		log.Println("Demo users already exist. Seeding skipped.")
		return nil
	}

	log.Println("Seeding demo users...")
	hashedPassword, err := auth.HashPassword("demopassword")
	if err != nil {
		return err
	}

	now := time.Now()
	docs := make([]interface{}, 0, len(demos))
	for _, d := range demos {
		docs = append(docs, models.User{
			UserID:    d.id,
			Email:     d.email,
			Name:      d.name,
			Password:  hashedPassword,
			Role:      d.role,
			Status:    "active",
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	if _, err := userCollection.InsertMany(context.Background(), docs); err != nil {
		return err
	}

	log.Println("Demo users seeded successfully.")
	return nil
}
